// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handshake

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Kind identifies the wire transport used for a handshake.
type Kind int

const (
	// KindTCP is plain TCP with a minimal HTTP/1.1 request frame.
	KindTCP Kind = iota
	// KindTLS is the same frame over a TLS-wrapped TCP connection.
	KindTLS
	// KindWS is WebSocket message framing over an insecure connection.
	KindWS
	// KindWSS is WebSocket message framing over TLS.
	KindWSS
)

func (k Kind) String() string {
	switch k {
	case KindTCP:
		return "tcp"
	case KindTLS:
		return "tls"
	case KindWS:
		return "ws"
	case KindWSS:
		return "wss"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a transport name to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "tcp":
		return KindTCP, nil
	case "tls":
		return KindTLS, nil
	case "ws":
		return KindWS, nil
	case "wss":
		return KindWSS, nil
	default:
		return 0, fmt.Errorf("unknown transport kind: %q", s)
	}
}

// Secure reports whether the kind carries TLS.
func (k Kind) Secure() bool {
	return k == KindTLS || k == KindWSS
}

// RawSocket reports whether the kind uses the raw-socket frame, whose
// response still carries HTTP headers that the caller must strip.
func (k Kind) RawSocket() bool {
	return k == KindTCP || k == KindTLS
}

// Endpoint is a resolved network address. It is supplied by the caller and
// never re-resolved here; Host keeps the original name so the TLS path can
// validate it against the peer certificate.
type Endpoint struct {
	Host string
	Port uint16
}

// String renders the endpoint in dialable host:port form, bracketing
// IPv6 literals.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(int(e.Port)))
}

// Transport performs one connect-send-receive exchange with a remote node.
//
// Exchange returns the raw transport frame: for raw-socket transports this
// includes the HTTP response headers, for WebSocket it is the first data
// frame verbatim. ctx cancels dialing; once connected the exchange runs to
// completion or error. Timeout support is transport-specific: the plain TCP
// path turns it into a best-effort IP TTL hint, the TLS and WebSocket paths
// accept it without enforcing a deadline.
type Transport interface {
	Exchange(ctx context.Context, timeout time.Duration, payload []byte) ([]byte, error)
}

// NewTransport builds the Transport for a kind, bound to the endpoint.
// Selection is total over the four kinds and cannot fail; only the
// connection attempt can.
func NewTransport(kind Kind, endpoint Endpoint, log *zap.Logger) Transport {
	if log == nil {
		log = zap.NewNop()
	}
	switch kind {
	case KindTLS:
		return &rawSocketTransport{remote: endpoint, secure: true, log: log}
	case KindWS:
		return &wsTransport{remote: endpoint.String(), secure: false, log: log}
	case KindWSS:
		return &wsTransport{remote: endpoint.String(), secure: true, log: log}
	default: // KindTCP
		return &rawSocketTransport{remote: endpoint, secure: false, log: log}
	}
}
