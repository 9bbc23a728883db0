// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handshake

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/net/ipv4"
)

const (
	// defaultTTLSeconds is used for the plain-TCP TTL hint when the caller
	// supplies no timeout.
	defaultTTLSeconds = 60

	// readBufferSize caps the plain-TCP response: the transport performs a
	// single read and does not accumulate, so larger replies are truncated.
	readBufferSize = 1024
)

// rawSocketTransport exchanges a minimal HTTP/1.1 request over a byte-stream
// socket, optionally TLS-wrapped. The returned frame includes the HTTP
// response headers; stripping them is the caller's job.
type rawSocketTransport struct {
	remote Endpoint
	secure bool
	log    *zap.Logger
}

// buildRequestFrame assembles the wire frame around the serialized payload:
// request line, Host, Content-Type, Connection: close, Content-Length, then
// the body after a blank line, terminated by CRLF.
func buildRequestFrame(remote string, payload []byte) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "POST / HTTP/1.1\r\n")
	fmt.Fprintf(&b, "Host: %s\r\n", remote)
	fmt.Fprintf(&b, "Content-Type: application/json\r\n")
	fmt.Fprintf(&b, "Connection: close\r\n")
	fmt.Fprintf(&b, "Content-Length: %d\r\n\r\n", len(payload))
	b.Write(payload)
	b.WriteString("\r\n")
	return []byte(b.String())
}

func (t *rawSocketTransport) Exchange(ctx context.Context, timeout time.Duration, payload []byte) ([]byte, error) {
	frame := buildRequestFrame(t.remote.String(), payload)

	t.log.Info("connecting to remote tcp endpoint",
		zap.String("remote", t.remote.String()),
		zap.Bool("secure", t.secure))

	if t.secure {
		return t.exchangeTLS(ctx, frame)
	}
	return t.exchangeTCP(ctx, timeout, frame)
}

// validateServerName rejects hosts that cannot serve as a TLS server name:
// empty hosts and bare IP literals, which certificate validation would
// refuse anyway absent a resolvable name.
func validateServerName(host string) error {
	if host == "" {
		return newError(ErrKindAddressResolution, "empty host is not a valid TLS server name")
	}
	if net.ParseIP(host) != nil {
		return newError(ErrKindAddressResolution,
			fmt.Sprintf("ip literal %q is not a valid TLS server name", host))
	}
	return nil
}

// exchangeTLS dials, performs a TLS handshake against the system root CA
// pool with no client certificate, writes the frame, and reads until EOF
// (Connection: close guarantees the peer closes after responding).
// No deadline is applied beyond dial cancellation via ctx.
func (t *rawSocketTransport) exchangeTLS(ctx context.Context, frame []byte) ([]byte, error) {
	if err := validateServerName(t.remote.Host); err != nil {
		return nil, err
	}

	roots, err := x509.SystemCertPool()
	if err != nil {
		return nil, wrapError(ErrKindTLS, "load root ca bundle", err)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", t.remote.String())
	if err != nil {
		return nil, wrapError(ErrKindConnection, "dial "+t.remote.String(), err)
	}
	tlsConn := tls.Client(conn, &tls.Config{
		RootCAs:    roots,
		ServerName: t.remote.Host,
	})
	defer tlsConn.Close()

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		return nil, wrapError(ErrKindTLS, "tls handshake with "+t.remote.Host, err)
	}

	if _, err := tlsConn.Write(frame); err != nil {
		return nil, wrapError(ErrKindIO, "write request frame", err)
	}
	t.log.Debug("sent message payload", zap.Int("bytes", len(frame)))

	body, err := io.ReadAll(tlsConn)
	if err != nil {
		return nil, wrapError(ErrKindIO, "read response", err)
	}
	t.log.Debug("received message", zap.Int("bytes", len(body)))

	return []byte(toValidUTF8(body)), nil
}

// exchangeTCP dials plain TCP, applies a best-effort IP TTL derived from the
// timeout, writes the frame, and returns the first successful read. There is
// no accumulation across reads, so the response is capped at readBufferSize.
func (t *rawSocketTransport) exchangeTCP(ctx context.Context, timeout time.Duration, frame []byte) ([]byte, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", t.remote.String())
	if err != nil {
		return nil, wrapError(ErrKindConnection, "dial "+t.remote.String(), err)
	}
	defer conn.Close()

	// TTL hint only; failure to set it is not fatal.
	ttl := defaultTTLSeconds
	if timeout > 0 {
		ttl = int(timeout / time.Second)
		if ttl < 1 {
			ttl = 1
		}
	}
	_ = ipv4.NewConn(conn).SetTTL(ttl)

	if _, err := conn.Write(frame); err != nil {
		return nil, wrapError(ErrKindIO, "write request frame", err)
	}
	t.log.Debug("sent message payload", zap.Int("bytes", len(frame)))

	buf := make([]byte, readBufferSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, wrapError(ErrKindIO, "read response", err)
	}
	t.log.Debug("received message", zap.Int("bytes", n))

	body := strings.TrimRightFunc(toValidUTF8(buf[:n]), unicode.IsSpace)
	return []byte(body), nil
}

// toValidUTF8 decodes bytes as UTF-8 lossily, replacing invalid sequences
// with U+FFFD.
func toValidUTF8(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
