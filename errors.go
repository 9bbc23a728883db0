// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handshake

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"

	"github.com/gorilla/websocket"
)

// ErrKind classifies a transport failure into the shared taxonomy.
type ErrKind string

const (
	// ErrKindAddressResolution marks endpoints that cannot form a connection,
	// such as a TLS name that fails DNS-identifier validation.
	ErrKindAddressResolution ErrKind = "ADDRESS_RESOLUTION"
	// ErrKindConnection marks socket or WebSocket connect failures and
	// connection-closed conditions.
	ErrKindConnection ErrKind = "CONNECTION"
	// ErrKindTLS marks TLS handshake and certificate failures.
	ErrKindTLS ErrKind = "TLS"
	// ErrKindProtocol marks malformed frames, capacity overruns, and other
	// unexpected message structure.
	ErrKindProtocol ErrKind = "PROTOCOL"
	// ErrKindEncoding marks non-UTF-8 payloads where text was required.
	ErrKindEncoding ErrKind = "ENCODING"
	// ErrKindIO marks read/write failures not otherwise classified.
	ErrKindIO ErrKind = "IO"
	// ErrKindOther is the catch-all for unrecognized transport failures.
	ErrKindOther ErrKind = "OTHER"
)

func (k ErrKind) String() string { return string(k) }

// Error is a normalized transport failure: a taxonomy kind plus the
// original cause. It carries no retained state beyond the message.
type Error struct {
	Kind  ErrKind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.cause }

// newError creates an Error without an underlying cause.
func newError(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

// wrapError creates an Error preserving the cause for errors.Is/As chains.
func wrapError(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, msg: msg, cause: cause}
}

// KindOf extracts the taxonomy kind from an error chain.
// Unclassified errors report ErrKindOther.
func KindOf(err error) ErrKind {
	var he *Error
	if errors.As(err, &he) {
		return he.Kind
	}
	return ErrKindOther
}

// IsKind reports whether any error in the chain carries the given kind.
func IsKind(err error, kind ErrKind) bool {
	var he *Error
	if errors.As(err, &he) {
		return he.Kind == kind
	}
	return false
}

// Classify maps any transport-layer failure onto the taxonomy, preserving
// the original error as the cause. It is total: every input maps to exactly
// one kind and nothing panics; unrecognized errors fold into ErrKindOther.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	// Already normalized.
	var he *Error
	if errors.As(err, &he) {
		return he
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return wrapError(ErrKindAddressResolution, "address resolution failed", err)
	}

	if kind, ok := classifyTLS(err); ok {
		return wrapError(kind, "tls failure", err)
	}

	if kind, ok := classifyWebSocket(err); ok {
		return wrapError(kind, "websocket failure", err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return wrapError(ErrKindAddressResolution, "malformed url", err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" {
			return wrapError(ErrKindConnection, "connect failed", err)
		}
		return wrapError(ErrKindIO, "socket i/o failed", err)
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, net.ErrClosed):
		return wrapError(ErrKindConnection, "connection failed", err)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return wrapError(ErrKindIO, "stream ended unexpectedly", err)
	}

	return wrapError(ErrKindOther, "unrecognized transport failure", err)
}

// classifyTLS recognizes crypto/tls and crypto/x509 failure shapes.
func classifyTLS(err error) (ErrKind, bool) {
	var (
		recordErr  tls.RecordHeaderError
		verifyErr  *tls.CertificateVerificationError
		unknownCA  x509.UnknownAuthorityError
		invalidErr x509.CertificateInvalidError
		hostErr    x509.HostnameError
	)
	switch {
	case errors.As(err, &recordErr),
		errors.As(err, &verifyErr),
		errors.As(err, &unknownCA),
		errors.As(err, &invalidErr),
		errors.As(err, &hostErr):
		return ErrKindTLS, true
	}
	return "", false
}

// classifyWebSocket recognizes gorilla/websocket failure shapes.
func classifyWebSocket(err error) (ErrKind, bool) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.CloseMessageTooBig, websocket.CloseProtocolError,
			websocket.ClosePolicyViolation, websocket.CloseUnsupportedData:
			return ErrKindProtocol, true
		case websocket.CloseInvalidFramePayloadData:
			return ErrKindEncoding, true
		default:
			return ErrKindConnection, true
		}
	}
	if errors.Is(err, websocket.ErrBadHandshake) {
		return ErrKindProtocol, true
	}
	if errors.Is(err, websocket.ErrReadLimit) {
		return ErrKindProtocol, true
	}
	if errors.Is(err, websocket.ErrCloseSent) {
		return ErrKindConnection, true
	}
	return "", false
}
