// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handshake

import (
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/gorilla/websocket"
)

func TestClassifyNil(t *testing.T) {
	if got := Classify(nil); got != nil {
		t.Errorf("Classify(nil) = %v", got)
	}
}

func TestClassifyPassthrough(t *testing.T) {
	orig := newError(ErrKindTLS, "handshake failed")
	wrapped := fmt.Errorf("context: %w", orig)
	if got := Classify(wrapped); got.Kind != ErrKindTLS {
		t.Errorf("Classify kept kind %s, want %s", got.Kind, ErrKindTLS)
	}
}

func TestClassifyTotal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrKind
	}{
		{
			name: "dns failure",
			err:  &net.DNSError{Err: "no such host", Name: "node.invalid"},
			want: ErrKindAddressResolution,
		},
		{
			name: "unknown certificate authority",
			err:  x509.UnknownAuthorityError{},
			want: ErrKindTLS,
		},
		{
			name: "websocket normal close",
			err:  &websocket.CloseError{Code: websocket.CloseNormalClosure},
			want: ErrKindConnection,
		},
		{
			name: "websocket going away",
			err:  &websocket.CloseError{Code: websocket.CloseGoingAway},
			want: ErrKindConnection,
		},
		{
			name: "websocket message too big",
			err:  &websocket.CloseError{Code: websocket.CloseMessageTooBig},
			want: ErrKindProtocol,
		},
		{
			name: "websocket protocol violation",
			err:  &websocket.CloseError{Code: websocket.CloseProtocolError},
			want: ErrKindProtocol,
		},
		{
			name: "websocket invalid frame payload",
			err:  &websocket.CloseError{Code: websocket.CloseInvalidFramePayloadData},
			want: ErrKindEncoding,
		},
		{
			name: "websocket bad upgrade",
			err:  fmt.Errorf("dial: %w", websocket.ErrBadHandshake),
			want: ErrKindProtocol,
		},
		{
			name: "websocket read limit",
			err:  websocket.ErrReadLimit,
			want: ErrKindProtocol,
		},
		{
			name: "malformed url",
			err:  &url.Error{Op: "parse", URL: "::bad", Err: errors.New("missing scheme")},
			want: ErrKindAddressResolution,
		},
		{
			name: "dial op error",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED},
			want: ErrKindConnection,
		},
		{
			name: "read op error",
			err:  &net.OpError{Op: "read", Net: "tcp", Err: syscall.EPIPE},
			want: ErrKindIO,
		},
		{
			name: "bare connection reset",
			err:  syscall.ECONNRESET,
			want: ErrKindConnection,
		},
		{
			name: "closed network connection",
			err:  net.ErrClosed,
			want: ErrKindConnection,
		},
		{
			name: "eof",
			err:  io.EOF,
			want: ErrKindIO,
		},
		{
			name: "unexpected eof",
			err:  io.ErrUnexpectedEOF,
			want: ErrKindIO,
		},
		{
			name: "unrecognized error folds into other",
			err:  errors.New("something odd"),
			want: ErrKindOther,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got == nil {
				t.Fatal("Classify returned nil for non-nil error")
			}
			if got.Kind != tt.want {
				t.Errorf("Classify(%v).Kind = %s, want %s", tt.err, got.Kind, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("Classify(%v) lost the cause", tt.err)
			}
		})
	}
}

func TestErrKindNamesDoNotShadowTransportKinds(t *testing.T) {
	// The error taxonomy and the transport selector both have a TLS
	// member; they live in separate identifier families.
	if got := ErrKindTLS.String(); got != "TLS" {
		t.Errorf("ErrKindTLS.String() = %q, want %q", got, "TLS")
	}
	if got := KindTLS.String(); got != "tls" {
		t.Errorf("KindTLS.String() = %q, want %q", got, "tls")
	}
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", wrapError(ErrKindProtocol, "bad frame", io.EOF))
	if got := KindOf(err); got != ErrKindProtocol {
		t.Errorf("KindOf = %s, want %s", got, ErrKindProtocol)
	}
	if got := KindOf(errors.New("plain")); got != ErrKindOther {
		t.Errorf("KindOf(plain) = %s, want %s", got, ErrKindOther)
	}
}

func TestIsKind(t *testing.T) {
	err := wrapError(ErrKindConnection, "refused", syscall.ECONNREFUSED)
	if !IsKind(err, ErrKindConnection) {
		t.Error("IsKind should match the wrapped kind")
	}
	if IsKind(err, ErrKindTLS) {
		t.Error("IsKind should not match a different kind")
	}
	if IsKind(errors.New("plain"), ErrKindOther) {
		t.Error("IsKind should be false for unclassified errors")
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := wrapError(ErrKindIO, "read response", io.ErrUnexpectedEOF)
	want := "IO: read response: unexpected EOF"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("cause should survive errors.Is")
	}
}
