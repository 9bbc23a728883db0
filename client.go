// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handshake

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// frameSeparator ends the HTTP header block in a raw-socket response.
var frameSeparator = []byte("\r\n\r\n")

// Node is a remote JSON-RPC node to handshake with. It holds the resolved
// endpoint and the transport kind; entities are per-invocation, nothing is
// cached or reused between calls.
type Node struct {
	Endpoint Endpoint
	Kind     Kind

	log *zap.Logger
}

// Option configures a Node.
type Option func(*Node)

// WithLogger sets the logger used by the node and its transport.
// The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(n *Node) { n.log = log }
}

// NewNode creates a Node bound to a resolved endpoint and transport kind.
func NewNode(endpoint Endpoint, kind Kind, opts ...Option) *Node {
	n := &Node{
		Endpoint: endpoint,
		Kind:     kind,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Node) String() string {
	return fmt.Sprintf("Node(%s/%s)", n.Kind, n.Endpoint)
}

// Shake performs one handshake: it sends a getVersion request over the
// node's transport and returns the response body as text, with transport
// framing stripped. The body is not JSON-decoded; use ParseVersion for the
// typed form. Every failure is normalized into an *Error; nothing is
// retried here.
func (n *Node) Shake(ctx context.Context, timeout time.Duration) (string, error) {
	payload, err := NewRequest(MethodGetVersion).Encode()
	if err != nil {
		return "", wrapError(ErrKindEncoding, "build handshake payload", err)
	}

	transport := NewTransport(n.Kind, n.Endpoint, n.log)
	frame, err := transport.Exchange(ctx, timeout, payload)
	if err != nil {
		return "", Classify(err)
	}

	if n.Kind.RawSocket() {
		frame = StripFrameHeader(frame)
	}
	return string(frame), nil
}

// StripFrameHeader removes everything up to and including the first blank
// line separator from a raw-socket response frame. When no separator is
// present the whole frame is treated as body rather than failing.
func StripFrameHeader(frame []byte) []byte {
	i := bytes.Index(frame, frameSeparator)
	if i < 0 {
		return frame
	}
	return frame[i+len(frameSeparator):]
}
