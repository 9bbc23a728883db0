//go:build grpc

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handshake

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// rawCodec passes pre-encoded bytes through unchanged instead of running
// them through the default proto codec. The handshake payload is already
// wire-ready JSON.
type rawCodec struct{}

func (rawCodec) Marshal(v interface{}) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case *[]byte:
		return *b, nil
	}
	return nil, fmt.Errorf("raw codec: unsupported message type %T", v)
}

func (rawCodec) Unmarshal(data []byte, v interface{}) error {
	b, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("raw codec: unsupported message type %T", v)
	}
	*b = data
	return nil
}

func (rawCodec) Name() string { return "raw" }

// GRPCTransport exchanges the handshake payload over a gRPC unary call.
// It is not part of the Kind set; callers that want gRPC construct it
// explicitly. Requires the `grpc` build tag.
type GRPCTransport struct {
	conn *grpc.ClientConn
}

// DialGRPC connects to a gRPC endpoint with insecure credentials.
func DialGRPC(ctx context.Context, target string) (*GRPCTransport, error) {
	conn, err := grpc.DialContext(ctx, target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, wrapError(ErrKindConnection, fmt.Sprintf("grpc dial %s", target), err)
	}
	return &GRPCTransport{conn: conn}, nil
}

// Exchange invokes the getVersion unary method with the raw payload.
// The timeout is not enforced; ctx bounds the call.
func (t *GRPCTransport) Exchange(ctx context.Context, timeout time.Duration, payload []byte) ([]byte, error) {
	var resp []byte
	if err := t.conn.Invoke(ctx, "/"+MethodGetVersion, payload, &resp, grpc.ForceCodec(rawCodec{})); err != nil {
		return nil, Classify(fmt.Errorf("grpc invoke: %w", err))
	}
	return resp, nil
}

// Close releases the underlying connection.
func (t *GRPCTransport) Close() error {
	return t.conn.Close()
}
