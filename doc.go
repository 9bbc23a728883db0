// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package handshake performs a single JSON-RPC handshake with a remote node
// over one of several wire transports.
//
// # Transport Selection
//
// Four transport kinds are supported, selected at call time:
//
//	KindTCP   plain TCP with a minimal HTTP/1.1 request frame
//	KindTLS   the same frame over TLS (system root CA bundle)
//	KindWS    WebSocket text framing
//	KindWSS   WebSocket text framing over TLS
//
// A gRPC transport is additionally available behind the `grpc` build tag;
// it is constructed explicitly and is not part of the Kind set.
//
// # Usage
//
//	node := handshake.NewNode(
//	    handshake.Endpoint{Host: "api.devnet.solana.com", Port: 8899},
//	    handshake.KindTLS,
//	)
//	body, err := node.Shake(ctx, 5*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Optional typed decode of the response body.
//	version, err := handshake.ParseVersion(body)
//
// The handshake payload is fixed: {"jsonrpc":"2.0","id":1,"method":"getVersion"}.
// Shake returns the response body with transport framing stripped and
// performs no JSON decoding of its own.
//
// # Error Taxonomy
//
// Every failure is normalized into an *Error carrying one ErrKind:
// ADDRESS_RESOLUTION, CONNECTION, TLS, PROTOCOL, ENCODING, IO, or the
// catch-all OTHER. Classify is total and never panics; the original cause
// is preserved for errors.Is/As.
//
// # Known Limitations
//
// The plain-TCP path performs a single read into a 1024-byte buffer and the
// WebSocket path returns the first data frame without accumulation, so
// large responses are truncated. The timeout argument is a best-effort TTL
// hint on plain TCP and is not enforced as a deadline on the TLS or
// WebSocket paths. Each call opens and releases its own connection: no
// pooling, no reuse, no retries.
//
// # Architecture
//
// The package separates concerns:
//
//   - transport.go: Kind enum, Endpoint, Transport interface, selection
//   - payload.go: JSON-RPC request envelope and version decode helpers
//   - tcp.go: raw-socket transport (plain and TLS)
//   - websocket.go: WebSocket transport with URL scheme coercion
//   - client.go: Node handshake orchestration and frame-header stripping
//   - errors.go: error taxonomy and classification
//   - http.go: standalone JSON-RPC-over-HTTP helper
//   - grpc.go: gRPC transport (requires -tags grpc)
package handshake
