// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handshake

import (
	"encoding/json"
	"fmt"
)

// MethodGetVersion is the JSON-RPC method used to probe a node.
const MethodGetVersion = "getVersion"

// Request is the JSON-RPC 2.0 envelope sent during the handshake.
// Field names and the "2.0" version tag are part of the wire contract.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
}

// NewRequest builds a versioned request for method with the default ID.
func NewRequest(method string) Request {
	return Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
	}
}

// Encode serializes the request to its wire form. Encoding is deterministic:
// the same request always yields byte-identical JSON.
func (r Request) Encode() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return data, nil
}

// VersionResult is the result object a node returns for getVersion.
// The handshake itself never decodes the body; this type is a convenience
// for callers that want the parsed form.
type VersionResult struct {
	SolanaCore string  `json:"solana-core"`
	FeatureSet *uint64 `json:"feature-set,omitempty"`
}

// versionEnvelope is the JSON-RPC response wrapper around VersionResult.
type versionEnvelope struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Result  VersionResult `json:"result"`
}

// ParseVersion decodes a handshake response body into a VersionResult.
func ParseVersion(body string) (VersionResult, error) {
	var env versionEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return VersionResult{}, fmt.Errorf("decode version response: %w", err)
	}
	return env.Result, nil
}
