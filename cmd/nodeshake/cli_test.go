// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"testing"
	"time"
)

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantErr bool
	}{
		{"loopback", "127.0.0.1:1024", false},
		{"localhost", "localhost:1024", false},
		{"zero port", "localhost:0", false},
		{"ipv6 loopback", "[::1]:1024", false},
		{"port above maximum", "localhost:65536", true},
		{"missing port", "localhost", true},
		{"empty", "", true},
		{"unresolvable name", "node.invalid:80", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint, err := resolveTarget(tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveTarget(%q) err = %v, wantErr %v", tt.target, err, tt.wantErr)
			}
			if err == nil && endpoint.Host == "" {
				t.Errorf("resolveTarget(%q) returned empty host", tt.target)
			}
		})
	}
}

func TestResolveTargetKeepsHostName(t *testing.T) {
	endpoint, err := resolveTarget("localhost:8899")
	if err != nil {
		t.Fatalf("resolveTarget: %v", err)
	}
	// The TLS path validates the name against the certificate, so the
	// original host must survive resolution.
	if endpoint.Host != "localhost" {
		t.Errorf("Host = %q, want localhost", endpoint.Host)
	}
	if endpoint.Port != 8899 {
		t.Errorf("Port = %d, want 8899", endpoint.Port)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Timeout == 0 {
		t.Error("Timeout default missing")
	}
	if cfg.LogLevel == "" {
		t.Error("LogLevel default missing")
	}
}

func TestLoadConfigOverride(t *testing.T) {
	t.Setenv("NODESHAKE_TIMEOUT", "9s")
	t.Setenv("NODESHAKE_LOG_LEVEL", "debug")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Timeout != 9*time.Second {
		t.Errorf("Timeout = %v, want 9s", cfg.Timeout)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}
