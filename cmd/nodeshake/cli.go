// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/luxfi/handshake"
)

// config holds environment-derived defaults. Flags override these.
type config struct {
	LogLevel string        `env:"NODESHAKE_LOG_LEVEL" envDefault:"info"`
	Timeout  time.Duration `env:"NODESHAKE_TIMEOUT" envDefault:"5s"`
}

func loadConfig() (config, error) {
	var c config
	if err := env.Parse(&c); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// resolveTarget validates a "host:port" target and confirms the host
// resolves. The returned endpoint keeps the original host name so the TLS
// path can validate it against the peer certificate; the core never
// re-resolves it.
func resolveTarget(target string) (handshake.Endpoint, error) {
	host, portStr, err := net.SplitHostPort(target)
	if err != nil {
		return handshake.Endpoint{}, fmt.Errorf("invalid target %q: %w", target, err)
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return handshake.Endpoint{}, fmt.Errorf("invalid port %q: %w", portStr, err)
	}

	if net.ParseIP(host) == nil {
		addrs, err := net.LookupHost(host)
		if err != nil {
			return handshake.Endpoint{}, fmt.Errorf("could not find destination %s: %w", target, err)
		}
		if len(addrs) == 0 {
			return handshake.Endpoint{}, fmt.Errorf("could not find destination %s", target)
		}
	}

	return handshake.Endpoint{Host: host, Port: uint16(port)}, nil
}
