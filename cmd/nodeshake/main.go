// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command nodeshake performs a single handshake with a remote JSON-RPC node.
//
//	nodeshake connect-rpc -address api.devnet.solana.com:8899 [-secure]
//	nodeshake connect-ws  -address api.devnet.solana.com:8900 [-secure]
//	nodeshake version     -url http://127.0.0.1:8899
//
// The -secure flag selects the TLS-wrapped variant of each transport family.
// DNS resolution and argument validation happen here; the handshake package
// receives a pre-resolved endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/luxfi/handshake"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "nodeshake:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if len(args) < 1 {
		usage()
		return fmt.Errorf("missing subcommand")
	}

	switch args[0] {
	case "connect-rpc", "crp":
		return connect(args[1:], cfg, logger, handshake.KindTCP, handshake.KindTLS)
	case "connect-ws", "cws":
		return connect(args[1:], cfg, logger, handshake.KindWS, handshake.KindWSS)
	case "version":
		return version(args[1:])
	default:
		usage()
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

// connect resolves the target, picks the plain or secure kind of the chosen
// transport family, and performs one handshake.
func connect(args []string, cfg config, logger *zap.Logger, plain, secure handshake.Kind) error {
	fs := flag.NewFlagSet("connect", flag.ContinueOnError)
	address := fs.String("address", "", "node address without scheme, i.e. 'api.testnet.solana.com:8899'")
	secureFlag := fs.Bool("secure", false, "use the TLS-wrapped transport")
	timeout := fs.Duration("timeout", cfg.Timeout, "handshake timeout hint")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *address == "" {
		return fmt.Errorf("-address is required")
	}

	endpoint, err := resolveTarget(*address)
	if err != nil {
		return err
	}

	kind := plain
	if *secureFlag {
		kind = secure
	}

	node := handshake.NewNode(endpoint, kind, handshake.WithLogger(logger))
	logger.Info("connecting", zap.Stringer("node", node))

	body, err := node.Shake(context.Background(), *timeout)
	if err != nil {
		return err
	}

	logger.Info("handshake complete", zap.Int("bytes", len(body)))
	fmt.Println(body)
	return nil
}

// version queries a node's HTTP RPC port directly and prints the decoded
// getVersion result.
func version(args []string) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	rawURL := fs.String("url", "", "node HTTP RPC url, i.e. 'http://127.0.0.1:8899'")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *rawURL == "" {
		return fmt.Errorf("-url is required")
	}

	uri, err := url.Parse(*rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", *rawURL, err)
	}

	var result handshake.VersionResult
	if err := handshake.SendJSONRequest(context.Background(), uri, handshake.MethodGetVersion, nil, &result); err != nil {
		return err
	}

	fmt.Printf("solana-core %s", result.SolanaCore)
	if result.FeatureSet != nil {
		fmt.Printf(" feature-set %d", *result.FeatureSet)
	}
	fmt.Println()
	return nil
}

func setupLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = zap.DebugLevel
	case "info":
		lvl = zap.InfoLevel
	case "warn", "warning":
		lvl = zap.WarnLevel
	case "error":
		lvl = zap.ErrorLevel
	default:
		lvl = zap.InfoLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: nodeshake <subcommand> [flags]

subcommands:
  connect-rpc (crp)  handshake over raw TCP, or TLS with -secure
  connect-ws  (cws)  handshake over WebSocket, or wss with -secure
  version            query a node's HTTP RPC port for its version`)
}
