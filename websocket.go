// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handshake

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// wsTransport exchanges the handshake payload as a single WebSocket text
// frame and returns the first data frame received.
type wsTransport struct {
	remote string
	secure bool
	log    *zap.Logger
}

// normalizeWSURL prepares the remote URL for dialing. A wss:// URL passes
// through unchanged; a ws:// URL on a secure transport is coerced to wss://
// with a warning; anything else is prefixed with the scheme implied by the
// secure flag. The result always carries a ws or wss prefix for non-empty
// input.
func normalizeWSURL(remote string, secure bool, log *zap.Logger) string {
	switch {
	case strings.HasPrefix(remote, "wss://"):
		return remote
	case strings.HasPrefix(remote, "ws://") && secure:
		log.Warn("target url starts with ws:// but secure flag is set, coercing to wss://",
			zap.String("remote", remote))
		return "wss://" + strings.TrimPrefix(remote, "ws://")
	case secure:
		return "wss://" + remote
	default:
		return "ws://" + remote
	}
}

// Exchange dials the normalized URL, sends the payload as one text frame,
// and reads frames until the first text or binary frame arrives. Control
// frames are skipped. The timeout is accepted but no deadline is applied to
// the connect or the frame wait; ctx cancels dialing only.
func (t *wsTransport) Exchange(ctx context.Context, timeout time.Duration, payload []byte) ([]byte, error) {
	wsURL := normalizeWSURL(t.remote, t.secure, t.log)

	if _, err := url.Parse(wsURL); err != nil {
		return nil, wrapError(ErrKindAddressResolution, "malformed websocket url", err)
	}

	dialer := &websocket.Dialer{Proxy: http.ProxyFromEnvironment}
	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, Classify(fmt.Errorf("websocket dial %s: %w", wsURL, err))
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	t.log.Info("connected to remote websocket", zap.String("remote", wsURL))

	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return nil, Classify(fmt.Errorf("websocket send: %w", err))
	}
	t.log.Debug("sent message payload", zap.Int("bytes", len(payload)))

	// First text or binary frame terminates the read; no accumulation
	// across frames. Ping/pong/close are handled inside ReadMessage.
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return nil, Classify(fmt.Errorf("websocket receive: %w", err))
		}
		switch mt {
		case websocket.TextMessage:
			t.log.Debug("received text message", zap.Int("bytes", len(data)))
			return data, nil
		case websocket.BinaryMessage:
			t.log.Debug("received binary message", zap.Int("bytes", len(data)))
			return []byte(toValidUTF8(data)), nil
		default:
			continue
		}
	}
}
