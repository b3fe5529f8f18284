package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"example.com/hangman/internal/wsconn"
	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
)

// DialConfig controls how the client reaches the server.
type DialConfig struct {
	Target           string // host:port, or ws://host:port/ws
	MaxRetryCount    int    // 0 => a single attempt
	MaxRetryInterval time.Duration
	OnRetry          func(attempt int, err error, wait time.Duration)
}

// Dial connects to the server, retrying with exponential backoff.
func Dial(ctx context.Context, cfg DialConfig) (io.ReadWriteCloser, error) {
	if cfg.MaxRetryInterval <= 0 {
		cfg.MaxRetryInterval = 5 * time.Second
	}
	b := &backoff.Backoff{Min: 100 * time.Millisecond, Max: cfg.MaxRetryInterval}

	for {
		conn, err := dialOnce(ctx, cfg.Target)
		if err == nil {
			return conn, nil
		}
		attempt := int(b.Attempt())
		if attempt >= cfg.MaxRetryCount || ctx.Err() != nil {
			return nil, fmt.Errorf("connect %s: %w", cfg.Target, err)
		}
		wait := b.Duration()
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, err, wait)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect %s: %w", cfg.Target, ctx.Err())
		case <-time.After(wait):
		}
	}
}

func dialOnce(ctx context.Context, target string) (io.ReadWriteCloser, error) {
	if strings.HasPrefix(target, "ws://") || strings.HasPrefix(target, "wss://") {
		ws, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
		if err != nil {
			return nil, err
		}
		return wsconn.New(ws), nil
	}
	var d net.Dialer
	return d.DialContext(ctx, "tcp", target)
}
