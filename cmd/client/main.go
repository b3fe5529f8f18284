package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"example.com/hangman/internal/client"
)

const (
	exitWon = iota
	exitError
	exitLost
	exitDisconnected
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	target, err := targetFromArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\nusage: %s host port | %s ws://host:port/ws\n", err, os.Args[0], os.Args[0])
		return exitError
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := client.Dial(ctx, client.DialConfig{
		Target:           target,
		MaxRetryCount:    envInt("CONNECT_RETRIES", 0),
		MaxRetryInterval: envDuration("CONNECT_MAX_WAIT", 5*time.Second),
		OnRetry: func(attempt int, err error, wait time.Duration) {
			log.Warn("connect failed, retrying", "attempt", attempt, "wait", wait, "err", err)
		},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}
	defer conn.Close()

	// Closing the connection unblocks a pending read on interrupt.
	context.AfterFunc(ctx, func() { _ = conn.Close() })

	res, err := client.NewDriver(conn, os.Stdin, os.Stdout).Play()
	switch {
	case errors.Is(err, client.ErrNoInput):
		fmt.Fprintln(os.Stderr, "input closed before the game ended")
		return exitError
	case err != nil && res.Outcome != client.Disconnected:
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}

	switch res.Outcome {
	case client.Won:
		return exitWon
	case client.Lost:
		return exitLost
	default:
		return exitDisconnected
	}
}

// targetFromArgs accepts "host port" or a single ws:// URL.
func targetFromArgs(args []string) (string, error) {
	switch len(args) {
	case 1:
		return args[0], nil
	case 2:
		port, err := strconv.Atoi(args[1])
		if err != nil || port < 1 || port > 65535 {
			return "", fmt.Errorf("bad port number %q", args[1])
		}
		return net.JoinHostPort(args[0], args[1]), nil
	default:
		return "", errors.New("missing server address")
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
