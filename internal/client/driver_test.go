package client

import (
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"example.com/hangman/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startSession runs a real game session on one end of a pipe and returns the other end.
func startSession(t *testing.T, word string) net.Conn {
	t.Helper()
	srv, cli := net.Pipe()
	sess := game.NewSession("test", srv, word)
	go func() { _ = sess.Run(context.Background()) }()
	t.Cleanup(func() { _ = cli.Close() })
	return cli
}

// fakeServer writes raw bytes and hangs up.
func fakeServer(t *testing.T, data []byte) net.Conn {
	t.Helper()
	srv, cli := net.Pipe()
	go func() {
		_, _ = srv.Write(data)
		_ = srv.Close()
	}()
	t.Cleanup(func() { _ = cli.Close() })
	return cli
}

func TestDriver_Play(t *testing.T) {
	cases := []struct {
		name      string
		word      string
		input     string
		want      Outcome
		wantBoard string
		rounds    int
		wantOut   string
	}{
		{name: "one guess per line", word: "cat", input: "a\nc\nt\n", want: Won, wantBoard: "cat", rounds: 3, wantOut: "You win!"},
		{name: "several guesses on one line", word: "cat", input: "a c t\n", want: Won, wantBoard: "cat", rounds: 3, wantOut: "You win!"},
		{name: "loss", word: "cat", input: "xyz\n", want: Lost, wantBoard: "___", rounds: 3, wantOut: "You lost."},
		{name: "repeat costs a turn", word: "ab", input: "aax\n", want: Lost, wantBoard: "a_", rounds: 3, wantOut: "You lost."},
		{name: "last line without newline", word: "a", input: "a", want: Won, wantBoard: "a", rounds: 1, wantOut: "You win!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conn := startSession(t, tc.word)
			var out bytes.Buffer

			res, err := NewDriver(conn, strings.NewReader(tc.input), &out).Play()
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Outcome)
			assert.Equal(t, tc.wantBoard, res.Board)
			assert.Equal(t, tc.rounds, res.Rounds)
			assert.Contains(t, out.String(), tc.wantOut)
		})
	}
}

func TestDriver_Disconnects(t *testing.T) {
	cases := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "before first status", data: nil, wantErr: io.EOF},
		{name: "inside board", data: []byte{3, '_'}, wantErr: io.ErrUnexpectedEOF},
		{name: "between rounds", data: []byte{3, '_', '_', '_'}, wantErr: ErrDisconnected},
		{name: "sentinel first", data: []byte{255, 'a'}, wantErr: ErrBadStatus},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conn := fakeServer(t, tc.data)
			var out bytes.Buffer

			res, err := NewDriver(conn, strings.NewReader("abc\n"), &out).Play()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDisconnected)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, Disconnected, res.Outcome)
			assert.Contains(t, out.String(), "Lost connection")
		})
	}
}

func TestDriver_RunsOutOfInput(t *testing.T) {
	conn := startSession(t, "cat")

	res, err := NewDriver(conn, strings.NewReader("a\n  \n"), io.Discard).Play()
	assert.ErrorIs(t, err, ErrNoInput)
	assert.Equal(t, "_a_", res.Board)
	assert.Equal(t, 1, res.Rounds)
}

func TestDial(t *testing.T) {
	t.Run("tcp", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer ln.Close()
		go func() {
			c, err := ln.Accept()
			if err == nil {
				_ = c.Close()
			}
		}()

		conn, err := Dial(context.Background(), DialConfig{Target: ln.Addr().String()})
		require.NoError(t, err)
		_ = conn.Close()
	})

	t.Run("retries then gives up", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := ln.Addr().String()
		require.NoError(t, ln.Close())

		var attempts []int
		_, err = Dial(context.Background(), DialConfig{
			Target:           addr,
			MaxRetryCount:    2,
			MaxRetryInterval: 20 * time.Millisecond,
			OnRetry:          func(n int, err error, wait time.Duration) { attempts = append(attempts, n) },
		})
		require.Error(t, err)
		assert.Equal(t, []int{1, 2}, attempts)
	})
}
