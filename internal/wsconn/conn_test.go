package wsconn

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamOverFrames(t *testing.T) {
	got := make(chan []byte, 1)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := New(ws)
		defer c.Close()

		_, _ = c.Write([]byte("ab"))
		_, _ = c.Write([]byte("c"))

		buf := make([]byte, 1)
		if _, err := io.ReadFull(c, buf); err == nil {
			got <- buf
		}
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	c := New(ws)
	defer c.Close()
	require.NoError(t, c.SetDeadline(time.Now().Add(5*time.Second)))

	// Two frames read back as one stream.
	buf := make([]byte, 3)
	_, err = io.ReadFull(c, buf)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf))

	n, err := c.Write([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	select {
	case b := <-got:
		assert.Equal(t, "x", string(b))
	case <-time.After(5 * time.Second):
		t.Fatal("server never received the byte")
	}

	_, err = c.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestCloseIsIdempotent(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := New(ws)
		defer c.Close()
		_, _ = io.Copy(io.Discard, c)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	c := New(ws)
	first := c.Close()
	assert.Equal(t, first, c.Close())
	assert.NotNil(t, c.RemoteAddr())
}
