package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_WORD", "hangman")

	c, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "dev", c.Env)
	assert.Equal(t, "text", c.Log.Format)
	assert.Equal(t, 8000, c.TCP.Port)
	assert.Equal(t, ":8000", c.TCP.Addr)
	assert.Equal(t, time.Duration(0), c.TCP.IdleTimeout)
	assert.Equal(t, "hangman", c.Game.Word)
	assert.Equal(t, 0, c.Game.MaxSessions)
	assert.Empty(t, c.HTTP.Addr)
	assert.True(t, c.RunMigrations)
	assert.Equal(t, 24*time.Hour, c.Redis.ResultTTL)
}

func TestLoad_ArgsOverrideEnv(t *testing.T) {
	t.Setenv("SECRET_WORD", "env")
	t.Setenv("TCP_PORT", "9000")
	t.Setenv("TCP_ADDR", "127.0.0.1:9000")

	c, err := Load([]string{"36123", "argword"})
	require.NoError(t, err)
	assert.Equal(t, 36123, c.TCP.Port)
	assert.Equal(t, ":36123", c.TCP.Addr)
	assert.Equal(t, "argword", c.Game.Word)

	c, err = Load([]string{"36124"})
	require.NoError(t, err)
	assert.Equal(t, "env", c.Game.Word)
}

func TestLoad_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		env     map[string]string
		args    []string
		wantErr string
	}{
		{name: "missing word", env: map[string]string{}, wantErr: "SECRET_WORD is empty"},
		{name: "oversized word", env: map[string]string{"SECRET_WORD": strings.Repeat("a", 255)}, wantErr: "invalid secret word"},
		{name: "placeholder in word", env: map[string]string{"SECRET_WORD": "a_b"}, wantErr: "placeholder"},
		{name: "port zero", env: map[string]string{"SECRET_WORD": "cat", "TCP_PORT": "0"}, wantErr: "bad port number"},
		{name: "port too big", args: []string{"70000", "cat"}, wantErr: "bad port number"},
		{name: "port not a number", args: []string{"http", "cat"}, wantErr: "bad port number"},
		{name: "too many args", args: []string{"1", "cat", "x"}, wantErr: "too many arguments"},
		{name: "bad log format", env: map[string]string{"SECRET_WORD": "cat", "LOG_FORMAT": "xml"}, wantErr: "LOG_FORMAT"},
		{name: "bad log level", env: map[string]string{"SECRET_WORD": "cat", "LOG_LEVEL": "loud"}, wantErr: "LOG_LEVEL"},
		{name: "negative cap", env: map[string]string{"SECRET_WORD": "cat", "MAX_SESSIONS": "-1"}, wantErr: "MAX_SESSIONS"},
		{name: "env port not a number", env: map[string]string{"SECRET_WORD": "cat", "TCP_PORT": "abc"}, wantErr: `bad port number "abc"`},
		{name: "env port trailing junk", env: map[string]string{"SECRET_WORD": "cat", "TCP_PORT": "80x"}, wantErr: `bad port number "80x"`},
		{name: "env port overflows int", env: map[string]string{"SECRET_WORD": "cat", "TCP_PORT": "99999999999999999999"}, wantErr: "bad port number"},
		{name: "env port bad even with port arg", env: map[string]string{"TCP_PORT": "abc"}, args: []string{"9000", "cat"}, wantErr: "TCP_PORT"},
		{name: "cap not a number", env: map[string]string{"SECRET_WORD": "cat", "MAX_SESSIONS": "lots"}, wantErr: `bad MAX_SESSIONS="lots"`},
		{name: "bad idle timeout", env: map[string]string{"SECRET_WORD": "cat", "TCP_IDLE_TIMEOUT": "soon"}, wantErr: "TCP_IDLE_TIMEOUT"},
		{name: "bad migrations flag", env: map[string]string{"SECRET_WORD": "cat", "RUN_MIGRATIONS": "maybe"}, wantErr: "RUN_MIGRATIONS"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("SECRET_WORD", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(tc.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	l, err = ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)
}
