package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"example.com/hangman/internal/game"
)

// Config describes all runtime settings for the server.
//
// It is loaded once in main, validated, then passed down explicitly.
type Config struct {
	Env string // dev|stage|prod

	Log struct {
		Format string // text|json
		Level  string // debug|info|warn|error
	}

	TCP struct {
		Port        int
		Addr        string
		IdleTimeout time.Duration // 0 => block forever
	}

	Game struct {
		Word        string
		MaxSessions int // 0 => unlimited
	}

	HTTP struct {
		Addr            string // empty => ops HTTP disabled
		ShutdownTimeout time.Duration
	}

	Postgres struct {
		URL string
	}

	SQLite struct {
		Path string
	}

	RunMigrations bool

	Redis struct {
		Addr      string // empty => in-memory counters only
		DB        int
		ResultTTL time.Duration
	}
}

// Load reads the environment, lets the positional "[port] [word]" arguments
// override it, then validates the result. A set but malformed variable is an
// error, never a silent default.
func Load(args []string) (Config, error) {
	var c Config
	var env envReader

	c.Env = envString("APP_ENV", "dev")
	c.Log.Format = envString("LOG_FORMAT", "text")
	c.Log.Level = envString("LOG_LEVEL", "info")

	c.TCP.Port = env.port("TCP_PORT", 8000)
	c.TCP.Addr = envString("TCP_ADDR", "")
	c.TCP.IdleTimeout = env.duration("TCP_IDLE_TIMEOUT", 0)

	c.Game.Word = os.Getenv("SECRET_WORD")
	c.Game.MaxSessions = env.integer("MAX_SESSIONS", 0)

	c.HTTP.Addr = envString("HTTP_ADDR", "")
	c.HTTP.ShutdownTimeout = env.duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)

	c.Postgres.URL = envString("DATABASE_URL", "")
	c.SQLite.Path = envString("SQLITE_PATH", "")
	c.RunMigrations = env.boolean("RUN_MIGRATIONS", true)

	c.Redis.Addr = envString("REDIS_ADDR", "")
	c.Redis.DB = env.integer("REDIS_DB", 0)
	c.Redis.ResultTTL = env.duration("RESULT_TTL", 24*time.Hour)

	if err := errors.Join(env.errs...); err != nil {
		return Config{}, err
	}

	if err := c.applyArgs(args); err != nil {
		return Config{}, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyArgs(args []string) error {
	if len(args) > 2 {
		return fmt.Errorf("too many arguments: want [port] [word], got %d", len(args))
	}
	if len(args) >= 1 {
		port, err := parsePort(args[0])
		if err != nil {
			return err
		}
		c.TCP.Port = port
		c.TCP.Addr = ""
	}
	if len(args) == 2 {
		c.Game.Word = args[1]
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.TCP.Addr == "" {
		c.TCP.Addr = ":" + strconv.Itoa(c.TCP.Port)
	}
}

func (c Config) Validate() error {
	if c.TCP.Port < 1 || c.TCP.Port > 65535 {
		return fmt.Errorf("bad port number %d (want 1..65535)", c.TCP.Port)
	}
	if _, _, err := net.SplitHostPort(c.TCP.Addr); err != nil {
		return fmt.Errorf("bad TCP_ADDR %q: %w", c.TCP.Addr, err)
	}
	if c.Game.Word == "" {
		return errors.New("SECRET_WORD is empty")
	}
	if err := game.ValidateWord(c.Game.Word); err != nil {
		return err
	}
	if c.Game.MaxSessions < 0 {
		return fmt.Errorf("MAX_SESSIONS must be >= 0, got %d", c.Game.MaxSessions)
	}
	if c.TCP.IdleTimeout < 0 {
		return fmt.Errorf("TCP_IDLE_TIMEOUT must be >= 0, got %s", c.TCP.IdleTimeout)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unsupported LOG_FORMAT=%q (want text|json)", c.Log.Format)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps LOG_LEVEL onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return 0, fmt.Errorf("unsupported LOG_LEVEL=%q (want debug|info|warn|error)", s)
	}
	return l, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad port number %q", s)
	}
	return port, nil
}

// envReader parses typed variables and keeps every parse failure.
type envReader struct {
	errs []error
}

func (e *envReader) port(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	port, err := parsePort(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return port
}

func (e *envReader) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("bad %s=%q: want a duration like 30s", key, v))
		return def
	}
	return d
}

func (e *envReader) boolean(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("bad %s=%q: want true|false", key, v))
		return def
	}
	return b
}

func (e *envReader) integer(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("bad %s=%q: want an integer", key, v))
		return def
	}
	return n
}
