package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"example.com/hangman/internal/config"
	"example.com/hangman/internal/game"
	"example.com/hangman/internal/httpapi"
	"example.com/hangman/internal/migrate"
	"example.com/hangman/internal/store"
	"example.com/hangman/internal/visits"
)

const pingTimeout = 5 * time.Second

type App struct {
	cfg config.Config
	log *slog.Logger

	results  store.Results
	outcomes *game.RedisResultStore // nil without Redis
	rdb      *redis.Client
	visits   visits.Counter

	game   *game.Server
	tcpLn  net.Listener
	httpLn net.Listener
	srv    *http.Server
}

type Options struct {
	Static http.Handler // optional; if nil, no frontend is served
}

// New wires stores, the game server and both listeners. Listeners are bound
// here so a taken port fails startup instead of Run.
func New(ctx context.Context, cfg config.Config, log *slog.Logger, opts Options) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	a := &App{cfg: cfg, log: log}

	if err := a.openStores(ctx); err != nil {
		a.closeStores()
		return nil, err
	}

	var redisResults game.ResultRecorder
	if a.rdb != nil {
		a.outcomes = game.NewRedisResultStore(a.rdb, cfg.Redis.ResultTTL)
		redisResults = a.outcomes
	}

	a.game = game.NewServer(game.Config{
		Word:        cfg.Game.Word,
		IdleTimeout: cfg.TCP.IdleTimeout,
		MaxSessions: cfg.Game.MaxSessions,
	}, log, game.Recorders(a.results, redisResults), a.visits)

	ln, err := net.Listen("tcp", cfg.TCP.Addr)
	if err != nil {
		a.closeStores()
		return nil, fmt.Errorf("tcp listen %s: %w", cfg.TCP.Addr, err)
	}
	a.tcpLn = ln

	if cfg.HTTP.Addr != "" {
		hln, err := net.Listen("tcp", cfg.HTTP.Addr)
		if err != nil {
			_ = ln.Close()
			a.closeStores()
			return nil, fmt.Errorf("http listen %s: %w", cfg.HTTP.Addr, err)
		}
		a.httpLn = hln
		a.srv = &http.Server{
			Handler:           a.router(opts),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return a, nil
}

func (a *App) openStores(ctx context.Context) error {
	cfg := a.cfg

	switch {
	case cfg.Postgres.URL != "":
		dbpool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("pgxpool: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := dbpool.Ping(pingCtx); err != nil {
			dbpool.Close()
			return fmt.Errorf("postgres ping: %w", err)
		}
		a.results = store.NewPGResults(dbpool)
		if cfg.RunMigrations {
			if err := migrate.UpPostgres(cfg.Postgres.URL, a.log); err != nil {
				return err
			}
		}
		a.log.Info("results store", "kind", "postgres")

	case cfg.SQLite.Path != "":
		db, err := store.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		a.results = store.NewSQLiteResults(db)
		if cfg.RunMigrations {
			if err := migrate.UpSQLite(db, a.log); err != nil {
				return err
			}
		}
		a.log.Info("results store", "kind", "sqlite", "path", cfg.SQLite.Path)

	default:
		a.results = store.NewMemoryResults()
		a.log.Info("results store", "kind", "memory")
	}

	if cfg.Redis.Addr == "" {
		a.visits = visits.NewMemory()
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis ping (%s db=%d): %w", cfg.Redis.Addr, cfg.Redis.DB, err)
	}
	a.rdb = rdb
	a.visits = visits.NewRedis(rdb, "")
	return nil
}

func (a *App) router(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(httpapi.AccessLog(a.log))

	stats := &httpapi.StatsHandler{
		Sessions: a.game,
		Results:  a.results,
		Visits:   a.visits,
		Log:      a.log,
	}
	if a.outcomes != nil {
		stats.Outcomes = a.outcomes
	}
	httpapi.Routes(r, stats)
	a.game.RegisterRoutes(r)

	if opts.Static != nil {
		r.Handle("/*", opts.Static)
	}

	dev := a.cfg.Env == "dev" && a.log.Enabled(context.Background(), slog.LevelDebug)
	return httpapi.DevRequestLog(dev, r)
}

// TCPAddr is the bound game listener address.
func (a *App) TCPAddr() net.Addr { return a.tcpLn.Addr() }

// HTTPAddr is the bound ops listener address, or nil when HTTP is disabled.
func (a *App) HTTPAddr() net.Addr {
	if a.httpLn == nil {
		return nil
	}
	return a.httpLn.Addr()
}

// Run serves until ctx is done, then drains live sessions and closes stores.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.game.Serve(gctx, a.tcpLn)
	})

	if a.srv != nil {
		// Hijacked websocket conns are not tracked by Shutdown; deriving
		// request contexts from gctx lets their sessions see cancellation.
		a.srv.BaseContext = func(net.Listener) context.Context { return gctx }
		a.log.Info("http server starting", "addr", a.httpLn.Addr().String())

		g.Go(func() error {
			err := a.srv.Serve(a.httpLn)
			if err == nil || errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
			defer cancel()
			a.log.Info("http server shutting down")
			_ = a.srv.Shutdown(shutdownCtx)
			return nil
		})
	}

	err := g.Wait()
	a.game.Wait()
	a.log.Info("all sessions finished", "stats", a.game.Stats())
	_ = a.Close()
	return err
}

// Close releases both listeners, the results store and the Redis client. It is
// called by Run, and by callers that built an App they never ran.
func (a *App) Close() error {
	if a.tcpLn != nil {
		_ = a.tcpLn.Close()
	}
	if a.httpLn != nil {
		_ = a.httpLn.Close()
	}
	return a.closeStores()
}

func (a *App) closeStores() error {
	var errs []error
	if a.results != nil {
		errs = append(errs, a.results.Close())
		a.results = nil
	}
	if a.rdb != nil {
		errs = append(errs, a.rdb.Close())
		a.rdb = nil
	}
	return errors.Join(errs...)
}
