package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

const recordTimeout = 5 * time.Second

type Config struct {
	Word        string        // validated secret word shared by every session
	IdleTimeout time.Duration // 0 => block forever on a silent peer
	MaxSessions int           // 0 => unlimited
}

// VisitCounter counts accepted connections.
type VisitCounter interface {
	Incr(ctx context.Context) (int64, error)
}

// ConnStats is a snapshot of connection counters.
type ConnStats struct {
	Open     int64 `json:"open"`
	Total    int64 `json:"total"`
	Rejected int64 `json:"rejected"`
}

// Server accepts connections and runs one Session per connection.
type Server struct {
	cfg Config
	log *slog.Logger

	results  ResultRecorder
	visits   VisitCounter
	sessions *Registry
	slots    *semaphore.Weighted

	mu      sync.Mutex
	closing bool
	wg      sync.WaitGroup

	open     atomic.Int64
	total    atomic.Int64
	rejected atomic.Int64
}

func NewServer(cfg Config, log *slog.Logger, results ResultRecorder, visits VisitCounter) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		log:      log,
		results:  results,
		visits:   visits,
		sessions: NewRegistry(),
	}
	if cfg.MaxSessions > 0 {
		s.slots = semaphore.NewWeighted(int64(cfg.MaxSessions))
	}
	return s
}

// Serve accepts connections on ln until ctx is done or ln is closed. A failed
// accept is logged and the loop keeps going.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	s.log.Info("tcp acceptor started", "addr", ln.Addr().String(), "word_len", len(s.cfg.Word))

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.log.Info("tcp acceptor stopped")
				return nil
			}
			delay = nextAcceptDelay(delay)
			s.log.Warn("accept failed", "err", err, "retry_in", delay)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			continue
		}
		delay = 0

		if !s.track() {
			_ = conn.Close()
			continue
		}
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, conn, conn.RemoteAddr().String(), "tcp")
		}()
	}
}

// Handle runs a session on conn in the calling goroutine. It is used by
// transports that already own a goroutine per connection.
func (s *Server) Handle(ctx context.Context, conn io.ReadWriteCloser, remote, transport string) {
	if !s.track() {
		s.log.Info("server stopping, closing connection", "remote", remote, "transport", transport)
		_ = conn.Close()
		return
	}
	defer s.wg.Done()
	s.serveConn(ctx, conn, remote, transport)
}

// Wait stops new sessions from starting and blocks until every running
// session has returned.
func (s *Server) Wait() {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()
	s.wg.Wait()
}

// track registers a session with the WaitGroup unless Wait has begun.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *Server) serveConn(ctx context.Context, conn io.ReadWriteCloser, remote, transport string) {
	if !s.admit() {
		s.reject(conn, remote)
		return
	}
	defer s.release()
	s.runSession(ctx, conn, remote, transport)
}

func (s *Server) Stats() ConnStats {
	return ConnStats{
		Open:     s.open.Load(),
		Total:    s.total.Load(),
		Rejected: s.rejected.Load(),
	}
}

func (s *Server) Sessions() []SessionInfo {
	return s.sessions.List()
}

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/ws", s.handleWS)
}

func (s *Server) runSession(ctx context.Context, conn io.ReadWriteCloser, remote, transport string) {
	id := uuid.NewString()
	s.total.Add(1)
	s.open.Add(1)
	defer s.open.Add(-1)

	if s.visits != nil {
		n, err := s.visits.Incr(ctx)
		if err != nil {
			s.log.Warn("visit counter failed", "err", err)
		} else {
			s.log.Debug("visit", "count", n)
		}
	}

	sess := NewSession(id, conn, s.cfg.Word)
	sess.log = s.log
	sess.idleTimeout = s.cfg.IdleTimeout
	sess.remote = remote
	sess.transport = transport
	sess.onFinish = func(r Result) { s.record(ctx, r) }

	s.sessions.Add(SessionInfo{ID: id, Remote: remote, Transport: transport, StartedAt: time.Now()})
	defer s.sessions.Remove(id)

	_ = sess.Run(ctx)
}

func (s *Server) record(ctx context.Context, r Result) {
	if s.results == nil {
		return
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := s.results.Record(rctx, r); err != nil {
		s.log.Warn("record result failed", "session", r.SessionID, "err", err)
	}
}

func (s *Server) admit() bool {
	if s.slots == nil {
		return true
	}
	return s.slots.TryAcquire(1)
}

func (s *Server) release() {
	if s.slots != nil {
		s.slots.Release(1)
	}
}

func (s *Server) reject(conn io.Closer, remote string) {
	s.rejected.Add(1)
	s.log.Warn("session limit reached, closing connection", "remote", remote, "max_sessions", s.cfg.MaxSessions)
	_ = conn.Close()
}

func nextAcceptDelay(d time.Duration) time.Duration {
	const maxDelay = time.Second
	if d == 0 {
		return 5 * time.Millisecond
	}
	d *= 2
	if d > maxDelay {
		d = maxDelay
	}
	return d
}
