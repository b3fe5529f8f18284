package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jpillora/sizestr"
)

// Session plays one game over one connection. It is owned by a single goroutine;
// only Close may be called from elsewhere.
type Session struct {
	id   string
	conn io.ReadWriteCloser
	rw   *meter

	board  *Board
	budget byte
	state  State

	log         *slog.Logger
	idleTimeout time.Duration
	onFinish    func(Result)

	remote    string
	transport string

	startedAt time.Time
	rounds    int
	hits      int
	misses    int
	repeats   int

	closeOnce sync.Once
	closeErr  error
}

// NewSession binds word to conn. The word must already be validated.
func NewSession(id string, conn io.ReadWriteCloser, word string) *Session {
	return &Session{
		id:        id,
		conn:      conn,
		rw:        &meter{rw: conn},
		board:     NewBoard(word),
		budget:    byte(len(word)),
		state:     StatePlaying,
		log:       slog.Default(),
		transport: "tcp",
	}
}

func (s *Session) State() State { return s.state }
func (s *Session) Budget() byte { return s.budget }
func (s *Session) Board() *Board { return s.board }

// Guess applies one guess to the state machine and returns its classification.
// Hits are free; misses and repeats cost one guess.
func (s *Session) Guess(c byte) Outcome {
	if s.state != StatePlaying {
		return Miss
	}
	s.rounds++

	o := s.board.Apply(c)
	switch o {
	case Hit:
		s.hits++
	case Repeat:
		s.repeats++
		s.budget--
	default:
		s.misses++
		s.budget--
	}

	switch {
	case s.board.Solved():
		s.state = StateWon
	case s.budget == 0:
		s.state = StateLost
	}
	return o
}

// Run drives the protocol until the game ends or the connection fails. The
// connection is closed on every return path, and also when ctx is done.
func (s *Session) Run(ctx context.Context) error {
	s.startedAt = time.Now()
	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()
	defer s.Close()

	log := s.log.With("session", s.id, "remote", s.remote)
	log.Info("session started", "transport", s.transport, "word_len", s.board.Len())

	for s.state == StatePlaying {
		if err := s.send(s.budget); err != nil {
			return s.abort(log, err)
		}
		c, err := s.recv()
		if err != nil {
			return s.abort(log, err)
		}
		o := s.Guess(c)
		log.Debug("guess", "char", string(c), "outcome", o.String(), "budget", s.budget, "board", s.board.String())
	}

	outcome := s.state
	final := BudgetLost
	if outcome == StateWon {
		final = BudgetWon
	}
	if err := s.send(final); err != nil {
		return s.abort(log, err)
	}

	s.state = StateClosed
	s.finish(string(outcome))
	log.Info("session finished",
		"outcome", outcome,
		"rounds", s.rounds,
		"sent", sizestr.ToString(s.rw.written()),
		"received", sizestr.ToString(s.rw.read()),
	)
	return nil
}

// Close releases the connection. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}

func (s *Session) abort(log *slog.Logger, err error) error {
	s.state = StateClosed
	s.finish(OutcomeAborted)

	attrs := []any{
		"err", err,
		"rounds", s.rounds,
		"sent", sizestr.ToString(s.rw.written()),
		"received", sizestr.ToString(s.rw.read()),
	}
	if errors.Is(err, ErrPeerClosed) {
		log.Info("session abandoned by peer", attrs...)
	} else {
		log.Warn("session aborted", attrs...)
	}
	return err
}

func (s *Session) finish(outcome string) {
	if s.onFinish == nil {
		return
	}
	s.onFinish(s.resultFor(outcome))
}

func (s *Session) send(budget byte) error {
	if d, ok := s.conn.(deadliner); ok && s.idleTimeout > 0 {
		_ = d.SetWriteDeadline(time.Now().Add(s.idleTimeout))
	}
	return WriteStatus(s.rw, budget, s.board.Bytes())
}

func (s *Session) recv() (byte, error) {
	if d, ok := s.conn.(deadliner); ok && s.idleTimeout > 0 {
		_ = d.SetReadDeadline(time.Now().Add(s.idleTimeout))
	}
	return ReadGuess(s.rw)
}

type deadliner interface {
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// meter counts bytes moved through a session's connection.
type meter struct {
	rw  io.ReadWriter
	in  atomic.Int64
	out atomic.Int64
}

func (m *meter) Read(p []byte) (int, error) {
	n, err := m.rw.Read(p)
	m.in.Add(int64(n))
	return n, err
}

func (m *meter) Write(p []byte) (int, error) {
	n, err := m.rw.Write(p)
	m.out.Add(int64(n))
	return n, err
}

func (m *meter) read() int64 { return m.in.Load() }
func (m *meter) written() int64 { return m.out.Load() }
