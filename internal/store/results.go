package store

import (
	"context"
	"sync"

	"example.com/hangman/internal/game"
)

const DefaultRecentLimit = 20

// Summary aggregates every recorded session.
type Summary struct {
	Games     int64   `json:"games"`
	Won       int64   `json:"won"`
	Lost      int64   `json:"lost"`
	Aborted   int64   `json:"aborted"`
	AvgRounds float64 `json:"avgRounds"`
}

// Results is implemented by every result store.
type Results interface {
	game.ResultRecorder
	Summary(ctx context.Context) (Summary, error)
	Recent(ctx context.Context, limit int) ([]game.Result, error)
	Close() error
}

// MemoryResults keeps results for the life of the process.
type MemoryResults struct {
	mu      sync.Mutex
	results []game.Result
}

func NewMemoryResults() *MemoryResults {
	return &MemoryResults{}
}

func (s *MemoryResults) Record(ctx context.Context, r game.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

func (s *MemoryResults) Summary(ctx context.Context) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum Summary
	var rounds int64
	for _, r := range s.results {
		sum.Games++
		rounds += int64(r.Rounds)
		switch r.Outcome {
		case string(game.StateWon):
			sum.Won++
		case string(game.StateLost):
			sum.Lost++
		default:
			sum.Aborted++
		}
	}
	if sum.Games > 0 {
		sum.AvgRounds = float64(rounds) / float64(sum.Games)
	}
	return sum, nil
}

// Recent returns the latest results, newest first.
func (s *MemoryResults) Recent(ctx context.Context, limit int) ([]game.Result, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]game.Result, 0, min(limit, len(s.results)))
	for i := len(s.results) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.results[i])
	}
	return out, nil
}

func (s *MemoryResults) Close() error { return nil }
