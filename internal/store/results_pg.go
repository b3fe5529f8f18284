package store

import (
	"context"
	"fmt"

	"example.com/hangman/internal/game"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGResults struct {
	db *pgxpool.Pool
}

func NewPGResults(db *pgxpool.Pool) *PGResults {
	return &PGResults{db: db}
}

func (s *PGResults) Record(ctx context.Context, r game.Result) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO game_results
			(session_id, remote, transport, word_len, outcome, budget,
			 rounds, hits, misses, repeats, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (session_id) DO NOTHING
	`, r.SessionID, r.Remote, r.Transport, r.WordLen, r.Outcome, r.Budget,
		r.Rounds, r.Hits, r.Misses, r.Repeats, r.StartedAt, r.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert game result: %w", err)
	}
	return nil
}

func (s *PGResults) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE outcome = 'won'),
		       COUNT(*) FILTER (WHERE outcome = 'lost'),
		       COUNT(*) FILTER (WHERE outcome = 'aborted'),
		       COALESCE(AVG(rounds), 0)::float8
		FROM game_results
	`).Scan(&sum.Games, &sum.Won, &sum.Lost, &sum.Aborted, &sum.AvgRounds)
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}

func (s *PGResults) Recent(ctx context.Context, limit int) ([]game.Result, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := s.db.Query(ctx, `
		SELECT session_id, remote, transport, word_len, outcome, budget,
		       rounds, hits, misses, repeats, started_at, finished_at
		FROM game_results
		ORDER BY finished_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (game.Result, error) {
		var r game.Result
		err := row.Scan(&r.SessionID, &r.Remote, &r.Transport, &r.WordLen, &r.Outcome, &r.Budget,
			&r.Rounds, &r.Hits, &r.Misses, &r.Repeats, &r.StartedAt, &r.FinishedAt)
		return r, err
	})
}

func (s *PGResults) Close() error {
	s.db.Close()
	return nil
}
