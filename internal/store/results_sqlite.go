package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"example.com/hangman/internal/game"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteResults is the single-file results store used when no Postgres is configured.
type SQLiteResults struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if missing) the database at path with WAL
// journaling and a busy timeout.
func OpenSQLite(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	return db, nil
}

func NewSQLiteResults(db *sql.DB) *SQLiteResults {
	return &SQLiteResults{db: db}
}

func (s *SQLiteResults) Record(ctx context.Context, r game.Result) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO game_results
			(session_id, remote, transport, word_len, outcome, budget,
			 rounds, hits, misses, repeats, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.SessionID, r.Remote, r.Transport, r.WordLen, r.Outcome, r.Budget,
		r.Rounds, r.Hits, r.Misses, r.Repeats, r.StartedAt.UTC(), r.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert game result: %w", err)
	}
	return nil
}

func (s *SQLiteResults) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN outcome = 'won' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN outcome = 'lost' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN outcome = 'aborted' THEN 1 ELSE 0 END), 0),
		       COALESCE(AVG(rounds), 0.0)
		FROM game_results
	`).Scan(&sum.Games, &sum.Won, &sum.Lost, &sum.Aborted, &sum.AvgRounds)
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}

func (s *SQLiteResults) Recent(ctx context.Context, limit int) ([]game.Result, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, remote, transport, word_len, outcome, budget,
		       rounds, hits, misses, repeats, started_at, finished_at
		FROM game_results
		ORDER BY finished_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]game.Result, 0, limit)
	for rows.Next() {
		var r game.Result
		if err := rows.Scan(&r.SessionID, &r.Remote, &r.Transport, &r.WordLen, &r.Outcome, &r.Budget,
			&r.Rounds, &r.Hits, &r.Misses, &r.Repeats, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteResults) Close() error {
	return s.db.Close()
}
