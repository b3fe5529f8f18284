package migrate

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// UpPostgres applies all pending migrations to the database at dbURL.
//
// It returns an error (no log.Fatal) so the caller can decide how to handle it.
func UpPostgres(dbURL string, log *slog.Logger) error {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("migrations: open db: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil && log != nil {
			log.Error("database close error", "err", err)
		}
	}(db)

	return up(db, "postgres", "migrations/postgres", log)
}

// UpSQLite applies all pending migrations to an open SQLite handle.
func UpSQLite(db *sql.DB, log *slog.Logger) error {
	return up(db, "sqlite3", "migrations/sqlite", log)
}

func up(db *sql.DB, dialect, dir string, log *slog.Logger) error {
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migrations: set dialect: %w", err)
	}

	if log != nil {
		log.Info("running database migrations", "dialect", dialect)
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migrations: goose up: %w", err)
	}
	if log != nil {
		log.Info("database migrations applied", "dialect", dialect)
	}
	return nil
}
