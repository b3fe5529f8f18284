//go:build cgo

package store

import (
	"context"
	"path/filepath"
	"testing"

	"example.com/hangman/internal/migrate"
	"github.com/stretchr/testify/require"
)

func TestSQLiteResults(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "results.db"))
	require.NoError(t, err)
	require.NoError(t, migrate.UpSQLite(db, nil))

	s := NewSQLiteResults(db)
	defer s.Close()

	exerciseResults(t, s)

	// duplicate session ids are ignored
	r := sampleResults()[0]
	require.NoError(t, s.Record(context.Background(), r))
	sum, err := s.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(4), sum.Games)
}
