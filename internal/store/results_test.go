package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"example.com/hangman/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []game.Result {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	outcomes := []string{"won", "lost", "aborted", "won"}
	out := make([]game.Result, 0, len(outcomes))
	for i, o := range outcomes {
		out = append(out, game.Result{
			SessionID:  fmt.Sprintf("s-%d", i),
			Remote:     "127.0.0.1:1000",
			Transport:  "tcp",
			WordLen:    3,
			Outcome:    o,
			Budget:     1,
			Rounds:     i + 1,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + 30*time.Second),
		})
	}
	return out
}

// exerciseResults runs the shared contract against any Results implementation.
func exerciseResults(t *testing.T, s Results) {
	t.Helper()
	ctx := context.Background()

	sum, err := s.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)

	for _, r := range sampleResults() {
		require.NoError(t, s.Record(ctx, r))
	}

	sum, err = s.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), sum.Games)
	assert.Equal(t, int64(2), sum.Won)
	assert.Equal(t, int64(1), sum.Lost)
	assert.Equal(t, int64(1), sum.Aborted)
	assert.InDelta(t, 2.5, sum.AvgRounds, 0.001)

	recent, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "s-3", recent[0].SessionID)
	assert.Equal(t, "s-2", recent[1].SessionID)
	assert.Equal(t, "aborted", recent[1].Outcome)
	assert.True(t, recent[0].FinishedAt.Equal(sampleResults()[3].FinishedAt))

	all, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestMemoryResults(t *testing.T) {
	exerciseResults(t, NewMemoryResults())
}
