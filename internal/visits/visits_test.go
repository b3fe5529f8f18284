package visits

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_ConcurrentIncr(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Incr(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50), n)
}
