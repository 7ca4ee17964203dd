package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetSweepsExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	m := NewMemory()
	m.now = func() time.Time { return now }

	for i := range 1000 {
		require.NoError(t, m.Set(ctx, fmt.Sprintf("plan-%d", i), i, time.Minute))
	}

	assert.Equal(t, 1000, m.Len())

	now = now.Add(time.Hour)

	require.NoError(t, m.Set(ctx, "fresh", 1, time.Minute))
	assert.Equal(t, 1, m.Len())

	var got int
	require.NoError(t, m.Get(ctx, "fresh", &got))
	assert.Equal(t, 1, got)
}

func TestMemory_EvictsOldestWhenFull(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	m := NewMemory()
	m.maxEntries = 3
	m.now = func() time.Time { return now }

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, m.Set(ctx, k, k, 0))
		now = now.Add(time.Second)
	}

	// Overwriting an existing key does not evict.
	require.NoError(t, m.Set(ctx, "b", "b2", 0))
	assert.Equal(t, 3, m.Len())

	require.NoError(t, m.Set(ctx, "d", "d", 0))
	assert.Equal(t, 3, m.Len())

	var v string
	assert.ErrorIs(t, m.Get(ctx, "a", &v), ErrMiss)

	for _, k := range []string{"b", "c", "d"} {
		assert.NoError(t, m.Get(ctx, k, &v), k)
	}
}
