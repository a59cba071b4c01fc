package counter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type fakeOwner struct {
	empty bool
}

func (f *fakeOwner) Empty(context.Context) (bool, error) {
	return f.empty, nil
}

func TestMemoryNext_SequentialValues(t *testing.T) {
	alloc := NewMemory(&fakeOwner{})
	ctx := context.Background()

	for want := 1; want <= 5; want++ {
		got, err := alloc.Next(ctx, "resources")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestMemoryNext_IndependentSequences(t *testing.T) {
	alloc := NewMemory(&fakeOwner{})
	ctx := context.Background()

	a, err := alloc.Next(ctx, "resources")
	require.NoError(t, err)
	b, err := alloc.Next(ctx, "users")
	require.NoError(t, err)

	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b, "each type name sequences independently")
}

func TestMemoryNext_ConcurrentCallersNeverCollide(t *testing.T) {
	alloc := NewMemory(&fakeOwner{})
	ctx := context.Background()

	const callers = 100
	values := make(chan int, callers)

	var g errgroup.Group
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			v, err := alloc.Next(ctx, "resources")
			if err != nil {
				return err
			}
			values <- v
			return nil
		})
	}
	require.NoError(t, g.Wait())
	close(values)

	seen := make(map[int]bool, callers)
	for v := range values {
		assert.False(t, seen[v], "value %d allocated twice", v)
		seen[v] = true
	}
	// No gaps either: exactly {1..callers}.
	for want := 1; want <= callers; want++ {
		assert.True(t, seen[want], "value %d never allocated", want)
	}
}

func TestMemoryReclaim_DecrementsWhileOwnerNonEmpty(t *testing.T) {
	owner := &fakeOwner{empty: false}
	alloc := NewMemory(owner)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := alloc.Next(ctx, "resources")
		require.NoError(t, err)
	}

	require.NoError(t, alloc.Reclaim(ctx, "resources"))

	next, err := alloc.Next(ctx, "resources")
	require.NoError(t, err)
	assert.Equal(t, 3, next, "reclaim decrements by exactly one")
}

func TestMemoryReclaim_ResetsToOneWhenOwnerEmpty(t *testing.T) {
	owner := &fakeOwner{empty: false}
	alloc := NewMemory(owner)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := alloc.Next(ctx, "resources")
		require.NoError(t, err)
	}

	// Last record removed: the sequence restarts.
	owner.empty = true
	require.NoError(t, alloc.Reclaim(ctx, "resources"))

	next, err := alloc.Next(ctx, "resources")
	require.NoError(t, err)
	assert.Equal(t, 1, next, "sequence restarts at 1 once the collection has emptied")
}
