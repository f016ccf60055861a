package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordladder/go-server/internal/game"
)

func TestMemoryStoreSaveGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	g := &game.Game{ID: "abc123", StartWord: "COLD", TargetWord: "WARM", Status: game.StatusInProgress}
	require.NoError(t, s.Save(ctx, g))

	got, err := s.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Same(t, g, got)

	// Save is an upsert.
	g2 := &game.Game{ID: "abc123", StartWord: "LEAD", TargetWord: "GOLD"}
	require.NoError(t, s.Save(ctx, g2))
	got, err = s.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Same(t, g2, got)
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n%10))
			_ = s.Save(ctx, &game.Game{ID: id})
			_, _ = s.Get(ctx, id)
		}(i)
	}
	wg.Wait()

	for n := 0; n < 10; n++ {
		_, err := s.Get(ctx, string(rune('a'+n)))
		assert.NoError(t, err)
	}
}
