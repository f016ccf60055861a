package ladder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordladder/go-server/internal/lexicon"
)

func newTestFinder(t *testing.T) *Finder {
	t.Helper()
	lex, err := lexicon.New()
	require.NoError(t, err)
	return NewFinder(lex)
}

func TestFindPathShortest(t *testing.T) {
	f := newTestFinder(t)

	tests := []struct {
		name   string
		start  string
		target string
		want   []string
	}{
		{
			name:   "four step ladder",
			start:  "COLD",
			target: "WARM",
			want:   []string{"COLD", "WOLD", "WORD", "WARD", "WARM"},
		},
		{
			name:   "three step ladder",
			start:  "LEAD",
			target: "GOLD",
			want:   []string{"LEAD", "LOAD", "GOAD", "GOLD"},
		},
		{
			name:   "normalized input",
			start:  "rock",
			target: "sand",
			want:   []string{"ROCK", "SOCK", "SACK", "SANK", "SAND"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.FindPath(tt.start, tt.target))
		})
	}
}

func TestFindPathEdgeCases(t *testing.T) {
	f := newTestFinder(t)

	assert.Equal(t, []string{"COLD"}, f.FindPath("COLD", "cold"), "equal words yield a trivial path")
	assert.Nil(t, f.FindPath("ZZZZ", "WARM"), "invalid start word")
	assert.Nil(t, f.FindPath("COLD", "ZZZZ"), "invalid target word")
	assert.Nil(t, f.FindPath("COLD", "HOUSE"), "length mismatch has no ladder")
}

func TestFindPathCache(t *testing.T) {
	f := newTestFinder(t)

	require.Equal(t, 0, f.CacheSize())
	first := f.FindPath("COLD", "WARM")
	require.NotNil(t, first)
	assert.Equal(t, 1, f.CacheSize())

	// Callers get copies: mutating a result must not poison the cache.
	first[0] = "XXXX"
	second := f.FindPath("COLD", "WARM")
	assert.Equal(t, []string{"COLD", "WOLD", "WORD", "WARD", "WARM"}, second)

	// Failed searches are not cached.
	assert.Nil(t, f.FindPath("LEAF", "TREE"))
	assert.Equal(t, 1, f.CacheSize())

	f.ClearCache()
	assert.Equal(t, 0, f.CacheSize())
}

func TestPathExists(t *testing.T) {
	f := newTestFinder(t)

	assert.True(t, f.PathExists("COLD", "WARM"))
	assert.False(t, f.PathExists("LEAF", "TREE"), "disconnected pair within the depth bound")
	assert.False(t, f.PathExists("COLD", "ZZZZ"))

	// Cached pairs answer without a fresh search.
	require.NotNil(t, f.FindPath("LEAD", "GOLD"))
	assert.True(t, f.PathExists("LEAD", "GOLD"))
}

func TestNextWord(t *testing.T) {
	f := newTestFinder(t)

	assert.Equal(t, "WOLD", f.NextWord("COLD", "WARM"))
	assert.Equal(t, "WORD", f.NextWord("CORD", "WARM"))

	// No guidance available: the target itself comes back.
	assert.Equal(t, "TREE", f.NextWord("LEAF", "TREE"))
}

func TestAllPaths(t *testing.T) {
	f := newTestFinder(t)

	paths := f.AllPaths("COLD", "WARM", 3)
	require.Len(t, paths, 1)
	assert.Equal(t, []string{"COLD", "WOLD", "WORD", "WARD", "WARM"}, paths[0])

	assert.Empty(t, f.AllPaths("LEAF", "TREE", 3))
}
