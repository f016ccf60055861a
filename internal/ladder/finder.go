// internal/ladder/finder.go
//
// Shortest-path search over the implicit word graph: nodes are lexicon-valid
// words of a fixed length, edges connect words one letter-change apart.
//
// Responsibilities:
//   - Breadth-first shortest path between two words, bounded in depth.
//   - Memoize discovered paths in a bounded, concurrency-safe cache keyed by
//     the ordered (start, target) pair.
//   - Derive next-move guidance from the shortest path.
//
// Notes:
//   - BFS guarantees minimality among paths within the depth bound. A nil
//     result past the bound means "not found within 15 levels", not "no path
//     exists".
//   - Cache entries are idempotent: recomputing and overwriting a path with
//     an identical shortest path is harmless, so a plain mutex suffices.

package ladder

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wordladder/go-server/internal/lexicon"
)

const (
	// maxSearchDepth bounds BFS levels to prevent runaway searches.
	maxSearchDepth = 15

	// maxCacheEntries bounds the shared path cache. The cache lives for the
	// whole process and serves every concurrent game, so it cannot grow
	// without limit.
	maxCacheEntries = 4096
)

// pairKey is the directional cache key.
type pairKey struct {
	start  string
	target string
}

// Finder performs BFS over the lexicon-defined word graph and caches
// successful searches. State-machine free: every method is a pure query
// against the lexicon plus the cache.
type Finder struct {
	lex *lexicon.Lexicon

	mu    sync.Mutex
	cache map[pairKey][]string
}

// NewFinder constructs a Finder over lex.
func NewFinder(lex *lexicon.Lexicon) *Finder {
	return &Finder{
		lex:   lex,
		cache: make(map[pairKey][]string),
	}
}

// FindPath returns the shortest path from start to target, both endpoints
// included, or nil if no path is found within the depth bound. Equal words
// yield a single-element path; invalid endpoints yield nil.
func (f *Finder) FindPath(start, target string) []string {
	start, target = lexicon.Normalize(start), lexicon.Normalize(target)

	if start == target {
		return []string{start}
	}
	if !f.lex.IsValidWord(start) {
		log.Debug().Str("word", start).Msg("path search rejected: invalid start word")
		return nil
	}
	if !f.lex.IsValidWord(target) {
		log.Debug().Str("word", target).Msg("path search rejected: invalid target word")
		return nil
	}

	key := pairKey{start, target}
	f.mu.Lock()
	if cached, ok := f.cache[key]; ok {
		f.mu.Unlock()
		return append([]string(nil), cached...)
	}
	f.mu.Unlock()

	path := f.search(start, target)
	if path == nil {
		log.Debug().Str("start", start).Str("target", target).
			Int("maxDepth", maxSearchDepth).Msg("no path found within depth bound")
		return nil
	}

	f.mu.Lock()
	if len(f.cache) >= maxCacheEntries {
		// Evict an arbitrary entry; any entry can be recomputed.
		for k := range f.cache {
			delete(f.cache, k)
			break
		}
	}
	f.cache[key] = path
	f.mu.Unlock()

	return append([]string(nil), path...)
}

// search runs level-order BFS. Neighbor order comes from
// lexicon.PossibleWords, so the discovered path is reproducible.
func (f *Finder) search(start, target string) []string {
	type node struct {
		word string
		path []string
	}

	visited := map[string]struct{}{start: {}}
	queue := []node{{word: start, path: []string{start}}}

	for depth := 0; len(queue) > 0 && depth < maxSearchDepth; depth++ {
		var next []node
		for _, n := range queue {
			for _, neighbor := range f.lex.PossibleWords(n.word) {
				if _, seen := visited[neighbor]; seen {
					continue
				}
				visited[neighbor] = struct{}{}
				path := make([]string, len(n.path)+1)
				copy(path, n.path)
				path[len(n.path)] = neighbor
				if neighbor == target {
					return path
				}
				next = append(next, node{word: neighbor, path: path})
			}
		}
		queue = next
	}
	return nil
}

// PathExists reports whether a non-trivial path connects start and target:
// either a cached path exists or a fresh search succeeds.
func (f *Finder) PathExists(start, target string) bool {
	start, target = lexicon.Normalize(start), lexicon.Normalize(target)

	f.mu.Lock()
	_, ok := f.cache[pairKey{start, target}]
	f.mu.Unlock()
	if ok {
		return true
	}
	path := f.FindPath(start, target)
	return len(path) > 1
}

// NextWord returns the optimal next word on the way from current to target.
// Falls back to returning target itself when no path is found; that signals
// "no guidance available", not an error.
func (f *Finder) NextWord(current, target string) string {
	current, target = lexicon.Normalize(current), lexicon.Normalize(target)

	f.mu.Lock()
	cached, ok := f.cache[pairKey{current, target}]
	f.mu.Unlock()
	if ok && len(cached) > 1 {
		return cached[1]
	}

	if path := f.FindPath(current, target); len(path) > 1 {
		return path[1]
	}
	return target
}

// AllPaths returns the known paths from start to target. Currently a stub
// for a future multi-path mode: it yields at most the single shortest path.
func (f *Finder) AllPaths(start, target string, maxPaths int) [][]string {
	_ = maxPaths
	var paths [][]string
	if shortest := f.FindPath(start, target); shortest != nil {
		paths = append(paths, shortest)
	}
	return paths
}

// ClearCache drops every cached path.
func (f *Finder) ClearCache() {
	f.mu.Lock()
	f.cache = make(map[pairKey][]string)
	f.mu.Unlock()
}

// CacheSize returns the number of cached paths.
func (f *Finder) CacheSize() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cache)
}
