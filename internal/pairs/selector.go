// internal/pairs/selector.go
//
// Curated catalog of guaranteed-solvable word pairs and seeded random
// selection over it.
//
// Responsibilities:
//   - Hold the hand-verified (length, difficulty) pair catalog.
//   - Select a pair uniformly, reseeding its own RNG at most once per
//     500 ms window so bursts of calls share a seed epoch while separated
//     calls diversify.
//   - Provide pair sanity checks used at game creation.
//
// The selector owns its RNG and takes its clock by injection, so tests can
// control determinism without touching process-wide state.

package pairs

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Difficulty names the catalog's difficulty tiers.
type Difficulty string

const (
	Easy   Difficulty = "EASY"
	Medium Difficulty = "MEDIUM"
	Hard   Difficulty = "HARD"
)

// NormalizeDifficulty maps any casing of a tier name to its canonical form.
// Unknown tiers become Medium.
func NormalizeDifficulty(d Difficulty) Difficulty {
	switch Difficulty(strings.ToUpper(string(d))) {
	case Easy:
		return Easy
	case Hard:
		return Hard
	case Medium:
		return Medium
	default:
		log.Warn().Str("difficulty", string(d)).Msg("invalid difficulty, defaulting to MEDIUM")
		return Medium
	}
}

// Pair is a (start, target) word pair verified offline to have a solution.
type Pair struct {
	Start  string
	Target string
}

// reseedWindow is how long a seed epoch lasts. Calls inside the window share
// one RNG stream; calls after it reseed from the clock.
const reseedWindow = 500 * time.Millisecond

// catalog maps word length -> difficulty -> verified pairs.
var catalog = map[int]map[Difficulty][]Pair{
	4: {
		Easy: {
			{"COLD", "WARM"}, {"BANK", "LOAN"}, {"BIRD", "FISH"},
			{"FAST", "SLOW"}, {"HARD", "SOFT"}, {"DARK", "MOON"},
			{"ROCK", "HILL"}, {"FIRE", "HEAT"}, {"LEAF", "TREE"},
			{"WIND", "BLOW"},
		},
		Medium: {
			{"ROCK", "SAND"}, {"LEAD", "GOLD"}, {"FISH", "MEAT"},
			{"TREE", "BUSH"}, {"MILK", "CREAM"}, {"DOOR", "LOCK"},
			{"BOOK", "READ"}, {"HAIR", "BALD"}, {"RAIN", "DROP"},
			{"HAND", "FOOT"},
		},
		Hard: {
			{"WINE", "CORK"}, {"SHIP", "DOCK"}, {"KING", "PAWN"},
			{"LOVE", "HATE"}, {"RICH", "POOR"}, {"DAWN", "DUSK"},
			{"HOPE", "FEAR"}, {"CALM", "WILD"}, {"WEAK", "IRON"},
			{"TINY", "HUGE"},
		},
	},
	5: {
		Easy: {
			{"HOUSE", "RANCH"}, {"HAPPY", "SMILE"}, {"OCEAN", "WATER"},
			{"BRAIN", "THINK"}, {"LIGHT", "SHINE"}, {"DREAM", "SLEEP"},
			{"FRESH", "CLEAN"}, {"HEART", "BLOOD"}, {"PLANT", "GREEN"},
			{"ROUND", "CURVE"},
		},
		Medium: {
			{"MOUSE", "TIGER"}, {"POWER", "LIGHT"}, {"BREAD", "WHEAT"},
			{"STORM", "QUIET"}, {"STONE", "WATER"}, {"MUSIC", "SOUND"},
			{"FRONT", "SOUTH"}, {"YOUTH", "ELDER"}, {"SWEET", "SUGAR"},
			{"BREAK", "TRAIN"},
		},
		Hard: {
			{"SHARP", "BLUNT"}, {"QUICK", "SNAIL"}, {"EMPTY", "FLOOD"},
			{"GIANT", "SMALL"}, {"FIRST", "FINAL"}, {"NIGHT", "STORM"},
			{"CLOUD", "CLEAR"}, {"GRAND", "PLAIN"}, {"QUIET", "NOISE"},
			{"STEEL", "STONE"},
		},
	},
}

// fallbackPairs are used when a catalog cell is unexpectedly empty.
var fallbackPairs = map[int][]Pair{
	4: {
		{"COLD", "WARM"}, {"BANK", "LOAN"}, {"FAST", "SLOW"}, {"ROCK", "SAND"},
	},
	5: {
		{"HOUSE", "RANCH"}, {"HAPPY", "SMILE"}, {"BRAIN", "THINK"}, {"OCEAN", "WATER"},
	},
}

// finalPairs are the hardcoded last resort, one per length.
var finalPairs = map[int]Pair{
	4: {"COLD", "WARM"},
	5: {"HOUSE", "RANCH"},
}

// themedPairs groups pairs by presentation theme.
var themedPairs = map[string]map[int][]Pair{
	"animals": {
		4: {{"BIRD", "FISH"}, {"BEAR", "DEER"}, {"WOLF", "DUCK"}},
		5: {{"MOUSE", "TIGER"}, {"HORSE", "SHEEP"}},
	},
	"colors": {
		4: {{"BLUE", "PINK"}, {"GRAY", "GOLD"}},
		5: {{"BLACK", "WHITE"}, {"BROWN", "GREEN"}},
	},
	"food": {
		4: {{"MILK", "BEEF"}, {"RICE", "BEAN"}, {"CAKE", "MEAT"}},
		5: {{"BREAD", "WHEAT"}, {"SWEET", "SUGAR"}},
	},
	"emotions": {
		4: {{"LOVE", "HATE"}, {"HOPE", "FEAR"}, {"CALM", "WILD"}},
		5: {{"HAPPY", "SMILE"}, {"ANGRY", "PEACE"}},
	},
	"weather": {
		4: {{"RAIN", "SNOW"}, {"WIND", "CALM"}, {"DARK", "MOON"}},
		5: {{"STORM", "QUIET"}, {"CLOUD", "CLEAR"}},
	},
	"opposites": {
		4: {{"HARD", "SOFT"}, {"RICH", "POOR"}, {"WEAK", "IRON"}},
		5: {{"QUICK", "SNAIL"}, {"GIANT", "SMALL"}},
	},
}

// Selector draws pairs from the catalog with a self-owned, clock-seeded RNG.
type Selector struct {
	now func() time.Time

	mu         sync.Mutex
	rng        *rand.Rand
	lastReseed time.Time
}

// NewSelector returns a Selector using the given clock. A nil clock falls
// back to time.Now.
func NewSelector(now func() time.Time) *Selector {
	if now == nil {
		now = time.Now
	}
	s := &Selector{now: now}
	s.rng = rand.New(rand.NewSource(now().UnixNano()))
	s.lastReseed = now()
	return s
}

// GetWordPair selects a pair for (length, difficulty). Unknown lengths
// normalize to 4, unknown difficulties to Medium. Selection order: catalog
// cell, per-length fallback list, final hardcoded pair.
func (s *Selector) GetWordPair(length int, difficulty Difficulty) Pair {
	if length != 4 && length != 5 {
		log.Warn().Int("length", length).Msg("invalid word length, defaulting to 4")
		length = 4
	}
	difficulty = NormalizeDifficulty(difficulty)

	candidates := catalog[length][difficulty]
	if len(candidates) == 0 {
		log.Warn().Int("length", length).Str("difficulty", string(difficulty)).
			Msg("empty catalog cell, using fallback pairs")
		candidates = fallbackPairs[length]
	}
	if len(candidates) == 0 {
		log.Warn().Int("length", length).Msg("using final hardcoded pair")
		return finalPairs[length]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if now := s.now(); now.Sub(s.lastReseed) > reseedWindow {
		s.rng.Seed(now.UnixNano())
		s.lastReseed = now
	}
	return candidates[s.rng.Intn(len(candidates))]
}

// ThemedPairs returns the catalog pairs for a theme and length, or nil.
func ThemedPairs(theme string, length int) []Pair {
	return themedPairs[theme][length]
}

// HasMatchingPositionLetters reports whether any aligned position holds the
// same letter in both words.
func HasMatchingPositionLetters(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	a, b = upper(a), upper(b)
	for i := 0; i < len(a); i++ {
		if a[i] == b[i] {
			return true
		}
	}
	return false
}

// ValidateWordPair reports whether a pair is suitable for play: equal
// length, different words, and at most one aligned-position letter match
// (more than one makes the puzzle too easy).
func ValidateWordPair(start, target string) bool {
	if len(start) != len(target) {
		return false
	}
	start, target = upper(start), upper(target)
	if start == target {
		return false
	}
	matching := 0
	for i := 0; i < len(start); i++ {
		if start[i] == target[i] {
			matching++
		}
	}
	return matching <= 1
}

// PairInfo summarizes a pair for diagnostics.
type PairInfo struct {
	Start              string `json:"startWord"`
	Target             string `json:"targetWord"`
	Length             int    `json:"length"`
	HasMatchingLetters bool   `json:"hasMatchingLetters"`
	IsValid            bool   `json:"isValid"`
	LetterDifferences  int    `json:"letterDifferences"`
}

// Info computes PairInfo for an arbitrary pair.
func Info(start, target string) PairInfo {
	start, target = upper(start), upper(target)
	diffs := 0
	if len(start) == len(target) {
		for i := 0; i < len(start); i++ {
			if start[i] != target[i] {
				diffs++
			}
		}
	}
	return PairInfo{
		Start:              start,
		Target:             target,
		Length:             len(start),
		HasMatchingLetters: HasMatchingPositionLetters(start, target),
		IsValid:            ValidateWordPair(start, target),
		LetterDifferences:  diffs,
	}
}

func upper(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'a' && b[i] <= 'z' {
			b[i] -= 'a' - 'A'
		}
	}
	return string(b)
}
