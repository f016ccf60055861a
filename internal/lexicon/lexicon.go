// internal/lexicon/lexicon.go
//
// Vocabulary membership oracle for the word-ladder game.
//
// Responsibilities:
//   - Decide whether a string counts as a legal gameplay word.
//   - Build the word sets once at startup from three sources, in priority
//     order: critical/curated lists (embedded), a filtered general corpus,
//     and an optional semantic-network word list as last resort.
//   - Enumerate one-letter-change neighbors in a deterministic order.
//   - Answer bounded reachability probes without materializing paths.
//   - Score word difficulty for presentation.
//
// Sources:
//   - assets/critical.txt: path-critical words, admitted unfiltered.
//   - assets/words4.txt, words5.txt: curated common words, quality-filtered
//     at load time.
//   - assets/corpus.txt (or WORDS_CORPUS_FILE): general corpus, quality-
//     filtered at load time.
//   - SEMNET_FILE (optional): synonym-network dump, quality-filtered at
//     query time. Its absence changes no game outcome.
//
// Constraints:
//   • Words are normalized to uppercase; valid lengths default to [3, 8].
//   • Membership decisions are memoized and stable for the process lifetime
//     unless AddWord admits a new word (additions only, never retractions).
//   • Safe for concurrent readers; AddWord takes the write lock.

package lexicon

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wordladder/go-server/assets"
)

const (
	defaultMinLength = 3
	defaultMaxLength = 8

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// excludedWords are rejected outright: foreign terms, technical terms,
// abbreviation-like strings, and words curated out to keep gameplay
// accessible.
var excludedWords = toSet([]string{
	// Foreign/ethnic terms
	"YURTA", "YURT", "MASAI", "MAASAI", "HINDI", "URDU", "BANTU",
	"ZULU", "SWAZI", "TAMIL", "TELUGU", "SCOTS", "WELSH", "GAELIC",

	// Technical/scientific terms
	"BENZO", "NITRO", "HYDRO", "THIOL", "HEXYL", "BUTYL", "ETHYL",
	"PHENYL", "VINYL", "OXIME", "AZIDE", "OXIDE", "ESTER",

	// Abbreviations and acronyms
	"RADAR", "SONAR", "LASER", "SCUBA", "AWASH", "SWATH",

	// Very uncommon English words
	"QUAFF", "QUASH", "QUALM", "QUARK", "QUASI", "QUASAR",
	"FJORD", "SHARD", "WHARF", "SCARF", "DWARF",

	// Unusual letter patterns
	"GYOZA", "PIZZA", "FUZZY", "JAZZY", "DIZZY", "FIZZY",
})

// Lexicon is the authoritative word oracle. Build once with New, then share
// freely across games; all read paths are concurrency-safe.
type Lexicon struct {
	minLength int
	maxLength int

	curated map[string]struct{} // critical + filtered curated lists
	corpus  map[string]struct{} // filtered general corpus
	semnet  map[string]struct{} // optional last-resort source

	mu    sync.RWMutex    // guards cache and curated (AddWord)
	cache map[string]bool // memoized membership decisions, uppercase keys
}

// New builds the lexicon from the embedded word lists, honoring the
// WORDS_CORPUS_FILE and SEMNET_FILE environment overrides.
func New() (*Lexicon, error) {
	lex := &Lexicon{
		minLength: defaultMinLength,
		maxLength: defaultMaxLength,
		curated:   make(map[string]struct{}),
		corpus:    make(map[string]struct{}),
		semnet:    make(map[string]struct{}),
		cache:     make(map[string]bool),
	}

	critical, err := assets.CriticalWords()
	if err != nil {
		return nil, err
	}
	// Critical words bypass the quality filter: they are asserted correct
	// by the pair catalog they support.
	for _, w := range critical {
		lex.curated[w] = struct{}{}
	}

	curated, err := assets.CuratedWords()
	if err != nil {
		return nil, err
	}
	for _, w := range curated {
		if lex.goodWord(w) {
			lex.curated[w] = struct{}{}
		}
	}

	corpus, err := assets.CorpusWords()
	if err != nil {
		return nil, err
	}
	if path := os.Getenv("WORDS_CORPUS_FILE"); path != "" {
		fileWords, err := readWordFile(path)
		if err != nil {
			return nil, err
		}
		corpus = fileWords
	}
	for _, w := range corpus {
		if lex.goodWord(w) {
			lex.corpus[w] = struct{}{}
		}
	}

	if path := os.Getenv("SEMNET_FILE"); path != "" {
		semnet, err := readWordFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("semnet list unavailable, continuing without it")
		} else {
			for _, w := range semnet {
				lex.semnet[w] = struct{}{}
			}
		}
	}

	log.Info().
		Int("curated", len(lex.curated)).
		Int("corpus", len(lex.corpus)).
		Int("semnet", len(lex.semnet)).
		Msg("lexicon loaded")
	return lex, nil
}

// readWordFile loads one word per line, uppercased, keeping alphabetic words
// of plausible gameplay length.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.ToUpper(strings.TrimSpace(sc.Text()))
		if len(w) >= defaultMinLength && len(w) <= defaultMaxLength && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// IsValidWord reports whether word is a legal gameplay word. Decisions are
// memoized per normalized (uppercase) word.
func (l *Lexicon) IsValidWord(word string) bool {
	w := Normalize(word)
	if len(w) < l.minLength || len(w) > l.maxLength {
		return false
	}
	if !isAlpha(w) {
		return false
	}
	if _, ok := excludedWords[w]; ok {
		return false
	}

	l.mu.RLock()
	if v, ok := l.cache[w]; ok {
		l.mu.RUnlock()
		return v
	}
	_, inCurated := l.curated[w]
	l.mu.RUnlock()

	valid := inCurated
	if !valid {
		if _, ok := l.corpus[w]; ok {
			valid = true
		}
	}
	if !valid {
		// Last resort: the semantic-network list, gated by the same
		// quality filter applied to the corpus at load time.
		if _, ok := l.semnet[w]; ok && l.goodWord(w) {
			valid = true
		}
	}

	l.mu.Lock()
	l.cache[w] = valid
	l.mu.Unlock()
	return valid
}

// IsOneLetterChange reports whether a and b differ in exactly one aligned
// position. Symmetric; words of unequal length never qualify.
func (l *Lexicon) IsOneLetterChange(a, b string) bool {
	a, b = Normalize(a), Normalize(b)
	if len(a) != len(b) {
		return false
	}
	diff := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			diff++
			if diff > 1 {
				return false
			}
		}
	}
	return diff == 1
}

// PossibleWords returns every valid word one letter away from word.
// Order is deterministic: position-major, then alphabetical. This ordering
// defines the edge iteration order of the word graph, so path output is
// reproducible.
func (l *Lexicon) PossibleWords(word string) []string {
	w := Normalize(word)
	var out []string
	buf := []byte(w)
	for i := 0; i < len(buf); i++ {
		orig := buf[i]
		for _, c := range []byte(alphabet) {
			if c == orig {
				continue
			}
			buf[i] = c
			if candidate := string(buf); l.IsValidWord(candidate) {
				out = append(out, candidate)
			}
		}
		buf[i] = orig
	}
	return out
}

// CanReachTarget runs a bounded breadth-first reachability probe from start
// to target. maxDepth <= 0 selects the default bound of 10 levels. This is a
// quick existence check; it shares no state with the path finder's cache.
func (l *Lexicon) CanReachTarget(start, target string, maxDepth int) bool {
	if maxDepth <= 0 {
		maxDepth = 10
	}
	start, target = Normalize(start), Normalize(target)
	if len(start) != len(target) {
		return false
	}
	if start == target {
		return true
	}

	visited := map[string]struct{}{start: {}}
	queue := []string{start}
	for depth := 0; len(queue) > 0 && depth < maxDepth; depth++ {
		var next []string
		for _, cur := range queue {
			for _, neighbor := range l.PossibleWords(cur) {
				if neighbor == target {
					return true
				}
				if _, seen := visited[neighbor]; !seen {
					visited[neighbor] = struct{}{}
					next = append(next, neighbor)
				}
			}
		}
		queue = next
	}
	return false
}

// AddWord admits word to the curated set if it passes the quality filter.
// Returns true if the word is (now) present. Additions are monotonic: the
// lexicon never retracts a word.
func (l *Lexicon) AddWord(word string) bool {
	w := Normalize(word)
	if !l.goodWord(w) {
		return false
	}
	l.mu.Lock()
	l.curated[w] = struct{}{}
	l.cache[w] = true
	l.mu.Unlock()
	return true
}

// WordDifficulty scores a word in [0, 1] for presentation. Weighted 0.6 on
// length (normalized to the valid range) and 0.4 on vowel/consonant balance.
// Not used for gameplay legality.
func (l *Lexicon) WordDifficulty(word string) float64 {
	w := Normalize(word)

	lengthFactor := float64(len(w)-l.minLength) / float64(l.maxLength-l.minLength)
	if lengthFactor > 1 {
		lengthFactor = 1
	}
	if lengthFactor < 0 {
		lengthFactor = 0
	}

	vowels := countVowels(w)
	consonants := len(w) - vowels
	ratio := 1.0
	if consonants > 0 {
		ratio = float64(vowels) / float64(consonants)
	}
	balanceFactor := (0.5 - ratio) * 2
	if balanceFactor < 0 {
		balanceFactor = -balanceFactor
	}

	d := 0.6*lengthFactor + 0.4*balanceFactor
	if d > 1 {
		d = 1
	}
	if d < 0 {
		d = 0
	}
	return d
}

// Stats returns per-source word counts: (curated, corpus, semnet).
func (l *Lexicon) Stats() (curated, corpus, semnet int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.curated), len(l.corpus), len(l.semnet)
}

// goodWord applies the quality heuristics for "common enough to be fun":
//   - at least 60% unique letters,
//   - at most one rare letter (Q, X, Z, J),
//   - at least one vowel for words longer than two letters,
//   - consonant:vowel ratio within [0.25, 4.0].
//
// Applied to the corpus at load time and to the semnet source at query time.
func (l *Lexicon) goodWord(word string) bool {
	w := Normalize(word)
	if _, ok := excludedWords[w]; ok {
		return false
	}
	if !isAlpha(w) {
		return false
	}
	if len(w) < l.minLength || len(w) > l.maxLength {
		return false
	}

	unique := make(map[byte]struct{}, len(w))
	for i := 0; i < len(w); i++ {
		unique[w[i]] = struct{}{}
	}
	if float64(len(unique)) < float64(len(w))*0.6 {
		return false
	}

	rare := 0
	for i := 0; i < len(w); i++ {
		switch w[i] {
		case 'Q', 'X', 'Z', 'J':
			rare++
		}
	}
	if rare > 1 {
		return false
	}

	vowels := countVowels(w)
	if vowels == 0 && len(w) > 2 {
		return false
	}
	if vowels > 0 {
		ratio := float64(len(w)-vowels) / float64(vowels)
		if ratio > 4 || ratio < 0.25 {
			return false
		}
	}
	return true
}

// Normalize maps a raw input to the canonical uppercase form used everywhere
// in the engine.
func Normalize(word string) string {
	return strings.ToUpper(strings.TrimSpace(word))
}

func countVowels(w string) int {
	n := 0
	for i := 0; i < len(w); i++ {
		switch w[i] {
		case 'A', 'E', 'I', 'O', 'U':
			n++
		}
	}
	return n
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return len(s) > 0
}

func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}
