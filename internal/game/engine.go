// internal/game/engine.go
//
// Core game engine for word-ladder sessions.
// Responsibilities:
//   - Create games whose (start, target) pair is verified connectable.
//   - Validate and apply moves: lexicon validity, one-letter change, no
//     revisits, TIMED wall-clock enforcement.
//   - Track state transitions: in_progress → completed / abandoned.
//   - Produce progressive hints from the shortest path.
//   - Serve the deterministic daily challenge.
//
// Notes:
//   - The engine executes synchronously per call and holds no locks; the
//     calling layer serializes access per game ID.
//   - Time is taken from an injected clock so tests control it.
//   - randomID() is a compact hex identifier for correlating server state.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wordladder/go-server/internal/ladder"
	"github.com/wordladder/go-server/internal/lexicon"
	"github.com/wordladder/go-server/internal/pairs"
)

// maxCreateAttempts bounds how many catalog draws CreateGame tries before
// collapsing into the fixed fallback pair.
const maxCreateAttempts = 20

// dailyPairs4 and dailyPairs5 are the fixed per-length pools the daily
// challenge selects from.
var (
	dailyPairs4 = []pairs.Pair{
		{Start: "COLD", Target: "WARM"},
		{Start: "BANK", Target: "LOAN"},
		{Start: "FAST", Target: "SLOW"},
		{Start: "ROCK", Target: "SAND"},
		{Start: "LEAD", Target: "GOLD"},
	}
	dailyPairs5 = []pairs.Pair{
		{Start: "HOUSE", Target: "RANCH"},
		{Start: "HAPPY", Target: "SMILE"},
		{Start: "MOUSE", Target: "TIGER"},
		{Start: "BRAIN", Target: "THINK"},
		{Start: "POWER", Target: "LIGHT"},
	}
)

// Engine orchestrates the lexicon, path finder, and pair selector. It owns
// the game state machine; it owns no Game storage.
type Engine struct {
	lex      *lexicon.Lexicon
	finder   *ladder.Finder
	selector *pairs.Selector
	now      func() time.Time
}

// NewEngine wires an Engine. A nil clock falls back to time.Now.
func NewEngine(lex *lexicon.Lexicon, finder *ladder.Finder, selector *pairs.Selector, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{lex: lex, finder: finder, selector: selector, now: now}
}

// CreateGame builds a new game with a verified-solvable word pair.
//
// Up to maxCreateAttempts catalog draws are tried; a draw is skipped when
// either word fails validity or no non-trivial path connects them. If every
// attempt fails, a fixed per-length fallback pair is used and re-verified
// log-only: the fallback is asserted correct by construction, so a failed
// re-verification never fails the operation.
func (e *Engine) CreateGame(difficulty pairs.Difficulty, mode Mode, wordLength int, playerID string) *Game {
	difficulty = pairs.NormalizeDifficulty(difficulty)
	log.Info().
		Str("difficulty", string(difficulty)).
		Str("mode", string(mode)).
		Int("wordLength", wordLength).
		Msg("creating game")

	var start, target string
	found := false

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		p := e.selector.GetWordPair(wordLength, difficulty)

		if !e.lex.IsValidWord(p.Start) {
			log.Warn().Int("attempt", attempt).Str("word", p.Start).Msg("start word not valid")
			continue
		}
		if !e.lex.IsValidWord(p.Target) {
			log.Warn().Int("attempt", attempt).Str("word", p.Target).Msg("target word not valid")
			continue
		}

		path := e.finder.FindPath(p.Start, p.Target)
		if len(path) <= 1 {
			log.Warn().Int("attempt", attempt).
				Str("start", p.Start).Str("target", p.Target).
				Msg("no path for candidate pair")
			continue
		}

		start, target = lexicon.Normalize(p.Start), lexicon.Normalize(p.Target)
		found = true
		log.Info().Str("path", strings.Join(path, " -> ")).Msg("candidate pair verified")
		break
	}

	if !found {
		log.Warn().Msg("all attempts exhausted, using guaranteed fallback pair")
		if wordLength == 5 {
			start, target = "HOUSE", "RANCH"
		} else {
			start, target = "COLD", "WARM"
		}
		if e.finder.FindPath(start, target) == nil {
			// Asserted correct by construction; log only.
			log.Error().Str("start", start).Str("target", target).
				Msg("fallback pair unexpectedly has no path")
		}
	}

	g := &Game{
		ID:          randomID(),
		StartWord:   start,
		TargetWord:  target,
		CurrentWord: start,
		Moves:       []string{},
		Status:      StatusInProgress,
		Difficulty:  difficulty,
		Mode:        mode,
		PlayerID:    playerID,
		CreatedAt:   e.now(),
		TimeElapsed: 0,
	}
	log.Info().Str("gameId", g.ID).Str("start", g.StartWord).Str("target", g.TargetWord).Msg("game created")
	return g
}

// MakeMove validates and applies one move. Application is atomic: a failing
// validation leaves Moves and CurrentWord untouched. The one exception is
// the TIMED expiry, which transitions the game to abandoned even though the
// move itself is rejected.
func (e *Engine) MakeMove(g *Game, word string) (*MoveResult, error) {
	if g.Status != StatusInProgress {
		return nil, ErrGameTerminal
	}

	if g.Mode == ModeTimed {
		elapsed := int(e.now().Sub(g.CreatedAt).Seconds())
		if elapsed > timeLimitSeconds {
			g.Status = StatusAbandoned
			return nil, ErrTimeExceeded
		}
		g.TimeElapsed = elapsed
	}

	w := lexicon.Normalize(word)
	if !e.lex.IsValidWord(w) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWord, w)
	}
	if !e.lex.IsOneLetterChange(g.CurrentWord, w) {
		return nil, fmt.Errorf("%w: word must differ by exactly one letter", ErrIllegalMove)
	}
	if w == g.StartWord {
		return nil, fmt.Errorf("%w: word already used in this game", ErrIllegalMove)
	}
	for _, prev := range g.Moves {
		if prev == w {
			return nil, fmt.Errorf("%w: word already used in this game", ErrIllegalMove)
		}
	}

	g.Moves = append(g.Moves, w)
	g.CurrentWord = w

	isTarget := w == g.TargetWord
	var message string
	if isTarget {
		g.Status = StatusCompleted
		message = fmt.Sprintf("Congratulations! You've reached the target word in %d moves.", len(g.Moves))
	} else if remaining := e.finder.FindPath(w, g.TargetWord); remaining != nil {
		message = fmt.Sprintf("Good move! Approximately %d moves remaining to reach the target.", len(remaining)-1)
	} else {
		// Best-effort feedback only: wandering off the shortest-path
		// lattice never fails the move.
		message = "Valid move, but this might not be the optimal path. Keep going!"
	}

	if g.Mode == ModeTimed {
		g.TimeElapsed = int(e.now().Sub(g.CreatedAt).Seconds())
	}

	return &MoveResult{
		IsTarget:   isTarget,
		MovesCount: len(g.Moves),
		Path:       append([]string(nil), g.Moves...),
		Message:    message,
	}, nil
}

// GetHint produces a hint for the current position. Levels:
//
//	1 — approximate remaining distance, no letters revealed.
//	2 — the position to change (1-based in the text).
//	3 — the position and the replacement letter.
//
// Levels outside 1..3 resolve like level 3. Never returns an error: every
// failure path degrades to a general hint.
func (e *Engine) GetHint(g *Game, hintLevel int) Hint {
	if g.Status != StatusInProgress {
		return Hint{Type: HintGeneral, Text: "Game is already completed!"}
	}

	path := e.finder.FindPath(g.CurrentWord, g.TargetWord)
	if len(path) < 2 {
		neighbors := e.lex.PossibleWords(g.CurrentWord)
		if len(neighbors) > 0 {
			if len(neighbors) > 3 {
				neighbors = neighbors[:3]
			}
			return Hint{
				Type: HintGeneral,
				Text: fmt.Sprintf("You can change one letter to make: %s... Keep exploring!", strings.Join(neighbors, ", ")),
			}
		}
		return Hint{Type: HintGeneral, Text: "Keep trying! Look for valid words by changing one letter."}
	}

	next := path[1]

	switch hintLevel {
	case 1:
		movesLeft := len(path) - 1
		return Hint{
			Type: HintSemantic,
			Text: fmt.Sprintf("You're approximately %d moves away from '%s'. Think of words related to your target!",
				movesLeft, g.TargetWord),
		}

	case 2:
		if pos, _, ok := firstDifference(g.CurrentWord, next); ok {
			return Hint{
				Type:     HintPosition,
				Text:     fmt.Sprintf("Try changing the letter at position %d (the '%c').", pos+1, g.CurrentWord[pos]),
				Position: &pos,
			}
		}
		return Hint{Type: HintGeneral, Text: "Something went wrong with the hint. Keep trying!"}

	default:
		// Any other level gets the most revealing hint.
		if pos, letter, ok := firstDifference(g.CurrentWord, next); ok {
			return Hint{
				Type: HintLetter,
				Text: fmt.Sprintf("Change the '%c' at position %d to '%c' to make '%s'.",
					g.CurrentWord[pos], pos+1, letter, next),
				Position:        &pos,
				SuggestedLetter: string(letter),
			}
		}
		return Hint{Type: HintGeneral, Text: "You're very close! Keep trying with small changes."}
	}
}

// firstDifference returns the first index where a and b differ, plus b's
// letter there. ok is false when the words are identical — which the
// one-letter-change invariant should rule out, but hints must never panic.
func firstDifference(a, b string) (pos int, letter byte, ok bool) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i, b[i], true
		}
	}
	return 0, 0, false
}

// DailyChallenge returns the deterministic puzzle for the current date. The
// RNG is seeded from the calendar date (UTC), so repeated calls on the same
// day yield the same pair. Even days of the month get 4-letter pairs, odd
// days 5-letter pairs.
func (e *Engine) DailyChallenge() DailyChallenge {
	today := e.now().UTC()
	seed := uint64(today.Year()*10000 + int(today.Month())*100 + today.Day())
	rng := mrand.New(mrand.NewPCG(seed, 0))

	var p pairs.Pair
	var wordLength int
	if today.Day()%2 == 0 {
		wordLength = 4
		p = dailyPairs4[rng.IntN(len(dailyPairs4))]
	} else {
		wordLength = 5
		p = dailyPairs5[rng.IntN(len(dailyPairs5))]
	}

	optimalMoves := 6 // fallback estimate
	if path := e.finder.FindPath(p.Start, p.Target); path != nil {
		optimalMoves = len(path) - 1
	} else {
		log.Warn().Str("start", p.Start).Str("target", p.Target).
			Msg("daily pair has no path, using fallback estimate")
	}

	return DailyChallenge{
		Date:         today.Format("2006-01-02"),
		StartWord:    p.Start,
		TargetWord:   p.Target,
		WordLength:   wordLength,
		Difficulty:   pairs.Medium,
		OptimalMoves: optimalMoves,
		Theme:        "Daily Challenge",
	}
}

// ValidateGameState audits a game for internal consistency: valid endpoint
// and current words, and a move chain where each consecutive pair (starting
// from the start word) is a one-letter change. Not invoked on the normal
// move path.
func (e *Engine) ValidateGameState(g *Game) bool {
	if !e.lex.IsValidWord(g.StartWord) {
		return false
	}
	if !e.lex.IsValidWord(g.TargetWord) {
		return false
	}
	if !e.lex.IsValidWord(g.CurrentWord) {
		return false
	}

	cur := g.StartWord
	for _, move := range g.Moves {
		if !e.lex.IsOneLetterChange(cur, move) {
			return false
		}
		cur = move
	}
	return true
}

// randomID returns a compact 16-hex-char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
