// internal/game/types.go
//
// Core type definitions for the word-ladder game engine.
// Defines:
//   - Status: game lifecycle states (in progress / completed / abandoned).
//   - Mode: play modes (classic, timed).
//   - Game: state for a single in-progress or finished game.
//   - Hint / HintType: progressive hint payloads.
//   - MoveResult: outcome snapshot of a single move.
//   - DailyChallenge: the deterministic daily puzzle payload.

package game

import (
	"time"

	"github.com/wordladder/go-server/internal/pairs"
)

// Status represents the lifecycle state of a game. InProgress is the only
// non-terminal state; no transition ever leaves Completed or Abandoned.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// Mode represents the play mode.
type Mode string

const (
	ModeClassic Mode = "CLASSIC"
	ModeTimed   Mode = "TIMED"
)

// timeLimitSeconds is the TIMED-mode wall-clock budget. The check is
// cooperative: evaluated once per move submission, never by a background
// timer.
const timeLimitSeconds = 300

// Game holds the state of a single word-ladder session.
//
// CurrentWord always equals StartWord or the last element of Moves. Moves
// is a simple path: each entry is one letter-change from its predecessor
// and no entry repeats an earlier move or the start word.
//
// A Game is not safe for concurrent mutation; the calling layer serializes
// access per game ID.
type Game struct {
	ID          string           `json:"gameId"`
	StartWord   string           `json:"startWord"`
	TargetWord  string           `json:"targetWord"`
	CurrentWord string           `json:"currentWord"`
	Moves       []string         `json:"moves"`
	Status      Status           `json:"status"`
	Difficulty  pairs.Difficulty `json:"difficulty"`
	Mode        Mode             `json:"gameMode"`
	PlayerID    string           `json:"playerId,omitempty"` // opaque, owned by the caller
	CreatedAt   time.Time        `json:"createdAt"`
	TimeElapsed int              `json:"timeElapsed"` // seconds, refreshed only in TIMED mode
}

// HintType classifies what a hint reveals.
type HintType string

const (
	HintGeneral  HintType = "general"  // encouragement / non-specific guidance
	HintSemantic HintType = "semantic" // distance and meaning-level direction
	HintPosition HintType = "position" // which position to change
	HintLetter   HintType = "letter"   // position plus the replacement letter
)

// Hint is a transient value produced fresh per request; never persisted.
// Position is a 0-based index into the current word.
type Hint struct {
	Type            HintType `json:"hintType"`
	Text            string   `json:"hintText"`
	Position        *int     `json:"position,omitempty"`
	SuggestedLetter string   `json:"suggestedLetter,omitempty"`
}

// MoveResult summarizes the outcome of one accepted move. Path is a copy of
// the game's move history: mutating the result never mutates the game.
type MoveResult struct {
	IsTarget   bool     `json:"isTarget"`
	MovesCount int      `json:"movesCount"`
	Path       []string `json:"path"`
	Message    string   `json:"message"`
}

// DailyChallenge is the deterministic daily puzzle. Identical for every call
// on the same calendar date.
type DailyChallenge struct {
	Date         string           `json:"date"`
	StartWord    string           `json:"startWord"`
	TargetWord   string           `json:"targetWord"`
	WordLength   int              `json:"wordLength"`
	Difficulty   pairs.Difficulty `json:"difficulty"`
	OptimalMoves int              `json:"optimalMoves"`
	Theme        string           `json:"theme"`
}
