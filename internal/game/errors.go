// internal/game/errors.go
//
// Error taxonomy for move and hint handling. All of these are user-facing,
// recoverable rejections; none should crash the process. The transport
// layer maps them to HTTP status codes with errors.Is.

package game

import "errors"

var (
	// ErrInvalidWord: the submitted word fails lexicon validity.
	ErrInvalidWord = errors.New("invalid word")

	// ErrIllegalMove: not a one-letter change, or the word was already used.
	ErrIllegalMove = errors.New("illegal move")

	// ErrGameTerminal: a move was requested on a finished game.
	ErrGameTerminal = errors.New("game is already completed")

	// ErrTimeExceeded: the TIMED-mode wall clock ran out. Raising this also
	// forces the terminal Abandoned transition.
	ErrTimeExceeded = errors.New("time limit exceeded")
)
