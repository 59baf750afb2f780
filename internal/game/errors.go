package game

import (
	"errors"
	"fmt"
)

var (
	ErrCellOccupied = errors.New("cell already occupied")
	ErrOutOfRange   = errors.New("cell out of range")
)

// IllegalMoveError is returned by ApplyMove. Callers should ask for another
// move rather than give up.
type IllegalMoveError struct {
	Move Move
	Err  error
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s: %v", e.Move, e.Err)
}

func (e *IllegalMoveError) Unwrap() error {
	return e.Err
}

// InvalidStateError reports a board that cannot be reached from the initial
// state by legal play.
type InvalidStateError struct {
	X, O   int
	Reason string
}

func (e *InvalidStateError) Error() string {
	if e.X == 0 && e.O == 0 {
		return "invalid board: " + e.Reason
	}
	return fmt.Sprintf("invalid board: %s (x=%d, o=%d)", e.Reason, e.X, e.O)
}
