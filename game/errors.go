package game

import (
	"errors"
	"fmt"
)

var ErrIllegalMove = errors.New("illegal move")

// IllegalMoveError rejects a move supplied by a caller. The position it was
// applied to is left untouched.
type IllegalMoveError struct {
	Move   Move
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s: %s", e.Move, e.Reason)
}

func (e *IllegalMoveError) Unwrap() error {
	return ErrIllegalMove
}

func illegal(m Move, format string, args ...any) error {
	return &IllegalMoveError{Move: m, Reason: fmt.Sprintf(format, args...)}
}

// AssertionError is raised with panic when an internal invariant breaks.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return "assertion failed: " + e.Message
}

func assert(ok bool, format string, args ...any) {
	if !ok {
		panic(&AssertionError{Message: fmt.Sprintf(format, args...)})
	}
}
