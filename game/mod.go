// Package game holds the chess rules: positions, legal move generation, move
// application and the termination oracle. Every function here is pure; a
// Position handed to a caller is never mutated.
package game

type StateHash uint64

// Evaluate scores a position from white's point of view: positive favours
// white, +Inf is a white win, -Inf a black win.
type Evaluate func(*Position) float64
