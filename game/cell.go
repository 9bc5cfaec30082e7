package game

import "fmt"

const BoardSize = 8

// Cell is a square on the board. Rank 0 is white's back rank, file 0 is the a-file.
type Cell struct {
	Rank int `json:"rank"`
	File int `json:"file"`
}

// Vector is a rank/file delta between two cells.
type Vector struct {
	Rank int
	File int
}

func (c Cell) Add(v Vector) Cell {
	return Cell{Rank: c.Rank + v.Rank, File: c.File + v.File}
}

func (c Cell) OnBoard() bool {
	return c.Rank >= 0 && c.Rank < BoardSize && c.File >= 0 && c.File < BoardSize
}

// String renders the cell in algebraic form, e.g. "e4".
func (c Cell) String() string {
	if !c.OnBoard() {
		return fmt.Sprintf("(%d,%d)", c.Rank, c.File)
	}
	return string([]byte{byte('a' + c.File), byte('1' + c.Rank)})
}

func ParseCell(s string) (Cell, error) {
	if len(s) != 2 {
		return Cell{}, fmt.Errorf("invalid cell %q", s)
	}
	c := Cell{Rank: int(s[1] - '1'), File: int(s[0] - 'a')}
	if !c.OnBoard() {
		return Cell{}, fmt.Errorf("invalid cell %q", s)
	}
	return c, nil
}

// MustParseCell is ParseCell for literals known to be valid.
func MustParseCell(s string) Cell {
	c, err := ParseCell(s)
	if err != nil {
		panic(err)
	}
	return c
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// unitStep returns the single step leading from a toward b when both share a
// rank, file or diagonal.
func unitStep(a, b Cell) (Vector, bool) {
	dr, df := b.Rank-a.Rank, b.File-a.File
	if dr == 0 && df == 0 {
		return Vector{}, false
	}
	if dr != 0 && df != 0 && abs(dr) != abs(df) {
		return Vector{}, false
	}
	return Vector{Rank: sign(dr), File: sign(df)}, true
}

// cellsBetween lists the cells strictly between a and b.
func cellsBetween(a, b Cell) []Cell {
	step, ok := unitStep(a, b)
	assert(ok, "cells %s and %s do not share a line", a, b)
	var cells []Cell
	for c := a.Add(step); c != b; c = c.Add(step) {
		cells = append(cells, c)
	}
	return cells
}

// stepsToward walks n steps from a toward b.
func stepsToward(a, b Cell, n int) Cell {
	step, ok := unitStep(a, b)
	assert(ok, "cells %s and %s do not share a line", a, b)
	return Cell{Rank: a.Rank + n*step.Rank, File: a.File + n*step.File}
}
