package game

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"iter"
	"slices"
	"strings"
)

// Position is an immutable snapshot of a game. Operations on a Position always
// return a new copy.
type Position struct {
	board     [BoardSize][BoardSize]Piece
	turn      Color
	captured  [2][]Piece
	score     [2]int
	kings     [2]Cell
	hasKing   [2]bool
	history   []Move
	halfMoves int
}

var backRank = [BoardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewPosition returns the standard starting position with white to move.
func NewPosition() *Position {
	var grid [BoardSize][BoardSize]Piece
	for _, color := range Colors {
		for file, t := range backRank {
			grid[color.backRank()][file] = NewPiece(t, color)
			grid[color.pawnRank()][file] = NewPiece(Pawn, color)
		}
	}
	pos, err := PositionFromGrid(grid, White)
	assert(err == nil, "starting position: %v", err)
	return pos
}

// PositionFromGrid builds a position from a placement, indexed [rank][file].
func PositionFromGrid(grid [BoardSize][BoardSize]Piece, turn Color) (*Position, error) {
	if turn != White && turn != Black {
		return nil, fmt.Errorf("invalid side to move %d", int(turn))
	}
	pos := &Position{board: grid, turn: turn}
	var counts, kings [2]int
	for rank := range BoardSize {
		for file := range BoardSize {
			p := grid[rank][file]
			if p.IsEmpty() {
				continue
			}
			if p.Type < Pawn || p.Type > King || (p.Color != White && p.Color != Black) {
				return nil, fmt.Errorf("invalid piece at %s", Cell{rank, file})
			}
			counts[p.Color]++
			if p.Type == King {
				kings[p.Color]++
				pos.kings[p.Color] = Cell{rank, file}
				pos.hasKing[p.Color] = true
			}
		}
	}
	for _, color := range Colors {
		if counts[color] > 16 {
			return nil, fmt.Errorf("%s has %d pieces, at most 16 allowed", color, counts[color])
		}
		if kings[color] > 1 {
			return nil, fmt.Errorf("%s has %d kings", color, kings[color])
		}
	}
	return pos, nil
}

func (p *Position) clone() *Position {
	next := *p
	return &next
}

func (p *Position) At(c Cell) Piece {
	if !c.OnBoard() {
		return Piece{}
	}
	return p.board[c.Rank][c.File]
}

func (p *Position) set(c Cell, piece Piece) {
	p.board[c.Rank][c.File] = piece
}

// Turn is the side to move.
func (p *Position) Turn() Color {
	return p.turn
}

// WithTurn returns a copy of the position with the given side to move.
func (p *Position) WithTurn(c Color) *Position {
	next := p.clone()
	next.turn = c
	return next
}

func (p *Position) Grid() [BoardSize][BoardSize]Piece {
	return p.board
}

// Captured lists the pieces the given color has captured.
func (p *Position) Captured(c Color) []Piece {
	return slices.Clone(p.captured[c])
}

// Score is the material value the given color has captured.
func (p *Position) Score(c Color) int {
	return p.score[c]
}

func (p *Position) King(c Color) (Cell, bool) {
	return p.kings[c], p.hasKing[c]
}

func (p *Position) History() []Move {
	return slices.Clone(p.history)
}

// HalfMoves counts the moves since the last capture or pawn move.
func (p *Position) HalfMoves() int {
	return p.halfMoves
}

// Pieces iterates over occupied cells of the given color.
func (p *Position) Pieces(c Color) iter.Seq2[Cell, Piece] {
	return func(yield func(Cell, Piece) bool) {
		for rank := range BoardSize {
			for file := range BoardSize {
				piece := p.board[rank][file]
				if !piece.IsEmpty() && piece.Color == c {
					if !yield(Cell{rank, file}, piece) {
						return
					}
				}
			}
		}
	}
}

// Hash identifies the placement, moved flags and side to move.
func (p *Position) Hash() StateHash {
	h := fnv.New64a()
	var buf [BoardSize*BoardSize + 1]byte
	for rank := range BoardSize {
		for file := range BoardSize {
			piece := p.board[rank][file]
			b := byte(piece.Type)
			if !piece.IsEmpty() {
				b |= byte(piece.Color) << 3
				if piece.Moved {
					b |= 1 << 4
				}
			}
			buf[rank*BoardSize+file] = b
		}
	}
	buf[len(buf)-1] = byte(p.turn)
	binary.Write(h, binary.LittleEndian, buf)
	return StateHash(h.Sum64())
}

// String draws the board with rank 8 on top.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := BoardSize - 1; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte(' ')
		for file := range BoardSize {
			sb.WriteByte(p.board[rank][file].Symbol())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  abcdefgh\n")
	fmt.Fprintf(&sb, "%s to move", p.turn)
	return sb.String()
}

type positionJSON struct {
	Grid          [BoardSize][BoardSize]*Piece `json:"grid"`
	SideToMove    Color                        `json:"sideToMove"`
	WhiteCaptured []Piece                      `json:"whiteCaptured"`
	BlackCaptured []Piece                      `json:"blackCaptured"`
	WhiteScore    int                          `json:"whiteScore"`
	BlackScore    int                          `json:"blackScore"`
	History       []Move                       `json:"history"`
	HalfMoves     int                          `json:"halfMoves"`
}

func (p *Position) MarshalJSON() ([]byte, error) {
	w := positionJSON{
		SideToMove:    p.turn,
		WhiteCaptured: p.captured[White],
		BlackCaptured: p.captured[Black],
		WhiteScore:    p.score[White],
		BlackScore:    p.score[Black],
		History:       p.history,
		HalfMoves:     p.halfMoves,
	}
	for rank := range BoardSize {
		for file := range BoardSize {
			if piece := p.board[rank][file]; !piece.IsEmpty() {
				w.Grid[rank][file] = &piece
			}
		}
	}
	return json.Marshal(w)
}

// UnmarshalJSON rebuilds the king cache from the grid.
func (p *Position) UnmarshalJSON(data []byte) error {
	var w positionJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var grid [BoardSize][BoardSize]Piece
	for rank := range BoardSize {
		for file := range BoardSize {
			if piece := w.Grid[rank][file]; piece != nil {
				grid[rank][file] = *piece
			}
		}
	}
	pos, err := PositionFromGrid(grid, w.SideToMove)
	if err != nil {
		return fmt.Errorf("decode position: %w", err)
	}
	pos.captured = [2][]Piece{w.WhiteCaptured, w.BlackCaptured}
	pos.score = [2]int{w.WhiteScore, w.BlackScore}
	pos.history = w.History
	pos.halfMoves = w.HalfMoves
	*p = *pos
	return nil
}
