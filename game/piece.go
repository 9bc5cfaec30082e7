package game

import "fmt"

type Color int

const (
	White Color = iota
	Black
)

var Colors = [2]Color{White, Black}

func (c Color) Opponent() Color {
	return 1 - c
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return fmt.Sprintf("Color(%d)", int(c))
}

func (c Color) MarshalText() ([]byte, error) {
	if c != White && c != Black {
		return nil, fmt.Errorf("invalid color %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "white":
		*c = White
	case "black":
		*c = Black
	default:
		return fmt.Errorf("invalid color %q", text)
	}
	return nil
}

// forward is the rank direction pawns of this color advance in.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

func (c Color) backRank() int {
	if c == White {
		return 0
	}
	return BoardSize - 1
}

// farRank is the rank where pawns of this color promote.
func (c Color) farRank() int {
	return c.Opponent().backRank()
}

func (c Color) pawnRank() int {
	return c.backRank() + c.forward()
}

type PieceType int

const (
	NoPiece PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeNames = [...]string{"", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (t PieceType) String() string {
	if t < NoPiece || t > King {
		return fmt.Sprintf("PieceType(%d)", int(t))
	}
	if t == NoPiece {
		return "none"
	}
	return pieceTypeNames[t]
}

func (t PieceType) MarshalText() ([]byte, error) {
	if t <= NoPiece || t > King {
		return nil, fmt.Errorf("invalid piece type %d", int(t))
	}
	return []byte(pieceTypeNames[t]), nil
}

func (t *PieceType) UnmarshalText(text []byte) error {
	for i, name := range pieceTypeNames {
		if i > 0 && name == string(text) {
			*t = PieceType(i)
			return nil
		}
	}
	return fmt.Errorf("invalid piece type %q", text)
}

// Value is the relative material value used for score tallies and capture choices.
func (t PieceType) Value() int {
	switch t {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	}
	return 0
}

// Promotable reports whether a pawn may be promoted to this type.
func (t PieceType) Promotable() bool {
	return t == Knight || t == Bishop || t == Rook || t == Queen
}

// Piece occupies a cell. The zero Piece is an empty cell.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
	Moved bool      `json:"hasMoved"`
}

func NewPiece(t PieceType, c Color) Piece {
	return Piece{Type: t, Color: c}
}

func (p Piece) IsEmpty() bool {
	return p.Type == NoPiece
}

// Is compares type and color, ignoring whether the piece has moved.
func (p Piece) Is(other Piece) bool {
	return p.Type == other.Type && p.Color == other.Color
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "empty"
	}
	return p.Color.String() + " " + p.Type.String()
}

var fenSymbols = [...]byte{'.', 'p', 'n', 'b', 'r', 'q', 'k'}

// Symbol is the FEN letter of the piece, upper case for white.
func (p Piece) Symbol() byte {
	s := fenSymbols[p.Type]
	if p.Color == White && !p.IsEmpty() {
		s -= 'a' - 'A'
	}
	return s
}
