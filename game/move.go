package game

import (
	"encoding/json"
	"fmt"
)

type MoveKind int

const (
	Step MoveKind = iota
	Capture
	Castle
	Promotion
)

var moveKindNames = [...]string{"move", "capture", "castle", "promote_pawn"}

func (k MoveKind) String() string {
	if k < Step || k > Promotion {
		return fmt.Sprintf("MoveKind(%d)", int(k))
	}
	return moveKindNames[k]
}

func (k MoveKind) MarshalText() ([]byte, error) {
	if k < Step || k > Promotion {
		return nil, fmt.Errorf("invalid move kind %d", int(k))
	}
	return []byte(moveKindNames[k]), nil
}

func (k *MoveKind) UnmarshalText(text []byte) error {
	for i, name := range moveKindNames {
		if name == string(text) {
			*k = MoveKind(i)
			return nil
		}
	}
	return fmt.Errorf("invalid move kind %q", text)
}

// Move is a candidate transition. For a castle, From and To hold the two
// partners (king and rook, either order). For a promotion, From and To are
// both the pawn's location.
type Move struct {
	Kind       MoveKind
	Piece      Piece
	From       Cell
	To         Cell
	Captured   Piece
	PromotedTo PieceType
}

// PromotionMove builds the promotion of the pawn standing at location.
func PromotionMove(pos *Position, location Cell, to PieceType) Move {
	return Move{Kind: Promotion, Piece: pos.At(location), From: location, To: location, PromotedTo: to}
}

type moveKey struct {
	kind     MoveKind
	from, to Cell
	captured Piece
}

// key identifies a move by content, ignoring the moved flags of its pieces.
func (m Move) key() moveKey {
	return moveKey{
		kind:     m.Kind,
		from:     m.From,
		to:       m.To,
		captured: NewPiece(m.Captured.Type, m.Captured.Color),
	}
}

// String renders the move in coordinate notation.
func (m Move) String() string {
	if m.Kind == Promotion {
		return fmt.Sprintf("%s=%c", m.From, fenSymbols[m.PromotedTo])
	}
	return m.From.String() + m.To.String()
}

// Describe renders the move as a sentence for history listings.
func (m Move) Describe() string {
	switch m.Kind {
	case Capture:
		return fmt.Sprintf("%s captures %s from %s to %s", m.Piece, m.Captured.Type, m.From, m.To)
	case Castle:
		return fmt.Sprintf("%s castles with %s", m.Piece.Color, m.To)
	case Promotion:
		return fmt.Sprintf("%s pawn on %s promotes to %s", m.Piece.Color, m.From, m.PromotedTo)
	}
	return fmt.Sprintf("%s moves from %s to %s", m.Piece, m.From, m.To)
}

type moveJSON struct {
	Type       MoveKind   `json:"type"`
	Piece      Piece      `json:"piece"`
	From       *Cell      `json:"from,omitempty"`
	To         *Cell      `json:"to,omitempty"`
	Captured   *Piece     `json:"capturedPiece,omitempty"`
	Location   *Cell      `json:"location,omitempty"`
	PromotedTo *PieceType `json:"promotedTo,omitempty"`
}

func (m Move) MarshalJSON() ([]byte, error) {
	w := moveJSON{Type: m.Kind, Piece: m.Piece}
	switch m.Kind {
	case Promotion:
		w.Location = &m.From
		w.PromotedTo = &m.PromotedTo
	case Capture:
		w.Captured = &m.Captured
		fallthrough
	default:
		w.From, w.To = &m.From, &m.To
	}
	return json.Marshal(w)
}

func (m *Move) UnmarshalJSON(data []byte) error {
	var w moveJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	next := Move{Kind: w.Type, Piece: w.Piece}
	switch w.Type {
	case Promotion:
		if w.Location == nil || w.PromotedTo == nil {
			return fmt.Errorf("promote_pawn needs location and promotedTo")
		}
		next.From, next.To, next.PromotedTo = *w.Location, *w.Location, *w.PromotedTo
	default:
		if w.From == nil || w.To == nil {
			return fmt.Errorf("%s needs from and to", w.Type)
		}
		next.From, next.To = *w.From, *w.To
		if w.Type == Capture {
			if w.Captured == nil {
				return fmt.Errorf("capture needs capturedPiece")
			}
			next.Captured = *w.Captured
		}
	}
	*m = next
	return nil
}
