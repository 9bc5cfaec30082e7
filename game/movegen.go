package game

import (
	"iter"
	"slices"
)

var (
	rookDirections   = []Vector{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirections = []Vector{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirections  = slices.Concat(rookDirections, bishopDirections)
	kingOffsets      = queenDirections
	knightOffsets    = []Vector{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
)

// LegalMovesFrom yields the legal moves of the piece standing at from,
// whichever side is to move.
func LegalMovesFrom(pos *Position, from Cell) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		piece := pos.At(from)
		if piece.IsEmpty() {
			return
		}
		seen := make([]moveKey, 0, 32)
		pos.candidates(from, piece, func(m Move) bool {
			k := m.key()
			if slices.Contains(seen, k) {
				return true
			}
			seen = append(seen, k)
			if IsInCheck(applyRaw(pos, m), piece.Color) {
				return true
			}
			return yield(m)
		})
	}
}

// LegalMoves yields every legal move of the given color. A castle is listed
// once, from the king's cell.
func LegalMoves(pos *Position, color Color) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		for from, piece := range pos.Pieces(color) {
			for m := range LegalMovesFrom(pos, from) {
				if m.Kind == Castle && piece.Type != King {
					continue
				}
				if !yield(m) {
					return
				}
			}
		}
	}
}

// Successors pairs each legal move of the side to move with the position it
// produces.
func Successors(pos *Position) iter.Seq2[Move, *Position] {
	return func(yield func(Move, *Position) bool) {
		for m := range LegalMoves(pos, pos.turn) {
			if !yield(m, applyRaw(pos, m)) {
				return
			}
		}
	}
}

// FindMove looks up the legal move of the piece at from landing on to.
func FindMove(pos *Position, from, to Cell) (Move, bool) {
	for m := range LegalMovesFrom(pos, from) {
		if m.To == to {
			return m, true
		}
	}
	return Move{}, false
}

// CanReach reports whether the piece at from could move or capture onto to,
// ignoring whether doing so exposes its own king.
func CanReach(pos *Position, from, to Cell) bool {
	piece := pos.At(from)
	if piece.IsEmpty() {
		return false
	}
	found := false
	pos.candidates(from, piece, func(m Move) bool {
		if m.Kind != Castle && m.To == to {
			found = true
			return false
		}
		return true
	})
	return found
}

func hasLegalMove(pos *Position, color Color) bool {
	for range LegalMoves(pos, color) {
		return true
	}
	return false
}

// candidates generates structurally valid moves, before the self-check filter.
// It returns false once yield asks to stop.
func (p *Position) candidates(from Cell, piece Piece, yield func(Move) bool) bool {
	switch piece.Type {
	case Pawn:
		return p.pawnMoves(from, piece, yield)
	case Knight:
		return p.offsetMoves(from, piece, knightOffsets, yield)
	case Bishop:
		return p.slidingMoves(from, piece, bishopDirections, yield)
	case Rook:
		return p.slidingMoves(from, piece, rookDirections, yield) && p.castles(from, piece, yield)
	case Queen:
		return p.slidingMoves(from, piece, queenDirections, yield)
	case King:
		return p.offsetMoves(from, piece, kingOffsets, yield) && p.castles(from, piece, yield)
	}
	panic(&AssertionError{Message: "unknown piece type " + piece.Type.String()})
}

func (p *Position) slidingMoves(from Cell, piece Piece, directions []Vector, yield func(Move) bool) bool {
	for _, d := range directions {
		for to := from.Add(d); to.OnBoard(); to = to.Add(d) {
			occupant := p.At(to)
			if occupant.IsEmpty() {
				if !yield(Move{Kind: Step, Piece: piece, From: from, To: to}) {
					return false
				}
				continue
			}
			if occupant.Color != piece.Color {
				if !yield(Move{Kind: Capture, Piece: piece, From: from, To: to, Captured: occupant}) {
					return false
				}
			}
			break
		}
	}
	return true
}

func (p *Position) offsetMoves(from Cell, piece Piece, offsets []Vector, yield func(Move) bool) bool {
	for _, o := range offsets {
		to := from.Add(o)
		if !to.OnBoard() {
			continue
		}
		occupant := p.At(to)
		switch {
		case occupant.IsEmpty():
			if !yield(Move{Kind: Step, Piece: piece, From: from, To: to}) {
				return false
			}
		case occupant.Color != piece.Color:
			if !yield(Move{Kind: Capture, Piece: piece, From: from, To: to, Captured: occupant}) {
				return false
			}
		}
	}
	return true
}

func (p *Position) pawnMoves(from Cell, pawn Piece, yield func(Move) bool) bool {
	forward := pawn.Color.forward()
	one := from.Add(Vector{Rank: forward})
	if one.OnBoard() && p.At(one).IsEmpty() {
		if !yield(Move{Kind: Step, Piece: pawn, From: from, To: one}) {
			return false
		}
		two := one.Add(Vector{Rank: forward})
		if !pawn.Moved && two.OnBoard() && p.At(two).IsEmpty() {
			if !yield(Move{Kind: Step, Piece: pawn, From: from, To: two}) {
				return false
			}
		}
	}
	for _, side := range [2]int{-1, 1} {
		to := from.Add(Vector{Rank: forward, File: side})
		if !to.OnBoard() {
			continue
		}
		if occupant := p.At(to); !occupant.IsEmpty() && occupant.Color != pawn.Color {
			if !yield(Move{Kind: Capture, Piece: pawn, From: from, To: to, Captured: occupant}) {
				return false
			}
		}
	}
	return true
}

// castles searches the back rank for an unmoved partner: a rook when the
// piece is a king, a king when it is a rook.
func (p *Position) castles(from Cell, piece Piece, yield func(Move) bool) bool {
	if piece.Moved {
		return true
	}
	partner := King
	if piece.Type == King {
		partner = Rook
	}
	for file := range BoardSize {
		to := Cell{Rank: from.Rank, File: file}
		other := p.At(to)
		if other.Type != partner || other.Color != piece.Color || other.Moved {
			continue
		}
		king, rook := from, to
		if piece.Type == Rook {
			king, rook = to, from
		}
		if p.canCastle(king, rook) {
			if !yield(Move{Kind: Castle, Piece: piece, From: from, To: to}) {
				return false
			}
		}
	}
	return true
}

func (p *Position) canCastle(king, rook Cell) bool {
	if abs(rook.File-king.File) < 3 {
		return false
	}
	for _, c := range cellsBetween(king, rook) {
		if !p.At(c).IsEmpty() {
			return false
		}
	}
	kingPiece := p.At(king)
	opponent := kingPiece.Color.Opponent()
	if isAttacked(p, king, opponent) {
		return false
	}
	for n := 1; n <= 2; n++ {
		path := stepsToward(king, rook, n)
		provisional := p.clone()
		provisional.set(king, Piece{})
		provisional.set(path, kingPiece)
		if isAttacked(provisional, path, opponent) {
			return false
		}
	}
	return true
}
