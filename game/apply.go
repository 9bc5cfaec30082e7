package game

import "slices"

// Apply validates m against the legal moves of the position and returns the
// resulting position. An illegal move returns an *IllegalMoveError and
// leaves pos untouched.
//
// A promotion replaces a pawn standing on its far rank. It is issued by the
// side that just moved the pawn and does not change the side to move.
func Apply(pos *Position, m Move) (*Position, error) {
	if m.Kind == Promotion {
		return promote(pos, m)
	}
	if !m.From.OnBoard() || !m.To.OnBoard() {
		return nil, illegal(m, "cell is off the board")
	}
	occupant := pos.At(m.From)
	if occupant.IsEmpty() || !occupant.Is(m.Piece) {
		return nil, illegal(m, "%s is not at %s", m.Piece, m.From)
	}
	if occupant.Color != pos.turn {
		return nil, illegal(m, "it is %s's turn", pos.turn)
	}
	want := m.key()
	for legal := range LegalMovesFrom(pos, m.From) {
		if legal.key() == want {
			return applyRaw(pos, legal), nil
		}
	}
	return nil, illegal(m, "not a legal move in this position")
}

func promote(pos *Position, m Move) (*Position, error) {
	if !m.From.OnBoard() {
		return nil, illegal(m, "cell is off the board")
	}
	pawn := pos.At(m.From)
	switch {
	case pawn.Type != Pawn:
		return nil, illegal(m, "no pawn at %s", m.From)
	case !pawn.Is(m.Piece):
		return nil, illegal(m, "%s is not at %s", m.Piece, m.From)
	case m.From.Rank != pawn.Color.farRank():
		return nil, illegal(m, "pawn at %s has not reached the far rank", m.From)
	case !m.PromotedTo.Promotable():
		return nil, illegal(m, "cannot promote to %s", m.PromotedTo)
	}
	return applyRaw(pos, m), nil
}

// applyRaw produces the next position without any legality check. It must
// only be reached through Apply or the move generator.
func applyRaw(pos *Position, m Move) *Position {
	next := pos.clone()
	next.history = append(slices.Clip(pos.history), m)

	switch m.Kind {
	case Promotion:
		pawn := pos.At(m.From)
		next.set(m.From, Piece{Type: m.PromotedTo, Color: pawn.Color, Moved: true})
		return next
	case Castle:
		king, rook := m.From, m.To
		if pos.At(king).Type != King {
			king, rook = rook, king
		}
		kingPiece, rookPiece := pos.At(king), pos.At(rook)
		assert(kingPiece.Type == King && rookPiece.Type == Rook, "castle %s needs a king and a rook", m)
		kingTo, rookTo := stepsToward(king, rook, 2), stepsToward(king, rook, 1)
		next.set(king, Piece{})
		next.set(rook, Piece{})
		kingPiece.Moved, rookPiece.Moved = true, true
		next.set(kingTo, kingPiece)
		next.set(rookTo, rookPiece)
		next.kings[kingPiece.Color] = kingTo
		next.halfMoves++
	default:
		mover := pos.At(m.From)
		captured := pos.At(m.To)
		next.set(m.From, Piece{})
		mover.Moved = true
		next.set(m.To, mover)
		if mover.Type == King {
			next.kings[mover.Color] = m.To
		}
		if !captured.IsEmpty() {
			next.captured[mover.Color] = append(slices.Clip(pos.captured[mover.Color]), captured)
			next.score[mover.Color] += captured.Type.Value()
			if captured.Type == King {
				next.hasKing[captured.Color] = false
			}
		}
		if captured.IsEmpty() && mover.Type != Pawn {
			next.halfMoves++
		} else {
			next.halfMoves = 0
		}
	}
	next.turn = pos.turn.Opponent()
	return next
}
