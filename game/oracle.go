package game

func IsInCheck(pos *Position, color Color) bool {
	king, ok := pos.King(color)
	if !ok {
		return false
	}
	return isAttacked(pos, king, color.Opponent())
}

// IsStalemate is true when neither side is in check and the side to move has
// no legal move.
func IsStalemate(pos *Position) bool {
	if IsInCheck(pos, White) || IsInCheck(pos, Black) {
		return false
	}
	return !hasLegalMove(pos, pos.turn)
}

// ColorInCheckmate returns the side to move when it is checkmated.
func ColorInCheckmate(pos *Position) (Color, bool) {
	if IsInCheck(pos, pos.turn) && !hasLegalMove(pos, pos.turn) {
		return pos.turn, true
	}
	return 0, false
}

// Winner returns the color that has captured the opposing king or checkmated
// the opponent.
func Winner(pos *Position) (Color, bool) {
	for _, color := range Colors {
		for _, p := range pos.captured[color] {
			if p.Type == King {
				return color, true
			}
		}
	}
	if loser, ok := ColorInCheckmate(pos); ok {
		return loser.Opponent(), true
	}
	return 0, false
}

func IsTerminal(pos *Position) bool {
	if _, ok := Winner(pos); ok {
		return true
	}
	return IsStalemate(pos)
}

// PendingPromotion returns the cell of a pawn waiting on its far rank.
func PendingPromotion(pos *Position) (Cell, bool) {
	for _, color := range Colors {
		rank := color.farRank()
		for file := range BoardSize {
			if p := pos.board[rank][file]; p.Type == Pawn && p.Color == color {
				return Cell{Rank: rank, File: file}, true
			}
		}
	}
	return Cell{}, false
}
