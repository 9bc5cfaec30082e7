package game

// isAttacked scans outward from target for a piece of color by that could
// capture on it.
func isAttacked(pos *Position, target Cell, by Color) bool {
	if slidingAttack(pos, target, by, rookDirections, Rook) ||
		slidingAttack(pos, target, by, bishopDirections, Bishop) {
		return true
	}
	for _, o := range knightOffsets {
		if p := pos.At(target.Add(o)); p.Type == Knight && p.Color == by {
			return true
		}
	}
	for _, o := range kingOffsets {
		if p := pos.At(target.Add(o)); p.Type == King && p.Color == by {
			return true
		}
	}
	// An attacking pawn stands one rank behind target from its own point of view.
	for _, side := range [2]int{-1, 1} {
		from := target.Add(Vector{Rank: -by.forward(), File: side})
		if p := pos.At(from); p.Type == Pawn && p.Color == by {
			return true
		}
	}
	return false
}

func slidingAttack(pos *Position, target Cell, by Color, directions []Vector, slider PieceType) bool {
	for _, d := range directions {
		for c := target.Add(d); c.OnBoard(); c = c.Add(d) {
			p := pos.At(c)
			if p.IsEmpty() {
				continue
			}
			if p.Color == by && (p.Type == slider || p.Type == Queen) {
				return true
			}
			break
		}
	}
	return false
}
