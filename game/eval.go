package game

import "math"

// EvaluateMaterial compares the relative value of the pieces each side has on
// the board.
func EvaluateMaterial(pos *Position) float64 {
	if v, ok := decided(pos); ok {
		return v
	}
	var total [2]int
	for _, color := range Colors {
		for _, p := range pos.Pieces(color) {
			total[color] += p.Type.Value()
		}
	}
	return float64(total[White] - total[Black])
}

// EvaluatePieceSquares adds piece-square bonuses to centipawn material.
func EvaluatePieceSquares(pos *Position) float64 {
	if v, ok := decided(pos); ok {
		return v
	}
	endgame := isEndgame(pos)
	var total [2]int
	for _, color := range Colors {
		for c, p := range pos.Pieces(color) {
			total[color] += centipawns[p.Type] + squareBonus(p, c, endgame)
		}
	}
	return float64(total[White] - total[Black])
}

func decided(pos *Position) (float64, bool) {
	winner, ok := Winner(pos)
	if !ok {
		return 0, false
	}
	if winner == White {
		return math.Inf(1), true
	}
	return math.Inf(-1), true
}

// isEndgame is true once both queens are off the board.
func isEndgame(pos *Position) bool {
	for _, color := range Colors {
		for _, p := range pos.Pieces(color) {
			if p.Type == Queen {
				return false
			}
		}
	}
	return true
}
