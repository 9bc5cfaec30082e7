// Package searcher implements depth-limited minimax search with optional
// alpha-beta pruning over any game tree.
package searcher

import "math"

// Result is the outcome of a search: the minimax value of the root, the edge
// leading to it and the number of leaves evaluated.
type Result[E any] struct {
	Value         float64
	Edge          E
	HasEdge       bool
	NodesExplored int
}

func worstValue(maximizing bool) float64 {
	if maximizing {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

func isNewExtreme(maximizing bool, value, existing float64) bool {
	if maximizing {
		return value > existing
	}
	return value < existing
}
