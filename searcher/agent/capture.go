package agent

import (
	"context"
	"math"

	"chessengine/experiments/metrics"
	"chessengine/game"
)

// CaptureHighestValue takes the most valuable piece it can. With
// prioritizeCheck a checking move is preferred over any capture, and a
// mating move ends the scan. Without a capture it plays randomly.
type CaptureHighestValue struct {
	prioritizeCheck bool
	fallback        *Random
}

func NewCaptureHighestValue(prioritizeCheck bool, seed uint64) *CaptureHighestValue {
	return &CaptureHighestValue{
		prioritizeCheck: prioritizeCheck,
		fallback:        NewRandom(seed),
	}
}

func (a *CaptureHighestValue) FindMove(ctx context.Context, pos *game.Position) (game.Move, metrics.SearchMetric, error) {
	if m, ok := bestCapture(pos, a.prioritizeCheck, false); ok {
		return m, metrics.SearchMetric{}, nil
	}
	return a.fallback.FindMove(ctx, pos)
}

// DoubleCaptureHighestValue behaves like CaptureHighestValue, but without an
// immediate capture it looks one move further: it plays the move after which
// it could take the most valuable piece, provided the target cannot strike
// back at the capturing piece first.
type DoubleCaptureHighestValue struct {
	prioritizeCheck bool
	fallback        *Random
}

func NewDoubleCaptureHighestValue(prioritizeCheck bool, seed uint64) *DoubleCaptureHighestValue {
	return &DoubleCaptureHighestValue{
		prioritizeCheck: prioritizeCheck,
		fallback:        NewRandom(seed),
	}
}

func (a *DoubleCaptureHighestValue) FindMove(ctx context.Context, pos *game.Position) (game.Move, metrics.SearchMetric, error) {
	if m, ok := bestCapture(pos, a.prioritizeCheck, false); ok {
		return m, metrics.SearchMetric{}, nil
	}
	if m, ok := a.setUpCapture(pos); ok {
		return m, metrics.SearchMetric{}, nil
	}
	return a.fallback.FindMove(ctx, pos)
}

func (a *DoubleCaptureHighestValue) setUpCapture(pos *game.Position) (game.Move, bool) {
	mover := pos.Turn()
	var (
		best      game.Move
		found     bool
		bestValue int
	)
	for m, child := range game.Successors(pos) {
		// Pretend the opponent passes
		next, ok := bestCapture(child.WithTurn(mover), a.prioritizeCheck, true)
		if !ok || next.Kind != game.Capture {
			continue
		}
		if value := next.Captured.Type.Value(); value > bestValue {
			best, found, bestValue = m, true, value
		}
	}
	return best, found
}

// bestCapture scans the legal moves of the side to move. When
// opponentMovesFirst is set, captures whose target could take the capturing
// piece first are skipped.
func bestCapture(pos *game.Position, prioritizeCheck, opponentMovesFirst bool) (game.Move, bool) {
	opponent := pos.Turn().Opponent()
	var (
		best      game.Move
		found     bool
		bestValue float64
	)
	for m, child := range game.Successors(pos) {
		if prioritizeCheck && m.Kind == game.Step {
			if !game.IsInCheck(child, opponent) {
				continue
			}
			best, found, bestValue = m, true, math.Inf(1)
			if loser, ok := game.ColorInCheckmate(child); ok && loser == opponent {
				break
			}
			continue
		}
		if m.Kind != game.Capture {
			continue
		}
		if opponentMovesFirst && game.CanReach(pos, m.To, m.From) {
			continue
		}
		if value := float64(m.Captured.Type.Value()); value > bestValue {
			best, found, bestValue = m, true, value
		}
	}
	return best, found
}
