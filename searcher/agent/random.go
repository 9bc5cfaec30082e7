package agent

import (
	"context"
	"sync"

	"chessengine/experiments/metrics"
	"chessengine/game"

	"golang.org/x/exp/rand"
)

// Random plays a uniformly random legal move.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (a *Random) FindMove(ctx context.Context, pos *game.Position) (game.Move, metrics.SearchMetric, error) {
	if err := ctx.Err(); err != nil {
		return game.Move{}, metrics.SearchMetric{}, err
	}
	var moves []game.Move
	for m := range game.LegalMoves(pos, pos.Turn()) {
		moves = append(moves, m)
	}
	if len(moves) == 0 {
		return game.Move{}, metrics.SearchMetric{}, ErrNoLegalMoves
	}

	a.mu.Lock()
	i := a.rng.Intn(len(moves))
	a.mu.Unlock()
	return moves[i], metrics.SearchMetric{}, nil
}
