package agent

import (
	"context"
	"errors"
	"math"
	"time"

	"chessengine/experiments/metrics"
	"chessengine/game"
	"chessengine/meta"
	"chessengine/searcher"

	"github.com/rs/zerolog/log"
)

type Option func(a *Minimax)

// Minimax searches with alpha-beta pruning and falls back to a random move
// when the search yields no edge. An instance serves one game at a time.
type Minimax struct {
	depth      int
	duration   time.Duration
	goroutines int
	evaluate   game.Evaluate
	seed       uint64
	metrics    metrics.Collector
	search     *searcher.ChessMinimax
	fallback   *Random
}

func WithDepth(depth int) Option {
	return func(a *Minimax) {
		if depth > 0 {
			a.depth = depth
		}
	}
}

// WithDuration deepens the search one ply at a time until the duration runs
// out, keeping the last completed result.
func WithDuration(duration time.Duration) Option {
	return func(a *Minimax) {
		if duration > 0 {
			a.duration = duration
		}
	}
}

func WithEvaluation(evaluate game.Evaluate) Option {
	return func(a *Minimax) {
		if evaluate != nil {
			a.evaluate = evaluate
		}
	}
}

func WithGoroutines(goroutines int) Option {
	return func(a *Minimax) {
		if goroutines > 0 {
			a.goroutines = goroutines
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(a *Minimax) {
		a.seed = seed
	}
}

func WithMetrics() Option {
	return func(a *Minimax) {
		a.metrics = metrics.NewCollector()
	}
}

func NewMinimax(options ...Option) *Minimax {
	a := &Minimax{ // Default values
		depth:      meta.SEARCH_DEPTH,
		goroutines: 1,
		evaluate:   game.EvaluateMaterial,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(a)
	}
	a.search = searcher.NewChess(a.evaluate,
		searcher.WithAlphaBeta(),
		searcher.WithGoroutines(a.goroutines),
		searcher.WithMetrics(a.metrics),
	)
	a.fallback = NewRandom(a.seed)
	return a
}

func (a *Minimax) FindMove(ctx context.Context, pos *game.Position) (game.Move, metrics.SearchMetric, error) {
	a.metrics.Start(a.goroutines, a.depth)

	var (
		result searcher.Result[game.Move]
		err    error
	)
	if a.duration > 0 {
		result, err = a.deepen(ctx, pos)
	} else {
		result, err = searcher.SearchPosition(ctx, a.search, pos, a.depth)
	}
	if err != nil {
		return game.Move{}, metrics.SearchMetric{}, err
	}

	metric := a.metrics.Complete()
	if !result.HasEdge {
		log.Debug().Msgf("search from %s found no move, playing randomly", pos.FEN())
		m, _, err := a.fallback.FindMove(ctx, pos)
		return m, metric, err
	}
	return result.Edge, metric, nil
}

func (a *Minimax) deepen(ctx context.Context, pos *game.Position) (searcher.Result[game.Move], error) {
	deadline, cancel := context.WithTimeout(ctx, a.duration)
	defer cancel()

	var best searcher.Result[game.Move]
	for depth := 1; depth <= meta.MAX_ITERATIVE_DEPTH; depth++ {
		result, err := searcher.SearchPosition(deadline, a.search, pos, depth)
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			break
		}
		if err != nil {
			return searcher.Result[game.Move]{}, err
		}
		best = result
		a.metrics.SetDepth(depth)
		if !result.HasEdge || math.IsInf(result.Value, 0) {
			break
		}
	}
	return best, nil
}
