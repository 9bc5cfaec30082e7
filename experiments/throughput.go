package experiments

import (
	"context"
	"fmt"
	"time"

	"chessengine/engine"
	"chessengine/experiments/metrics"
)

// RunThroughputExperiment pits identical clocked minimax agents against each
// other, one configuration per worker count, to measure how many nodes the
// parallel root search gets through per move.
func RunThroughputExperiment(ctx context.Context, root string, goroutines []int, duration time.Duration, games int, options ...engine.Option) ([]metrics.StandingRecord, error) {
	configs := []metrics.AgentConfig{}
	for i, n := range goroutines {
		configs = append(configs, metrics.AgentConfig{
			ID:           i + 1,
			Name:         fmt.Sprintf("minimax-%s-x%d", duration, n),
			Kind:         KindMinimax,
			Duration:     duration,
			Goroutines:   n,
			PieceSquares: true,
		})
	}
	// Same config for both players in each game
	// for the same playing strength and similar game length
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, []metrics.AgentConfig{config, config})
	}
	return runExperiment(ctx, root, "throughput", configs, matchUps, games, options...)
}
