package experiments

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"chessengine/engine"
	"chessengine/experiments/metrics"
	"chessengine/game"
	"chessengine/searcher/agent"

	"github.com/rs/zerolog/log"
)

const (
	KindRandom        = "random"
	KindCapture       = "capture"
	KindDoubleCapture = "double-capture"
	KindMinimax       = "minimax"
)

var PlayoffEntrants = []metrics.AgentConfig{
	{ID: 1, Name: "Rando", Kind: KindRandom},
	{ID: 2, Name: "GottaCaptureEmAll", Kind: KindCapture},
	{ID: 3, Name: "CheckFirst", Kind: KindDoubleCapture, PrioritizeCheck: true},
	{ID: 4, Name: "Minimax", Kind: KindMinimax},
	{ID: 5, Name: "Smart Boi", Kind: KindMinimax, PieceSquares: true},
}

// RunPlayoff plays every ordered pairing of configs, so each pair meets with
// both colour assignments, and returns the standings sorted by score.
func RunPlayoff(ctx context.Context, root string, configs []metrics.AgentConfig, games int, options ...engine.Option) ([]metrics.StandingRecord, error) {
	matchUps := [][]metrics.AgentConfig{}
	for _, white := range configs {
		for _, black := range configs {
			if white.ID != black.ID {
				matchUps = append(matchUps, []metrics.AgentConfig{white, black})
			}
		}
	}
	return runExperiment(ctx, root, "playoff", configs, matchUps, games, options...)
}

// NewAgent builds the agent described by config. Seed drives the random
// choices of the agent and of its fallback.
func NewAgent(config metrics.AgentConfig, seed uint64) (agent.Agent, error) {
	switch config.Kind {
	case KindRandom:
		return agent.NewRandom(seed), nil
	case KindCapture:
		return agent.NewCaptureHighestValue(config.PrioritizeCheck, seed), nil
	case KindDoubleCapture:
		return agent.NewDoubleCaptureHighestValue(config.PrioritizeCheck, seed), nil
	case KindMinimax:
		options := []agent.Option{agent.WithSeed(seed), agent.WithMetrics()}
		if config.Depth > 0 {
			options = append(options, agent.WithDepth(config.Depth))
		}
		if config.Duration > 0 {
			options = append(options, agent.WithDuration(config.Duration))
		}
		if config.Goroutines > 0 {
			options = append(options, agent.WithGoroutines(config.Goroutines))
		}
		if config.PieceSquares {
			options = append(options, agent.WithEvaluation(game.EvaluatePieceSquares))
		}
		return agent.NewMinimax(options...), nil
	}
	return nil, fmt.Errorf("unknown agent kind %q", config.Kind)
}

func runExperiment(ctx context.Context, root, name string, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig, games int, options ...engine.Option) ([]metrics.StandingRecord, error) {
	// Run a number of games for each matchup
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	standings := newStandings(configs)

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchup := range matchUps {
		config1 := matchup[0]
		config2 := matchup[1]

		log.Info().Msgf("starting matchup %d of %d between white=%s and black=%s...", mi+1, len(matchUps), config1.Name, config2.Name)

		for i := 0; i < games; i++ {
			count++
			result, gameMetric, moveMetrics, err := runGame(ctx, config1, config2, uint64(count), options...)
			if err != nil {
				return nil, fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     config1.ID,
				Agent2:     config2.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}
			standings.record(config1.ID, config2.ID, result)

			log.Info().Msgf("completed matchup %d of %d game %d: %s", mi+1, len(matchUps), i+1, result)
		}
	}

	records := standings.sorted()
	log.Info().Msgf("completed %s experiment", name)
	for rank, s := range records {
		log.Info().Msgf("%d. %s %d-%d-%d %d", rank+1, s.Name, s.Wins, s.Losses, s.Draws, s.Score)
	}

	if root == "" {
		return records, nil
	}
	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return records, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return records, fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return records, fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return records, fmt.Errorf("failed to write move records: %w", err)
	}
	if err := writer.WriteStandings(records); err != nil {
		return records, fmt.Errorf("failed to write standings: %w", err)
	}
	log.Info().Msgf("stored %s results in %s", name, writer.Dir())
	return records, nil
}

// runGame executes a single game with config1 as white and config2 as black
func runGame(ctx context.Context, config1, config2 metrics.AgentConfig, seed uint64, options ...engine.Option) (engine.Result, metrics.GameMetric, []metrics.MoveMetric, error) {
	white, err := NewAgent(config1, seed)
	if err != nil {
		return engine.Result{}, metrics.GameMetric{}, nil, err
	}
	black, err := NewAgent(config2, seed+1<<32)
	if err != nil {
		return engine.Result{}, metrics.GameMetric{}, nil, err
	}
	result, gameMetric, moveMetrics, err := engine.NewEngine(white, black, options...).Run(ctx)
	gameMetric.White = config1.Name
	gameMetric.Black = config2.Name
	return result, gameMetric, moveMetrics, err
}

type standings struct {
	ids     []int
	records []metrics.StandingRecord
}

func newStandings(configs []metrics.AgentConfig) *standings {
	s := &standings{}
	for _, config := range configs {
		s.ids = append(s.ids, config.ID)
		s.records = append(s.records, metrics.StandingRecord{Agent: config.ID, Name: config.Name})
	}
	return s
}

func (s *standings) record(whiteID, blackID int, result engine.Result) {
	white := &s.records[slices.Index(s.ids, whiteID)]
	black := &s.records[slices.Index(s.ids, blackID)]
	white.Score += result.WhiteScore
	black.Score += result.BlackScore
	switch {
	case !result.HasWinner:
		white.Draws++
		black.Draws++
	case result.Winner == game.White:
		white.Wins++
		black.Losses++
	default:
		black.Wins++
		white.Losses++
	}
}

func (s *standings) sorted() []metrics.StandingRecord {
	records := slices.Clone(s.records)
	slices.SortStableFunc(records, func(a, b metrics.StandingRecord) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return records
}
