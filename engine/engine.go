package engine

import (
	"context"
	"fmt"
	"time"

	"chessengine/experiments/metrics"
	"chessengine/game"
	"chessengine/meta"
	"chessengine/searcher/agent"

	"github.com/rs/zerolog/log"
)

type Result struct {
	Position   *game.Position
	Moves      int
	Winner     game.Color
	HasWinner  bool
	Stalemate  bool
	WhiteScore int
	BlackScore int
}

func (r Result) String() string {
	switch {
	case r.HasWinner:
		return fmt.Sprintf("%s wins after %d moves (%d-%d)", r.Winner, r.Moves, r.WhiteScore, r.BlackScore)
	case r.Stalemate:
		return fmt.Sprintf("stalemate after %d moves (%d-%d)", r.Moves, r.WhiteScore, r.BlackScore)
	}
	return fmt.Sprintf("undecided after %d moves (%d-%d)", r.Moves, r.WhiteScore, r.BlackScore)
}

type Option func(e *Engine)

func WithMaxMoves(maxMoves int) Option {
	return func(e *Engine) {
		if maxMoves > 0 {
			e.maxMoves = maxMoves
		}
	}
}

// WithWinBonus sets the points added to the winner's score and taken from
// the loser's.
func WithWinBonus(bonus int) Option {
	return func(e *Engine) {
		if bonus >= 0 {
			e.winBonus = bonus
		}
	}
}

func WithStartingPosition(pos *game.Position) Option {
	return func(e *Engine) {
		if pos != nil {
			e.start = pos
		}
	}
}

// Engine plays one game between two agents.
type Engine struct {
	agents   [2]agent.Agent // indexed by game.Color
	maxMoves int
	winBonus int
	start    *game.Position
}

func NewEngine(white, black agent.Agent, options ...Option) *Engine {
	e := &Engine{ // Default values
		agents:   [2]agent.Agent{game.White: white, game.Black: black},
		maxMoves: meta.MAX_MOVES,
		winBonus: meta.WIN_BONUS,
		start:    game.NewPosition(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Play runs a single game with a fresh engine.
func Play(ctx context.Context, white, black agent.Agent, options ...Option) (Result, error) {
	result, _, _, err := NewEngine(white, black, options...).Run(ctx)
	return result, err
}

// Run alternates the agents until a winner, a stalemate or the move limit.
// Pawns reaching the far rank are promoted to queens.
func (e *Engine) Run(ctx context.Context) (Result, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{StartTime: time.Now()}
	var moveMetrics []metrics.MoveMetric

	pos := e.start
	result := Result{}
	log.Debug().Msgf("%s is starting", pos.Turn())

	for !result.HasWinner && result.Moves < e.maxMoves {
		mover := pos.Turn()
		m, searchMetric, err := e.agents[mover].FindMove(ctx, pos)
		if err != nil {
			return Result{}, gameMetric, moveMetrics, fmt.Errorf("%s failed to find a move: %w", mover, err)
		}
		next, err := game.Apply(pos, m)
		if err != nil {
			return Result{}, gameMetric, moveMetrics, fmt.Errorf("%s played %s: %w", mover, m, err)
		}
		if cell, ok := game.PendingPromotion(next); ok {
			next, err = game.Apply(next, game.PromotionMove(next, cell, game.Queen))
			if err != nil {
				return Result{}, gameMetric, moveMetrics, fmt.Errorf("promote %s: %w", cell, err)
			}
		}
		pos = next
		result.Moves++
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         result.Moves,
			Player:       mover.String(),
			Move:         m.String(),
			SearchMetric: searchMetric,
		})
		log.Debug().Msgf("move %d: %s", result.Moves, m.Describe())

		if game.IsStalemate(pos) {
			result.Stalemate = true
			break
		}
		result.Winner, result.HasWinner = game.Winner(pos)
	}

	result.Position = pos
	result.WhiteScore = pos.Score(game.White)
	result.BlackScore = pos.Score(game.Black)
	if result.HasWinner {
		if result.Winner == game.White {
			result.WhiteScore += e.winBonus
			result.BlackScore -= e.winBonus
		} else {
			result.WhiteScore -= e.winBonus
			result.BlackScore += e.winBonus
		}
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = result.Moves
	gameMetric.Stalemate = result.Stalemate
	gameMetric.WhiteScore = result.WhiteScore
	gameMetric.BlackScore = result.BlackScore
	if result.HasWinner {
		gameMetric.Winner = result.Winner.String()
	}
	log.Debug().Msgf("game over: %s", result)
	return result, gameMetric, moveMetrics, nil
}
