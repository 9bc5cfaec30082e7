package agent

import (
	"context"
	"testing"
	"time"

	"chessengine/game"

	"github.com/stretchr/testify/require"
)

/*
- random: legal, reproducible per seed, errors without legal moves
- capture: most valuable target, checks first when prioritized, mates end the scan
- double capture: immediate capture first, otherwise the move setting up the best safe capture
- minimax: finds mates, reports metrics, deepens against a clock, honours cancellation
*/

func mustFEN(t *testing.T, fen string) *game.Position {
	t.Helper()
	pos, err := game.FromFEN(fen)
	require.NoError(t, err, "FEN fixture should parse")
	return pos
}

func requireLegal(t *testing.T, pos *game.Position, m game.Move) {
	t.Helper()
	_, err := game.Apply(pos, m)
	require.NoError(t, err, "%s should be legal", m)
}

const (
	queenHanging = "4k3/8/8/3q4/8/2Np4/8/3RK3 w - - 0 1"
	checkOrQueen = "4k3/8/8/3q4/8/2N5/8/R3K3 w - - 0 1"
	backRankMate = "6k1/5ppp/8/3N4/8/8/8/R5K1 w - - 0 1"
	knightSetUp  = "4k3/8/8/3q4/8/8/8/1N2K3 w - - 0 1"
	stalemate    = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
)

func TestRandom(t *testing.T) {
	ctx := context.Background()

	t.Run("plays a legal move", func(t *testing.T) {
		pos := game.NewPosition()
		m, _, err := NewRandom(1).FindMove(ctx, pos)
		require.NoError(t, err, "Start position has moves")
		requireLegal(t, pos, m)
	})

	t.Run("same seed plays the same game", func(t *testing.T) {
		a, b := NewRandom(7), NewRandom(7)
		pos := game.NewPosition()
		for range 10 {
			ma, _, err := a.FindMove(ctx, pos)
			require.NoError(t, err, "Random should find a move")
			mb, _, err := b.FindMove(ctx, pos)
			require.NoError(t, err, "Random should find a move")
			require.Equal(t, ma, mb, "Seeded agents should agree")
			pos, err = game.Apply(pos, ma)
			require.NoError(t, err, "Chosen move should apply")
			if game.IsTerminal(pos) {
				break
			}
		}
	})

	t.Run("no legal move is an error", func(t *testing.T) {
		_, _, err := NewRandom(1).FindMove(ctx, mustFEN(t, stalemate))
		require.ErrorIs(t, err, ErrNoLegalMoves, "Stalemated side cannot move")
	})
}

func TestCaptureHighestValue(t *testing.T) {
	ctx := context.Background()

	t.Run("takes the most valuable piece", func(t *testing.T) {
		m, _, err := NewCaptureHighestValue(false, 1).FindMove(ctx, mustFEN(t, queenHanging))
		require.NoError(t, err, "Agent should find a move")
		require.Equal(t, "c3d5", m.String(), "Queen is worth more than the pawn")
		require.Equal(t, game.Queen, m.Captured.Type, "Move should capture the queen")
	})

	t.Run("prefers a check when prioritized", func(t *testing.T) {
		pos := mustFEN(t, checkOrQueen)
		m, _, err := NewCaptureHighestValue(true, 1).FindMove(ctx, pos)
		require.NoError(t, err, "Agent should find a move")
		require.Equal(t, "a1a8", m.String(), "Rook check should beat the queen capture")

		m, _, err = NewCaptureHighestValue(false, 1).FindMove(ctx, pos)
		require.NoError(t, err, "Agent should find a move")
		require.Equal(t, "c3d5", m.String(), "Without priority the queen should be taken")
	})

	t.Run("mating check ends the scan", func(t *testing.T) {
		m, _, err := NewCaptureHighestValue(true, 1).FindMove(ctx, mustFEN(t, backRankMate))
		require.NoError(t, err, "Agent should find a move")
		require.Equal(t, "a1a8", m.String(), "Back-rank mate should not be replaced by a knight check")
	})

	t.Run("falls back to a random legal move", func(t *testing.T) {
		pos := game.NewPosition()
		m, _, err := NewCaptureHighestValue(true, 1).FindMove(ctx, pos)
		require.NoError(t, err, "Agent should find a move")
		requireLegal(t, pos, m)
	})
}

func TestDoubleCaptureHighestValue(t *testing.T) {
	ctx := context.Background()

	t.Run("immediate capture comes first", func(t *testing.T) {
		m, _, err := NewDoubleCaptureHighestValue(false, 1).FindMove(ctx, mustFEN(t, queenHanging))
		require.NoError(t, err, "Agent should find a move")
		require.Equal(t, "c3d5", m.String(), "Hanging queen should be taken at once")
	})

	t.Run("sets up a capture the target cannot answer", func(t *testing.T) {
		m, _, err := NewDoubleCaptureHighestValue(false, 1).FindMove(ctx, mustFEN(t, knightSetUp))
		require.NoError(t, err, "Agent should find a move")
		require.Equal(t, "b1c3", m.String(), "Knight on c3 forks the queen out of its reach")
	})

	t.Run("skips set-ups the target can strike first", func(t *testing.T) {
		pos := mustFEN(t, "4k3/8/8/3q4/8/8/8/R3K3 w - - 0 1")
		d := NewDoubleCaptureHighestValue(false, 1)
		_, ok := d.setUpCapture(pos)
		require.False(t, ok, "Every rook attack on the queen is within the queen's reach")
	})
}

func TestMinimax(t *testing.T) {
	ctx := context.Background()

	t.Run("finds mate in one and reports metrics", func(t *testing.T) {
		a := NewMinimax(WithEvaluation(game.EvaluatePieceSquares), WithMetrics())
		m, metric, err := a.FindMove(ctx, mustFEN(t, backRankMate))
		require.NoError(t, err, "Search should complete")
		require.Equal(t, "a1a8", m.String(), "Back-rank mate should be found")
		require.Equal(t, 2, metric.Depth, "Default depth is two plies")
		require.Equal(t, 1, metric.Searches, "A fixed depth runs one search")
		require.Positive(t, metric.Nodes, "Nodes should be counted")
	})

	t.Run("parallel workers find the same move", func(t *testing.T) {
		a := NewMinimax(WithGoroutines(4))
		m, _, err := a.FindMove(ctx, mustFEN(t, queenHanging))
		require.NoError(t, err, "Search should complete")
		require.Equal(t, game.Queen, m.Captured.Type, "Winning the queen is best")
	})

	t.Run("deepens until a decided result", func(t *testing.T) {
		a := NewMinimax(WithDuration(time.Second), WithMetrics())
		m, metric, err := a.FindMove(ctx, mustFEN(t, backRankMate))
		require.NoError(t, err, "Search should complete")
		require.Equal(t, "a1a8", m.String(), "Mate should be found at depth one")
		require.Equal(t, 1, metric.Depth, "Deepening should stop once the mate is found")
	})

	t.Run("no legal move is an error", func(t *testing.T) {
		_, _, err := NewMinimax().FindMove(ctx, mustFEN(t, stalemate))
		require.ErrorIs(t, err, ErrNoLegalMoves, "Terminal root falls back to random, which has nothing to play")
	})

	t.Run("cancelled context stops the search", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, _, err := NewMinimax().FindMove(cancelled, game.NewPosition())
		require.ErrorIs(t, err, context.Canceled, "Fixed depth search should stop")
		_, _, err = NewMinimax(WithDuration(time.Second)).FindMove(cancelled, game.NewPosition())
		require.ErrorIs(t, err, context.Canceled, "Clocked search should stop")
	})
}
