package player

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"chessengine/communication/client"
	"chessengine/communication/server"
	"chessengine/experiments/metrics"
	"chessengine/game"
	"chessengine/gamemaster"
	"chessengine/searcher/agent"

	"github.com/stretchr/testify/require"
)

/*
- a player finishes once its move decides the game
- a player completes its own pending promotion and then waits for the opponent
- a push that leaves the opponent without moves is not the end while the
  promotion that follows can still mate
*/

type pawnPusher struct {
	from, to string
}

func (a pawnPusher) FindMove(ctx context.Context, pos *game.Position) (game.Move, metrics.SearchMetric, error) {
	m, _ := game.FindMove(pos, game.MustParseCell(a.from), game.MustParseCell(a.to))
	return m, metrics.SearchMetric{}, nil
}

func serve(t *testing.T, fen string) (*gamemaster.Session, *client.Client) {
	t.Helper()
	start, err := game.FromFEN(fen)
	require.NoError(t, err, "Fixture should parse")
	session := gamemaster.NewSession(gamemaster.WithStartingPosition(start))
	srv := server.NewServer("")
	gm := gamemaster.NewGameMaster(session, srv)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		gm.Close()
	})
	return session, client.NewClient(ts.URL, ts.Client())
}

func TestPlayer(t *testing.T) {
	t.Run("returns once its move decides the game", func(t *testing.T) {
		session, c := serve(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
		p := NewPlayer(game.White, agent.NewCaptureHighestValue(true, 1), c, WithPollInterval(5*time.Millisecond))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, p.Play(ctx), "Player should stop after mating")
		winner, ok := game.Winner(session.Position())
		require.True(t, ok, "Game should be decided")
		require.Equal(t, game.White, winner, "White should have mated")
	})

	t.Run("completes its promotion and waits for the opponent", func(t *testing.T) {
		session, c := serve(t, "8/4P3/8/8/8/8/8/k6K w - - 0 1")
		p := NewPlayer(game.White, pawnPusher{from: "e7", to: "e8"}, c, WithPollInterval(5*time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- p.Play(ctx) }()

		require.Eventually(t, func() bool {
			return session.Position().At(game.MustParseCell("e8")).Type == game.Queen
		}, 5*time.Second, 5*time.Millisecond, "Pawn should be promoted to a queen")
		cancel()
		require.ErrorIs(t, <-done, context.Canceled, "Player should stop when cancelled")
		require.Len(t, session.State().PastActions, 2, "Player should not move for black")
	})

	t.Run("promotes before treating a blocked opponent as stalemate", func(t *testing.T) {
		// After a7a8 black has no move, but the queen on a8 mates
		session, c := serve(t, "7k/P4K2/5N2/8/8/8/8/8 w - - 0 1")
		p := NewPlayer(game.White, pawnPusher{from: "a7", to: "a8"}, c, WithPollInterval(5*time.Millisecond))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, p.Play(ctx), "Player should stop once the game is decided")
		require.Equal(t, game.Queen, session.Position().At(game.MustParseCell("a8")).Type, "Pawn should have been promoted")
		winner, ok := game.Winner(session.Position())
		require.True(t, ok, "Promotion should decide the game")
		require.Equal(t, game.White, winner, "White should have mated")
		require.False(t, game.IsStalemate(session.Position()), "Game should not end in stalemate")
	})
}
