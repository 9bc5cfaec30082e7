package agent

import (
	"context"
	"errors"

	"chessengine/experiments/metrics"
	"chessengine/game"
)

var ErrNoLegalMoves = errors.New("no legal moves")

type Agent interface {
	// FindMove returns a legal move for the side to move and the metrics
	// collected while searching for it (zero when nothing was measured)
	FindMove(ctx context.Context, pos *game.Position) (game.Move, metrics.SearchMetric, error)
}
