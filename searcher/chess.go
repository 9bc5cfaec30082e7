package searcher

import (
	"context"
	"iter"

	"chessengine/game"
)

type ChessMinimax = Minimax[*game.Position, game.Move]

// NewChess searches chess positions: white maximizes, black minimizes, and
// terminal positions are stalemates or decided games.
func NewChess(evaluate game.Evaluate, options ...Option) *ChessMinimax {
	return NewMinimax[*game.Position, game.Move](evaluate, game.IsTerminal, chessChildren, options...)
}

// SearchPosition searches for the side to move.
func SearchPosition(ctx context.Context, m *ChessMinimax, pos *game.Position, depth int) (Result[game.Move], error) {
	return m.Search(ctx, pos, depth, pos.Turn() == game.White)
}

// chessChildren promotes pawns reaching the far rank to queens, as the
// automated players do.
func chessChildren(pos *game.Position) iter.Seq2[game.Move, *game.Position] {
	return func(yield func(game.Move, *game.Position) bool) {
		for m, child := range game.Successors(pos) {
			if m.Piece.Type == game.Pawn {
				if cell, ok := game.PendingPromotion(child); ok {
					if promoted, err := game.Apply(child, game.PromotionMove(child, cell, game.Queen)); err == nil {
						child = promoted
					}
				}
			}
			if !yield(m, child) {
				return
			}
		}
	}
}
