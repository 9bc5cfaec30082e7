package communication

import (
	"context"
	"fmt"

	"chessengine/game"
)

// Signal is a control request relayed alongside moves.
type Signal string

const (
	SignalUndo  Signal = "undo"
	SignalRedo  Signal = "redo"
	SignalReset Signal = "reset"
)

func ParseSignal(s string) (Signal, error) {
	switch Signal(s) {
	case SignalUndo, SignalRedo, SignalReset:
		return Signal(s), nil
	}
	return "", fmt.Errorf("unknown signal %q", s)
}

// Snapshot is the published view of a game session.
type Snapshot struct {
	Position         *game.Position `json:"position"`
	FEN              string         `json:"fen"`
	Turn             game.Color     `json:"turn"`
	InCheck          bool           `json:"inCheck"`
	Winner           *game.Color    `json:"winner,omitempty"`
	Stalemate        bool           `json:"stalemate"`
	PendingPromotion *game.Cell     `json:"pendingPromotion,omitempty"`
	CanUndo          bool           `json:"canUndo"`
	CanRedo          bool           `json:"canRedo"`
}

// Transport delivers moves and signals from remote players to a session and
// publishes the session's state back to them.
type Transport interface {
	OnMoveReceived(handler func(game.Move) error)
	OnSignal(handler func(Signal) error)
	Publish(snapshot Snapshot)
}

// Sender is the remote player's side of a Transport.
type Sender interface {
	SendMove(ctx context.Context, m game.Move) error
	SendSignal(ctx context.Context, signal Signal) error
}
