package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chessengine/communication"
	"chessengine/game"
	"chessengine/searcher/agent"

	"github.com/rs/zerolog/log"
)

// Remote is a game server as seen by a player.
type Remote interface {
	communication.Sender
	State(ctx context.Context) (communication.Snapshot, error)
}

type Option func(p *Player)

func WithPollInterval(interval time.Duration) Option {
	return func(p *Player) {
		if interval > 0 {
			p.pollInterval = interval
		}
	}
}

// Player lets an agent play one colour of a remote game.
type Player struct {
	Color        game.Color
	Agent        agent.Agent
	Remote       Remote
	pollInterval time.Duration
}

func NewPlayer(color game.Color, a agent.Agent, remote Remote, options ...Option) *Player {
	p := &Player{
		Color:        color,
		Agent:        a,
		Remote:       remote,
		pollInterval: 100 * time.Millisecond,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Play polls the remote game and moves whenever it is the player's turn. It
// returns nil once the game is decided or stalemated and the player has no
// promotion of its own left to complete.
func (p *Player) Play(ctx context.Context) error {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		snapshot, err := p.SyncGameState(ctx)
		if err != nil {
			return err
		}
		if (snapshot.Winner != nil || snapshot.Stalemate) && !p.ownsPromotion(snapshot) {
			log.Info().Msgf("%s player done: %s", p.Color, snapshot.FEN)
			return nil
		}

		err = p.TakeTurn(ctx, snapshot)
		if errors.Is(err, game.ErrIllegalMove) {
			// The game moved on between polling and sending
			log.Warn().Err(err).Msgf("%s player move rejected", p.Color)
		} else if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Player) SyncGameState(ctx context.Context) (communication.Snapshot, error) {
	snapshot, err := p.Remote.State(ctx)
	if err != nil {
		return snapshot, fmt.Errorf("failed to sync game state: %w", err)
	}
	return snapshot, nil
}

// TakeTurn sends the player's move if the snapshot is waiting for one. A
// pending promotion is completed by the pawn's owner with a queen before
// anything else happens.
func (p *Player) TakeTurn(ctx context.Context, snapshot communication.Snapshot) error {
	pos := snapshot.Position
	if cell := snapshot.PendingPromotion; cell != nil {
		if !p.ownsPromotion(snapshot) {
			return nil
		}
		return p.Remote.SendMove(ctx, game.PromotionMove(pos, *cell, game.Queen))
	}
	if snapshot.Turn != p.Color {
		return nil
	}

	m, _, err := p.Agent.FindMove(ctx, pos)
	if err != nil {
		return err
	}
	log.Debug().Msgf("%s player sends %s", p.Color, m)
	return p.Remote.SendMove(ctx, m)
}

func (p *Player) ownsPromotion(snapshot communication.Snapshot) bool {
	cell := snapshot.PendingPromotion
	return cell != nil && snapshot.Position.At(*cell).Color == p.Color
}
