package gamemaster

import (
	"chessengine/communication"

	"github.com/rs/zerolog/log"
)

// GameMaster relays a transport's moves and signals into a session and
// publishes every resulting state back through the transport.
type GameMaster struct {
	Session   *Session
	Transport communication.Transport
	detach    func()
}

func NewGameMaster(session *Session, transport communication.Transport) *GameMaster {
	gm := &GameMaster{
		Session:   session,
		Transport: transport,
	}
	transport.OnMoveReceived(session.Play)
	transport.OnSignal(gm.handleSignal)
	gm.detach = session.Subscribe(func(state State) {
		transport.Publish(Snapshot(state))
	})
	transport.Publish(Snapshot(session.State()))
	log.Info().Msgf("attached %s", session)
	return gm
}

func (gm *GameMaster) handleSignal(signal communication.Signal) error {
	switch signal {
	case communication.SignalUndo:
		return gm.Session.Undo()
	case communication.SignalRedo:
		return gm.Session.Redo()
	case communication.SignalReset:
		return gm.Session.Reset()
	}
	_, err := communication.ParseSignal(string(signal))
	return err
}

// Close stops publishing session changes.
func (gm *GameMaster) Close() {
	gm.detach()
}
