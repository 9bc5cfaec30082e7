package gamemaster

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"chessengine/communication"
	"chessengine/game"
	"chessengine/history"
	"chessengine/storage"

	"github.com/rs/zerolog/log"
)

var ErrGameOver = errors.New("game is over - no moves allowed")

type State = history.State[*game.Position, game.Move]

// Listener receives every state the session moves to, in order. Listeners may
// read the session but must not change it.
type Listener func(State)

type subscriber struct {
	id       int
	listener Listener
}

type Option func(s *Session)

// WithPersistence saves the session under key after every change.
func WithPersistence(provider storage.Provider, key string) Option {
	return func(s *Session) {
		s.provider, s.key = provider, key
	}
}

// WithResume starts from the persisted session, if there is one.
func WithResume() Option {
	return func(s *Session) {
		s.resume = true
	}
}

// WithStartingPosition replaces the standard starting position, which is
// also what Reset returns to.
func WithStartingPosition(pos *game.Position) Option {
	return func(s *Session) {
		if pos != nil {
			s.initial = pos
		}
	}
}

// Session is a live game: the rewindable position history, guarded for use
// by concurrent transports.
type Session struct {
	initial    *game.Position
	transition history.Transition[*game.Position, game.Move]
	provider   storage.Provider
	key        string
	resume     bool

	rewinder  *history.Rewinder[*game.Position, game.Move]
	state     State
	listeners []subscriber
	nextID    int
	mutex     sync.Mutex
	notifying sync.Mutex
}

func NewSession(options ...Option) *Session {
	s := &Session{ // Default values
		initial:    game.NewPosition(),
		transition: game.Apply,
	}
	for _, option := range options {
		option(s)
	}

	var opts []history.Option
	if s.provider != nil {
		opts = append(opts, history.WithPersistence(s.provider, s.key))
	}
	s.rewinder = history.New(s.initial, kingSafe(s.transition), opts...)
	if s.resume {
		s.state = s.rewinder.Resume()
	} else {
		s.state = s.rewinder.Initial()
	}
	return s
}

// kingSafe rejects a result that leaves the mover in check, so the move never
// reaches the history, its redo stack or storage. Apply already filters such
// moves.
func kingSafe(transition history.Transition[*game.Position, game.Move]) history.Transition[*game.Position, game.Move] {
	return func(pos *game.Position, m game.Move) (*game.Position, error) {
		next, err := transition(pos, m)
		if err != nil {
			return nil, err
		}
		if m.Kind != game.Promotion && game.IsInCheck(next, m.Piece.Color) {
			log.Error().Msgf("%s left %s in check, taking it back", m, m.Piece.Color)
			return nil, &game.IllegalMoveError{Move: m, Reason: "move leaves the king in check"}
		}
		return next, nil
	}
}

func (s *Session) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

func (s *Session) Position() *game.Position {
	return s.State().Current
}

// Play applies m for the side to move. Moves are rejected once the game is
// decided or stalemated; a pending promotion may still be completed.
func (s *Session) Play(m game.Move) error {
	s.mutex.Lock()
	if m.Kind != game.Promotion && game.IsTerminal(s.state.Current) {
		s.mutex.Unlock()
		return ErrGameOver
	}

	next, err := s.dispatch(history.Do(m))
	if err != nil {
		s.mutex.Unlock()
		return err
	}

	log.Debug().Msgf("played %s", m.Describe())
	s.commit(next)
	return nil
}

func (s *Session) Undo() error {
	return s.control(history.Undo)
}

func (s *Session) Redo() error {
	return s.control(history.Redo)
}

func (s *Session) Reset() error {
	return s.control(history.Reset)
}

func (s *Session) control(kind history.Kind) error {
	s.mutex.Lock()
	next, err := s.dispatch(history.Control[game.Move](kind))
	if err != nil {
		s.mutex.Unlock()
		return err
	}
	log.Debug().Msgf("session %s", kind)
	s.commit(next)
	return nil
}

// commit stores next and notifies listeners. It must be called with the
// session lock held and releases it; notifications keep the order of commits.
// A state equal to the current one, such as an undo with nothing to undo, is
// not announced.
func (s *Session) commit(next State) {
	if sameState(s.state, next) {
		s.mutex.Unlock()
		return
	}
	s.state = next
	s.notifying.Lock()
	defer s.notifying.Unlock()
	s.mutex.Unlock()
	s.notify(next)
}

// dispatch runs the rewinder on the current state. A broken invariant inside
// the engine is logged and reported as an error, leaving the last good state
// in place.
func (s *Session) dispatch(action history.Action[game.Move]) (next State, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var assertion *game.AssertionError
		if e, ok := r.(error); ok && errors.As(e, &assertion) {
			log.Error().Err(assertion).Msgf("%s failed, rolling back", action.Kind)
			next, err = s.state, assertion
			return
		}
		panic(r)
	}()
	return s.rewinder.Dispatch(s.state, action)
}

func sameState(a, b State) bool {
	return a.Current.Hash() == b.Current.Hash() &&
		len(a.PastActions) == len(b.PastActions) &&
		len(a.FutureActions) == len(b.FutureActions)
}

// Subscribe registers l for state changes and returns a function that
// removes it. Listeners are called in the order they subscribed.
func (s *Session) Subscribe(l Listener) (unsubscribe func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscriber{id: id, listener: l})
	return func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(sub subscriber) bool {
			return sub.id == id
		})
	}
}

func (s *Session) notify(state State) {
	s.mutex.Lock()
	listeners := slices.Clone(s.listeners)
	s.mutex.Unlock()

	for _, sub := range listeners {
		sub.listener(state)
	}
}

// Snapshot summarises a state for transports. A position waiting for a
// promotion is never reported as a stalemate.
func Snapshot(state State) communication.Snapshot {
	pos := state.Current
	snapshot := communication.Snapshot{
		Position:  pos,
		FEN:       pos.FEN(),
		Turn:      pos.Turn(),
		InCheck:   game.IsInCheck(pos, pos.Turn()),
		Stalemate: game.IsStalemate(pos),
		CanUndo:   state.CanUndo(),
		CanRedo:   state.CanRedo(),
	}
	if winner, ok := game.Winner(pos); ok {
		snapshot.Winner = &winner
	}
	if cell, ok := game.PendingPromotion(pos); ok {
		// The promotion may still mate or free the opponent
		snapshot.PendingPromotion = &cell
		snapshot.Stalemate = false
	}
	return snapshot
}

func (s *Session) String() string {
	state := s.State()
	return fmt.Sprintf("session(%d moves, %s to move, %016x)", len(state.PastActions), state.Current.Turn(), state.Current.Hash())
}
