// Package history wraps a pure transition function with undo, redo and reset.
// Every dispatch returns a new State and leaves its input untouched.
package history

import (
	"encoding/json"
	"fmt"
	"slices"

	"chessengine/storage"

	"github.com/rs/zerolog/log"
)

// State is the rewindable tuple. PastStates and PastActions always have the
// same length, as do FutureStates and FutureActions.
type State[S, A any] struct {
	PastActions   []A `json:"pastActions"`
	PastStates    []S `json:"pastStates"`
	Current       S   `json:"currentState"`
	FutureActions []A `json:"futureActions"`
	FutureStates  []S `json:"futureStates"`
}

func (s State[S, A]) CanUndo() bool {
	return len(s.PastStates) > 0
}

func (s State[S, A]) CanRedo() bool {
	return len(s.FutureStates) > 0
}

type Kind uint8

const (
	Perform Kind = iota
	Undo
	Redo
	Reset
)

func (k Kind) String() string {
	switch k {
	case Perform:
		return "perform"
	case Undo:
		return "undo"
	case Redo:
		return "redo"
	case Reset:
		return "reset"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Action is either a domain action (Perform) or one of the control actions,
// which carry no payload.
type Action[A any] struct {
	Kind    Kind
	Payload A
}

func Do[A any](payload A) Action[A] {
	return Action[A]{Kind: Perform, Payload: payload}
}

func Control[A any](kind Kind) Action[A] {
	return Action[A]{Kind: kind}
}

type Transition[S, A any] func(S, A) (S, error)

type Option func(r *options)

type options struct {
	provider storage.Provider
	key      string
}

// WithPersistence saves the full State under key after every successful
// dispatch and lets Resume load it back.
func WithPersistence(provider storage.Provider, key string) Option {
	return func(o *options) {
		if provider != nil && key != "" {
			o.provider = provider
			o.key = key
		}
	}
}

type Rewinder[S, A any] struct {
	initial    S
	transition Transition[S, A]
	options
}

func New[S, A any](initial S, transition Transition[S, A], opts ...Option) *Rewinder[S, A] {
	r := &Rewinder[S, A]{
		initial:    initial,
		transition: transition,
	}
	for _, option := range opts {
		option(&r.options)
	}
	return r
}

func (r *Rewinder[S, A]) Initial() State[S, A] {
	return State[S, A]{Current: r.initial}
}

// Resume loads the persisted State, falling back to Initial when nothing was
// saved or the saved value cannot be used.
func (r *Rewinder[S, A]) Resume() State[S, A] {
	if r.provider == nil {
		return r.Initial()
	}
	data, ok, err := r.provider.Load(r.key)
	if err != nil {
		log.Warn().Err(err).Msgf("failed to load %s, starting over", r.key)
		return r.Initial()
	}
	if !ok {
		return r.Initial()
	}
	var s State[S, A]
	if err := json.Unmarshal(data, &s); err != nil {
		log.Warn().Err(err).Msgf("failed to decode %s, starting over", r.key)
		return r.Initial()
	}
	if len(s.PastStates) != len(s.PastActions) || len(s.FutureStates) != len(s.FutureActions) {
		log.Warn().Msgf("stored %s has mismatched stacks, starting over", r.key)
		return r.Initial()
	}
	log.Info().Msgf("resumed %s with %d past and %d future actions", r.key, len(s.PastActions), len(s.FutureActions))
	return s
}

// Dispatch applies action to s. A failed transition returns the error and no
// new state; nothing is persisted in that case.
func (r *Rewinder[S, A]) Dispatch(s State[S, A], action Action[A]) (State[S, A], error) {
	var next State[S, A]
	switch action.Kind {
	case Perform:
		current, err := r.transition(s.Current, action.Payload)
		if err != nil {
			return s, err
		}
		next = State[S, A]{
			PastActions: append(slices.Clip(s.PastActions), action.Payload),
			PastStates:  append(slices.Clip(s.PastStates), s.Current),
			Current:     current,
		}
	case Undo:
		next = undo(s)
	case Redo:
		next = redo(s)
	case Reset:
		next = r.Initial()
	default:
		return s, fmt.Errorf("unknown action kind %s", action.Kind)
	}
	r.persist(next)
	return next, nil
}

func undo[S, A any](s State[S, A]) State[S, A] {
	n := len(s.PastStates)
	if n == 0 {
		return s
	}
	return State[S, A]{
		PastActions:   pop(s.PastActions),
		PastStates:    pop(s.PastStates),
		Current:       s.PastStates[n-1],
		FutureActions: append(slices.Clip(s.FutureActions), s.PastActions[n-1]),
		FutureStates:  append(slices.Clip(s.FutureStates), s.Current),
	}
}

func redo[S, A any](s State[S, A]) State[S, A] {
	n := len(s.FutureStates)
	if n == 0 {
		return s
	}
	return State[S, A]{
		PastActions:   append(slices.Clip(s.PastActions), s.FutureActions[n-1]),
		PastStates:    append(slices.Clip(s.PastStates), s.Current),
		Current:       s.FutureStates[n-1],
		FutureActions: pop(s.FutureActions),
		FutureStates:  pop(s.FutureStates),
	}
}

// pop drops the last element without touching the shared backing array.
func pop[T any](s []T) []T {
	if len(s) <= 1 {
		return nil
	}
	return slices.Clip(s[:len(s)-1])
}

func (r *Rewinder[S, A]) persist(s State[S, A]) {
	if r.provider == nil {
		return
	}
	data, err := json.Marshal(s)
	if err != nil {
		log.Error().Err(err).Msgf("failed to encode %s", r.key)
		return
	}
	if err := r.provider.Save(r.key, data); err != nil {
		log.Error().Err(err).Msgf("failed to save %s", r.key)
	}
}
