package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"chessengine/communication"
	"chessengine/game"

	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 16

// Server exposes a game session over HTTP:
//
//	GET  /state   latest published snapshot
//	POST /move    JSON move, answered with the new snapshot
//	POST /undo, /redo, /reset
type Server struct {
	onMove   func(game.Move) error
	onSignal func(communication.Signal) error
	snapshot []byte
	mutex    sync.RWMutex
	server   *http.Server
}

func NewServer(addr string) *Server {
	sc := &Server{}
	sc.server = &http.Server{
		Addr:              addr,
		Handler:           sc.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
	return sc
}

func (sc *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /state", sc.handleGetState)
	mux.HandleFunc("POST /move", sc.handleMove)
	for _, signal := range []communication.Signal{communication.SignalUndo, communication.SignalRedo, communication.SignalReset} {
		mux.HandleFunc("POST /"+string(signal), func(w http.ResponseWriter, r *http.Request) {
			sc.handleSignal(w, signal)
		})
	}
	return mux
}

// ListenAndServe blocks until the server is shut down.
func (sc *Server) ListenAndServe() error {
	log.Info().Msgf("serving game on %s", sc.server.Addr)
	err := sc.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (sc *Server) Shutdown(ctx context.Context) error {
	return sc.server.Shutdown(ctx)
}

func (sc *Server) OnMoveReceived(handler func(game.Move) error) {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	sc.onMove = handler
}

func (sc *Server) OnSignal(handler func(communication.Signal) error) {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	sc.onSignal = handler
}

func (sc *Server) Publish(snapshot communication.Snapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode snapshot")
		return
	}
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	sc.snapshot = data
}

func (sc *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	sc.writeSnapshot(w)
}

func (sc *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var m game.Move
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&m)
	if err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}

	sc.mutex.RLock()
	handler := sc.onMove
	sc.mutex.RUnlock()
	if handler == nil {
		http.Error(w, "no game attached", http.StatusServiceUnavailable)
		return
	}
	if err := handler(m); err != nil {
		log.Debug().Err(err).Msgf("rejected move %s", m)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	sc.writeSnapshot(w)
}

func (sc *Server) handleSignal(w http.ResponseWriter, signal communication.Signal) {
	sc.mutex.RLock()
	handler := sc.onSignal
	sc.mutex.RUnlock()
	if handler == nil {
		http.Error(w, "no game attached", http.StatusServiceUnavailable)
		return
	}
	if err := handler(signal); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	sc.writeSnapshot(w)
}

func (sc *Server) writeSnapshot(w http.ResponseWriter) {
	sc.mutex.RLock()
	data := sc.snapshot
	sc.mutex.RUnlock()
	if data == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		log.Debug().Err(err).Msg("failed to write snapshot")
	}
}

func statusFor(err error) int {
	var assertion *game.AssertionError
	switch {
	case errors.Is(err, game.ErrIllegalMove):
		return http.StatusUnprocessableEntity
	case errors.As(err, &assertion):
		return http.StatusInternalServerError
	default:
		return http.StatusConflict
	}
}

var _ communication.Transport = (*Server)(nil)
