package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"chessengine/communication/client"
	"chessengine/communication/server"
	"chessengine/engine"
	"chessengine/experiments"
	"chessengine/experiments/metrics"
	"chessengine/game"
	"chessengine/gamemaster"
	"chessengine/meta"
	"chessengine/player"
	"chessengine/storage"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	mode := flag.String("mode", "playoff", "What to run: playoff, throughput, serve or play")
	games := flag.Int("games", meta.GAMES_PER_PAIRING, "Games per ordered pairing")
	maxMoves := flag.Int("max-moves", meta.MAX_MOVES, "Moves after which a self-play game is called")
	out := flag.String("out", "results", "Directory for experiment CSV files, empty to skip writing")
	goroutines := flag.String("goroutines", "1,2,4,8", "Worker counts for the throughput experiment")
	duration := flag.Duration("duration", 50*time.Millisecond, "Search time per move for the throughput experiment")
	addr := flag.String("addr", envOr("CHESS_ADDR", ":"+strconv.Itoa(meta.PORT)), "Address the game server listens on")
	stateDir := flag.String("state-dir", os.Getenv("CHESS_STATE_DIR"), "Directory to persist the served game in, empty to keep it in memory")
	resume := flag.Bool("resume", false, "Resume the persisted game instead of starting a new one")
	serverURL := flag.String("server", "http://localhost:"+strconv.Itoa(meta.PORT), "Game server to join in play mode")
	color := flag.String("color", "black", "Colour to play in play mode")
	kind := flag.String("agent", experiments.KindMinimax, "Agent kind to play with in play mode")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "playoff":
		_, err = experiments.RunPlayoff(ctx, *out, experiments.PlayoffEntrants, *games, engine.WithMaxMoves(*maxMoves))
	case "throughput":
		var counts []int
		counts, err = parseInts(*goroutines)
		if err == nil {
			_, err = experiments.RunThroughputExperiment(ctx, *out, counts, *duration, *games, engine.WithMaxMoves(*maxMoves))
		}
	case "serve":
		err = serve(ctx, *addr, *stateDir, *resume)
	case "play":
		err = play(ctx, *serverURL, *color, *kind)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

func serve(ctx context.Context, addr, stateDir string, resume bool) error {
	options := []gamemaster.Option{}
	if stateDir != "" {
		provider, err := storage.NewFile(stateDir)
		if err != nil {
			return err
		}
		options = append(options, gamemaster.WithPersistence(provider, meta.STATE_KEY))
		if resume {
			options = append(options, gamemaster.WithResume())
		}
	}
	session := gamemaster.NewSession(options...)
	srv := server.NewServer(addr)
	gm := gamemaster.NewGameMaster(session, srv)
	defer gm.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func play(ctx context.Context, serverURL, color, kind string) error {
	var c game.Color
	if err := c.UnmarshalText([]byte(color)); err != nil {
		return err
	}
	a, err := experiments.NewAgent(metrics.AgentConfig{Kind: kind, PrioritizeCheck: true, PieceSquares: true}, uint64(time.Now().UnixNano()))
	if err != nil {
		return err
	}
	p := player.NewPlayer(c, a, client.NewClient(serverURL, nil))
	return p.Play(ctx)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func parseInts(s string) ([]int, error) {
	var values []int
	for _, field := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid worker count %q", field)
		}
		values = append(values, n)
	}
	return values, nil
}
