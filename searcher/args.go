package searcher

import (
	"chessengine/experiments/metrics"
)

type settings struct {
	alphaBeta  bool
	goroutines int
	metrics    metrics.Collector
}

type Option func(s *settings)

// WithAlphaBeta prunes siblings once the alpha-beta window closes.
func WithAlphaBeta() Option {
	return func(s *settings) {
		s.alphaBeta = true
	}
}

// WithGoroutines evaluates the root's children on a pool of workers.
func WithGoroutines(goroutines int) Option {
	return func(s *settings) {
		if goroutines > 0 {
			s.goroutines = goroutines
		}
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(s *settings) {
		if collector != nil {
			s.metrics = collector
		}
	}
}
