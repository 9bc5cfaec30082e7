package searcher

import (
	"context"
	"iter"
	"math"
	"sync"

	"chessengine/experiments/metrics"
)

// Minimax searches the tree spanned by children. Nodes are never mutated, so a
// single Minimax may serve concurrent searches.
type Minimax[N, E any] struct {
	heuristic func(N) float64
	terminal  func(N) bool
	children  func(N) iter.Seq2[E, N]
	settings
}

func NewMinimax[N, E any](heuristic func(N) float64, terminal func(N) bool, children func(N) iter.Seq2[E, N], options ...Option) *Minimax[N, E] {
	m := &Minimax[N, E]{ // Default values
		heuristic: heuristic,
		terminal:  terminal,
		children:  children,
		settings: settings{
			goroutines: 1,
			metrics:    metrics.NewDummyCollector(),
		},
	}
	for _, option := range options {
		option(&m.settings)
	}
	return m
}

// Search evaluates node to the given depth, starting from the full window
// (-Inf, +Inf). The maximizing player picks the child with the greatest
// value, the other the least; ties keep the first child. A result without an
// edge means the root was not expanded and the caller must choose a move some
// other way.
//
// Search stops with ctx.Err() once ctx is done.
func (m *Minimax[N, E]) Search(ctx context.Context, node N, depth int, maximizing bool) (Result[E], error) {
	if m.goroutines > 1 && depth > 0 && !m.terminal(node) {
		return m.record(m.parallel(ctx, node, depth, maximizing))
	}
	return m.SearchWindow(ctx, node, depth, maximizing, math.Inf(-1), math.Inf(1))
}

// SearchWindow is Search with the root's window (alpha, beta) given by the
// caller. A value at or below alpha, or at or above beta, is only a bound on
// the true value. Without WithAlphaBeta the window is ignored. The root is
// always searched sequentially.
func (m *Minimax[N, E]) SearchWindow(ctx context.Context, node N, depth int, maximizing bool, alpha, beta float64) (Result[E], error) {
	return m.record(m.minimax(ctx, node, depth, maximizing, alpha, beta))
}

func (m *Minimax[N, E]) record(result Result[E], err error) (Result[E], error) {
	if err != nil {
		return Result[E]{}, err
	}
	m.metrics.AddSearch()
	m.metrics.AddNodes(result.NodesExplored)
	return result, nil
}

func (m *Minimax[N, E]) leaf(node N) Result[E] {
	return Result[E]{Value: m.heuristic(node), NodesExplored: 1}
}

func (m *Minimax[N, E]) minimax(ctx context.Context, node N, depth int, maximizing bool, alpha, beta float64) (Result[E], error) {
	if depth <= 0 || m.terminal(node) {
		return m.leaf(node), nil
	}
	if err := ctx.Err(); err != nil {
		return Result[E]{}, err
	}

	best := Result[E]{Value: worstValue(maximizing)}
	nodes := 0
	for edge, child := range m.children(node) {
		r, err := m.minimax(ctx, child, depth-1, !maximizing, alpha, beta)
		if err != nil {
			return Result[E]{}, err
		}
		nodes += r.NodesExplored
		if !best.HasEdge || isNewExtreme(maximizing, r.Value, best.Value) {
			best.Value, best.Edge, best.HasEdge = r.Value, edge, true
		}
		if m.alphaBeta {
			if maximizing {
				alpha = max(alpha, best.Value)
			} else {
				beta = min(beta, best.Value)
			}
			if alpha >= beta {
				break
			}
		}
	}
	if !best.HasEdge {
		// Childless but not terminal: score it like a leaf.
		return m.leaf(node), nil
	}
	best.NodesExplored = nodes
	return best, nil
}

// parallel fans the root's children out to a worker pool. Each subtree is
// searched with a full window, so the result equals a sequential search.
func (m *Minimax[N, E]) parallel(ctx context.Context, node N, depth int, maximizing bool) (Result[E], error) {
	type branch struct {
		edge  E
		child N
	}
	var branches []branch
	for edge, child := range m.children(node) {
		branches = append(branches, branch{edge: edge, child: child})
	}
	if len(branches) == 0 {
		return m.leaf(node), nil
	}

	results := make([]Result[E], len(branches))
	errs := make([]error, len(branches))
	task := make(chan int, len(branches))
	for i := range branches {
		task <- i
	}
	close(task)

	var wg sync.WaitGroup
	for range min(m.goroutines, len(branches)) {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := range task {
				results[i], errs[i] = m.minimax(ctx, branches[i].child, depth-1, !maximizing, math.Inf(-1), math.Inf(1))
			}
		}()
	}
	wg.Wait()

	best := Result[E]{Value: worstValue(maximizing)}
	for i, r := range results {
		if errs[i] != nil {
			return Result[E]{}, errs[i]
		}
		best.NodesExplored += r.NodesExplored
		if !best.HasEdge || isNewExtreme(maximizing, r.Value, best.Value) {
			best.Value, best.Edge, best.HasEdge = r.Value, branches[i].edge, true
		}
	}
	return best, nil
}
