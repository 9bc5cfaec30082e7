package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Goroutines int
	Depth      int
	Duration   time.Duration
	Nodes      int
	Searches   int
}

type MoveMetric struct {
	Step   int
	Player string // game.Color name
	Move   string
	SearchMetric
}

type GameMetric struct {
	White      string // AgentConfig.Name
	Black      string // AgentConfig.Name
	Winner     string // color name, "" for no winner
	Stalemate  bool
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
	WhiteScore int
	BlackScore int
}

// Collector gathers search statistics for one move. Counters are safe to
// update from parallel search workers.
type Collector interface {
	Start(goroutines, depth int)
	SetDepth(depth int)
	AddNodes(n int)
	AddSearch()
	Complete() SearchMetric
}

type collector struct {
	goroutines int
	startTime  time.Time
	depth      atomic.Int32
	nodes      atomic.Int64
	searches   atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, depth int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.depth.Store(int32(depth))
	m.nodes.Store(0)
	m.searches.Store(0)
}

func (m *collector) SetDepth(depth int) {
	m.depth.Store(int32(depth))
}

func (m *collector) AddNodes(n int) {
	m.nodes.Add(int64(n))
}

func (m *collector) AddSearch() {
	m.searches.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines: m.goroutines,
		Depth:      int(m.depth.Load()),
		Duration:   time.Since(m.startTime),
		Nodes:      int(m.nodes.Load()),
		Searches:   int(m.searches.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, depth int) {}
func (m *dummyCollector) SetDepth(depth int)          {}
func (m *dummyCollector) AddNodes(n int)              {}
func (m *dummyCollector) AddSearch()                  {}
func (m *dummyCollector) Complete() SearchMetric      { return SearchMetric{} }
