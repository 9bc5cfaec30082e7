package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("counts nodes from concurrent workers", func(t *testing.T) {
		c := NewCollector()
		c.Start(4, 3)

		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 100 {
					c.AddNodes(2)
				}
				c.AddSearch()
			}()
		}
		wg.Wait()

		metric := c.Complete()
		require.Equal(t, 800, metric.Nodes, "Every node should be counted")
		require.Equal(t, 4, metric.Searches, "Every search should be counted")
		require.Equal(t, 4, metric.Goroutines, "Goroutines should be recorded")
		require.Equal(t, 3, metric.Depth, "Depth should be recorded")
	})

	t.Run("start resets the counters", func(t *testing.T) {
		c := NewCollector()
		c.Start(1, 2)
		c.AddNodes(10)
		c.Start(1, 2)
		c.SetDepth(5)
		require.Equal(t, 0, c.Complete().Nodes, "Counters should restart with each move")
		require.Equal(t, 5, c.Complete().Depth, "Depth should follow the deepest completed search")
	})

	t.Run("dummy collector records nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(1, 2)
		c.AddNodes(10)
		require.Equal(t, SearchMetric{}, c.Complete(), "Dummy collector should stay empty")
	})
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "playoff")
	require.NoError(t, err, "Writer should create its directory")

	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	err = w.WriteGameRecords([]GameRecord{{
		ID:     1,
		Agent1: 1,
		Agent2: 2,
		GameMetric: GameMetric{
			White: "random", Black: "minimax", Winner: "black",
			StartTime: start, EndTime: start.Add(time.Second), Duration: time.Second,
			TotalMoves: 12, WhiteScore: -48, BlackScore: 53,
		},
	}})
	require.NoError(t, err, "Game records should be written")

	f, err := os.Open(filepath.Join(w.Dir(), "game_records.csv"))
	require.NoError(t, err, "Game records file should exist")
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err, "Game records should be valid CSV")
	require.Len(t, rows, 2, "Header plus one record")
	require.Equal(t, []string{"1", "1", "2", "random", "minimax", "black", "false", "12", "-48", "53",
		"2024-01-02T03:04:05Z", "2024-01-02T03:04:06Z", "1s"}, rows[1], "Record should be flattened in header order")

	require.NoError(t, w.WriteStandings([]StandingRecord{{Agent: 2, Name: "minimax", Wins: 1, Score: 53}}),
		"Standings should be written")
	_, err = os.Stat(filepath.Join(w.Dir(), "standings.csv"))
	require.NoError(t, err, "Standings file should exist")
}
