package game

import (
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/require"
)

/*
move generation:
- starting position: 20 moves, no captures, nobody in check
- pins and king safety: moves exposing the own king are filtered
- castling: present when both pieces are unmoved, the path is clear and safe;
  absent otherwise; listed once per color
- perft against github.com/notnil/chess as an independent oracle
*/

func mustFEN(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := FromFEN(fen)
	require.NoError(t, err, "FEN fixture should parse")
	return pos
}

func play(t *testing.T, pos *Position, from, to string) *Position {
	t.Helper()
	m, ok := FindMove(pos, MustParseCell(from), MustParseCell(to))
	require.True(t, ok, "%s%s should be legal", from, to)
	next, err := Apply(pos, m)
	require.NoError(t, err, "legal move should apply")
	return next
}

func collect(pos *Position, color Color) []Move {
	var moves []Move
	for m := range LegalMoves(pos, color) {
		moves = append(moves, m)
	}
	return moves
}

func castles(moves []Move) []Move {
	var out []Move
	for _, m := range moves {
		if m.Kind == Castle {
			out = append(out, m)
		}
	}
	return out
}

func TestStartingPosition(t *testing.T) {
	pos := NewPosition()

	moves := collect(pos, White)
	require.Len(t, moves, 20, "White should have 16 pawn pushes and 4 knight moves")
	for _, m := range moves {
		require.NotEqual(t, Capture, m.Kind, "No capture should be available at the start")
	}
	require.Len(t, collect(pos, Black), 20, "Black should mirror white's moves")
	require.False(t, IsInCheck(pos, White), "White should not be in check")
	require.False(t, IsInCheck(pos, Black), "Black should not be in check")
	require.False(t, IsStalemate(pos), "Starting position is not a stalemate")
	_, ok := Winner(pos)
	require.False(t, ok, "Nobody has won yet")
}

func TestLegalMovesFrom(t *testing.T) {
	t.Run("pawn double push is only available before the pawn moves", func(t *testing.T) {
		pos := NewPosition()
		var targets []string
		for m := range LegalMovesFrom(pos, MustParseCell("e2")) {
			targets = append(targets, m.To.String())
		}
		require.ElementsMatch(t, []string{"e3", "e4"}, targets, "Unmoved pawn should push one or two cells")

		pos = play(t, play(t, pos, "e2", "e3"), "a7", "a6")
		targets = nil
		for m := range LegalMovesFrom(pos, MustParseCell("e3")) {
			targets = append(targets, m.To.String())
		}
		require.Equal(t, []string{"e4"}, targets, "Moved pawn should push a single cell")
	})

	t.Run("sliding piece stops at the first occupied cell", func(t *testing.T) {
		pos := mustFEN(t, "4k3/8/8/8/8/8/p7/R3K3 w - - 0 1")
		var captures, steps int
		for m := range LegalMovesFrom(pos, MustParseCell("a1")) {
			switch m.Kind {
			case Capture:
				captures++
				require.Equal(t, Pawn, m.Captured.Type, "Rook should capture the pawn")
			case Step:
				steps++
			}
		}
		require.Equal(t, 1, captures, "Rook should capture the pawn on a2 and stop there")
		require.Equal(t, 3, steps, "Rook should stop before its own king on e1")
	})

	t.Run("pinned piece has no moves", func(t *testing.T) {
		pos := mustFEN(t, "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1")
		for range LegalMovesFrom(pos, MustParseCell("e2")) {
			t.Fatal("Pinned bishop should not move")
		}
	})

	t.Run("king cannot step into check", func(t *testing.T) {
		pos := mustFEN(t, "4k3/8/8/8/8/8/3r4/4K3 w - - 0 1")
		var targets []string
		for m := range LegalMovesFrom(pos, MustParseCell("e1")) {
			targets = append(targets, m.To.String())
		}
		require.ElementsMatch(t, []string{"d2", "f1"}, targets, "King may only capture the rook or leave its lines")
	})

	t.Run("kings never stand next to each other", func(t *testing.T) {
		pos := mustFEN(t, "8/8/8/3k4/8/3K4/8/8 w - - 0 1")
		for m := range LegalMovesFrom(pos, MustParseCell("d3")) {
			require.NotEqual(t, 3, m.To.Rank, "King should not step onto rank 4 next to the enemy king")
		}
	})

	t.Run("empty cell has no moves", func(t *testing.T) {
		for range LegalMovesFrom(NewPosition(), MustParseCell("e4")) {
			t.Fatal("Empty cell should not produce moves")
		}
	})

	t.Run("enumeration stops early", func(t *testing.T) {
		count := 0
		for range LegalMoves(NewPosition(), White) {
			count++
			if count == 3 {
				break
			}
		}
		require.Equal(t, 3, count, "Iterator should honour break")
	})
}

func TestCastling(t *testing.T) {
	t.Run("available with unmoved pieces and a clear safe path", func(t *testing.T) {
		pos := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
		got := castles(collect(pos, White))
		require.Len(t, got, 2, "King should castle on both sides")
		require.ElementsMatch(t, []string{"e1h1", "e1a1"}, []string{got[0].String(), got[1].String()},
			"Castles should pair the king with each rook")
	})

	t.Run("offered from the rook as well", func(t *testing.T) {
		pos := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
		found := false
		for m := range LegalMovesFrom(pos, MustParseCell("h1")) {
			if m.Kind == Castle {
				found = true
				require.Equal(t, MustParseCell("e1"), m.To, "Rook should castle with the king")
			}
		}
		require.True(t, found, "Selecting the rook should offer the castle")
	})

	tests := []struct {
		name string
		fen  string
		want []string
	}{
		{"absent when the king has moved", "r3k2r/8/8/8/8/8/8/R3K2R w kq - 0 1", nil},
		{"absent when the rook has moved", "r3k2r/8/8/8/8/8/8/R3K2R w Qkq - 0 1", []string{"e1a1"}},
		{"absent when a piece stands between", "r3k2r/8/8/8/8/8/8/R3KB1R w KQkq - 0 1", []string{"e1a1"}},
		{"absent when the king is in check", "4k3/8/8/8/4r3/8/8/R3K2R w KQ - 0 1", nil},
		{"absent when the king passes an attacked cell", "4k3/8/8/8/5r2/8/8/R3K2R w KQ - 0 1", []string{"e1a1"}},
		{"absent when the king lands on an attacked cell", "4k3/8/8/8/6r1/8/8/R3K2R w KQ - 0 1", []string{"e1a1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustFEN(t, tt.fen)
			var got []string
			for _, m := range castles(collect(pos, White)) {
				got = append(got, m.String())
			}
			require.ElementsMatch(t, tt.want, got, "Unexpected castles")
		})
	}
}

func perft(pos *Position, depth int) int {
	if depth == 0 {
		return 1
	}
	n := 0
	for _, child := range Successors(pos) {
		n += perft(child, depth-1)
	}
	return n
}

func oraclePerft(pos *chess.Position, depth int) int {
	if depth == 0 {
		return 1
	}
	n := 0
	for _, m := range pos.ValidMoves() {
		n += oraclePerft(pos.Update(m), depth-1)
	}
	return n
}

// oracleMoveCount collapses promotions to one move per pawn push and drops en
// passant, which this engine does not play.
func oracleMoveCount(t *testing.T, fen string) int {
	opt, err := chess.FEN(fen)
	require.NoError(t, err, "Oracle should parse the fixture")
	seen := map[[2]chess.Square]bool{}
	for _, m := range chess.NewGame(opt).Position().ValidMoves() {
		if m.HasTag(chess.EnPassant) {
			continue
		}
		seen[[2]chess.Square{m.S1(), m.S2()}] = true
	}
	return len(seen)
}

func TestPerft(t *testing.T) {
	t.Run("starting position matches the oracle", func(t *testing.T) {
		oracle := chess.NewGame().Position()
		for depth, want := range []int{1, 20, 400, 8902} {
			got := perft(NewPosition(), depth)
			require.Equal(t, want, got, "Perft(%d) should match the known count", depth)
			require.Equal(t, oraclePerft(oracle, depth), got, "Perft(%d) should match the oracle", depth)
		}
	})

	fens := []string{
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	}
	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos := mustFEN(t, fen)
			require.Equal(t, oracleMoveCount(t, fen), len(collect(pos, pos.Turn())),
				"Legal move count should match the oracle")
		})
	}
}
