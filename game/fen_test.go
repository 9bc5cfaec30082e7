package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFEN(t *testing.T) {
	const start = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

	t.Run("starting position matches the factory", func(t *testing.T) {
		pos := mustFEN(t, start)
		require.Equal(t, NewPosition().Hash(), pos.Hash(), "Parsed start should equal NewPosition")
		require.Equal(t, start, NewPosition().FEN(), "Factory position should encode to the standard FEN")
	})

	t.Run("pawn moves survive a round trip", func(t *testing.T) {
		pos := play(t, play(t, NewPosition(), "e2", "e4"), "e7", "e5")
		decoded := mustFEN(t, pos.FEN())
		require.Equal(t, pos.Hash(), decoded.Hash(), "Round trip should keep placement and moved flags")
		require.Equal(t, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", pos.FEN(), "Unexpected FEN")
	})

	t.Run("castling rights decide the moved flags", func(t *testing.T) {
		pos := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R b Kq - 7 20")
		require.False(t, pos.At(MustParseCell("e1")).Moved, "White king keeps a right")
		require.False(t, pos.At(MustParseCell("h1")).Moved, "White h-rook keeps its right")
		require.True(t, pos.At(MustParseCell("a1")).Moved, "White a-rook lost its right")
		require.True(t, pos.At(MustParseCell("h8")).Moved, "Black h-rook lost its right")
		require.False(t, pos.At(MustParseCell("a8")).Moved, "Black a-rook keeps its right")
		require.Equal(t, Black, pos.Turn(), "Side to move should be read")
		require.Equal(t, 7, pos.HalfMoves(), "Half-move clock should be read")
		require.Equal(t, "Kq", pos.castlingRights(), "Rights should be derived back from the flags")
	})

	t.Run("invalid notation is rejected", func(t *testing.T) {
		_, err := FromFEN("not a position")
		require.Error(t, err, "Garbage should not parse")
	})
}
