package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"
)

// FromFEN builds a position from Forsyth-Edwards Notation. Moved flags are
// inferred: pawns off their starting rank have moved, and kings and rooks
// have moved unless a castling right keeps them in place. En passant targets
// are ignored.
func FromFEN(fen string) (*Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	g := chess.NewGame(opt)
	src := g.Position()

	var grid [BoardSize][BoardSize]Piece
	for sq, p := range src.Board().SquareMap() {
		piece := Piece{Type: fromChessType(p.Type()), Color: fromChessColor(p.Color())}
		if piece.IsEmpty() {
			continue
		}
		grid[int(sq.Rank())][int(sq.File())] = piece
	}

	rights := src.CastleRights()
	for _, color := range Colors {
		c := toChessColor(color)
		kingSide, queenSide := rights.CanCastle(c, chess.KingSide), rights.CanCastle(c, chess.QueenSide)
		back := color.backRank()
		for file := range BoardSize {
			for rank := range BoardSize {
				p := &grid[rank][file]
				if p.IsEmpty() || p.Color != color {
					continue
				}
				switch p.Type {
				case Pawn:
					p.Moved = rank != color.pawnRank()
				case King:
					p.Moved = rank != back || file != 4 || !(kingSide || queenSide)
				case Rook:
					home := rank == back && ((file == 7 && kingSide) || (file == 0 && queenSide))
					p.Moved = !home
				}
			}
		}
	}

	turn := White
	if src.Turn() == chess.Black {
		turn = Black
	}
	pos, err := PositionFromGrid(grid, turn)
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	if fields := strings.Fields(fen); len(fields) >= 5 {
		if n, err := strconv.Atoi(fields[4]); err == nil && n >= 0 {
			pos.halfMoves = n
		}
	}
	return pos, nil
}

// FEN encodes the position. Castling rights are derived from the moved flags
// of kings and rooks on their home squares.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := BoardSize - 1; rank >= 0; rank-- {
		empty := 0
		for file := range BoardSize {
			piece := p.board[rank][file]
			if piece.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(piece.Symbol())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	turn := "w"
	if p.turn == Black {
		turn = "b"
	}
	fullMoves := len(p.history)/2 + 1
	return fmt.Sprintf("%s %s %s - %d %d", sb.String(), turn, p.castlingRights(), p.halfMoves, fullMoves)
}

func (p *Position) castlingRights() string {
	var rights []byte
	for _, color := range Colors {
		back := color.backRank()
		king := p.board[back][4]
		if king.Type != King || king.Color != color || king.Moved {
			continue
		}
		for _, side := range []struct {
			file   int
			symbol byte
		}{{7, 'k'}, {0, 'q'}} {
			rook := p.board[back][side.file]
			if rook.Type == Rook && rook.Color == color && !rook.Moved {
				s := side.symbol
				if color == White {
					s -= 'a' - 'A'
				}
				rights = append(rights, s)
			}
		}
	}
	if len(rights) == 0 {
		return "-"
	}
	return string(rights)
}

func fromChessColor(c chess.Color) Color {
	if c == chess.Black {
		return Black
	}
	return White
}

func toChessColor(c Color) chess.Color {
	if c == Black {
		return chess.Black
	}
	return chess.White
}

func fromChessType(t chess.PieceType) PieceType {
	switch t {
	case chess.Pawn:
		return Pawn
	case chess.Knight:
		return Knight
	case chess.Bishop:
		return Bishop
	case chess.Rook:
		return Rook
	case chess.Queen:
		return Queen
	case chess.King:
		return King
	}
	return NoPiece
}
