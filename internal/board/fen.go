package board

import (
	"fmt"

	nchess "github.com/corentings/chess/v2"

	"pickchess/internal/core"
)

// StandardPlacement is the FEN piece-placement field of the opening position
const StandardPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

var (
	toLibType = map[core.PieceType]nchess.PieceType{
		core.Pawn:   nchess.Pawn,
		core.Rook:   nchess.Rook,
		core.Knight: nchess.Knight,
		core.Bishop: nchess.Bishop,
		core.Queen:  nchess.Queen,
		core.King:   nchess.King,
	}
	fromLibType = map[nchess.PieceType]core.PieceType{
		nchess.Pawn:   core.Pawn,
		nchess.Rook:   core.Rook,
		nchess.Knight: core.Knight,
		nchess.Bishop: core.Bishop,
		nchess.Queen:  core.Queen,
		nchess.King:   core.King,
	}
)

func libSquare(s core.Square) nchess.Square {
	return nchess.NewSquare(nchess.File(s.Col), nchess.Rank(s.Row))
}

func libColor(c core.Color) nchess.Color {
	if c == core.ColorWhite {
		return nchess.White
	}
	return nchess.Black
}

// Placement encodes the board as a FEN piece-placement field
func (b *Board) Placement() string {
	m := make(map[nchess.Square]nchess.Piece)
	for _, p := range b.Pieces() {
		m[libSquare(p.Pos)] = nchess.NewPiece(toLibType[p.Type], libColor(p.Color))
	}
	return nchess.NewBoard(m).String()
}

// ParsePlacement builds a board from a FEN piece-placement field. Only the
// placement is read; side to move and castling data are not part of it.
// IDs are assigned in row-major order.
func ParsePlacement(placement string) (*Board, error) {
	opt, err := nchess.FEN(placement + " w - - 0 1")
	if err != nil {
		return nil, fmt.Errorf("invalid placement %q: %w", placement, err)
	}
	squares := nchess.NewGame(opt).Position().Board().SquareMap()

	b := New()
	id := 0
	for row := 0; row < core.BoardSize; row++ {
		for col := 0; col < core.BoardSize; col++ {
			s := core.Square{Row: row, Col: col}
			lp, ok := squares[libSquare(s)]
			if !ok || lp == nchess.NoPiece {
				continue
			}
			c := core.ColorBlack
			if lp.Color() == nchess.White {
				c = core.ColorWhite
			}
			b.put(&core.Piece{ID: id, Type: fromLibType[lp.Type()], Color: c}, s)
			id++
		}
	}
	return b, nil
}
