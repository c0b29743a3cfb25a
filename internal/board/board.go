package board

import (
	"fmt"
	"strings"

	"pickchess/internal/core"
)

// backRank is the piece order on rows 0 and 7, a-file first
var backRank = [core.BoardSize]core.PieceType{
	core.Rook, core.Knight, core.Bishop, core.Queen,
	core.King, core.Bishop, core.Knight, core.Rook,
}

// Board maps each square to at most one live piece. A piece present on the
// board is referenced from exactly one square and its Pos matches it.
type Board struct {
	squares [core.BoardSize][core.BoardSize]*core.Piece
}

// New returns an empty board
func New() *Board {
	return &Board{}
}

func mustValid(s core.Square) {
	if !s.Valid() {
		panic(&core.InvalidSquareError{Row: s.Row, Col: s.Col})
	}
}

// Get returns the piece on s, or nil. Panics on an off-board square.
func (b *Board) Get(s core.Square) *core.Piece {
	mustValid(s)
	return b.squares[s.Row][s.Col]
}

// Place puts p on s. A piece already standing elsewhere on this board is
// lifted from its old square first; any occupant of s is detached.
func (b *Board) Place(p *core.Piece, s core.Square) error {
	if !s.Valid() {
		return fmt.Errorf("place %s: %w", s, core.ErrInvalidSquare)
	}
	if p == nil {
		b.squares[s.Row][s.Col] = nil
		return nil
	}
	if p.Pos.Valid() && b.squares[p.Pos.Row][p.Pos.Col] == p {
		b.squares[p.Pos.Row][p.Pos.Col] = nil
	}
	b.squares[s.Row][s.Col] = p
	p.Pos = s
	return nil
}

// Clear detaches and returns the occupant of s, or nil if it was empty
func (b *Board) Clear(s core.Square) *core.Piece {
	mustValid(s)
	p := b.squares[s.Row][s.Col]
	b.squares[s.Row][s.Col] = nil
	return p
}

// Reset removes every piece
func (b *Board) Reset() {
	b.squares = [core.BoardSize][core.BoardSize]*core.Piece{}
}

// SetupStandardPosition clears the board and lays out both armies.
// Piece IDs run 0-15 for White and 16-31 for Black.
func (b *Board) SetupStandardPosition() {
	b.Reset()
	id := 0
	for _, side := range []struct {
		color     core.Color
		back, fwd int
	}{
		{core.ColorWhite, 0, 1},
		{core.ColorBlack, 7, 6},
	} {
		for col, t := range backRank {
			b.put(&core.Piece{ID: id, Type: t, Color: side.color}, core.Square{Row: side.back, Col: col})
			id++
		}
		for col := 0; col < core.BoardSize; col++ {
			b.put(&core.Piece{ID: id, Type: core.Pawn, Color: side.color}, core.Square{Row: side.fwd, Col: col})
			id++
		}
	}
}

func (b *Board) put(p *core.Piece, s core.Square) {
	p.Pos = s
	b.squares[s.Row][s.Col] = p
}

// IsOccupiedBy reports whether s holds a piece of color c
func (b *Board) IsOccupiedBy(s core.Square, c core.Color) bool {
	p := b.Get(s)
	return p != nil && p.Color == c
}

// FindKing returns the square of c's king
func (b *Board) FindKing(c core.Color) (core.Square, bool) {
	for row := range b.squares {
		for col, p := range b.squares[row] {
			if p != nil && p.Type == core.King && p.Color == c {
				return core.Square{Row: row, Col: col}, true
			}
		}
	}
	return core.Square{}, false
}

// Pieces lists live pieces in row-major order
func (b *Board) Pieces() []core.Piece {
	var out []core.Piece
	for row := range b.squares {
		for _, p := range b.squares[row] {
			if p != nil {
				out = append(out, *p)
			}
		}
	}
	return out
}

// Grid is a value copy of the board for renderers
type Grid [core.BoardSize][core.BoardSize]core.Piece

// Grid copies the board. Empty squares hold a zero Piece (NoPieceType).
func (b *Board) Grid() Grid {
	var g Grid
	for row := range b.squares {
		for col, p := range b.squares[row] {
			if p != nil {
				g[row][col] = *p
			}
		}
	}
	return g
}

// ToASCII creates an ASCII representation of the board, rank 8 on top
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for row := core.BoardSize - 1; row >= 0; row-- {
		sb.WriteString(fmt.Sprintf("%d ", row+1))
		for col := 0; col < core.BoardSize; col++ {
			if p := b.squares[row][col]; p != nil {
				sb.WriteString(fmt.Sprintf("%c ", p.Symbol()))
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", row+1))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
