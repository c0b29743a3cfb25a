// Package engine decides move legality for the pick-and-place variant.
// It knows per-piece geometry and path obstruction only: there is no check,
// castling, en passant or promotion.
package engine

import (
	"fmt"

	"pickchess/internal/board"
	"pickchess/internal/core"
)

// IsLegal reports whether a piece of type t and color c may move from
// `from` to `to` on b. It reads b and never mutates it.
func IsLegal(b *board.Board, from, to core.Square, t core.PieceType, c core.Color) bool {
	if b.IsOccupiedBy(to, c) {
		return false
	}

	dr := to.Row - from.Row
	dc := to.Col - from.Col
	if dr == 0 && dc == 0 {
		return false
	}

	switch t {
	case core.Pawn:
		return pawnLegal(b, from, to, c)
	case core.Rook:
		return rookLegal(b, from, to)
	case core.Knight:
		return knightLegal(dr, dc)
	case core.Bishop:
		return bishopLegal(b, from, to)
	case core.Queen:
		return rookLegal(b, from, to) || bishopLegal(b, from, to)
	case core.King:
		return abs(dr) <= 1 && abs(dc) <= 1
	default:
		return false
	}
}

// LegalTargets lists every square the piece on from may move to, row-major.
// An empty square yields nil.
func LegalTargets(b *board.Board, from core.Square) []core.Square {
	p := b.Get(from)
	if p == nil {
		return nil
	}
	var out []core.Square
	for row := 0; row < core.BoardSize; row++ {
		for col := 0; col < core.BoardSize; col++ {
			to := core.Square{Row: row, Col: col}
			if IsLegal(b, from, to, p.Type, p.Color) {
				out = append(out, to)
			}
		}
	}
	return out
}

// ValidateSquares reports the first off-board coordinate as an error
func ValidateSquares(squares ...core.Square) error {
	for _, s := range squares {
		if !s.Valid() {
			return fmt.Errorf("square (%d,%d): %w", s.Row, s.Col, core.ErrInvalidSquare)
		}
	}
	return nil
}

func pawnDirection(c core.Color) (dir, startRow int) {
	if c == core.ColorWhite {
		return 1, 1
	}
	return -1, 6
}

func pawnLegal(b *board.Board, from, to core.Square, c core.Color) bool {
	dir, startRow := pawnDirection(c)
	dr := to.Row - from.Row
	dc := to.Col - from.Col

	switch {
	case dc == 0 && dr == dir:
		return columnClear(b, from, to)
	case dc == 0 && dr == 2*dir && from.Row == startRow:
		return columnClear(b, from, to)
	case abs(dc) == 1 && dr == dir:
		return b.IsOccupiedBy(to, core.OppositeColor(c))
	default:
		return false
	}
}

// columnClear checks every square after from up to and including to.
// Pawns never capture forward, so the destination must be empty too.
func columnClear(b *board.Board, from, to core.Square) bool {
	step := sign(to.Row - from.Row)
	for row := from.Row + step; ; row += step {
		if b.Get(core.Square{Row: row, Col: from.Col}) != nil {
			return false
		}
		if row == to.Row {
			return true
		}
	}
}

func rookLegal(b *board.Board, from, to core.Square) bool {
	if (from.Row == to.Row) == (from.Col == to.Col) {
		return false
	}
	return pathClear(b, from, to)
}

func bishopLegal(b *board.Board, from, to core.Square) bool {
	dr := to.Row - from.Row
	dc := to.Col - from.Col
	if dr == 0 || abs(dr) != abs(dc) {
		return false
	}
	return pathClear(b, from, to)
}

func knightLegal(dr, dc int) bool {
	ar, ac := abs(dr), abs(dc)
	return (ar == 1 && ac == 2) || (ar == 2 && ac == 1)
}

// pathClear walks the straight or diagonal line between from and to,
// exclusive of both endpoints. Callers guarantee the squares are aligned.
func pathClear(b *board.Board, from, to core.Square) bool {
	dr := to.Row - from.Row
	dc := to.Col - from.Col
	if dr != 0 && dc != 0 && abs(dr) != abs(dc) {
		panic(fmt.Sprintf("engine: %s and %s are not aligned", from, to))
	}

	sr, sc := sign(dr), sign(dc)
	row, col := from.Row+sr, from.Col+sc
	for row != to.Row || col != to.Col {
		if b.Get(core.Square{Row: row, Col: col}) != nil {
			return false
		}
		row += sr
		col += sc
	}
	return true
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
