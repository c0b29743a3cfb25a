package board

import (
	"errors"
	"testing"

	"pickchess/internal/core"
)

func sq(row, col int) core.Square { return core.Square{Row: row, Col: col} }

func TestSetupStandardPosition(t *testing.T) {
	b := New()
	b.SetupStandardPosition()

	tests := []struct {
		square core.Square
		typ    core.PieceType
		color  core.Color
	}{
		{sq(0, 0), core.Rook, core.ColorWhite},
		{sq(0, 1), core.Knight, core.ColorWhite},
		{sq(0, 2), core.Bishop, core.ColorWhite},
		{sq(0, 3), core.Queen, core.ColorWhite},
		{sq(0, 4), core.King, core.ColorWhite},
		{sq(0, 7), core.Rook, core.ColorWhite},
		{sq(1, 5), core.Pawn, core.ColorWhite},
		{sq(6, 2), core.Pawn, core.ColorBlack},
		{sq(7, 3), core.Queen, core.ColorBlack},
		{sq(7, 4), core.King, core.ColorBlack},
		{sq(7, 6), core.Knight, core.ColorBlack},
	}
	for _, tt := range tests {
		p := b.Get(tt.square)
		if p == nil {
			t.Fatalf("%s: empty, want %s %s", tt.square, tt.color.Name(), tt.typ)
		}
		if p.Type != tt.typ || p.Color != tt.color {
			t.Errorf("%s: got %s %s, want %s %s", tt.square, p.Color.Name(), p.Type, tt.color.Name(), tt.typ)
		}
		if p.Pos != tt.square {
			t.Errorf("%s: piece reports position %s", tt.square, p.Pos)
		}
	}

	for row := 2; row <= 5; row++ {
		for col := 0; col < core.BoardSize; col++ {
			if b.Get(sq(row, col)) != nil {
				t.Errorf("%s should be empty", sq(row, col))
			}
		}
	}

	if n := len(b.Pieces()); n != 32 {
		t.Errorf("got %d pieces, want 32", n)
	}
}

func TestSetupClearsPreviousPieces(t *testing.T) {
	b := New()
	if err := b.Place(&core.Piece{Type: core.Queen, Color: core.ColorBlack}, sq(4, 4)); err != nil {
		t.Fatalf("Place: %v", err)
	}
	b.SetupStandardPosition()
	if b.Get(sq(4, 4)) != nil {
		t.Fatal("setup left a stray piece on e5")
	}
}

func TestPlaceMovesLivePiece(t *testing.T) {
	b := New()
	rook := &core.Piece{Type: core.Rook, Color: core.ColorWhite}
	if err := b.Place(rook, sq(0, 0)); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if err := b.Place(rook, sq(0, 5)); err != nil {
		t.Fatalf("Place: %v", err)
	}

	if b.Get(sq(0, 0)) != nil {
		t.Error("old square still holds the rook")
	}
	if b.Get(sq(0, 5)) != rook {
		t.Error("rook not on new square")
	}
	if rook.Pos != sq(0, 5) {
		t.Errorf("rook position = %s", rook.Pos)
	}
	if n := len(b.Pieces()); n != 1 {
		t.Errorf("got %d pieces, want 1", n)
	}
}

func TestPlaceInvalidSquare(t *testing.T) {
	b := New()
	for _, s := range []core.Square{sq(-1, 0), sq(0, 8), sq(8, 8), sq(3, -2)} {
		err := b.Place(&core.Piece{Type: core.Pawn, Color: core.ColorWhite}, s)
		if !errors.Is(err, core.ErrInvalidSquare) {
			t.Errorf("Place(%v) error = %v, want ErrInvalidSquare", s, err)
		}
	}
}

func TestGetInvalidSquarePanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, core.ErrInvalidSquare) {
			t.Fatalf("recovered %v, want InvalidSquareError", r)
		}
	}()
	New().Get(sq(8, 0))
}

func TestClear(t *testing.T) {
	b := New()
	b.SetupStandardPosition()

	p := b.Clear(sq(0, 3))
	if p == nil || p.Type != core.Queen {
		t.Fatalf("Clear returned %v, want white queen", p)
	}
	if b.Get(sq(0, 3)) != nil {
		t.Error("square not emptied")
	}
	if b.Clear(sq(4, 4)) != nil {
		t.Error("clearing an empty square returned a piece")
	}
}

func TestIsOccupiedByAndFindKing(t *testing.T) {
	b := New()
	b.SetupStandardPosition()

	if !b.IsOccupiedBy(sq(1, 0), core.ColorWhite) {
		t.Error("a2 should hold a white piece")
	}
	if b.IsOccupiedBy(sq(1, 0), core.ColorBlack) {
		t.Error("a2 should not hold a black piece")
	}
	if b.IsOccupiedBy(sq(3, 3), core.ColorWhite) {
		t.Error("d4 should be empty")
	}

	if s, ok := b.FindKing(core.ColorBlack); !ok || s != sq(7, 4) {
		t.Errorf("FindKing(black) = %s, %v", s, ok)
	}
	b.Clear(sq(7, 4))
	if _, ok := b.FindKing(core.ColorBlack); ok {
		t.Error("found a black king after removing it")
	}
}

func TestUniqueOccupancy(t *testing.T) {
	b := New()
	b.SetupStandardPosition()
	seen := make(map[*core.Piece]core.Square)
	for row := 0; row < core.BoardSize; row++ {
		for col := 0; col < core.BoardSize; col++ {
			p := b.Get(sq(row, col))
			if p == nil {
				continue
			}
			if prev, dup := seen[p]; dup {
				t.Fatalf("piece on both %s and %s", prev, sq(row, col))
			}
			seen[p] = sq(row, col)
		}
	}
}

func TestToASCII(t *testing.T) {
	b := New()
	b.SetupStandardPosition()
	want := "  a b c d e f g h\n" +
		"8 r n b q k b n r  8\n" +
		"7 p p p p p p p p  7\n" +
		"6 . . . . . . . .  6\n" +
		"5 . . . . . . . .  5\n" +
		"4 . . . . . . . .  4\n" +
		"3 . . . . . . . .  3\n" +
		"2 P P P P P P P P  2\n" +
		"1 R N B Q K B N R  1\n" +
		"  a b c d e f g h"
	if got := b.ToASCII(); got != want {
		t.Errorf("ToASCII:\n%s\nwant:\n%s", got, want)
	}
}

func TestPlacement(t *testing.T) {
	b := New()
	b.SetupStandardPosition()
	if got := b.Placement(); got != StandardPlacement {
		t.Errorf("Placement() = %q, want %q", got, StandardPlacement)
	}
}

func TestParsePlacement(t *testing.T) {
	b, err := ParsePlacement("4k3/8/8/3q4/8/8/8/R3K3")
	if err != nil {
		t.Fatalf("ParsePlacement: %v", err)
	}
	if p := b.Get(sq(4, 3)); p == nil || p.Type != core.Queen || p.Color != core.ColorBlack {
		t.Errorf("d5 = %v, want black queen", p)
	}
	if p := b.Get(sq(0, 0)); p == nil || p.Type != core.Rook || p.Color != core.ColorWhite {
		t.Errorf("a1 = %v, want white rook", p)
	}
	if n := len(b.Pieces()); n != 4 {
		t.Errorf("got %d pieces, want 4", n)
	}
	if got := b.Placement(); got != "4k3/8/8/3q4/8/8/8/R3K3" {
		t.Errorf("Placement() = %q", got)
	}

	if _, err := ParsePlacement("not/a/board"); err == nil {
		t.Error("expected error for malformed placement")
	}
}
