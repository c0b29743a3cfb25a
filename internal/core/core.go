package core

import (
	"fmt"
	"strings"
)

// BoardSize is the number of rows and columns on the board
const BoardSize = 8

type Color byte

const (
	ColorNone  Color = 0
	ColorWhite Color = 'w'
	ColorBlack Color = 'b'
)

// String returns the wire form of the color ("w", "b" or "")
func (c Color) String() string {
	if c == ColorNone {
		return ""
	}
	return string(c)
}

// Name returns the display name used by front-ends
func (c Color) Name() string {
	switch c {
	case ColorWhite:
		return "White"
	case ColorBlack:
		return "Black"
	default:
		return "None"
	}
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

type PieceType int

const (
	NoPieceType PieceType = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

func (t PieceType) String() string {
	switch t {
	case Pawn:
		return "pawn"
	case Rook:
		return "rook"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// Symbol returns the lowercase FEN letter for the type
func (t PieceType) Symbol() byte {
	switch t {
	case Pawn:
		return 'p'
	case Rook:
		return 'r'
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Queen:
		return 'q'
	case King:
		return 'k'
	default:
		return '.'
	}
}

// PieceTypeFromSymbol maps a FEN letter of either case to its type
func PieceTypeFromSymbol(r byte) PieceType {
	switch r | 0x20 {
	case 'p':
		return Pawn
	case 'r':
		return Rook
	case 'n':
		return Knight
	case 'b':
		return Bishop
	case 'q':
		return Queen
	case 'k':
		return King
	default:
		return NoPieceType
	}
}

// Phase is the lifecycle stage of a game
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseActive
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	default:
		return "not_started"
	}
}

// Square addresses a board cell. Row 0 is White's back rank, Col 0 is the a-file.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Valid reports whether both coordinates are on the board
func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < BoardSize && s.Col >= 0 && s.Col < BoardSize
}

// String returns the algebraic name of the square, e.g. "e2"
func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return string([]byte{byte('a' + s.Col), byte('1' + s.Row)})
}

// ParseSquare accepts algebraic notation ("e2")
func ParseSquare(s string) (Square, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return Square{Row: int(s[1] - '1'), Col: int(s[0] - 'a')}, nil
}

// Piece is a live game piece. Type and Color never change after creation;
// Pos is maintained by the board that holds the piece.
type Piece struct {
	ID    int
	Type  PieceType
	Color Color
	Pos   Square
}

// Symbol returns the FEN letter, uppercase for White
func (p Piece) Symbol() byte {
	s := p.Type.Symbol()
	if p.Color == ColorWhite && s != '.' {
		return s - 0x20
	}
	return s
}

func (p Piece) String() string {
	return fmt.Sprintf("%s %s on %s", p.Color.Name(), p.Type, p.Pos)
}
