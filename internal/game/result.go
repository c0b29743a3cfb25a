package game

import (
	"pickchess/internal/board"
	"pickchess/internal/core"
)

// PickOutcome classifies what a pick did
type PickOutcome int

const (
	// PickIgnored: game not active, or nothing selectable on the square
	PickIgnored PickOutcome = iota
	// PickSelected: a piece of the side to move is now selected
	PickSelected
	// PickMoved: the selected piece moved, possibly capturing
	PickMoved
	// PickRejected: the move was illegal and the selection was dropped
	PickRejected
)

func (o PickOutcome) String() string {
	switch o {
	case PickSelected:
		return "selected"
	case PickMoved:
		return "moved"
	case PickRejected:
		return "rejected"
	default:
		return "ignored"
	}
}

// PickResult carries the side effects a renderer needs after a pick
type PickResult struct {
	Outcome  PickOutcome
	From     core.Square
	To       core.Square
	Piece    core.Piece    // selected or moved piece
	Targets  []core.Square // highlight squares on selection
	Captured *core.Piece   // detached piece on capture
	GameOver bool
	Winner   core.Color
	Final    *Snapshot // state at the moment the king was taken
}

// Snapshot is a read-only copy of everything a renderer draws
type Snapshot struct {
	Phase         core.Phase
	Turn          core.Color
	Selected      *core.Square
	Grid          board.Grid
	Pieces        []core.Piece
	Placement     string
	WhiteCaptured []core.PieceType
	BlackCaptured []core.PieceType
	Winner        core.Color
	Moves         int
	Version       uint64
}

// Snapshot copies the current state
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Phase:         g.phase,
		Turn:          g.turn,
		Grid:          g.board.Grid(),
		Pieces:        g.board.Pieces(),
		Placement:     g.board.Placement(),
		WhiteCaptured: g.Captured(core.ColorWhite),
		BlackCaptured: g.Captured(core.ColorBlack),
		Winner:        g.winner,
		Moves:         g.moves,
		Version:       g.version,
	}
	if sel, ok := g.Selected(); ok {
		s.Selected = &sel
	}
	return s
}
