package game

import (
	"fmt"

	"pickchess/internal/board"
	"pickchess/internal/core"
	"pickchess/internal/engine"
)

// Game is the aggregate state of one match: board, turn, selection,
// capture ledgers and lifecycle phase. It is not safe for concurrent use.
type Game struct {
	board    *board.Board
	turn     core.Color
	selected *core.Square // nil when nothing is selected
	captured map[core.Color][]core.PieceType
	phase    core.Phase
	winner   core.Color
	moves    int
	version  uint64
}

// New returns a game in the NotStarted phase with an empty board
func New() *Game {
	g := &Game{board: board.New()}
	g.reset()
	return g
}

// reset clears everything except phase, winner and counters
func (g *Game) reset() {
	g.board.Reset()
	g.turn = core.ColorWhite
	g.selected = nil
	g.captured = map[core.Color][]core.PieceType{
		core.ColorWhite: nil,
		core.ColorBlack: nil,
	}
}

// Start lays out the standard position and makes the game Active. It may be
// called from any phase.
func (g *Game) Start() {
	g.reset()
	g.board.SetupStandardPosition()
	g.phase = core.PhaseActive
	g.winner = core.ColorNone
	g.moves = 0
	g.version++
}

// End abandons the current game and returns to NotStarted with an empty board
func (g *Game) End() {
	g.reset()
	g.phase = core.PhaseNotStarted
	g.winner = core.ColorNone
	g.moves = 0
	g.version++
}

// Pick interprets a click on square s. Off-board squares return
// ErrInvalidSquare without touching the game; everything else, including
// illegal moves, is reported through the result.
func (g *Game) Pick(s core.Square) (PickResult, error) {
	if err := engine.ValidateSquares(s); err != nil {
		return PickResult{}, err
	}
	if g.phase != core.PhaseActive {
		return PickResult{Outcome: PickIgnored, To: s}, nil
	}

	if g.selected == nil {
		return g.pickOrigin(s), nil
	}
	return g.pickDestination(*g.selected, s), nil
}

func (g *Game) pickOrigin(s core.Square) PickResult {
	if !g.board.IsOccupiedBy(s, g.turn) {
		return PickResult{Outcome: PickIgnored, To: s}
	}
	origin := s
	g.selected = &origin
	g.version++
	return PickResult{
		Outcome: PickSelected,
		From:    s,
		Piece:   *g.board.Get(s),
		Targets: engine.LegalTargets(g.board, s),
	}
}

func (g *Game) pickDestination(from, to core.Square) PickResult {
	p := g.board.Get(from)
	g.selected = nil
	g.version++

	if p == nil || !engine.IsLegal(g.board, from, to, p.Type, p.Color) {
		return PickResult{Outcome: PickRejected, From: from, To: to}
	}

	res := PickResult{Outcome: PickMoved, From: from, To: to}
	if victim := g.board.Clear(to); victim != nil {
		g.captured[p.Color] = append(g.captured[p.Color], victim.Type)
		v := *victim
		res.Captured = &v
	}
	if err := g.board.Place(p, to); err != nil {
		// to was validated by Pick
		panic(fmt.Sprintf("game: place on validated square: %v", err))
	}
	res.Piece = *p

	mover := g.turn
	g.turn = core.OppositeColor(mover)
	g.moves++

	if _, ok := g.board.FindKing(core.OppositeColor(mover)); !ok {
		g.phase = core.PhaseEnded
		g.winner = mover
		final := g.Snapshot()
		res.GameOver = true
		res.Winner = mover
		res.Final = &final
		g.reset()
	}
	return res
}

// Phase returns the lifecycle stage
func (g *Game) Phase() core.Phase { return g.phase }

// Turn returns the side to move
func (g *Game) Turn() core.Color { return g.turn }

// Winner returns the side that captured the king, if the game has Ended
func (g *Game) Winner() core.Color { return g.winner }

// Selected returns the selected origin square
func (g *Game) Selected() (core.Square, bool) {
	if g.selected == nil {
		return core.Square{}, false
	}
	return *g.selected, true
}

// Captured returns a copy of the ledger of piece types taken by c
func (g *Game) Captured(c core.Color) []core.PieceType {
	return append([]core.PieceType(nil), g.captured[c]...)
}

// Moves returns the number of completed moves since Start
func (g *Game) Moves() int { return g.moves }

// Version increases on every observable state change
func (g *Game) Version() uint64 { return g.version }

// Board exposes the board for read-only rendering such as ToASCII
func (g *Game) Board() *board.Board { return g.board }
