package cli

import (
	"fmt"
	"strconv"

	"pickchess/internal/cli"
	"pickchess/internal/core"
	"pickchess/internal/game"
	"pickchess/internal/service"
	"pickchess/internal/transport"
)

type CLIHandler struct {
	svc    *service.Service
	view   transport.View
	gameID string
}

// New creates a handler bound to a fresh, not yet started game
func New(svc *service.Service, view transport.View) *CLIHandler {
	id, _ := svc.CreateGame(false)
	return &CLIHandler{
		svc:    svc,
		view:   view,
		gameID: id,
	}
}

// GameID returns the id of the game this handler drives
func (h *CLIHandler) GameID() string {
	return h.gameID
}

// Main game loop - simple command processing
func (h *CLIHandler) Run() {
	for {
		h.view.ShowPrompt(h.getPrompt())

		cmd, err := h.view.GetCommand()
		if err != nil {
			break
		}

		if !h.ProcessCommand(cmd) {
			break
		}
	}
}

// Prompt shows whose turn it is while a game is running
func (h *CLIHandler) getPrompt() string {
	snap, err := h.svc.Snapshot(h.gameID)
	if err == nil && snap.Phase == core.PhaseActive {
		if snap.Selected != nil {
			return fmt.Sprintf("[%s %s]> ", snap.Turn.Name(), snap.Selected)
		}
		return fmt.Sprintf("[%s]> ", snap.Turn.Name())
	}
	return "> "
}

// Handles user commands - returns false to exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:
		return true

	case cli.CmdStart:
		snap, err := h.svc.StartGame(h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage("Game started. White to move.")
		h.view.DisplayBoard(snap, nil)

	case cli.CmdEnd:
		if _, err := h.svc.EndGame(h.gameID); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage("Game ended. Type 'start' for a new one.")

	case cli.CmdPick:
		h.handlePick(cmd.Args)

	case cli.CmdShow:
		snap, err := h.svc.Snapshot(h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.DisplayBoard(snap, h.selectionTargets(snap))

	case cli.CmdCaptured:
		snap, err := h.svc.Snapshot(h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowCaptured(snap)

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}

		theme := cli.ColorTheme(cmd.Args[0])
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		if snap, err := h.svc.Snapshot(h.gameID); err == nil && snap.Phase == core.PhaseActive {
			h.view.DisplayBoard(snap, h.selectionTargets(snap))
		}

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

func (h *CLIHandler) handlePick(args []string) {
	sq, err := parseSquareArgs(args)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	snap, err := h.svc.Snapshot(h.gameID)
	if err == nil && snap.Phase != core.PhaseActive {
		h.view.ShowMessage("No game in progress. Type 'start' to begin.")
		return
	}

	res, snap, err := h.svc.Pick(h.gameID, sq)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	h.view.ShowPick(res)
	switch res.Outcome {
	case game.PickSelected:
		h.view.DisplayBoard(snap, res.Targets)
	case game.PickMoved:
		if res.GameOver && res.Final != nil {
			h.view.DisplayBoard(*res.Final, nil)
			h.view.ShowGameOver(res.Winner)
			return
		}
		h.view.DisplayBoard(snap, nil)
	}
}

// selectionTargets recomputes highlights for a redraw mid-selection
func (h *CLIHandler) selectionTargets(snap game.Snapshot) []core.Square {
	if snap.Selected == nil {
		return nil
	}
	targets, err := h.svc.Targets(h.gameID, *snap.Selected)
	if err != nil {
		return nil
	}
	return targets
}

// parseSquareArgs accepts algebraic ("e2") or zero-based row and column ("1 4")
func parseSquareArgs(args []string) (core.Square, error) {
	switch len(args) {
	case 1:
		return core.ParseSquare(args[0])
	case 2:
		row, err := strconv.Atoi(args[0])
		if err != nil {
			return core.Square{}, fmt.Errorf("%w: %q", core.ErrInvalidSquare, args[0])
		}
		col, err := strconv.Atoi(args[1])
		if err != nil {
			return core.Square{}, fmt.Errorf("%w: %q", core.ErrInvalidSquare, args[1])
		}
		sq := core.Square{Row: row, Col: col}
		if !sq.Valid() {
			return core.Square{}, &core.InvalidSquareError{Row: row, Col: col}
		}
		return sq, nil
	default:
		return core.Square{}, fmt.Errorf("unknown command or square. Type 'help' for commands")
	}
}
