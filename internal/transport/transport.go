package transport

import (
	"pickchess/internal/cli"
	"pickchess/internal/core"
	"pickchess/internal/game"
)

// View abstracts input and display for a front-end driving one game
type View interface {
	GetCommand() (*cli.Command, error)
	SetTheme(theme cli.ColorTheme) error
	DisplayBoard(snap game.Snapshot, targets []core.Square)
	ShowMessage(msg string)
	ShowError(err error)
	ShowPick(res game.PickResult)
	ShowCaptured(snap game.Snapshot)
	ShowGameOver(winner core.Color)
	ShowHelp()
	ShowPrompt(prompt string)
}
