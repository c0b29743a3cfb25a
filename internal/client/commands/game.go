package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"pickchess/internal/client/display"
	"pickchess/internal/core"
)

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Create a new game",
		Usage:       "new [idle]  (started unless 'idle')",
		Handler:     newGameHandler,
	})

	r.Register(&Command{
		Name:        "join",
		ShortName:   "j",
		Description: "Join/set current game ID",
		Usage:       "join <gameId>",
		Handler:     joinGameHandler,
	})

	r.Register(&Command{
		Name:        "start",
		ShortName:   "b",
		Description: "Start or restart the current game",
		Usage:       "start",
		Handler:     startGameHandler,
	})

	r.Register(&Command{
		Name:        "end",
		ShortName:   "e",
		Description: "End the current game and clear the board",
		Usage:       "end",
		Handler:     endGameHandler,
	})

	r.Register(&Command{
		Name:        "pick",
		ShortName:   "k",
		Description: "Pick a square (select, then move)",
		Usage:       "pick <square> | pick <row> <col>",
		Handler:     pickHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     showBoardHandler,
	})

	r.Register(&Command{
		Name:        "state",
		ShortName:   "s",
		Description: "Show raw game JSON",
		Usage:       "state",
		Handler:     gameStateHandler,
	})

	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Description: "Delete a game",
		Usage:       "delete [gameId]",
		Handler:     deleteGameHandler,
	})

	r.Register(&Command{
		Name:        "poll",
		ShortName:   "p",
		Description: "Long-poll for game updates",
		Usage:       "poll",
		Handler:     pollHandler,
	})
}

func currentGame(s Session) (string, error) {
	gameID := s.GetCurrentGame()
	if gameID == "" {
		return "", fmt.Errorf("no current game, use 'new' or 'join <gameId>'")
	}
	return gameID, nil
}

func newGameHandler(s Session, w io.Writer, args []string) error {
	start := !(len(args) > 0 && args[0] == "idle")

	resp, err := s.GetClient().CreateGame(start)
	if err != nil {
		return err
	}

	s.SetCurrentGame(resp.GameID)
	s.SetGameState(resp)

	fmt.Fprintf(w, "%sGame created: %s%s\n", display.Green, resp.GameID, display.Reset)
	fmt.Fprintf(w, "%sCurrent game set to: %s%s\n", display.Cyan, resp.GameID, display.Reset)
	printSummary(w, resp)
	return nil
}

func joinGameHandler(s Session, w io.Writer, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}

	gameID := args[0]
	resp, err := s.GetClient().GetGame(gameID)
	if err != nil {
		return err
	}

	s.SetCurrentGame(gameID)
	s.SetGameState(resp)

	fmt.Fprintf(w, "%sJoined game: %s%s\n", display.Green, gameID, display.Reset)
	printSummary(w, resp)
	return nil
}

func startGameHandler(s Session, w io.Writer, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}
	resp, err := s.GetClient().StartGame(gameID)
	if err != nil {
		return err
	}
	s.SetGameState(resp)
	fmt.Fprintf(w, "%sGame started%s\n", display.Green, display.Reset)
	printSummary(w, resp)
	return nil
}

func endGameHandler(s Session, w io.Writer, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}
	resp, err := s.GetClient().EndGame(gameID)
	if err != nil {
		return err
	}
	s.SetGameState(resp)
	fmt.Fprintf(w, "%sGame ended%s\n", display.Green, display.Reset)
	return nil
}

// parsePick accepts "e2" or "1 4". Numbers are sent as given so the server
// can reject out-of-range squares.
func parsePick(args []string) (row, col int, err error) {
	switch len(args) {
	case 1:
		sq, err := core.ParseSquare(args[0])
		if err != nil {
			return 0, 0, err
		}
		return sq.Row, sq.Col, nil
	case 2:
		if row, err = strconv.Atoi(args[0]); err != nil {
			return 0, 0, fmt.Errorf("invalid row: %s", args[0])
		}
		if col, err = strconv.Atoi(args[1]); err != nil {
			return 0, 0, fmt.Errorf("invalid col: %s", args[1])
		}
		return row, col, nil
	default:
		return 0, 0, fmt.Errorf("usage: pick <square> | pick <row> <col>")
	}
}

func pickHandler(s Session, w io.Writer, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}
	row, col, err := parsePick(args)
	if err != nil {
		return err
	}

	c := s.GetClient()
	resp, err := c.Pick(gameID, row, col)
	if err != nil {
		return err
	}
	s.SetGameState(&resp.Game)

	switch resp.Outcome {
	case "ignored":
		fmt.Fprintf(w, "%sPick ignored%s\n", display.Yellow, display.Reset)

	case "selected":
		names := make([]string, 0, len(resp.Targets)+1)
		for _, t := range resp.Targets {
			names = append(names, t.Name)
		}
		fmt.Fprintf(w, "%sSelected %s%s targets: %s\n", display.Green, resp.From.Name, display.Reset, strings.Join(names, " "))
		if board, err := c.GetBoard(gameID); err == nil {
			display.RenderBoard(w, board.Board, append(names, resp.From.Name)...)
		}

	case "moved":
		fmt.Fprintf(w, "%sMoved %s-%s%s", display.Green, resp.From.Name, resp.To.Name, display.Reset)
		if resp.Captured != nil {
			fmt.Fprintf(w, " capturing %s %s", display.ColorForTurn(resp.Captured.Color), resp.Captured.Type)
		}
		fmt.Fprintln(w)
		if resp.GameOver {
			fmt.Fprintf(w, "%sGame over: %s wins%s\n", display.Magenta, display.ColorForTurn(resp.Winner), display.Reset)
			if resp.Final != nil {
				fmt.Fprintf(w, "Final position: %s\n", resp.Final.Placement)
			}
		}

	case "rejected":
		fmt.Fprintf(w, "%sRejected %s-%s, selection cleared%s\n", display.Red, resp.From.Name, resp.To.Name, display.Reset)
	}

	return nil
}

func showBoardHandler(s Session, w io.Writer, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	c := s.GetClient()
	game, err := c.GetGame(gameID)
	if err != nil {
		return err
	}
	board, err := c.GetBoard(gameID)
	if err != nil {
		return err
	}
	s.SetGameState(game)

	var marks []string
	if game.Selected != nil {
		marks = append(marks, game.Selected.Name)
	}

	fmt.Fprintln(w)
	display.RenderBoard(w, board.Board, marks...)
	fmt.Fprintf(w, "\nPlacement: %s\n", board.Placement)
	printSummary(w, game)
	fmt.Fprintf(w, "Captured by White: %s\n", listOrDash(game.Captured.White))
	fmt.Fprintf(w, "Captured by Black: %s\n", listOrDash(game.Captured.Black))
	return nil
}

func gameStateHandler(s Session, w io.Writer, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	resp, err := s.GetClient().GetGame(gameID)
	if err != nil {
		return err
	}
	s.SetGameState(resp)

	fmt.Fprintf(w, "%sGame State:%s\n", display.Cyan, display.Reset)
	display.PrettyPrintJSON(w, resp)
	return nil
}

func deleteGameHandler(s Session, w io.Writer, args []string) error {
	gameID := s.GetCurrentGame()
	if len(args) > 0 {
		gameID = args[0]
	}
	if gameID == "" {
		return fmt.Errorf("specify game ID or set current game")
	}

	if err := s.GetClient().DeleteGame(gameID); err != nil {
		return err
	}

	if gameID == s.GetCurrentGame() {
		s.SetCurrentGame("")
	}

	fmt.Fprintf(w, "%sGame deleted: %s%s\n", display.Green, gameID, display.Reset)
	return nil
}

func pollHandler(s Session, w io.Writer, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	version := s.GetLastVersion()
	fmt.Fprintf(w, "%sLong-polling for updates (version: %d)...%s\n", display.Cyan, version, display.Reset)
	fmt.Fprintf(w, "%sThis may take up to 25 seconds%s\n", display.Cyan, display.Reset)

	resp, err := s.GetClient().GetGameWithPoll(gameID, version)
	if err != nil {
		return err
	}
	s.SetGameState(resp)

	if resp.Version != version {
		fmt.Fprintf(w, "%sGame updated (version %d)%s\n", display.Green, resp.Version, display.Reset)
		printSummary(w, resp)
	} else {
		fmt.Fprintf(w, "%sNo updates (timeout)%s\n", display.Yellow, display.Reset)
	}
	return nil
}

func printSummary(w io.Writer, g *core.GameResponse) {
	fmt.Fprintf(w, "Phase: %s | Turn: %s | Moves: %d", g.Phase, display.ColorForTurn(g.Turn), g.Moves)
	if g.Winner != "" {
		fmt.Fprintf(w, " | Winner: %s", display.ColorForTurn(g.Winner))
	}
	if g.Selected != nil {
		fmt.Fprintf(w, " | Selected: %s", g.Selected.Name)
	}
	fmt.Fprintln(w)
}

func listOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
