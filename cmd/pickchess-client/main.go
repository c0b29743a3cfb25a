// Package main implements an interactive debugging client for the pickchess server API.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"pickchess/internal/client/commands"
	"pickchess/internal/client/display"
	"pickchess/internal/client/session"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "API base URL")
	history := flag.String("history", ".pickchess_history", "Readline history file (empty disables)")
	flag.Parse()

	s := session.New(*baseURL)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("pickchess"),
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("%sPickchess Debug Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s, rl.Stdout())
	s.Client.Out = rl.Stdout()

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasSuffix(line, " -v") {
			s.Verbose = true
			line = strings.TrimSuffix(line, " -v")
		} else {
			s.Verbose = false
		}

		if !registry.Execute(line) {
			break
		}
	}
}

func buildPrompt(s *session.Session) string {
	promptStr := "pickchess"

	if s.CurrentGame != "" {
		id := s.CurrentGame
		if len(id) > 8 {
			id = id[:8]
		}
		promptStr += display.Yellow + " [" + display.White + id + display.Yellow + "]"
	}

	if g := s.CurrentGameState; g != nil {
		switch g.Phase {
		case "active":
			promptStr += " - Turn:" + display.ColorForTurn(g.Turn)
			if g.Selected != nil {
				promptStr += display.Yellow + " (" + g.Selected.Name + ")"
			}
		case "ended":
			promptStr += " - Won:" + display.ColorForTurn(g.Winner)
		default:
			promptStr += " - " + g.Phase
		}
	}

	return display.Prompt(promptStr)
}
