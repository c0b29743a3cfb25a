// Package main runs a pick-to-move chess game in the terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"pickchess/internal/cli"
	"pickchess/internal/config"
	"pickchess/internal/obslog"
	"pickchess/internal/service"
	clitransport "pickchess/internal/transport/cli"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "pickchess: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("pickchess", flag.ContinueOnError)
	configPath := fs.String("config", "", "Optional YAML config file")
	theme := fs.String("color", "", "Board color theme: off, brown, green, gray (default brown on a terminal)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Console logging would interleave with the board
	logOpts := cfg.LogOptions()
	logOpts.Console = false
	if err := obslog.Init(logOpts); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer obslog.Close()

	view := cli.New(in, out)

	selected := cli.ColorTheme(*theme)
	if selected == "" {
		selected = cli.ThemeOff
		if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			selected = cli.ThemeBrown
		}
	}
	if err := view.SetTheme(selected); err != nil {
		obslog.L().Error("invalid_theme", zap.String("theme", string(selected)))
		return err
	}

	svc := service.New(service.WithLogger(obslog.L()))
	defer svc.Shutdown(time.Second)

	handler := clitransport.New(svc, view)

	view.ShowWelcome()
	handler.Run()
	return nil
}
