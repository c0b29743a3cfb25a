package commands

import (
	"fmt"
	"io"
	"strings"

	"pickchess/internal/client/api"
	"pickchess/internal/client/display"
	"pickchess/internal/core"
)

type Session interface {
	GetAPIBaseURL() string
	SetAPIBaseURL(string)
	GetCurrentGame() string
	SetCurrentGame(string)
	GetLastVersion() uint64
	SetLastVersion(uint64)
	GetClient() *api.Client
	IsVerbose() bool
	SetGameState(*core.GameResponse)
	GetGameState() *core.GameResponse
}

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(s Session, w io.Writer, args []string) error
}

// Registry manages command registration and execution
type Registry struct {
	session  Session
	out      io.Writer
	commands map[string]*Command
}

func NewRegistry(session Session, out io.Writer) *Registry {
	r := &Registry{
		session:  session,
		out:      out,
		commands: make(map[string]*Command),
	}

	r.registerGameCommands()
	r.registerDebugCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})

	// Handled by Execute
	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the client",
		Usage:       "exit",
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Execute runs one input line. It returns false when the client should exit.
func (r *Registry) Execute(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmdName := parts[0]
	args := parts[1:]

	cmd, exists := r.commands[cmdName]
	if !exists {
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", display.Red, cmdName, display.Reset)
		fmt.Fprintf(r.out, "Type 'help' for available commands\n")
		return true
	}
	if cmd.Name == "exit" {
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", display.Cyan, display.Reset)
		return false
	}

	if cl := r.session.GetClient(); cl != nil {
		cl.SetVerbose(r.session.IsVerbose())
	}

	if err := cmd.Handler(r.session, r.out, args); err != nil {
		fmt.Fprintf(r.out, "%sError: %s%s\n", display.Red, err.Error(), display.Reset)
	}
	return true
}

func (r *Registry) helpHandler(s Session, w io.Writer, args []string) error {
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprintf(w, "\n%s%s%s - %s\n", display.Cyan, cmd.Name, display.Reset, cmd.Description)
		if cmd.ShortName != "" {
			fmt.Fprintf(w, "Short form: %s%s%s\n", display.Cyan, cmd.ShortName, display.Reset)
		}
		fmt.Fprintf(w, "Usage: %s\n", cmd.Usage)
		return nil
	}

	fmt.Fprintf(w, "\n%sAvailable Commands:%s\n\n", display.Cyan, display.Reset)

	gameCommands := []string{"new", "join", "start", "end", "pick", "show", "state", "delete", "poll"}
	utilCommands := []string{"health", "url", "help", "exit"}

	printCommandGroup := func(title string, names []string) {
		fmt.Fprintf(w, "%s%s:%s\n", display.Yellow, title, display.Reset)
		for _, name := range names {
			cmd, exists := r.commands[name]
			if !exists {
				continue
			}
			shortPart := ""
			if cmd.ShortName != "" {
				shortPart = fmt.Sprintf("[%s%s%s] ", display.Cyan, cmd.ShortName, display.Reset)
			}
			fmt.Fprintf(w, "  %s%-10s %s\n", shortPart, cmd.Name, cmd.Description)
		}
	}

	printCommandGroup("Game Commands", gameCommands)
	fmt.Fprintln(w)
	printCommandGroup("Utility Commands", utilCommands)

	fmt.Fprintf(w, "\nType 'help <command>' for detailed usage\n")
	fmt.Fprintf(w, "Add '-v' to any command for verbose output\n")
	return nil
}
