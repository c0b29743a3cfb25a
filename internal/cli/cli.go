package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"pickchess/internal/core"
	"pickchess/internal/game"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdStart
	CmdEnd
	CmdPick
	CmdShow
	CmdCaptured
	CmdColor
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	markBg  string // selected square and targets
	white   string
	black   string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		markBg:  "\033[48;5;178m", // Amber
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m", // Light green
		darkBg:  "\033[48;5;22m",  // Dark green
		markBg:  "\033[48;5;185m", // Yellow
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m", // Light gray
		darkBg:  "\033[48;5;240m", // Dark gray
		markBg:  "\033[48;5;67m",  // Steel blue
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
}

type CLI struct {
	input  *bufio.Scanner
	output io.Writer
	theme  ColorTheme
}

func New(input io.Reader, output io.Writer) *CLI {
	return &CLI{
		input:  bufio.NewScanner(input),
		output: output,
		theme:  ThemeOff,
	}
}

// Reads a command synchronously
func (c *CLI) GetCommand() (*Command, error) {
	if !c.input.Scan() {
		if err := c.input.Err(); err != nil {
			return nil, err
		}
		return &Command{Type: CmdQuit}, nil
	}

	input := strings.TrimSpace(c.input.Text())
	if input == "" {
		return &Command{Type: CmdNone}, nil
	}

	return ParseCommand(input), nil
}

// ParseCommand maps a line of input to a command. Anything that is not a
// keyword is treated as a square pick.
func ParseCommand(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "start", "new":
		return &Command{Type: CmdStart}
	case "end":
		return &Command{Type: CmdEnd}
	case "show", "board":
		return &Command{Type: CmdShow}
	case "captured":
		return &Command{Type: CmdCaptured}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	default:
		return &Command{Type: CmdPick, Args: parts, Raw: input}
	}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) Theme() ColorTheme {
	return c.theme
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

func (c *CLI) ShowPrompt(prompt string) {
	fmt.Fprint(c.output, prompt)
}

// DisplayBoard draws the snapshot with rank 8 on top. The selected square and
// any targets are marked.
func (c *CLI) DisplayBoard(snap game.Snapshot, targets []core.Square) {
	theme := themes[c.theme]

	marked := make(map[core.Square]bool, len(targets)+1)
	for _, t := range targets {
		marked[t] = true
	}
	if snap.Selected != nil {
		marked[*snap.Selected] = true
	}

	var sb strings.Builder
	sb.WriteString("\n  a b c d e f g h\n")

	for row := core.BoardSize - 1; row >= 0; row-- {
		sb.WriteString(fmt.Sprintf("%d ", row+1))
		for col := 0; col < core.BoardSize; col++ {
			sq := core.Square{Row: row, Col: col}
			piece := snap.Grid[row][col]
			empty := piece.Type == core.NoPieceType

			if c.theme == ThemeOff {
				switch {
				case empty && marked[sq]:
					sb.WriteString("* ")
				case empty:
					sb.WriteString(". ")
				case marked[sq]:
					sb.WriteString(fmt.Sprintf("%c*", piece.Symbol()))
				default:
					sb.WriteString(fmt.Sprintf("%c ", piece.Symbol()))
				}
				continue
			}

			// a1 is dark
			bg := theme.lightBg
			if (row+col)%2 == 0 {
				bg = theme.darkBg
			}
			if marked[sq] {
				bg = theme.markBg
			}

			if empty {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
			} else {
				fg := theme.black
				if piece.Color == core.ColorWhite {
					fg = theme.white
				}
				sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, fg, piece.Symbol(), theme.reset))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", row+1))
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

// ShowPick reports the outcome of a square pick
func (c *CLI) ShowPick(res game.PickResult) {
	switch res.Outcome {
	case game.PickIgnored:
		c.ShowMessage("Nothing to do on that square.")
	case game.PickSelected:
		names := make([]string, 0, len(res.Targets))
		for _, t := range res.Targets {
			names = append(names, t.String())
		}
		if len(names) == 0 {
			c.ShowMessage(fmt.Sprintf("Selected %s. It has no moves.", res.Piece))
		} else {
			c.ShowMessage(fmt.Sprintf("Selected %s. Targets: %s", res.Piece, strings.Join(names, " ")))
		}
	case game.PickMoved:
		msg := fmt.Sprintf("%s %s moves %s-%s", res.Piece.Color.Name(), res.Piece.Type, res.From, res.To)
		if res.Captured != nil {
			msg += fmt.Sprintf(", capturing %s", res.Captured.Type)
		}
		c.ShowMessage(msg)
	case game.PickRejected:
		c.ShowMessage(fmt.Sprintf("Illegal move %s-%s. Selection cleared.", res.From, res.To))
	}
}

// ShowCaptured lists the pieces each side has taken
func (c *CLI) ShowCaptured(snap game.Snapshot) {
	c.ShowMessage(fmt.Sprintf("White captured: %s", typeList(snap.WhiteCaptured)))
	c.ShowMessage(fmt.Sprintf("Black captured: %s", typeList(snap.BlackCaptured)))
}

func typeList(types []core.PieceType) string {
	if len(types) == 0 {
		return "-"
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

func (c *CLI) ShowGameOver(winner core.Color) {
	c.ShowMessage(fmt.Sprintf("\nGame Over: %s captured the king and wins.", winner.Name()))
	c.ShowMessage("The board has been cleared. Type 'start' to play again.")
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  start            - Set up the standard position and begin (restarts a running game)
  end              - Abandon the game and clear the board
  <square>         - Pick a square, e.g. e2 or "1 4" (row col, 0-based)
                     First pick selects one of your pieces, second pick moves it
  show             - Redraw the board
  captured         - List captured pieces
  color <theme>    - Set board color theme (off|brown|green|gray)
  quit/exit        - Exit the program
  help/?           - Show this help message`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Chess!")
	c.ShowMessage("Pick a piece, then pick where it goes. Capture the enemy king to win.")
	c.ShowMessage("Commands: start, end, <square>, show, captured, color, help/?, quit/exit")
	c.ShowMessage("")
}
