package display

import (
	"fmt"
	"io"
	"strings"
)

// RenderBoard renders the server's ASCII board with colored pieces. Squares
// listed in marks (algebraic names) are highlighted.
func RenderBoard(w io.Writer, asciiBoard string, marks ...string) {
	marked := make(map[string]bool, len(marks))
	for _, m := range marks {
		marked[m] = true
	}

	lines := strings.Split(asciiBoard, "\n")
	last := len(lines) - 1

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		isFileLine := i == 0 || i == last
		rank := byte(0)
		if !isFileLine && len(line) > 0 {
			rank = line[0]
		}

		for j, char := range line {
			// cells start at column 2, two characters wide
			square := ""
			if rank != 0 && j >= 2 && (j-2)%2 == 0 && (j-2)/2 < 8 {
				square = fmt.Sprintf("%c%c", 'a'+(j-2)/2, rank)
			}

			switch {
			case marked[square] && char == '.':
				fmt.Fprintf(w, "%s*%s", Yellow, Reset)
			case marked[square]:
				fmt.Fprintf(w, "%s%c%s", Yellow, char, Reset)
			case char >= 'a' && char <= 'h' && isFileLine:
				fmt.Fprintf(w, "%s%c%s", Cyan, char, Reset)
			case char >= 'A' && char <= 'Z':
				// White pieces
				fmt.Fprintf(w, "%s%c%s", Blue, char, Reset)
			case char >= 'a' && char <= 'z':
				// Black pieces
				fmt.Fprintf(w, "%s%c%s", Red, char, Reset)
			case char >= '1' && char <= '8':
				fmt.Fprintf(w, "%s%c%s", Cyan, char, Reset)
			default:
				fmt.Fprintf(w, "%c", char)
			}
		}
		fmt.Fprintln(w)
	}
}

// ColorForTurn returns colored turn indicator
func ColorForTurn(turn string) string {
	switch turn {
	case "w":
		return Blue + "White" + Reset
	case "b":
		return Red + "Black" + Reset
	default:
		return turn
	}
}
