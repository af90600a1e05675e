package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderInputLine draws a text input as one padded line exactly bodyW wide.
func renderInputLine(bodyW int, inputView string, focused bool) string {
	if bodyW < 10 {
		bodyW = 10
	}

	// Inputs must stay on one visual line; a stray newline looks like wrapping while typing.
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	bg := colorInputBg
	if !focused {
		bg = colorControlBg
	}
	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(bg),
	)
	if xansi.StringWidth(line) > bodyW {
		// Terminate styling so a cut escape sequence cannot bleed into the next line.
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}
