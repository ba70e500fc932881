package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Sizer measures and pads strings by display width, so emoji and wide
// runes line up inside box borders.
type Sizer struct{}

// DisplayWidth calculates the actual display width of a string containing emojis and Unicode characters
func (s Sizer) DisplayWidth(str string) int {
	return runewidth.StringWidth(str)
}

// PadString pads a string to a specific display width, handling emojis correctly
func (s Sizer) PadString(str string, width int, leftAlign bool) string {
	actualWidth := s.DisplayWidth(str)
	if actualWidth >= width {
		return str
	}

	padding := strings.Repeat(" ", width-actualWidth)
	if leftAlign {
		return str + padding
	}
	return padding + str
}

// PanelWidth returns the dashboard panel width: terminal width with a
// margin, clamped to [50, 74].
func (s Sizer) PanelWidth() int {
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth < 60 {
		return 50
	}
	width := termWidth - 8
	if width > 74 {
		width = 74
	}
	if width < 50 {
		width = 50
	}
	return width
}
