// Package render turns derived profile state into terminal output. Pure
// formatting over read-only views; nothing here touches the store.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/clauderank/claude-rank/internal/presentation/layout"
)

var sizer = layout.Sizer{}

const xpBarWidth = 20

// formatNumber renders an integer with thousands separators.
func formatNumber(n int) string {
	return humanize.Comma(int64(n))
}

// xpBar renders a text progress bar: [████████░░░░░░░░░░░░].
func xpBar(current, total int) string {
	if total <= 0 {
		return "[" + strings.Repeat("█", xpBarWidth) + "]"
	}
	ratio := float64(current) / float64(total)
	if ratio > 1.0 {
		ratio = 1.0
	}
	filled := int(ratio * xpBarWidth)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", xpBarWidth-filled) + "]"
}

// panel draws lines inside a rounded box of the given inner width.
func panel(w io.Writer, title string, lines []string, width int) {
	top := "╭─ " + title + " "
	pad := width - sizer.DisplayWidth(top) + 1
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintln(w, top+strings.Repeat("─", pad)+"╮")
	for _, line := range lines {
		fmt.Fprintln(w, "│ "+sizer.PadString(line, width-2, true)+" │")
	}
	fmt.Fprintln(w, "╰"+strings.Repeat("─", width)+"╯")
}
