package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// PadRight pads or truncates a string to a fixed display width.
func PadRight(str string, width int) string {
	w := runewidth.StringWidth(str)
	if w > width {
		return runewidth.Truncate(str, width, "...")
	}
	return str + strings.Repeat(" ", width-w)
}

// FormatRow lays out cells in fixed-width columns without trailing blanks.
// Cells beyond len(widths) are dropped.
func FormatRow(widths []int, cells ...string) string {
	var b strings.Builder
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(PadRight(cell, width))
	}
	return strings.TrimRight(b.String(), " ")
}
