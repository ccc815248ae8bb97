package textutil

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Ellipsis marks text cut to fit a column.
const Ellipsis = "…"

// DisplayWidth reports the number of terminal cells text occupies.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// RuneWidth reports the cell width of r; zero-width runes count as zero.
func RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// Truncate cuts text from the right so it fits width cells, ending in an ellipsis.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(text, width, Ellipsis)
}

// TruncateLeft cuts text from the left, keeping its tail. Paths keep their most
// useful part this way.
func TruncateLeft(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	ellipsisWidth := runewidth.StringWidth(Ellipsis)
	if width <= ellipsisWidth {
		return Ellipsis
	}

	runes := []rune(text)
	used := 0
	start := len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if used+w > width-ellipsisWidth {
			break
		}
		used += w
		start--
	}
	return Ellipsis + string(runes[start:])
}

// PadRight fills text with spaces up to width cells.
func PadRight(text string, width int) string {
	return runewidth.FillRight(text, width)
}

// FormatSize renders a byte count the way directory listings usually do.
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%dB", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c", float64(size)/float64(div), "KMGTPE"[exp])
}
