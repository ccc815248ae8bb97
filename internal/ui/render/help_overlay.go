package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/rnav/internal/state"
	"github.com/kk-code-lab/rnav/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

func buildHelpOverlayLines(p *statepkg.Pane) []string {
	hiddenDesc := "Show hidden files"
	if p != nil && p.ShowHidden() {
		hiddenDesc = "Hide hidden files"
	}

	sections := []helpOverlaySection{
		{
			title: "Navigation",
			entries: []helpOverlayEntry{
				{keys: "↑/↓", desc: "Move selection"},
				{keys: "PgUp/PgDn", desc: "Move by a page"},
				{keys: "↵ or →", desc: "Enter directory / select file"},
				{keys: "← or ⌫", desc: "Parent directory (empty query)"},
				{keys: "Alt+←/→", desc: "History back/forward"},
			},
		},
		{
			title: "Filter",
			entries: []helpOverlayEntry{
				{keys: "type", desc: "Fuzzy filter the listing"},
				{keys: "Ctrl+W", desc: "Delete last word"},
				{keys: "Ctrl+U", desc: "Clear query"},
				{keys: "Esc", desc: "Clear query, or cancel when empty"},
			},
		},
		{
			title: "Selection",
			entries: []helpOverlayEntry{
				{keys: "Tab", desc: "Select highlighted entry"},
				{keys: "Ctrl+X", desc: "Select current directory"},
			},
		},
		{
			title: "Actions",
			entries: []helpOverlayEntry{
				{keys: "Ctrl+T", desc: hiddenDesc},
				{keys: "Ctrl+R", desc: "Refresh directory"},
				{keys: "Ctrl+P or :", desc: "Command palette"},
			},
		},
		{
			title: "Exit",
			entries: []helpOverlayEntry{
				{keys: "Ctrl+C", desc: "Quit immediately"},
				{keys: "F1", desc: "Close this help"},
			},
		},
	}

	lines := make([]string, 0, 32)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}

	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	key := textutil.PadRight(textutil.Sanitize(entry.keys), 14)
	desc := textutil.Sanitize(entry.desc)
	return fmt.Sprintf("  %s %s", key, desc)
}

func (r *Renderer) drawHelpOverlay(p *statepkg.Pane, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	for y := 0; y < h; y++ {
		r.fill(0, w, y, baseStyle)
	}

	title := " Help "
	headerStyle := baseStyle.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Bold(true)
	titleStart := 0
	titleWidth := r.measureTextWidth(title)
	if w > titleWidth {
		titleStart = (w - titleWidth) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	row := 2
	maxRow := h - 1
	for _, line := range buildHelpOverlayLines(p) {
		if row >= maxRow {
			break
		}
		text := textutil.Truncate(strings.TrimRight(line, " "), w-4)
		r.drawTextLine(2, row, w-4, text, baseStyle)
		row++
	}

	if h > 0 {
		footer := textutil.Truncate("F1/Esc close", w)
		r.drawTextLine(0, h-1, w, footer, headerStyle)
	}
}
