package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/rnav/internal/state"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(p *statepkg.Pane) string {
	parts := buildFooterHelpSegments(p)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the footer.
func buildFooterHelpSegments(p *statepkg.Pane) []string {
	if p == nil {
		return nil
	}

	if p.Kind() == statepkg.PanePalette {
		return []string{
			"↵: run",
			"Esc: close",
		}
	}

	segments := []string{"↵/→: open", "Tab: select"}
	if p.Mode() != statepkg.ModeFile {
		segments = append(segments, "^X: select here")
	}
	if p.Query() != "" {
		segments = append(segments, "Esc: clear")
	} else {
		segments = append(segments, "←: up", "Esc: quit")
	}
	return append(segments, "^P: commands", "F1: help")
}
