package state

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/rnav/internal/source"
)

// Mode restricts which kinds of candidates may be confirmed as a selection.
type Mode int

const (
	ModeBoth Mode = iota
	ModeFile
	ModeDirectory
)

// ParseMode accepts "file", "directory"/"dir" and "both" (or empty).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both":
		return ModeBoth, nil
	case "file", "files":
		return ModeFile, nil
	case "directory", "dir", "dirs":
		return ModeDirectory, nil
	default:
		return ModeBoth, fmt.Errorf("unknown selection mode %q (want file, directory or both)", s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeDirectory:
		return "directory"
	default:
		return "both"
	}
}

// Accepts reports whether a candidate of kind may be confirmed in this mode.
// Commands and panes are always accepted.
func (m Mode) Accepts(kind source.Kind) bool {
	switch kind {
	case source.KindFile:
		return m != ModeDirectory
	case source.KindDirectory:
		return m != ModeFile
	default:
		return true
	}
}
