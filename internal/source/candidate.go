// Package source describes matchable candidates and the places they come from.
package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Kind tags what a candidate refers to.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
	KindCommand
	KindPane
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	case KindCommand:
		return "command"
	case KindPane:
		return "pane"
	default:
		return "unknown"
	}
}

// Metadata carries kind-specific details. Filesystem candidates fill the
// size/time/mode fields; commands and panes fill Description.
type Metadata struct {
	Size        int64
	Modified    time.Time
	Mode        os.FileMode
	Description string
	Icon        string
	Hidden      bool
	Symlink     bool
	Parent      bool
}

// Candidate is one matchable item. Candidates are snapshots: a new listing
// produces new values instead of mutating old ones.
type Candidate struct {
	Key   string
	Label string
	Kind  Kind
	Meta  Metadata
}

// IsDir reports whether the candidate can be navigated into.
func (c Candidate) IsDir() bool {
	return c.Kind == KindDirectory
}

// Scope is the enumeration context: a filesystem directory or the static list.
type Scope struct {
	Path   string
	Static bool
}

// PathScope returns the scope for directory path.
func PathScope(path string) Scope {
	return Scope{Path: filepath.Clean(path)}
}

// StaticScope returns the sentinel scope of registered commands and panes.
func StaticScope() Scope {
	return Scope{Static: true}
}

// IsZero reports whether the scope was never set.
func (s Scope) IsZero() bool {
	return !s.Static && s.Path == ""
}

func (s Scope) String() string {
	if s.Static {
		return "<static>"
	}
	return s.Path
}

// CompareLabels orders labels case-insensitively, falling back to the raw
// label so that distinct labels never compare equal.
func CompareLabels(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// SortListing orders a directory listing: the parent entry first, then
// directories, then files, each group by case-insensitive name.
func SortListing(items []Candidate) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Meta.Parent != b.Meta.Parent {
			return a.Meta.Parent
		}
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		return CompareLabels(a.Label, b.Label) < 0
	})
}

func cloneCandidates(items []Candidate) []Candidate {
	if items == nil {
		return nil
	}
	out := make([]Candidate, len(items))
	copy(out, items)
	return out
}

// Equal reports whether two scopes name the same enumeration context.
func (s Scope) Equal(other Scope) bool {
	if s.Static || other.Static {
		return s.Static == other.Static
	}
	return filepath.Clean(s.Path) == filepath.Clean(other.Path)
}
