package source

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExtensionFilter is an allow-list for file names. Plain entries ("go", ".md",
// "tar.gz") match name suffixes; entries with glob syntax ("*.test.*") are
// matched against the whole name with doublestar. Matching ignores case.
// A nil or empty filter allows everything.
type ExtensionFilter struct {
	suffixes []string
	patterns []string
}

// NewExtensionFilter builds a filter from user-supplied entries.
func NewExtensionFilter(entries []string) (*ExtensionFilter, error) {
	f := &ExtensionFilter{}
	for _, raw := range entries {
		entry := strings.ToLower(strings.TrimSpace(raw))
		if entry == "" {
			continue
		}
		if strings.ContainsAny(entry, "*?[{") {
			if !doublestar.ValidatePattern(entry) {
				return nil, fmt.Errorf("extension pattern %q: %w", raw, doublestar.ErrBadPattern)
			}
			f.patterns = append(f.patterns, entry)
			continue
		}
		if !strings.HasPrefix(entry, ".") {
			entry = "." + entry
		}
		f.suffixes = append(f.suffixes, entry)
	}
	return f, nil
}

// Empty reports whether the filter allows everything.
func (f *ExtensionFilter) Empty() bool {
	return f == nil || (len(f.suffixes) == 0 && len(f.patterns) == 0)
}

// Entries returns the normalised entries, suffixes first.
func (f *ExtensionFilter) Entries() []string {
	if f.Empty() {
		return nil
	}
	out := make([]string, 0, len(f.suffixes)+len(f.patterns))
	out = append(out, f.suffixes...)
	return append(out, f.patterns...)
}

// Allows reports whether a file called name passes the filter.
func (f *ExtensionFilter) Allows(name string) bool {
	if f.Empty() {
		return true
	}
	lower := strings.ToLower(name)
	for _, suffix := range f.suffixes {
		if len(lower) > len(suffix) && strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	for _, pattern := range f.patterns {
		if ok, _ := doublestar.Match(pattern, lower); ok {
			return true
		}
	}
	return false
}
