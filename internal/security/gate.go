// Package security holds the access policy consulted before any filesystem
// path is enumerated or handed back to the caller as a selection.
package security

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Gate approves or rejects access to a path. A false result is final: callers
// never retry or bypass it.
type Gate interface {
	ValidateAccess(path string, checkWrite bool) bool
}

// GateFunc adapts a plain function to Gate.
type GateFunc func(path string, checkWrite bool) bool

func (f GateFunc) ValidateAccess(path string, checkWrite bool) bool {
	return f(path, checkWrite)
}

// AllowAll approves every existing path.
var AllowAll Gate = GateFunc(func(path string, _ bool) bool {
	_, err := os.Stat(path)
	return err == nil
})

// PathGate confines access to a set of root directories and rejects paths
// matching any deny pattern. Patterns use doublestar syntax and are matched
// against the slash-separated absolute path.
type PathGate struct {
	Roots []string
	Deny  []string
}

// NewPathGate cleans roots (resolving symlinks where possible) and validates
// deny patterns.
func NewPathGate(roots, deny []string) (*PathGate, error) {
	g := &PathGate{}
	for _, root := range roots {
		if root == "" {
			continue
		}
		abs, err := filepath.Abs(expandHome(root))
		if err != nil {
			return nil, err
		}
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			abs = resolved
		}
		g.Roots = append(g.Roots, filepath.Clean(abs))
	}
	for _, pattern := range deny {
		if !doublestar.ValidatePattern(pattern) {
			return nil, &PatternError{Pattern: pattern}
		}
		g.Deny = append(g.Deny, pattern)
	}
	return g, nil
}

// PatternError reports a malformed deny glob.
type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string {
	return "invalid pattern " + e.Pattern
}

// ValidateAccess implements Gate.
func (g *PathGate) ValidateAccess(path string, checkWrite bool) bool {
	if path == "" {
		return false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return false
	}
	resolved = filepath.Clean(resolved)

	if !g.withinRoots(resolved) {
		return false
	}
	if g.denied(abs) || (resolved != abs && g.denied(resolved)) {
		return false
	}
	return accessible(resolved, checkWrite)
}

func (g *PathGate) withinRoots(path string) bool {
	if len(g.Roots) == 0 {
		return true
	}
	for _, root := range g.Roots {
		if path == root {
			return true
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel) {
			return true
		}
	}
	return false
}

func (g *PathGate) denied(path string) bool {
	slashed := filepath.ToSlash(path)
	relative := strings.TrimLeft(slashed, "/")
	for _, pattern := range g.Deny {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, relative); ok {
			return true
		}
	}
	return false
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
