//go:build !windows

package fs

func hasHiddenAttribute(_, _ string) bool {
	return false
}

// NeverList reports whether an entry must be left out of every listing, even
// when hidden files are shown. Only Windows has such entries.
func NeverList(_, _ string) bool {
	return false
}
