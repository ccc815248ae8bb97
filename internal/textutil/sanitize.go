package textutil

import "strings"

var formattingRuneLabels = map[rune]string{
	0x061C: "⟪ALM⟫",
	0x200B: "⟪ZWSP⟫",
	0x200C: "⟪ZWNJ⟫",
	0x200D: "⟪ZWJ⟫",
	0x200E: "⟪LRM⟫",
	0x200F: "⟪RLM⟫",
	0x202A: "⟪LRE⟫",
	0x202B: "⟪RLE⟫",
	0x202C: "⟪PDF⟫",
	0x202D: "⟪LRO⟫",
	0x202E: "⟪RLO⟫",
	0x2028: "⟪LSEP⟫",
	0x2029: "⟪PSEP⟫",
	0x00AD: "⟪SHY⟫",
	0x180E: "⟪MVS⟫",
	0x2060: "⟪WJ⟫",
	0x2066: "⟪LRI⟫",
	0x2067: "⟪RLI⟫",
	0x2068: "⟪FSI⟫",
	0x2069: "⟪PDI⟫",
	0xFEFF: "⟪BOM⟫",
}

// Sanitize replaces control characters so user-controlled names cannot inject
// terminal escape sequences when rendered. Formatting runes become visible labels.
func Sanitize(text string) string {
	for _, r := range text {
		if NeedsSanitizing(r) {
			var b strings.Builder
			for _, r := range text {
				b.WriteString(SanitizeRune(r))
			}
			return b.String()
		}
	}
	return text
}

// SanitizeRune returns the printable replacement for r. Callers that need to
// keep a mapping from source rune indexes (match highlighting) sanitize rune by rune.
func SanitizeRune(r rune) string {
	if label, ok := formattingRuneLabels[r]; ok {
		return label
	}
	switch {
	case r == '\t', r == '\n', r == '\r':
		return " "
	case r < 0x20 || r == 0x7f:
		return "?"
	}
	return string(r)
}

// NeedsSanitizing reports whether SanitizeRune would change r.
func NeedsSanitizing(r rune) bool {
	if _, ok := formattingRuneLabels[r]; ok {
		return true
	}
	return r < 0x20 || r == 0x7f
}
