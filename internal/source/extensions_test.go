package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensionFilterAllows(t *testing.T) {
	filter, err := NewExtensionFilter([]string{"go", ".MD", " tar.gz ", "*_test.*", ""})
	require.NoError(t, err)

	tests := []struct {
		name string
		want bool
	}{
		{"main.go", true},
		{"MAIN.GO", true},
		{"README.md", true},
		{"archive.tar.gz", true},
		{"other.gz", false},
		{"fuzzy_test.py", true},
		{"notes.txt", false},
		{"go", false},
		{".go", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, filter.Allows(tt.name), tt.name)
	}
	assert.Equal(t, []string{".go", ".md", ".tar.gz", "*_test.*"}, filter.Entries())
}

func TestExtensionFilterEmptyAllowsAll(t *testing.T) {
	var nilFilter *ExtensionFilter
	assert.True(t, nilFilter.Empty())
	assert.True(t, nilFilter.Allows("anything"))

	filter, err := NewExtensionFilter([]string{" ", ""})
	require.NoError(t, err)
	assert.True(t, filter.Empty())
	assert.True(t, filter.Allows("x.bin"))
}

func TestExtensionFilterBadPattern(t *testing.T) {
	_, err := NewExtensionFilter([]string{"[abc"})
	require.Error(t, err)
}
