package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSourceRebuildsAfterRefresh(t *testing.T) {
	calls := 0
	names := []string{"quit"}
	src := NewStaticSource(func() []Candidate {
		calls++
		out := make([]Candidate, 0, len(names))
		for _, name := range names {
			out = append(out, Candidate{Key: name, Label: name, Kind: KindCommand})
		}
		return out
	})

	got, err := src.List(context.Background(), StaticScope())
	require.NoError(t, err)
	assert.Equal(t, []string{"quit"}, labels(got))

	names = append(names, "home")
	got, err = src.List(context.Background(), StaticScope())
	require.NoError(t, err)
	assert.Equal(t, []string{"quit"}, labels(got), "cached until refreshed")
	assert.Equal(t, 1, calls)

	src.Refresh()
	got, err = src.List(context.Background(), StaticScope())
	require.NoError(t, err)
	assert.Equal(t, []string{"quit", "home"}, labels(got))
	assert.Equal(t, 2, calls)
}

func TestStaticSourceReturnsCopies(t *testing.T) {
	src := NewStaticSource(func() []Candidate {
		return []Candidate{{Key: "a", Label: "a"}}
	})
	first, err := src.List(context.Background(), StaticScope())
	require.NoError(t, err)
	first[0].Label = "mutated"

	second, err := src.List(context.Background(), StaticScope())
	require.NoError(t, err)
	assert.Equal(t, "a", second[0].Label)
}

func TestStaticSourceEmpty(t *testing.T) {
	got, err := NewStaticSource(nil).List(context.Background(), StaticScope())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStaticSourceScopeMismatchAndCancel(t *testing.T) {
	src := NewStaticSource(func() []Candidate { return nil })
	_, err := src.List(context.Background(), PathScope("/tmp"))
	assert.True(t, IsKind(err, ScopeInvalid))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.List(ctx, StaticScope())
	assert.True(t, IsCancelled(err))
}
