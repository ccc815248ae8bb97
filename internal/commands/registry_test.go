package commands

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kk-code-lab/rnav/internal/source"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input, name, args string
	}{
		{"", "", ""},
		{"  goto  ", "goto", ""},
		{"goto /tmp", "goto", "/tmp"},
		{"goto   /tmp/a b ", "goto", "/tmp/a b"},
		{"\tshell\tls -la", "shell", "ls -la"},
	}
	for _, tt := range tests {
		name, args := Parse(tt.input)
		assert.Equal(t, tt.name, name, tt.input)
		assert.Equal(t, tt.args, args, tt.input)
	}
}

func TestRegistryCandidatesSortedWithKinds(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Command{Name: "quit", Action: ActionQuit, Description: "bye"}))
	require.NoError(t, r.Register(Command{Name: "Goto", Action: ActionGoto}))
	require.NoError(t, r.RegisterPane("browser", "directory browser"))

	got := r.Candidates()
	require.Len(t, got, 3)
	assert.Equal(t, "browser", got[0].Label)
	assert.Equal(t, source.KindPane, got[0].Kind)
	assert.Equal(t, "Goto", got[1].Label)
	assert.Equal(t, "quit", got[2].Label)
	assert.Equal(t, source.KindCommand, got[2].Kind)
	assert.Equal(t, "bye", got[2].Meta.Description)
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Command{Name: "proj", Action: ActionGoto, Arg: "~/src"}))
	require.NoError(t, r.RegisterPane("palette", "commands"))

	cmd, ok := r.Lookup("proj")
	require.True(t, ok)
	assert.Equal(t, "~/src", cmd.Arg)

	cmd, ok = r.Lookup("palette")
	require.True(t, ok)
	assert.Equal(t, ActionPane, cmd.Action)
	assert.Equal(t, "palette", cmd.Arg)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistryRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(Command{Name: "", Action: ActionQuit}))
	assert.Error(t, r.Register(Command{Name: "two words", Action: ActionQuit}))
	assert.Error(t, r.Register(Command{Name: "x", Action: "explode"}))
	assert.Equal(t, 0, len(r.Candidates()))
}

func TestRegistryOnChange(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.OnChange(func() {
		calls++
		// Listeners may read the registry.
		_ = r.Candidates()
	})

	require.NoError(t, r.Register(Command{Name: "a", Action: ActionQuit}))
	require.NoError(t, r.RegisterPane("b", ""))
	assert.True(t, r.Unregister("a"))
	assert.False(t, r.Unregister("a"))
	assert.Equal(t, 3, calls)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = r.Register(Command{Name: string(rune('a' + i)), Action: ActionRefresh})
		}(i)
		go func() {
			defer wg.Done()
			_ = r.Candidates()
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, len(r.Candidates()))
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction(" Toggle-Hidden ")
	require.NoError(t, err)
	assert.Equal(t, ActionToggleHidden, a)

	_, err = ParseAction("nope")
	assert.Error(t, err)
}

func TestBuiltinsRegister(t *testing.T) {
	r := NewRegistry()
	for _, cmd := range Builtins() {
		require.NoError(t, r.Register(cmd))
	}
	assert.Equal(t, len(Builtins()), len(r.Candidates()))
}

func TestNewDefaultRegistryHoldsBuiltins(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, len(Builtins()), len(r.Candidates()))

	cmd, ok := r.Lookup("goto")
	require.True(t, ok)
	assert.Equal(t, ActionGoto, cmd.Action)
}
