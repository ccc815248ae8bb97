// Package commands holds the registry of palette entries: built-in and
// user-configured commands plus the pane types that can be opened.
package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/kk-code-lab/rnav/internal/source"
)

// Action names what a command does when executed.
type Action string

const (
	ActionGoto         Action = "goto"
	ActionToggleHidden Action = "toggle-hidden"
	ActionRefresh      Action = "refresh"
	ActionHome         Action = "home"
	ActionBack         Action = "back"
	ActionForward      Action = "forward"
	ActionQuit         Action = "quit"
	ActionShell        Action = "shell"
	ActionPane         Action = "pane"
)

var knownActions = map[Action]bool{
	ActionGoto:         true,
	ActionToggleHidden: true,
	ActionRefresh:      true,
	ActionHome:         true,
	ActionBack:         true,
	ActionForward:      true,
	ActionQuit:         true,
	ActionShell:        true,
	ActionPane:         true,
}

// ParseAction validates an action name from configuration.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if !knownActions[a] {
		return "", fmt.Errorf("unknown command action %q", s)
	}
	return a, nil
}

// Command is one palette entry. Arg is a default argument used when the
// user types none.
type Command struct {
	Name        string
	Description string
	Action      Action
	Arg         string
}

// Builtins returns the commands every palette starts with.
func Builtins() []Command {
	return []Command{
		{Name: "goto", Description: "go to a directory", Action: ActionGoto},
		{Name: "home", Description: "go to the home directory", Action: ActionHome},
		{Name: "back", Description: "go back in history", Action: ActionBack},
		{Name: "forward", Description: "go forward in history", Action: ActionForward},
		{Name: "refresh", Description: "reload the current directory", Action: ActionRefresh},
		{Name: "toggle-hidden", Description: "show or hide hidden files", Action: ActionToggleHidden},
		{Name: "quit", Description: "quit without selecting", Action: ActionQuit},
	}
}

// Registry is safe for concurrent use. Listeners registered with OnChange
// run after every mutation, outside the registry lock.
type Registry struct {
	mu        sync.RWMutex
	commands  map[string]Command
	panes     map[string]string
	listeners []func()
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		panes:    make(map[string]string),
	}
}

// NewDefaultRegistry returns a registry holding the built-in commands.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, cmd := range Builtins() {
		r.commands[cmd.Name] = cmd
	}
	return r
}

// Register adds or replaces a command.
func (r *Registry) Register(cmd Command) error {
	if err := validateName(cmd.Name); err != nil {
		return err
	}
	if !knownActions[cmd.Action] {
		return fmt.Errorf("command %q: unknown action %q", cmd.Name, cmd.Action)
	}
	r.mu.Lock()
	r.commands[cmd.Name] = cmd
	r.mu.Unlock()
	r.changed()
	return nil
}

// RegisterPane makes a pane type discoverable in the palette.
func (r *Registry) RegisterPane(name, description string) error {
	if err := validateName(name); err != nil {
		return err
	}
	r.mu.Lock()
	r.panes[name] = description
	r.mu.Unlock()
	r.changed()
	return nil
}

// Unregister removes a command or pane type.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	_, isCmd := r.commands[name]
	_, isPane := r.panes[name]
	delete(r.commands, name)
	delete(r.panes, name)
	r.mu.Unlock()
	if isCmd || isPane {
		r.changed()
	}
	return isCmd || isPane
}

// Lookup finds a command by name. Pane types resolve to an ActionPane command.
func (r *Registry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cmd, ok := r.commands[name]; ok {
		return cmd, true
	}
	if desc, ok := r.panes[name]; ok {
		return Command{Name: name, Description: desc, Action: ActionPane, Arg: name}, true
	}
	return Command{}, false
}

// Candidates snapshots the registry as palette candidates ordered by name.
func (r *Registry) Candidates() []source.Candidate {
	r.mu.RLock()
	out := make([]source.Candidate, 0, len(r.commands)+len(r.panes))
	for name, cmd := range r.commands {
		out = append(out, source.Candidate{
			Key:   name,
			Label: name,
			Kind:  source.KindCommand,
			Meta:  source.Metadata{Description: cmd.Description, Icon: ":"},
		})
	}
	for name, desc := range r.panes {
		if _, shadowed := r.commands[name]; shadowed {
			continue
		}
		out = append(out, source.Candidate{
			Key:   name,
			Label: name,
			Kind:  source.KindPane,
			Meta:  source.Metadata{Description: desc, Icon: "□"},
		})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return source.CompareLabels(out[i].Label, out[j].Label) < 0
	})
	return out
}

// OnChange registers fn to run after each mutation.
func (r *Registry) OnChange(fn func()) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

func (r *Registry) changed() {
	r.mu.RLock()
	listeners := make([]func(), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("command name is empty")
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("command name %q contains whitespace", name)
	}
	return nil
}

// Parse splits palette input into the command word and the rest.
func Parse(input string) (name, args string) {
	trimmed := strings.TrimSpace(input)
	idx := strings.IndexFunc(trimmed, unicode.IsSpace)
	if idx < 0 {
		return trimmed, ""
	}
	return trimmed[:idx], strings.TrimSpace(trimmed[idx:])
}
