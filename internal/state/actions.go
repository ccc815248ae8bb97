package state

import "github.com/kk-code-lab/rnav/internal/source"

// Action is the base interface for all pane mutations. Actions are applied
// one at a time by Pane.Reduce on the UI goroutine.
type Action interface{}

// ===== NAVIGATION ACTIONS =====

// NavigateAction requests a scope change. Record adds the scope to history.
type NavigateAction struct {
	Scope  source.Scope
	Record bool
}

// GoToPathAction navigates to a user-typed path. Relative paths resolve
// against the current scope and a leading ~ expands to the home directory.
type GoToPathAction struct {
	Path string
}

type GoUpAction struct{}
type GoHomeAction struct{}
type HistoryBackAction struct{}
type HistoryForwardAction struct{}

// RefreshAction re-runs the source for the current scope.
type RefreshAction struct{}

type ToggleHiddenAction struct{}

// ===== QUERY ACTIONS =====

type QueryCharAction struct {
	Char rune
}
type QueryBackspaceAction struct{}
type QueryDeleteWordAction struct{}
type QueryClearAction struct{}
type SetQueryAction struct {
	Text string
}

// QueryDebounceAction is posted by the query pump once input settles.
type QueryDebounceAction struct {
	Revision uint64
}

// ===== SELECTION ACTIONS =====

type MoveSelectionAction struct {
	Delta int
}
type PageSelectionAction struct {
	Pages int
}
type SelectFirstAction struct{}
type SelectLastAction struct{}
type SelectIndexAction struct {
	Index int
}

// OpenAction descends into the highlighted directory or confirms the
// highlighted file or command.
type OpenAction struct{}

// ConfirmAction confirms the highlighted candidate without descending.
type ConfirmAction struct{}

// ConfirmScopeAction confirms the directory currently being browsed.
type ConfirmScopeAction struct{}

// CancelAction clears the query, or cancels the selection when it is empty.
type CancelAction struct{}

// ===== ASYNC RESULTS =====

// LoadResultAction carries a finished enumeration back to the UI goroutine.
type LoadResultAction LoadResult

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}

// DisposeAction releases the pane; later actions are ignored.
type DisposeAction struct{}

// ===== APPLICATION ACTIONS =====

type QuitAction struct{}
type SuspendAction struct{}
type OpenPaletteAction struct{}
type ClosePaletteAction struct{}
type HelpToggleAction struct{}
type HelpHideAction struct{}

// ExecuteCommandAction is posted to the application when a palette command
// has been confirmed.
type ExecuteCommandAction struct {
	Name      string
	FullInput string
}
