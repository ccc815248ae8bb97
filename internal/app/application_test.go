package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kk-code-lab/rnav/internal/commands"
	"github.com/kk-code-lab/rnav/internal/config"
	"github.com/kk-code-lab/rnav/internal/source"
	statepkg "github.com/kk-code-lab/rnav/internal/state"
)

func TestApplicationLoadsStartDirectory(t *testing.T) {
	dir := makeTree(t)
	app := newTestApp(t, dir, nil)

	got := labels(app.browser)
	if len(got) != 3 || got[0] != ".." || got[1] != "sub" || got[2] != "notes.txt" {
		t.Fatalf("listing = %v", got)
	}
	if app.browser.ID() == app.palette.ID() || app.browser.ID() == "" {
		t.Fatalf("panes need distinct ids, got %q and %q", app.browser.ID(), app.palette.ID())
	}
}

func TestOpenFileFinishesWithResult(t *testing.T) {
	dir := makeTree(t)
	app := newTestApp(t, dir, nil)

	selectLabel(t, app, app.browser, "notes.txt")
	app.handleAction(statepkg.OpenAction{})

	if !app.shouldQuit {
		t.Fatalf("confirming a file should quit")
	}
	want := filepath.Join(dir, "notes.txt")
	if got := app.Result(); got.Kind != ResultFile || got.Path != want {
		t.Fatalf("result = %+v, want file %q", got, want)
	}
	if got := app.Result().Directory(); got != dir {
		t.Fatalf("result directory = %q, want %q", got, dir)
	}
}

func TestOpenDirectoryDescends(t *testing.T) {
	dir := makeTree(t)
	app := newTestApp(t, dir, nil)

	selectLabel(t, app, app.browser, "sub")
	app.handleAction(statepkg.OpenAction{})
	sub := filepath.Join(dir, "sub")
	pumpUntil(t, app, func() bool { return app.browser.Scope().Path == sub })

	if app.shouldQuit {
		t.Fatalf("descending must not quit")
	}
}

func TestConfirmScopeSelectsDirectory(t *testing.T) {
	dir := makeTree(t)
	app := newTestApp(t, dir, nil)

	app.handleAction(statepkg.ConfirmScopeAction{})
	if got := app.Result(); got.Kind != ResultDirectory || got.Path != dir {
		t.Fatalf("result = %+v, want directory %q", got, dir)
	}
}

func TestCancelWithEmptyQueryQuitsWithoutResult(t *testing.T) {
	dir := makeTree(t)
	app := newTestApp(t, dir, nil)

	app.handleAction(statepkg.CancelAction{})
	if !app.shouldQuit {
		t.Fatalf("cancel should quit")
	}
	if got := app.Result(); got.Kind != ResultNone || got.Directory() != "" {
		t.Fatalf("cancel should leave no result, got %+v", got)
	}
}

func TestFileRejectedInDirectoryMode(t *testing.T) {
	dir := makeTree(t)
	app := newTestApp(t, dir, func(cfg *config.Config) {
		cfg.Mode = "directory"
	})

	selectLabel(t, app, app.browser, "notes.txt")
	app.handleAction(statepkg.ConfirmAction{})

	if app.shouldQuit {
		t.Fatalf("a file must not be accepted in directory mode")
	}
	if status := app.browser.Status(); status.Level != statepkg.StatusWarn || status.Text == "" {
		t.Fatalf("expected a usage warning, got %+v", status)
	}
}

func TestAllowedExtensionsFilterListing(t *testing.T) {
	dir := makeTree(t)
	if err := os.WriteFile(filepath.Join(dir, "main.go"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	app := newTestApp(t, dir, func(cfg *config.Config) {
		cfg.AllowedExtensions = []string{"go"}
	})

	got := labels(app.browser)
	if contains(got, "notes.txt") || !contains(got, "main.go") || !contains(got, "sub") {
		t.Fatalf("listing = %v", got)
	}
}

func TestPaletteExecutesGotoWithArguments(t *testing.T) {
	dir := makeTree(t)
	app := newTestApp(t, dir, nil)

	app.handleAction(statepkg.OpenPaletteAction{})
	if !app.paletteOpen || app.focused() != app.palette {
		t.Fatalf("palette should take focus")
	}
	app.handleAction(statepkg.SetQueryAction{Text: "goto sub"})
	pumpUntil(t, app, func() bool {
		items := app.palette.Projection().Items
		return app.palette.Projection().Query == "goto sub" && len(items) > 0
	})
	if got := labels(app.palette); got[0] != "goto" {
		t.Fatalf("palette should rank goto first, got %v", got)
	}

	app.handleAction(statepkg.OpenAction{})
	sub := filepath.Join(dir, "sub")
	pumpUntil(t, app, func() bool { return app.browser.Scope().Path == sub })

	if app.paletteOpen {
		t.Fatalf("executing a command should close the palette")
	}
	if app.palette.Query() != "" {
		t.Fatalf("palette query should be cleared, got %q", app.palette.Query())
	}
}

func TestPaletteEscapeClosesPalette(t *testing.T) {
	dir := makeTree(t)
	app := newTestApp(t, dir, nil)

	app.handleAction(statepkg.OpenPaletteAction{})
	app.handleAction(statepkg.CancelAction{})
	pumpUntil(t, app, func() bool { return !app.paletteOpen })

	if app.shouldQuit {
		t.Fatalf("closing the palette must not quit")
	}
}

func TestRegistryChangeRefreshesPalette(t *testing.T) {
	dir := makeTree(t)
	app := newTestApp(t, dir, nil)
	pumpUntil(t, app, func() bool { return app.palette.Phase() == statepkg.PhaseReady })

	if err := app.registry.Register(commands.Command{Name: "zzz-custom", Description: "custom", Action: commands.ActionRefresh}); err != nil {
		t.Fatalf("register: %v", err)
	}
	pumpUntil(t, app, func() bool { return contains(labels(app.palette), "zzz-custom") })
}

func TestWatchEventRefreshesBrowser(t *testing.T) {
	dir := makeTree(t)
	app := newTestApp(t, dir, nil)

	if err := os.WriteFile(filepath.Join(dir, "fresh.txt"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if app.handleAction(watchEvent{path: filepath.Join(dir, "elsewhere")}) {
		t.Fatalf("events for other directories should be ignored")
	}
	app.handleAction(watchEvent{path: dir})
	pumpUntil(t, app, func() bool { return contains(labels(app.browser), "fresh.txt") })
}

func TestWatcherFollowsCommittedDirectory(t *testing.T) {
	dir := makeTree(t)
	app := newTestApp(t, dir, func(cfg *config.Config) {
		cfg.Watch = true
	})
	if app.watcher == nil {
		t.Skip("filesystem notifications unavailable")
	}
	if app.watchedPath != dir {
		t.Fatalf("watched = %q, want %q", app.watchedPath, dir)
	}

	sub := filepath.Join(dir, "sub")
	app.handleAction(statepkg.NavigateAction{Scope: source.PathScope(sub), Record: true})
	pumpUntil(t, app, func() bool { return app.browser.Scope().Path == sub })
	if app.watchedPath != sub {
		t.Fatalf("watched = %q, want %q", app.watchedPath, sub)
	}
}

func TestUnknownCommandSetsStatus(t *testing.T) {
	dir := makeTree(t)
	app := newTestApp(t, dir, nil)

	app.executeCommand("nope", "nope")
	if status := app.browser.Status(); status.Level != statepkg.StatusWarn {
		t.Fatalf("status = %+v", status)
	}
}

func TestPaneCommandReturnsToStartDirectory(t *testing.T) {
	dir := makeTree(t)
	app := newTestApp(t, dir, nil)
	sub := filepath.Join(dir, "sub")
	app.handleAction(statepkg.GoToPathAction{Path: sub})
	pumpUntil(t, app, func() bool { return app.browser.Scope().Path == sub })

	app.executeCommand(browserPaneName, browserPaneName)
	pumpUntil(t, app, func() bool { return app.browser.Scope().Path == dir })
}

func TestHelpToggle(t *testing.T) {
	dir := makeTree(t)
	app := newTestApp(t, dir, nil)

	app.handleAction(statepkg.HelpToggleAction{})
	if !app.helpVisible {
		t.Fatalf("help should be visible")
	}
	app.handleAction(statepkg.HelpHideAction{})
	if app.helpVisible {
		t.Fatalf("help should be hidden")
	}
}
