package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rnav/internal/commands"
	"github.com/kk-code-lab/rnav/internal/config"
	statepkg "github.com/kk-code-lab/rnav/internal/state"
)

// makeTree creates ["notes.txt", "sub/"] under a temp dir.
func makeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return dir
}

func newTestApp(t *testing.T, dir string, mutate func(*config.Config)) *Application {
	t.Helper()
	cfg := config.Default()
	cfg.Watch = false
	cfg.DebounceMS = 1
	if mutate != nil {
		mutate(&cfg)
	}

	screen := tcell.NewSimulationScreen("UTF-8")
	app, err := NewApplication(Options{
		StartDir: dir,
		Config:   cfg,
		Registry: commands.NewDefaultRegistry(),
		Screen:   screen,
	})
	if err != nil {
		t.Fatalf("NewApplication: %v", err)
	}
	t.Cleanup(func() {
		_ = app.Close()
	})
	pumpUntil(t, app, func() bool { return app.browser.Phase() == statepkg.PhaseReady })
	return app
}

// pumpUntil plays the UI goroutine: it applies posted actions until cond holds.
func pumpUntil(t *testing.T, app *Application, cond func() bool) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for !cond() {
		select {
		case action := <-app.actionCh:
			app.handleAction(action)
		case <-deadline:
			t.Fatalf("condition not reached before deadline")
		}
	}
}

func labels(p *statepkg.Pane) []string {
	items := p.Projection().Items
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Candidate.Label
	}
	return out
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func selectLabel(t *testing.T, app *Application, p *statepkg.Pane, label string) {
	t.Helper()
	for i, item := range p.Projection().Items {
		if item.Candidate.Label == label {
			app.reduce(p, statepkg.SelectIndexAction{Index: i})
			return
		}
	}
	t.Fatalf("label %q not listed: %v", label, labels(p))
}
