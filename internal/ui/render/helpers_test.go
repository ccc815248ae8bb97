package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rnav/internal/source"
	statepkg "github.com/kk-code-lab/rnav/internal/state"
)

// testPane drives a real pane to a committed listing. Actions the pane posts
// to itself (load results, debounce ticks) are pumped by settle.
type testPane struct {
	t       *testing.T
	pane    *statepkg.Pane
	actions chan statepkg.Action
}

func newTestPane(t *testing.T, kind statepkg.PaneKind, src source.Source, scope source.Scope) *testPane {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	loader := statepkg.NewAsyncLoader(ctx, nil)
	tp := &testPane{t: t, actions: make(chan statepkg.Action, 64)}

	projector := statepkg.BrowserProjector(0)
	if kind == statepkg.PanePalette {
		projector = statepkg.PaletteProjector(0)
	}
	tp.pane = statepkg.NewPane(statepkg.PaneConfig{
		ID:        "render-test",
		Kind:      kind,
		Source:    src,
		Loader:    loader,
		Projector: projector,
		Debounce:  time.Millisecond,
		Dispatch:  func(a statepkg.Action) { tp.actions <- a },
	})
	t.Cleanup(func() {
		tp.pane.Dispose()
		cancel()
		loader.Wait()
	})

	_ = tp.pane.Reduce(statepkg.ResizeAction{Width: 60, Height: 12})
	_ = tp.pane.Reduce(statepkg.NavigateAction{Scope: scope, Record: true})
	tp.settle()
	return tp
}

// settle applies the next posted action.
func (tp *testPane) settle() {
	tp.t.Helper()
	select {
	case a := <-tp.actions:
		_ = tp.pane.Reduce(a)
	case <-time.After(2 * time.Second):
		tp.t.Fatalf("pane posted nothing")
	}
}

func (tp *testPane) query(text string) {
	tp.t.Helper()
	_ = tp.pane.Reduce(statepkg.SetQueryAction{Text: text})
	tp.settle()
}

func makeDir(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range files {
		if strings.HasSuffix(name, "/") {
			if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", name, err)
			}
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func rowText(screen tcell.SimulationScreen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		mainc, _, _, width := screen.GetContent(x, y)
		b.WriteRune(mainc)
		if width > 1 {
			x += width - 1
		}
	}
	return strings.TrimRight(b.String(), " ")
}
