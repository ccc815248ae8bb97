package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/rnav/internal/state"
)

func sendKey(t *testing.T, focus Focus, ev *tcell.EventKey) (statepkg.Action, bool) {
	t.Helper()
	actionChan := make(chan statepkg.Action, 1)
	handler := NewInputHandler(actionChan)
	handler.SetFocus(focus)

	keepRunning := handler.ProcessEvent(ev)

	select {
	case action := <-actionChan:
		return action, keepRunning
	default:
		return nil, keepRunning
	}
}

func browserFocus(queryEmpty bool) Focus {
	return Focus{Kind: statepkg.PaneBrowser, QueryEmpty: queryEmpty}
}

func paletteFocus(queryEmpty bool) Focus {
	return Focus{Kind: statepkg.PanePalette, QueryEmpty: queryEmpty}
}

func TestRunesExtendTheQuery(t *testing.T) {
	action, _ := sendKey(t, browserFocus(false), tcell.NewEventKey(tcell.KeyRune, 'a', 0))
	char, ok := action.(statepkg.QueryCharAction)
	if !ok || char.Char != 'a' {
		t.Fatalf("expected QueryCharAction{'a'}, got %#v", action)
	}
}

func TestColonOpensPaletteOnlyWithEmptyQuery(t *testing.T) {
	action, _ := sendKey(t, browserFocus(true), tcell.NewEventKey(tcell.KeyRune, ':', 0))
	if _, ok := action.(statepkg.OpenPaletteAction); !ok {
		t.Fatalf("expected OpenPaletteAction, got %T", action)
	}

	action, _ = sendKey(t, browserFocus(false), tcell.NewEventKey(tcell.KeyRune, ':', 0))
	if _, ok := action.(statepkg.QueryCharAction); !ok {
		t.Fatalf("':' inside a query should be typed, got %T", action)
	}

	action, _ = sendKey(t, paletteFocus(true), tcell.NewEventKey(tcell.KeyRune, ':', 0))
	if _, ok := action.(statepkg.QueryCharAction); !ok {
		t.Fatalf("':' in the palette should be typed, got %T", action)
	}
}

func TestBackspaceGoesUpWhenQueryEmpty(t *testing.T) {
	action, _ := sendKey(t, browserFocus(true), tcell.NewEventKey(tcell.KeyBackspace2, 0, 0))
	if _, ok := action.(statepkg.GoUpAction); !ok {
		t.Fatalf("expected GoUpAction, got %T", action)
	}

	action, _ = sendKey(t, browserFocus(false), tcell.NewEventKey(tcell.KeyBackspace2, 0, 0))
	if _, ok := action.(statepkg.QueryBackspaceAction); !ok {
		t.Fatalf("expected QueryBackspaceAction, got %T", action)
	}

	action, _ = sendKey(t, paletteFocus(true), tcell.NewEventKey(tcell.KeyBackspace2, 0, 0))
	if _, ok := action.(statepkg.CancelAction); !ok {
		t.Fatalf("backspace on an empty palette should cancel, got %T", action)
	}
}

func TestEnterAndRightOpen(t *testing.T) {
	for _, key := range []tcell.Key{tcell.KeyEnter, tcell.KeyRight} {
		action, _ := sendKey(t, browserFocus(true), tcell.NewEventKey(key, 0, 0))
		if _, ok := action.(statepkg.OpenAction); !ok {
			t.Fatalf("key %v: expected OpenAction, got %T", key, action)
		}
	}
}

func TestAltArrowsWalkHistory(t *testing.T) {
	action, _ := sendKey(t, browserFocus(true), tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModAlt))
	if _, ok := action.(statepkg.HistoryBackAction); !ok {
		t.Fatalf("expected HistoryBackAction, got %T", action)
	}
	action, _ = sendKey(t, browserFocus(true), tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModAlt))
	if _, ok := action.(statepkg.HistoryForwardAction); !ok {
		t.Fatalf("expected HistoryForwardAction, got %T", action)
	}
}

func TestLeftIgnoredInPalette(t *testing.T) {
	action, _ := sendKey(t, paletteFocus(true), tcell.NewEventKey(tcell.KeyLeft, 0, 0))
	if action != nil {
		t.Fatalf("left arrow in the palette should do nothing, got %T", action)
	}
}

func TestConfirmKeys(t *testing.T) {
	action, _ := sendKey(t, browserFocus(true), tcell.NewEventKey(tcell.KeyTab, 0, 0))
	if _, ok := action.(statepkg.ConfirmAction); !ok {
		t.Fatalf("expected ConfirmAction, got %T", action)
	}
	action, _ = sendKey(t, browserFocus(true), tcell.NewEventKey(tcell.KeyCtrlX, 0, tcell.ModCtrl))
	if _, ok := action.(statepkg.ConfirmScopeAction); !ok {
		t.Fatalf("expected ConfirmScopeAction, got %T", action)
	}
}

func TestPagingKeys(t *testing.T) {
	action, _ := sendKey(t, browserFocus(true), tcell.NewEventKey(tcell.KeyPgDn, 0, 0))
	if page, ok := action.(statepkg.PageSelectionAction); !ok || page.Pages != 1 {
		t.Fatalf("expected PageSelectionAction{1}, got %#v", action)
	}
	action, _ = sendKey(t, browserFocus(true), tcell.NewEventKey(tcell.KeyUp, 0, 0))
	if move, ok := action.(statepkg.MoveSelectionAction); !ok || move.Delta != -1 {
		t.Fatalf("expected MoveSelectionAction{-1}, got %#v", action)
	}
}

func TestCtrlCQuitsEvenWithHelpVisible(t *testing.T) {
	focus := browserFocus(true)
	focus.HelpVisible = true
	action, keepRunning := sendKey(t, focus, tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))
	if _, ok := action.(statepkg.QuitAction); !ok {
		t.Fatalf("expected QuitAction, got %T", action)
	}
	if keepRunning {
		t.Fatalf("Ctrl+C should stop the loop")
	}
}

func TestHelpSwallowsKeys(t *testing.T) {
	focus := browserFocus(true)
	focus.HelpVisible = true

	action, _ := sendKey(t, focus, tcell.NewEventKey(tcell.KeyRune, 'x', 0))
	if action != nil {
		t.Fatalf("typing under the help overlay should be ignored, got %T", action)
	}
	action, _ = sendKey(t, focus, tcell.NewEventKey(tcell.KeyEscape, 0, 0))
	if _, ok := action.(statepkg.HelpHideAction); !ok {
		t.Fatalf("expected HelpHideAction, got %T", action)
	}
}

func TestCtrlPTogglesPalette(t *testing.T) {
	action, _ := sendKey(t, browserFocus(true), tcell.NewEventKey(tcell.KeyCtrlP, 0, tcell.ModCtrl))
	if _, ok := action.(statepkg.OpenPaletteAction); !ok {
		t.Fatalf("expected OpenPaletteAction, got %T", action)
	}
	action, _ = sendKey(t, paletteFocus(false), tcell.NewEventKey(tcell.KeyCtrlP, 0, tcell.ModCtrl))
	if _, ok := action.(statepkg.ClosePaletteAction); !ok {
		t.Fatalf("expected ClosePaletteAction, got %T", action)
	}
}

func TestResizeEmitsDimensions(t *testing.T) {
	actionChan := make(chan statepkg.Action, 1)
	handler := NewInputHandler(actionChan)
	handler.ProcessEvent(tcell.NewEventResize(100, 40))

	resize, ok := (<-actionChan).(statepkg.ResizeAction)
	if !ok || resize.Width != 100 || resize.Height != 40 {
		t.Fatalf("expected ResizeAction{100,40}, got %#v", resize)
	}
}
