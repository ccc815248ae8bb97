package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/rnav/internal/state"
)

// Focus describes the UI the next key applies to.
type Focus struct {
	// Kind of the pane receiving keys: the palette while it is open.
	Kind        statepkg.PaneKind
	QueryEmpty  bool
	HelpVisible bool
}

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	focus      Focus
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
		focus:      Focus{QueryEmpty: true},
	}
}

// SetFocus records which pane keys go to and whether its query is empty.
func (ih *InputHandler) SetFocus(focus Focus) {
	ih.focus = focus
}

// ProcessEvent converts a tcell event into an Action. It returns false once
// the event asks the application to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) emit(action statepkg.Action) {
	ih.actionChan <- action
}

// processKeyEvent handles keyboard input
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		ih.emit(statepkg.QuitAction{})
		return false
	}

	if ih.focus.HelpVisible {
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyF1:
			ih.emit(statepkg.HelpHideAction{})
		}
		return true
	}

	browser := ih.focus.Kind == statepkg.PaneBrowser
	alt := ev.Modifiers()&tcell.ModAlt != 0

	switch ev.Key() {
	case tcell.KeyEscape:
		ih.emit(statepkg.CancelAction{})

	case tcell.KeyUp, tcell.KeyCtrlK:
		ih.emit(statepkg.MoveSelectionAction{Delta: -1})
	case tcell.KeyDown, tcell.KeyCtrlJ, tcell.KeyCtrlN:
		ih.emit(statepkg.MoveSelectionAction{Delta: 1})
	case tcell.KeyPgUp:
		ih.emit(statepkg.PageSelectionAction{Pages: -1})
	case tcell.KeyPgDn:
		ih.emit(statepkg.PageSelectionAction{Pages: 1})
	case tcell.KeyHome:
		ih.emit(statepkg.SelectFirstAction{})
	case tcell.KeyEnd:
		ih.emit(statepkg.SelectLastAction{})

	case tcell.KeyEnter:
		ih.emit(statepkg.OpenAction{})
	case tcell.KeyRight:
		if alt {
			if browser {
				ih.emit(statepkg.HistoryForwardAction{})
			}
			return true
		}
		ih.emit(statepkg.OpenAction{})
	case tcell.KeyLeft:
		if !browser {
			return true
		}
		if alt {
			ih.emit(statepkg.HistoryBackAction{})
		} else {
			ih.emit(statepkg.GoUpAction{})
		}
	case tcell.KeyTab:
		ih.emit(statepkg.ConfirmAction{})
	case tcell.KeyCtrlX:
		if browser {
			ih.emit(statepkg.ConfirmScopeAction{})
		}

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		switch {
		case alt:
			ih.emit(statepkg.QueryDeleteWordAction{})
		case ih.focus.QueryEmpty && browser:
			ih.emit(statepkg.GoUpAction{})
		case ih.focus.QueryEmpty:
			ih.emit(statepkg.CancelAction{})
		default:
			ih.emit(statepkg.QueryBackspaceAction{})
		}
	case tcell.KeyCtrlW:
		ih.emit(statepkg.QueryDeleteWordAction{})
	case tcell.KeyCtrlU:
		ih.emit(statepkg.QueryClearAction{})

	case tcell.KeyCtrlT:
		if browser {
			ih.emit(statepkg.ToggleHiddenAction{})
		}
	case tcell.KeyCtrlR, tcell.KeyF5:
		ih.emit(statepkg.RefreshAction{})
	case tcell.KeyCtrlP:
		if browser {
			ih.emit(statepkg.OpenPaletteAction{})
		} else {
			ih.emit(statepkg.ClosePaletteAction{})
		}
	case tcell.KeyCtrlZ:
		ih.emit(statepkg.SuspendAction{})
	case tcell.KeyF1:
		ih.emit(statepkg.HelpToggleAction{})

	case tcell.KeyRune:
		ih.processRune(ev.Rune(), alt, browser)
	}
	return true
}

func (ih *InputHandler) processRune(r rune, alt, browser bool) {
	if alt || !unicode.IsPrint(r) {
		return
	}
	if browser && ih.focus.QueryEmpty {
		switch r {
		case ':':
			ih.emit(statepkg.OpenPaletteAction{})
			return
		case '~':
			ih.emit(statepkg.GoHomeAction{})
			return
		}
	}
	ih.emit(statepkg.QueryCharAction{Char: r})
}
