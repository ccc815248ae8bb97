package app

import (
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kk-code-lab/rnav/internal/source"
	statepkg "github.com/kk-code-lab/rnav/internal/state"
	"github.com/kk-code-lab/rnav/internal/ui/input"
	renderui "github.com/kk-code-lab/rnav/internal/ui/render"
)

const doubleClickThreshold = 300 * time.Millisecond

// Run owns the UI goroutine until the user quits or confirms a selection.
func (app *Application) Run() {
	app.render()
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-app.ctx.Done():
				return
			}
		}
	}()

	var resumeCh chan os.Signal
	if sigs := resumeSignals(); len(sigs) > 0 {
		resumeCh = make(chan os.Signal, 1)
		signal.Notify(resumeCh, sigs...)
		defer signal.Stop(resumeCh)
	}

	const animationInterval = 80 * time.Millisecond
	var animationTimer *time.Timer
	var animationCh <-chan time.Time

	startAnimation := func() {
		if animationCh != nil {
			return
		}
		if animationTimer == nil {
			animationTimer = time.NewTimer(animationInterval)
		} else {
			animationTimer.Reset(animationInterval)
		}
		animationCh = animationTimer.C
	}

	stopAnimation := func() {
		if animationTimer == nil {
			return
		}
		if !animationTimer.Stop() {
			select {
			case <-animationTimer.C:
			default:
			}
		}
		animationCh = nil
	}

	for !app.shouldQuit {
		if renderPending {
			app.render()
			renderPending = false
		}

		if app.shouldAnimate() {
			startAnimation()
		} else {
			stopAnimation()
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case <-animationCh:
			animationCh = nil
			app.tick++
			renderPending = true
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-resumeCh:
			if app.restoreScreen() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}

	stopAnimation()
}

func (app *Application) render() {
	frame := renderui.Frame{
		Browser: app.browser,
		Help:    app.helpVisible,
		Tick:    app.tick,
	}
	if app.paletteOpen {
		frame.Palette = app.palette
	}
	app.renderer.Render(frame)
}

// shouldAnimate keeps the loading spinner turning while a listing is in flight.
func (app *Application) shouldAnimate() bool {
	if app.paletteOpen {
		return app.palette.Loading()
	}
	return app.browser.Loading()
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventMouse:
		app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for !app.shouldQuit {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
	return changed
}

// focused is the pane keyboard actions apply to.
func (app *Application) focused() *statepkg.Pane {
	if app.paletteOpen {
		return app.palette
	}
	return app.browser
}

func (app *Application) syncFocus() {
	p := app.focused()
	app.input.SetFocus(input.Focus{
		Kind:        p.Kind(),
		QueryEmpty:  p.Query() == "",
		HelpVisible: app.helpVisible,
	})
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}
	defer app.syncFocus()

	switch a := action.(type) {
	case statepkg.QuitAction:
		app.finish(Result{})
		return false
	case statepkg.SuspendAction:
		app.suspend()
		return true
	case statepkg.ResizeAction:
		app.resize(a.Width, a.Height)
		return true
	case statepkg.HelpToggleAction:
		app.helpVisible = !app.helpVisible
		return true
	case statepkg.HelpHideAction:
		app.helpVisible = false
		return true
	case statepkg.OpenPaletteAction:
		app.openPalette()
		return true
	case statepkg.ClosePaletteAction:
		app.closePalette()
		return true
	case statepkg.ExecuteCommandAction:
		app.executeCommand(a.Name, a.FullInput)
		return true
	case watchEvent:
		return app.handleWatchEvent(a.path)
	case routedAction:
		app.reduce(a.pane, a.action)
		return true
	}

	app.reduce(app.focused(), action)
	return true
}

// reduce applies action to p. Errors already became the pane status.
func (app *Application) reduce(p *statepkg.Pane, action statepkg.Action) {
	err := p.Reduce(action)
	if err != nil && !source.IsCancelled(err) {
		var usage *statepkg.UsageError
		if !errors.As(err, &usage) {
			app.logger.Debug("action failed", "pane", p.ID(), "action", actionName(action), "err", err)
		}
	}
	if p == app.browser {
		if _, ok := action.(statepkg.LoadResultAction); ok {
			app.retargetWatcher()
		}
	}
}

func actionName(action statepkg.Action) string {
	switch action.(type) {
	case statepkg.LoadResultAction:
		return "load-result"
	case statepkg.NavigateAction, statepkg.GoToPathAction:
		return "navigate"
	case statepkg.OpenAction:
		return "open"
	case statepkg.ConfirmAction, statepkg.ConfirmScopeAction:
		return "confirm"
	default:
		return "other"
	}
}

// retargetWatcher follows the browser to its committed directory.
func (app *Application) retargetWatcher() {
	if app.watcher == nil || app.browser.Phase() != statepkg.PhaseReady {
		return
	}
	path := app.browser.Scope().Path
	if path == "" || path == app.watchedPath {
		return
	}
	if err := app.watcher.Watch(path); err != nil {
		app.logger.Warn("watch failed", "path", path, "err", err)
		return
	}
	app.watchedPath = path
}

func (app *Application) handleWatchEvent(path string) bool {
	scope := app.browser.Scope()
	if scope.IsZero() || !scope.Equal(source.PathScope(path)) {
		return false
	}
	app.reduce(app.browser, statepkg.RefreshAction{})
	return true
}

func (app *Application) resize(w, h int) {
	app.width, app.height = w, h
	_ = app.browser.Reduce(statepkg.ResizeAction{Width: w, Height: h})
	rect := renderui.PaletteRect(w, h, app.palette.Projector().Limit)
	_ = app.palette.Reduce(statepkg.ResizeAction{Width: rect.W, Height: rect.H})
}

func (app *Application) openPalette() {
	if app.paletteOpen {
		return
	}
	app.paletteOpen = true
	_ = app.palette.Reduce(statepkg.QueryClearAction{})
	_ = app.palette.Reduce(statepkg.SelectFirstAction{})
}

func (app *Application) closePalette() {
	if !app.paletteOpen {
		return
	}
	app.paletteOpen = false
	_ = app.palette.Reduce(statepkg.QueryClearAction{})
}

// handleMouse maps primary-clicks to selection and navigation and the wheel
// to selection movement.
func (app *Application) handleMouse(ev *tcell.EventMouse) {
	if app.helpVisible {
		return
	}
	x, y := ev.Position()
	buttons := ev.Buttons()

	pane := app.browser
	rect := renderui.BrowserRect(app.width, app.height)
	if app.paletteOpen {
		pane = app.palette
		rect = renderui.PaletteRect(app.width, app.height, app.palette.Projector().Limit)
		if buttons&tcell.Button1 != 0 && !inside(rect, x, y) {
			app.closePalette()
			return
		}
	}

	switch {
	case buttons&tcell.WheelUp != 0:
		app.reduce(pane, statepkg.MoveSelectionAction{Delta: -1})
		return
	case buttons&tcell.WheelDown != 0:
		app.reduce(pane, statepkg.MoveSelectionAction{Delta: 1})
		return
	case buttons&tcell.Button1 == 0:
		return
	}

	if !app.paletteOpen && y == 0 {
		app.handleBreadcrumbClick(x)
		return
	}

	idx, ok := renderui.ListIndexAt(pane, rect, y)
	if !ok {
		return
	}
	doubleClick := app.lastClickIndex == idx && time.Since(app.lastClickTime) <= doubleClickThreshold
	app.lastClickIndex = idx
	app.lastClickTime = time.Now()

	app.reduce(pane, statepkg.SelectIndexAction{Index: idx})
	if doubleClick {
		app.lastClickIndex = -1
		app.reduce(pane, statepkg.OpenAction{})
	}
}

func inside(rect renderui.Rect, x, y int) bool {
	return x >= rect.X && x < rect.X+rect.W && y >= rect.Y && y < rect.Y+rect.H
}

func (app *Application) handleBreadcrumbClick(x int) bool {
	path := app.browser.Scope().Path
	if x < 0 || path == "" {
		return false
	}
	pos := runewidth.StringWidth(renderui.AppTitle)
	if x < pos {
		return false
	}
	if pos < app.width {
		pos++ // space after header
	}

	available := app.width - pos
	segments := renderui.FormatBreadcrumbSegments(path)
	if len(segments) == 0 {
		return false
	}

	sepW := runewidth.StringWidth(renderui.BreadcrumbSeparator)

	// Build full breadcrumb text and widths; if it doesn't fit, ignore clicks to avoid mismap.
	totalWidth := 0
	for i, s := range segments {
		if i > 0 {
			totalWidth += sepW
		}
		totalWidth += runewidth.StringWidth(s)
	}
	if totalWidth > available {
		return false
	}

	currentX := pos
	for i, s := range segments {
		if i > 0 {
			if x >= currentX && x < currentX+sepW {
				// click on separator -> treat as previous segment
				app.jumpToBreadcrumb(segments, i-1)
				return true
			}
			currentX += sepW
		}

		segW := runewidth.StringWidth(s)
		if x >= currentX && x < currentX+segW {
			app.jumpToBreadcrumb(segments, i)
			return true
		}
		currentX += segW
	}
	return false
}

func (app *Application) jumpToBreadcrumb(segments []string, idx int) {
	if idx < 0 || idx >= len(segments) {
		return
	}
	app.reduce(app.browser, statepkg.GoToPathAction{Path: buildBreadcrumbPath(segments, idx)})
}

// buildBreadcrumbPath rebuilds the path of segments[:idx+1].
func buildBreadcrumbPath(segments []string, idx int) string {
	path := ""
	for i := 0; i <= idx && i < len(segments); i++ {
		seg := segments[i]
		switch {
		case i == 0 && seg == "/":
			path = string(filepath.Separator)
		case i == 0 && strings.HasSuffix(seg, ":"):
			path = seg + string(filepath.Separator)
		default:
			path = filepath.Join(path, seg)
		}
	}
	if path == "" {
		path = string(filepath.Separator)
	}
	return path
}
