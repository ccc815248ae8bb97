package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/kk-code-lab/rnav/internal/commands"
	"github.com/kk-code-lab/rnav/internal/config"
	"github.com/kk-code-lab/rnav/internal/security"
	"github.com/kk-code-lab/rnav/internal/source"
	statepkg "github.com/kk-code-lab/rnav/internal/state"
	"github.com/kk-code-lab/rnav/internal/ui/input"
	renderui "github.com/kk-code-lab/rnav/internal/ui/render"
	"github.com/kk-code-lab/rnav/internal/watch"
)

// browserPaneName is the pane type the palette offers to reopen the browser
// at its starting directory.
const browserPaneName = "files"

// ResultKind tells what the user picked before the application quit.
type ResultKind int

const (
	ResultNone ResultKind = iota
	ResultFile
	ResultDirectory
)

// Result is the confirmed selection, if any.
type Result struct {
	Kind ResultKind
	Path string
}

// Directory returns the directory a shell should change into: the selected
// directory itself or the one containing the selected file.
func (r Result) Directory() string {
	switch r.Kind {
	case ResultDirectory:
		return r.Path
	case ResultFile:
		return filepath.Dir(r.Path)
	}
	return ""
}

// Options configures NewApplication.
type Options struct {
	// StartDir defaults to the working directory.
	StartDir string
	Config   config.Config
	Registry *commands.Registry
	Gate     security.Gate
	Logger   *slog.Logger
	// Screen defaults to the terminal.
	Screen tcell.Screen
}

// Application represents the running app.
type Application struct {
	screen   tcell.Screen
	renderer *renderui.Renderer
	input    *input.InputHandler
	actionCh chan statepkg.Action
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	cfg      config.Config
	registry *commands.Registry
	gate     security.Gate
	startDir string

	browser       *statepkg.Pane
	browserLoader *statepkg.AsyncLoader
	palette       *statepkg.Pane
	paletteLoader *statepkg.AsyncLoader
	static        *source.StaticSource
	paletteOpen   bool
	helpVisible   bool

	watcher     *watch.Watcher
	watchedPath string

	width, height int
	tick          int

	lastClickIndex int
	lastClickTime  time.Time

	result     Result
	shouldQuit bool
	suspended  bool
	closed     bool
}

// routedAction carries an action a pane posted for itself back to that pane.
type routedAction struct {
	pane   *statepkg.Pane
	action statepkg.Action
}

// watchEvent reports that the watched directory changed on disk.
type watchEvent struct {
	path string
}

// NewApplication builds the browser and palette panes and starts loading the
// start directory. The caller must Close the application.
func NewApplication(opts Options) (*Application, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Registry == nil {
		opts.Registry = commands.NewDefaultRegistry()
	}
	if opts.Gate == nil {
		opts.Gate = security.AllowAll
	}

	startDir := opts.StartDir
	if startDir == "" {
		cwd, err := GetCwd()
		if err != nil {
			return nil, err
		}
		startDir = cwd
	}
	startDir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	extensions, err := source.NewExtensionFilter(opts.Config.AllowedExtensions)
	if err != nil {
		return nil, err
	}

	screen := opts.Screen
	if screen == nil {
		if screen, err = tcell.NewScreen(); err != nil {
			return nil, err
		}
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Parse mouse sequences so modified clicks don't leak as key events.
	screen.EnableMouse()

	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		screen:         screen,
		renderer:       renderui.NewRenderer(screen),
		actionCh:       make(chan statepkg.Action, 64),
		logger:         opts.Logger,
		ctx:            ctx,
		cancel:         cancel,
		cfg:            opts.Config,
		registry:       opts.Registry,
		gate:           opts.Gate,
		startDir:       startDir,
		lastClickIndex: -1,
	}
	app.input = input.NewInputHandler(app.actionCh)

	if err := app.registry.RegisterPane(browserPaneName, "browse from the start directory"); err != nil {
		app.closeScreen()
		cancel()
		return nil, err
	}

	app.buildBrowser(extensions)
	app.buildPalette()
	app.registry.OnChange(func() {
		app.static.Refresh()
		app.post(routedAction{pane: app.palette, action: statepkg.RefreshAction{}})
	})

	if opts.Config.Watch {
		watcher, err := watch.New(opts.Logger.With("component", "watch"), watch.DefaultDebounce, func(path string) {
			app.post(watchEvent{path: path})
		})
		if err != nil {
			opts.Logger.Warn("filesystem watch disabled", "err", err)
		} else {
			app.watcher = watcher
		}
	}

	w, h := screen.Size()
	app.resize(w, h)
	_ = app.palette.Reduce(statepkg.NavigateAction{Scope: source.StaticScope()})
	if err := app.browser.Reduce(statepkg.NavigateAction{Scope: source.PathScope(startDir), Record: true}); err != nil {
		app.logger.Warn("start directory rejected", "path", startDir, "err", err)
	}
	app.syncFocus()
	return app, nil
}

func (app *Application) buildBrowser(extensions *source.ExtensionFilter) {
	id := uuid.NewString()
	logger := app.logger.With("pane", id)
	app.browserLoader = statepkg.NewAsyncLoader(app.ctx, logger.With("component", "loader"))

	var pane *statepkg.Pane
	pane = statepkg.NewPane(statepkg.PaneConfig{
		ID:   id,
		Kind: statepkg.PaneBrowser,
		Source: source.NewFilesystemSource(source.Options{
			ShowHidden: app.cfg.ShowHidden,
			Extensions: extensions,
			Gate:       app.gate,
			Logger:     logger.With("component", "source"),
		}),
		Loader:    app.browserLoader,
		Gate:      app.gate,
		Mode:      app.cfg.SelectionMode(),
		Projector: statepkg.BrowserProjector(app.cfg.DirectoryLimit),
		Debounce:  app.cfg.Debounce(),
		Callbacks: statepkg.Callbacks{
			OnFileSelected: func(path string) {
				app.finish(Result{Kind: ResultFile, Path: path})
			},
			OnDirectorySelected: func(path string) {
				app.finish(Result{Kind: ResultDirectory, Path: path})
			},
			OnSelectionCancelled: func() {
				app.finish(Result{})
			},
		},
		Dispatch: func(action statepkg.Action) {
			app.post(routedAction{pane: pane, action: action})
		},
		Logger: app.logger,
	})
	app.browser = pane
}

func (app *Application) buildPalette() {
	id := uuid.NewString()
	logger := app.logger.With("pane", id)
	app.paletteLoader = statepkg.NewAsyncLoader(app.ctx, logger.With("component", "loader"))
	app.static = source.NewStaticSource(app.registry.Candidates)

	var pane *statepkg.Pane
	pane = statepkg.NewPane(statepkg.PaneConfig{
		ID:        id,
		Kind:      statepkg.PanePalette,
		Source:    app.static,
		Loader:    app.paletteLoader,
		Gate:      app.gate,
		Projector: statepkg.PaletteProjector(app.cfg.CommandLimit),
		Debounce:  app.cfg.Debounce(),
		Callbacks: statepkg.Callbacks{
			OnSelectionCancelled: func() {
				app.post(statepkg.ClosePaletteAction{})
			},
			OnCommandExecuted: func(name, fullInput string) {
				app.post(statepkg.ExecuteCommandAction{Name: name, FullInput: fullInput})
			},
		},
		Dispatch: func(action statepkg.Action) {
			app.post(routedAction{pane: pane, action: action})
		},
		Logger: app.logger,
	})
	app.palette = pane
}

// post hands an action to the UI goroutine. It never blocks the caller:
// loader and timer goroutines fall back to a goroutine that gives up once
// the application is closed.
func (app *Application) post(action statepkg.Action) {
	select {
	case app.actionCh <- action:
	default:
		go func() {
			select {
			case app.actionCh <- action:
			case <-app.ctx.Done():
			}
		}()
	}
}

func (app *Application) finish(result Result) {
	app.result = result
	app.shouldQuit = true
}

// Result returns what the user confirmed before quitting.
func (app *Application) Result() Result {
	return app.result
}

// Close cancels in-flight work, stops the watcher and releases the terminal.
func (app *Application) Close() error {
	if app.closed {
		return nil
	}
	app.closed = true

	app.browser.Dispose()
	app.palette.Dispose()
	app.cancel()
	app.browserLoader.Wait()
	app.paletteLoader.Wait()

	var err error
	if app.watcher != nil {
		if closeErr := app.watcher.Close(); closeErr != nil {
			err = fmt.Errorf("close watcher: %w", closeErr)
		}
	}
	app.closeScreen()
	return err
}

func (app *Application) closeScreen() {
	app.screen.Fini()
}

// GetCwd returns current working directory.
func GetCwd() (string, error) {
	return os.Getwd()
}
