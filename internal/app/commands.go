package app

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/rnav/internal/commands"
	"github.com/kk-code-lab/rnav/internal/source"
	statepkg "github.com/kk-code-lab/rnav/internal/state"
)

// selectionPlaceholder in a shell command is replaced by the highlighted path.
const selectionPlaceholder = "{}"

// executeCommand runs a confirmed palette entry against the browser.
func (app *Application) executeCommand(name, fullInput string) {
	app.closePalette()

	cmd, ok := app.registry.Lookup(name)
	if !ok {
		app.browser.SetStatus(statepkg.Status{Text: "unknown command: " + name, Level: statepkg.StatusWarn})
		return
	}
	_, args := commands.Parse(fullInput)
	app.logger.Debug("command executed", "command", cmd.Name, "action", string(cmd.Action), "args", args)

	switch cmd.Action {
	case commands.ActionGoto:
		target := args
		if target == "" {
			target = cmd.Arg
		}
		if target == "" {
			app.browser.SetStatus(statepkg.Status{Text: "goto: missing path", Level: statepkg.StatusWarn})
			return
		}
		app.reduce(app.browser, statepkg.GoToPathAction{Path: target})
	case commands.ActionHome:
		app.reduce(app.browser, statepkg.GoHomeAction{})
	case commands.ActionBack:
		app.reduce(app.browser, statepkg.HistoryBackAction{})
	case commands.ActionForward:
		app.reduce(app.browser, statepkg.HistoryForwardAction{})
	case commands.ActionRefresh:
		app.reduce(app.browser, statepkg.RefreshAction{})
	case commands.ActionToggleHidden:
		app.reduce(app.browser, statepkg.ToggleHiddenAction{})
	case commands.ActionQuit:
		app.finish(Result{})
	case commands.ActionShell:
		if err := app.runShellCommand(cmd, args); err != nil {
			app.browser.SetStatus(statepkg.Status{Text: fmt.Sprintf("%s: %v", cmd.Name, err), Level: statepkg.StatusError})
			app.logger.Warn("shell command failed", "command", cmd.Name, "err", err)
		}
		app.reduce(app.browser, statepkg.RefreshAction{})
	case commands.ActionPane:
		if cmd.Arg == browserPaneName {
			app.reduce(app.browser, statepkg.NavigateAction{Scope: source.PathScope(app.startDir), Record: true})
			return
		}
		app.browser.SetStatus(statepkg.Status{Text: "no such pane: " + cmd.Arg, Level: statepkg.StatusWarn})
	}
}

// shellCommandArgs expands a configured shell command line. The placeholder
// becomes the highlighted path; extra palette input is appended.
func shellCommandArgs(line, extra, selected string) []string {
	args := parseCommandLine(line)
	for i, arg := range args {
		if strings.Contains(arg, selectionPlaceholder) {
			args[i] = strings.ReplaceAll(arg, selectionPlaceholder, selected)
		}
	}
	return append(args, parseCommandLine(extra)...)
}

func (app *Application) runShellCommand(cmd commands.Command, extra string) error {
	selected := app.browser.Scope().Path
	if item, ok := app.browser.Selected(); ok && !item.Meta.Parent {
		selected = item.Key
	}
	args := shellCommandArgs(cmd.Arg, extra, selected)
	if len(args) == 0 {
		return fmt.Errorf("no command configured")
	}
	return app.runInTerminal(args, app.browser.Scope().Path)
}
