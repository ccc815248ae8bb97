package app

import (
	"fmt"
	"os"
	"os/exec"
)

// suspend hands the terminal back to the shell and stops the process. It
// returns once the shell resumes us.
func (app *Application) suspend() {
	if !jobControl {
		return
	}
	if err := app.screen.Suspend(); err != nil {
		app.logger.Warn("suspend failed", "err", err)
		return
	}
	app.suspended = true
	if err := stopProcess(); err != nil {
		app.logger.Warn("stop failed", "err", err)
	}
	app.restoreScreen()
}

// restoreScreen re-engages the terminal after a stop. A SIGCONT that arrives
// without a prior suspend only repaints.
func (app *Application) restoreScreen() bool {
	if app.suspended {
		if err := app.screen.Resume(); err != nil {
			app.logger.Warn("resume failed", "err", err)
			return false
		}
		app.suspended = false
		app.screen.EnableMouse()
	}
	app.screen.Sync()
	if w, h := app.screen.Size(); w > 0 && h > 0 {
		app.resize(w, h)
	}
	return true
}

// runInTerminal hands the terminal to args until they exit. The child talks
// to the controlling terminal directly when one can be opened so that
// redirected stdio of rnav itself does not leak into it.
func (app *Application) runInTerminal(args []string, dir string) error {
	stdin, stdout, stderr := os.Stdin, os.Stdout, os.Stderr
	if tty, err := openControllingTerminal(); err == nil {
		defer tty.Close()
		stdin, stdout, stderr = tty, tty, tty
	}

	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("suspend screen: %w", err)
	}

	c := exec.Command(args[0], args[1:]...)
	c.Dir = dir
	c.Stdin, c.Stdout, c.Stderr = stdin, stdout, stderr
	runErr := c.Run()

	if err := drainConsoleInput(); err != nil {
		app.logger.Debug("console input not drained", "err", err)
	}
	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("resume screen: %w", err)
	}
	app.screen.Sync()
	return runErr
}
