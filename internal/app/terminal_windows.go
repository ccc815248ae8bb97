//go:build windows

package app

import (
	"errors"
	"os"

	"golang.org/x/sys/windows"
)

// Windows consoles have no job control.
const jobControl = false

func resumeSignals() []os.Signal {
	return nil
}

func stopProcess() error {
	return errors.ErrUnsupported
}

func openControllingTerminal() (*os.File, error) {
	return nil, errors.ErrUnsupported
}

// drainConsoleInput discards keystrokes the child left in the console buffer
// so they do not replay into the UI.
func drainConsoleInput() error {
	handle, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil {
		return err
	}
	return windows.FlushConsoleInputBuffer(handle)
}
