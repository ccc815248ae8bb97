//go:build !windows

package app

import (
	"os"
	"syscall"
)

const jobControl = true

func resumeSignals() []os.Signal {
	return []os.Signal{syscall.SIGCONT}
}

// stopProcess stops only this process. Signalling the process group would
// also stop the shell function that launched us and break `fg`.
func stopProcess() error {
	return syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)
}

func openControllingTerminal() (*os.File, error) {
	return os.OpenFile("/dev/tty", os.O_RDWR, 0)
}

func drainConsoleInput() error {
	return nil
}
