//go:build windows

package shellsetup

import (
	"os"

	"golang.org/x/sys/windows"
)

// DetectParentShellName returns the image path of the parent process, or ""
// when it cannot be queried.
func DetectParentShellName() string {
	ppid := os.Getppid()
	if ppid <= 0 {
		return ""
	}

	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(ppid))
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(handle)

	// Grow the buffer until the image path fits; long paths exceed MAX_PATH.
	for n := uint32(windows.MAX_PATH); n <= 1<<15; n *= 2 {
		buf := make([]uint16, n)
		size := n
		err := windows.QueryFullProcessImageName(handle, 0, &buf[0], &size)
		if err == nil {
			return windows.UTF16ToString(buf[:size])
		}
		if err != windows.ERROR_INSUFFICIENT_BUFFER {
			return ""
		}
	}
	return ""
}
