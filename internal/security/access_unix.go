//go:build !windows

package security

import "golang.org/x/sys/unix"

func accessible(path string, checkWrite bool) bool {
	mode := uint32(unix.R_OK)
	if checkWrite {
		mode |= unix.W_OK
	}
	return unix.Access(path, mode) == nil
}
