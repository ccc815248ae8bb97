//go:build windows

package security

import "os"

func accessible(path string, checkWrite bool) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if checkWrite && info.Mode().Perm()&0o200 == 0 {
		return false
	}
	return true
}
