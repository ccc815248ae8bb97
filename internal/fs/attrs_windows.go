//go:build windows

package fs

import (
	"os"

	"golang.org/x/sys/windows"
)

func fileAttributes(fullPath, name string) (uint32, error) {
	target := fullPath
	if target == "" {
		target = name
	}
	if target == "" {
		return 0, os.ErrInvalid
	}

	ptr, err := windows.UTF16PtrFromString(target)
	if err != nil {
		return 0, err
	}
	return windows.GetFileAttributes(ptr)
}

func hasHiddenAttribute(fullPath, name string) bool {
	attrs, err := fileAttributes(fullPath, name)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}

// NeverList reports whether an entry must be left out of every listing, even
// when hidden files are shown (compatibility junctions such as "Application Data").
func NeverList(fullPath, name string) bool {
	attrs, err := fileAttributes(fullPath, name)
	if err != nil {
		return false
	}
	const protected = windows.FILE_ATTRIBUTE_SYSTEM | windows.FILE_ATTRIBUTE_REPARSE_POINT
	return attrs&protected == protected
}
