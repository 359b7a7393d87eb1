//go:build windows

package fs

import (
	"errors"
	"syscall"
)

const (
	fileAttributeHidden = 0x02
	errorNotSameDevice  = syscall.Errno(17)
)

// IsHidden reports whether a file is hidden on this platform (Windows).
func IsHidden(fullPath string, name string) bool {
	dotted := len(name) > 1 && name[0] == '.' && name != ".."
	if fullPath == "" {
		return dotted
	}

	ptr, err := syscall.UTF16PtrFromString(fullPath)
	if err != nil {
		return dotted
	}
	attrs, err := syscall.GetFileAttributes(ptr)
	if err != nil {
		return dotted
	}
	return dotted || attrs&fileAttributeHidden != 0
}

func isCrossDeviceErrno(err error) bool {
	return errors.Is(err, errorNotSameDevice)
}
