//go:build !windows

package fs

import (
	"errors"
	"syscall"
)

// IsHidden reports whether a file is hidden on this platform (Unix-like).
func IsHidden(_ string, name string) bool {
	return len(name) > 1 && name[0] == '.' && name != ".."
}

func isCrossDeviceErrno(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
