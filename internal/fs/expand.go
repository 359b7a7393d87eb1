package fs

import (
	"os"
	"path/filepath"
	"strings"
)

var (
	userHomeDirFn = os.UserHomeDir
	getenvFn      = os.Getenv
	getwdFn       = os.Getwd
)

// ExpandPath resolves a leading ~, $VAR/${VAR} references and escaped spaces
// the way a shell would before the path reaches the filesystem.
func ExpandPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return path
	}
	path = strings.ReplaceAll(path, `\ `, " ")
	path = expandUserPath(path)
	return os.Expand(path, func(name string) string {
		if name == "HOME" {
			if home, err := userHomeDirFn(); err == nil {
				return home
			}
		}
		return getenvFn(name)
	})
}

func expandUserPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	if len(path) == 1 {
		if home, err := userHomeDirFn(); err == nil {
			return home
		}
		return path
	}

	sep := path[1]
	if sep != '/' && sep != '\\' {
		return path
	}

	home, err := userHomeDirFn()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[2:])
}

// AbsPath expands path and anchors it at the working directory when relative.
func AbsPath(path string) (string, error) {
	path = ExpandPath(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	wd, err := getwdFn()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, path), nil
}
