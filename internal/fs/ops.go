package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrExists is returned when a move or copy would overwrite an existing file.
var ErrExists = errors.New("destination already exists")

// Filesystem is the set of file operations the browser performs on images.
type Filesystem interface {
	EnsureDir(path string) error
	Move(path, destDir string) (string, error)
	Copy(path, destDir string) (string, error)
	Delete(path string) error
}

// OS implements Filesystem on the local disk.
type OS struct{}

// EnsureDir creates path and any missing parents.
func (OS) EnsureDir(path string) error {
	if path == "" {
		return errors.New("empty directory path")
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return nil
}

// Move relocates path into destDir keeping its base name and returns the new path.
func (o OS) Move(path, destDir string) (string, error) {
	target, err := targetPath(path, destDir)
	if err != nil {
		return "", err
	}
	if err := os.Rename(path, target); err == nil {
		return target, nil
	} else if !isCrossDevice(err) {
		return "", fmt.Errorf("move %s: %w", path, err)
	}

	// Rename cannot cross filesystems; fall back to copy + remove.
	if err := copyFile(path, target); err != nil {
		return "", fmt.Errorf("move %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("move %s: %w", path, err)
	}
	return target, nil
}

// Copy duplicates path into destDir keeping its base name and returns the new path.
func (OS) Copy(path, destDir string) (string, error) {
	target, err := targetPath(path, destDir)
	if err != nil {
		return "", err
	}
	if err := copyFile(path, target); err != nil {
		return "", fmt.Errorf("copy %s: %w", path, err)
	}
	return target, nil
}

func (OS) Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func targetPath(path, destDir string) (string, error) {
	target := filepath.Join(destDir, filepath.Base(path))
	if same, err := samePath(path, target); err == nil && same {
		return "", fmt.Errorf("%s: source and destination are the same file", path)
	}
	if _, err := os.Lstat(target); err == nil {
		return "", fmt.Errorf("%s: %w", target, ErrExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	return target, nil
}

func samePath(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(ai, bi), nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return false
	}
	return isCrossDeviceErrno(linkErr.Err)
}
