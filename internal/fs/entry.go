package fs

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Entry represents a single discovered image on disk.
type Entry struct {
	Path     string
	Name     string
	Size     int64
	Modified time.Time
	// Depth counts path elements below the search root; a file directly
	// inside the root has depth 1.
	Depth int
}

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".bmp":  {},
	".webp": {},
}

// IsImagePath reports whether path carries one of the supported image extensions.
func IsImagePath(path string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// NewEntry builds an entry from stat information.
func NewEntry(path string, info os.FileInfo, depth int) Entry {
	e := Entry{
		Path:  filepath.Clean(path),
		Name:  norm.NFC.String(filepath.Base(path)),
		Depth: depth,
	}
	if info != nil {
		e.Size = info.Size()
		e.Modified = info.ModTime()
	}
	return e
}

// Refresh returns a copy of e carrying the metadata from info.
func (e Entry) Refresh(info os.FileInfo) Entry {
	if info == nil {
		return e
	}
	e.Size = info.Size()
	e.Modified = info.ModTime()
	return e
}

// Dir returns the directory holding the entry.
func (e Entry) Dir() string {
	return filepath.Dir(e.Path)
}
