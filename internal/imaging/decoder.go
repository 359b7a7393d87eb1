// Package imaging decodes images from disk and scales them into frames for
// the terminal painter.
package imaging

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DecodeError reports an image that could not be opened or decoded.
type DecodeError struct {
	Path   string
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("cannot decode %s image %s: %v", e.Format, e.Path, e.Err)
	}
	return fmt.Sprintf("cannot decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

var (
	openFn = os.Open
	statFn = os.Stat
)

type cached struct {
	path    string
	size    int64
	modTime time.Time
	img     image.Image
	format  string
}

// Decoder decodes images and remembers the most recent one. A cached image is
// reused only while the file's size and modification time are unchanged.
type Decoder struct {
	mu   sync.Mutex
	last cached
	log  logrus.FieldLogger
}

// NewDecoder creates a decoder that logs through log.
func NewDecoder(log logrus.FieldLogger) *Decoder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Decoder{log: log}
}

// Decode returns the decoded image at path together with its format name.
func (d *Decoder) Decode(path string) (image.Image, string, error) {
	info, err := statFn(path)
	if err != nil {
		return nil, "", &DecodeError{Path: path, Err: err}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.last.img != nil && d.last.path == path &&
		d.last.size == info.Size() && d.last.modTime.Equal(info.ModTime()) {
		return d.last.img, d.last.format, nil
	}

	f, err := openFn(path)
	if err != nil {
		return nil, "", &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	start := time.Now()
	img, format, err := image.Decode(f)
	if err != nil {
		d.log.WithError(err).WithField("path", path).Warn("decode failed")
		return nil, format, &DecodeError{Path: path, Format: format, Err: err}
	}

	b := img.Bounds()
	d.log.WithFields(logrus.Fields{
		"path":     path,
		"format":   format,
		"width":    b.Dx(),
		"height":   b.Dy(),
		"duration": time.Since(start),
	}).Debug("decoded image")

	d.last = cached{path: path, size: info.Size(), modTime: info.ModTime(), img: img, format: format}
	return img, format, nil
}

// Forget drops the cached image.
func (d *Decoder) Forget() {
	d.mu.Lock()
	d.last = cached{}
	d.mu.Unlock()
}

// Cached returns the remembered image if it belongs to path.
func (d *Decoder) Cached(path string) (image.Image, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.last.img == nil || d.last.path != path {
		return nil, false
	}
	return d.last.img, true
}
