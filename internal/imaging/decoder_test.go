package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func newTestDecoder() *Decoder {
	logger, _ := logtest.NewNullLogger()
	return NewDecoder(logger)
}

func TestDecodePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, path, solid(7, 3, color.White))

	img, format, err := newTestDecoder().Decode(path)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 7, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
}

func TestDecodeBMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bmp")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, solid(4, 5, color.Black)))
	require.NoError(t, f.Close())

	img, format, err := newTestDecoder().Decode(path)
	require.NoError(t, err)
	assert.Equal(t, "bmp", format)
	assert.Equal(t, image.Rect(0, 0, 4, 5), img.Bounds())
}

func TestDecodeCachesLastImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, path, solid(2, 2, color.White))

	opens := 0
	orig := openFn
	openFn = func(name string) (*os.File, error) {
		opens++
		return orig(name)
	}
	t.Cleanup(func() { openFn = orig })

	d := newTestDecoder()
	first, _, err := d.Decode(path)
	require.NoError(t, err)
	second, _, err := d.Decode(path)
	require.NoError(t, err)
	assert.Equal(t, 1, opens)
	assert.Same(t, first, second)

	cached, ok := d.Cached(path)
	assert.True(t, ok)
	assert.Same(t, first, cached)

	d.Forget()
	_, ok = d.Cached(path)
	assert.False(t, ok)
	_, _, err = d.Decode(path)
	require.NoError(t, err)
	assert.Equal(t, 2, opens)
}

func TestDecodeNoticesChangedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, path, solid(2, 2, color.White))

	d := newTestDecoder()
	_, _, err := d.Decode(path)
	require.NoError(t, err)

	writePNG(t, path, solid(6, 6, color.White))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	img, _, err := d.Decode(path)
	require.NoError(t, err)
	assert.Equal(t, 6, img.Bounds().Dx())
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))

	d := newTestDecoder()
	_, _, err := d.Decode(bad)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, bad, decodeErr.Path)
	assert.ErrorIs(t, err, image.ErrFormat)

	_, _, err = d.Decode(filepath.Join(dir, "missing.png"))
	require.True(t, errors.As(err, &decodeErr))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
