package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Placement returns the rectangle src occupies in a w×h viewport when drawn
// at scale with its centre offset by (panX, panY) from the viewport centre.
func Placement(src image.Rectangle, w, h int, scale, panX, panY float64) image.Rectangle {
	if src.Empty() || w <= 0 || h <= 0 || scale <= 0 {
		return image.Rectangle{}
	}
	dw := max(1, int(math.Round(float64(src.Dx())*scale)))
	dh := max(1, int(math.Round(float64(src.Dy())*scale)))
	x0 := int(math.Round((float64(w)-float64(dw))/2 + panX))
	y0 := int(math.Round((float64(h)-float64(dh))/2 + panY))
	return image.Rect(x0, y0, x0+dw, y0+dh)
}

// scalerFor picks nearest-neighbour when enlarging so pixels stay sharp and a
// bilinear filter when shrinking.
func scalerFor(scale float64) xdraw.Scaler {
	if scale >= 1 {
		return xdraw.NearestNeighbor
	}
	return xdraw.ApproxBiLinear
}

// Frame draws img into a new w×h buffer filled with bg.
func Frame(img image.Image, w, h int, scale, panX, panY float64, bg color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	if img == nil {
		return dst
	}

	src := img.Bounds()
	target := Placement(src, w, h, scale, panX, panY)
	if target.Empty() || !target.Overlaps(dst.Bounds()) {
		return dst
	}
	scalerFor(scale).Scale(dst, target, img, src, draw.Over, nil)
	return dst
}

type frameKey struct {
	img        image.Image
	w, h       int
	scale      float64
	panX, panY float64
	bg         color.RGBA
}

// FrameCache keeps the last rendered frame so redraws that do not change the
// transform skip the scaling pass.
type FrameCache struct {
	key   frameKey
	frame *image.RGBA
}

// Frame returns a cached frame when the inputs match the previous call.
func (c *FrameCache) Frame(img image.Image, w, h int, scale, panX, panY float64, bg color.Color) *image.RGBA {
	key := frameKey{img: img, w: w, h: h, scale: scale, panX: panX, panY: panY, bg: color.RGBAModel.Convert(bg).(color.RGBA)}
	if c.frame != nil && c.key == key {
		return c.frame
	}
	c.key = key
	c.frame = Frame(img, w, h, scale, panX, panY, bg)
	return c.frame
}
