package state

import "math"

// ViewMode selects between fit-to-window and an explicit scale.
type ViewMode int

const (
	ViewFit ViewMode = iota
	ViewManual
)

// ViewOptions tunes zoom and pan behaviour.
type ViewOptions struct {
	ZoomStep   float64
	MinScale   float64
	MaxScale   float64
	PanStep    float64 // fraction of the viewport per pan key
	MinVisible float64 // fraction of the displayed image kept on screen
	Persist    bool    // keep zoom and pan when moving to another image
}

// DefaultViewOptions returns the stock zoom/pan tuning.
func DefaultViewOptions() ViewOptions {
	return ViewOptions{
		ZoomStep:   1.1,
		MinScale:   0.05,
		MaxScale:   32,
		PanStep:    0.1,
		MinVisible: 0.1,
	}
}

func (o ViewOptions) normalized() ViewOptions {
	def := DefaultViewOptions()
	if o.ZoomStep <= 1 {
		o.ZoomStep = def.ZoomStep
	}
	if o.MinScale <= 0 {
		o.MinScale = def.MinScale
	}
	if o.MaxScale < o.MinScale {
		o.MaxScale = math.Max(def.MaxScale, o.MinScale)
	}
	if o.PanStep <= 0 || o.PanStep > 1 {
		o.PanStep = def.PanStep
	}
	if o.MinVisible <= 0 || o.MinVisible > 1 {
		o.MinVisible = def.MinVisible
	}
	return o
}

// ViewState holds the zoom and pan of the displayed image. Sizes are in
// display pixels; pan is the offset of the image centre from the viewport
// centre.
type ViewState struct {
	Mode  ViewMode
	Scale float64
	PanX  float64
	PanY  float64

	ImageW, ImageH int
	ViewW, ViewH   int

	opts ViewOptions
}

// Transform is the draw request handed to the renderer.
type Transform struct {
	Scale float64
	PanX  float64
	PanY  float64
	Fit   bool
}

// NewViewState returns a fit-to-window view.
func NewViewState(opts ViewOptions) ViewState {
	return ViewState{Mode: ViewFit, Scale: 1, opts: opts.normalized()}
}

func (v *ViewState) options() ViewOptions {
	if v.opts.ZoomStep == 0 {
		v.opts = v.opts.normalized()
	}
	return v.opts
}

// Options returns the tuning in effect.
func (v *ViewState) Options() ViewOptions { return v.options() }

func (v *ViewState) hasGeometry() bool {
	return v.ImageW > 0 && v.ImageH > 0 && v.ViewW > 0 && v.ViewH > 0
}

// FitScale is 1 when the image fits the viewport, otherwise the largest
// scale that does.
func (v *ViewState) FitScale() float64 {
	if !v.hasGeometry() {
		return 1
	}
	if v.ImageW <= v.ViewW && v.ImageH <= v.ViewH {
		return 1
	}
	return math.Min(float64(v.ViewW)/float64(v.ImageW), float64(v.ViewH)/float64(v.ImageH))
}

// EffectiveScale is the scale actually used for drawing.
func (v *ViewState) EffectiveScale() float64 {
	if v.Mode == ViewFit {
		return v.FitScale()
	}
	return v.Scale
}

func (v *ViewState) ZoomIn() {
	v.setManual(v.EffectiveScale() * v.options().ZoomStep)
}

func (v *ViewState) ZoomOut() {
	v.setManual(v.EffectiveScale() / v.options().ZoomStep)
}

func (v *ViewState) setManual(scale float64) {
	opts := v.options()
	v.Mode = ViewManual
	v.Scale = math.Max(opts.MinScale, math.Min(opts.MaxScale, scale))
	v.clampPan()
}

// Pan shifts the image by dx, dy display pixels.
func (v *ViewState) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
	v.clampPan()
}

// PanStepX is the horizontal distance of one pan key press.
func (v *ViewState) PanStepX() float64 {
	return math.Max(1, float64(v.ViewW)*v.options().PanStep)
}

// PanStepY is the vertical distance of one pan key press.
func (v *ViewState) PanStepY() float64 {
	return math.Max(1, float64(v.ViewH)*v.options().PanStep)
}

// Center resets the pan at the current zoom.
func (v *ViewState) Center() {
	v.PanX, v.PanY = 0, 0
}

// ToggleActualSize flips between 1:1 and fit-to-window.
func (v *ViewState) ToggleActualSize() {
	if v.Mode == ViewManual && v.Scale == 1 {
		v.Mode = ViewFit
		v.Scale = 1
		v.Center()
		return
	}
	v.setManual(1)
	v.Center()
}

// Reset returns to fit-to-window without pan.
func (v *ViewState) Reset() {
	v.Mode = ViewFit
	v.Scale = 1
	v.Center()
}

// OnNavigate is called whenever the current image changes.
func (v *ViewState) OnNavigate() {
	v.ImageW, v.ImageH = 0, 0
	if v.options().Persist {
		return
	}
	v.Reset()
}

// SetImageSize records the decoded size of the current image.
func (v *ViewState) SetImageSize(w, h int) {
	v.ImageW, v.ImageH = max(w, 0), max(h, 0)
	v.clampPan()
}

// SetViewport records the drawable area.
func (v *ViewState) SetViewport(w, h int) {
	v.ViewW, v.ViewH = max(w, 0), max(h, 0)
	if v.ImageW > 0 && v.ImageH > 0 {
		v.clampPan()
	}
}

// Transform returns the current draw request.
func (v *ViewState) Transform() Transform {
	return Transform{
		Scale: v.EffectiveScale(),
		PanX:  v.PanX,
		PanY:  v.PanY,
		Fit:   v.Mode == ViewFit,
	}
}

// Percent is the effective scale as a rounded percentage.
func (v *ViewState) Percent() int {
	return int(math.Round(v.EffectiveScale() * 100))
}

func (v *ViewState) clampPan() {
	if !v.hasGeometry() {
		v.PanX, v.PanY = 0, 0
		return
	}
	scale := v.EffectiveScale()
	minVisible := v.options().MinVisible
	v.PanX = clampAxis(v.PanX, float64(v.ImageW)*scale, float64(v.ViewW), minVisible)
	v.PanY = clampAxis(v.PanY, float64(v.ImageH)*scale, float64(v.ViewH), minVisible)
}

// clampAxis limits pan so that at least minVisible of the displayed extent,
// or the whole viewport when smaller, stays on screen.
func clampAxis(pan, displayed, viewport, minVisible float64) float64 {
	need := math.Min(displayed*minVisible, viewport)
	limit := (viewport+displayed)/2 - need
	if limit < 0 {
		limit = 0
	}
	return math.Max(-limit, math.Min(limit, pan))
}
