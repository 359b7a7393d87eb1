package state

import (
	"math"
	"testing"
)

func nearly(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func viewWith(iw, ih, vw, vh int, opts ViewOptions) ViewState {
	v := NewViewState(opts)
	v.SetViewport(vw, vh)
	v.SetImageSize(iw, ih)
	return v
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		name           string
		iw, ih, vw, vh int
		want           float64
	}{
		{"fits", 100, 50, 200, 200, 1},
		{"too wide", 400, 100, 200, 200, 0.5},
		{"too tall", 100, 800, 200, 200, 0.25},
		{"unknown image", 0, 0, 200, 200, 1},
	}
	for _, tt := range tests {
		v := viewWith(tt.iw, tt.ih, tt.vw, tt.vh, DefaultViewOptions())
		if got := v.FitScale(); !nearly(got, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
		if v.Mode != ViewFit {
			t.Errorf("%s: new view should be in fit mode", tt.name)
		}
	}
}

func TestZoomFromFitStartsAtFitScale(t *testing.T) {
	v := viewWith(400, 400, 200, 200, DefaultViewOptions())
	v.ZoomIn()
	if v.Mode != ViewManual {
		t.Fatal("zoom should switch to manual mode")
	}
	if !nearly(v.Scale, 0.5*1.1) {
		t.Errorf("expected scale 0.55, got %v", v.Scale)
	}
	v.ZoomOut()
	if !nearly(v.Scale, 0.5) {
		t.Errorf("expected scale back to 0.5, got %v", v.Scale)
	}
	if v.Percent() != 50 {
		t.Errorf("expected 50%%, got %d", v.Percent())
	}
}

func TestZoomIsClamped(t *testing.T) {
	opts := DefaultViewOptions()
	opts.MinScale = 0.5
	opts.MaxScale = 2
	v := viewWith(100, 100, 200, 200, opts)
	for i := 0; i < 50; i++ {
		v.ZoomIn()
	}
	if !nearly(v.Scale, 2) {
		t.Errorf("expected max scale 2, got %v", v.Scale)
	}
	for i := 0; i < 100; i++ {
		v.ZoomOut()
	}
	if !nearly(v.Scale, 0.5) {
		t.Errorf("expected min scale 0.5, got %v", v.Scale)
	}
}

func TestPanKeepsPartOfImageVisible(t *testing.T) {
	v := viewWith(100, 100, 200, 200, DefaultViewOptions())
	v.ToggleActualSize()

	v.Pan(10000, -10000)
	// displayed 100, viewport 200, keep 10px: limit = (200+100)/2 - 10 = 140
	if !nearly(v.PanX, 140) || !nearly(v.PanY, -140) {
		t.Errorf("expected pan clamped to (140,-140), got (%v,%v)", v.PanX, v.PanY)
	}

	v.Pan(-20, 20)
	if !nearly(v.PanX, 120) || !nearly(v.PanY, -120) {
		t.Errorf("expected pan (120,-120), got (%v,%v)", v.PanX, v.PanY)
	}
}

func TestPanOnLargeImageKeepsViewportCovered(t *testing.T) {
	v := viewWith(2000, 100, 200, 200, DefaultViewOptions())
	v.ToggleActualSize()
	v.Pan(1e6, 0)
	// need = min(2000*0.1, 200) = 200; limit = (200+2000)/2 - 200 = 900
	if !nearly(v.PanX, 900) {
		t.Errorf("expected pan 900, got %v", v.PanX)
	}
}

func TestPanWithoutGeometryStaysCentered(t *testing.T) {
	v := NewViewState(DefaultViewOptions())
	v.Pan(50, 50)
	if v.PanX != 0 || v.PanY != 0 {
		t.Errorf("expected no pan without geometry, got (%v,%v)", v.PanX, v.PanY)
	}
}

func TestCenterResetsPanOnly(t *testing.T) {
	v := viewWith(100, 100, 200, 200, DefaultViewOptions())
	v.ZoomIn()
	v.Pan(30, 30)
	scale := v.Scale
	v.Center()
	if v.PanX != 0 || v.PanY != 0 {
		t.Errorf("center should zero the pan")
	}
	if v.Scale != scale || v.Mode != ViewManual {
		t.Errorf("center should keep the zoom")
	}
}

func TestToggleActualSize(t *testing.T) {
	v := viewWith(400, 400, 200, 200, DefaultViewOptions())
	v.ToggleActualSize()
	if v.Mode != ViewManual || v.Scale != 1 {
		t.Fatalf("expected actual size, got mode=%v scale=%v", v.Mode, v.Scale)
	}
	if tr := v.Transform(); tr.Fit || tr.Scale != 1 {
		t.Errorf("unexpected transform %+v", tr)
	}

	v.ToggleActualSize()
	if v.Mode != ViewFit {
		t.Fatalf("expected fit mode after second toggle")
	}
	if tr := v.Transform(); !tr.Fit || !nearly(tr.Scale, 0.5) {
		t.Errorf("unexpected transform %+v", tr)
	}

	v.ZoomIn()
	v.ZoomIn()
	v.ToggleActualSize()
	if v.Mode != ViewManual || v.Scale != 1 {
		t.Errorf("toggle from a zoomed view should go to actual size")
	}
}

func TestOnNavigateResetsByDefault(t *testing.T) {
	v := viewWith(100, 100, 200, 200, DefaultViewOptions())
	v.ZoomIn()
	v.Pan(20, 0)

	v.OnNavigate()
	if v.Mode != ViewFit || v.Scale != 1 || v.PanX != 0 || v.PanY != 0 {
		t.Errorf("expected reset view, got %+v", v)
	}
	if v.ImageW != 0 || v.ImageH != 0 {
		t.Errorf("image size should be cleared on navigation")
	}
}

func TestOnNavigateKeepsTransformWhenPersisting(t *testing.T) {
	opts := DefaultViewOptions()
	opts.Persist = true
	v := viewWith(100, 100, 200, 200, opts)
	v.ZoomIn()
	v.Pan(20, 0)
	scale, pan := v.Scale, v.PanX

	v.OnNavigate()
	if v.Mode != ViewManual || v.Scale != scale || v.PanX != pan {
		t.Errorf("expected persisted view, got %+v", v)
	}

	v.SetImageSize(100, 100)
	if v.PanX != pan {
		t.Errorf("pan should survive when still in range, got %v", v.PanX)
	}
}

func TestViewOptionsNormalized(t *testing.T) {
	v := NewViewState(ViewOptions{ZoomStep: 0.5, PanStep: 3, MinVisible: -1})
	opts := v.Options()
	def := DefaultViewOptions()
	if opts.ZoomStep != def.ZoomStep || opts.PanStep != def.PanStep || opts.MinVisible != def.MinVisible {
		t.Errorf("invalid options should fall back to defaults, got %+v", opts)
	}

	var zero ViewState
	zero.ZoomIn()
	if zero.Mode != ViewManual || !nearly(zero.Scale, def.ZoomStep) {
		t.Errorf("zero view should zoom with default options, got %+v", zero)
	}
}
