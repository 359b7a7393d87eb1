package render

import statepkg "github.com/kk-code-lab/riv/internal/state"

type layoutMetrics struct {
	width     int
	imageRows int  // terminal rows given to the image
	barRow    int  // row of the bottom line, -1 when none is drawn
	barOwned  bool // the bottom row is reserved rather than drawn over the image
}

// computeLayout splits the screen between the image and the bottom line. The
// bottom line is reserved while the info bar is visible; in fullscreen it is
// only drawn over the image when a command or message needs it.
func (r *Renderer) computeLayout(w, h int, state *statepkg.AppState, messageActive bool) layoutMetrics {
	layout := layoutMetrics{width: w, imageRows: h, barRow: -1}
	if h <= 0 || state == nil {
		return layout
	}
	if state.InfoBarVisible() {
		layout.imageRows = h - 1
		layout.barRow = h - 1
		layout.barOwned = true
		return layout
	}
	if state.Mode == statepkg.ModeCommand || messageActive {
		layout.barRow = h - 1
	}
	return layout
}
