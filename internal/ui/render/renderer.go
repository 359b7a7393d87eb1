package render

import (
	"image"
	"image/color"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/riv/internal/imaging"
	statepkg "github.com/kk-code-lab/riv/internal/state"
	textutil "github.com/kk-code-lab/riv/internal/textutil"
)

// halfBlock paints two vertically stacked pixels per cell: the foreground
// colour is the upper pixel and the background colour the lower one.
const halfBlock = '▀'

// ImageSource hands out decoded images by path.
type ImageSource interface {
	Cached(path string) (image.Image, bool)
}

// Renderer handles all UI rendering
type Renderer struct {
	screen tcell.Screen
	theme  ColorTheme
	widths widthCache

	images ImageSource
	frames imaging.FrameCache
	home   string
	now    func() time.Time
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	home, _ := os.UserHomeDir()
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
		widths: make(widthCache),
		home:   home,
		now:    time.Now,
	}
}

// SetImageSource sets where decoded images come from.
func (r *Renderer) SetImageSource(src ImageSource) {
	r.images = src
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()
	r.screen.HideCursor()

	w, h := r.screen.Size()
	if state == nil || w <= 0 || h <= 0 {
		r.screen.Show()
		return
	}

	if state.Mode == statepkg.ModeHelp {
		r.drawHelpOverlay(state, w, h)
		r.screen.Show()
		return
	}

	messageActive := state.MessageActive(r.now())
	layout := r.computeLayout(w, h, state, messageActive)
	r.drawImageArea(state, layout)
	if layout.barRow >= 0 {
		r.drawBottomLine(state, layout, messageActive)
	}
	r.screen.Show()
}

func (r *Renderer) drawImageArea(state *statepkg.AppState, layout layoutMetrics) {
	w, rows := layout.width, layout.imageRows
	if rows <= 0 {
		return
	}
	base := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.InfoFg)

	entry, ok := state.CurrentEntry()
	if !ok {
		lines := []string{"No images found"}
		if c := state.Collection; c != nil && c.Pattern() != "" {
			lines = append(lines, textutil.SanitizeTerminalText(c.Pattern()))
		}
		r.drawCentered(lines, w, rows, base)
		return
	}

	name := textutil.SanitizeTerminalText(entry.Name)
	if state.ImagePath == entry.Path && state.ImageErr != nil {
		r.drawCentered([]string{name, textutil.SanitizeTerminalText(state.ImageErr.Error())}, w, rows, base.Foreground(r.theme.ErrorFg))
		return
	}

	var img image.Image
	if r.images != nil && state.ImagePath == entry.Path {
		img, ok = r.images.Cached(entry.Path)
	}
	if img == nil || !ok {
		r.drawCentered([]string{"Loading " + name + ellipsis}, w, rows, base)
		return
	}
	r.paintImage(img, state.View.Transform(), w, rows)
}

// paintImage scales img into a pixel frame two rows per cell and paints it
// with half blocks.
func (r *Renderer) paintImage(img image.Image, tr statepkg.Transform, w, rows int) {
	frame := r.frames.Frame(img, w, rows*2, tr.Scale, tr.PanX, tr.PanY, r.backgroundRGBA())
	for y := 0; y < rows; y++ {
		for x := 0; x < w; x++ {
			top := frame.RGBAAt(x, 2*y)
			bottom := frame.RGBAAt(x, 2*y+1)
			style := tcell.StyleDefault.Foreground(rgb(top)).Background(rgb(bottom))
			r.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
}

func (r *Renderer) backgroundRGBA() color.RGBA {
	cr, cg, cb := r.theme.Background.RGB()
	if cr < 0 {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: uint8(cr), G: uint8(cg), B: uint8(cb), A: 255}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (r *Renderer) drawCentered(lines []string, w, rows int, style tcell.Style) {
	for y := 0; y < rows; y++ {
		r.fillRow(0, y, w, style)
	}
	top := max((rows-len(lines))/2, 0)
	for i, line := range lines {
		y := top + i
		if y >= rows {
			break
		}
		text := r.truncateTextToWidth(line, w)
		x := max((w-r.measureTextWidth(text))/2, 0)
		r.drawTextLine(x, y, w-x, text, style)
	}
}

// drawBottomLine shows, in priority order, the command line, a transient
// message or the info bar.
func (r *Renderer) drawBottomLine(state *statepkg.AppState, layout layoutMetrics, messageActive bool) {
	y, w := layout.barRow, layout.width
	style := tcell.StyleDefault.Background(r.theme.InfoBg).Foreground(r.theme.InfoFg)
	r.fillRow(0, y, w, style)

	switch {
	case state.Mode == statepkg.ModeCommand:
		r.drawCommandLine(state, y, w, style)
	case messageActive:
		fg := r.theme.MessageFg
		if state.Message.IsError {
			fg = r.theme.ErrorFg
		}
		text := r.truncateTextToWidth(" "+textutil.SanitizeTerminalText(state.Message.Text), w)
		r.drawTextLine(0, y, w, text, style.Foreground(fg))
	case layout.barOwned:
		r.drawInfoBar(state, y, w, style)
	}
}

func (r *Renderer) drawCommandLine(state *statepkg.AppState, y, w int, style tcell.Style) {
	hint := buildFooterHelpText(state)
	hintWidth := r.measureTextWidth(hint)
	available := w - hintWidth
	if available < w/2 {
		hint, hintWidth, available = "", 0, w
	}

	line := ":" + textutil.SanitizeTerminalText(state.CommandBuffer)
	shown := r.truncateLeft(line, available-1)
	end := r.drawTextLine(0, y, available, shown, style.Foreground(r.theme.CommandFg))
	r.screen.ShowCursor(end, y)

	if hint != "" {
		r.drawTextLine(w-hintWidth, y, hintWidth, hint, style.Foreground(r.theme.InfoDimFg))
	}
}

func (r *Renderer) drawInfoBar(state *statepkg.AppState, y, w int, style tcell.Style) {
	left := " " + formatInfoPosition(state.Collection) + "  "
	var middle, right string
	if _, ok := state.CurrentEntry(); ok {
		middle = formatInfoPath(state, r.home)
		right = "  " + formatInfoRight(state) + " "
	} else {
		if c := state.Collection; c != nil && c.Pattern() != "" {
			middle = "no images: " + textutil.SanitizeTerminalText(c.Pattern())
		}
		right = buildFooterHelpText(state)
	}

	leftWidth := r.measureTextWidth(left)
	rightWidth := r.measureTextWidth(right)
	if leftWidth+rightWidth > w {
		right, rightWidth = "", 0
	}

	x := r.drawTextLine(0, y, w, r.truncateTextToWidth(left, w), style.Bold(true))
	if avail := w - x - rightWidth; avail > 0 && middle != "" {
		r.drawTextLine(x, y, avail, r.truncateLeft(middle, avail), style)
	}
	if right != "" {
		r.drawTextLine(w-rightWidth, y, rightWidth, right, style.Foreground(r.theme.InfoDimFg))
	}
}
