package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// widthCache memoises runewidth lookups. The same glyphs are measured on
// every frame.
type widthCache map[rune]int

func (c widthCache) of(ru rune) int {
	if w, ok := c[ru]; ok {
		return w
	}
	w := max(runewidth.RuneWidth(ru), 0)
	c[ru] = w
	return w
}

func (r *Renderer) runeWidth(ru rune) int {
	return r.widths.of(ru)
}

func (r *Renderer) measureTextWidth(text string) int {
	width := 0
	for _, ru := range text {
		width += r.runeWidth(ru)
	}
	return width
}

// fitRunes counts how many runes, taken from the front or the back, fit in
// width columns.
func (r *Renderer) fitRunes(runes []rune, width int, fromEnd bool) int {
	used, n := 0, 0
	for n < len(runes) {
		ru := runes[n]
		if fromEnd {
			ru = runes[len(runes)-1-n]
		}
		w := r.runeWidth(ru)
		if used+w > width {
			break
		}
		used += w
		n++
	}
	return n
}

func (r *Renderer) truncateTextToWidth(text string, maxWidth int) string {
	if maxWidth <= 0 || text == "" {
		return ""
	}
	if r.measureTextWidth(text) <= maxWidth {
		return text
	}
	room := maxWidth - r.measureTextWidth(ellipsis)
	if room <= 0 {
		return ellipsis
	}
	runes := []rune(text)
	return string(runes[:r.fitRunes(runes, room, false)]) + ellipsis
}

// truncateLeft keeps the end of text, which is the useful part of a path.
func (r *Renderer) truncateLeft(text string, maxWidth int) string {
	if maxWidth <= 0 || text == "" {
		return ""
	}
	if r.measureTextWidth(text) <= maxWidth {
		return text
	}
	room := maxWidth - r.measureTextWidth(ellipsis)
	if room <= 0 {
		return ellipsis
	}
	runes := []rune(text)
	return ellipsis + string(runes[len(runes)-r.fitRunes(runes, room, true):])
}

// drawTextLine writes text from startX and returns the column after it.
// Zero-width runes ride along as combining characters of the rune before.
func (r *Renderer) drawTextLine(startX, y, maxWidth int, text string, style tcell.Style) int {
	x := startX
	runes := []rune(text)
	for i := 0; i < len(runes) && x-startX < maxWidth; {
		mainc := runes[i]
		i++
		var combc []rune
		for i < len(runes) && r.runeWidth(runes[i]) == 0 {
			combc = append(combc, runes[i])
			i++
		}
		r.screen.SetContent(x, y, mainc, combc, style)
		x += r.runeWidth(mainc)
	}
	return x
}

// fillRow paints the rest of row y from x with blanks.
func (r *Renderer) fillRow(x, y, w int, style tcell.Style) {
	for ; x < w; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}
