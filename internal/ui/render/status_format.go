package render

import (
	"fmt"
	"strings"

	statepkg "github.com/kk-code-lab/riv/internal/state"
	"github.com/kk-code-lab/riv/internal/textutil"
)

// formatInfoPosition is the "i/n" counter; the discovered total follows when
// a cap hides some images.
func formatInfoPosition(c *statepkg.Collection) string {
	if c == nil || c.Len() == 0 {
		return "0/0"
	}
	pos := fmt.Sprintf("%d/%d", c.Index()+1, c.Len())
	if total := c.Total(); total > c.Len() {
		pos += fmt.Sprintf(" (of %d)", total)
	}
	return pos
}

// formatInfoRight shows image size, zoom and sort order.
func formatInfoRight(state *statepkg.AppState) string {
	var parts []string
	if entry, ok := state.CurrentEntry(); ok {
		if state.View.ImageW > 0 && state.ImagePath == entry.Path {
			parts = append(parts, fmt.Sprintf("%dx%d", state.View.ImageW, state.View.ImageH))
		}
		parts = append(parts, formatBytes(entry.Size))
	}

	zoom := fmt.Sprintf("%d%%", state.View.Percent())
	if state.View.Mode == statepkg.ViewFit {
		zoom += " fit"
	}
	parts = append(parts, zoom)

	if c := state.Collection; c != nil {
		order := c.Method().String()
		if c.Reverse() {
			order += " ↓"
		}
		parts = append(parts, order)
	}
	return strings.Join(parts, " · ")
}

func formatInfoPath(state *statepkg.AppState, home string) string {
	entry, ok := state.CurrentEntry()
	if !ok {
		return ""
	}
	return textutil.DisplayPath(entry.Path, home)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<30:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(n)/(1<<30))) + "G"
	case n >= 1<<20:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(n)/(1<<20))) + "M"
	case n >= 1<<10:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(n)/(1<<10))) + "k"
	default:
		return fmt.Sprintf("%dB", n)
	}
}

func trimTrailingZero(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	return strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
}
