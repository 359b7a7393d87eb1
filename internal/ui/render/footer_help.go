package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/riv/internal/state"
)

// buildFooterHelpText returns the mode hint with leading/trailing padding.
func buildFooterHelpText(state *statepkg.AppState) string {
	parts := contextualHelpSegments(state)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

func contextualHelpSegments(state *statepkg.AppState) []string {
	if state == nil {
		return nil
	}
	switch state.Mode {
	case statepkg.ModeCommand:
		return []string{"↵: run", "Esc: cancel"}
	case statepkg.ModeHelp:
		return []string{"Esc/h/?/q: close", "Ctrl+C: quit"}
	default:
		if state.Collection == nil || state.Collection.Len() == 0 {
			return []string{":ng <pattern>: load images", "?: help", "q: quit"}
		}
		return []string{"?: help"}
	}
}
