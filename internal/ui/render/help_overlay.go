package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/riv/internal/command"
	statepkg "github.com/kk-code-lab/riv/internal/state"
	textutil "github.com/kk-code-lab/riv/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

func helpSections(state *statepkg.AppState) []helpOverlaySection {
	infoDesc := "Show info bar"
	if state != nil && state.ShowInfoBar {
		infoDesc = "Hide info bar"
	}

	commands := make([]helpOverlayEntry, 0, len(command.Names()))
	for _, c := range command.Names() {
		commands = append(commands, helpOverlayEntry{keys: ":" + c[0], desc: c[1]})
	}

	return []helpOverlaySection{
		{
			title: "Navigation",
			entries: []helpOverlayEntry{
				{keys: "j / →", desc: "Next image"},
				{keys: "k / ←", desc: "Previous image"},
				{keys: "w / PgDn", desc: "Forward 10%"},
				{keys: "b / PgUp", desc: "Back 10%"},
				{keys: "g / Home", desc: "First image"},
				{keys: "G / End", desc: "Last image"},
			},
		},
		{
			title: "View",
			entries: []helpOverlayEntry{
				{keys: "+ / -", desc: "Zoom in / out"},
				{keys: "H J K L", desc: "Pan (also Shift+arrows)"},
				{keys: "z", desc: "Toggle actual size / fit"},
				{keys: "x", desc: "Center image"},
				{keys: "click", desc: "Toggle actual size / fit"},
			},
		},
		{
			title: "Files",
			entries: []helpOverlayEntry{
				{keys: "m", desc: "Move to destination folder"},
				{keys: "c", desc: "Copy to destination folder"},
				{keys: "d / Del", desc: "Delete"},
				{keys: ".", desc: "Repeat last move, copy, delete or step"},
			},
		},
		{
			title: "Display",
			entries: []helpOverlayEntry{
				{keys: "t", desc: infoDesc},
				{keys: "f / F11", desc: "Toggle fullscreen"},
				{keys: "h / ?", desc: "Toggle this help"},
			},
		},
		{
			title:   "Commands",
			entries: commands,
		},
		{
			title: "Exit",
			entries: []helpOverlayEntry{
				{keys: "q / Esc", desc: "Quit"},
				{keys: "Ctrl+C", desc: "Quit from any mode"},
				{keys: "Ctrl+Z", desc: "Suspend"},
			},
		},
	}
}

func buildHelpOverlayLines(state *statepkg.AppState) []string {
	sections := helpSections(state)
	lines := make([]string, 0, 48)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}
	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	key := textutil.SanitizeTerminalText(entry.keys)
	desc := textutil.SanitizeTerminalText(entry.desc)
	return fmt.Sprintf("  %-24s %s", key, desc)
}

func (r *Renderer) drawHelpOverlay(state *statepkg.AppState, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	for y := 0; y < h; y++ {
		r.fillRow(0, y, w, baseStyle)
	}

	title := " Help "
	headerStyle := baseStyle.Background(r.theme.InfoBg).Foreground(r.theme.HelpTitle).Bold(true)
	r.fillRow(0, 0, w, headerStyle)
	titleStart := 0
	if titleWidth := r.measureTextWidth(title); w > titleWidth {
		titleStart = (w - titleWidth) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	sectionStyle := baseStyle.Foreground(r.theme.HelpKeyFg).Bold(true)
	lines := buildHelpOverlayLines(state)
	row := 2
	maxRow := h - 1
	for _, line := range lines {
		if row >= maxRow {
			break
		}
		style := baseStyle
		if line != "" && !strings.HasPrefix(line, " ") {
			style = sectionStyle
		}
		text := r.truncateTextToWidth(strings.TrimRight(line, " "), w-4)
		r.drawTextLine(2, row, w-4, text, style)
		row++
	}

	if h > 1 {
		footer := r.truncateTextToWidth(buildFooterHelpText(state), w)
		r.fillRow(0, h-1, w, headerStyle)
		r.drawTextLine(0, h-1, w, footer, headerStyle)
	}
}
