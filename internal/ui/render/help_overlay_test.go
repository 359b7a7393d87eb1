package render

import (
	"strings"
	"testing"

	"github.com/kk-code-lab/riv/internal/command"
	statepkg "github.com/kk-code-lab/riv/internal/state"
)

func TestBuildHelpOverlayLinesIncludesSections(t *testing.T) {
	lines := buildHelpOverlayLines(&statepkg.AppState{ShowInfoBar: true})

	assertContains := func(substr string) {
		for _, line := range lines {
			if strings.Contains(line, substr) {
				return
			}
		}
		t.Fatalf("expected lines to contain %q, got %v", substr, lines)
	}

	assertContains("Navigation")
	assertContains("View")
	assertContains("Files")
	assertContains("Commands")
	assertContains("Exit")
	assertContains("Hide info bar")
	for _, c := range command.Names() {
		assertContains(":" + c[0])
	}
}

func TestBuildHelpOverlayLinesReflectsInfoBarToggle(t *testing.T) {
	lines := buildHelpOverlayLines(&statepkg.AppState{ShowInfoBar: false})

	joined := strings.Join(lines, " ")
	if !strings.Contains(joined, "Show info bar") {
		t.Fatalf("expected help to offer showing the info bar, got %v", lines)
	}
}
