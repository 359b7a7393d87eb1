package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/riv/internal/state"
)

// InputHandler converts tcell events to Actions. Mode handling lives in the
// reducer; the handler only normalises keys.
type InputHandler struct {
	actionChan chan statepkg.Action
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// ProcessEvent converts a tcell event into an Action. It returns false when
// the event ends the session regardless of state.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

var specialKeys = map[tcell.Key]statepkg.Key{
	tcell.KeyEnter:      statepkg.KeyEnter,
	tcell.KeyEscape:     statepkg.KeyEscape,
	tcell.KeyBackspace:  statepkg.KeyBackspace,
	tcell.KeyBackspace2: statepkg.KeyBackspace,
	tcell.KeyDelete:     statepkg.KeyDelete,
	tcell.KeyUp:         statepkg.KeyUp,
	tcell.KeyDown:       statepkg.KeyDown,
	tcell.KeyLeft:       statepkg.KeyLeft,
	tcell.KeyRight:      statepkg.KeyRight,
	tcell.KeyPgUp:       statepkg.KeyPgUp,
	tcell.KeyPgDn:       statepkg.KeyPgDn,
	tcell.KeyHome:       statepkg.KeyHome,
	tcell.KeyEnd:        statepkg.KeyEnd,
	tcell.KeyF11:        statepkg.KeyF11,
}

// processKeyEvent handles keyboard input
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		ih.actionChan <- statepkg.KeyAction{Key: statepkg.KeyCtrlC}
		return false

	case tcell.KeyCtrlZ:
		ih.actionChan <- statepkg.SuspendAction{}
		return true

	case tcell.KeyRune:
		r := ev.Rune()
		mods := modifiers(ev.Modifiers())
		if mods&statepkg.ModShift != 0 {
			// Normalize shifted alphabetic runes to reflect user intent (Shift+A => 'A')
			r = unicode.ToUpper(r)
		}
		ih.actionChan <- statepkg.KeyAction{Key: statepkg.KeyRune, Rune: r, Mod: mods}
		return true
	}

	if key, ok := specialKeys[ev.Key()]; ok {
		ih.actionChan <- statepkg.KeyAction{Key: key, Mod: modifiers(ev.Modifiers())}
	}
	return true
}

func modifiers(m tcell.ModMask) statepkg.ModMask {
	var out statepkg.ModMask
	if m&tcell.ModShift != 0 {
		out |= statepkg.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= statepkg.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= statepkg.ModAlt
	}
	return out
}
