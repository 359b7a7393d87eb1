package state

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kk-code-lab/riv/internal/command"
	fsutil "github.com/kk-code-lab/riv/internal/fs"
	"github.com/sirupsen/logrus"
)

// ===== NORMAL MODE =====

func (r *StateReducer) reduceNormal(state *AppState, k KeyAction) error {
	op := normalOp(k)
	c := state.Collection

	switch op {
	case OpNext:
		return r.navigate(state, 1)
	case OpPrev:
		return r.navigate(state, -1)
	case OpPageForward:
		return r.navigate(state, c.PageStep())
	case OpPageBack:
		return r.navigate(state, -c.PageStep())
	case OpFirst:
		return r.jump(state, false)
	case OpLast:
		return r.jump(state, true)

	case OpZoomIn:
		state.View.ZoomIn()
	case OpZoomOut:
		state.View.ZoomOut()
	case OpPanLeft:
		state.View.Pan(-state.View.PanStepX(), 0)
	case OpPanRight:
		state.View.Pan(state.View.PanStepX(), 0)
	case OpPanUp:
		state.View.Pan(0, -state.View.PanStepY())
	case OpPanDown:
		state.View.Pan(0, state.View.PanStepY())
	case OpToggleFit:
		state.View.ToggleActualSize()
	case OpCenter:
		state.View.Center()

	case OpMove:
		return r.fileAction(state, RepeatMove, c.DestFolder())
	case OpCopy:
		return r.fileAction(state, RepeatCopy, c.DestFolder())
	case OpDelete:
		return r.fileAction(state, RepeatDelete, "")

	case OpToggleInfoBar:
		state.ShowInfoBar = !state.ShowInfoBar
		state.syncViewport()
	case OpToggleFullscreen:
		state.Fullscreen = !state.Fullscreen
		state.syncViewport()
	case OpHelp:
		state.Mode = ModeHelp
	case OpCommandMode:
		state.Mode = ModeCommand
		state.CommandBuffer = ""
	case OpRepeat:
		return r.repeat(state)
	case OpQuit:
		state.Quit = true
	}
	return nil
}

// ===== COMMAND MODE =====

func (r *StateReducer) reduceCommand(state *AppState, k KeyAction) error {
	switch k.Key {
	case KeyEscape:
		state.Mode = ModeNormal
		state.CommandBuffer = ""
		return nil

	case KeyEnter:
		line := state.CommandBuffer
		state.Mode = ModeNormal
		state.CommandBuffer = ""
		if strings.TrimSpace(line) == "" {
			return nil
		}
		directive, err := command.Parse(line)
		if err != nil {
			return r.fail(state, err)
		}
		return r.applyDirective(state, directive)

	case KeyBackspace:
		if state.CommandBuffer == "" {
			state.Mode = ModeNormal
			return nil
		}
		_, size := utf8.DecodeLastRuneInString(state.CommandBuffer)
		state.CommandBuffer = state.CommandBuffer[:len(state.CommandBuffer)-size]
		return nil

	case KeyRune:
		if k.Mod&(ModCtrl|ModAlt) == 0 {
			state.CommandBuffer += string(k.Rune)
		}
		return nil
	}
	return nil
}

func (r *StateReducer) applyDirective(state *AppState, directive command.Directive) error {
	c := state.Collection
	log := r.log.WithField("directive", fmt.Sprintf("%T", directive))

	switch d := directive.(type) {
	case command.NewGlob:
		before, _ := state.CurrentEntry()
		err := c.Reglob(d.Pattern)
		if after, ok := state.CurrentEntry(); !ok || after.Path != before.Path {
			state.cursorMoved()
		}
		if err != nil {
			return r.fail(state, err)
		}
		log.WithFields(logrus.Fields{"pattern": d.Pattern, "count": c.Len()}).Info("reglob")
		r.notify(state, fmt.Sprintf("%d images", c.Len()))

	case command.Help:
		state.Mode = ModeHelp

	case command.Quit:
		state.Quit = true

	case command.Sort:
		m := c.Method()
		if d.HasMethod {
			m = d.Method
		}
		r.resort(state, func() { c.Resort(m, c.Reverse()) })
		r.notify(state, "sorted by "+m.String())

	case command.Reverse:
		r.resort(state, func() { c.Resort(c.Method(), !c.Reverse()) })
		direction := "normal"
		if c.Reverse() {
			direction = "reversed"
		}
		r.notify(state, "sort order "+direction)

	case command.DestFolder:
		path, err := fsutil.AbsPath(d.Path)
		if err != nil {
			return r.fail(state, err)
		}
		c.SetDestFolder(path)
		log.WithField("dest", path).Info("destination changed")
		r.notify(state, "destination: "+path)

	case command.Max:
		r.resort(state, func() { c.SetMax(d.N) })
		if d.N == 0 {
			r.notify(state, "showing all images")
		} else {
			r.notify(state, fmt.Sprintf("showing at most %d images", d.N))
		}

	case command.Unrecognized:
		return r.fail(state, fmt.Errorf("unknown command %q", d.Raw))
	}
	return nil
}

func (r *StateReducer) resort(state *AppState, apply func()) {
	before, _ := state.CurrentEntry()
	apply()
	if after, ok := state.CurrentEntry(); !ok || after.Path != before.Path {
		state.cursorMoved()
	}
}

// ===== HELP MODE =====

func (r *StateReducer) reduceHelp(state *AppState, k KeyAction) error {
	switch {
	case k.Key == KeyEscape:
		state.Mode = ModeNormal
	case k.Key == KeyRune && (k.Rune == 'h' || k.Rune == '?' || k.Rune == 'q'):
		state.Mode = ModeNormal
	}
	return nil
}
