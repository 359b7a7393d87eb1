package state

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	fsutil "github.com/kk-code-lab/riv/internal/fs"
	"github.com/sirupsen/logrus"
)

// StateReducer applies actions to the AppState. It is the input dispatcher:
// key actions are routed to one transition function per mode.
type StateReducer struct {
	fs  fsutil.Filesystem
	log logrus.FieldLogger
	now func() time.Time
}

// NewStateReducer creates a new reducer
func NewStateReducer(fsys fsutil.Filesystem, log logrus.FieldLogger) *StateReducer {
	if fsys == nil {
		fsys = fsutil.OS{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &StateReducer{fs: fsys, log: log, now: time.Now}
}

// Reduce processes an action and mutates state accordingly. Errors returned
// here have already been surfaced as a message on the state.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	switch a := action.(type) {

	case KeyAction:
		if a.Key == KeyCtrlC {
			state.Quit = true
			return state, nil
		}
		switch state.Mode {
		case ModeCommand:
			return state, r.reduceCommand(state, a)
		case ModeHelp:
			return state, r.reduceHelp(state, a)
		default:
			return state, r.reduceNormal(state, a)
		}

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		state.syncViewport()
		return state, nil

	case MouseClickAction:
		if state.Mode == ModeNormal {
			state.View.ToggleActualSize()
		}
		return state, nil

	case ImageInfoAction:
		return state, r.reduceImageInfo(state, a)

	case FsEventAction:
		return state, r.reduceFsEvent(state, a)

	case TickAction:
		if state.Message.Text != "" && !state.MessageActive(a.Now) {
			state.Message = Message{}
		}
		return state, nil

	case QuitAction:
		state.Quit = true
		return state, nil
	}

	return state, nil
}

func (r *StateReducer) reduceImageInfo(state *AppState, a ImageInfoAction) error {
	entry, ok := state.CurrentEntry()
	if !ok || entry.Path != a.Path {
		// Stale result for an image that is no longer current.
		return nil
	}
	state.ImagePath = a.Path
	state.ImageErr = a.Err
	if a.Err != nil {
		state.View.SetImageSize(0, 0)
		return r.fail(state, a.Err)
	}
	state.syncViewport()
	state.View.SetImageSize(a.Width, a.Height)
	return nil
}

func (r *StateReducer) reduceFsEvent(state *AppState, a FsEventAction) error {
	c := state.Collection
	log := r.log.WithFields(logrus.Fields{"path": a.Path, "op": a.Op.String()})

	switch a.Op {
	case fsutil.ChangeRemoved:
		before, _ := state.CurrentEntry()
		if !c.Remove(a.Path) {
			return nil
		}
		log.Info("image removed externally")
		if after, ok := state.CurrentEntry(); !ok || after.Path != before.Path {
			state.cursorMoved()
		}
		return nil

	case fsutil.ChangeCreated:
		before, _ := state.CurrentEntry()
		if err := c.Rescan(); err != nil {
			log.WithError(err).Warn("rescan after create failed")
			state.cursorMoved()
			return r.fail(state, err)
		}
		if after, ok := state.CurrentEntry(); !ok || after.Path != before.Path {
			state.cursorMoved()
		}
		return nil

	case fsutil.ChangeModified:
		if !c.RefreshEntry(a.Path, a.Info) {
			return nil
		}
		if entry, ok := state.CurrentEntry(); ok && entry.Path == a.Path {
			// Force a fresh decode of the changed file.
			state.ImagePath = ""
		}
		return nil
	}
	return nil
}

// navigate moves the cursor by delta and records it for repeat.
func (r *StateReducer) navigate(state *AppState, delta int) error {
	c := state.Collection
	if c.Len() == 0 {
		return nil
	}
	before := c.Index()
	if err := c.Advance(delta); err != nil {
		return r.fail(state, err)
	}
	if c.Index() != before {
		state.cursorMoved()
	}
	state.LastAction = NavigateAction(delta)
	return nil
}

func (r *StateReducer) jump(state *AppState, last bool) error {
	c := state.Collection
	if c.Len() == 0 {
		return nil
	}
	before := c.Index()
	var err error
	if last {
		err = c.JumpLast()
	} else {
		err = c.JumpFirst()
	}
	if err != nil {
		return r.fail(state, err)
	}
	if c.Index() != before {
		state.cursorMoved()
	}
	return nil
}

// fileAction performs a move, copy or delete on the current entry. On success
// the entry leaves the collection and the action becomes repeatable; on
// failure the entry is kept.
func (r *StateReducer) fileAction(state *AppState, kind RepeatKind, dest string) error {
	c := state.Collection
	entry, ok := c.Current()
	if !ok {
		return r.fail(state, &PreconditionError{Op: kind.String()})
	}

	log := r.log.WithFields(logrus.Fields{"op": kind.String(), "path": entry.Path})
	var (
		target string
		err    error
	)
	switch kind {
	case RepeatMove, RepeatCopy:
		log = log.WithField("dest", dest)
		if err = r.fs.EnsureDir(dest); err == nil {
			if kind == RepeatMove {
				target, err = r.fs.Move(entry.Path, dest)
			} else {
				target, err = r.fs.Copy(entry.Path, dest)
			}
		}
	case RepeatDelete:
		err = r.fs.Delete(entry.Path)
	default:
		return nil
	}
	if err != nil {
		log.WithError(err).Warn("file action failed")
		return r.fail(state, &FileActionError{Op: kind.String(), Path: entry.Path, Err: err})
	}

	if _, err := c.RemoveCurrent(); err != nil {
		return r.fail(state, err)
	}
	state.cursorMoved()

	switch kind {
	case RepeatMove:
		state.LastAction = MoveAction(dest)
		r.notify(state, fmt.Sprintf("moved %s to %s", entry.Name, filepath.Dir(target)))
	case RepeatCopy:
		state.LastAction = CopyAction(dest)
		r.notify(state, fmt.Sprintf("copied %s to %s", entry.Name, filepath.Dir(target)))
	case RepeatDelete:
		state.LastAction = DeleteAction()
		r.notify(state, fmt.Sprintf("deleted %s", entry.Name))
	}
	log.Info("file action done")
	return nil
}

// repeat replays the last recorded action on the current state.
func (r *StateReducer) repeat(state *AppState) error {
	last := state.LastAction
	switch last.Kind {
	case RepeatNavigate:
		return r.navigate(state, last.Delta)
	case RepeatMove, RepeatCopy, RepeatDelete:
		return r.fileAction(state, last.Kind, last.Dest)
	}
	return nil
}

func (r *StateReducer) notify(state *AppState, text string) {
	state.setMessage(text, false, r.now())
}

// fail surfaces err as an error message, logs it and hands it back.
func (r *StateReducer) fail(state *AppState, err error) error {
	if err == nil {
		return nil
	}
	state.setMessage(err.Error(), true, r.now())
	state.LastError = err

	entry := r.log.WithError(err)
	var pre *PreconditionError
	if errors.As(err, &pre) {
		entry.Debug("ignored action on empty collection")
	} else {
		entry.Warn("action failed")
	}
	return err
}
