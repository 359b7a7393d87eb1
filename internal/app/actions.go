package app

import (
	fsutil "github.com/kk-code-lab/riv/internal/fs"
	statepkg "github.com/kk-code-lab/riv/internal/state"
	"github.com/sirupsen/logrus"
)

// dispatch reduces action into the state and records any failure.
func (app *Application) dispatch(action statepkg.Action) {
	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.state.LastError = err
	}
	if app.state.Quit {
		app.shouldQuit = true
	}
}

// afterActions runs the collaborators the state asks for once a batch of
// actions has been reduced: decoding the current image and keeping the
// watcher pointed at the collection's directories.
func (app *Application) afterActions() bool {
	changed := false
	if app.state.NeedsDecode() {
		app.decodeCurrent()
		changed = true
	} else if _, ok := app.state.CurrentEntry(); !ok {
		app.decoder.Forget()
	}
	app.syncWatcher()
	return changed
}

func (app *Application) decodeCurrent() {
	entry, ok := app.state.CurrentEntry()
	if !ok {
		return
	}
	img, _, err := app.decoder.Decode(entry.Path)
	info := statepkg.ImageInfoAction{Path: entry.Path, Err: err}
	if err == nil {
		b := img.Bounds()
		info.Width, info.Height = b.Dx(), b.Dy()
	}
	app.dispatch(info)
}

func (app *Application) syncWatcher() {
	c := app.state.Collection
	if app.watcher == nil || c == nil || c.Generation() == app.watchedGeneration {
		return
	}
	app.watchedGeneration = c.Generation()
	dirs := fsutil.Dirs(c.Entries())
	if err := app.watcher.Watch(dirs); err != nil {
		app.log.WithError(err).Warn("watching image directories")
		return
	}
	app.log.WithFields(logrus.Fields{"dirs": len(dirs), "generation": c.Generation()}).Debug("watch set updated")
}
