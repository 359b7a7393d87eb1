//go:build !windows

package app

import (
	"syscall"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/riv/internal/state"
)

var killSelf = func() error {
	// Stop only this process, not the whole group, so `fg` keeps working.
	return syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)
}

func (app *Application) suspendToShell() {
	// Return terminal control to the shell before stopping the process.
	if err := app.screen.Suspend(); err != nil {
		app.log.WithError(err).Warn("suspending screen")
	}
	if err := killSelf(); err != nil {
		app.log.WithError(err).Warn("sending SIGTSTP")
	}
}

func (app *Application) resumeAfterStop() bool {
	if err := app.screen.Resume(); err != nil {
		return false
	}
	app.screen.EnableMouse()
	app.screen.Sync()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt("resume"))
	if w, h := app.screen.Size(); w > 0 && h > 0 {
		app.dispatch(statepkg.ResizeAction{Width: w, Height: h})
	}
	return true
}
