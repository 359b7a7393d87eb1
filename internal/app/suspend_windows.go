//go:build windows

package app

// No SIGTSTP on Windows; suspend does nothing.
func (app *Application) suspendToShell() {
	app.log.Debug("suspend not supported on windows")
}

func (app *Application) resumeAfterStop() bool {
	return false
}
