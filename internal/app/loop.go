package app

import (
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	fsutil "github.com/kk-code-lab/riv/internal/fs"
	statepkg "github.com/kk-code-lab/riv/internal/state"
)

// Run drives the event loop until the user quits.
func (app *Application) Run() {
	app.renderer.Render(app.state)
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	var changes <-chan fsutil.Change
	if app.watcher != nil {
		changes = app.watcher.Changes()
	}

	var expiryTimer *time.Timer
	var expiryCh <-chan time.Time

	stopExpiry := func() {
		if expiryTimer == nil {
			return
		}
		if !expiryTimer.Stop() {
			select {
			case <-expiryTimer.C:
			default:
			}
		}
		expiryCh = nil
	}

	armExpiry := func(d time.Duration) {
		if expiryTimer == nil {
			expiryTimer = time.NewTimer(d)
		} else {
			stopExpiry()
			expiryTimer.Reset(d)
		}
		expiryCh = expiryTimer.C
	}

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state)
			renderPending = false
		}

		if remaining, ok := app.messageRemaining(time.Now()); ok {
			armExpiry(remaining)
		} else {
			stopExpiry()
		}

		select {
		case ev, ok := <-eventChan:
			if !ok {
				app.shouldQuit = true
				continue
			}
			if app.handleEvent(ev) {
				renderPending = true
			}
		case now := <-expiryCh:
			expiryCh = nil
			app.dispatch(statepkg.TickAction{Now: now})
			renderPending = true
		case change, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			app.dispatch(statepkg.FsEventAction{Path: change.Path, Op: change.Op, Info: change.Info})
			renderPending = true
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
		if app.afterActions() {
			renderPending = true
		}
	}

	stopExpiry()
}

// messageRemaining is how long the visible message has left.
func (app *Application) messageRemaining(now time.Time) (time.Duration, bool) {
	if !app.state.MessageActive(now) {
		if app.state.Message.Text != "" {
			// Already expired; fire immediately so the tick clears it.
			return 0, true
		}
		return 0, false
	}
	return statepkg.MessageTTL - now.Sub(app.state.Message.At), true
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventMouse:
		return app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

// handleMouse turns a primary-button press inside the image area into a
// click. Motion with the button held and wheel events are ignored.
func (app *Application) handleMouse(ev *tcell.EventMouse) bool {
	if ev.Buttons()&tcell.Button1 == 0 {
		app.buttonDown = false
		return false
	}
	if app.buttonDown {
		return false
	}
	app.buttonDown = true

	x, y := ev.Position()
	rows := app.state.ScreenHeight
	if app.state.InfoBarVisible() {
		rows--
	}
	if y < 0 || y >= rows {
		return false
	}
	app.dispatch(statepkg.MouseClickAction{X: x, Y: y})
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	}

	app.dispatch(action)
	return true
}
