package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	fsutil "github.com/kk-code-lab/riv/internal/fs"
	"github.com/kk-code-lab/riv/internal/imaging"
	"github.com/kk-code-lab/riv/internal/sorting"
	statepkg "github.com/kk-code-lab/riv/internal/state"
	inputui "github.com/kk-code-lab/riv/internal/ui/input"
	renderui "github.com/kk-code-lab/riv/internal/ui/render"
	"github.com/sirupsen/logrus"
)

// Options configures a session.
type Options struct {
	Patterns    []string
	DestFolder  string
	Method      sorting.Method
	Reverse     bool
	Max         int
	View        statepkg.ViewOptions
	ShowInfoBar bool
	Watch       bool
	Logger      logrus.FieldLogger
}

// Application represents the running app.
type Application struct {
	screen   tcell.Screen
	state    *statepkg.AppState
	reducer  *statepkg.StateReducer
	renderer *renderui.Renderer
	input    *inputui.InputHandler
	decoder  *imaging.Decoder
	watcher  *fsutil.Watcher
	actionCh chan statepkg.Action
	log      logrus.FieldLogger

	watchedGeneration int
	buttonDown        bool
	shouldQuit        bool
}

var newScreen = tcell.NewScreen

// NewApplication opens the terminal and loads the initial images.
func NewApplication(opts Options) (*Application, error) {
	screen, err := newScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	app, err := newApplication(screen, opts)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return app, nil
}

func newApplication(screen tcell.Screen, opts Options) (*Application, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	cwd, err := GetCwd()
	if err != nil {
		return nil, err
	}

	collection := statepkg.NewCollection(fsutil.NewMatcher(cwd), statepkg.CollectionOptions{
		Max:        opts.Max,
		Method:     opts.Method,
		Reverse:    opts.Reverse,
		DestFolder: opts.DestFolder,
	})
	loadErr := collection.Load(opts.Patterns, opts.Max, opts.Method, opts.Reverse)
	var discoveryErr *statepkg.DiscoveryError
	if loadErr != nil && !errors.As(loadErr, &discoveryErr) {
		return nil, loadErr
	}
	log.WithFields(logrus.Fields{
		"patterns": opts.Patterns,
		"count":    collection.Len(),
		"total":    collection.Total(),
		"sort":     opts.Method.String(),
		"reverse":  opts.Reverse,
	}).Info("images loaded")

	state := statepkg.NewAppState(collection, opts.View, opts.ShowInfoBar)
	state.LastError = loadErr

	// Parse mouse sequences so clicks don't leak as key events.
	screen.EnableMouse()
	if err := flushPendingInput(); err != nil {
		log.WithError(err).Debug("flushing console input")
	}

	actionCh := make(chan statepkg.Action, 16)
	decoder := imaging.NewDecoder(log)
	renderer := renderui.NewRenderer(screen)
	renderer.SetImageSource(decoder)

	app := &Application{
		screen:            screen,
		state:             state,
		reducer:           statepkg.NewStateReducer(fsutil.OS{}, log),
		renderer:          renderer,
		input:             inputui.NewInputHandler(actionCh),
		decoder:           decoder,
		actionCh:          actionCh,
		log:               log,
		watchedGeneration: -1,
	}

	if opts.Watch {
		w, err := fsutil.NewWatcher(log)
		if err != nil {
			return nil, fmt.Errorf("failed to start watcher: %w", err)
		}
		if err := w.Start(); err != nil {
			w.Stop()
			return nil, fmt.Errorf("failed to start watcher: %w", err)
		}
		app.watcher = w
	}

	w, h := screen.Size()
	app.dispatch(statepkg.ResizeAction{Width: w, Height: h})
	app.afterActions()
	return app, nil
}

// State exposes the current state; the loop owns it.
func (app *Application) State() *statepkg.AppState {
	return app.state
}

// LastError is the most recent failure surfaced to the user.
func (app *Application) LastError() error {
	return app.state.LastError
}

// Close cleans up resources.
func (app *Application) Close() error {
	if app.watcher != nil {
		app.watcher.Stop()
	}
	app.screen.Fini()
	return nil
}

// GetCwd returns current working directory.
func GetCwd() (string, error) {
	return os.Getwd()
}
