package fs

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// ChangeOp classifies a filesystem change relevant to the image list.
type ChangeOp int

const (
	ChangeCreated ChangeOp = iota
	ChangeRemoved
	ChangeModified
)

func (op ChangeOp) String() string {
	switch op {
	case ChangeCreated:
		return "created"
	case ChangeRemoved:
		return "removed"
	case ChangeModified:
		return "modified"
	default:
		return "unknown"
	}
}

// Change is an image file event observed by the Watcher.
type Change struct {
	Path string
	Op   ChangeOp
	Info os.FileInfo
}

// Watcher reports image changes inside a set of directories using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	changes   chan Change
	stopChan  chan struct{}
	done      chan struct{}
	log       logrus.FieldLogger

	mu      sync.Mutex
	dirs    map[string]struct{}
	running bool
}

// NewWatcher creates a stopped watcher.
func NewWatcher(log logrus.FieldLogger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		changes:   make(chan Change, 64),
		log:       log,
		dirs:      make(map[string]struct{}),
	}, nil
}

// Changes delivers image events until the watcher is stopped.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Watch replaces the watched directory set with dirs.
func (w *Watcher) Watch(dirs []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsWatcher == nil {
		return errors.New("watcher stopped")
	}

	want := make(map[string]struct{}, len(dirs))
	for _, dir := range dirs {
		want[dir] = struct{}{}
	}
	for dir := range w.dirs {
		if _, keep := want[dir]; keep {
			continue
		}
		if err := w.fsWatcher.Remove(dir); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			w.log.WithField("dir", dir).WithError(err).Warn("unwatch failed")
		}
		delete(w.dirs, dir)
	}

	var errs []error
	for dir := range want {
		if _, ok := w.dirs[dir]; ok {
			continue
		}
		if err := w.fsWatcher.Add(dir); err != nil {
			errs = append(errs, fmt.Errorf("watch %s: %w", dir, err))
			continue
		}
		w.dirs[dir] = struct{}{}
		w.log.WithField("dir", dir).Debug("watching directory")
	}
	return errors.Join(errs...)
}

// Start launches the event loop.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}
	if w.fsWatcher == nil {
		return errors.New("watcher stopped")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})
	go w.loop(w.stopChan, w.done)
	return nil
}

func (w *Watcher) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			change, ok := w.translate(event)
			if !ok {
				continue
			}
			select {
			case w.changes <- change:
			default:
				w.log.WithField("path", event.Name).Warn("change channel full, dropped event")
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Error("fsnotify watcher error")
		case <-stop:
			return
		}
	}
}

func (w *Watcher) translate(event fsnotify.Event) (Change, bool) {
	if !IsImagePath(event.Name) {
		return Change{}, false
	}
	switch {
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		return Change{Path: event.Name, Op: ChangeRemoved}, true
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil {
			if !os.IsNotExist(err) {
				w.log.WithField("path", event.Name).WithError(err).Warn("stat after event failed")
			}
			return Change{}, false
		}
		if !info.Mode().IsRegular() {
			return Change{}, false
		}
		op := ChangeModified
		if event.Op.Has(fsnotify.Create) {
			op = ChangeCreated
		}
		return Change{Path: event.Name, Op: op, Info: info}, true
	}
	return Change{}, false
}

// Stop halts the event loop and closes the change channel.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsWatcher == nil {
		return
	}
	if w.running {
		close(w.stopChan)
		<-w.done
		w.running = false
	}
	if err := w.fsWatcher.Close(); err != nil {
		w.log.WithError(err).Error("closing fsnotify watcher")
	}
	w.fsWatcher = nil
	close(w.changes)
}

// Dirs returns the parent directories of entries, deduplicated.
func Dirs(entries []Entry) []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, e := range entries {
		dir := e.Dir()
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}
