package state

import (
	"time"

	fsutil "github.com/kk-code-lab/riv/internal/fs"
)

// Mode is the active input mode. Exactly one is active at a time.
type Mode int

const (
	ModeNormal Mode = iota
	ModeCommand
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeCommand:
		return "command"
	case ModeHelp:
		return "help"
	default:
		return "normal"
	}
}

// MessageTTL is how long a transient message stays visible.
const MessageTTL = 1500 * time.Millisecond

// Message is a transient status line notice.
type Message struct {
	Text    string
	IsError bool
	At      time.Time
}

// ===== STATE DEFINITIONS =====

// AppState is the single source of truth
type AppState struct {
	Collection *Collection
	View       ViewState
	Mode       Mode

	// Command line being typed; meaningful in ModeCommand only.
	CommandBuffer string

	LastAction LastAction

	// Chrome
	ShowInfoBar bool
	Fullscreen  bool

	// Decode result for the current image. ImagePath is empty until the
	// current entry has been decoded.
	ImagePath string
	ImageErr  error

	// Dimensions
	ScreenWidth  int
	ScreenHeight int

	Message   Message
	LastError error
	Quit      bool
}

// NewAppState returns a normal-mode state over collection.
func NewAppState(collection *Collection, view ViewOptions, showInfoBar bool) *AppState {
	return &AppState{
		Collection:  collection,
		View:        NewViewState(view),
		ShowInfoBar: showInfoBar,
	}
}

// ===== HELPER METHODS =====

// CurrentEntry returns the image under the cursor.
func (s *AppState) CurrentEntry() (fsutil.Entry, bool) {
	if s == nil || s.Collection == nil {
		return fsutil.Entry{}, false
	}
	return s.Collection.Current()
}

// NeedsDecode reports whether the current image has not been decoded yet.
func (s *AppState) NeedsDecode() bool {
	entry, ok := s.CurrentEntry()
	return ok && s.ImagePath != entry.Path
}

// InfoBarVisible reports whether the bottom row is reserved for the info bar.
func (s *AppState) InfoBarVisible() bool {
	return s.ShowInfoBar && !s.Fullscreen
}

// ViewportPixels is the drawable image area in display pixels. Each terminal
// cell holds two vertically stacked pixels.
func (s *AppState) ViewportPixels() (int, int) {
	rows := s.ScreenHeight
	if s.InfoBarVisible() {
		rows--
	}
	return max(s.ScreenWidth, 0), max(rows, 0) * 2
}

// MessageActive reports whether the transient message should still be shown.
func (s *AppState) MessageActive(now time.Time) bool {
	if s.Message.Text == "" {
		return false
	}
	return now.Sub(s.Message.At) < MessageTTL
}

func (s *AppState) setMessage(text string, isError bool, now time.Time) {
	s.Message = Message{Text: text, IsError: isError, At: now}
}

func (s *AppState) syncViewport() {
	w, h := s.ViewportPixels()
	s.View.SetViewport(w, h)
}

// cursorMoved resets per-image state after the current entry changed.
func (s *AppState) cursorMoved() {
	s.View.OnNavigate()
	s.ImagePath = ""
	s.ImageErr = nil
}
