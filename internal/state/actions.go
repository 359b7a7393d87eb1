package state

import (
	"os"
	"time"

	fsutil "github.com/kk-code-lab/riv/internal/fs"
)

// Action is the base interface for all state mutations
type Action interface{}

// Key identifies a non-printable key; printable input arrives as KeyRune.
type Key int

const (
	KeyRune Key = iota
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPgUp
	KeyPgDn
	KeyHome
	KeyEnd
	KeyF11
	KeyCtrlC
	KeyOther
)

// ModMask carries modifier keys.
type ModMask int

const (
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// ===== INPUT ACTIONS =====

type KeyAction struct {
	Key  Key
	Rune rune
	Mod  ModMask
}

type ResizeAction struct {
	Width  int
	Height int
}

type MouseClickAction struct {
	X int
	Y int
}

// ===== COLLABORATOR RESULTS =====

// ImageInfoAction reports the decode result for Path.
type ImageInfoAction struct {
	Path   string
	Width  int
	Height int
	Err    error
}

// FsEventAction reports an external change to an image file.
type FsEventAction struct {
	Path string
	Op   fsutil.ChangeOp
	Info os.FileInfo
}

// TickAction drives time-based updates such as message expiry.
type TickAction struct {
	Now time.Time
}

// ===== APPLICATION ACTIONS =====

type QuitAction struct{}
type SuspendAction struct{} // Ctrl+Z
