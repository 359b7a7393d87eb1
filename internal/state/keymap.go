package state

// Op is a normal-mode intent bound to one or more keys.
type Op int

const (
	OpNone Op = iota
	OpNext
	OpPrev
	OpPageForward
	OpPageBack
	OpFirst
	OpLast
	OpZoomIn
	OpZoomOut
	OpPanLeft
	OpPanRight
	OpPanUp
	OpPanDown
	OpToggleFit
	OpCenter
	OpMove
	OpCopy
	OpDelete
	OpToggleInfoBar
	OpToggleFullscreen
	OpHelp
	OpCommandMode
	OpRepeat
	OpQuit
)

var runeOps = map[rune]Op{
	'j': OpNext,
	'k': OpPrev,
	'w': OpPageForward,
	'b': OpPageBack,
	'g': OpFirst,
	'G': OpLast,
	'+': OpZoomIn,
	'=': OpZoomIn,
	'-': OpZoomOut,
	'H': OpPanLeft,
	'L': OpPanRight,
	'K': OpPanUp,
	'J': OpPanDown,
	'z': OpToggleFit,
	'x': OpCenter,
	'm': OpMove,
	'c': OpCopy,
	'd': OpDelete,
	't': OpToggleInfoBar,
	'f': OpToggleFullscreen,
	'h': OpHelp,
	'?': OpHelp,
	':': OpCommandMode,
	'.': OpRepeat,
	'q': OpQuit,
}

var keyOps = map[Key]Op{
	KeyRight:  OpNext,
	KeyLeft:   OpPrev,
	KeyPgDn:   OpPageForward,
	KeyPgUp:   OpPageBack,
	KeyHome:   OpFirst,
	KeyEnd:    OpLast,
	KeyDelete: OpDelete,
	KeyF11:    OpToggleFullscreen,
	KeyEscape: OpQuit,
}

var shiftedKeyOps = map[Key]Op{
	KeyLeft:  OpPanLeft,
	KeyRight: OpPanRight,
	KeyUp:    OpPanUp,
	KeyDown:  OpPanDown,
}

// normalOp resolves a key press in normal mode.
func normalOp(k KeyAction) Op {
	if k.Key == KeyRune {
		if k.Mod&(ModCtrl|ModAlt) != 0 {
			return OpNone
		}
		return runeOps[k.Rune]
	}
	if k.Mod&ModShift != 0 {
		if op, ok := shiftedKeyOps[k.Key]; ok {
			return op
		}
	}
	return keyOps[k.Key]
}
