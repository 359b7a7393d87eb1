package state

import "fmt"

// RepeatKind tags the action replayed by the repeat key.
type RepeatKind int

const (
	RepeatNone RepeatKind = iota
	RepeatMove
	RepeatCopy
	RepeatDelete
	RepeatNavigate
)

func (k RepeatKind) String() string {
	switch k {
	case RepeatMove:
		return "move"
	case RepeatCopy:
		return "copy"
	case RepeatDelete:
		return "delete"
	case RepeatNavigate:
		return "navigate"
	default:
		return "none"
	}
}

// LastAction is the most recent repeatable action with its parameters. The
// zero value means nothing has been recorded yet.
type LastAction struct {
	Kind  RepeatKind
	Dest  string // move and copy
	Delta int    // navigate
}

func MoveAction(dest string) LastAction { return LastAction{Kind: RepeatMove, Dest: dest} }
func CopyAction(dest string) LastAction { return LastAction{Kind: RepeatCopy, Dest: dest} }
func DeleteAction() LastAction          { return LastAction{Kind: RepeatDelete} }
func NavigateAction(delta int) LastAction {
	return LastAction{Kind: RepeatNavigate, Delta: delta}
}

// IsZero reports whether no action has been recorded.
func (a LastAction) IsZero() bool { return a.Kind == RepeatNone }

func (a LastAction) String() string {
	switch a.Kind {
	case RepeatMove, RepeatCopy:
		return fmt.Sprintf("%s to %s", a.Kind, a.Dest)
	case RepeatNavigate:
		return fmt.Sprintf("navigate %+d", a.Delta)
	default:
		return a.Kind.String()
	}
}
