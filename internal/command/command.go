// Package command parses the ':' command line.
package command

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/kk-code-lab/riv/internal/sorting"
)

// Directive is the parsed form of a command line.
type Directive interface {
	directive()
}

// NewGlob replaces the image set with the matches of Pattern.
type NewGlob struct {
	Pattern string
}

// Help opens the help overlay.
type Help struct{}

// Quit ends the session.
type Quit struct{}

// Sort re-sorts the collection. Without a method the current one is re-applied.
type Sort struct {
	Method    sorting.Method
	HasMethod bool
}

// DestFolder sets the move/copy destination.
type DestFolder struct {
	Path string
}

// Max caps the number of visible images; 0 removes the cap.
type Max struct {
	N int
}

// Reverse flips the sort direction.
type Reverse struct{}

// Unrecognized carries a line whose command token is unknown.
type Unrecognized struct {
	Raw string
}

func (NewGlob) directive()      {}
func (Help) directive()         {}
func (Quit) directive()         {}
func (Sort) directive()         {}
func (DestFolder) directive()   {}
func (Max) directive()          {}
func (Reverse) directive()      {}
func (Unrecognized) directive() {}

// MissingArgumentError is returned when a command needs an argument.
type MissingArgumentError struct {
	Command string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s: missing argument", e.Command)
}

// InvalidArgumentError is returned when an argument cannot be used.
type InvalidArgumentError struct {
	Command string
	Arg     string
	Reason  string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid argument %q: %s", e.Command, e.Arg, e.Reason)
}

// Parse turns a command line into a Directive. The command token is matched
// case-insensitively; the argument of newglob and destfolder is the rest of
// the line so paths may contain spaces.
func Parse(line string) (Directive, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Unrecognized{Raw: ""}, nil
	}

	token, arg := splitToken(line)
	switch strings.ToLower(token) {
	case "ng", "newglob":
		if arg == "" {
			return nil, &MissingArgumentError{Command: "newglob"}
		}
		return NewGlob{Pattern: arg}, nil

	case "?", "h", "help":
		return Help{}, nil

	case "q", "quit":
		return Quit{}, nil

	case "r", "reverse":
		return Reverse{}, nil

	case "sort":
		if arg == "" {
			return Sort{}, nil
		}
		m, err := sorting.Parse(arg)
		if err != nil {
			return nil, &InvalidArgumentError{Command: "sort", Arg: arg, Reason: "unknown sort method"}
		}
		return Sort{Method: m, HasMethod: true}, nil

	case "df", "destfolder":
		if arg == "" {
			return nil, &MissingArgumentError{Command: "destfolder"}
		}
		return DestFolder{Path: arg}, nil

	case "m", "max":
		if arg == "" {
			return nil, &MissingArgumentError{Command: "max"}
		}
		n, err := strconv.ParseUint(arg, 10, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, &InvalidArgumentError{Command: "max", Arg: arg, Reason: "want a non-negative integer"}
		}
		// Caps beyond any realistic collection size mean "no smaller cap".
		return Max{N: int(min(n, math.MaxInt32))}, nil
	}

	return Unrecognized{Raw: line}, nil
}

func splitToken(line string) (string, string) {
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx:])
}

// Names lists the accepted command spellings for help output.
func Names() [][2]string {
	return [][2]string{
		{"ng, newglob <pattern>", "Load images matching a new pattern"},
		{"df, destfolder <path>", "Set the move/copy destination"},
		{"sort [method]", "Re-sort, optionally with a new method"},
		{"r, reverse", "Reverse the sort order"},
		{"m, max <n>", "Show at most n images (0 = all)"},
		{"h, ?, help", "Show help"},
		{"q, quit", "Quit"},
	}
}
