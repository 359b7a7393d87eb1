// Package sorting orders discovered images.
package sorting

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	fsutil "github.com/kk-code-lab/riv/internal/fs"
)

// Method selects how entries are ordered.
type Method int

const (
	DepthFirst Method = iota
	BreadthFirst
	Alphabetical
	Date
	Size
)

// Default is used when no method is configured.
const Default = DepthFirst

var methodNames = map[Method]string{
	DepthFirst:   "DepthFirst",
	BreadthFirst: "BreadthFirst",
	Alphabetical: "Alphabetical",
	Date:         "Date",
	Size:         "Size",
}

// Methods lists every method in display order.
func Methods() []Method {
	return []Method{Alphabetical, Date, Size, DepthFirst, BreadthFirst}
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Parse resolves a method name case-insensitively.
func Parse(name string) (Method, error) {
	name = strings.TrimSpace(name)
	for m, n := range methodNames {
		if strings.EqualFold(n, name) {
			return m, nil
		}
	}
	return Default, fmt.Errorf("unknown sort method %q (want one of %s)", name, strings.Join(names(), ", "))
}

func names() []string {
	out := make([]string, 0, len(methodNames))
	for _, m := range Methods() {
		out = append(out, m.String())
	}
	return out
}

// Sort returns a new slice ordered by m. Ties fall back to the file name and
// then the full path, both compared byte-wise. Reverse inverts the finished
// ordering.
func Sort(entries []fsutil.Entry, m Method, reverse bool) []fsutil.Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b fsutil.Entry) int {
		if c := compare(a, b, m); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	if reverse {
		slices.Reverse(out)
	}
	return out
}

func compare(a, b fsutil.Entry, m Method) int {
	switch m {
	case Date:
		return b.Modified.Compare(a.Modified)
	case Size:
		return cmp.Compare(b.Size, a.Size)
	case DepthFirst:
		return cmp.Compare(b.Depth, a.Depth)
	case BreadthFirst:
		return cmp.Compare(a.Depth, b.Depth)
	default:
		return 0
	}
}
