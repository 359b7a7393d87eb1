package state

import (
	"math"
	"os"
	"slices"
	"strings"

	fsutil "github.com/kk-code-lab/riv/internal/fs"
	"github.com/kk-code-lab/riv/internal/sorting"
)

// Discoverer expands patterns into image entries.
type Discoverer interface {
	Discover(patterns ...string) ([]fsutil.Entry, error)
}

// CollectionOptions seeds a collection before its first load.
type CollectionOptions struct {
	Max        int
	Method     sorting.Method
	Reverse    bool
	DestFolder string
}

// RemovalResult describes the outcome of RemoveCurrent.
type RemovalResult struct {
	Removed fsutil.Entry
	Index   int
	Empty   bool
}

// Collection is the ordered image list plus its cursor.
//
// discovered holds every entry of the last load in sort order; entries is the
// visible prefix of at most maxCount of them. Removals shrink both lists but
// never pull hidden entries into view; only Load, Resort and SetMax
// re-derive the visible prefix.
type Collection struct {
	discoverer Discoverer
	patterns   []string
	discovered []fsutil.Entry
	entries    []fsutil.Entry
	cursor     int
	maxCount   int
	method     sorting.Method
	reversed   bool
	destFolder string
	generation int
}

// NewCollection returns an empty collection.
func NewCollection(d Discoverer, opts CollectionOptions) *Collection {
	maxCount := opts.Max
	if maxCount < 0 {
		maxCount = 0
	}
	return &Collection{
		discoverer: d,
		cursor:     -1,
		maxCount:   maxCount,
		method:     opts.Method,
		reversed:   opts.Reverse,
		destFolder: opts.DestFolder,
	}
}

// Load discovers, sorts and truncates. A pattern error leaves the collection
// untouched; an empty result empties it and returns a *DiscoveryError.
func (c *Collection) Load(patterns []string, maxCount int, m sorting.Method, reverse bool) error {
	found, err := c.discoverer.Discover(patterns...)
	if err != nil {
		return err
	}
	if maxCount < 0 {
		maxCount = 0
	}

	c.patterns = slices.Clone(patterns)
	c.maxCount = maxCount
	c.method = m
	c.reversed = reverse
	c.discovered = sorting.Sort(found, m, reverse)
	c.applyMax()
	c.generation++

	if len(c.entries) == 0 {
		c.cursor = -1
		return &DiscoveryError{Pattern: c.Pattern()}
	}
	c.cursor = 0
	return nil
}

// Reglob reloads from a new pattern keeping the current max, method and
// direction. The previously current image stays selected if it matches again.
func (c *Collection) Reglob(pattern string) error {
	return c.reload([]string{pattern})
}

// Rescan reloads the current patterns.
func (c *Collection) Rescan() error {
	return c.reload(c.patterns)
}

func (c *Collection) reload(patterns []string) error {
	prevPath, _ := c.anchor()
	if err := c.Load(patterns, c.maxCount, c.method, c.reversed); err != nil {
		return err
	}
	c.reanchor(prevPath, 0)
	return nil
}

// Current returns the entry under the cursor.
func (c *Collection) Current() (fsutil.Entry, bool) {
	if c.cursor < 0 || c.cursor >= len(c.entries) {
		return fsutil.Entry{}, false
	}
	return c.entries[c.cursor], true
}

// Len is the number of visible entries.
func (c *Collection) Len() int { return len(c.entries) }

// Total is the number of discovered entries, including those hidden by the cap.
func (c *Collection) Total() int { return len(c.discovered) }

// Index is the cursor position, -1 when empty.
func (c *Collection) Index() int { return c.cursor }

// Entries returns a copy of the visible entries.
func (c *Collection) Entries() []fsutil.Entry { return slices.Clone(c.entries) }

func (c *Collection) Max() int               { return c.maxCount }
func (c *Collection) Method() sorting.Method { return c.method }
func (c *Collection) Reverse() bool          { return c.reversed }
func (c *Collection) DestFolder() string     { return c.destFolder }
func (c *Collection) Patterns() []string     { return slices.Clone(c.patterns) }

// Generation changes every time the collection is reloaded from disk.
func (c *Collection) Generation() int { return c.generation }

// Pattern joins the active patterns for display.
func (c *Collection) Pattern() string {
	return strings.Join(c.patterns, " ")
}

// SetDestFolder sets the move/copy destination.
func (c *Collection) SetDestFolder(path string) {
	c.destFolder = path
}

// Advance moves the cursor by n, clamped to the visible range.
func (c *Collection) Advance(n int) error {
	if len(c.entries) == 0 {
		return &PreconditionError{Op: "advance"}
	}
	c.cursor = clampIndex(c.cursor+n, len(c.entries))
	return nil
}

// PageStep is a tenth of the visible entries, at least one.
func (c *Collection) PageStep() int {
	step := int(math.Round(float64(len(c.entries)) * 0.1))
	if step < 1 {
		return 1
	}
	return step
}

func (c *Collection) JumpFirst() error {
	if len(c.entries) == 0 {
		return &PreconditionError{Op: "first"}
	}
	c.cursor = 0
	return nil
}

func (c *Collection) JumpLast() error {
	if len(c.entries) == 0 {
		return &PreconditionError{Op: "last"}
	}
	c.cursor = len(c.entries) - 1
	return nil
}

// RemoveCurrent drops the current entry after a successful file action. The
// cursor stays on the same index when something slides into it, otherwise it
// moves to the new last entry.
func (c *Collection) RemoveCurrent() (RemovalResult, error) {
	if len(c.entries) == 0 {
		return RemovalResult{Index: -1, Empty: true}, &PreconditionError{Op: "remove"}
	}
	removed := c.entries[c.cursor]
	c.entries = slices.Delete(c.entries, c.cursor, c.cursor+1)
	c.dropDiscovered(removed.Path)

	if len(c.entries) == 0 {
		c.cursor = -1
		return RemovalResult{Removed: removed, Index: -1, Empty: true}, nil
	}
	if c.cursor >= len(c.entries) {
		c.cursor = len(c.entries) - 1
	}
	return RemovalResult{Removed: removed, Index: c.cursor}, nil
}

// Remove drops the entry with path, e.g. after it disappeared from disk. It
// reports whether a visible entry was removed.
func (c *Collection) Remove(path string) bool {
	c.dropDiscovered(path)
	idx := c.indexOf(path)
	if idx < 0 {
		return false
	}
	c.entries = slices.Delete(c.entries, idx, idx+1)
	switch {
	case len(c.entries) == 0:
		c.cursor = -1
	case idx < c.cursor:
		c.cursor--
	case c.cursor >= len(c.entries):
		c.cursor = len(c.entries) - 1
	}
	return true
}

// RefreshEntry updates the cached metadata of path without re-sorting.
func (c *Collection) RefreshEntry(path string, info os.FileInfo) bool {
	found := false
	for i := range c.discovered {
		if c.discovered[i].Path == path {
			c.discovered[i] = c.discovered[i].Refresh(info)
		}
	}
	for i := range c.entries {
		if c.entries[i].Path == path {
			c.entries[i] = c.entries[i].Refresh(info)
			found = true
		}
	}
	return found
}

// Resort reorders without touching the filesystem. The cursor follows the
// entry it pointed at, or is clamped when that entry is no longer visible.
func (c *Collection) Resort(m sorting.Method, reverse bool) {
	prevPath, prevIdx := c.anchor()
	c.method = m
	c.reversed = reverse
	c.discovered = sorting.Sort(c.discovered, m, reverse)
	c.applyMax()
	c.reanchor(prevPath, prevIdx)
}

// SetMax re-applies the cap to the discovered entries. Zero shows everything.
func (c *Collection) SetMax(n int) {
	if n < 0 {
		n = 0
	}
	prevPath, prevIdx := c.anchor()
	c.maxCount = n
	c.applyMax()
	c.reanchor(prevPath, prevIdx)
}

func (c *Collection) applyMax() {
	n := len(c.discovered)
	if c.maxCount > 0 && c.maxCount < n {
		n = c.maxCount
	}
	c.entries = slices.Clone(c.discovered[:n])
}

func (c *Collection) anchor() (string, int) {
	if cur, ok := c.Current(); ok {
		return cur.Path, c.cursor
	}
	return "", c.cursor
}

func (c *Collection) reanchor(path string, fallback int) {
	if len(c.entries) == 0 {
		c.cursor = -1
		return
	}
	if path != "" {
		if idx := c.indexOf(path); idx >= 0 {
			c.cursor = idx
			return
		}
	}
	c.cursor = clampIndex(fallback, len(c.entries))
}

func (c *Collection) indexOf(path string) int {
	return slices.IndexFunc(c.entries, func(e fsutil.Entry) bool { return e.Path == path })
}

func (c *Collection) dropDiscovered(path string) {
	c.discovered = slices.DeleteFunc(c.discovered, func(e fsutil.Entry) bool { return e.Path == path })
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
