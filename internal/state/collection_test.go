package state

import (
	"errors"
	"fmt"
	"testing"
	"time"

	fsutil "github.com/kk-code-lab/riv/internal/fs"
	"github.com/kk-code-lab/riv/internal/sorting"
)

type fakeDiscoverer struct {
	entries  []fsutil.Entry
	err      error
	patterns [][]string
}

func (f *fakeDiscoverer) Discover(patterns ...string) ([]fsutil.Entry, error) {
	f.patterns = append(f.patterns, patterns)
	if f.err != nil {
		return nil, f.err
	}
	return append([]fsutil.Entry(nil), f.entries...), nil
}

// sizedEntries returns n entries named img00.png.. with size = index+1.
func sizedEntries(n int) []fsutil.Entry {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	out := make([]fsutil.Entry, n)
	for i := range out {
		name := fmt.Sprintf("img%02d.png", i)
		out[i] = fsutil.Entry{
			Path:     "/pics/" + name,
			Name:     name,
			Size:     int64(i + 1),
			Modified: base.Add(time.Duration(i) * time.Minute),
			Depth:    1,
		}
	}
	return out
}

func loadedCollection(t *testing.T, n, max int, m sorting.Method) *Collection {
	t.Helper()
	c := NewCollection(&fakeDiscoverer{entries: sizedEntries(n)}, CollectionOptions{})
	if err := c.Load([]string{"*"}, max, m, false); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return c
}

func currentName(t *testing.T, c *Collection) string {
	t.Helper()
	cur, ok := c.Current()
	if !ok {
		t.Fatal("expected a current entry")
	}
	return cur.Name
}

func TestLoadTruncatesAndStartsAtFirst(t *testing.T) {
	c := loadedCollection(t, 10, 3, sorting.Size)

	if c.Len() != 3 {
		t.Fatalf("expected 3 visible entries, got %d", c.Len())
	}
	if c.Total() != 10 {
		t.Errorf("expected 10 discovered entries, got %d", c.Total())
	}
	if c.Index() != 0 {
		t.Errorf("expected cursor 0, got %d", c.Index())
	}
	want := []string{"img09.png", "img08.png", "img07.png"}
	for i, e := range c.Entries() {
		if e.Name != want[i] {
			t.Errorf("entry %d: expected %s, got %s", i, want[i], e.Name)
		}
	}
}

func TestLoadWithoutCapKeepsEverything(t *testing.T) {
	c := loadedCollection(t, 7, 0, sorting.Alphabetical)
	if c.Len() != 7 {
		t.Fatalf("expected 7 entries, got %d", c.Len())
	}
	if c.Max() != 0 || c.Method() != sorting.Alphabetical || c.Reverse() {
		t.Errorf("unexpected settings: max=%d method=%s reverse=%v", c.Max(), c.Method(), c.Reverse())
	}
}

func TestLoadNoMatchesLeavesEmptyCollection(t *testing.T) {
	c := NewCollection(&fakeDiscoverer{}, CollectionOptions{})
	err := c.Load([]string{"*.png"}, 0, sorting.DepthFirst, false)

	if !errors.Is(err, ErrNoImages) {
		t.Fatalf("expected ErrNoImages, got %v", err)
	}
	var discovery *DiscoveryError
	if !errors.As(err, &discovery) || discovery.Pattern != "*.png" {
		t.Errorf("expected DiscoveryError for *.png, got %#v", err)
	}
	if c.Len() != 0 || c.Index() != -1 {
		t.Errorf("expected empty collection, got len=%d cursor=%d", c.Len(), c.Index())
	}
	if _, ok := c.Current(); ok {
		t.Error("Current should report no entry")
	}
}

func TestLoadPatternErrorKeepsPreviousEntries(t *testing.T) {
	d := &fakeDiscoverer{entries: sizedEntries(4)}
	c := NewCollection(d, CollectionOptions{})
	if err := c.Load([]string{"*"}, 0, sorting.Size, false); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	_ = c.Advance(2)

	d.err = &fsutil.PatternError{Pattern: "[", Err: errors.New("bad")}
	err := c.Reglob("[")
	var patternErr *fsutil.PatternError
	if !errors.As(err, &patternErr) {
		t.Fatalf("expected PatternError, got %v", err)
	}
	if c.Len() != 4 || c.Index() != 2 {
		t.Errorf("collection changed on pattern error: len=%d cursor=%d", c.Len(), c.Index())
	}
	if c.Pattern() != "*" {
		t.Errorf("pattern should stay *, got %q", c.Pattern())
	}
}

func TestAdvanceClampsWithoutWrapping(t *testing.T) {
	c := loadedCollection(t, 5, 0, sorting.Alphabetical)
	_ = c.JumpLast()
	if c.Index() != 4 {
		t.Fatalf("expected cursor 4, got %d", c.Index())
	}

	if err := c.Advance(1); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if c.Index() != 4 {
		t.Errorf("advance(+1) at end should stay at 4, got %d", c.Index())
	}

	_ = c.Advance(-100)
	if c.Index() != 0 {
		t.Errorf("advance(-100) should clamp to 0, got %d", c.Index())
	}

	_ = c.Advance(3)
	if c.Index() != 3 {
		t.Errorf("expected cursor 3, got %d", c.Index())
	}
	_ = c.JumpFirst()
	if c.Index() != 0 {
		t.Errorf("JumpFirst should reset to 0, got %d", c.Index())
	}
}

func TestNavigationOnEmptyCollectionIsPreconditionError(t *testing.T) {
	c := NewCollection(&fakeDiscoverer{}, CollectionOptions{})
	checks := map[string]error{
		"advance": c.Advance(1),
		"first":   c.JumpFirst(),
		"last":    c.JumpLast(),
	}
	for name, err := range checks {
		var pre *PreconditionError
		if !errors.As(err, &pre) {
			t.Errorf("%s: expected PreconditionError, got %v", name, err)
		}
	}
	if _, err := c.RemoveCurrent(); !errors.Is(err, ErrEmptyCollection) {
		t.Errorf("RemoveCurrent: expected ErrEmptyCollection, got %v", err)
	}
}

func TestPageStep(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 1},
		{3, 1},
		{5, 1},
		{10, 1},
		{25, 3},
		{100, 10},
		{104, 10},
		{106, 11},
	}
	for _, tt := range tests {
		c := NewCollection(&fakeDiscoverer{entries: sizedEntries(tt.n)}, CollectionOptions{})
		_ = c.Load(nil, 0, sorting.Alphabetical, false)
		if got := c.PageStep(); got != tt.want {
			t.Errorf("PageStep with %d entries: expected %d, got %d", tt.n, tt.want, got)
		}
	}
}

func TestRemoveCurrentAtTailMovesToNewLast(t *testing.T) {
	c := loadedCollection(t, 3, 0, sorting.Alphabetical)
	_ = c.Advance(2)

	res, err := c.RemoveCurrent()
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if res.Removed.Name != "img02.png" {
		t.Errorf("removed wrong entry %s", res.Removed.Name)
	}
	if c.Len() != 2 || c.Index() != 1 || res.Index != 1 {
		t.Errorf("expected len=2 cursor=1, got len=%d cursor=%d result=%d", c.Len(), c.Index(), res.Index)
	}
	if res.Empty {
		t.Errorf("collection still has entries, result says empty: %+v", res)
	}
}

func TestRemoveCurrentKeepsSlot(t *testing.T) {
	c := loadedCollection(t, 4, 0, sorting.Alphabetical)
	_ = c.Advance(1)

	if _, err := c.RemoveCurrent(); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if c.Index() != 1 {
		t.Errorf("expected cursor to stay at 1, got %d", c.Index())
	}
	if got := currentName(t, c); got != "img02.png" {
		t.Errorf("expected img02.png to slide into place, got %s", got)
	}
}

func TestRemoveOnlyEntryEmptiesCollection(t *testing.T) {
	c := loadedCollection(t, 1, 0, sorting.Alphabetical)
	res, err := c.RemoveCurrent()
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if !res.Empty || res.Index != -1 || c.Len() != 0 || c.Index() != -1 {
		t.Errorf("expected empty collection, got %+v len=%d cursor=%d", res, c.Len(), c.Index())
	}
	if res.Removed.Name != "img00.png" {
		t.Errorf("removed wrong entry %s", res.Removed.Name)
	}
	if _, ok := c.Current(); ok {
		t.Error("empty collection must have no current entry")
	}
}

func TestRemoveDoesNotRefillFromCap(t *testing.T) {
	c := loadedCollection(t, 10, 3, sorting.Size)
	if _, err := c.RemoveCurrent(); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 visible entries, got %d", c.Len())
	}
	if c.Total() != 9 {
		t.Errorf("expected 9 discovered entries, got %d", c.Total())
	}

	// Re-applying the cap pulls the next entry in.
	c.SetMax(3)
	if c.Len() != 3 {
		t.Errorf("expected SetMax to refill to 3, got %d", c.Len())
	}
}

func TestResortFollowsCurrentEntry(t *testing.T) {
	c := loadedCollection(t, 6, 0, sorting.Size)
	_ = c.Advance(1) // img04.png
	want := currentName(t, c)

	c.Resort(sorting.Alphabetical, false)
	if got := currentName(t, c); got != want {
		t.Errorf("cursor should follow %s, got %s", want, got)
	}
	if c.Index() != 4 {
		t.Errorf("expected img04.png at index 4, got %d", c.Index())
	}
}

func TestResortIsIdempotent(t *testing.T) {
	c := loadedCollection(t, 8, 0, sorting.Date)
	c.Resort(sorting.Size, true)
	first := c.Entries()
	c.Resort(sorting.Size, true)
	second := c.Entries()
	for i := range first {
		if first[i].Path != second[i].Path {
			t.Fatalf("resort not idempotent at %d: %s vs %s", i, first[i].Name, second[i].Name)
		}
	}
}

func TestResortWithCapChangesVisibleSet(t *testing.T) {
	c := loadedCollection(t, 10, 3, sorting.Size)
	c.Resort(sorting.Size, true)

	want := []string{"img00.png", "img01.png", "img02.png"}
	for i, e := range c.Entries() {
		if e.Name != want[i] {
			t.Errorf("entry %d: expected %s, got %s", i, want[i], e.Name)
		}
	}
	// Previous current (img09) is no longer visible: clamp the old index.
	if c.Index() != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", c.Index())
	}
}

func TestSetMaxClampsCursor(t *testing.T) {
	c := loadedCollection(t, 10, 0, sorting.Alphabetical)
	_ = c.Advance(8)

	c.SetMax(4)
	if c.Len() != 4 || c.Index() != 3 {
		t.Errorf("expected len=4 cursor=3, got len=%d cursor=%d", c.Len(), c.Index())
	}

	c.SetMax(0)
	if c.Len() != 10 {
		t.Errorf("expected uncapped len 10, got %d", c.Len())
	}
	if got := currentName(t, c); got != "img03.png" {
		t.Errorf("cursor should stay on img03.png, got %s", got)
	}
}

func TestReglobKeepsCurrentWhenStillMatched(t *testing.T) {
	d := &fakeDiscoverer{entries: sizedEntries(5)}
	c := NewCollection(d, CollectionOptions{})
	_ = c.Load([]string{"*"}, 0, sorting.Alphabetical, false)
	_ = c.Advance(3)

	d.entries = sizedEntries(5)[2:]
	if err := c.Reglob("other/*"); err != nil {
		t.Fatalf("reglob failed: %v", err)
	}
	if got := currentName(t, c); got != "img03.png" {
		t.Errorf("expected img03.png to stay current, got %s", got)
	}
	if c.Pattern() != "other/*" {
		t.Errorf("expected pattern other/*, got %q", c.Pattern())
	}
	if last := d.patterns[len(d.patterns)-1]; len(last) != 1 || last[0] != "other/*" {
		t.Errorf("discoverer got %v", last)
	}

	d.entries = sizedEntries(5)[:2]
	_ = c.Reglob("again")
	if c.Index() != 0 {
		t.Errorf("expected cursor 0 when previous entry is gone, got %d", c.Index())
	}
}

func TestReglobNoMatchesEmptiesCollection(t *testing.T) {
	d := &fakeDiscoverer{entries: sizedEntries(3)}
	c := NewCollection(d, CollectionOptions{})
	_ = c.Load([]string{"*"}, 0, sorting.Alphabetical, false)
	gen := c.Generation()

	d.entries = nil
	err := c.Reglob("nothing/*")
	if !errors.Is(err, ErrNoImages) {
		t.Fatalf("expected ErrNoImages, got %v", err)
	}
	if c.Len() != 0 || c.Index() != -1 {
		t.Errorf("expected empty collection after empty reglob")
	}
	if c.Generation() == gen {
		t.Error("generation should change on reload")
	}
}

func TestRemoveByPathAdjustsCursor(t *testing.T) {
	c := loadedCollection(t, 5, 0, sorting.Alphabetical)
	_ = c.Advance(3)

	if !c.Remove("/pics/img01.png") {
		t.Fatal("expected visible entry to be removed")
	}
	if got := currentName(t, c); got != "img03.png" {
		t.Errorf("cursor should stay on img03.png, got %s", got)
	}
	if c.Remove("/pics/missing.png") {
		t.Error("removing an unknown path should report false")
	}

	_ = c.JumpLast()
	c.Remove("/pics/img04.png")
	if c.Index() != c.Len()-1 {
		t.Errorf("expected cursor on new last entry, got %d of %d", c.Index(), c.Len())
	}
}
