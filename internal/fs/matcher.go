package fs

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// PatternError reports a search pattern that cannot be compiled.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

const globMeta = `*?[{\`

// Matcher expands search patterns into image entries.
type Matcher struct {
	// WorkDir anchors relative patterns. Empty means the process working directory.
	WorkDir string
	statFn  func(string) (os.FileInfo, error)
}

// NewMatcher returns a matcher anchored at workDir.
func NewMatcher(workDir string) *Matcher {
	return &Matcher{WorkDir: workDir, statFn: os.Stat}
}

// Discover expands every pattern and returns the matching images in discovery
// order with duplicates removed. No patterns means every image in the working
// directory. A syntactically invalid pattern fails the whole call with a
// *PatternError; patterns that match nothing contribute nothing.
func (m *Matcher) Discover(patterns ...string) ([]Entry, error) {
	if len(patterns) == 0 {
		patterns = []string{"*"}
	}

	seen := make(map[string]struct{})
	var entries []Entry
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		found, err := m.discoverOne(pattern)
		if err != nil {
			return nil, err
		}
		for _, entry := range found {
			if _, dup := seen[entry.Path]; dup {
				continue
			}
			seen[entry.Path] = struct{}{}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (m *Matcher) stat(path string) (os.FileInfo, error) {
	if m.statFn != nil {
		return m.statFn(path)
	}
	return os.Stat(path)
}

func (m *Matcher) resolve(pattern string) (string, error) {
	pattern = ExpandPath(pattern)
	if filepath.IsAbs(pattern) {
		return filepath.Clean(pattern), nil
	}
	wd := m.WorkDir
	if wd == "" {
		var err error
		if wd, err = getwdFn(); err != nil {
			return "", err
		}
	}
	return filepath.Join(wd, pattern), nil
}

func (m *Matcher) discoverOne(raw string) ([]Entry, error) {
	pattern, err := m.resolve(raw)
	if err != nil {
		return nil, err
	}

	if !hasMeta(pattern) {
		info, err := m.stat(pattern)
		if err != nil {
			return nil, nil
		}
		if !info.IsDir() {
			if !info.Mode().IsRegular() || !IsImagePath(pattern) {
				return nil, nil
			}
			return []Entry{NewEntry(pattern, info, 1)}, nil
		}
		pattern = filepath.Join(pattern, "*")
	}

	slashed := filepath.ToSlash(pattern)
	g, err := compileGlob(slashed)
	if err != nil {
		return nil, &PatternError{Pattern: raw, Err: err}
	}
	if err := validateClasses(slashed); err != nil {
		return nil, &PatternError{Pattern: raw, Err: err}
	}

	root, rest := splitStaticPrefix(slashed)
	maxDepth := -1
	if !strings.Contains(rest, "**") {
		maxDepth = strings.Count(rest, "/") + 1
	}
	includeHidden := strings.HasPrefix(rest, ".") || strings.Contains(rest, "/.")
	return m.walk(filepath.FromSlash(root), maxDepth, includeHidden, g)
}

func (m *Matcher) walk(root string, maxDepth int, includeHidden bool, g glob.Glob) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		depth := pathDepth(root, path)
		if path != root && !includeHidden && IsHidden(path, d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && maxDepth >= 0 && depth >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if maxDepth >= 0 && depth > maxDepth {
			return nil
		}
		if !IsImagePath(path) || !g.Match(filepath.ToSlash(path)) {
			return nil
		}

		info, err := m.stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
		entries = append(entries, NewEntry(path, info, depth))
		return nil
	})
	if err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return entries, err
	}
	return entries, nil
}

// anyGlob matches when any of its patterns does.
type anyGlob []glob.Glob

func (a anyGlob) Match(s string) bool {
	for _, g := range a {
		if g.Match(s) {
			return true
		}
	}
	return false
}

// compileGlob compiles pattern with '/' as separator. A "**" element also
// matches zero directories, so "a/**/*.png" covers "a/x.png" as well; the
// compiler alone requires at least one.
func compileGlob(pattern string) (glob.Glob, error) {
	variants := doubleStarVariants(strings.Split(pattern, "/"))
	set := make(anyGlob, 0, len(variants))
	for _, v := range variants {
		g, err := glob.Compile(strings.Join(v, "/"), '/')
		if err != nil {
			return nil, err
		}
		set = append(set, g)
	}
	if len(set) == 1 {
		return set[0], nil
	}
	return set, nil
}

// doubleStarVariants lists parts with every combination of its non-final
// "**" elements kept or dropped. The unchanged pattern comes first.
func doubleStarVariants(parts []string) [][]string {
	if len(parts) == 0 {
		return [][]string{nil}
	}
	rest := doubleStarVariants(parts[1:])
	out := make([][]string, 0, 2*len(rest))
	for _, r := range rest {
		out = append(out, append([]string{parts[0]}, r...))
	}
	if parts[0] == "**" && len(parts) > 1 {
		out = append(out, rest...)
	}
	return out
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, globMeta)
}

// splitStaticPrefix separates the leading pattern elements free of glob
// meta characters from the rest.
func splitStaticPrefix(pattern string) (string, string) {
	parts := strings.Split(pattern, "/")
	i := 0
	for i < len(parts)-1 && !hasMeta(parts[i]) {
		i++
	}
	root := strings.Join(parts[:i], "/")
	if root == "" {
		root = "/"
	}
	return root, strings.Join(parts[i:], "/")
}

func pathDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(filepath.ToSlash(rel), "/") + 1
}

// validateClasses rejects unterminated character classes and alternations,
// which the glob compiler would otherwise treat as literals.
func validateClasses(pattern string) error {
	depthClass, depthAlt := 0, 0
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case '[':
			depthClass++
		case ']':
			if depthClass > 0 {
				depthClass--
			}
		case '{':
			depthAlt++
		case '}':
			if depthAlt > 0 {
				depthAlt--
			}
		}
	}
	if depthClass > 0 {
		return errors.New("unterminated character class")
	}
	if depthAlt > 0 {
		return errors.New("unterminated alternation")
	}
	return nil
}
