package state

import (
	"errors"
	"fmt"
)

var (
	// ErrNoImages marks a load or reglob that matched nothing.
	ErrNoImages = errors.New("no images found")
	// ErrEmptyCollection marks an operation that needs a current image.
	ErrEmptyCollection = errors.New("no current image")
)

// DiscoveryError reports a pattern that matched no images. The collection is
// left empty but usable.
type DiscoveryError struct {
	Pattern string
}

func (e *DiscoveryError) Error() string {
	if e.Pattern == "" {
		return ErrNoImages.Error()
	}
	return fmt.Sprintf("no images found matching %q", e.Pattern)
}

func (e *DiscoveryError) Unwrap() error {
	return ErrNoImages
}

// PreconditionError reports an operation invoked on an empty collection.
type PreconditionError struct {
	Op string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, ErrEmptyCollection)
}

func (e *PreconditionError) Unwrap() error {
	return ErrEmptyCollection
}

// FileActionError reports a failed move, copy or delete. The entry stays in
// the collection.
type FileActionError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileActionError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileActionError) Unwrap() error {
	return e.Err
}
