//go:build !windows

package app

// flushPendingInput only has work to do on the Windows console.
func flushPendingInput() error {
	return nil
}
