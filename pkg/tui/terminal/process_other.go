// ABOUTME: Non-unix fallbacks: no SIGWINCH listener and no job-control suspend.

//go:build !unix

package terminal

func (t *ProcessTerminal) startResizeListener() {}

// Suspend is not supported on this platform.
func (t *ProcessTerminal) Suspend() error {
	return nil
}
