// ABOUTME: Unix-specific SIGWINCH handling and job-control suspend for ProcessTerminal.
// ABOUTME: Suspend leaves raw mode, stops the process group, and re-enters raw mode on resume.

//go:build unix

package terminal

import (
	"os"
	"os/signal"
	"syscall"
)

// startResizeListener sets up a SIGWINCH handler that calls the
// resize callback with the new terminal dimensions.
func (t *ProcessTerminal) startResizeListener() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)

	go func() {
		for range sigCh {
			t.mu.Lock()
			fn := t.resizeFn
			t.mu.Unlock()

			if fn == nil {
				continue
			}

			w, h, err := t.Size()
			if err != nil {
				continue
			}
			fn(w, h)
		}
	}()
}

// Suspend stops the process like a shell's Ctrl-Z and returns once the
// process is continued.
func (t *ProcessTerminal) Suspend() error {
	if err := t.ExitRawMode(); err != nil {
		return err
	}
	if err := syscall.Kill(0, syscall.SIGTSTP); err != nil {
		return err
	}
	return t.EnterRawMode()
}
