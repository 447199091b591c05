// ABOUTME: ProcessTerminal implements Terminal over the process tty using golang.org/x/term.
// ABOUTME: Refuses raw mode when stdin is not a tty (checked with go-isatty).

package terminal

import (
	"fmt"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// ProcessTerminal is a real terminal backed by an input and an output file.
type ProcessTerminal struct {
	in  *os.File
	out *os.File

	mu       sync.Mutex
	oldState *term.State
	resizeFn func(width, height int)
}

// NewProcessTerminal returns a ProcessTerminal on os.Stdin / os.Stdout.
func NewProcessTerminal() *ProcessTerminal {
	return &ProcessTerminal{in: os.Stdin, out: os.Stdout}
}

// Input returns the file key events are read from.
func (t *ProcessTerminal) Input() *os.File {
	return t.in
}

// IsTerminal reports whether both ends are attached to a tty.
func (t *ProcessTerminal) IsTerminal() bool {
	return isatty.IsTerminal(t.in.Fd()) && isatty.IsTerminal(t.out.Fd())
}

// EnterRawMode switches the input to raw mode, saving the previous state.
func (t *ProcessTerminal) EnterRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !isatty.IsTerminal(t.in.Fd()) {
		return ErrNotTerminal
	}
	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	t.oldState = state
	return nil
}

// ExitRawMode restores the cooked state. Calling it when raw mode is not
// active is a no-op.
func (t *ProcessTerminal) ExitRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.oldState == nil {
		return nil
	}
	if err := term.Restore(int(t.in.Fd()), t.oldState); err != nil {
		return fmt.Errorf("exiting raw mode: %w", err)
	}
	t.oldState = nil
	return nil
}

// Size returns the current terminal dimensions.
func (t *ProcessTerminal) Size() (width, height int, err error) {
	w, h, err := term.GetSize(int(t.out.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return w, h, nil
}

// Write sends bytes to the output file.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := t.out.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to terminal: %w", err)
	}
	return n, nil
}

// OnResize registers a callback invoked when the terminal is resized.
func (t *ProcessTerminal) OnResize(fn func(width, height int)) {
	t.mu.Lock()
	t.resizeFn = fn
	t.mu.Unlock()

	t.startResizeListener()
}
