// ABOUTME: Restore puts the terminal back into a usable state after a fatal fault.
// ABOUTME: RestoreOnPanic is the deferred last line of defence in main.

package terminal

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

const showCursor = "\033[?25h"

// Restore shows the cursor and leaves raw mode. Errors are ignored: this
// runs on paths where nothing better can be done.
func Restore(t Terminal) {
	_, _ = t.Write([]byte(showCursor))
	_ = t.ExitRawMode()
}

// RestoreOnPanic should be deferred at the top of main. On panic it
// restores the terminal, prints the value and stack to stderr, and exits 1.
func RestoreOnPanic(t Terminal) {
	r := recover()
	if r == nil {
		return
	}
	Restore(t)
	writePanic(os.Stderr, r, debug.Stack())
	os.Exit(1)
}

func writePanic(w io.Writer, r any, stack []byte) {
	fmt.Fprintf(w, "\npanic: %v\n\n%s\n", r, stack)
}
