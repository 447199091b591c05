// ABOUTME: Defines the Terminal interface for raw mode, size queries, and output.
// ABOUTME: Abstracts terminal operations so the REPL can target real or virtual terminals.

package terminal

import "errors"

// ErrNotTerminal is returned when raw mode is requested on something that
// is not a tty.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// Terminal abstracts low-level terminal operations: raw mode,
// size queries, output writing, and resize notifications.
type Terminal interface {
	EnterRawMode() error
	ExitRawMode() error
	Size() (width, height int, err error)
	Write(p []byte) (n int, err error)
	OnResize(fn func(width, height int))
}
