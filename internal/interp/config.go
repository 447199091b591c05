// ABOUTME: Tunables for the external interpreter adapter, with IPython defaults.
// ABOUTME: The result timeout is explicit because slower interpreters need a longer window.

package interp

import "time"

// Config describes the interpreter process and how its output is read.
type Config struct {
	// Name answers SetTitle and SetWelcomeMsg.
	Name    string
	Command []string

	// PromptMarker starts every prompt line the interpreter prints.
	PromptMarker string
	// CommandPrefix marks host commands that must not reach the interpreter.
	CommandPrefix string
	// ResultTimeout is how long an evaluation waits for output before it is
	// taken to be a statement.
	ResultTimeout time.Duration
	// StatementMarker is the result reported for a statement.
	StatementMarker string
	// ExitDirective asks the interpreter to quit.
	ExitDirective string
	// BannerReads raw reads are discarded after spawn.
	BannerReads int
	ReadSize    int
}

// DefaultConfig drives ipython.
func DefaultConfig() Config {
	return Config{
		Name:            "IPython",
		Command:         []string{"ipython"},
		PromptMarker:    "In ",
		CommandPrefix:   ":",
		ResultTimeout:   200 * time.Millisecond,
		StatementMarker: "()",
		ExitDirective:   "exit\n",
		BannerReads:     2,
		ReadSize:        512,
	}
}
