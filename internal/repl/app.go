// ABOUTME: Run wires the terminal, producers, supervisor, and session into the interactive loop.
// ABOUTME: The terminal is restored on every return path, including fatal faults.

package repl

import (
	"context"
	"os"

	"github.com/mauromedda/irepl/internal/classify"
	"github.com/mauromedda/irepl/internal/config"
	"github.com/mauromedda/irepl/internal/event"
	"github.com/mauromedda/irepl/internal/history"
	"github.com/mauromedda/irepl/internal/log"
	"github.com/mauromedda/irepl/internal/shadow"
	"github.com/mauromedda/irepl/pkg/tui/input"
	"github.com/mauromedda/irepl/pkg/tui/printer"
	"github.com/mauromedda/irepl/pkg/tui/terminal"
)

// Run starts an interactive session on the process terminal and blocks
// until it ends. hooks is usually a *hooks.Router already loaded with the
// configured scripts.
func Run(ctx context.Context, opts *config.Options, hooks Hooks) error {
	term := terminal.NewProcessTerminal()
	if !term.IsTerminal() {
		return terminal.ErrNotTerminal
	}

	project := shadow.New(opts.Shadow.Dir, opts.ShadowCommand())
	if err := project.Init(); err != nil {
		return err
	}

	defer terminal.RestoreOnPanic(term)
	if err := term.EnterRawMode(); err != nil {
		return err
	}
	defer terminal.Restore(term)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := event.NewBus()
	defer bus.Close()

	reader := input.NewReader(term.Input())
	term.OnResize(reader.NotifyResize)
	keyboard := event.NewKeyboardReader(reader, bus)
	watcher := event.NewFileWatcher(project.ExternFile(), opts.Watch.Debounce, bus)

	sup := event.NewSupervisor(bus, term)
	sup.Go(ctx, "Input", keyboard.Run)
	sup.Go(ctx, "Notify", watcher.Run)

	cwd, err := os.Getwd()
	if err != nil {
		log.Warn("repl: %v", err)
	}
	cols, _, err := term.Size()
	if err != nil {
		cols = 0
	}

	s := New(Options{
		Bus:        bus,
		Wake:       keyboard.Wake,
		Renderer:   printer.New(term, printer.DefaultStyles()),
		History:    history.New(),
		Runner:     project,
		Workspace:  project,
		Hooks:      hooks,
		Classifier: classify.New(opts.Classify.ProgressMarker, opts.Classify.DiagnosticMarkers),
		Suspend:    term.Suspend,
		Cwd:        cwd,
		Cols:       cols,
	})
	return s.Run(ctx)
}
