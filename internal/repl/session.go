// ABOUTME: Session is the single consumer of the event bus and sole owner of REPL state.
// ABOUTME: It flushes output before each receive and wakes the keyboard reader after each key.

package repl

import (
	"context"
	"fmt"
	"slices"

	"github.com/mauromedda/irepl/internal/classify"
	"github.com/mauromedda/irepl/internal/event"
	"github.com/mauromedda/irepl/internal/log"
	"github.com/mauromedda/irepl/internal/shadow"
	"github.com/mauromedda/irepl/pkg/tui/input"
)

// Renderer draws to the terminal. Writes are buffered until Flush.
type Renderer interface {
	SetTitle(title string)
	Welcome(msg string)
	DrawInput(text string, cursor int)
	DrawSearch(query, match string)
	Commit()
	Output(s string)
	Error(s string)
	Text(s string)
	Clear()
	Resize(cols int)
	Flush() error
}

// History records submitted input.
type History interface {
	Add(entry string)
	Prev(current string) (string, bool)
	Next() (string, bool)
	Reset()
	Search(pattern string) []string
}

// Runner builds and runs a complete program.
type Runner interface {
	Run(ctx context.Context, source string) (shadow.Output, error)
}

// Workspace keeps the external copy of the program in sync.
type Workspace interface {
	WriteExtern(body []string) error
	ReadExtern() ([]string, error)
}

// Hooks is the plugin router as the session uses it.
type Hooks interface {
	SetTitle(ctx context.Context) (string, bool)
	SetWelcomeMsg(ctx context.Context) (string, bool)
	OutputEvent(ctx context.Context, input, output string) string
	Startup(ctx context.Context)
	Shutdown(ctx context.Context)
}

// Options wires a Session to its collaborators.
type Options struct {
	Bus        *event.Bus
	Wake       func()
	Renderer   Renderer
	Buffer     Buffer
	History    History
	Runner     Runner
	Workspace  Workspace
	Hooks      Hooks
	Classifier *classify.Classifier
	// Suspend stops the process until it is resumed; nil disables Ctrl-Z.
	Suspend func() error
	Cwd     string
	Cols    int
}

// Session is not safe for concurrent use; Run owns it.
type Session struct {
	bus      *event.Bus
	wake     func()
	out      Renderer
	buf      Buffer
	hist     History
	runner   Runner
	ws       Workspace
	hooks    Hooks
	classify *classify.Classifier
	suspend  func() error
	cwd      string
	cols     int

	// body holds the accepted statements of main.
	body []string
	// seen is the stdout the accepted body already produced; it is
	// trimmed from later runs so side effects print once.
	seen   string
	search *search
}

// New returns a session. Buffer, Classifier, and Wake default when nil.
func New(o Options) *Session {
	s := &Session{
		bus:      o.Bus,
		wake:     o.Wake,
		out:      o.Renderer,
		buf:      o.Buffer,
		hist:     o.History,
		runner:   o.Runner,
		ws:       o.Workspace,
		hooks:    o.Hooks,
		classify: o.Classifier,
		suspend:  o.Suspend,
		cwd:      o.Cwd,
		cols:     o.Cols,
	}
	if s.buf == nil {
		s.buf = NewBuffer()
	}
	if s.classify == nil {
		s.classify = classify.Default()
	}
	if s.wake == nil {
		s.wake = func() {}
	}
	if s.cols <= 0 {
		s.cols = 80
	}
	return s
}

// Run prepares the screen, then handles events until an Exit event, an
// exit command, or a fatal error. Shutdown hooks run on every return path.
func (s *Session) Run(ctx context.Context) error {
	defer s.hooks.Shutdown(context.WithoutCancel(ctx))
	s.prepare(ctx)

	for {
		if err := s.out.Flush(); err != nil {
			return fmt.Errorf("flushing output: %w", err)
		}
		ev, err := s.bus.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		switch ev := ev.(type) {
		case event.Exit:
			return ev.Err
		case event.Notify:
			s.sync(ev)
		case event.Input:
			quit, err := s.handleInput(ctx, ev.Event)
			s.wake()
			if err != nil {
				return err
			}
			if quit {
				_ = s.out.Flush()
				return nil
			}
		}
	}
}

func (s *Session) prepare(ctx context.Context) {
	title, ok := s.hooks.SetTitle(ctx)
	if !ok {
		title = "irepl: " + s.cwd
	}
	s.out.SetTitle(title)

	welcome, ok := s.hooks.SetWelcomeMsg(ctx)
	if !ok {
		welcome = defaultWelcome
	}
	s.out.Welcome(welcome)

	s.hooks.Startup(ctx)
	s.redraw()
}

const defaultWelcome = "Welcome to irepl! Type :help for the list of commands."

func (s *Session) handleInput(ctx context.Context, ev input.Event) (bool, error) {
	if ev.Kind == input.EventResize {
		s.cols = ev.Width
		s.out.Resize(ev.Width)
		s.redraw()
		return false, nil
	}
	if s.search != nil {
		s.handleSearch(ev.Key)
		s.redraw()
		return false, nil
	}

	quit, err := s.dispatch(ctx, ev.Key)
	if err != nil || quit {
		return quit, err
	}
	s.redraw()
	return false, nil
}

func (s *Session) redraw() {
	if s.search != nil {
		s.out.DrawSearch(s.search.query, s.search.current())
		return
	}
	s.out.DrawInput(s.buf.Text(), s.buf.Cursor())
}

// sync replaces the body with the statements of the external file. The
// session's own writes come back as notifications and change nothing.
func (s *Session) sync(n event.Notify) {
	body, err := s.ws.ReadExtern()
	if err != nil {
		log.Warn("repl: %s: %v", n, err)
		return
	}
	if slices.Equal(body, s.body) {
		return
	}
	log.Debug("repl: synced %d statements", len(body))
	s.body = body
	s.seen = ""
}

func (s *Session) persist() {
	if err := s.ws.WriteExtern(s.body); err != nil {
		log.Warn("repl: %v", err)
	}
}
