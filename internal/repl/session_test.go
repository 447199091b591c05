// ABOUTME: Tests for Session driving a real bus with fake renderer, runner, workspace, and hooks
// ABOUTME: Covers evaluation, colon commands, key bindings, search, and lifecycle hooks

package repl

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauromedda/irepl/internal/event"
	"github.com/mauromedda/irepl/internal/history"
	"github.com/mauromedda/irepl/internal/shadow"
	"github.com/mauromedda/irepl/pkg/tui/input"
	"github.com/mauromedda/irepl/pkg/tui/key"
	"github.com/mauromedda/irepl/pkg/tui/width"
)

type fakeRenderer struct {
	title   string
	welcome string
	outputs []string
	errs    []string
	texts   []string
	clears  int
	lastIn  string
	search  string
}

func (r *fakeRenderer) SetTitle(title string)             { r.title = title }
func (r *fakeRenderer) Welcome(msg string)                { r.welcome = msg }
func (r *fakeRenderer) DrawInput(text string, cursor int) { r.lastIn = text }
func (r *fakeRenderer) DrawSearch(query, match string)    { r.search = query + "|" + match }
func (r *fakeRenderer) Commit()                           {}
func (r *fakeRenderer) Output(s string)                   { r.outputs = append(r.outputs, s) }
func (r *fakeRenderer) Error(s string)                    { r.errs = append(r.errs, s) }
func (r *fakeRenderer) Text(s string)                     { r.texts = append(r.texts, s) }
func (r *fakeRenderer) Clear()                            { r.clears++ }
func (r *fakeRenderer) Resize(int)                        {}
func (r *fakeRenderer) Flush() error                      { return nil }

// fakeRunner answers with run for every program and records the sources.
type fakeRunner struct {
	run     func(source string) shadow.Output
	sources []string
}

func (f *fakeRunner) Run(_ context.Context, source string) (shadow.Output, error) {
	f.sources = append(f.sources, source)
	if f.run == nil {
		return shadow.Output{}, nil
	}
	return f.run(source), nil
}

type fakeWorkspace struct {
	written [][]string
	extern  []string
	err     error
}

func (w *fakeWorkspace) WriteExtern(body []string) error {
	w.written = append(w.written, append([]string(nil), body...))
	return nil
}

func (w *fakeWorkspace) ReadExtern() ([]string, error) { return w.extern, w.err }

type fakeHooks struct {
	mu        sync.Mutex
	title     string
	welcome   string
	transform func(input, output string) string
	startups  int
	shutdowns int
}

func (h *fakeHooks) SetTitle(context.Context) (string, bool) { return h.title, h.title != "" }

func (h *fakeHooks) SetWelcomeMsg(context.Context) (string, bool) {
	return h.welcome, h.welcome != ""
}

func (h *fakeHooks) OutputEvent(_ context.Context, input, output string) string {
	if h.transform == nil {
		return output
	}
	return h.transform(input, output)
}

func (h *fakeHooks) Startup(context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.startups++
}

func (h *fakeHooks) Shutdown(context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shutdowns++
}

type harness struct {
	t      *testing.T
	bus    *event.Bus
	done   chan error
	out    *fakeRenderer
	runner *fakeRunner
	ws     *fakeWorkspace
	hooks  *fakeHooks
	wakes  int
	mu     sync.Mutex
}

func newHarness(t *testing.T, runner *fakeRunner, hooks *fakeHooks) *harness {
	t.Helper()
	if hooks == nil {
		hooks = &fakeHooks{}
	}
	h := &harness{
		t:      t,
		bus:    event.NewBus(),
		done:   make(chan error, 1),
		out:    &fakeRenderer{},
		runner: runner,
		ws:     &fakeWorkspace{},
		hooks:  hooks,
	}
	wake := func() {
		h.mu.Lock()
		h.wakes++
		h.mu.Unlock()
	}
	s := New(Options{
		Bus:       h.bus,
		Wake:      wake,
		Renderer:  h.out,
		History:   history.New(),
		Runner:    runner,
		Workspace: h.ws,
		Hooks:     hooks,
		Cwd:       "/work",
	})
	go func() { h.done <- s.Run(context.Background()) }()
	t.Cleanup(h.bus.Close)
	return h
}

func (h *harness) press(k key.Key) {
	h.t.Helper()
	require.NoError(h.t, h.bus.Send(event.Input{Event: input.Event{Kind: input.EventKey, Key: k}}))
}

func (h *harness) typeLine(text string) {
	h.t.Helper()
	for _, r := range text {
		h.press(key.Rune(r))
	}
	h.press(key.Key{Code: key.CodeEnter})
}

// finish ends the session with an Exit event and waits for Run.
func (h *harness) finish() error {
	h.t.Helper()
	require.NoError(h.t, h.bus.Send(event.Exit{}))
	return h.wait()
}

func (h *harness) wait() error {
	h.t.Helper()
	select {
	case err := <-h.done:
		return err
	case <-time.After(5 * time.Second):
		h.t.Fatal("session did not return")
		return nil
	}
}

func TestSession_Expression(t *testing.T) {
	runner := &fakeRunner{run: func(string) shadow.Output { return shadow.Output{Stdout: "2\n"} }}
	h := newHarness(t, runner, nil)

	h.typeLine("1 + 1")
	require.NoError(t, h.finish())

	assert.Equal(t, []string{"2"}, h.out.outputs)
	require.Len(t, runner.sources, 1)
	assert.Contains(t, runner.sources[0], "println!(\"{:?}\", {\n        1 + 1\n    });")
	assert.Empty(t, h.ws.written)
}

func TestSession_StatementSideEffectsPrintOnce(t *testing.T) {
	runner := &fakeRunner{run: func(src string) shadow.Output {
		out := ""
		if strings.Contains(src, `println!("hi");`) {
			out += "hi\n"
		}
		if strings.Contains(src, "{:?}") {
			out += "5\n"
		}
		return shadow.Output{Stdout: out}
	}}
	h := newHarness(t, runner, nil)

	h.typeLine(`println!("hi");`)
	h.typeLine("x")
	require.NoError(t, h.finish())

	assert.Equal(t, []string{"hi\n", "5"}, h.out.outputs)
	require.Len(t, h.ws.written, 1)
	assert.Equal(t, []string{`println!("hi");`}, h.ws.written[0])
}

func TestSession_BuildErrorIsClassified(t *testing.T) {
	runner := &fakeRunner{run: func(string) shadow.Output {
		return shadow.Output{
			Stderr:   "   Compiling repl v0.1.0\nerror[E0425]: cannot find value `y`\n --> src/main.rs:3:13\n\n",
			ExitCode: 101,
		}
	}}
	h := newHarness(t, runner, nil)

	h.typeLine("let x = y;")
	h.typeLine(":show")
	require.NoError(t, h.finish())

	require.Len(t, h.out.errs, 1)
	assert.Contains(t, h.out.errs[0], "error[E0425]")
	assert.NotContains(t, h.out.errs[0], "Compiling")
	require.Len(t, h.out.texts, 1)
	assert.NotContains(t, h.out.texts[0], "let x = y;")
	assert.Empty(t, h.ws.written)
}

func TestSession_ColonCommands(t *testing.T) {
	h := newHarness(t, &fakeRunner{}, nil)

	h.typeLine("let a = 1;")
	h.typeLine("let b = 2;")
	h.typeLine(":del 1")
	h.typeLine(":show")
	h.typeLine(":pop")
	h.typeLine(":pop")
	h.typeLine(":bogus")
	h.typeLine(":help")
	require.NoError(t, h.finish())

	require.Len(t, h.out.texts, 4)
	assert.Equal(t, "Ok!", h.out.texts[0])
	assert.Contains(t, h.out.texts[1], "let b = 2;")
	assert.NotContains(t, h.out.texts[1], "let a = 1;")
	assert.Equal(t, "Ok!", h.out.texts[2])
	assert.Contains(t, width.StripANSI(h.out.texts[3]), "reset")

	assert.Equal(t, []string{"nothing to pop", "unknown command :bogus, try :help"}, h.out.errs)
}

func TestSession_ExitCommandEndsSession(t *testing.T) {
	hooks := &fakeHooks{}
	h := newHarness(t, &fakeRunner{}, hooks)

	h.typeLine(":quit")
	require.NoError(t, h.wait())
	assert.Equal(t, 1, hooks.startups)
	assert.Equal(t, 1, hooks.shutdowns)
}

func TestSession_OutputPassesThroughHooks(t *testing.T) {
	runner := &fakeRunner{run: func(string) shadow.Output { return shadow.Output{Stdout: "3\n"} }}
	hooks := &fakeHooks{transform: func(input, output string) string {
		return input + " => " + output
	}}
	h := newHarness(t, runner, hooks)

	h.typeLine("1 + 2")
	h.typeLine(":reset")
	require.NoError(t, h.finish())

	assert.Equal(t, []string{"1 + 2 => 3", ":reset => Ok!"}, h.out.outputs)
}

func TestSession_NotifySyncsBody(t *testing.T) {
	h := newHarness(t, &fakeRunner{}, nil)
	h.ws.extern = []string{"let synced = 7;"}

	require.NoError(t, h.bus.Send(event.Notify{Path: "main_extern.rs", Count: 3}))
	h.typeLine(":show")
	require.NoError(t, h.finish())

	require.Len(t, h.out.texts, 1)
	assert.Contains(t, h.out.texts[0], "let synced = 7;")
}

func TestSession_NotifyReadErrorKeepsBody(t *testing.T) {
	h := newHarness(t, &fakeRunner{}, nil)

	h.typeLine("let kept = 1;")
	h.ws.err = errors.New("no main")
	require.NoError(t, h.bus.Send(event.Notify{Path: "main_extern.rs", Count: 1}))
	h.typeLine(":show")
	require.NoError(t, h.finish())

	require.Len(t, h.out.texts, 1)
	assert.Contains(t, h.out.texts[0], "let kept = 1;")
}

func TestSession_ExitEventError(t *testing.T) {
	hooks := &fakeHooks{}
	h := newHarness(t, &fakeRunner{}, hooks)
	fault := &event.PanicFault{Task: "Input"}

	require.NoError(t, h.bus.Send(event.Exit{Err: fault}))
	err := h.wait()

	var pf *event.PanicFault
	require.ErrorAs(t, err, &pf)
	assert.Equal(t, "Input", pf.Task)
	assert.Equal(t, 1, hooks.startups)
	assert.Equal(t, 1, hooks.shutdowns)
}

func TestSession_WakesAfterEveryKey(t *testing.T) {
	h := newHarness(t, &fakeRunner{}, nil)

	h.press(key.Key{Code: key.CodePageUp})
	h.press(key.Rune('a'))
	require.NoError(t, h.finish())

	assert.Equal(t, 2, h.wakes)
	assert.Equal(t, "a", h.out.lastIn)
}

func TestSession_CtrlD(t *testing.T) {
	hooks := &fakeHooks{}
	h := newHarness(t, &fakeRunner{}, hooks)

	h.press(key.Rune('a'))
	h.press(key.Key{Code: key.CodeLeft})
	h.press(key.Ctrl('d'))
	h.press(key.Ctrl('d'))
	require.NoError(t, h.wait())
	assert.Equal(t, 1, hooks.shutdowns)
}

func TestSession_HistorySearch(t *testing.T) {
	h := newHarness(t, &fakeRunner{}, nil)

	h.typeLine("let alpha = 1;")
	h.typeLine("let beta = 2;")
	h.press(key.Ctrl('r'))
	h.press(key.Rune('a'))
	h.press(key.Rune('l'))
	h.press(key.Key{Code: key.CodeEnter})
	require.NoError(t, h.finish())

	assert.Equal(t, "let alpha = 1;", h.out.lastIn)
}

func TestSession_HistorySearchEscapeRestores(t *testing.T) {
	h := newHarness(t, &fakeRunner{}, nil)

	h.typeLine("let alpha = 1;")
	h.press(key.Rune('z'))
	h.press(key.Ctrl('r'))
	h.press(key.Rune('a'))
	h.press(key.Key{Code: key.CodeEscape})
	require.NoError(t, h.finish())

	assert.Equal(t, "z", h.out.lastIn)
}

func TestSession_HistoryNavigation(t *testing.T) {
	h := newHarness(t, &fakeRunner{}, nil)

	h.typeLine("let a = 1;")
	h.typeLine("let b = 2;")
	h.press(key.Key{Code: key.CodeUp})
	h.press(key.Key{Code: key.CodeUp})
	require.NoError(t, h.finish())

	assert.Equal(t, "let a = 1;", h.out.lastIn)
}

func TestSession_TitleAndWelcome(t *testing.T) {
	h := newHarness(t, &fakeRunner{}, nil)
	require.NoError(t, h.finish())
	assert.Equal(t, "irepl: /work", h.out.title)
	assert.Equal(t, defaultWelcome, h.out.welcome)

	hooks := &fakeHooks{title: "IPython", welcome: "hello"}
	h = newHarness(t, &fakeRunner{}, hooks)
	require.NoError(t, h.finish())
	assert.Equal(t, "IPython", h.out.title)
	assert.Equal(t, "hello", h.out.welcome)
}

func TestSession_OpenBracketInsertsNewline(t *testing.T) {
	runner := &fakeRunner{}
	h := newHarness(t, runner, nil)

	h.typeLine("fn f() {")
	require.NoError(t, h.finish())

	assert.Equal(t, "fn f() {\n", h.out.lastIn)
	assert.Empty(t, runner.sources)
}

func TestSession_CtrlLClearsScreen(t *testing.T) {
	h := newHarness(t, &fakeRunner{}, nil)
	h.press(key.Ctrl('l'))
	require.NoError(t, h.finish())
	assert.Equal(t, 1, h.out.clears)
}

func TestSession_NotifyOfOwnWriteKeepsSideEffectsQuiet(t *testing.T) {
	runner := &fakeRunner{run: func(src string) shadow.Output {
		out := ""
		if strings.Contains(src, `println!("hi");`) {
			out += "hi\n"
		}
		if strings.Contains(src, "{:?}") {
			out += "5\n"
		}
		return shadow.Output{Stdout: out}
	}}
	h := newHarness(t, runner, nil)

	h.typeLine(`println!("hi");`)
	h.ws.extern = []string{`println!("hi");`}
	require.NoError(t, h.bus.Send(event.Notify{Path: "main_extern.rs", Count: 1}))
	h.typeLine("x")
	require.NoError(t, h.finish())

	assert.Equal(t, []string{"hi\n", "5"}, h.out.outputs)
}

func TestSession_ModifiedEnterSubmits(t *testing.T) {
	runner := &fakeRunner{run: func(string) shadow.Output { return shadow.Output{Stdout: "2\n"} }}
	h := newHarness(t, runner, nil)

	for _, r := range "1 + 1" {
		h.press(key.Rune(r))
	}
	h.press(key.Key{Code: key.CodeEnter, Mod: key.ModShift})
	require.NoError(t, h.finish())

	assert.Equal(t, []string{"2"}, h.out.outputs)
	assert.Len(t, runner.sources, 1)
}

func TestSession_CharLiteralBraceSubmits(t *testing.T) {
	runner := &fakeRunner{}
	h := newHarness(t, runner, nil)

	h.typeLine("let c = '{';")
	require.NoError(t, h.finish())

	assert.Len(t, runner.sources, 1)
	assert.Empty(t, h.out.lastIn)
}
