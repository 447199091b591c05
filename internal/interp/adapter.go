// ABOUTME: Adapter proxies OutputEvent evaluations to a persistent interpreter process.
// ABOUTME: A timer races a background reader to tell expression results from statements.

package interp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mauromedda/irepl/internal/log"
	"github.com/mauromedda/irepl/pkg/hookapi"
)

var (
	// ErrStopped is returned for evaluations after Stop.
	ErrStopped = errors.New("interpreter stopped")
	// ErrExited is returned when the interpreter closed its output.
	ErrExited = errors.New("interpreter exited")
)

// State is the adapter lifecycle.
type State int

const (
	Starting State = iota
	Ready
	Restarting
	Stopped
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Ready:
		return "ready"
	case Restarting:
		return "restarting"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// session is one spawned interpreter and its reader.
type session struct {
	child  *Child
	chunks chan string
	ready  chan struct{}
	exited chan struct{}
	quit   chan struct{}
	// stale is set when an evaluation timed out; its output may still
	// be on the way.
	stale bool
}

// Adapter is not safe for concurrent use; the script's request loop owns it.
type Adapter struct {
	cfg   Config
	spawn Spawner
	state State
	cur   *session
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithSpawner replaces ExecSpawner.
func WithSpawner(s Spawner) Option {
	return func(a *Adapter) {
		a.spawn = s
	}
}

// New returns an adapter in the Starting state. Nothing is spawned until
// Start or the first evaluation.
func New(cfg Config, opts ...Option) *Adapter {
	a := &Adapter{cfg: cfg, spawn: ExecSpawner}
	for _, o := range opts {
		o(a)
	}
	return a
}

// State returns the current lifecycle state.
func (a *Adapter) State() State {
	return a.state
}

// Descriptor is the manifest the adapter serves under.
func (a *Adapter) Descriptor() hookapi.Descriptor {
	return hookapi.Descriptor{
		Name:               a.cfg.Name,
		Type:               hookapi.Daemon,
		VersionRequirement: ">=1.30.6",
		Hooks:              hookapi.Catalog(),
	}
}

// Start spawns the interpreter and waits until its banner has been read.
func (a *Adapter) Start(ctx context.Context) error {
	child, err := a.spawn(a.cfg.Command)
	if err != nil {
		return fmt.Errorf("spawning %s: %w", a.cfg.Name, err)
	}
	s := &session{
		child:  child,
		chunks: make(chan string, 1),
		ready:  make(chan struct{}),
		exited: make(chan struct{}),
		quit:   make(chan struct{}),
	}
	go a.read(s)

	select {
	case <-s.ready:
	case <-s.exited:
		s.stop()
		return fmt.Errorf("%s: %w before it was ready", a.cfg.Name, ErrExited)
	case <-ctx.Done():
		s.stop()
		return ctx.Err()
	}
	a.cur = s
	a.state = Ready
	log.Debug("interp: %s ready", a.cfg.Name)
	return nil
}

// Eval sends line to the interpreter. Host commands return nil without
// touching the process. A line that produces no output within the result
// timeout yields the statement marker.
func (a *Adapter) Eval(ctx context.Context, line string) (*string, error) {
	if strings.HasPrefix(line, a.cfg.CommandPrefix) {
		return nil, nil
	}
	if a.state == Stopped {
		return nil, ErrStopped
	}
	if a.cur == nil {
		if err := a.Start(ctx); err != nil {
			return nil, err
		}
	}
	s := a.cur
	s.drain(a.settle())

	if _, err := io.WriteString(s.child.Stdin, line+"\n"); err != nil {
		return nil, fmt.Errorf("writing to %s: %w", a.cfg.Name, err)
	}

	timer := time.NewTimer(a.cfg.ResultTimeout)
	defer timer.Stop()

	select {
	case out, ok := <-s.chunks:
		if !ok {
			return nil, ErrExited
		}
		return &out, nil
	case <-timer.C:
		s.stale = true
		marker := a.cfg.StatementMarker
		return &marker, nil
	case <-ctx.Done():
		s.stale = true
		return nil, ctx.Err()
	}
}

// Restart asks the current interpreter to quit, reaps it, and spawns a new one.
func (a *Adapter) Restart(ctx context.Context) error {
	a.state = Restarting
	a.release()
	a.state = Starting
	return a.Start(ctx)
}

// Stop asks the interpreter to quit and reaps it. Write failures are
// ignored since the process may already be gone. Stop is idempotent.
func (a *Adapter) Stop() error {
	if a.state == Stopped {
		return nil
	}
	a.state = Stopped
	a.release()
	return nil
}

func (a *Adapter) release() {
	if a.cur == nil {
		return
	}
	s := a.cur
	a.cur = nil
	_, _ = io.WriteString(s.child.Stdin, a.cfg.ExitDirective)
	if err := s.stop(); err != nil {
		log.Debug("interp: %s exited: %v", a.cfg.Name, err)
	}
}

// Handle serves hook requests for the script process.
func (a *Adapter) Handle(ctx context.Context, req hookapi.Request) *string {
	switch r := req.(type) {
	case hookapi.SetTitleRequest, hookapi.SetWelcomeMsgRequest:
		name := a.cfg.Name
		return &name
	case hookapi.OutputEventRequest:
		out, err := a.Eval(ctx, r.Input)
		if err != nil {
			log.Warn("interp: %v", err)
			return nil
		}
		return out
	case hookapi.StartupRequest:
		if err := a.Restart(ctx); err != nil {
			log.Error("interp: %v", err)
		}
		return nil
	case hookapi.ShutdownRequest:
		_ = a.Stop()
		return nil
	}
	return nil
}

func (s *session) stop() error {
	close(s.quit)
	return s.child.Stop()
}

// settle is how long output of a timed-out evaluation is waited for
// before the next line is written.
func (a *Adapter) settle() time.Duration {
	return a.cfg.ResultTimeout / 4
}

// drain drops output left over from an evaluation that timed out. The
// reader may hold one more chunk than the channel, so after a timeout
// drain keeps discarding until nothing arrives for settle.
func (s *session) drain(settle time.Duration) {
	for {
		select {
		case _, ok := <-s.chunks:
			if !ok {
				return
			}
			continue
		default:
		}
		if !s.stale {
			return
		}
		select {
		case _, ok := <-s.chunks:
			if !ok {
				return
			}
		case <-time.After(settle):
			s.stale = false
			return
		}
	}
}

// read forwards cleaned output chunks until the interpreter closes stdout.
func (a *Adapter) read(s *session) {
	defer close(s.exited)
	defer close(s.chunks)

	buf := make([]byte, a.cfg.ReadSize)
	for i := 0; i < a.cfg.BannerReads; i++ {
		if n, err := s.child.Stdout.Read(buf); n == 0 && err != nil {
			return
		}
	}
	close(s.ready)

	for {
		n, err := s.child.Stdout.Read(buf)
		if n == 0 {
			return
		}
		if out, ok := a.clean(string(buf[:n])); ok {
			select {
			case s.chunks <- out:
			case <-s.quit:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// clean drops bare prompt chunks and strips a trailing prompt (the blank
// separator line plus the prompt line itself) from results.
func (a *Adapter) clean(chunk string) (string, bool) {
	if strings.HasPrefix(chunk, "\n"+a.cfg.PromptMarker) {
		return "", false
	}
	lines := splitLines(chunk)
	if n := len(lines); n > 0 && strings.HasPrefix(lines[n-1], a.cfg.PromptMarker) {
		lines = lines[:max(n-2, 0)]
	}
	return strings.Join(lines, "\n"), true
}

// splitLines splits on newlines, dropping a final empty line and any
// carriage return before each newline.
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
