// ABOUTME: Supervisor runs producer goroutines and converts their failures into Exit events.
// ABOUTME: If the bus is gone it restores the terminal and terminates the process instead.

package event

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"github.com/mauromedda/irepl/internal/log"
	"github.com/mauromedda/irepl/pkg/tui/terminal"
)

// PanicFault is a recovered panic in a supervised task.
type PanicFault struct {
	Task  string
	Value any
	Stack []byte
}

func (f *PanicFault) Error() string {
	return fmt.Sprintf("Thread %s panicked, to log the error you can redirect stderr to a file, example: irepl 2>log", f.Task)
}

// TaskError is a supervised task that returned an error.
type TaskError struct {
	Task string
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("%s: %v", e.Task, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// Supervisor owns the goroutines that feed a Bus.
type Supervisor struct {
	bus      *Bus
	fallback func(fault error)
	wg       sync.WaitGroup
}

// NewSupervisor reports task faults on bus. When the bus is already closed,
// term is restored and the process exits with status 1.
func NewSupervisor(bus *Bus, term terminal.Terminal) *Supervisor {
	return &Supervisor{
		bus: bus,
		fallback: func(fault error) {
			terminal.Restore(term)
			fmt.Fprintf(os.Stderr, "\r\n%v\n", fault)
			os.Exit(1)
		},
	}
}

// Go starts task under supervision. A nil return ends the task quietly.
func (s *Supervisor) Go(ctx context.Context, name string, task func(context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.guard(name)

		if err := task(ctx); err != nil {
			s.report(&TaskError{Task: name, Err: err})
		}
	}()
}

// Wait blocks until every task has returned.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

func (s *Supervisor) guard(name string) {
	r := recover()
	if r == nil {
		return
	}
	fault := &PanicFault{Task: name, Value: r, Stack: debug.Stack()}
	log.Error("task %s panicked: %v\n%s", name, r, fault.Stack)
	s.report(fault)
}

func (s *Supervisor) report(fault error) {
	if err := s.bus.Send(Exit{Err: fault}); err != nil {
		s.fallback(fault)
	}
}
