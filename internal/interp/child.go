// ABOUTME: Child is the spawned interpreter as the adapter sees it: two pipes and a stop func.
// ABOUTME: ExecSpawner starts a real process; tests substitute in-memory pipes.

package interp

import (
	"fmt"
	"io"
	"os/exec"
	"time"
)

const reapGrace = time.Second

// Child is a running interpreter.
type Child struct {
	Stdin  io.WriteCloser
	Stdout io.Reader
	// Stop closes stdin, kills the process if it lingers, and reaps it.
	Stop func() error
}

// Spawner starts an interpreter from argv.
type Spawner func(argv []string) (*Child, error)

// ExecSpawner runs argv as an OS process.
func ExecSpawner(argv []string) (*Child, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty interpreter command")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", argv[0], err)
	}

	stop := func() error {
		_ = stdin.Close()
		done := make(chan error, 1)
		go func() { done <- cmd.Wait() }()
		select {
		case err := <-done:
			return err
		case <-time.After(reapGrace):
			_ = cmd.Process.Kill()
			return <-done
		}
	}
	return &Child{Stdin: stdin, Stdout: stdout, Stop: stop}, nil
}
