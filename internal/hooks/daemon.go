// ABOUTME: Persistent script invocation over the child's stdin/stdout, one line each way.
// ABOUTME: A broken pipe or EOF marks the daemon dead; later calls fail with ErrScriptDead.

package hooks

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/mauromedda/irepl/pkg/hookapi"
)

const reapGrace = 2 * time.Second

type daemon struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	mu        sync.Mutex
	dead      bool
	closeOnce sync.Once
	closeErr  error
}

func startDaemon(argv []string) (*daemon, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	setProcGroup(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %q: %w", argv[0], err)
	}

	return &daemon{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
	}, nil
}

type lineResult struct {
	line []byte
	err  error
}

func (d *daemon) call(ctx context.Context, req hookapi.Request) (*string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dead {
		return nil, ErrScriptDead
	}
	if err := hookapi.WriteRequest(d.stdin, req); err != nil {
		d.dead = true
		return nil, fmt.Errorf("%w: writing request: %v", ErrScriptDead, err)
	}

	ch := make(chan lineResult, 1)
	go func() {
		line, err := d.stdout.ReadBytes('\n')
		ch <- lineResult{line: line, err: err}
	}()

	var res lineResult
	select {
	case res = <-ch:
	case <-ctx.Done():
		// The response stream can no longer be paired with requests.
		d.dead = true
		_ = killProcGroup(d.cmd)
		return nil, fmt.Errorf("%w: %v", ErrScriptDead, ctx.Err())
	}

	if res.err != nil {
		d.dead = true
		if len(bytes.TrimSpace(res.line)) == 0 {
			return nil, fmt.Errorf("%w: reading response: %v", ErrScriptDead, res.err)
		}
	}
	return hookapi.DecodeResponse(res.line)
}

// close ends the session: stdin is closed so a well-behaved daemon exits,
// and the process is killed if it is still around after a grace period.
func (d *daemon) close() error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.dead = true
		d.mu.Unlock()

		_ = d.stdin.Close()

		done := make(chan error, 1)
		go func() { done <- d.cmd.Wait() }()

		select {
		case d.closeErr = <-done:
		case <-time.After(reapGrace):
			_ = killProcGroup(d.cmd)
			d.closeErr = <-done
		}
	})
	return d.closeErr
}
