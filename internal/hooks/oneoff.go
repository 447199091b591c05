// ABOUTME: Ephemeral script invocation: one process, one request on stdin, one response.
// ABOUTME: Enforces the hook timeout and kills the whole process group when it expires.

package hooks

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mauromedda/irepl/pkg/hookapi"
)

type oneOff struct {
	argv    []string
	timeout time.Duration
}

func (o *oneOff) call(ctx context.Context, req hookapi.Request) (*string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var in bytes.Buffer
	if err := hookapi.WriteRequest(&in, req); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, o.argv[0], o.argv[1:]...)
	cmd.Stdin = &in
	setProcGroup(cmd)
	cmd.Cancel = func() error {
		return killProcGroup(cmd)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("timed out after %v: %w", o.timeout, ctx.Err())
	}
	if runErr != nil {
		return nil, fmt.Errorf("exited with error: %w (stderr: %q)", runErr, strings.TrimSpace(stderr.String()))
	}

	resp, err := hookapi.ReadResponse(bufio.NewReader(&stdout))
	if err != nil {
		return nil, fmt.Errorf("reading response (raw: %q): %w", stdout.String(), err)
	}
	return resp, nil
}

func (o *oneOff) close() error { return nil }
