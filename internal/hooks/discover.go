// ABOUTME: Discovers script descriptors by running each configured command with --describe.
// ABOUTME: Commands run concurrently; results keep the configured order.

package hooks

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/irepl/internal/log"
	"github.com/mauromedda/irepl/pkg/hookapi"
)

// DescribeFlag asks a script to print its manifest and exit.
const DescribeFlag = "--describe"

const maxConcurrentDescribe = 4

// Discovered is the outcome of describing one configured command.
type Discovered struct {
	Argv       []string
	Descriptor hookapi.Descriptor
	Err        error
}

// Discover describes every command. A command that fails is reported in
// its Err field; the returned error is only the context's.
func (r *Router) Discover(ctx context.Context, commands [][]string) ([]Discovered, error) {
	out := make([]Discovered, len(commands))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDescribe)
	for i, argv := range commands {
		out[i].Argv = argv
		g.Go(func() error {
			desc, err := r.describe(gctx, argv)
			out[i].Descriptor = desc
			out[i].Err = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Router) describe(ctx context.Context, argv []string) (hookapi.Descriptor, error) {
	if len(argv) == 0 {
		return hookapi.Descriptor{}, fmt.Errorf("empty script command")
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append(append([]string(nil), argv[1:]...), DescribeFlag)
	cmd := exec.CommandContext(ctx, argv[0], args...)
	setProcGroup(cmd)
	cmd.Cancel = func() error {
		return killProcGroup(cmd)
	}
	data, err := cmd.Output()
	if err != nil {
		return hookapi.Descriptor{}, fmt.Errorf("%s %s: %w", strings.Join(argv, " "), DescribeFlag, err)
	}
	return hookapi.UnmarshalManifest(data)
}

// Load discovers and registers every command, skipping the ones that fail.
// The discovery results are returned for reporting.
func (r *Router) Load(ctx context.Context, commands [][]string) ([]Discovered, error) {
	found, err := r.Discover(ctx, commands)
	if err != nil {
		return nil, err
	}
	for _, d := range found {
		if d.Err != nil {
			log.Warn("hooks: skipping script: %v", d.Err)
			continue
		}
		if _, err := r.Register(d.Descriptor, d.Argv); err != nil {
			log.Warn("hooks: %v", err)
		}
	}
	return found, nil
}
