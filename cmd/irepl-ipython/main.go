// ABOUTME: irepl-ipython is a Daemon script that evaluates REPL input in IPython
// ABOUTME: Parses flags, then serves hook requests on stdin/stdout until the host hangs up

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/mauromedda/irepl/internal/interp"
	"github.com/mauromedda/irepl/internal/log"
	"github.com/mauromedda/irepl/pkg/sdk"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "irepl-ipython: %v\n", err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	cfg := interp.DefaultConfig()

	fs := pflag.NewFlagSet("irepl-ipython", pflag.ContinueOnError)
	fs.DurationVar(&cfg.ResultTimeout, "timeout", cfg.ResultTimeout, "How long to wait for output before treating input as a statement")
	command := fs.String("command", strings.Join(cfg.Command, " "), "Interpreter command line")
	describe := fs.Bool("describe", false, "Print the script manifest and exit")
	logLevel := fs.String("log-level", "warn", "Log level (debug, info, warn, error)")
	if err := fs.Parse(argv); err != nil {
		return err
	}

	log.SetLevel(log.ParseLevel(*logLevel))
	cfg.Command = strings.Fields(*command)

	ctx := context.Background()
	a := interp.New(cfg)
	script, err := sdk.New(a.Descriptor(), a.Handle)
	if err != nil {
		return err
	}

	if *describe {
		return script.Run(ctx, []string{sdk.DescribeFlag})
	}

	if err := a.Start(ctx); err != nil {
		return err
	}
	defer a.Stop()
	return script.Run(ctx, nil)
}
