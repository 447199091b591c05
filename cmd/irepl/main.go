// ABOUTME: CLI entry point for irepl: an interactive Rust REPL extended by hook scripts
// ABOUTME: Loads config, sets up logging, loads scripts, and runs the session

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mauromedda/irepl/internal/config"
	"github.com/mauromedda/irepl/internal/hooks"
	"github.com/mauromedda/irepl/internal/log"
	"github.com/mauromedda/irepl/internal/repl"
	"github.com/mauromedda/irepl/pkg/hookapi"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "irepl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "irepl",
		Short:         "Interactive Rust REPL with scriptable hooks",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: runREPL,
	}

	pf := root.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("log-file", "", "Write logs to this file instead of stderr")
	pf.String("shadow-dir", "", "Directory of the generated cargo project")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newScriptsCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "irepl %s (%s) built %s, hook API %s\n", version, commit, date, hookapi.Version)
		},
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	opts, closeLog, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router, err := hooks.NewRouter(hookapi.Version, opts.Hooks.Timeout)
	if err != nil {
		return err
	}
	defer router.Shutdown(context.WithoutCancel(ctx))

	if _, err := router.Load(ctx, opts.ScriptCommands()); err != nil {
		return fmt.Errorf("loading scripts: %w", err)
	}
	log.Info("irepl: %d scripts registered", len(router.Scripts()))

	return repl.Run(ctx, opts, router)
}

// setup loads the configuration and points the logger at its destination.
// The returned func closes the log file, if any.
func setup(cmd *cobra.Command) (*config.Options, func(), error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("getting working directory: %w", err)
	}
	opts, err := config.Load(cwd, cmd.Flags())
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log.SetLevel(log.ParseLevel(opts.Log.Level))
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log.SetLevel(log.LevelDebug)
	}

	if opts.Log.File == "" {
		return opts, func() {}, nil
	}
	f, err := os.OpenFile(opts.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	log.SetOutput(f)
	return opts, func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}
