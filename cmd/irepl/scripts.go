// ABOUTME: The scripts subcommand describes every configured script without starting a session
// ABOUTME: Shows each manifest and whether its version requirement accepts this host

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mauromedda/irepl/internal/hooks"
	"github.com/mauromedda/irepl/pkg/hookapi"
)

func newScriptsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scripts",
		Short: "List configured hook scripts and their manifests",
		Args:  cobra.NoArgs,
		RunE:  listScripts,
	}
}

func listScripts(cmd *cobra.Command, _ []string) error {
	opts, closeLog, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	router, err := hooks.NewRouter(hookapi.Version, opts.Hooks.Timeout)
	if err != nil {
		return err
	}
	found, err := router.Discover(cmd.Context(), opts.ScriptCommands())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(found) == 0 {
		fmt.Fprintln(w, "no scripts configured")
		return nil
	}
	for _, d := range found {
		command := strings.Join(d.Argv, " ")
		if d.Err != nil {
			fmt.Fprintf(w, "%s\n  error: %v\n", command, d.Err)
			continue
		}
		desc := d.Descriptor
		status := "ok"
		if !hooks.Negotiate(desc.VersionRequirement, router.Version()) {
			status = "incompatible with " + hookapi.Version
		}
		names := make([]string, len(desc.Hooks))
		for i, h := range desc.Hooks {
			names[i] = h.String()
		}
		fmt.Fprintf(w, "%s (%s)\n  command: %s\n  requires: %s [%s]\n  hooks: %s\n",
			desc.Name, desc.Type, command, desc.VersionRequirement, status, strings.Join(names, ", "))
	}
	return nil
}
