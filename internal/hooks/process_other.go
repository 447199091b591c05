// ABOUTME: Process group fallbacks for platforms without Setpgid.
// ABOUTME: Only the direct child is killed.

//go:build !unix

package hooks

import "os/exec"

func setProcGroup(*exec.Cmd) {}

func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process != nil {
		return cmd.Process.Kill()
	}
	return nil
}
