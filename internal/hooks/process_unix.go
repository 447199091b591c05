// ABOUTME: Unix process group handling for script processes
// ABOUTME: Scripts get their own group so a timeout kills their children too

//go:build unix

package hooks

import (
	"os/exec"
	"syscall"
)

// setProcGroup puts the child in a new process group.
func setProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcGroup sends SIGKILL to the child's whole group.
func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process != nil {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	return nil
}
