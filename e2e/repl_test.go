// ABOUTME: E2E tests for the interactive session: evaluation, commands, and key bindings
// ABOUTME: Runs the real binary in a PTY against a fake build command

package e2e

import (
	"os/exec"
	"strings"
	"testing"
	"time"
)

func TestRepl_CtrlD_ExitsWhenEmpty(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	s := startIrepl(t)
	defer s.close()

	s.expectStringTimeout(t, "Welcome to irepl", 5*time.Second)
	s.sendCtrl(t, 'd')
	s.waitExit(t, 5*time.Second)
}

func TestRepl_EvaluatesExpression(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	s := startIrepl(t)
	defer s.close()

	s.expectStringTimeout(t, "Welcome to irepl", 5*time.Second)
	s.submit(t, "1 + 1")
	s.expectStringTimeout(t, "Out: 2", 5*time.Second)

	s.submit(t, "undefined_name")
	s.expectStringTimeout(t, "error[E0425]", 5*time.Second)

	s.submit(t, ":exit")
	s.waitExit(t, 5*time.Second)
}

func TestRepl_HelpCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	s := startIrepl(t)
	defer s.close()

	s.expectStringTimeout(t, "Welcome to irepl", 5*time.Second)
	s.submit(t, ":help")
	s.expectStringTimeout(t, "reload statements", 5*time.Second)

	s.submit(t, ":quit")
	s.waitExit(t, 5*time.Second)
}

func TestRepl_CtrlC_ClearsInput(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	s := startIrepl(t)
	defer s.close()

	s.expectStringTimeout(t, "Welcome to irepl", 5*time.Second)
	s.send(t, "1 + 1")
	time.Sleep(100 * time.Millisecond)
	s.sendCtrl(t, 'c')
	time.Sleep(100 * time.Millisecond)

	// Ctrl-D only exits on an empty line.
	s.sendCtrl(t, 'd')
	s.waitExit(t, 5*time.Second)
}

func TestRepl_RequiresTerminal(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	cmd := exec.Command(binary)
	cmd.Env = append(cmd.Environ(), "HOME="+t.TempDir())
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatal("expected irepl to fail without a terminal")
	}
	if !strings.Contains(string(out), "stdin is not a terminal") {
		t.Fatalf("unexpected output: %s", out)
	}
}
