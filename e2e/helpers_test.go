// ABOUTME: Builds the irepl binary once and drives it through a real pseudo terminal.
// ABOUTME: A fake build command stands in for cargo so the tests need no Rust toolchain.

package e2e

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"

	"github.com/mauromedda/irepl/pkg/tui/width"
)

var binary string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "irepl-e2e")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	binary = filepath.Join(dir, "irepl")
	build := exec.Command("go", "build", "-o", binary, "../cmd/irepl")
	build.Stdout, build.Stderr = os.Stdout, os.Stderr
	if err := build.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "building irepl:", err)
		os.Exit(1)
	}
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// fakeCargo answers expressions the tests use by inspecting main.rs.
const fakeCargo = `#!/bin/sh
case "$(cat src/main.rs)" in
*'1 + 1'*) echo 2 ;;
*'undefined_name'*) echo 'error[E0425]: cannot find value' >&2; exit 101 ;;
esac
`

type session struct {
	cmd  *exec.Cmd
	pty  *os.File
	mu   sync.Mutex
	out  bytes.Buffer
	done chan error
}

func startIrepl(t *testing.T) *session {
	t.Helper()
	home := t.TempDir()
	cargo := filepath.Join(home, "cargo")
	if err := os.WriteFile(cargo, []byte(fakeCargo), 0o755); err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command(binary)
	cmd.Dir = home
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"XDG_CONFIG_HOME="+home,
		"IREPL_SHADOW_DIR="+filepath.Join(home, "shadow"),
		"IREPL_SHADOW_COMMAND="+cargo,
		"TERM=xterm-256color",
	)
	f, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 24, Cols: 80})
	if err != nil {
		t.Fatalf("starting irepl: %v", err)
	}

	s := &session{cmd: cmd, pty: f, done: make(chan error, 1)}
	go s.pump()
	go func() { s.done <- cmd.Wait() }()
	return s
}

func (s *session) pump() {
	buf := make([]byte, 4096)
	for {
		n, err := s.pty.Read(buf)
		if n > 0 {
			s.mu.Lock()
			s.out.Write(buf[:n])
			s.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

func (s *session) screen() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return width.StripANSI(s.out.String())
}

func (s *session) expectStringTimeout(t *testing.T, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(s.screen(), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q; screen:\n%s", want, s.screen())
}

func (s *session) send(t *testing.T, text string) {
	t.Helper()
	if _, err := io.WriteString(s.pty, text); err != nil {
		t.Fatalf("writing to pty: %v", err)
	}
}

func (s *session) sendCtrl(t *testing.T, r rune) {
	t.Helper()
	s.send(t, string(r-'a'+1))
}

func (s *session) submit(t *testing.T, line string) {
	t.Helper()
	s.send(t, line)
	time.Sleep(50 * time.Millisecond)
	s.send(t, "\r")
}

func (s *session) waitExit(t *testing.T, timeout time.Duration) {
	t.Helper()
	select {
	case err := <-s.done:
		if err != nil {
			t.Fatalf("irepl exited with %v; screen:\n%s", err, s.screen())
		}
	case <-time.After(timeout):
		t.Fatalf("irepl did not exit; screen:\n%s", s.screen())
	}
}

func (s *session) close() {
	_ = s.cmd.Process.Kill()
	_ = s.pty.Close()
}
