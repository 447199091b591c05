// ABOUTME: Shadow cargo project that compiles and runs the accumulated REPL program.
// ABOUTME: Also owns main_extern.rs, the editable copy of the program the watcher follows.

package shadow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const cargoManifest = `[package]
name = "irepl_shadow"
version = "0.1.0"
edition = "2021"

[dependencies]
`

// ExternFileName is the program copy users may edit while the REPL runs.
const ExternFileName = "main_extern.rs"

// Output is what one build-and-run produced.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Project is a cargo package on disk.
type Project struct {
	dir     string
	command []string
}

// New returns a project rooted at dir that is run with command.
func New(dir string, command []string) *Project {
	return &Project{dir: dir, command: command}
}

// Dir returns the project root.
func (p *Project) Dir() string { return p.dir }

// ExternFile returns the path of main_extern.rs.
func (p *Project) ExternFile() string {
	return filepath.Join(p.dir, ExternFileName)
}

func (p *Project) mainFile() string {
	return filepath.Join(p.dir, "src", "main.rs")
}

// Init lays out the package and resets both program files to an empty main.
func (p *Project) Init() error {
	if err := os.MkdirAll(filepath.Join(p.dir, "src"), 0o755); err != nil {
		return fmt.Errorf("creating shadow project: %w", err)
	}
	manifest := filepath.Join(p.dir, "Cargo.toml")
	if _, err := os.Stat(manifest); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(manifest, []byte(cargoManifest), 0o644); err != nil {
			return fmt.Errorf("writing Cargo.toml: %w", err)
		}
	}
	empty := Program(nil, "")
	if err := os.WriteFile(p.mainFile(), []byte(empty), 0o644); err != nil {
		return fmt.Errorf("writing main.rs: %w", err)
	}
	return p.WriteExtern(nil)
}

// Run writes source as main.rs and builds and runs it. A non-zero exit is
// reported in Output; the error is only for failing to run the command.
func (p *Project) Run(ctx context.Context, source string) (Output, error) {
	if len(p.command) == 0 {
		return Output{}, errors.New("no build command configured")
	}
	if err := os.WriteFile(p.mainFile(), []byte(source), 0o644); err != nil {
		return Output{}, fmt.Errorf("writing main.rs: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.command[0], p.command[1:]...)
	cmd.Dir = p.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
	default:
		return Output{}, fmt.Errorf("running %s: %w", p.command[0], err)
	}
	return out, nil
}

// WriteExtern stores the program for body in main_extern.rs.
func (p *Project) WriteExtern(body []string) error {
	if err := os.WriteFile(p.ExternFile(), []byte(Program(body, "")), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", ExternFileName, err)
	}
	return nil
}

// ReadExtern parses the statements back out of main_extern.rs.
func (p *Project) ReadExtern() ([]string, error) {
	data, err := os.ReadFile(p.ExternFile())
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ExternFileName, err)
	}
	return ParseBody(string(data))
}

const (
	header  = "#![allow(unused)]\nfn main() {\n"
	indent  = "    "
	trailer = "}\n"
)

// Program renders body as the statements of main, followed by expr
// printed with its Debug formatting when expr is not empty.
func Program(body []string, expr string) string {
	var b strings.Builder
	b.WriteString(header)
	for _, stmt := range body {
		for _, l := range strings.Split(stmt, "\n") {
			b.WriteString(indent + l + "\n")
		}
	}
	if expr != "" {
		b.WriteString(indent + "println!(\"{:?}\", {\n")
		for _, l := range strings.Split(expr, "\n") {
			b.WriteString(indent + indent + l + "\n")
		}
		b.WriteString(indent + "});\n")
	}
	b.WriteString(trailer)
	return b.String()
}

// ParseBody returns the statements inside fn main, one per top-level
// statement. A statement ends on a line ending with ';' or '}' once every
// bracket opened since its first line is closed.
func ParseBody(src string) ([]string, error) {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	start, end := -1, -1
	for i, l := range lines {
		if start < 0 && strings.HasPrefix(strings.TrimSpace(l), "fn main()") && strings.HasSuffix(strings.TrimSpace(l), "{") {
			start = i
		}
		if strings.TrimRight(l, " \t") == "}" {
			end = i
		}
	}
	if start < 0 || end <= start {
		return nil, errors.New("no fn main() block found")
	}

	var (
		body []string
		cur  []string
		sc   scanner
	)
	for _, l := range lines[start+1 : end] {
		if len(cur) == 0 && strings.TrimSpace(l) == "" {
			continue
		}
		l = strings.TrimPrefix(l, indent)
		cur = append(cur, l)
		sc.feed(l + "\n")
		if sc.balanced() && IsStatement(l) {
			body = append(body, strings.Join(cur, "\n"))
			cur = nil
			sc = scanner{}
		}
	}
	if len(cur) > 0 {
		body = append(body, strings.Join(cur, "\n"))
	}
	return body, nil
}

// IsStatement reports whether input ends like a Rust statement or item.
func IsStatement(input string) bool {
	s := strings.TrimSpace(input)
	return strings.HasSuffix(s, ";") || strings.HasSuffix(s, "}")
}
