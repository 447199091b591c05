// ABOUTME: Tests for program assembly, main_extern.rs round trips, and the run command
// ABOUTME: Uses sh in place of cargo so no Rust toolchain is needed

package shadow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgram(t *testing.T) {
	t.Parallel()

	got := Program([]string{"let a = 1;", "let v = vec![a];"}, "v.len()")
	want := "#![allow(unused)]\nfn main() {\n" +
		"    let a = 1;\n" +
		"    let v = vec![a];\n" +
		"    println!(\"{:?}\", {\n" +
		"        v.len()\n" +
		"    });\n" +
		"}\n"
	assert.Equal(t, want, got)
}

func TestParseBody_RoundTrip(t *testing.T) {
	t.Parallel()

	body := []string{
		"let a = 1;",
		"fn add(x: i32) -> i32 {\n    x + a_const()\n}",
		"struct P { x: i32 }",
	}
	got, err := ParseBody(Program(body, ""))
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestParseBody_RoundTripUnindentedBlock(t *testing.T) {
	t.Parallel()

	body := []string{
		"if true {\nprintln!(\"a\");\n}",
		"let s = \"}\";",
		"match 1 {\n1 => {\n}\n_ => {}\n}",
		"let c = '{';",
	}
	got, err := ParseBody(Program(body, ""))
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestParseBody_EditedFile(t *testing.T) {
	t.Parallel()

	src := "fn main() {\r\n    let x = 2;\r\n\r\n    let y = x * 3;\r\n}\r\n"
	got, err := ParseBody(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"let x = 2;", "let y = x * 3;"}, got)

	_, err = ParseBody("let x = 1;")
	assert.Error(t, err)
}

func TestIsStatement(t *testing.T) {
	t.Parallel()

	assert.True(t, IsStatement("let a = 1; "))
	assert.True(t, IsStatement("fn f() {}"))
	assert.False(t, IsStatement("a + 1"))
	assert.False(t, IsStatement(":help"))
}

func TestProject_InitAndExtern(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := New(dir, nil)
	require.NoError(t, p.Init())

	assert.FileExists(t, filepath.Join(dir, "Cargo.toml"))
	assert.FileExists(t, filepath.Join(dir, "src", "main.rs"))

	body, err := p.ReadExtern()
	require.NoError(t, err)
	assert.Empty(t, body)

	require.NoError(t, p.WriteExtern([]string{"let z = 0;"}))
	body, err = p.ReadExtern()
	require.NoError(t, err)
	assert.Equal(t, []string{"let z = 0;"}, body)
}

func TestProject_InitKeepsManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifest := filepath.Join(dir, "Cargo.toml")
	require.NoError(t, os.WriteFile(manifest, []byte("[package]\nname = \"custom\"\n"), 0o644))

	require.NoError(t, New(dir, nil).Init())
	data, err := os.ReadFile(manifest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "custom")
}

func TestProject_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := New(dir, []string{"sh", "-c", `grep -c println src/main.rs; echo warn >&2; exit 3`})
	require.NoError(t, p.Init())

	out, err := p.Run(context.Background(), Program(nil, "1 + 1"))
	require.NoError(t, err)
	assert.Equal(t, "1\n", out.Stdout)
	assert.Equal(t, "warn\n", out.Stderr)
	assert.Equal(t, 3, out.ExitCode)
}

func TestProject_RunMissingCommand(t *testing.T) {
	t.Parallel()

	p := New(t.TempDir(), []string{"definitely-not-a-real-binary-irepl"})
	require.NoError(t, p.Init())
	_, err := p.Run(context.Background(), Program(nil, ""))
	assert.Error(t, err)
}

func TestUnclosed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"1 + 1", false},
		{"fn f() {", true},
		{"fn f() {}", false},
		{`let s = "{";`, false},
		{`let s = "abc`, true},
		{`let s = "a\"{";`, false},
		{"vec![1,", true},
		{"let c = '{';", false},
		{`let c = '\'';`, false},
		{`let c = '\u{7b}';`, false},
		{"fn f<'a>(x: &'a str) -> &'a str {", true},
		{"fn f<'a>(x: &'a str) -> &'a str { x }", false},
		{"let a = 1; // {", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Unclosed(tt.in), tt.in)
	}
}
