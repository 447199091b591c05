// ABOUTME: Tests for the irepl CLI commands built on cobra
// ABOUTME: Runs version and scripts against an empty HOME

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauromedda/irepl/pkg/hookapi"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestVersionCmd(t *testing.T) {
	out := execute(t, "version")
	assert.Contains(t, out, "irepl dev")
	assert.Contains(t, out, "hook API "+hookapi.Version)
}

func TestScriptsCmd_NoneConfigured(t *testing.T) {
	assert.Equal(t, "no scripts configured\n", execute(t, "scripts"))
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"extra"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	assert.Error(t, root.Execute())
}
