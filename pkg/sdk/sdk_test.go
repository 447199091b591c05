// ABOUTME: Tests for the script SDK over in-memory streams
// ABOUTME: Covers --describe, OneOff single exchange, Daemon loop, and unsubscribed hooks

package sdk

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauromedda/irepl/pkg/hookapi"
)

func echoUpper(_ context.Context, req hookapi.Request) *string {
	if oe, ok := req.(hookapi.OutputEventRequest); ok {
		s := strings.ToUpper(oe.Output)
		return &s
	}
	s := "title"
	return &s
}

func descriptor(t hookapi.ScriptType) hookapi.Descriptor {
	return hookapi.Descriptor{
		Name:               "upper",
		Type:               t,
		VersionRequirement: ">=1.30.6",
		Hooks:              []hookapi.Hook{hookapi.OutputEvent, hookapi.SetTitle},
	}
}

func TestNew_RejectsInvalid(t *testing.T) {
	t.Parallel()

	_, err := New(hookapi.Descriptor{}, echoUpper)
	assert.Error(t, err)

	_, err = New(descriptor(hookapi.OneOff), nil)
	assert.Error(t, err)
}

func TestRun_Describe(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	s, err := New(descriptor(hookapi.Daemon), echoUpper, WithIO(strings.NewReader(""), &out))
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background(), []string{DescribeFlag}))

	got, err := hookapi.UnmarshalManifest(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, descriptor(hookapi.Daemon), got)
}

func TestRun_OneOffAnswersOnce(t *testing.T) {
	t.Parallel()

	var in, out bytes.Buffer
	require.NoError(t, hookapi.WriteRequest(&in, hookapi.OutputEventRequest{Input: "x", Output: "abc"}))
	require.NoError(t, hookapi.WriteRequest(&in, hookapi.SetTitleRequest{}))

	s, err := New(descriptor(hookapi.OneOff), echoUpper, WithIO(&in, &out))
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background(), nil))

	assert.Equal(t, "{\"payload\":\"ABC\"}\n", out.String())
}

func TestRun_DaemonLoopsUntilEOF(t *testing.T) {
	t.Parallel()

	var in, out bytes.Buffer
	require.NoError(t, hookapi.WriteRequest(&in, hookapi.OutputEventRequest{Input: "x", Output: "abc"}))
	require.NoError(t, hookapi.WriteRequest(&in, hookapi.StartupRequest{}))
	in.WriteString("{\"hook\":\"Bogus\"}\n")
	require.NoError(t, hookapi.WriteRequest(&in, hookapi.SetTitleRequest{}))

	s, err := New(descriptor(hookapi.Daemon), echoUpper, WithIO(&in, &out))
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background(), nil))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Equal(t, []string{
		`{"payload":"ABC"}`,
		`{"payload":null}`,
		`{"payload":null}`,
		`{"payload":"title"}`,
	}, lines)
}

func TestRun_OneOffEmptyInput(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	s, err := New(descriptor(hookapi.OneOff), echoUpper, WithIO(strings.NewReader(""), &out))
	require.NoError(t, err)
	assert.Error(t, s.Run(context.Background(), nil))
	assert.Empty(t, out.String())
}
