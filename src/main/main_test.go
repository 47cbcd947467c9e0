package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cursor-guide/src/singleinstance"
)

func TestNormalizeLegacyArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		out  []string
	}{
		{
			name: "Normalizes long single dash flags",
			in:   []string{"cursor-guide", "-toggle", "-settings", "/tmp/guide.yaml"},
			out:  []string{"cursor-guide", "--toggle", "--settings", "/tmp/guide.yaml"},
		},
		{
			name: "Normalizes equals form",
			in:   []string{"cursor-guide", "-hotkey=Ctrl+Alt+H", "-verbose=true"},
			out:  []string{"cursor-guide", "--hotkey=Ctrl+Alt+H", "--verbose=true"},
		},
		{
			name: "Leaves short and unknown flags unchanged",
			in:   []string{"cursor-guide", "-v", "--status", "-other"},
			out:  []string{"cursor-guide", "-v", "--status", "-other"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.out, normalizeLegacyArgs(tt.in))
		})
	}
}

func TestNewRootCmdParsesFlags(t *testing.T) {
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	err := cmd.ParseFlags([]string{"--reload", "--settings", "/tmp/guide.yaml", "--hotkey", "Alt+F9", "-v"})
	require.NoError(t, err)

	assert.True(t, opts.reload)
	assert.True(t, opts.verbose)
	assert.Equal(t, "/tmp/guide.yaml", opts.settingsPath)
	assert.Equal(t, "Alt+F9", opts.hotkey)

	c, ok := selectedCommand(*opts)
	assert.True(t, ok)
	assert.Equal(t, singleinstance.CmdReload, c)
}

func TestCommandsAreMutuallyExclusive(t *testing.T) {
	cmd := newRootCmd(&mainOptions{})
	cmd.SetArgs([]string{"--show", "--hide"})
	cmd.RunE = func(*cobra.Command, []string) error { return nil }
	assert.Error(t, cmd.Execute())
}

func TestSelectedCommandNone(t *testing.T) {
	_, ok := selectedCommand(mainOptions{hidden: true, verbose: true})
	assert.False(t, ok)
}

type fakeClient struct {
	delegated bool
	reply     string
	err       error
	called    singleinstance.Command
}

func (f *fakeClient) Send(ctx context.Context, cmd singleinstance.Command) (bool, string, error) {
	f.called = cmd
	return f.delegated, f.reply, f.err
}

func TestHandleCommandWithDelegation_Delegated(t *testing.T) {
	client := &fakeClient{delegated: true, reply: "hidden"}
	var out bytes.Buffer
	fallbackCalled := false

	err := handleCommandWithDelegation(context.Background(), singleinstance.CmdToggle, client, &out, func() error {
		fallbackCalled = true
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, singleinstance.CmdToggle, client.called)
	assert.False(t, fallbackCalled, "Did not expect fallback when delegation succeeds")
	assert.Equal(t, "hidden\n", out.String())
}

func TestHandleCommandWithDelegation_NoResidentFallback(t *testing.T) {
	for _, c := range []singleinstance.Command{singleinstance.CmdToggle, singleinstance.CmdShow} {
		fallbackCalled := false
		err := handleCommandWithDelegation(context.Background(), c, &fakeClient{}, &bytes.Buffer{}, func() error {
			fallbackCalled = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, fallbackCalled, "Expected fallback for %s when no resident is running", c)
	}
}

func TestHandleCommandWithDelegation_NoResidentFails(t *testing.T) {
	for _, c := range []singleinstance.Command{singleinstance.CmdHide, singleinstance.CmdReload} {
		err := handleCommandWithDelegation(context.Background(), c, &fakeClient{}, &bytes.Buffer{}, func() error {
			t.Fatalf("unexpected fallback for %s", c)
			return nil
		})
		assert.ErrorIs(t, err, errNoResident)
	}
}

func TestHandleCommandWithDelegation_StatusWithoutResident(t *testing.T) {
	var out bytes.Buffer
	err := handleCommandWithDelegation(context.Background(), singleinstance.CmdStatus, &fakeClient{}, &out, nil)
	require.NoError(t, err)
	assert.Equal(t, "not running\n", out.String())
}

func TestHandleCommandWithDelegation_ResidentError(t *testing.T) {
	client := &fakeClient{delegated: true, err: errors.New("no displays")}

	err := handleCommandWithDelegation(context.Background(), singleinstance.CmdShow, client, &bytes.Buffer{}, func() error {
		t.Fatal("unexpected fallback")
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no displays")
}

func TestHandleCommandWithDelegation_DelegationErrorFallback(t *testing.T) {
	client := &fakeClient{err: errors.New("busy")}
	fallbackCalled := false

	err := handleCommandWithDelegation(context.Background(), singleinstance.CmdToggle, client, &bytes.Buffer{}, func() error {
		fallbackCalled = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, fallbackCalled, "Expected fallback when delegation returns an error")
}
