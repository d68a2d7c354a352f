package host

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/mp3edit/internal/dispatch"
	"github.com/mattjoyce/mp3edit/internal/events"
	"github.com/mattjoyce/mp3edit/internal/log"
)

func TestMain(m *testing.M) {
	log.Setup("ERROR", "json") // Suppress logs in tests
	os.Exit(m.Run())
}

// installTool writes an executable shell script named name into a fresh
// directory and puts that directory first on PATH.
func installTool(t *testing.T, name, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}

	binDir := t.TempDir()
	path := filepath.Join(binDir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("failed to write tool: %v", err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return binDir
}

func TestCwdOverride(t *testing.T) {
	p := NewProcess(nil, WithCwd("/music/album"))
	cwd, err := p.Cwd()
	require.NoError(t, err)
	assert.Equal(t, "/music/album", cwd)

	p.SetCwd("/music/other")
	cwd, err = p.Cwd()
	require.NoError(t, err)
	assert.Equal(t, "/music/other", cwd)
}

func TestCwdExpandsHome(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	p := NewProcess(nil, WithCwd("~/Music"))
	cwd, err := p.Cwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Music"), cwd)
}

func TestCwdDefaultsToProcess(t *testing.T) {
	want, err := os.Getwd()
	require.NoError(t, err)

	got, err := NewProcess(nil).Cwd()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLaunchPassesArgsAndInheritsStdio(t *testing.T) {
	installTool(t, "metamusic", `echo "args:$*"; echo "err" >&2`)

	var stdout, stderr bytes.Buffer
	p := NewProcess(nil, WithStdio(strings.NewReader(""), &stdout, &stderr))

	res, err := p.Launch(context.Background(), "metamusic", []string{"/music/album"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "args:/music/album\n", stdout.String())
	assert.Equal(t, "err\n", stderr.String())
}

func TestLaunchNonZeroExitIsNotAnError(t *testing.T) {
	installTool(t, "metamusic", "exit 3")

	p := NewProcess(nil, WithStdio(nil, &bytes.Buffer{}, &bytes.Buffer{}))
	res, err := p.Launch(context.Background(), "metamusic", []string{"/x"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestLaunchMissingTool(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	p := NewProcess(nil)
	_, err := p.Launch(context.Background(), "metamusic", []string{"/x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve metamusic")
}

func TestLaunchCancelledBeforeStart(t *testing.T) {
	installTool(t, "metamusic", "exit 0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProcess(nil).Launch(ctx, "metamusic", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLaunchHooks(t *testing.T) {
	installTool(t, "metamusic", "exit 0")

	var calls []string
	p := NewProcess(nil, WithStdio(nil, &bytes.Buffer{}, &bytes.Buffer{}))
	p.BeforeLaunch = func() error { calls = append(calls, "before"); return nil }
	p.AfterLaunch = func() error { calls = append(calls, "after"); return nil }

	_, err := p.Launch(context.Background(), "metamusic", []string{"/x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"before", "after"}, calls)

	calls = nil
	p.BeforeLaunch = func() error { return errors.New("tty busy") }
	_, err = p.Launch(context.Background(), "metamusic", []string{"/x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tty busy")
	assert.Empty(t, calls)
}

func TestEmitPublishesToHub(t *testing.T) {
	hub := events.NewHub(8)
	p := NewProcess(hub)

	before := hub.LastID()
	p.Emit(dispatch.SignalUpdate, map[string]any{})

	got := hub.Since(before)
	require.Len(t, got, 1)
	assert.Equal(t, dispatch.SignalUpdate, got[0].Name)
	assert.Empty(t, got[0].Payload)
	assert.Empty(t, hub.Since(hub.LastID()))
	assert.Same(t, hub, p.Hub())
}

func TestProcessDrivesDispatcher(t *testing.T) {
	dir := installTool(t, "metamusic", `echo "$1" > "${0%/*}/seen"`)

	hub := events.NewHub(8)
	p := NewProcess(hub, WithCwd("/music/album"), WithStdio(nil, &bytes.Buffer{}, &bytes.Buffer{}))

	res, err := dispatch.Setup(p, nil).Dispatch(context.Background(), dispatch.CommandEvent{Args: "mp3edit"})
	require.NoError(t, err)
	assert.Equal(t, dispatch.Handled, res.Outcome)

	seen, err := os.ReadFile(filepath.Join(dir, "seen"))
	require.NoError(t, err)
	assert.Equal(t, "/music/album\n", string(seen))
	assert.Equal(t, []string{"update"}, hub.NamesSince(0))
}
