// Package host implements dispatch.Host for a process running in a terminal:
// the working directory comes from an override or the process itself, tools
// are launched with inherited stdio, and signals go to an events.Hub.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/mattjoyce/mp3edit/internal/dispatch"
	"github.com/mattjoyce/mp3edit/internal/events"
	"github.com/mattjoyce/mp3edit/internal/log"
)

// Process is a dispatch.Host backed by the current process.
type Process struct {
	cwd    string
	hub    *events.Hub
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger

	// Hooks run around each launch. The TUI uses them to hand the terminal
	// to the child and take it back.
	BeforeLaunch func() error
	AfterLaunch  func() error
}

var _ dispatch.Host = (*Process)(nil)

// Option configures a Process.
type Option func(*Process)

// WithCwd fixes the working directory instead of asking the OS. A leading
// "~" is expanded.
func WithCwd(dir string) Option {
	return func(p *Process) { p.cwd = dir }
}

// WithStdio overrides the streams handed to launched tools.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(p *Process) {
		p.stdin = stdin
		p.stdout = stdout
		p.stderr = stderr
	}
}

// NewProcess creates a Process publishing signals to hub.
func NewProcess(hub *events.Hub, opts ...Option) *Process {
	if hub == nil {
		hub = events.NewHub(0)
	}
	p := &Process{
		hub:    hub,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: log.WithComponent("host"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Hub returns the hub signals are published to.
func (p *Process) Hub() *events.Hub {
	return p.hub
}

// SetCwd changes the directory reported by Cwd.
func (p *Process) SetCwd(dir string) {
	p.cwd = dir
}

// Cwd returns the override when set, otherwise the process working directory.
// The value is passed through without validation.
func (p *Process) Cwd() (string, error) {
	if p.cwd == "" {
		return os.Getwd()
	}
	dir, err := homedir.Expand(p.cwd)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", p.cwd, err)
	}
	return dir, nil
}

// Launch starts name with args and blocks until it exits. A non-zero exit is
// reported in the result, not as an error; errors mean the tool never ran.
// There is no timeout and ctx is only checked before starting.
func (p *Process) Launch(ctx context.Context, name string, args []string) (dispatch.ProcessResult, error) {
	if err := ctx.Err(); err != nil {
		return dispatch.ProcessResult{}, err
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return dispatch.ProcessResult{}, fmt.Errorf("resolve %s: %w", name, err)
	}

	// Don't use CommandContext: a running tool is never cancelled.
	cmd := exec.Command(path, args...)
	cmd.Stdin = p.stdin
	cmd.Stdout = p.stdout
	cmd.Stderr = p.stderr

	if p.BeforeLaunch != nil {
		if err := p.BeforeLaunch(); err != nil {
			return dispatch.ProcessResult{}, fmt.Errorf("before launch: %w", err)
		}
	}
	defer func() {
		if p.AfterLaunch != nil {
			if err := p.AfterLaunch(); err != nil {
				p.logger.Error("after launch hook failed", "error", err)
			}
		}
	}()

	p.logger.Debug("starting tool", "path", path, "args", args)
	start := time.Now()
	if err := cmd.Start(); err != nil {
		return dispatch.ProcessResult{}, fmt.Errorf("start process: %w", err)
	}

	err = cmd.Wait()
	res := dispatch.ProcessResult{Duration: time.Since(start)}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return res, fmt.Errorf("wait for process: %w", err)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	return res, nil
}

// Emit publishes signal to the hub.
func (p *Process) Emit(signal string, payload map[string]any) {
	sig := p.hub.Publish(signal, payload)
	p.logger.Debug("signal emitted", "signal", signal, "id", sig.ID)
}
