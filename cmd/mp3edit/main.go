package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattjoyce/mp3edit/internal/config"
	"github.com/mattjoyce/mp3edit/internal/dispatch"
	"github.com/mattjoyce/mp3edit/internal/events"
	"github.com/mattjoyce/mp3edit/internal/host"
	"github.com/mattjoyce/mp3edit/internal/log"
)

var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// Exit codes.
const (
	exitOK         = 0
	exitError      = 1
	exitNotHandled = 2
)

// errNotHandled means the event passed through; shell hosts should fall
// back to their default behaviour.
var errNotHandled = errors.New("event not handled")

func main() {
	os.Exit(runCLI(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func runCLI(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errNotHandled):
		return exitNotHandled
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
}

// app carries flag values and the wired components shared by subcommands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string
	cwd        string
	jsonOut    bool
	printEvent bool

	cfg  *config.Config
	hub  *events.Hub
	proc *host.Process
	regs dispatch.Registrations
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "mp3edit",
		Short: "Launch the metamusic tag editor from file-manager events",
		Long: `mp3edit connects a file manager's commands, key bindings and context
menu to the metamusic tag editor.

A matching event runs "metamusic <cwd>", waits for it to exit and asks the
host to refresh. Events that do not match pass through (exit code 2).

Examples:
  mp3edit command mp3edit
  mp3edit key e --ctrl
  mp3edit menu track10.mp3
  echo '{"kind":"key","key":"e","mods":{"ctrl":true}}' | mp3edit dispatch
  mp3edit browse ~/Music`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default is $MP3EDIT_CONFIG or ~/.config/mp3edit/config.yaml)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: json or text (overrides config)")
	pf.StringVar(&a.cwd, "cwd", "", "working directory reported to the dispatcher (default is the process cwd)")
	pf.BoolVar(&a.jsonOut, "json", false, "print results as JSON envelopes")

	root.AddCommand(
		newCommandCmd(a),
		newKeyCmd(a),
		newMenuCmd(a),
		newDispatchCmd(a),
		newBrowseCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup loads config, configures logging and wires the host and dispatcher.
// toolStdout is where launched tools write their standard output.
func (a *app) setup(toolStdout io.Writer) error {
	cfg, err := config.LoadResolved(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, format := cfg.Log.Level, cfg.Log.Format
	if a.logLevel != "" {
		level = a.logLevel
	}
	if a.logFormat != "" {
		format = a.logFormat
	}
	log.SetupWriter(a.stderr, level, format)

	logger := log.WithComponent("cli")
	if cfg.SourcePath != "" {
		logger.Debug("config loaded", "path", cfg.SourcePath, "fingerprint", cfg.Fingerprint)
	}

	opts := []host.Option{host.WithStdio(a.stdin, toolStdout, a.stderr)}
	if a.cwd != "" {
		opts = append(opts, host.WithCwd(a.cwd))
	}
	a.hub = events.NewHub(0)
	a.proc = host.NewProcess(a.hub, opts...)
	a.regs = dispatch.Setup(a.proc, &dispatch.Options{Raw: cfg.Dispatcher})
	return nil
}
