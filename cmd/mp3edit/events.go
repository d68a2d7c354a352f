package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattjoyce/mp3edit/internal/dispatch"
	"github.com/mattjoyce/mp3edit/internal/protocol"
)

// addPrintEventFlag lets a shell subcommand print the bridge envelope for its
// event instead of handling it.
func addPrintEventFlag(cmd *cobra.Command, a *app) {
	cmd.Flags().BoolVar(&a.printEvent, "print-event", false, "print the event as a dispatch envelope and exit")
}

func newCommandCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "command <text>",
		Short: "Send a named-command event",
		Long: `Send a named-command event. "metamusic" and "mp3edit" launch the tag
editor in the working directory; anything else passes through.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.fire(cmd.Context(), dispatch.CommandEvent{Args: args[0]})
		},
	}
	addPrintEventFlag(cmd, a)
	return cmd
}

func newKeyCmd(a *app) *cobra.Command {
	var mods dispatch.Modifiers
	cmd := &cobra.Command{
		Use:   "key <key>",
		Short: "Send a key-press event",
		Long:  `Send a key-press event. "e" with --ctrl launches the tag editor.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.fire(cmd.Context(), dispatch.KeyPressEvent{Key: args[0], Mods: mods})
		},
	}
	cmd.Flags().BoolVar(&mods.Ctrl, "ctrl", false, "control modifier")
	cmd.Flags().BoolVar(&mods.Alt, "alt", false, "alt modifier")
	cmd.Flags().BoolVar(&mods.Shift, "shift", false, "shift modifier")
	addPrintEventFlag(cmd, a)
	return cmd
}

func newMenuCmd(a *app) *cobra.Command {
	var entityType string
	cmd := &cobra.Command{
		Use:   "menu <name>",
		Short: "Query context-menu entries for an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev := dispatch.MenuQueryEvent{Target: dispatch.Entity{Type: entityType, Name: args[0]}}
			return a.fire(cmd.Context(), ev)
		},
	}
	cmd.Flags().StringVar(&entityType, "type", dispatch.EntityFile, "entity type tag (file, dir, ...)")
	addPrintEventFlag(cmd, a)
	return cmd
}

func newDispatchCmd(a *app) *cobra.Command {
	var raw string
	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Handle one JSON event envelope (bridge mode)",
		Long: `Read one event envelope from --event or stdin, handle it and write one
result envelope to stdout. Launched tools write to stderr so stdout stays
parseable.

  {"kind":"command","args":"mp3edit"}
  {"kind":"menu","target":{"type":"file","name":"track10.mp3"}}
  {"kind":"key","key":"e","mods":{"ctrl":true}}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(a.stderr); err != nil {
				return err
			}

			var r io.Reader = a.stdin
			if raw != "" {
				r = strings.NewReader(raw)
			}
			ev, err := protocol.DecodeEvent(r)
			if err != nil {
				return err
			}

			env, err := a.handle(cmd.Context(), ev)
			if err != nil {
				return err
			}
			// Pass-through is a normal answer here, not an exit code.
			return protocol.EncodeResult(a.stdout, env)
		},
	}
	cmd.Flags().StringVar(&raw, "event", "", "event envelope JSON (default reads stdin)")
	return cmd
}

// fire handles ev for the shell-facing subcommands and prints the outcome.
func (a *app) fire(ctx context.Context, ev dispatch.Event) error {
	if a.printEvent {
		env, err := protocol.EnvelopeFor(ev)
		if err != nil {
			return err
		}
		return protocol.EncodeEvent(a.stdout, env)
	}

	if err := a.setup(a.stdout); err != nil {
		return err
	}

	env, err := a.handle(ctx, ev)
	if err != nil {
		return err
	}

	if a.jsonOut {
		if err := protocol.EncodeResult(a.stdout, env); err != nil {
			return err
		}
	} else {
		for _, item := range env.Menu {
			fmt.Fprintf(a.stdout, "%s\t%s\n", item.Label, item.Command)
		}
	}

	if !env.Handled {
		return errNotHandled
	}
	return nil
}

// handle dispatches ev and reports the signals the host emitted meanwhile.
func (a *app) handle(ctx context.Context, ev dispatch.Event) (protocol.ResultEnvelope, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	since := a.hub.LastID()
	res, err := a.regs.Dispatch(ctx, ev)
	if err != nil {
		return protocol.ResultEnvelope{}, err
	}
	return protocol.ResultFor(res, a.hub.NamesSince(since)), nil
}
