package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"

	"github.com/google/uuid"

	"github.com/mattjoyce/mp3edit/internal/log"
)

var mp3Name = regexp.MustCompile(`\.mp3$`)

// Handler processes one event. A zero Result means pass-through.
type Handler func(ctx context.Context, ev Event) (Result, error)

// Registrations maps each event kind to its handler.
type Registrations map[Kind]Handler

// Dispatch routes ev to its registered handler. Kinds with no handler pass through.
func (r Registrations) Dispatch(ctx context.Context, ev Event) (Result, error) {
	if ev == nil {
		return passThrough(), nil
	}
	h, ok := r[ev.Kind()]
	if !ok {
		return passThrough(), nil
	}
	return h(ctx, ev)
}

// Dispatcher holds the injected host. It keeps no state between events.
type Dispatcher struct {
	host   Host
	logger *slog.Logger
	newID  func() string
}

// New creates a Dispatcher bound to host. opts may be nil.
func New(host Host, opts *Options) *Dispatcher {
	d := &Dispatcher{
		host:   host,
		logger: log.WithComponent("dispatch"),
		newID:  uuid.NewString,
	}
	if opts != nil && len(opts.Raw) > 0 {
		keys := make([]string, 0, len(opts.Raw))
		for k := range opts.Raw {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d.logger.Debug("ignoring unrecognised options", "keys", keys)
	}
	return d
}

// Setup binds host and returns the registration table of the three handlers.
func Setup(host Host, opts *Options) Registrations {
	return New(host, opts).Registrations()
}

// Registrations returns the handler table for d.
func (d *Dispatcher) Registrations() Registrations {
	return Registrations{
		KindCommand: d.handleCommand,
		KindMenu:    d.handleMenu,
		KindKey:     d.handleKey,
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, ev Event) (Result, error) {
	cmd, ok := ev.(CommandEvent)
	if !ok {
		return passThrough(), nil
	}
	switch cmd.Args {
	case ToolName, "mp3edit":
		return d.launch(ctx)
	default:
		d.logger.Debug("command passed through", "args", cmd.Args)
		return passThrough(), nil
	}
}

func (d *Dispatcher) handleMenu(_ context.Context, ev Event) (Result, error) {
	q, ok := ev.(MenuQueryEvent)
	if !ok || q.Target.Type != EntityFile || !mp3Name.MatchString(q.Target.Name) {
		return passThrough(), nil
	}
	return withMenu(MenuEntry{Label: MenuLabel, CommandName: ToolName}), nil
}

func (d *Dispatcher) handleKey(ctx context.Context, ev Event) (Result, error) {
	k, ok := ev.(KeyPressEvent)
	if !ok || k.Key != "e" || !k.Mods.Ctrl {
		return passThrough(), nil
	}
	return d.launch(ctx)
}

// launch is the shared success path: resolve cwd, run the tool, request a refresh.
func (d *Dispatcher) launch(ctx context.Context) (Result, error) {
	cwd, err := d.host.Cwd()
	if err != nil {
		return passThrough(), fmt.Errorf("query cwd: %w", err)
	}

	req := newInvocationRequest(d.newID(), cwd)
	reqLogger := log.WithRequest(req.ID()).With("component", "dispatch", "tool", req.ToolName())
	reqLogger.Info("launching tool", "args", req.Args())

	res, err := d.host.Launch(ctx, req.ToolName(), req.Args())
	switch {
	case err != nil:
		// Not surfaced to the host: the refresh still goes out.
		reqLogger.Warn("tool launch failed", "error", err)
	case res.ExitCode != 0:
		reqLogger.Warn("tool exited with non-zero status", "exit_code", res.ExitCode, "duration", res.Duration)
	default:
		reqLogger.Debug("tool exited", "duration", res.Duration)
	}

	d.host.Emit(SignalUpdate, map[string]any{})
	return handled(), nil
}
