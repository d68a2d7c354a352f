package dispatch

import (
	"context"
	"time"
)

const (
	// ToolName is the external executable every invocation targets.
	ToolName = "metamusic"

	// SignalUpdate asks the host to redraw after a launch.
	SignalUpdate = "update"

	// MenuLabel is the label of the single contributed menu entry.
	MenuLabel = "Edit MP3 Tags"

	// EntityFile is the target type tag that menu queries match on.
	EntityFile = "file"
)

// Kind identifies an event kind in the registration table.
type Kind string

const (
	KindCommand Kind = "command"
	KindMenu    Kind = "menu"
	KindKey     Kind = "key"
)

// Event is one host event. The concrete types are CommandEvent, MenuQueryEvent
// and KeyPressEvent.
type Event interface {
	Kind() Kind
}

// CommandEvent is a user-issued named command with its free-text argument.
type CommandEvent struct {
	Args string
}

func (CommandEvent) Kind() Kind { return KindCommand }

// Entity describes the selected item a menu query is about.
type Entity struct {
	Type string // "file", "dir", ...
	Name string
}

// MenuQueryEvent asks for context-menu contributions for Target.
type MenuQueryEvent struct {
	Target Entity
}

func (MenuQueryEvent) Kind() Kind { return KindMenu }

// Modifiers is the set of active modifier keys.
type Modifiers struct {
	Ctrl  bool
	Alt   bool
	Shift bool
}

// KeyPressEvent is a key identifier plus active modifiers.
type KeyPressEvent struct {
	Key  string
	Mods Modifiers
}

func (KeyPressEvent) Kind() Kind { return KindKey }

// MenuEntry is one context-menu contribution.
type MenuEntry struct {
	Label       string
	CommandName string
}

// Outcome distinguishes "pass through" from the two handled forms.
type Outcome int

const (
	NotHandled Outcome = iota
	Handled
	HandledWithMenu
)

func (o Outcome) String() string {
	switch o {
	case Handled:
		return "handled"
	case HandledWithMenu:
		return "handled_with_menu"
	default:
		return "not_handled"
	}
}

// Result is what a handler reports back to the host.
type Result struct {
	Outcome Outcome
	Menu    []MenuEntry // only for HandledWithMenu
}

// Consumed reports whether the host should skip its default handling.
func (r Result) Consumed() bool {
	return r.Outcome != NotHandled
}

func passThrough() Result { return Result{Outcome: NotHandled} }

func handled() Result { return Result{Outcome: Handled} }

func withMenu(entries ...MenuEntry) Result {
	return Result{Outcome: HandledWithMenu, Menu: entries}
}

// InvocationRequest is a single launch of the external tool. It is built
// fresh per event and not retained.
type InvocationRequest struct {
	id   string
	tool string
	args []string
}

func newInvocationRequest(id, cwd string) InvocationRequest {
	return InvocationRequest{id: id, tool: ToolName, args: []string{cwd}}
}

// ID is the correlation id used in logs.
func (r InvocationRequest) ID() string { return r.id }

// ToolName is always "metamusic".
func (r InvocationRequest) ToolName() string { return r.tool }

// Args returns a copy of the argument list: the working directory only.
func (r InvocationRequest) Args() []string {
	out := make([]string, len(r.args))
	copy(out, r.args)
	return out
}

// ProcessResult describes a finished external process.
type ProcessResult struct {
	ExitCode int
	Duration time.Duration
}

//go:generate mockgen -destination=mocks/mock_host.go -package=mocks github.com/mattjoyce/mp3edit/internal/dispatch Host

// Host is the set of host capabilities the dispatcher needs.
type Host interface {
	// Cwd returns the host's current working directory.
	Cwd() (string, error)
	// Launch runs name with args, inheriting the host's stdio, and blocks
	// until the process exits.
	Launch(ctx context.Context, name string, args []string) (ProcessResult, error)
	// Emit sends a named signal with a payload to the host.
	Emit(signal string, payload map[string]any)
}

// Options is accepted at setup and reserved for future use. No keys are
// currently recognised.
type Options struct {
	Raw map[string]any
}
