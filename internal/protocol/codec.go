package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mattjoyce/mp3edit/internal/dispatch"
)

var (
	// ErrUnknownKind is returned for an envelope kind other than command, menu or key.
	ErrUnknownKind = errors.New("unknown event kind")
	// ErrMissingField is returned when a kind's required field is absent.
	ErrMissingField = errors.New("missing required field")
)

// DecodeEvent reads one event envelope from r and converts it to a dispatch.Event.
// Unknown fields are rejected.
func DecodeEvent(r io.Reader) (dispatch.Event, error) {
	var env EventEnvelope

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields() // Strict parsing

	if err := decoder.Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}

	return env.Event()
}

// Event validates the envelope and returns the typed event.
func (e EventEnvelope) Event() (dispatch.Event, error) {
	switch dispatch.Kind(e.Kind) {
	case dispatch.KindCommand:
		if e.Args == nil {
			return nil, fmt.Errorf("command event: %w: args", ErrMissingField)
		}
		return dispatch.CommandEvent{Args: *e.Args}, nil

	case dispatch.KindMenu:
		if e.Target == nil {
			return nil, fmt.Errorf("menu event: %w: target", ErrMissingField)
		}
		return dispatch.MenuQueryEvent{Target: dispatch.Entity{Type: e.Target.Type, Name: e.Target.Name}}, nil

	case dispatch.KindKey:
		if e.Key == "" {
			return nil, fmt.Errorf("key event: %w: key", ErrMissingField)
		}
		ev := dispatch.KeyPressEvent{Key: e.Key}
		if e.Mods != nil {
			ev.Mods = dispatch.Modifiers{Ctrl: e.Mods.Ctrl, Alt: e.Mods.Alt, Shift: e.Mods.Shift}
		}
		return ev, nil

	case "":
		return nil, fmt.Errorf("%w: kind", ErrMissingField)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}
}

// EnvelopeFor converts a typed event back into its wire form.
func EnvelopeFor(ev dispatch.Event) (EventEnvelope, error) {
	switch ev := ev.(type) {
	case dispatch.CommandEvent:
		args := ev.Args
		return EventEnvelope{Kind: string(dispatch.KindCommand), Args: &args}, nil
	case dispatch.MenuQueryEvent:
		return EventEnvelope{Kind: string(dispatch.KindMenu), Target: &Target{Type: ev.Target.Type, Name: ev.Target.Name}}, nil
	case dispatch.KeyPressEvent:
		env := EventEnvelope{Kind: string(dispatch.KindKey), Key: ev.Key}
		if ev.Mods != (dispatch.Modifiers{}) {
			env.Mods = &Mods{Ctrl: ev.Mods.Ctrl, Alt: ev.Mods.Alt, Shift: ev.Mods.Shift}
		}
		return env, nil
	default:
		return EventEnvelope{}, fmt.Errorf("%w: %T", ErrUnknownKind, ev)
	}
}

// ResultFor builds the wire result for a dispatch result and the signals the
// host emitted while handling it.
func ResultFor(res dispatch.Result, signals []string) ResultEnvelope {
	if !res.Consumed() {
		return ResultEnvelope{}
	}
	out := ResultEnvelope{Handled: true, Signals: signals}
	for _, entry := range res.Menu {
		out.Menu = append(out.Menu, MenuItem{Label: entry.Label, Command: entry.CommandName})
	}
	return out
}

// EncodeResult writes one result envelope to w as a single JSON line.
func EncodeResult(w io.Writer, res ResultEnvelope) error {
	if err := json.NewEncoder(w).Encode(res); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// EncodeEvent writes one event envelope to w as a single JSON line.
func EncodeEvent(w io.Writer, env EventEnvelope) error {
	if err := json.NewEncoder(w).Encode(env); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return nil
}
