package protocol

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/mp3edit/internal/dispatch"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want dispatch.Event
	}{
		{
			name: "command",
			in:   `{"kind":"command","args":"mp3edit"}`,
			want: dispatch.CommandEvent{Args: "mp3edit"},
		},
		{
			name: "empty command",
			in:   `{"kind":"command","args":""}`,
			want: dispatch.CommandEvent{Args: ""},
		},
		{
			name: "menu",
			in:   `{"kind":"menu","target":{"type":"file","name":"track10.mp3"}}`,
			want: dispatch.MenuQueryEvent{Target: dispatch.Entity{Type: "file", Name: "track10.mp3"}},
		},
		{
			name: "key with ctrl",
			in:   `{"kind":"key","key":"e","mods":{"ctrl":true}}`,
			want: dispatch.KeyPressEvent{Key: "e", Mods: dispatch.Modifiers{Ctrl: true}},
		},
		{
			name: "key without mods",
			in:   `{"kind":"key","key":"e"}`,
			want: dispatch.KeyPressEvent{Key: "e"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeEvent(strings.NewReader(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeEventErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
		msg     string
	}{
		{name: "unknown kind", in: `{"kind":"mouse"}`, wantErr: ErrUnknownKind},
		{name: "missing kind", in: `{}`, wantErr: ErrMissingField},
		{name: "command without args", in: `{"kind":"command"}`, wantErr: ErrMissingField},
		{name: "menu without target", in: `{"kind":"menu"}`, wantErr: ErrMissingField},
		{name: "key without key", in: `{"kind":"key","mods":{"ctrl":true}}`, wantErr: ErrMissingField},
		{name: "unknown field", in: `{"kind":"command","args":"x","extra":1}`, msg: "unknown field"},
		{name: "not json", in: `command mp3edit`, msg: "failed to decode event"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEvent(strings.NewReader(tt.in))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestEnvelopeForRoundTrip(t *testing.T) {
	evs := []dispatch.Event{
		dispatch.CommandEvent{Args: "metamusic"},
		dispatch.MenuQueryEvent{Target: dispatch.Entity{Type: "dir", Name: "album"}},
		dispatch.KeyPressEvent{Key: "e", Mods: dispatch.Modifiers{Ctrl: true, Alt: true}},
	}

	for _, ev := range evs {
		env, err := EnvelopeFor(ev)
		require.NoError(t, err)
		back, err := env.Event()
		require.NoError(t, err)
		assert.Equal(t, ev, back)
	}

	_, err := EnvelopeFor(nil)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestEncodeEventDecodes(t *testing.T) {
	env, err := EnvelopeFor(dispatch.KeyPressEvent{Key: "e", Mods: dispatch.Modifiers{Ctrl: true}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeEvent(&buf, env))
	assert.JSONEq(t, `{"kind":"key","key":"e","mods":{"ctrl":true}}`, buf.String())

	ev, err := DecodeEvent(&buf)
	require.NoError(t, err)
	assert.Equal(t, dispatch.KeyPressEvent{Key: "e", Mods: dispatch.Modifiers{Ctrl: true}}, ev)
}

func TestResultFor(t *testing.T) {
	t.Run("pass through", func(t *testing.T) {
		env := ResultFor(dispatch.Result{}, []string{"update"})
		assert.Equal(t, ResultEnvelope{}, env)

		var buf bytes.Buffer
		require.NoError(t, EncodeResult(&buf, env))
		assert.JSONEq(t, `{"handled":false}`, buf.String())
	})

	t.Run("launch", func(t *testing.T) {
		env := ResultFor(dispatch.Result{Outcome: dispatch.Handled}, []string{"update"})

		var buf bytes.Buffer
		require.NoError(t, EncodeResult(&buf, env))
		assert.JSONEq(t, `{"handled":true,"signals":["update"]}`, buf.String())
	})

	t.Run("menu", func(t *testing.T) {
		res := dispatch.Result{
			Outcome: dispatch.HandledWithMenu,
			Menu:    []dispatch.MenuEntry{{Label: "Edit MP3 Tags", CommandName: "metamusic"}},
		}

		var buf bytes.Buffer
		require.NoError(t, EncodeResult(&buf, ResultFor(res, nil)))
		assert.JSONEq(t, `{"handled":true,"menu":[{"label":"Edit MP3 Tags","command":"metamusic"}]}`, buf.String())
	})
}
