package browser

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattjoyce/mp3edit/internal/dispatch"
)

// keyMap holds the browser's own controls. Everything else is offered to the
// dispatcher first.
type keyMap struct {
	Quit   key.Binding
	Prompt key.Binding
	Menu   key.Binding
	Open   key.Binding
	Parent key.Binding
	Cancel key.Binding
	Up     key.Binding
	Down   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Prompt: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Menu:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Parent: key.NewBinding(key.WithKeys("backspace", "h"), key.WithHelp("h", "parent")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Up:     key.NewBinding(key.WithKeys("up", "k")),
		Down:   key.NewBinding(key.WithKeys("down", "j")),
	}
}

// keyEvent converts a bubbletea key message into a dispatcher key press.
// Modifier prefixes ("ctrl+", "alt+", "shift+") may appear in any order.
func keyEvent(msg tea.KeyMsg) dispatch.KeyPressEvent {
	s := msg.String()
	var ev dispatch.KeyPressEvent
	for {
		switch {
		case strings.HasPrefix(s, "ctrl+") && len(s) > len("ctrl+"):
			ev.Mods.Ctrl = true
			s = strings.TrimPrefix(s, "ctrl+")
		case strings.HasPrefix(s, "alt+") && len(s) > len("alt+"):
			ev.Mods.Alt = true
			s = strings.TrimPrefix(s, "alt+")
		case strings.HasPrefix(s, "shift+") && len(s) > len("shift+"):
			ev.Mods.Shift = true
			s = strings.TrimPrefix(s, "shift+")
		default:
			ev.Key = s
			return ev
		}
	}
}
