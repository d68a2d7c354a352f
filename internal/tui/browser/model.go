// Package browser is a terminal directory browser that hosts the dispatcher:
// key presses, ":" commands and context-menu queries go through the
// registration table, and an "update" signal reloads the listing.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mattjoyce/mp3edit/internal/dispatch"
	"github.com/mattjoyce/mp3edit/internal/events"
	"github.com/mattjoyce/mp3edit/internal/log"
)

// Navigator is the part of the host the browser drives directly.
type Navigator interface {
	SetCwd(dir string)
	Hub() *events.Hub
}

type signalMsg events.Signal

// Model is the BubbleTea model for the browser.
type Model struct {
	regs dispatch.Registrations
	nav  Navigator

	dir  string
	list list.Model

	prompting bool
	input     textinput.Model

	menuOpen bool
	menu     []dispatch.MenuEntry
	menuIdx  int

	status    string
	lastError string

	signals <-chan events.Signal
	cancel  func()

	keys   keyMap
	theme  Theme
	logger *slog.Logger
	width  int
	height int
}

// New creates a browser rooted at dir.
func New(regs dispatch.Registrations, nav Navigator, dir string) Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false

	l := list.New(nil, delegate, 0, 0)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	in := textinput.New()
	in.Prompt = ":"
	in.Placeholder = "command"

	signals, cancel := nav.Hub().Subscribe(dispatch.SignalUpdate)

	m := Model{
		regs:    regs,
		nav:     nav,
		list:    l,
		input:   in,
		signals: signals,
		cancel:  cancel,
		keys:    defaultKeyMap(),
		theme:   NewDefaultTheme(),
		logger:  log.WithComponent("browser"),
	}
	m.chdir(dir)
	return m
}

// Close stops listening for host signals.
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Dir returns the directory being shown.
func (m Model) Dir() string { return m.dir }

func (m Model) Init() tea.Cmd {
	return waitForSignal(m.signals)
}

func waitForSignal(ch <-chan events.Signal) tea.Cmd {
	return func() tea.Msg {
		sig, ok := <-ch
		if !ok {
			return nil
		}
		return signalMsg(sig)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-4, 1))
		return m, nil

	case signalMsg:
		m.reload()
		return m, waitForSignal(m.signals)

	case tea.KeyMsg:
		switch {
		case m.prompting:
			return m.updatePrompt(msg)
		case m.menuOpen:
			return m.updateMenu(msg), nil
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Prompt):
		m.prompting = true
		m.input.SetValue("")
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Menu):
		m.openMenu()
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if it, ok := m.list.SelectedItem().(item); ok && it.dir {
			m.chdir(filepath.Join(m.dir, it.name))
			return m, nil
		}

	case key.Matches(msg, m.keys.Parent):
		m.chdir(filepath.Dir(m.dir))
		return m, nil
	}

	// Not a browser control: the dispatcher gets the first look.
	res := m.dispatch(keyEvent(msg))
	if res.Consumed() {
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.prompting = false
		m.input.Blur()
		return m, nil

	case msg.Type == tea.KeyEnter:
		text := m.input.Value()
		m.prompting = false
		m.input.Blur()
		if res := m.dispatch(dispatch.CommandEvent{Args: text}); !res.Consumed() && m.lastError == "" {
			m.status = fmt.Sprintf("unknown command: %s", text)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateMenu(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Menu):
		m.closeMenu()
	case key.Matches(msg, m.keys.Up):
		if m.menuIdx > 0 {
			m.menuIdx--
		}
	case key.Matches(msg, m.keys.Down):
		if m.menuIdx < len(m.menu)-1 {
			m.menuIdx++
		}
	case key.Matches(msg, m.keys.Open):
		entry := m.menu[m.menuIdx]
		m.closeMenu()
		m.dispatch(dispatch.CommandEvent{Args: entry.CommandName})
	}
	return m
}

func (m *Model) openMenu() {
	it, ok := m.list.SelectedItem().(item)
	if !ok {
		return
	}
	res := m.dispatch(dispatch.MenuQueryEvent{Target: it.entity()})
	if res.Outcome != dispatch.HandledWithMenu || len(res.Menu) == 0 {
		m.status = fmt.Sprintf("no actions for %s", it.name)
		return
	}
	m.menuOpen = true
	m.menu = res.Menu
	m.menuIdx = 0
}

func (m *Model) closeMenu() {
	m.menuOpen = false
	m.menu = nil
	m.menuIdx = 0
}

// dispatch runs ev through the registration table. It blocks while a
// launched tool runs.
func (m *Model) dispatch(ev dispatch.Event) dispatch.Result {
	res, err := m.regs.Dispatch(context.Background(), ev)
	if err != nil {
		m.lastError = err.Error()
		m.logger.Error("dispatch failed", "kind", ev.Kind(), "error", err)
		return res
	}
	m.lastError = ""
	if res.Outcome == dispatch.Handled {
		m.status = fmt.Sprintf("%s finished", dispatch.ToolName)
	}
	return res
}

func (m *Model) chdir(dir string) {
	m.dir = dir
	m.nav.SetCwd(dir)
	m.list.ResetSelected()
	m.reload()
}

func (m *Model) reload() {
	items, err := readEntries(m.dir)
	if err != nil {
		m.lastError = err.Error()
		items = nil
	}
	m.list.SetItems(items)
	m.list.Title = m.dir
}

func (m Model) View() string {
	header := m.theme.Title.Render("mp3edit") + " " + m.theme.Path.Render(m.dir)

	parts := []string{header, m.list.View()}

	if m.menuOpen {
		lines := make([]string, len(m.menu))
		for i, entry := range m.menu {
			if i == m.menuIdx {
				lines[i] = m.theme.MenuFocus.Render("> " + entry.Label)
			} else {
				lines[i] = m.theme.MenuItem.Render(entry.Label)
			}
		}
		parts = append(parts, m.theme.Menu.Render(strings.Join(lines, "\n")))
	}

	if m.prompting {
		parts = append(parts, m.input.View())
	}

	if m.lastError != "" {
		parts = append(parts, m.theme.Error.Render(" ⚠ "+m.lastError))
	} else if m.status != "" {
		parts = append(parts, m.theme.Status.Render(" "+m.status))
	}

	parts = append(parts, m.theme.Help.Render(" [q] Quit • [enter] Open • [h] Parent • [m] Menu • [:] Command • [ctrl+e] Edit tags"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
