package browser

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattjoyce/mp3edit/internal/dispatch"
	"github.com/mattjoyce/mp3edit/internal/host"
)

// Run shows the browser until the user quits. While a tool runs the
// terminal belongs to the tool and the browser's event loop waits.
func Run(proc *host.Process, regs dispatch.Registrations, dir string) error {
	m := New(regs, proc, dir)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	// Not tea.ExecProcess: the launch goes through dispatch.Host, which must
	// return before the handler emits "update", so the terminal is handed
	// over from inside Launch instead.
	proc.BeforeLaunch = p.ReleaseTerminal
	proc.AfterLaunch = p.RestoreTerminal
	defer func() {
		proc.BeforeLaunch = nil
		proc.AfterLaunch = nil
	}()

	_, err := p.Run()
	return err
}
