package browser

import "github.com/charmbracelet/lipgloss"

// Theme centralizes all styling for the browser.
type Theme struct {
	Title     lipgloss.Style
	Path      lipgloss.Style
	Menu      lipgloss.Style
	MenuItem  lipgloss.Style
	MenuFocus lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
}

func NewDefaultTheme() Theme {
	purple := lipgloss.Color("#874BFD")

	return Theme{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(purple).
			Padding(0, 1),
		Path: lipgloss.NewStyle().Foreground(lipgloss.Color("#61AFEF")),
		Menu: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple).
			Padding(0, 1),
		MenuItem:  lipgloss.NewStyle().PaddingLeft(2),
		MenuFocus: lipgloss.NewStyle().Foreground(lipgloss.Color("170")),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
