package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles used to render the browser.
type Theme struct {
	TitleStyle         lipgloss.Style
	BorderStyle        lipgloss.Style
	PreviewBorderStyle lipgloss.Style
	NormalItemStyle    lipgloss.Style
	SelectedItemStyle  lipgloss.Style
	DirectoryStyle     lipgloss.Style
	FileStyle          lipgloss.Style
	PreviewStyle       lipgloss.Style
	StatusBarStyle     lipgloss.Style
	ErrorStyle         lipgloss.Style
	CommandStyle       lipgloss.Style
	HelpStyle          lipgloss.Style
}

func DefaultTheme() *Theme {
	accent := lipgloss.Color("#7D56F4")
	subtle := lipgloss.Color("#626262")

	return &Theme{
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(accent).
			Padding(0, 1),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent),
		PreviewBorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle),
		NormalItemStyle:   lipgloss.NewStyle(),
		SelectedItemStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(accent),
		DirectoryStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")),
		FileStyle:         lipgloss.NewStyle(),
		PreviewStyle:      lipgloss.NewStyle().Padding(0, 1),
		StatusBarStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#C1C6B2")).Background(lipgloss.Color("#353533")),
		ErrorStyle:        lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		CommandStyle:      lipgloss.NewStyle().Foreground(accent),
		HelpStyle:         lipgloss.NewStyle().Foreground(subtle),
	}
}
