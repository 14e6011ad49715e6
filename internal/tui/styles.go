package tui

import (
	"github.com/charmbracelet/lipgloss"

	"launchpad/internal/config"
)

var (
	// Main application frame
	App = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Padding(0, 1)

	// Title bar
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4F4FB7")).
			Padding(0, 1)

	// Breadcrumb showing the current tree position
	PathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#81A1C1")).
			Bold(true)

	// Status line for info messages
	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#959595"))

	// Error style for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))

	// Success style for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	// Highlighted list entry
	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4F4FB7"))

	// Folder entries
	FolderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#81A1C1")).
			Bold(true)

	// Invokable entries
	ActionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	// Entries whose activation check failed
	InactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Italic(true)

	// Marker appended to inactive entries
	InactiveMarker = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Render(" (inactive)")

	// Info pane showing the highlighted entry's description
	InfoStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Padding(0, 1)

	// Help line at the bottom
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	// Prompt question rendered above the input
	PromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD75F")).
			Bold(true)
)

// ApplyTheme recolors the shared styles from the configured theme.
func ApplyTheme(cfg *config.Config) {
	if cfg == nil || cfg.Theme.Primary == "" {
		return
	}
	TitleStyle = TitleStyle.Background(lipgloss.Color(cfg.Theme.Primary))
	SelectedStyle = SelectedStyle.Background(lipgloss.Color(cfg.Theme.Primary))
	PathStyle = PathStyle.Foreground(lipgloss.Color(cfg.Theme.Info))
	FolderStyle = FolderStyle.Foreground(lipgloss.Color(cfg.Theme.Info))
	ErrorStyle = ErrorStyle.Foreground(lipgloss.Color(cfg.Theme.Error))
	SuccessStyle = SuccessStyle.Foreground(lipgloss.Color(cfg.Theme.Success))
	InfoStyle = InfoStyle.BorderForeground(lipgloss.Color(cfg.Theme.Border))
	App = App.BorderForeground(lipgloss.Color(cfg.Theme.Border))
}
