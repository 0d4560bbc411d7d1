package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ska-mid/dish-manager-core/internal/config"
)

// Headline - High-emphasis text for section headers
var (
	headlineLarge = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).MarginTop(1)
)

// Title - Medium-emphasis text for titles and subtitles
var (
	titleMedium = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
)

// Body - Main content text
var (
	bodyLarge  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0E0E0"))
	bodyMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0E0E0"))
)

// Label - Small text for labels, captions, and supplementary content
var (
	labelLarge = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E")).Italic(true).MarginTop(2)
)

// Semantic styles
var (
	sectionHeader = headlineLarge.MarginBottom(1)
	helpText      = labelLarge

	commandName = titleMedium
	exampleCode = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFA726"))

	appNameStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	appVersionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#BDBDBD"))
	titleWrapper    = lipgloss.NewStyle().MarginTop(1).MarginBottom(1)

	attrLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E"))
	dimmedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	viewportStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			PaddingLeft(1).
			PaddingRight(1)
)

// Per-state styles for rolled-up observables and child links.
var (
	stateOKStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	stateWarnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFA726"))
	stateErrStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF5350"))
	stateIdleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#BDBDBD"))
	connectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	connectingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA726"))
	disabledStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// RenderTitle renders the app title block with name and version
func RenderTitle() string {
	title := titleWrapper.Render(
		appNameStyle.Render(config.AppName) + appVersionStyle.Render(" v"+config.Version),
	)
	description := bodyLarge.Render("Single-antenna supervisory controller")

	return lipgloss.JoinVertical(lipgloss.Left, title, description)
}

func RenderHelp() string {
	return helpText.Render("Press q or esc to exit")
}
