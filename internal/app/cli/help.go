package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type helpModel struct{}

func newHelpModel() helpModel {
	return helpModel{}
}

func (m helpModel) Init() tea.Cmd {
	return nil
}

func (m helpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m helpModel) View() string {
	usageSection := sectionHeader.Render("Usage:")
	usage := lipgloss.JoinVertical(
		lipgloss.Left,
		bodyMedium.Render("  "+commandName.Render("dishmanagerd run")+"                Supervise the antenna with the dashboard"),
		bodyMedium.Render("  "+commandName.Render("dishmanagerd run --no-ui")+"        Supervise without the dashboard"),
		bodyMedium.Render("  "+commandName.Render("dishmanagerd status")+"             Print a component-state snapshot"),
		bodyMedium.Render("  "+commandName.Render("dishmanagerd version")+"            Show version"),
	)

	examplesSection := sectionHeader.Render("Examples:")
	examples := lipgloss.JoinVertical(
		lipgloss.Left,
		bodyMedium.Render("  "+exampleCode.Render("dishmanagerd")+"                    Same as dishmanagerd run"),
		bodyMedium.Render("  "+exampleCode.Render("dishmanagerd status | less")+"      Page through the snapshot"),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		RenderTitle(),
		usageSection,
		usage,
		examplesSection,
		examples,
		RenderHelp(),
	) + "\n"
}
