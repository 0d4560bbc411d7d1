package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ska-mid/dish-manager-core/internal/app/bus"
	"github.com/ska-mid/dish-manager-core/internal/config"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

type viewType int

const (
	helpView viewType = iota
	dashboardView
)

// TUI drives the terminal front-end: the static help screen and the live
// dashboard rendering the rolled-up dish state.
type TUI interface {
	Help() error
	Run(ctx context.Context, dish Dish) error
}

type tui struct {
	cfg   *config.Config
	event bus.Bus
	log   logger.Logger
}

// NewTUI creates a TUI fed by the event bus.
func NewTUI(cfg *config.Config, event bus.Bus, log logger.Logger) TUI {
	return &tui{
		cfg:   cfg,
		event: event,
		log:   log,
	}
}

type rootModel struct {
	activeView tea.Model
	viewType   viewType
}

func newRootModel(vt viewType, active tea.Model) rootModel {
	return rootModel{viewType: vt, activeView: active}
}

func (m rootModel) Init() tea.Cmd {
	if m.activeView != nil {
		return m.activeView.Init()
	}
	return nil
}

func (m rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	if m.activeView != nil {
		var cmd tea.Cmd
		m.activeView, cmd = m.activeView.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m rootModel) View() string {
	if m.activeView != nil {
		return m.activeView.View()
	}
	return ""
}

func (t *tui) Help() error {
	p := tea.NewProgram(newRootModel(helpView, newHelpModel()))
	_, err := p.Run()

	return err
}

func (t *tui) Run(ctx context.Context, dish Dish) error {
	model := newDashboardModel(ctx, t.cfg, t.event, dish, t.log)

	p := tea.NewProgram(
		newRootModel(dashboardView, model),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()

	return err
}
