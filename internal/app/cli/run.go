package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/ska-mid/dish-manager-core/internal/app/aggregation"
	"github.com/ska-mid/dish-manager-core/internal/app/bus"
	"github.com/ska-mid/dish-manager-core/internal/app/compstate"
	"github.com/ska-mid/dish-manager-core/internal/app/dishmode"
	"github.com/ska-mid/dish-manager-core/internal/config"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

const (
	headerHeight          = 2
	helpHeight            = 3
	attributesHeight      = 9
	viewportBorderPadding = 4
	maxEventLines         = 500

	uiTick = 100 * time.Millisecond
)

// devices in the order the dashboard lists them.
var dashboardDevices = []string{
	config.DeviceDS,
	config.DeviceSPF,
	config.DeviceSPFRX,
	config.DeviceB5DC,
	config.DeviceWMS,
}

// dashboardModel is the live TUI model for the run command.
type dashboardModel struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.Config
	log    logger.Logger
	dish   Dish

	events <-chan bus.Message

	spinner    spinner.Model
	eventVp    viewport.Model
	eventLines []string
	pulses     map[string]*Pulse

	width  int
	height int
	ready  bool
	err    error
}

func newDashboardModel(ctx context.Context, cfg *config.Config, event bus.Bus, dish Dish, log logger.Logger) dashboardModel {
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	width, height := initialSize()

	vp := viewport.New(width-viewportBorderPadding, eventPanelHeight(height))
	vp.Style = viewportStyle

	pulses := make(map[string]*Pulse, len(dashboardDevices))
	for _, dev := range dashboardDevices {
		pulses[dev] = NewPulse()
	}

	return dashboardModel{
		ctx:     ctx,
		cancel:  cancel,
		cfg:     cfg,
		log:     log,
		dish:    dish,
		events:  event.Subscribe(ctx),
		spinner: s,
		eventVp: vp,
		pulses:  pulses,
		width:   width,
		height:  height,
	}
}

// initialSize probes the terminal before the first WindowSizeMsg arrives so
// the first frame is not drawn at a guessed width.
func initialSize() (int, int) {
	width, height, err := term.GetSize(os.Stdout.Fd())
	if err != nil || width <= 0 {
		return 80, 24
	}

	return width, height
}

func eventPanelHeight(total int) int {
	h := total - headerHeight - attributesHeight - helpHeight
	if h < 5 {
		h = 5
	}

	return h
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.waitForEvent(),
		m.tick(),
		m.spinner.Tick,
		tea.WindowSize(),
	)
}

type busMsg bus.Message

type tickMsg time.Time

func (m dashboardModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.events
		if !ok {
			return nil
		}

		return busMsg(msg)
	}
}

func (m dashboardModel) tick() tea.Cmd {
	return tea.Tick(uiTick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancel()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.eventVp.Width = msg.Width - viewportBorderPadding
		m.eventVp.Height = eventPanelHeight(msg.Height)
		m.ready = true
	case busMsg:
		m.handleBusMessage(bus.Message(msg))
		cmds = append(cmds, m.waitForEvent())
	case tickMsg:
		for _, p := range m.pulses {
			p.Update()
		}

		cmds = append(cmds, m.tick())
	}

	var spinnerCmd tea.Cmd
	m.spinner, spinnerCmd = m.spinner.Update(msg)
	if spinnerCmd != nil {
		cmds = append(cmds, spinnerCmd)
	}

	var vpCmd tea.Cmd
	m.eventVp, vpCmd = m.eventVp.Update(msg)
	if vpCmd != nil {
		cmds = append(cmds, vpCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *dashboardModel) handleBusMessage(msg bus.Message) {
	line := formatBusMessage(msg)
	if line != "" {
		m.eventLines = append(m.eventLines, line)
		if len(m.eventLines) > maxEventLines {
			m.eventLines = m.eventLines[len(m.eventLines)-maxEventLines:]
		}

		atBottom := m.eventVp.AtBottom()
		m.eventVp.SetContent(strings.Join(m.eventLines, "\n"))

		if atBottom {
			m.eventVp.GotoBottom()
		}
	}

	if conn, ok := msg.Data.(bus.ConnectionChanged); ok {
		if p, found := m.pulses[conn.Device]; found {
			p.Trigger()
		}
	}
}

func formatBusMessage(msg bus.Message) string {
	stamp := dimmedStyle.Render(msg.Timestamp.Format("15:04:05"))

	switch data := msg.Data.(type) {
	case bus.StateChanged:
		return fmt.Sprintf("%s %s → %v", stamp, data.Attribute, data.Value)
	case bus.ConnectionChanged:
		return fmt.Sprintf("%s %s connection → %s", stamp, data.Device, data.Status)
	case bus.LRCUpdate:
		if data.Progress != "" {
			return fmt.Sprintf("%s [%s] %s: %s", stamp, data.Status, data.Name, data.Progress)
		}

		return fmt.Sprintf("%s [%s] %s %s", stamp, data.Status, data.Name, data.Message)
	default:
		switch msg.Type {
		case bus.EventWatchdogExpired:
			return stamp + " " + stateErrStyle.Render("supervisor heartbeat lost, stowing")
		case bus.EventHeartbeatReceived:
			return stamp + " supervisor heartbeat received"
		default:
			return ""
		}
	}
}

func (m dashboardModel) View() string {
	header := RenderTitle()
	attrs := m.renderAttributes()
	connections := m.renderConnections()
	events := m.eventVp.View()
	help := RenderHelp()

	return lipgloss.JoinVertical(lipgloss.Left, header, attrs, connections, events, help)
}

// renderAttributes draws the rolled-up observables row by row.
func (m dashboardModel) renderAttributes() string {
	mode := m.dish.DishMode()
	busy := len(m.dish.LongRunningCommandsInQueue()) > 0

	modeCell := styleForMode(mode).Render(string(mode))
	if busy {
		modeCell += " " + m.spinner.View()
	}

	rows := []string{
		attrRow("dishMode", modeCell),
		attrRow("powerState", string(m.dish.PowerState())),
		attrRow("healthState", styleForHealth(m.dish.HealthState()).Render(string(m.dish.HealthState()))),
		attrRow("pointingState", string(m.dish.PointingState())),
		attrRow("configuredBand", string(m.dish.ConfiguredBand())),
		attrRow("capabilities", m.renderCapabilities()),
		attrRow("dscErrorStatuses", m.dish.DSCErrorStatuses()),
		attrRow("wind", fmt.Sprintf("gust %.1f m/s  mean %.1f m/s", m.dish.WindGust(), m.dish.MeanWindSpeed())),
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func attrRow(label, value string) string {
	return attrLabelStyle.Render(fmt.Sprintf("%-18s", label)) + value
}

func (m dashboardModel) renderCapabilities() string {
	parts := make([]string, 0, len(aggregation.AllBands))

	for _, band := range aggregation.AllBands {
		cs := m.dish.CapabilityState(band)
		parts = append(parts, fmt.Sprintf("%s:%s", band, shortCapability(cs)))
	}

	return strings.Join(parts, "  ")
}

func shortCapability(cs aggregation.CapabilityState) string {
	switch cs {
	case aggregation.CapabilityOperateFull:
		return stateOKStyle.Render("FULL")
	case aggregation.CapabilityOperateDegraded:
		return stateWarnStyle.Render("DEGR")
	case aggregation.CapabilityConfiguring:
		return stateWarnStyle.Render("CONF")
	case aggregation.CapabilityStandby:
		return stateIdleStyle.Render("STBY")
	case aggregation.CapabilityUnavailable:
		return stateErrStyle.Render("UNAV")
	default:
		return dimmedStyle.Render("?")
	}
}

// renderConnections draws one pulse-marker per child with its link state.
func (m dashboardModel) renderConnections() string {
	cells := make([]string, 0, len(dashboardDevices))

	for _, dev := range dashboardDevices {
		status := m.dish.ConnectionState(dev)
		style := styleForConnection(status)
		cells = append(cells, m.pulses[dev].Render(style)+" "+style.Render(strings.ToUpper(dev)))
	}

	return "  " + strings.Join(cells, "   ")
}

func styleForConnection(status compstate.CommunicationStatus) lipgloss.Style {
	switch status {
	case compstate.CommunicationEstablished:
		return connectedStyle
	case compstate.CommunicationNotEstablished:
		return connectingStyle
	default:
		return disabledStyle
	}
}

func styleForMode(mode dishmode.Mode) lipgloss.Style {
	switch mode {
	case dishmode.Operate:
		return stateOKStyle
	case dishmode.Stow, dishmode.Maintenance:
		return stateWarnStyle
	case dishmode.Unknown:
		return stateErrStyle
	default:
		return stateIdleStyle
	}
}

func styleForHealth(hs aggregation.HealthState) lipgloss.Style {
	switch hs {
	case aggregation.HealthOK:
		return stateOKStyle
	case aggregation.HealthDegraded:
		return stateWarnStyle
	default:
		return stateErrStyle
	}
}
