// Package manager is the Dish Manager component manager: it binds the
// proxy, monitor, tracker, scheduler, watchdog, aggregation, command-map
// and abort layers together, owns the rolled-up component-state mapping,
// and exposes the command handlers and attribute accessors an external
// service front-end would call.
package manager

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ska-mid/dish-manager-core/internal/app/abort"
	"github.com/ska-mid/dish-manager-core/internal/app/aggregation"
	"github.com/ska-mid/dish-manager-core/internal/app/bus"
	"github.com/ska-mid/dish-manager-core/internal/app/commandmap"
	"github.com/ska-mid/dish-manager-core/internal/app/component"
	"github.com/ska-mid/dish-manager-core/internal/app/compstate"
	"github.com/ska-mid/dish-manager-core/internal/app/devicemonitor"
	"github.com/ska-mid/dish-manager-core/internal/app/dishmode"
	"github.com/ska-mid/dish-manager-core/internal/app/properties"
	"github.com/ska-mid/dish-manager-core/internal/app/proxy"
	"github.com/ska-mid/dish-manager-core/internal/app/rpc"
	"github.com/ska-mid/dish-manager-core/internal/app/scheduler"
	"github.com/ska-mid/dish-manager-core/internal/app/tracker"
	"github.com/ska-mid/dish-manager-core/internal/app/watchdog"
	"github.com/ska-mid/dish-manager-core/internal/config"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// Manager is the Go API a device-protocol front-end calls: the command
// handlers plus the attribute surface, minus the wire-level marshalling the
// front-end itself owns.
type Manager interface {
	StartCommunicating(ctx context.Context)
	StopCommunicating()

	SetStandbyLPMode(ctx context.Context) (rpc.ResultCode, string)
	SetStandbyFPMode(ctx context.Context) (rpc.ResultCode, string)
	SetOperateMode(ctx context.Context) (rpc.ResultCode, string)
	SetStowMode(ctx context.Context) (rpc.ResultCode, string)
	SetMaintenanceMode(ctx context.Context) (rpc.ResultCode, string)
	ConfigureBand(ctx context.Context, band aggregation.Band) (rpc.ResultCode, string)
	Track(ctx context.Context) (rpc.ResultCode, string)
	TrackStop(ctx context.Context) (rpc.ResultCode, string)
	Slew(ctx context.Context, azEl []float64) (rpc.ResultCode, string)
	Scan(ctx context.Context, id string) (rpc.ResultCode, string)
	EndScan(ctx context.Context) (rpc.ResultCode, string)
	TrackLoadStaticOff(ctx context.Context, xelEl []float64) (rpc.ResultCode, string)
	ResetTrackTable(ctx context.Context) (rpc.ResultCode, string)
	SetKValue(ctx context.Context, k int) (rpc.ResultCode, string)
	ApplyPointingModel(ctx context.Context, payload []byte) (rpc.ResultCode, string)
	Abort(ctx context.Context) (rpc.ResultCode, string)
	AbortCommands(ctx context.Context) (rpc.ResultCode, string)
	TMCHeartbeat() (rpc.ResultCode, string)
	SyncComponentStates(ctx context.Context)
	GetComponentStates() map[string]map[string]compstate.Entry

	DishMode() dishmode.Mode
	PowerState() aggregation.PowerState
	HealthState() aggregation.HealthState
	PointingState() aggregation.PointingState
	ConfiguredBand() aggregation.Band
	CapabilityState(band aggregation.Band) aggregation.CapabilityState
	DSCErrorStatuses() string
	ConnectionState(device string) compstate.CommunicationStatus
	ScanID() string
	KValue() int

	IgnoreSPF() bool
	SetIgnoreSPF(ignore bool) error
	IgnoreSPFRX() bool
	SetIgnoreSPFRX(ignore bool) error
	IgnoreB5DC() bool
	SetIgnoreB5DC(ignore bool) error

	DscPowerLimitKW() float64
	SetDscPowerLimitKW(ctx context.Context, kw float64) error
	TrackInterpolationMode() string
	SetTrackInterpolationMode(ctx context.Context, mode string) error
	ProgramTrackTable() []float64
	SetProgramTrackTable(ctx context.Context, table []float64) error
	BandPointingModelParams(band aggregation.Band) []float64
	SetBandPointingModelParams(ctx context.Context, band aggregation.Band, params []float64) error

	TMCHeartbeatInterval() float64
	SetTMCHeartbeatInterval(seconds float64) error
	TMCLastHeartbeat() float64

	ActStaticOffsetValueXel() float64
	ActStaticOffsetValueEl() float64
	SPFRXAttenuations() []float64
	NoiseDiodeMode() string
	NoiseDiodePeriod() float64
	NoiseDiodeDutyCycle() float64

	Capturing() bool
	AchievedPointing() [3]float64
	AchievedPointingAz() [2]float64
	AchievedPointingEl() [2]float64
	DesiredPointingAz() [2]float64
	DesiredPointingEl() [2]float64
	WindGust() float64
	MeanWindSpeed() float64

	LastCommandedMode() (tai string, name string)
	LastCommandedPointingParams() interface{}
	LastCommandInvoked() string

	LongRunningCommandsInQueue() []string
	LongRunningCommandIDsInQueue() []string
	LongRunningCommandStatus() []string
	LongRunningCommandProgress() []string
	LongRunningCommandResult() []string
}

type manager struct {
	cfg *config.Config
	log logger.Logger
	bus bus.Bus

	proxies  proxy.Manager
	monitors map[string]devicemonitor.Monitor
	children map[string]component.Manager

	trk      tracker.Tracker
	graph    *dishmode.Graph
	engine   *commandmap.Engine
	abortSeq *abort.Sequencer
	sched    scheduler.Scheduler
	wd       watchdog.Watchdog
	props    properties.Store

	state *compstate.Map

	mu            sync.Mutex
	scanID        string
	kValue        int
	hbInterval    float64
	hbLast        float64
	configuring   int32
	communicating bool

	lastModeTAI    string
	lastModeName   string
	lastParams     interface{}
	lastInvoked    string
	lastResultID   string
	lastResultCode string
}

// New builds a Manager wired against cfg, dialing children through the
// supplied proxy manager (a real transport in production,
// rpc.NewSimulatedDialer behind proxies in tests/dev).
func New(cfg *config.Config, log logger.Logger, eventBus bus.Bus, proxies proxy.Manager, sched scheduler.Scheduler, trk tracker.Tracker) (Manager, error) {
	props, err := properties.New(cfg.PropertyStorePath, log)
	if err != nil {
		return nil, err
	}

	monitors := map[string]devicemonitor.Monitor{
		config.DeviceDS:    devicemonitor.New(proxies, log.WithComponent("DS-MONITOR")),
		config.DeviceSPF:   devicemonitor.New(proxies, log.WithComponent("SPF-MONITOR")),
		config.DeviceSPFRX: devicemonitor.New(proxies, log.WithComponent("SPFRX-MONITOR")),
		config.DeviceB5DC:  devicemonitor.New(proxies, log.WithComponent("B5DC-MONITOR")),
		config.DeviceWMS:   devicemonitor.New(proxies, log.WithComponent("WMS-MONITOR")),
	}

	children := map[string]component.Manager{
		config.DeviceDS: component.New(component.NewDSICD(), cfg.Devices[config.DeviceDS].Address,
			proxies, monitors[config.DeviceDS], log.WithComponent("DS")),
		config.DeviceSPF: component.New(component.NewSPFICD(), cfg.Devices[config.DeviceSPF].Address,
			proxies, monitors[config.DeviceSPF], log.WithComponent("SPF")),
		config.DeviceSPFRX: component.NewSPFRX(component.NewSPFRXICD(), cfg.Devices[config.DeviceSPFRX].Address,
			proxies, monitors[config.DeviceSPFRX], sched, log.WithComponent("SPFRX")),
		config.DeviceB5DC: component.New(component.NewB5DCICD(), cfg.Devices[config.DeviceB5DC].Address,
			proxies, monitors[config.DeviceB5DC], log.WithComponent("B5DC")),
		config.DeviceWMS: component.New(component.NewWMSICD(), cfg.Devices[config.DeviceWMS].Address,
			proxies, monitors[config.DeviceWMS], log.WithComponent("WMS")),
	}

	flags := props.Load()

	m := &manager{
		cfg:      cfg,
		log:      log,
		bus:      eventBus,
		proxies:  proxies,
		monitors: monitors,
		children: children,
		trk:      trk,
		graph:    dishmode.NewGraph(),
		sched:    sched,
		props:    props,
		state:    compstate.New(),
	}

	m.state.Set("ignorespf", flags.IgnoreSPF)
	m.state.Set("ignorespfrx", flags.IgnoreSPFRX)
	m.state.Set("ignoreb5dc", flags.IgnoreB5DC)

	m.wd = watchdog.New(m.onWatchdogExpired)
	m.state.OnChange(m.publishStateChange)

	props.OnChange(func(f properties.Flags) {
		m.state.Set("ignorespf", f.IgnoreSPF)
		m.state.Set("ignorespfrx", f.IgnoreSPFRX)
		m.state.Set("ignoreb5dc", f.IgnoreB5DC)
		m.recompute()
	})

	m.engine = commandmap.New(m.graph, m.trk, commandmap.Children{
		DS:    children[config.DeviceDS],
		SPF:   children[config.DeviceSPF],
		SPFRX: children[config.DeviceSPFRX],
	}, commandmap.Hooks{
		SetScanID:              m.setScanID,
		BeginConfigureSequence: func() { atomic.StoreInt32(&m.configuring, 1); m.recompute() },
		EndConfigureSequence:   func() { atomic.StoreInt32(&m.configuring, 0); m.recompute() },
	}, m.commandSnapshot, cfg.LRC.Timeout, log.WithComponent("COMMANDMAP"))

	m.abortSeq = abort.New(m.engine, children[config.DeviceDS], m.commandSnapshot, m.trk, log.WithComponent("ABORT"))

	m.trk.OnUpdate(m.publishLRCUpdate)

	for name, child := range children {
		device := name
		child.SetStateChangeCallback(func(string, compstate.Entry, compstate.Entry) { m.recompute() })
		child.OnCommunicationStateChange(func(status compstate.CommunicationStatus) {
			m.state.Set(device+"connectionstate", status)
			m.recompute()
		})
		child.OnBuildState(func(buildstate string) {
			m.state.Set(device+"buildstate", buildstate)
		})
	}

	return m, nil
}

func (m *manager) StartCommunicating(ctx context.Context) {
	m.mu.Lock()
	if m.communicating {
		m.mu.Unlock()
		return
	}
	m.communicating = true
	interval := m.hbInterval
	m.mu.Unlock()

	m.engine.ResetAbort()

	for _, child := range m.children {
		child.StartCommunicating(ctx)
	}

	if interval > 0 {
		_ = m.wd.Enable(secondsToDuration(interval))
	}

	m.recompute()
}

// StopCommunicating tears down every long-lived child goroutine and rejects
// new commands until the next StartCommunicating.
func (m *manager) StopCommunicating() {
	m.mu.Lock()
	m.communicating = false
	m.mu.Unlock()

	m.wd.Disable()
	m.engine.TriggerAbort()

	for _, child := range m.children {
		child.StopCommunicating()
	}
}

func (m *manager) GetComponentStates() map[string]map[string]compstate.Entry {
	out := make(map[string]map[string]compstate.Entry, len(m.children)+1)

	for name, child := range m.children {
		out[name] = child.ComponentState().Snapshot()
	}

	out["dish"] = m.state.Snapshot()

	return out
}

// SyncComponentStates refreshes every child's component state directly from
// its monitored attributes (a proxy re-read, not just a recomputation over
// the cache), then re-derives the rolled-up attributes.
func (m *manager) SyncComponentStates(ctx context.Context) {
	for name, child := range m.children {
		if err := child.RefreshState(ctx); err != nil && m.log != nil {
			m.log.Warn().Err(err).Str("device", name).Msg("component state refresh failed")
		}
	}

	m.recompute()
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
