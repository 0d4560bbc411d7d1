package manager

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/ska-mid/dish-manager-core/internal/app/aggregation"
	"github.com/ska-mid/dish-manager-core/internal/app/bus"
	"github.com/ska-mid/dish-manager-core/internal/app/commandmap"
	"github.com/ska-mid/dish-manager-core/internal/app/component"
	"github.com/ska-mid/dish-manager-core/internal/app/compstate"
	"github.com/ska-mid/dish-manager-core/internal/app/dishmode"
	"github.com/ska-mid/dish-manager-core/internal/app/tracker"
	"github.com/ska-mid/dish-manager-core/internal/config"
)

// recompute re-derives every rolled-up dish-level attribute from the
// children's current component state and wakes any fan-out waiting on an
// awaited predicate. Called from every child state-change and
// communication-state callback, and from SyncComponentStates.
func (m *manager) recompute() {
	snap := m.aggregationSnapshot()
	mode := aggregation.ComputeDishMode(snap)

	m.state.Set("dishmode", mode)
	m.state.Set("powerstate", aggregation.ComputePowerState(snap))
	m.state.Set("healthstate", aggregation.ComputeHealthState(snap))
	m.state.Set("dscerrorstatuses", aggregation.DSCErrorStatuses(snap))
	m.state.Set("pointingstate", derivePointingState(snap.DS))
	m.state.Set("configuredband", deriveConfiguredBand(snap.DS))

	for _, band := range aggregation.AllBands {
		key := strings.ToLower(string(band)) + "capabilitystate"
		m.state.Set(key, aggregation.ComputeCapabilityState(snap, band, mode))
	}

	windGust, meanWindSpeed := m.windAggregates()
	m.state.Set("windgust", windGust)
	m.state.Set("meanwindspeed", meanWindSpeed)

	if m.engine != nil {
		m.engine.NotifyStateChanged()
	}
}

// windAggregates reduces the WMS device-group down to its two published
// aggregates. config.DeviceConfig models one address per device, so the
// group is the single configured station; no other station's reading is
// included.
func (m *manager) windAggregates() (windGust, meanWindSpeed float64) {
	wms, ok := m.children[config.DeviceWMS]
	if !ok {
		return 0, 0
	}

	state := wms.ComponentState()

	entry, _ := state.Get("windspeed")
	speed, _ := entry.Value.(float64)

	reading := component.StationReading{
		WindSpeed: speed,
		Valid:     entry.Quality != compstate.QualityInvalid && wms.CommunicationState() == compstate.CommunicationEstablished,
	}

	return component.Reduce([]component.StationReading{reading})
}

func derivePointingState(ds map[string]compstate.Entry) aggregation.PointingState {
	e, ok := ds["pointingstate"]
	if !ok || e.Quality == compstate.QualityInvalid {
		return aggregation.PointingUnknown
	}

	switch s, _ := e.Value.(string); s {
	case "READY":
		return aggregation.PointingReady
	case "SLEW":
		return aggregation.PointingSlew
	case "TRACK":
		return aggregation.PointingTrack
	case "SCAN":
		return aggregation.PointingScan
	default:
		return aggregation.PointingUnknown
	}
}

// deriveConfiguredBand reads DS's indexerposition, which doubles as the
// configured-band indicator once settled on one of the six band values;
// MOVING or UNKNOWN means no band is currently configured.
func deriveConfiguredBand(ds map[string]compstate.Entry) aggregation.Band {
	e, ok := ds["indexerposition"]
	if !ok || e.Quality == compstate.QualityInvalid {
		return aggregation.BandUnknown
	}

	s, _ := e.Value.(string)

	for _, b := range aggregation.AllBands {
		if string(b) == s {
			return b
		}
	}

	return aggregation.BandUnknown
}

func (m *manager) aggregationSnapshot() aggregation.Snapshot {
	flags := m.props.Load()

	return aggregation.Snapshot{
		DS:    m.children[config.DeviceDS].ComponentState().Snapshot(),
		SPF:   m.children[config.DeviceSPF].ComponentState().Snapshot(),
		SPFRX: m.children[config.DeviceSPFRX].ComponentState().Snapshot(),
		B5DC:  m.children[config.DeviceB5DC].ComponentState().Snapshot(),

		DSConn:    m.children[config.DeviceDS].CommunicationState(),
		SPFConn:   m.children[config.DeviceSPF].CommunicationState(),
		SPFRXConn: m.children[config.DeviceSPFRX].CommunicationState(),
		B5DCConn:  m.children[config.DeviceB5DC].CommunicationState(),

		IgnoreSPF:   flags.IgnoreSPF,
		IgnoreSPFRX: flags.IgnoreSPFRX,
		IgnoreB5DC:  flags.IgnoreB5DC,

		InConfigureSequence: atomic.LoadInt32(&m.configuring) == 1,
	}
}

// commandSnapshot is the commandmap.SnapshotFunc the fan-out engine and
// the abort sequencer both read admissibility and completion decisions
// from.
func (m *manager) commandSnapshot() commandmap.Snapshot {
	ds := m.children[config.DeviceDS]
	dsState := ds.ComponentState()
	flags := m.props.Load()

	mode, _ := m.state.Value("dishmode").(dishmode.Mode)
	power, _ := m.state.Value("powerstate").(aggregation.PowerState)
	pointing, _ := m.state.Value("pointingstate").(aggregation.PointingState)
	band, _ := m.state.Value("configuredband").(aggregation.Band)

	achieved, _ := dsState.Value("achievedtargetlock").(bool)
	xel, _ := dsState.Value("actstaticoffsetvaluexel").(float64)
	el, _ := dsState.Value("actstaticoffsetvalueel").(float64)

	m.mu.Lock()
	scanID := m.scanID
	m.mu.Unlock()

	return commandmap.Snapshot{
		DishMode:       mode,
		PowerState:     power,
		PointingState:  pointing,
		ConfiguredBand: band,
		ScanID:         scanID,

		AchievedTargetLock: achieved,
		ActOffsetXel:       xel,
		ActOffsetEl:        el,

		DSConn:    ds.CommunicationState(),
		SPFConn:   m.children[config.DeviceSPF].CommunicationState(),
		SPFRXConn: m.children[config.DeviceSPFRX].CommunicationState(),

		IgnoreSPF:   flags.IgnoreSPF,
		IgnoreSPFRX: flags.IgnoreSPFRX,
	}
}

func (m *manager) setScanID(id string) {
	m.mu.Lock()
	m.scanID = id
	m.mu.Unlock()

	m.state.Set("scanid", id)
}

// publishStateChange re-emits a rolled-up attribute transition onto the bus
// using the event catalogue a client front-end subscribes to. Scalar
// attributes outside that catalogue (scanID, kValue, the ignore flags, ...)
// are available via GetComponentStates/SyncComponentStates but are not
// individually broadcast.
func (m *manager) publishStateChange(key string, _, new compstate.Entry) {
	switch {
	case key == "dishmode":
		m.bus.Publish(bus.Message{Type: bus.EventDishModeChanged, Data: bus.StateChanged{Attribute: key, Value: new.Value}})
	case key == "powerstate":
		m.bus.Publish(bus.Message{Type: bus.EventPowerStateChanged, Data: bus.StateChanged{Attribute: key, Value: new.Value}})
	case key == "healthstate":
		m.bus.Publish(bus.Message{Type: bus.EventHealthStateChanged, Data: bus.StateChanged{Attribute: key, Value: new.Value}})
	case key == "pointingstate":
		m.bus.Publish(bus.Message{Type: bus.EventPointingStateChanged, Data: bus.StateChanged{Attribute: key, Value: new.Value}})
	case key == "configuredband":
		m.bus.Publish(bus.Message{Type: bus.EventConfiguredBandChanged, Data: bus.StateChanged{Attribute: key, Value: new.Value}})
	case strings.HasSuffix(key, "capabilitystate"):
		m.bus.Publish(bus.Message{Type: bus.EventCapabilityChanged, Data: bus.StateChanged{Attribute: key, Value: new.Value}})
	case strings.HasSuffix(key, "connectionstate"):
		status, _ := new.Value.(compstate.CommunicationStatus)
		device := strings.TrimSuffix(key, "connectionstate")
		m.bus.Publish(bus.Message{Type: bus.EventConnectionChanged, Data: bus.ConnectionChanged{Device: device, Status: status.String()}})
	}
}

func (m *manager) publishLRCUpdate(rec tracker.Record) {
	code, msg := rec.Result()

	progress := rec.Progress()

	var last string
	if len(progress) > 0 {
		last = progress[len(progress)-1]
	}

	var evt bus.MessageType

	switch rec.GetStatus() {
	case tracker.StatusQueued:
		evt = bus.EventLRCQueued
	case tracker.StatusInProgress:
		evt = bus.EventLRCInProgress
	case tracker.StatusCompleted:
		evt = bus.EventLRCCompleted
	case tracker.StatusFailed:
		evt = bus.EventLRCFailed
	case tracker.StatusAborted:
		evt = bus.EventLRCAborted
	case tracker.StatusRejected:
		evt = bus.EventLRCRejected
	default:
		return
	}

	m.bus.Publish(bus.Message{Type: evt, Data: bus.LRCUpdate{
		ID:       rec.ID(),
		Name:     rec.Name(),
		Status:   rec.GetStatus().String(),
		Result:   code.String(),
		Message:  msg,
		Progress: last,
	}})
}

// onWatchdogExpired is the TMC-heartbeat watchdog callback: a missed
// heartbeat stows the dish and disarms itself, requiring a fresh
// tmcHeartbeatInterval write to rearm.
func (m *manager) onWatchdogExpired() {
	m.bus.Publish(bus.Message{Type: bus.EventWatchdogExpired, Critical: true})

	m.mu.Lock()
	m.hbInterval = 0
	m.hbLast = 0
	m.mu.Unlock()

	m.state.Set("tmcheartbeatinterval", 0.0)
	m.state.Set("tmclastheartbeat", 0.0)

	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultLRCTimeout)
	defer cancel()

	_, _ = m.SetStowMode(ctx)
}
