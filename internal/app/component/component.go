// Package component is the sub-component manager layer: one instance per
// child (DS, SPF, SPFRX, B5DC, WMS) wrapping proxy.Manager and
// devicemonitor.Monitor into a typed component-state mapping, command
// execution, and attribute writes.
package component

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ska-mid/dish-manager-core/internal/app/compstate"
	"github.com/ska-mid/dish-manager-core/internal/app/devicemonitor"
	"github.com/ska-mid/dish-manager-core/internal/app/proxy"
	"github.com/ska-mid/dish-manager-core/internal/app/rpc"
	"github.com/ska-mid/dish-manager-core/internal/app/scheduler"
	"github.com/ska-mid/dish-manager-core/internal/app/tracker"
	"github.com/ska-mid/dish-manager-core/internal/config"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// Manager is the capability set every sub-component manager shares :
// {start_communicating, stop_communicating, execute_command,
// write_attribute_value, component_state, set_state_change_callback}.
type Manager interface {
	StartCommunicating(ctx context.Context)
	StopCommunicating()
	ExecuteCommand(ctx context.Context, name string, arg interface{}) (tracker.TaskStatus, string)
	WriteAttributeValue(ctx context.Context, name string, value interface{}) error
	// RefreshState re-reads every monitored attribute directly from the
	// device and commits the values, bypassing the subscription stream.
	RefreshState(ctx context.Context) error
	ComponentState() *compstate.Map
	CommunicationState() compstate.CommunicationStatus
	SetStateChangeCallback(fn compstate.ChangeFunc)
	// OnBuildState registers a callback invoked once per new ESTABLISHED edge
	// with the child's buildstate value, used by the Dish Manager to collect
	// release info.
	OnBuildState(fn func(buildstate string))
	// OnCommunicationStateChange registers a callback invoked whenever this
	// child's CommunicationState transitions, used by the Dish Manager to
	// mirror the synthetic "{name}ConnectionState" key onto the rolled-up
	// parent map.
	OnCommunicationStateChange(fn func(status compstate.CommunicationStatus))
}

type manager struct {
	icd     ICD
	address string
	proxies proxy.Manager
	monitor devicemonitor.Monitor
	log     logger.Logger

	state *compstate.Map

	mu                 sync.Mutex
	commState          compstate.CommunicationStatus
	cancel             context.CancelFunc
	buildStateReported bool
	onBuildState       func(string)
	onCommStateChange  func(compstate.CommunicationStatus)

	// sched is non-nil only for the SPFRX manager: a 30s MonitorPing is
	// scheduled while communication is sought and cancelled on stop.
	sched         scheduler.Scheduler
	pingTaskName  string
	monitorPingOn int32
}

// New creates a sub-component Manager for one child device. Every schema
// attribute is pre-populated with its unknown sentinel, marked INVALID,
// so readers see a fully defined mapping before the first event arrives.
func New(icd ICD, address string, proxies proxy.Manager, monitor devicemonitor.Monitor, log logger.Logger) Manager {
	state := compstate.New()

	for _, attr := range icd.Attributes() {
		state.SetWithQuality(attr, icd.Translate(attr, nil), compstate.QualityInvalid)
	}

	return &manager{
		icd:       icd,
		address:   address,
		proxies:   proxies,
		monitor:   monitor,
		log:       log,
		state:     state,
		commState: compstate.CommunicationDisabled,
	}
}

// NewSPFRX creates the SPFRX sub-component manager, which additionally
// schedules a MonitorPing keep-alive through sched while communication is
// being established.
func NewSPFRX(icd ICD, address string, proxies proxy.Manager, monitor devicemonitor.Monitor, sched scheduler.Scheduler, log logger.Logger) Manager {
	m := New(icd, address, proxies, monitor, log).(*manager)
	m.sched = sched
	m.pingTaskName = "spfrx-monitor-ping"

	return m
}

func (m *manager) StartCommunicating(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	m.setCommState(compstate.CommunicationNotEstablished)

	if m.sched != nil && atomic.CompareAndSwapInt32(&m.monitorPingOn, 0, 1) {
		m.sched.Submit(m.pingTaskName, config.SPFRXMonitorPingPeriod, func() {
			_, _ = m.proxies.Command(runCtx, m.address, "MonitorPing", nil)
		})
	}

	m.monitor.OnConnectivity(func(established bool) {
		if established {
			m.setCommState(compstate.CommunicationEstablished)
		} else {
			m.setCommState(compstate.CommunicationNotEstablished)
		}
	})

	sink := m.monitor.Start(runCtx, m.address, m.icd.Attributes())

	go m.consume(runCtx, sink)
}

func (m *manager) StopCommunicating() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	m.monitor.Stop()

	if m.sched != nil && atomic.CompareAndSwapInt32(&m.monitorPingOn, 1, 0) {
		m.sched.Remove(m.pingTaskName)
	}

	m.setCommState(compstate.CommunicationDisabled)
	m.state.InvalidateAll()
}

func (m *manager) consume(ctx context.Context, sink <-chan devicemonitor.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sink:
			if !ok {
				return
			}

			m.handle(ev)
		}
	}
}

func (m *manager) handle(ev devicemonitor.Event) {
	m.setCommState(compstate.CommunicationEstablished)

	typed := m.icd.Translate(ev.Attribute, ev.Value)

	quality := ev.Quality
	if ev.ErrorFlag {
		quality = compstate.QualityInvalid
	}

	m.state.SetWithQuality(ev.Attribute, typed, quality)

	if ev.Attribute == "buildstate" && quality == compstate.QualityValid {
		m.reportBuildState(typed)
	}
}

func (m *manager) reportBuildState(value interface{}) {
	m.mu.Lock()
	if m.buildStateReported {
		m.mu.Unlock()
		return
	}

	m.buildStateReported = true
	cb := m.onBuildState
	m.mu.Unlock()

	if cb == nil {
		return
	}

	if s, ok := value.(string); ok {
		cb(s)
	}
}

func (m *manager) setCommState(next compstate.CommunicationStatus) {
	m.mu.Lock()
	prev := m.commState
	m.commState = next

	if next == compstate.CommunicationEstablished && prev != compstate.CommunicationEstablished {
		m.buildStateReported = false
	}

	cb := m.onCommStateChange
	m.mu.Unlock()

	if prev == next {
		return
	}

	if next == compstate.CommunicationNotEstablished || next == compstate.CommunicationDisabled {
		m.state.InvalidateAll()
	}

	if cb != nil {
		cb(next)
	}
}

func (m *manager) CommunicationState() compstate.CommunicationStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.commState
}

// ExecuteCommand rejects outright if communication is not ESTABLISHED,
// otherwise issues the command and maps the remote reply/error to a
// TaskStatus.
func (m *manager) ExecuteCommand(ctx context.Context, name string, arg interface{}) (tracker.TaskStatus, string) {
	if m.CommunicationState() != compstate.CommunicationEstablished {
		return tracker.StatusRejected, m.icd.Name() + " communication is not established"
	}

	reply, err := m.proxies.Command(ctx, m.address, name, arg)
	if err != nil {
		return tracker.StatusFailed, err.Error()
	}

	if reply.Code == rpc.ResultFailed {
		return tracker.StatusFailed, reply.Message
	}

	return tracker.StatusInProgress, reply.Message
}

// RefreshState pulls the current value of every schema attribute from the
// device in one read, committing each through the same translation path a
// subscription event takes.
func (m *manager) RefreshState(ctx context.Context) error {
	dev, err := m.proxies.Get(ctx, m.address)
	if err != nil {
		return err
	}

	values, err := dev.ReadAttributes(ctx, m.icd.Attributes())
	if err != nil {
		return err
	}

	for name, value := range values {
		quality := compstate.QualityValid
		if value == nil {
			quality = compstate.QualityInvalid
		}

		if s, ok := value.(string); ok && s == "UNKNOWN" {
			quality = compstate.QualityInvalid
		}

		m.state.SetWithQuality(name, m.icd.Translate(name, value), quality)
	}

	return nil
}

func (m *manager) WriteAttributeValue(ctx context.Context, name string, value interface{}) error {
	dev, err := m.proxies.Get(ctx, m.address)
	if err != nil {
		return err
	}

	return dev.WriteAttribute(ctx, name, value)
}

func (m *manager) ComponentState() *compstate.Map { return m.state }

func (m *manager) SetStateChangeCallback(fn compstate.ChangeFunc) {
	m.state.OnChange(fn)
}

func (m *manager) OnBuildState(fn func(string)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onBuildState = fn
}

func (m *manager) OnCommunicationStateChange(fn func(compstate.CommunicationStatus)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onCommStateChange = fn
}
