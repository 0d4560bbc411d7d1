// Package devicemonitor is the device monitor: it obtains a handle from
// the proxy layer, subscribes to a named set of remote attributes, and
// republishes every inbound change as an Event into a bounded sink queue,
// transparently resubscribing whenever the underlying subscription drops.
package devicemonitor

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ska-mid/dish-manager-core/internal/app/compstate"
	"github.com/ska-mid/dish-manager-core/internal/app/crash"
	"github.com/ska-mid/dish-manager-core/internal/app/proxy"
	"github.com/ska-mid/dish-manager-core/internal/app/rpc"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// Event is one attribute update delivered to a monitor's sink.
type Event struct {
	Attribute string
	Value     interface{}
	Quality   compstate.Quality
	ErrorFlag bool
}

// Monitor watches a fixed set of attributes on one device.
type Monitor interface {
	// Start begins the subscribe/resubscribe loop and returns the sink channel
	// events are delivered on. Calling Start twice is a no-op and returns the
	// existing sink.
	Start(ctx context.Context, address string, attributes []string) <-chan Event
	// Stop tears down the monitor; the sink channel is closed.
	Stop()
	// RunCount reports how many (re)subscribe cycles have occurred,
	// observability-only.
	RunCount() int
	// Dropped reports how many sink events were discarded for overflow.
	Dropped() int
	// OnConnectivity registers a callback fired true on every successful
	// subscribe and false the moment a transport error is detected, ahead of
	// the resubscribe loop. Used by the sub-component manager to drive its
	// communication state.
	OnConnectivity(fn func(established bool))
}

const sinkSize = 256

type monitor struct {
	proxies proxy.Manager
	log     logger.Logger

	mu      sync.Mutex
	sink    chan Event
	cancel  context.CancelFunc
	started bool

	runCount int64
	dropped  int64

	connMu sync.Mutex
	onConn func(bool)
}

// New creates a Monitor that obtains its device handle through proxies.
func New(proxies proxy.Manager, log logger.Logger) Monitor {
	return &monitor{proxies: proxies, log: log}
}

func (m *monitor) Start(ctx context.Context, address string, attributes []string) <-chan Event {
	m.mu.Lock()
	if m.started {
		sink := m.sink
		m.mu.Unlock()
		return sink
	}

	runCtx, cancel := context.WithCancel(ctx)
	sink := make(chan Event, sinkSize)
	m.sink = sink
	m.cancel = cancel
	m.started = true
	m.mu.Unlock()

	go m.run(runCtx, address, attributes, sink)

	return sink
}

func (m *monitor) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}

	cancel := m.cancel
	sink := m.sink
	m.started = false
	m.mu.Unlock()

	cancel()
	close(sink)
}

func (m *monitor) RunCount() int { return int(atomic.LoadInt64(&m.runCount)) }

func (m *monitor) Dropped() int { return int(atomic.LoadInt64(&m.dropped)) }

func (m *monitor) OnConnectivity(fn func(established bool)) {
	m.connMu.Lock()
	defer m.connMu.Unlock()

	m.onConn = fn
}

func (m *monitor) notifyConnectivity(established bool) {
	m.connMu.Lock()
	fn := m.onConn
	m.connMu.Unlock()

	if fn != nil {
		fn(established)
	}
}

// run is the subscribe/consume/resubscribe loop. It exits only when ctx is
// cancelled (by Stop).
func (m *monitor) run(ctx context.Context, address string, attributes []string, sink chan Event) {
	defer func() {
		if r := recover(); r != nil {
			crash.Capture("MONITOR", r)

			if m.log != nil {
				m.log.Error().Str("address", address).Msgf("device monitor panicked: %v", r)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		atomic.AddInt64(&m.runCount, 1)

		dev, err := m.proxies.Get(ctx, address)
		if err != nil {
			if m.log != nil {
				m.log.Warn().Err(err).Str("address", address).Msg("device monitor could not obtain handle, retrying")
			}

			m.notifyConnectivity(false)

			continue
		}

		events, err := dev.Subscribe(ctx, attributes)
		if err != nil {
			if m.log != nil {
				m.log.Warn().Err(err).Str("address", address).Msg("subscribe failed, invalidating handle")
			}

			m.proxies.Invalidate(address)
			m.notifyConnectivity(false)

			continue
		}

		m.notifyConnectivity(true)
		m.consume(ctx, address, events, sink)
		m.notifyConnectivity(false)

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// consume drains events until the channel closes (transport error /
// disconnect) or ctx is cancelled.
func (m *monitor) consume(ctx context.Context, address string, events <-chan rpc.AttrEvent, sink chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				m.proxies.Invalidate(address)
				return
			}

			m.deliver(sink, toEvent(ev))
		}
	}
}

// deliver is a non-blocking, drop-oldest send.
func (m *monitor) deliver(sink chan Event, ev Event) {
	select {
	case sink <- ev:
		return
	default:
	}

	select {
	case <-sink:
		atomic.AddInt64(&m.dropped, 1)
	default:
	}

	select {
	case sink <- ev:
	default:
	}
}

func toEvent(ev rpc.AttrEvent) Event {
	quality := compstate.QualityValid
	if ev.ErrorFlag || isUnknownSentinel(ev.Value) {
		quality = compstate.QualityInvalid
	}

	return Event{Attribute: ev.Name, Value: ev.Value, Quality: quality, ErrorFlag: ev.ErrorFlag}
}

func isUnknownSentinel(v interface{}) bool {
	s, ok := v.(string)
	return ok && s == "UNKNOWN"
}
