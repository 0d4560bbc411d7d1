package rpc

import (
	"context"
	"sync"
	"time"

	"github.com/ska-mid/dish-manager-core/internal/app/errors"
)

// CommandHandler computes the reply for one simulated command invocation.
type CommandHandler func(arg interface{}) (CommandReply, error)

// Simulated is an in-memory Device used by tests and local development in
// place of a real Tango/gRPC client. It holds a flat attribute table, lets a
// test drive changes with SetAttribute, and lets a test register
// CommandHandlers to script ExecuteCommand outcomes for each of the six
// end-to-end scenarios.
type Simulated struct {
	address string

	mu        sync.Mutex
	attrs     map[string]interface{}
	handlers  map[string]CommandHandler
	sub       chan AttrEvent
	connected bool
	failPing  bool
	failDial  bool
}

// NewSimulated creates a Simulated device already populated with attrs.
func NewSimulated(address string, attrs map[string]interface{}) *Simulated {
	copied := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}

	return &Simulated{
		address:   address,
		attrs:     copied,
		handlers:  make(map[string]CommandHandler),
		connected: true,
	}
}

// NewSimulatedDialer returns a Dialer backed by a fixed registry of
// Simulated devices keyed by address, so a proxy under test can be pointed
// at devices that already exist.
func NewSimulatedDialer(registry map[string]*Simulated) Dialer {
	return func(ctx context.Context, address string) (Device, error) {
		dev, ok := registry[address]
		if !ok {
			return nil, errors.ErrDeviceUnknown
		}

		dev.mu.Lock()
		defer dev.mu.Unlock()

		if dev.failDial || !dev.connected {
			return nil, errors.ErrConnectionFailed
		}

		return dev, nil
	}
}

// Address implements Device.
func (s *Simulated) Address() string { return s.address }

// Ping implements Device.
func (s *Simulated) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failPing || !s.connected {
		return errors.ErrConnectionInterrupted
	}

	return nil
}

// Subscribe implements Device. Only one live subscription is supported per
// Simulated instance, matching how the device monitor uses a single
// subscription per proxy handle.
func (s *Simulated) Subscribe(ctx context.Context, attributes []string) (<-chan AttrEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil, errors.ErrConnectionFailed
	}

	ch := make(chan AttrEvent, 64)
	s.sub = ch

	snapshot := make([]AttrEvent, 0, len(attributes))
	now := time.Now()

	for _, name := range attributes {
		snapshot = append(snapshot, AttrEvent{Name: name, Value: s.attrs[name], Time: now})
	}

	go func() {
		for _, ev := range snapshot {
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// ReadAttributes implements Device from the in-memory attribute table.
func (s *Simulated) ReadAttributes(ctx context.Context, names []string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil, errors.ErrConnectionFailed
	}

	out := make(map[string]interface{}, len(names))
	for _, name := range names {
		out[name] = s.attrs[name]
	}

	return out, nil
}

// ExecuteCommand implements Device, dispatching to a registered handler or
// replying OK for anything unregistered.
func (s *Simulated) ExecuteCommand(ctx context.Context, name string, arg interface{}) (CommandReply, error) {
	s.mu.Lock()
	connected := s.connected
	handler := s.handlers[name]
	s.mu.Unlock()

	if !connected {
		return CommandReply{}, errors.ErrConnectionFailed
	}

	if handler != nil {
		return handler(arg)
	}

	return CommandReply{Code: ResultOK, Message: name + " accepted"}, nil
}

// WriteAttribute implements Device and additionally emits a change event on
// any active subscription, mirroring a real device echoing the write back.
func (s *Simulated) WriteAttribute(ctx context.Context, name string, value interface{}) error {
	s.SetAttribute(name, value, false)
	return nil
}

// Close implements Device.
func (s *Simulated) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sub != nil {
		close(s.sub)
		s.sub = nil
	}

	return nil
}

// SetAttribute updates the in-memory value and, if a subscription is live,
// pushes an AttrEvent for it. Tests use this to drive scenario scripts (e.g.
// DS reporting dishMode -> OPERATE after a SetOperateMode command).
func (s *Simulated) SetAttribute(name string, value interface{}, errFlag bool) {
	s.mu.Lock()
	s.attrs[name] = value
	sub := s.sub
	s.mu.Unlock()

	if sub == nil {
		return
	}

	select {
	case sub <- AttrEvent{Name: name, Value: value, ErrorFlag: errFlag, Time: time.Now()}:
	default:
	}
}

// RegisterCommand scripts the reply for a named command.
func (s *Simulated) RegisterCommand(name string, handler CommandHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handlers[name] = handler
}

// Disconnect simulates a transport drop: Ping and Subscribe start failing
// and any live subscription channel is closed, used to exercise the
// proxy's reconnect-with-backoff path.
func (s *Simulated) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = false

	if s.sub != nil {
		close(s.sub)
		s.sub = nil
	}
}

// Reconnect restores connectivity after Disconnect.
func (s *Simulated) Reconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = true
}

// SetFailPing forces Ping to fail without tearing down the subscription,
// used to test liveness-check failure independent of disconnect handling.
func (s *Simulated) SetFailPing(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failPing = fail
}
