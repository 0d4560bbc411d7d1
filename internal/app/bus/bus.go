// Package bus is the Dish Manager's internal pub/sub, carrying component
// state changes and long-running-command lifecycle updates out
// to whatever re-emits them to clients (the external service front-end, or
// the dashboard TUI in this repo): a slice of buffered subscriber
// channels, a best-effort send that drops on overflow unless the message
// is Critical.
package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// MessageType identifies the shape of Message.Data.
type MessageType string

// Component-state change events (aggregation outputs, per-child
// connection state mirrors).
const (
	EventDishModeChanged       MessageType = "dish_mode_changed"
	EventPowerStateChanged     MessageType = "power_state_changed"
	EventHealthStateChanged    MessageType = "health_state_changed"
	EventCapabilityChanged     MessageType = "capability_state_changed"
	EventConnectionChanged     MessageType = "connection_state_changed"
	EventPointingStateChanged  MessageType = "pointing_state_changed"
	EventConfiguredBandChanged MessageType = "configured_band_changed"
)

// Long-running-command lifecycle events.
const (
	EventLRCQueued      MessageType = "lrc_queued"
	EventLRCInProgress  MessageType = "lrc_in_progress"
	EventLRCProgress    MessageType = "lrc_progress"
	EventLRCCompleted   MessageType = "lrc_completed"
	EventLRCFailed      MessageType = "lrc_failed"
	EventLRCAborted     MessageType = "lrc_aborted"
	EventLRCRejected    MessageType = "lrc_rejected"
)

// Supervisory events (watchdog, abort).
const (
	EventHeartbeatReceived MessageType = "heartbeat_received"
	EventWatchdogExpired   MessageType = "watchdog_expired"
	EventAbortStarted      MessageType = "abort_started"
	EventAbortCompleted    MessageType = "abort_completed"
)

// StateChanged carries a single rolled-up attribute transition.
type StateChanged struct {
	Attribute string
	Value     interface{}
}

// ConnectionChanged carries a per-child CommunicationStatus transition.
type ConnectionChanged struct {
	Device string
	Status string
}

// LRCUpdate carries a long-running-command lifecycle transition.
type LRCUpdate struct {
	ID       string
	Name     string
	Status   string
	Result   string
	Message  string
	Progress string
}

// Message is one event published on the bus.
type Message struct {
	Type      MessageType
	Timestamp time.Time
	Data      interface{}
	Critical  bool
}

// Bus is a fan-out publish/subscribe channel.
type Bus interface {
	Subscribe(ctx context.Context) <-chan Message
	Publish(msg Message)
	Close()
}

type bus struct {
	bufferSize  int
	subscribers []chan Message
	mu          sync.RWMutex
	closed      bool
	log         logger.Logger
}

// New creates a Bus with the given subscriber channel buffer size.
func New(bufferSize int, log logger.Logger) Bus {
	if bufferSize <= 0 {
		bufferSize = 256
	}

	return &bus{bufferSize: bufferSize, log: log}
}

func (b *bus) Subscribe(ctx context.Context) <-chan Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Message, b.bufferSize)
	b.subscribers = append(b.subscribers, ch)

	go func() {
		<-ctx.Done()
		b.unsubscribe(ch)
	}()

	return ch
}

func (b *bus) Publish(msg Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	msg.Timestamp = time.Now()

	if b.log != nil {
		b.log.Debug().Msg(fmt.Sprintf("%s %+v", msg.Type, msg.Data))
	}

	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
			if msg.Critical {
				go func(c chan Message, m Message) {
					defer func() { _ = recover() }()
					c <- m
				}(ch, msg)
			}
		}
	}
}

func (b *bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true

	for _, ch := range b.subscribers {
		close(ch)
	}

	b.subscribers = nil
}

func (b *bus) unsubscribe(ch chan Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(ch)

			break
		}
	}
}

// NoOp returns a bus that drops everything, used in tests.
func NoOp() Bus {
	return &noOpBus{}
}

type noOpBus struct{}

func (n *noOpBus) Subscribe(ctx context.Context) <-chan Message {
	ch := make(chan Message)

	go func() {
		<-ctx.Done()
		close(ch)
	}()

	return ch
}

func (n *noOpBus) Publish(Message) {}
func (n *noOpBus) Close()          {}
