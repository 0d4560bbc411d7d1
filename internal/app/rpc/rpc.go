// Package rpc is the abstract remote-procedure/monitoring adapter the
// proxy and monitor layers are built against. A real deployment implements
// Device against the actual Tango/gRPC client; this repo ships only the
// in-memory Simulated device used by tests and local development (see
// simulated.go).
package rpc

import (
	"context"
	"time"
)

// ResultCode mirrors the Dish Manager's external ResultCode enumeration as
// reported by a remote command invocation.
type ResultCode int

// ResultCode values.
const (
	ResultOK ResultCode = iota
	ResultStarted
	ResultQueued
	ResultAborted
	ResultRejected
	ResultFailed
	ResultUnknown
)

func (r ResultCode) String() string {
	switch r {
	case ResultOK:
		return "OK"
	case ResultStarted:
		return "STARTED"
	case ResultQueued:
		return "QUEUED"
	case ResultAborted:
		return "ABORTED"
	case ResultRejected:
		return "REJECTED"
	case ResultFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// AttrEvent is one attribute change pushed by a subscription.
type AttrEvent struct {
	Name      string
	Value     interface{}
	ErrorFlag bool
	Time      time.Time
}

// CommandReply is what ExecuteCommand returns on success. The caller
// reports IN_PROGRESS unless Code is ResultFailed.
type CommandReply struct {
	Code    ResultCode
	Message string
}

// Device is a live connection to one subservient controller (DS, SPF, SPFRX,
// B5DC, or one WMS station). Implementations must be safe for concurrent
// use; Subscribe may be called once and must deliver the subscribe-time
// snapshot of every requested attribute as the first event per attribute.
type Device interface {
	Address() string
	// Ping verifies liveness without mutating any subscription state.
	Ping(ctx context.Context) error
	// Subscribe opens one event stream carrying changes for every named
	// attribute. The returned channel is closed when the subscription itself is
	// torn down (by Close or a transport-level disconnect); the caller is
	// expected to treat channel closure as a disconnect signal and resubscribe
	// through a fresh Device obtained from the proxy.
	Subscribe(ctx context.Context, attributes []string) (<-chan AttrEvent, error)
	// ReadAttributes reads the current value of each named attribute in one
	// round trip, used to refresh cached component state outside the
	// subscription stream.
	ReadAttributes(ctx context.Context, names []string) (map[string]interface{}, error)
	// ExecuteCommand issues a named command with an optional argument and
	// blocks until the remote begins executing it (or fails synchronously).
	ExecuteCommand(ctx context.Context, name string, arg interface{}) (CommandReply, error)
	// WriteAttribute pushes a new value for a read/write attribute.
	WriteAttribute(ctx context.Context, name string, value interface{}) error
	// Close releases the connection. Subsequent calls are no-ops.
	Close() error
}

// Dialer constructs a Device for a given address. A real deployment supplies
// a Dialer that dials the actual subservient controller; tests and local
// development use NewSimulatedDialer.
type Dialer func(ctx context.Context, address string) (Device, error)
