// Package commandmap is the command map / fan-out engine: for each
// high-level command it records an is-allowed predicate, an ordered plan of
// per-child sub-commands, and an awaited predicate over the rolled-up state
// that marks the command COMPLETED.
package commandmap

import (
	"github.com/ska-mid/dish-manager-core/internal/app/aggregation"
	"github.com/ska-mid/dish-manager-core/internal/app/compstate"
	"github.com/ska-mid/dish-manager-core/internal/app/component"
	"github.com/ska-mid/dish-manager-core/internal/app/dishmode"
)

// Request is one high-level command invocation being fanned out.
type Request struct {
	Name string
	Arg  interface{}
}

// Snapshot is the rolled-up view the engine makes admissibility and
// completion decisions against: dishMode, pointingState, configuredBand
// and communication state, plus the handful of extra fields individual
// awaited predicates need.
type Snapshot struct {
	DishMode       dishmode.Mode
	PowerState     aggregation.PowerState
	PointingState  aggregation.PointingState
	ConfiguredBand aggregation.Band
	ScanID         string

	AchievedTargetLock bool
	ActOffsetXel       float64
	ActOffsetEl        float64

	DSConn    compstate.CommunicationStatus
	SPFConn   compstate.CommunicationStatus
	SPFRXConn compstate.CommunicationStatus

	IgnoreSPF   bool
	IgnoreSPFRX bool
}

// SnapshotFunc returns the current rolled-up Snapshot. Supplied by the
// component manager, which owns the rolled-up compstate.Map the snapshot
// is built from.
type SnapshotFunc func() Snapshot

// Children is the set of sub-component managers the fan-out engine may
// dispatch steps to. B5DC and WMS never appear in a command-map plan, so
// they are not wired here.
type Children struct {
	DS    component.Manager
	SPF   component.Manager
	SPFRX component.Manager
}

func (c Children) get(device string) component.Manager {
	switch device {
	case deviceDS:
		return c.DS
	case deviceSPF:
		return c.SPF
	case deviceSPFRX:
		return c.SPFRX
	default:
		return nil
	}
}

// PointingModelArg is ApplyPointingModel's pre-validated argument: the
// manager parses and range-checks the JSON payload before calling
// Execute, so this package only ever writes an already-valid vector.
type PointingModelArg struct {
	Band         aggregation.Band
	Coefficients [18]float64
}

// Hooks are the manager-level (non-device) side effects a plan step or
// awaited predicate needs: mutating the scanID and the "in a ConfigureBand*
// sequence" flag that the aggregation engine consults for the CONFIG
// dishMode rule.
type Hooks struct {
	SetScanID             func(id string)
	BeginConfigureSequence func()
	EndConfigureSequence   func()
}
