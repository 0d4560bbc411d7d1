// Package aggregation is the aggregation engine: a set of pure,
// deterministic functions mapping a merged snapshot of child component state
// onto the Dish Manager's rolled-up attributes.
package aggregation

import "github.com/ska-mid/dish-manager-core/internal/app/dishmode"

// PowerState is the rolled-up power level.
type PowerState string

// PowerState values.
const (
	PowerUnknown PowerState = "UNKNOWN"
	PowerUPS     PowerState = "UPS"
	PowerLow     PowerState = "LOW"
	PowerFull    PowerState = "FULL"
)

// HealthState is the rolled-up worst-of-children health.
type HealthState string

// HealthState values, ordered worst-last for the ranking table in
// healthRank.
const (
	HealthOK       HealthState = "OK"
	HealthDegraded HealthState = "DEGRADED"
	HealthFailed   HealthState = "FAILED"
	HealthUnknown  HealthState = "UNKNOWN"
)

var healthRank = map[HealthState]int{
	HealthOK:       0,
	HealthDegraded: 1,
	HealthFailed:   2,
	HealthUnknown:  3,
}

// CapabilityState is the per-band rolled-up readiness.
type CapabilityState string

// CapabilityState values.
const (
	CapabilityUnavailable     CapabilityState = "UNAVAILABLE"
	CapabilityStandby         CapabilityState = "STANDBY"
	CapabilityConfiguring     CapabilityState = "CONFIGURING"
	CapabilityOperateDegraded CapabilityState = "OPERATE_DEGRADED"
	CapabilityOperateFull     CapabilityState = "OPERATE_FULL"
	CapabilityUnknown         CapabilityState = "UNKNOWN"
)

// PointingState is the DS pointing activity.
type PointingState string

// PointingState values.
const (
	PointingReady   PointingState = "READY"
	PointingSlew    PointingState = "SLEW"
	PointingTrack   PointingState = "TRACK"
	PointingScan    PointingState = "SCAN"
	PointingUnknown PointingState = "UNKNOWN"
)

// Band identifies a receiver band, or NONE/UNKNOWN.
type Band string

// Band values.
const (
	BandUnknown Band = "UNKNOWN"
	Band1       Band = "B1"
	Band2       Band = "B2"
	Band3       Band = "B3"
	Band4       Band = "B4"
	Band5a      Band = "B5a"
	Band5b      Band = "B5b"
	BandNone    Band = "NONE"
)

// AllBands lists every configurable band, used to range over per-band
// capability states and command names.
var AllBands = []Band{Band1, Band2, Band3, Band4, Band5a, Band5b}

// DS operatingmode values.
const (
	DSStartup   = "STARTUP"
	DSStandbyLP = "STANDBY_LP"
	DSStandbyFP = "STANDBY_FP"
	DSPoint     = "POINT"
	DSStow      = "STOW"
	DSEstop     = "ESTOP"
	DSUnknown   = "UNKNOWN"
)

// DS powerstate values.
const (
	DSPowerOff       = "OFF"
	DSPowerUPS       = "UPS"
	DSPowerLowPower  = "LOW_POWER"
	DSPowerFullPower = "FULL_POWER"
	DSPowerUnknown   = "UNKNOWN"
)

// SPF operatingmode values.
const (
	SPFStartup     = "STARTUP"
	SPFStandbyLP   = "STANDBY_LP"
	SPFOperate     = "OPERATE"
	SPFMaintenance = "MAINTENANCE"
	SPFUnknown     = "UNKNOWN"
)

// SPFRX operatingmode values.
const (
	SPFRxStartup     = "STARTUP"
	SPFRxStandby     = "STANDBY"
	SPFRxDataCapture = "DATA_CAPTURE"
	SPFRxConfigure   = "CONFIGURE"
	SPFRxUnknown     = "UNKNOWN"
)

// SPFRX adminmode values (only ENGINEERING is tested against, by the
// MAINTENANCE rule).
const (
	SPFRxAdminEngineering = "ENGINEERING"
	SPFRxAdminOnline      = "ONLINE"
)

// DishMode re-exports dishmode.Mode so callers of this package need only one
// import for the rolled-up mode type and the transition graph that governs
// it.
type DishMode = dishmode.Mode

// indexer position values on DS (band-selector feed indexer).
const (
	IndexerMoving = "MOVING"
)
