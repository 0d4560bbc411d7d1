package aggregation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ska-mid/dish-manager-core/internal/app/compstate"
	"github.com/ska-mid/dish-manager-core/internal/app/dishmode"
)

func valid(v interface{}) compstate.Entry {
	return compstate.Entry{Value: v, Quality: compstate.QualityValid}
}

func TestDishModeStartupWins(t *testing.T) {
	s := Snapshot{DS: map[string]compstate.Entry{"operatingmode": valid(DSStartup)}}
	assert.Equal(t, dishmode.Startup, ComputeDishMode(s))
}

func TestDishModeStandbyLPHappyPath(t *testing.T) {
	s := Snapshot{
		DS:    map[string]compstate.Entry{"operatingmode": valid(DSStandbyLP)},
		SPF:   map[string]compstate.Entry{"operatingmode": valid(SPFStandbyLP)},
		SPFRX: map[string]compstate.Entry{"operatingmode": valid(SPFRxStandby)},
	}
	assert.Equal(t, dishmode.StandbyLP, ComputeDishMode(s))
}

func TestDishModeStandbyFPHappyPath(t *testing.T) {
	s := Snapshot{
		DS:    map[string]compstate.Entry{"operatingmode": valid(DSStandbyFP)},
		SPF:   map[string]compstate.Entry{"operatingmode": valid(SPFOperate)},
		SPFRX: map[string]compstate.Entry{"operatingmode": valid(SPFRxStandby)},
	}
	assert.Equal(t, dishmode.StandbyFP, ComputeDishMode(s))
}

func TestDishModeOperate(t *testing.T) {
	s := Snapshot{
		DS:    map[string]compstate.Entry{"operatingmode": valid(DSPoint)},
		SPF:   map[string]compstate.Entry{"operatingmode": valid(SPFOperate)},
		SPFRX: map[string]compstate.Entry{"operatingmode": valid(SPFRxDataCapture)},
	}
	assert.Equal(t, dishmode.Operate, ComputeDishMode(s))
}

func TestDishModeMaintenance(t *testing.T) {
	s := Snapshot{
		DS:    map[string]compstate.Entry{"operatingmode": valid(DSStow)},
		SPF:   map[string]compstate.Entry{"operatingmode": valid(SPFMaintenance)},
		SPFRX: map[string]compstate.Entry{"operatingmode": valid(SPFRxStandby), "adminmode": valid(SPFRxAdminEngineering)},
	}
	assert.Equal(t, dishmode.Maintenance, ComputeDishMode(s))
}

func TestDishModeStowFallback(t *testing.T) {
	s := Snapshot{DS: map[string]compstate.Entry{"operatingmode": valid(DSStow)}}
	assert.Equal(t, dishmode.Stow, ComputeDishMode(s))
}

func TestDishModeConfigureSequenceOverridesChildren(t *testing.T) {
	s := Snapshot{
		DS:                  map[string]compstate.Entry{"operatingmode": valid(DSStandbyFP)},
		InConfigureSequence: true,
	}
	assert.Equal(t, dishmode.Config, ComputeDishMode(s))
}

func TestDishModeIgnoredChildrenRemovedFromPredicate(t *testing.T) {
	s := Snapshot{
		DS:          map[string]compstate.Entry{"operatingmode": valid(DSStandbyLP)},
		IgnoreSPF:   true,
		IgnoreSPFRX: true,
	}
	assert.Equal(t, dishmode.StandbyLP, ComputeDishMode(s))
}

func TestDishModeOtherwiseUnknown(t *testing.T) {
	s := Snapshot{DS: map[string]compstate.Entry{"operatingmode": valid(DSPoint)}}
	assert.Equal(t, dishmode.Unknown, ComputeDishMode(s))
}

func TestPowerStateDSPrimary(t *testing.T) {
	s := Snapshot{DS: map[string]compstate.Entry{"powerstate": valid(DSPowerFullPower)}}
	assert.Equal(t, PowerFull, ComputePowerState(s))
}

func TestPowerStateFallsBackToSPF(t *testing.T) {
	s := Snapshot{
		DS:  map[string]compstate.Entry{"powerstate": valid(DSPowerUnknown)},
		SPF: map[string]compstate.Entry{"powerstate": valid(DSPowerLowPower)},
	}
	assert.Equal(t, PowerLow, ComputePowerState(s))
}

func TestPowerStateBothUnknownDefaultsLow(t *testing.T) {
	assert.Equal(t, PowerLow, ComputePowerState(Snapshot{}))
}

func TestHealthStateWorstOf(t *testing.T) {
	s := Snapshot{
		DS:    map[string]compstate.Entry{"healthstate": valid("OK")},
		SPF:   map[string]compstate.Entry{"healthstate": valid("DEGRADED")},
		SPFRX: map[string]compstate.Entry{"healthstate": valid("FAILED")},
	}
	assert.Equal(t, HealthFailed, ComputeHealthState(s))
}

func TestHealthStateCommunicationLossForcesUnknown(t *testing.T) {
	s := Snapshot{
		DS:      map[string]compstate.Entry{"healthstate": valid("OK")},
		SPFConn: compstate.CommunicationNotEstablished,
	}
	assert.Equal(t, HealthUnknown, ComputeHealthState(s))
}

func TestHealthStateIgnoredChildCommsLossDoesNotForceUnknown(t *testing.T) {
	s := Snapshot{
		DS:        map[string]compstate.Entry{"healthstate": valid("OK")},
		SPFRXConn: compstate.CommunicationNotEstablished,
		IgnoreSPFRX: true,
	}
	assert.Equal(t, HealthOK, ComputeHealthState(s))
}

func TestCapabilityStateUnavailableOnDSStartup(t *testing.T) {
	s := Snapshot{DS: map[string]compstate.Entry{"operatingmode": valid(DSStartup)}}
	assert.Equal(t, CapabilityUnavailable, ComputeCapabilityState(s, Band2, dishmode.Unknown))
}

func TestCapabilityStateOperateFull(t *testing.T) {
	s := Snapshot{
		SPF:   map[string]compstate.Entry{"b2capabilitystate": valid(string(CapabilityOperateFull))},
		SPFRX: map[string]compstate.Entry{"b2capabilitystate": valid(string(CapabilityOperateFull))},
	}
	assert.Equal(t, CapabilityOperateFull, ComputeCapabilityState(s, Band2, dishmode.Operate))
}

func TestCapabilityStateConfiguring(t *testing.T) {
	s := Snapshot{SPFRX: map[string]compstate.Entry{"operatingmode": valid(SPFRxConfigure)}}
	assert.Equal(t, CapabilityConfiguring, ComputeCapabilityState(s, Band2, dishmode.Config))
}

func TestDSCErrorStatusesOKWhenNoneSet(t *testing.T) {
	assert.Equal(t, "OK", DSCErrorStatuses(Snapshot{}))
}

func TestDSCErrorStatusesJoinsInSchemaOrder(t *testing.T) {
	s := Snapshot{DS: map[string]compstate.Entry{
		"interlockerrorstatus":         valid(true),
		"generalelectricalerrorstatus": valid(true),
	}}
	assert.Equal(t, "General electrical fault; Safety interlock open", DSCErrorStatuses(s))
}
