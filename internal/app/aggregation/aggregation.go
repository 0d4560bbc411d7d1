package aggregation

import (
	"strings"

	"github.com/ska-mid/dish-manager-core/internal/app/compstate"
	"github.com/ska-mid/dish-manager-core/internal/app/dishmode"
)

// Snapshot is the merged view of every child's component state the engine
// computes from. It is a plain value (no locks, no methods that mutate) so
// it can be captured once per recomputation and handed to every pure
// function below without racing the live per-child maps.
type Snapshot struct {
	DS    map[string]compstate.Entry
	SPF   map[string]compstate.Entry
	SPFRX map[string]compstate.Entry
	B5DC  map[string]compstate.Entry

	DSConn    compstate.CommunicationStatus
	SPFConn   compstate.CommunicationStatus
	SPFRXConn compstate.CommunicationStatus
	B5DCConn  compstate.CommunicationStatus

	IgnoreSPF   bool
	IgnoreSPFRX bool
	IgnoreB5DC  bool

	// InConfigureSequence is true for the duration of a ConfigureBand* fan-out,
	// set and cleared by the command map. CONFIG is
	// exposed only for that window, not inferred purely from child states,
	// since SPFRX's CONFIGURE mode does not by itself distinguish an in-flight
	// band change from a transient blip.
	InConfigureSequence bool
}

func str(m map[string]compstate.Entry, key string) string {
	e, ok := m[key]
	if !ok || e.Quality == compstate.QualityInvalid {
		return "UNKNOWN"
	}

	s, ok := e.Value.(string)
	if !ok {
		return "UNKNOWN"
	}

	return s
}

func boolVal(m map[string]compstate.Entry, key string) bool {
	e, ok := m[key]
	if !ok || e.Quality == compstate.QualityInvalid {
		return false
	}

	b, _ := e.Value.(bool)

	return b
}

// ComputeDishMode computes the rolled-up dish mode with first-matching-wins
// rules. The MAINTENANCE row (DS=STOW, SPF=MAINTENANCE, SPFRX=STANDBY with
// admin ENGINEERING) is checked before the generic DS=STOW row; the other
// order would make MAINTENANCE unreachable, since its DS precondition also
// reads STOW.
func ComputeDishMode(s Snapshot) dishmode.Mode {
	ds := str(s.DS, "operatingmode")

	if ds == DSStartup {
		return dishmode.Startup
	}

	if s.InConfigureSequence {
		return dishmode.Config
	}

	spf := str(s.SPF, "operatingmode")
	spfrx := str(s.SPFRX, "operatingmode")
	spfrxAdmin := str(s.SPFRX, "adminmode")

	spfIs := func(want string) bool { return s.IgnoreSPF || spf == want }
	spfrxIs := func(want ...string) bool {
		if s.IgnoreSPFRX {
			return true
		}

		for _, w := range want {
			if spfrx == w {
				return true
			}
		}

		return false
	}

	if ds == DSStow && spfIs(SPFMaintenance) && spfrxIs(SPFRxStandby) && (s.IgnoreSPFRX || spfrxAdmin == SPFRxAdminEngineering) {
		return dishmode.Maintenance
	}

	if ds == DSStow {
		return dishmode.Stow
	}

	if ds == DSStandbyLP && spfIs(SPFStandbyLP) && spfrxIs(SPFRxStandby) {
		return dishmode.StandbyLP
	}

	if ds == DSStandbyFP && spfIs(SPFOperate) && spfrxIs(SPFRxStandby, SPFRxDataCapture) {
		return dishmode.StandbyFP
	}

	if ds == DSPoint && spfIs(SPFOperate) && spfrxIs(SPFRxDataCapture) {
		return dishmode.Operate
	}

	return dishmode.Unknown
}

// ComputePowerState computes the rolled-up power level, DS primary with SPF as
// the fallback when DS reads unknown.
func ComputePowerState(s Snapshot) PowerState {
	if p, ok := mapPowerState(str(s.DS, "powerstate")); ok {
		return p
	}

	if p, ok := mapPowerState(str(s.SPF, "powerstate")); ok {
		return p
	}

	return PowerLow
}

func mapPowerState(raw string) (PowerState, bool) {
	switch raw {
	case DSPowerOff, DSPowerUPS:
		return PowerUPS, true
	case DSPowerLowPower:
		return PowerLow, true
	case DSPowerFullPower:
		return PowerFull, true
	default:
		return PowerUnknown, false
	}
}

// ComputeHealthState computes the worst-of-children health, forcing UNKNOWN on any
// non-ignored communication loss.
func ComputeHealthState(s Snapshot) HealthState {
	if s.DSConn == compstate.CommunicationNotEstablished {
		return HealthUnknown
	}

	if !s.IgnoreSPF && s.SPFConn == compstate.CommunicationNotEstablished {
		return HealthUnknown
	}

	if !s.IgnoreSPFRX && s.SPFRXConn == compstate.CommunicationNotEstablished {
		return HealthUnknown
	}

	worst := HealthOK

	consider := func(raw string) {
		h := parseHealth(raw)
		if healthRank[h] > healthRank[worst] {
			worst = h
		}
	}

	consider(str(s.DS, "healthstate"))

	if !s.IgnoreSPF {
		consider(str(s.SPF, "healthstate"))
	}

	if !s.IgnoreSPFRX {
		consider(str(s.SPFRX, "healthstate"))
	}

	return worst
}

func parseHealth(raw string) HealthState {
	switch strings.ToUpper(raw) {
	case "OK":
		return HealthOK
	case "DEGRADED":
		return HealthDegraded
	case "FAILED":
		return HealthFailed
	default:
		return HealthUnknown
	}
}

// ComputeCapabilityState computes the rolled-up readiness for one band from the
// fixed rule list below, evaluated top-to-bottom.
func ComputeCapabilityState(s Snapshot, band Band, mode dishmode.Mode) CapabilityState {
	key := strings.ToLower(string(band)) + "capabilitystate"

	dsStartup := str(s.DS, "operatingmode") == DSStartup
	spfCap := str(s.SPF, key)
	spfrxCap := str(s.SPFRX, key)
	indexerMoving := str(s.DS, "indexerposition") == IndexerMoving
	spfrxConfiguring := str(s.SPFRX, "operatingmode") == SPFRxConfigure

	if dsStartup || (!s.IgnoreSPF && spfCap == string(CapabilityUnavailable)) || (!s.IgnoreSPFRX && spfrxCap == string(CapabilityUnavailable)) {
		return CapabilityUnavailable
	}

	bothStandby := (s.IgnoreSPF || spfCap == string(CapabilityStandby)) && (s.IgnoreSPFRX || spfrxCap == string(CapabilityStandby))
	if mode == dishmode.StandbyLP || bothStandby {
		return CapabilityStandby
	}

	if mode == dishmode.Config && (indexerMoving || spfrxConfiguring) {
		return CapabilityConfiguring
	}

	if (s.IgnoreSPF || spfCap == string(CapabilityOperateFull)) && (s.IgnoreSPFRX || spfrxCap == string(CapabilityOperateFull)) {
		return CapabilityOperateFull
	}

	if (!s.IgnoreSPF && spfCap == string(CapabilityOperateDegraded)) || indexerMoving {
		return CapabilityOperateDegraded
	}

	return CapabilityUnknown
}

// errorStatusSchema is the fixed, ordered set of DS boolean error-status
// keys and their human-readable messages.
var errorStatusSchema = []struct {
	key     string
	message string
}{
	{"generalelectricalerrorstatus", "General electrical fault"},
	{"generalmechanicalerrorstatus", "General mechanical fault"},
	{"interlockerrorstatus", "Safety interlock open"},
	{"emergencystoperrorstatus", "Emergency stop activated"},
	{"powersupplyerrorstatus", "Power supply fault"},
	{"commswatchdogerrorstatus", "Communications watchdog fault"},
}

// DSCErrorStatuses joins every set DS error-status flag's message in schema
// order, or "OK" if none are set.
func DSCErrorStatuses(s Snapshot) string {
	var messages []string

	for _, entry := range errorStatusSchema {
		if boolVal(s.DS, entry.key) {
			messages = append(messages, entry.message)
		}
	}

	if len(messages) == 0 {
		return "OK"
	}

	return strings.Join(messages, "; ")
}

// ErrorStatusKeys returns the fixed schema-order list of DS error-status
// attribute names, used by the component manager to know which DS events to
// translate as booleans.
func ErrorStatusKeys() []string {
	keys := make([]string, len(errorStatusSchema))
	for i, e := range errorStatusSchema {
		keys[i] = e.key
	}

	return keys
}
