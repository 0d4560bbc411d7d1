package commandmap

import (
	"fmt"
	"strings"

	"github.com/ska-mid/dish-manager-core/internal/app/aggregation"
	"github.com/ska-mid/dish-manager-core/internal/app/dishmode"
)

// Device name constants local to this package's plan table; these line up
// with internal/config's DeviceDS/DeviceSPF/DeviceSPFRX but are kept
// independent so commandmap never has to import internal/config.
const (
	deviceDS    = "ds"
	deviceSPF   = "spf"
	deviceSPFRX = "spfrx"
)

// step is one ordered entry of a plan: either a command dispatched to a
// child (command != "") or an attribute write (writeName != nil), never both.
type step struct {
	device  string
	command string
	// writeName, when non-nil, makes this step an attribute write rather than a
	// command dispatch; it computes the attribute name from the request
	// (ApplyPointingModel's target band selects "bandNpointingmodelparams"
	// dynamically).
	writeName func(Request) string
	argFn     func(Request) interface{}
	// ignoredBy reports whether this step's device has been removed from
	// aggregation/fan-out via an ignore flag; nil means the device is never
	// ignorable (DS).
	ignoredBy func(Snapshot) bool
	// awaiting is the per-child awaited-change progress line posted after
	// this step is issued, e.g. "DS operatingmode change to STANDBY_FP".
	// Empty for fire-and-forget steps.
	awaiting string
}

func (s step) label() string {
	if s.writeName != nil {
		return deviceLabel(s.device) + ".Write"
	}

	return deviceLabel(s.device) + "." + s.command
}

func deviceLabel(device string) string {
	switch device {
	case deviceDS:
		return "DS"
	case deviceSPF:
		return "SPF"
	case deviceSPFRX:
		return "SPFRX"
	default:
		return device
	}
}

// plan is one high-level command's complete specification: an is-allowed
// predicate, its ordered steps, and the awaited predicate that marks it
// COMPLETED.
type plan struct {
	name string
	// extraCheck is nil when admissibility is governed entirely by the
	// dishmode.Graph (SetStandbyLPMode, ConfigureBand*, ...); non-nil lets a plan
	// add constraints the graph doesn't itself encode (SetOperateMode needs a
	// configured band; Track, TrackStop, Slew gate on pointingState, not
	// dishMode alone).
	extraCheck func(Snapshot, Request) error
	steps      []step
	awaited    func(Snapshot, Request) bool
	// awaiting is the aggregate awaited-change progress line posted before
	// the engine blocks on the awaited predicate, e.g. "dishmode change to
	// STANDBY_FP". Empty when completion is immediate.
	awaiting func(Request) string
	// configureSequence marks the six ConfigureBand commands: the engine
	// flips the "in a ConfigureBand* sequence" flag the aggregation engine
	// consults for its CONFIG dishMode rule for the plan's duration.
	configureSequence bool
}

func bandFor(name string) aggregation.Band {
	switch name {
	case "ConfigureBand1":
		return aggregation.Band1
	case "ConfigureBand2":
		return aggregation.Band2
	case "ConfigureBand3":
		return aggregation.Band3
	case "ConfigureBand4":
		return aggregation.Band4
	case "ConfigureBand5a":
		return aggregation.Band5a
	case "ConfigureBand5b":
		return aggregation.Band5b
	default:
		return aggregation.BandUnknown
	}
}

// awaits wraps a static awaited-change description for plans whose target
// does not depend on the request.
func awaits(msg string) func(Request) string {
	return func(Request) string { return msg }
}

func configureBandPlan(name string) plan {
	band := bandFor(name)

	return plan{
		name: name,
		steps: []step{
			{
				device: deviceDS, command: "SetIndexPosition",
				argFn:    func(Request) interface{} { return string(band) },
				awaiting: "DS indexerposition change to " + string(band),
			},
			{
				device: deviceSPFRX, command: name,
				argFn:     func(Request) interface{} { return true },
				ignoredBy: func(s Snapshot) bool { return s.IgnoreSPFRX },
				awaiting:  "SPFRX configuredband change to " + string(band),
			},
		},
		awaited:           func(s Snapshot, _ Request) bool { return s.ConfiguredBand == band },
		awaiting:          awaits("configuredband change to " + string(band)),
		configureSequence: true,
	}
}

// buildPlans renders the canonical plan table. It is data, not control
// flow.
func buildPlans() map[string]plan {
	plans := map[string]plan{
		"SetStandbyLPMode": {
			name: "SetStandbyLPMode",
			steps: []step{
				{device: deviceSPF, command: "SetStandbyLPMode", ignoredBy: func(s Snapshot) bool { return s.IgnoreSPF }, awaiting: "SPF operatingmode change to STANDBY_LP"},
				{device: deviceSPFRX, command: "SetStandbyMode", ignoredBy: func(s Snapshot) bool { return s.IgnoreSPFRX }, awaiting: "SPFRX operatingmode change to STANDBY"},
				{device: deviceDS, command: "SetStandbyLPMode", awaiting: "DS operatingmode change to STANDBY_LP"},
			},
			awaited:  func(s Snapshot, _ Request) bool { return s.DishMode == dishmode.StandbyLP },
			awaiting: awaits("dishmode change to STANDBY_LP"),
		},
		"SetStandbyFPMode": {
			name: "SetStandbyFPMode",
			steps: []step{
				{device: deviceDS, command: "SetStandbyFPMode", awaiting: "DS operatingmode change to STANDBY_FP"},
				{device: deviceDS, command: "SetPowerMode", argFn: func(Request) interface{} { return "FULL" }, awaiting: "DS powerstate change to FULL_POWER"},
				{device: deviceSPF, command: "SetOperateMode", ignoredBy: func(s Snapshot) bool { return s.IgnoreSPF }, awaiting: "SPF operatingmode change to OPERATE"},
				{device: deviceSPFRX, command: "SetStandbyMode", ignoredBy: func(s Snapshot) bool { return s.IgnoreSPFRX }, awaiting: "SPFRX operatingmode change to STANDBY"},
			},
			awaited:  func(s Snapshot, _ Request) bool { return s.DishMode == dishmode.StandbyFP },
			awaiting: awaits("dishmode change to STANDBY_FP"),
		},
		"SetOperateMode": {
			name: "SetOperateMode",
			extraCheck: func(s Snapshot, _ Request) error {
				if s.ConfiguredBand == aggregation.BandUnknown || s.ConfiguredBand == aggregation.BandNone {
					return fmt.Errorf("SetOperateMode requires a configured band")
				}

				return nil
			},
			steps: []step{
				{device: deviceSPF, command: "SetOperateMode", ignoredBy: func(s Snapshot) bool { return s.IgnoreSPF }, awaiting: "SPF operatingmode change to OPERATE"},
				{device: deviceDS, command: "SetPointMode", awaiting: "DS operatingmode change to POINT"},
			},
			awaited:  func(s Snapshot, _ Request) bool { return s.DishMode == dishmode.Operate },
			awaiting: awaits("dishmode change to OPERATE"),
		},
		"SetStowMode": {
			name:     "SetStowMode",
			steps:    []step{{device: deviceDS, command: "Stow", awaiting: "DS operatingmode change to STOW"}},
			awaited:  func(s Snapshot, _ Request) bool { return s.DishMode == dishmode.Stow },
			awaiting: awaits("dishmode change to STOW"),
		},
		"SetMaintenanceMode": {
			name: "SetMaintenanceMode",
			steps: []step{
				{device: deviceDS, command: "Stow", awaiting: "DS operatingmode change to STOW"},
				{device: deviceSPF, command: "SetMaintenanceMode", ignoredBy: func(s Snapshot) bool { return s.IgnoreSPF }, awaiting: "SPF operatingmode change to MAINTENANCE"},
				{device: deviceSPFRX, command: "SetStandbyMode", ignoredBy: func(s Snapshot) bool { return s.IgnoreSPFRX }, awaiting: "SPFRX operatingmode change to STANDBY"},
			},
			awaited:  func(s Snapshot, _ Request) bool { return s.DishMode == dishmode.Maintenance },
			awaiting: awaits("dishmode change to MAINTENANCE"),
		},
		"Track": {
			name: "Track",
			extraCheck: func(s Snapshot, _ Request) error {
				if err := requireOperate(s, "Track"); err != nil {
					return err
				}

				return requirePointing(s, "Track", aggregation.PointingReady)
			},
			steps:    []step{{device: deviceDS, command: "Track", awaiting: "DS achievedtargetlock change to true"}},
			awaited:  func(s Snapshot, _ Request) bool { return s.AchievedTargetLock },
			awaiting: awaits("achievedtargetlock change to true"),
		},
		"TrackStop": {
			name: "TrackStop",
			extraCheck: func(s Snapshot, _ Request) error {
				if err := requireOperate(s, "TrackStop"); err != nil {
					return err
				}

				return requirePointing(s, "TrackStop", aggregation.PointingTrack, aggregation.PointingSlew)
			},
			steps:    []step{{device: deviceDS, command: "TrackStop", awaiting: "DS pointingstate change to READY"}},
			awaited:  func(s Snapshot, _ Request) bool { return s.PointingState == aggregation.PointingReady },
			awaiting: awaits("pointingstate change to READY"),
		},
		"Slew": {
			name: "Slew",
			extraCheck: func(s Snapshot, _ Request) error {
				if err := requireOperate(s, "Slew"); err != nil {
					return err
				}

				return requirePointing(s, "Slew", aggregation.PointingReady)
			},
			steps:    []step{{device: deviceDS, command: "Slew", argFn: func(r Request) interface{} { return r.Arg }, awaiting: "DS pointingstate change to SLEW"}},
			awaited:  func(s Snapshot, _ Request) bool { return s.PointingState == aggregation.PointingSlew },
			awaiting: awaits("pointingstate change to SLEW"),
		},
		"EndScan": {
			name:    "EndScan",
			steps:   nil,
			awaited: func(s Snapshot, _ Request) bool { return s.ScanID == "" },
		},
		"Scan": {
			name:    "Scan",
			steps:   nil,
			awaited: func(s Snapshot, r Request) bool { id, _ := r.Arg.(string); return s.ScanID == id },
		},
		"TrackLoadStaticOff": {
			name:  "TrackLoadStaticOff",
			steps: []step{{device: deviceDS, command: "TrackLoadStaticOff", argFn: func(r Request) interface{} { return r.Arg }}},
			awaiting: func(r Request) string {
				xel, el, ok := twoFloats(r.Arg)
				if !ok {
					return ""
				}

				return fmt.Sprintf("actstaticoffsetvaluexel, actstaticoffsetvalueel change to %g, %g", xel, el)
			},
			awaited: func(s Snapshot, r Request) bool {
				xel, el, ok := twoFloats(r.Arg)
				return ok && s.ActOffsetXel == xel && s.ActOffsetEl == el
			},
		},
		"SetKValue": {
			name:    "SetKValue",
			steps:   []step{{device: deviceSPFRX, command: "SetKValue", argFn: func(r Request) interface{} { return r.Arg }}},
			awaited: func(Snapshot, Request) bool { return true },
		},
		"ResetTrackTable": {
			name:    "ResetTrackTable",
			steps:   []step{{device: deviceDS, command: "ResetTrackTable", argFn: func(r Request) interface{} { return r.Arg }}},
			awaited: func(Snapshot, Request) bool { return true },
		},
		"ApplyPointingModel": {
			name: "ApplyPointingModel",
			steps: []step{
				{
					device: deviceDS,
					writeName: func(r Request) string {
						arg, _ := r.Arg.(PointingModelArg)
						return "band" + bandSuffix(arg.Band) + "pointingmodelparams"
					},
					argFn: func(r Request) interface{} {
						arg, _ := r.Arg.(PointingModelArg)
						return arg.Coefficients[:]
					},
				},
			},
			awaited: func(Snapshot, Request) bool { return true },
		},
	}

	for _, name := range dishmode.ConfigureBandCommands {
		plans[name] = configureBandPlan(name)
	}

	return plans
}

// bandSuffix maps a Band to its bandNpointingmodelparams attribute suffix.
func bandSuffix(b aggregation.Band) string {
	switch b {
	case aggregation.Band1:
		return "1"
	case aggregation.Band2:
		return "2"
	case aggregation.Band3:
		return "3"
	case aggregation.Band4:
		return "4"
	case aggregation.Band5a:
		return "5a"
	case aggregation.Band5b:
		return "5b"
	default:
		return ""
	}
}

// requireOperate rejects pointing commands issued outside OPERATE with the
// stable message clients match on.
func requireOperate(s Snapshot, name string) error {
	if s.DishMode != dishmode.Operate {
		return fmt.Errorf("%s command rejected for current dishMode. %s command is allowed for dishMode OPERATE", name, name)
	}

	return nil
}

// requirePointing rejects a pointing command unless the DS pointing state is
// one of allowed.
func requirePointing(s Snapshot, name string, allowed ...aggregation.PointingState) error {
	for _, want := range allowed {
		if s.PointingState == want {
			return nil
		}
	}

	states := make([]string, 0, len(allowed))
	for _, want := range allowed {
		states = append(states, string(want))
	}

	return fmt.Errorf("%s command rejected for current pointingState. %s command is allowed for pointingState %s",
		name, name, strings.Join(states, ", "))
}

// twoFloats extracts a two-element []float64 argument, used by
// TrackLoadStaticOff's awaited predicate to compare against the DS's echoed
// actstaticoffsetvaluexel/el attributes.
func twoFloats(arg interface{}) (a, b float64, ok bool) {
	v, ok := arg.([]float64)
	if !ok || len(v) != 2 {
		return 0, 0, false
	}

	return v[0], v[1], true
}
