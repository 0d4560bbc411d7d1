package component

import "github.com/ska-mid/dish-manager-core/internal/app/aggregation"

var dsOperatingModeTable = []string{
	aggregation.DSUnknown, aggregation.DSStartup, aggregation.DSStandbyLP,
	aggregation.DSStandbyFP, aggregation.DSPoint, aggregation.DSStow, "ESTOP",
}

var dsPowerStateTable = []string{
	aggregation.DSPowerUnknown, aggregation.DSPowerOff, aggregation.DSPowerUPS,
	aggregation.DSPowerLowPower, aggregation.DSPowerFullPower,
}

var dsPointingStateTable = []string{"UNKNOWN", "READY", "SLEW", "TRACK", "SCAN"}

var dsIndexerPositionTable = []string{"UNKNOWN", "MOVING", "B1", "B2", "B3", "B4", "B5a", "B5b"}

var dsTrackInterpolationTable = []string{"SPLINE", "NEWTON"}

// dsBandSuffixes enumerates the seven bandNpointingmodelparams keys
// (band0 through band5b).
var dsBandSuffixes = []string{"0", "1", "2", "3", "4", "5a", "5b"}

// dsBoolAttributes are every DS attribute whose raw wire value is already a
// bool: the error-status flags plus dsccmdauth.
func dsBoolAttributes() []string {
	attrs := append([]string{}, aggregation.ErrorStatusKeys()...)
	return append(attrs, "dsccmdauth")
}

type dsICD struct{}

// NewDSICD returns the Dish Structure controller's attribute schema.
func NewDSICD() ICD { return dsICD{} }

func (dsICD) Name() string { return "DS" }

func (dsICD) Attributes() []string {
	attrs := []string{
		"operatingmode", "powerstate", "pointingstate", "indexerposition",
		"achievedpointing", "achievedpointingaz", "achievedpointingel",
		"desiredpointingaz", "desiredpointingel", "trackinterpolationmode",
		"actstaticoffsetvaluexel", "actstaticoffsetvalueel", "dscpowerlimitkw",
		"tracktablecurrentindex", "tracktableendindex", "dsccmdauth",
		"dscctrlstate", "achievedtargetlock", "buildstate",
	}

	for _, suf := range dsBandSuffixes {
		attrs = append(attrs, "band"+suf+"pointingmodelparams")
	}

	return append(attrs, dsBoolAttributes()...)
}

func (dsICD) Translate(name string, raw interface{}) interface{} {
	switch name {
	case "operatingmode":
		return translateEnum(dsOperatingModeTable, raw)
	case "powerstate":
		return translateEnum(dsPowerStateTable, raw)
	case "pointingstate":
		return translateEnum(dsPointingStateTable, raw)
	case "indexerposition":
		return translateEnum(dsIndexerPositionTable, raw)
	case "trackinterpolationmode":
		return translateEnum(dsTrackInterpolationTable, raw)
	default:
		for _, b := range dsBoolAttributes() {
			if b == name {
				v, _ := raw.(bool)
				return v
			}
		}

		return raw
	}
}
