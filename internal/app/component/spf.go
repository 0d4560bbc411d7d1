package component

import (
	"strings"

	"github.com/ska-mid/dish-manager-core/internal/app/aggregation"
)

var spfOperatingModeTable = []string{
	aggregation.SPFUnknown, aggregation.SPFStartup, aggregation.SPFStandbyLP,
	aggregation.SPFOperate, aggregation.SPFMaintenance,
}

var spfBandInFocusTable = []string{
	string(aggregation.BandUnknown), string(aggregation.Band1), string(aggregation.Band2),
	string(aggregation.Band3), string(aggregation.Band4), string(aggregation.Band5a),
	string(aggregation.Band5b), string(aggregation.BandNone),
}

var spfCapabilityStateTable = []string{
	"UNAVAILABLE", "STANDBY", "CONFIGURING", "OPERATE_DEGRADED", "OPERATE_FULL", "UNKNOWN",
}

var spfPowerStateTable = []string{"OFF", "LOW_POWER", "FULL_POWER", "UNKNOWN"}

type spfICD struct{}

// NewSPFICD returns the Single-Pixel Feed controller's attribute schema.
func NewSPFICD() ICD { return spfICD{} }

func (spfICD) Name() string { return "SPF" }

func (spfICD) Attributes() []string {
	attrs := []string{"operatingmode", "powerstate", "healthstate", "bandinfocus", "buildstate"}

	for _, b := range aggregation.AllBands {
		suf := strings.ToLower(string(b))
		attrs = append(attrs, suf+"capabilitystate", suf+"lnahpowerstate", suf+"lnavpowerstate")
	}

	return attrs
}

func (spfICD) Translate(name string, raw interface{}) interface{} {
	switch {
	case name == "operatingmode":
		return translateEnum(spfOperatingModeTable, raw)
	case name == "powerstate":
		return translateEnum(spfPowerStateTable, raw)
	case name == "bandinfocus":
		return translateEnum(spfBandInFocusTable, raw)
	case len(name) > len("capabilitystate") && name[len(name)-len("capabilitystate"):] == "capabilitystate":
		return translateEnum(spfCapabilityStateTable, raw)
	default:
		return raw
	}
}
