package component

import (
	"strconv"
	"strings"

	"github.com/ska-mid/dish-manager-core/internal/app/aggregation"
)

var spfrxOperatingModeTable = []string{
	aggregation.SPFRxUnknown, aggregation.SPFRxStartup, aggregation.SPFRxStandby,
	aggregation.SPFRxDataCapture, aggregation.SPFRxConfigure,
}

var spfrxAdminModeTable = []string{
	"UNKNOWN", aggregation.SPFRxAdminOnline, aggregation.SPFRxAdminEngineering,
}

var spfrxConfiguredBandTable = []string{
	string(aggregation.BandUnknown), string(aggregation.Band1), string(aggregation.Band2),
	string(aggregation.Band3), string(aggregation.Band4), string(aggregation.Band5a),
	string(aggregation.Band5b), string(aggregation.BandNone),
}

var spfrxCapabilityStateTable = []string{
	"UNAVAILABLE", "STANDBY", "CONFIGURING", "OPERATE_DEGRADED", "OPERATE_FULL", "UNKNOWN",
}

type spfrxICD struct{}

// NewSPFRXICD returns the SPF Receiver's attribute schema.
func NewSPFRXICD() ICD { return spfrxICD{} }

func (spfrxICD) Name() string { return "SPFRX" }

func (spfrxICD) Attributes() []string {
	attrs := []string{
		"operatingmode", "healthstate", "adminmode", "configuredband",
		"capturingdata", "buildstate",
	}

	for _, b := range aggregation.AllBands {
		attrs = append(attrs, strings.ToLower(string(b))+"capabilitystate")
	}

	for i := 1; i <= 6; i++ {
		attrs = append(attrs, "attenuation"+strconv.Itoa(i))
	}

	return append(attrs, "noisediodemode", "noisediodeperiod", "noisediodedutycycle")
}

func (spfrxICD) Translate(name string, raw interface{}) interface{} {
	switch {
	case name == "operatingmode":
		return translateEnum(spfrxOperatingModeTable, raw)
	case name == "adminmode":
		return translateEnum(spfrxAdminModeTable, raw)
	case name == "configuredband":
		return translateEnum(spfrxConfiguredBandTable, raw)
	case name == "capturingdata":
		v, _ := raw.(bool)
		return v
	case len(name) > len("capabilitystate") && name[len(name)-len("capabilitystate"):] == "capabilitystate":
		return translateEnum(spfrxCapabilityStateTable, raw)
	default:
		return raw
	}
}
