package component

// wmsICD is the Weather-Monitoring Station schema. Unlike the other four
// children, WMS's two published attributes (windgust, meanwindspeed) are
// aggregates computed by Reduce below rather than translated one-for-one.
// The manager monitors a single WMS station at one configured address and
// passes that one station's windspeed reading to Reduce; readings from
// other stations are not collected.
type wmsICD struct{}

// NewWMSICD returns the WMS schema as monitored on one station.
func NewWMSICD() ICD { return wmsICD{} }

func (wmsICD) Name() string { return "WMS" }

func (wmsICD) Attributes() []string {
	return []string{"windspeed", "winddirection", "temperature", "buildstate"}
}

func (wmsICD) Translate(_ string, raw interface{}) interface{} { return raw }

// StationReading is one weather station's last-known instantaneous values.
type StationReading struct {
	WindSpeed float64
	Valid     bool
}

// Reduce computes the rolled-up windGust/meanWindSpeed pair from a set of
// station readings: the gust is the highest instantaneous reading seen,
// the mean is the arithmetic mean of every valid station.
func Reduce(readings []StationReading) (windGust, meanWindSpeed float64) {
	var sum float64

	count := 0

	for _, r := range readings {
		if !r.Valid {
			continue
		}

		if r.WindSpeed > windGust {
			windGust = r.WindSpeed
		}

		sum += r.WindSpeed
		count++
	}

	if count == 0 {
		return 0, 0
	}

	return windGust, sum / float64(count)
}
