package manager

import (
	"context"
	"fmt"
	"time"

	"github.com/ska-mid/dish-manager-core/internal/app/aggregation"
	"github.com/ska-mid/dish-manager-core/internal/app/bus"
	"github.com/ska-mid/dish-manager-core/internal/app/compstate"
	"github.com/ska-mid/dish-manager-core/internal/app/dishmode"
	"github.com/ska-mid/dish-manager-core/internal/app/rpc"
	"github.com/ska-mid/dish-manager-core/internal/config"
)

func (m *manager) stateString(key string) string {
	s, _ := m.state.Value(key).(string)
	return s
}

func (m *manager) stateFloat(key string) float64 {
	f, _ := m.state.Value(key).(float64)
	return f
}

func (m *manager) DishMode() dishmode.Mode {
	mode, _ := m.state.Value("dishmode").(dishmode.Mode)
	if mode == "" {
		return dishmode.Unknown
	}

	return mode
}

func (m *manager) PowerState() aggregation.PowerState {
	ps, _ := m.state.Value("powerstate").(aggregation.PowerState)
	return ps
}

func (m *manager) HealthState() aggregation.HealthState {
	hs, _ := m.state.Value("healthstate").(aggregation.HealthState)
	return hs
}

func (m *manager) PointingState() aggregation.PointingState {
	ps, _ := m.state.Value("pointingstate").(aggregation.PointingState)
	return ps
}

func (m *manager) ConfiguredBand() aggregation.Band {
	band, _ := m.state.Value("configuredband").(aggregation.Band)
	return band
}

func (m *manager) CapabilityState(band aggregation.Band) aggregation.CapabilityState {
	key := bandCapabilityKey(band)
	cs, _ := m.state.Value(key).(aggregation.CapabilityState)
	return cs
}

func bandCapabilityKey(band aggregation.Band) string {
	return fmt.Sprintf("%scapabilitystate", lowerBand(band))
}

func lowerBand(band aggregation.Band) string {
	s := string(band)
	out := make([]byte, len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}

		out[i] = c
	}

	return string(out)
}

func (m *manager) DSCErrorStatuses() string {
	s := m.stateString("dscerrorstatuses")
	if s == "" {
		return "OK"
	}

	return s
}

func (m *manager) ConnectionState(device string) compstate.CommunicationStatus {
	status, _ := m.state.Value(device + "connectionstate").(compstate.CommunicationStatus)
	return status
}

func (m *manager) ScanID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.scanID
}

func (m *manager) KValue() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.kValue
}

func (m *manager) IgnoreSPF() bool { return m.props.Load().IgnoreSPF }

func (m *manager) SetIgnoreSPF(ignore bool) error {
	f := m.props.Load()
	f.IgnoreSPF = ignore

	if err := m.props.Set(f); err != nil {
		return err
	}

	m.state.Set("ignorespf", ignore)
	m.recompute()

	return nil
}

func (m *manager) IgnoreSPFRX() bool { return m.props.Load().IgnoreSPFRX }

func (m *manager) SetIgnoreSPFRX(ignore bool) error {
	f := m.props.Load()
	f.IgnoreSPFRX = ignore

	if err := m.props.Set(f); err != nil {
		return err
	}

	m.state.Set("ignorespfrx", ignore)
	m.recompute()

	return nil
}

func (m *manager) IgnoreB5DC() bool { return m.props.Load().IgnoreB5DC }

func (m *manager) SetIgnoreB5DC(ignore bool) error {
	f := m.props.Load()
	f.IgnoreB5DC = ignore

	if err := m.props.Set(f); err != nil {
		return err
	}

	m.state.Set("ignoreb5dc", ignore)
	m.recompute()

	return nil
}

func (m *manager) DscPowerLimitKW() float64 { return m.stateFloat("dscpowerlimitkw") }

// SetDscPowerLimitKW range-checks kw against [1, 20] before writing it
// through to the DS, which owns the final say on the limit.
func (m *manager) SetDscPowerLimitKW(ctx context.Context, kw float64) error {
	if kw < config.DSCPowerLimitMinKW || kw > config.DSCPowerLimitMaxKW {
		return fmt.Errorf("dscPowerLimitkW must be in range [%.0f, %.0f], got %g",
			config.DSCPowerLimitMinKW, config.DSCPowerLimitMaxKW, kw)
	}

	if err := m.children[config.DeviceDS].WriteAttributeValue(ctx, "dscpowerlimitkw", kw); err != nil {
		return err
	}

	m.state.Set("dscpowerlimitkw", kw)

	return nil
}

func (m *manager) TrackInterpolationMode() string { return m.stateString("trackinterpolationmode") }

var trackInterpolationModes = map[string]bool{"SPLINE": true, "NEWTON": true}

func (m *manager) SetTrackInterpolationMode(ctx context.Context, mode string) error {
	if !trackInterpolationModes[mode] {
		return fmt.Errorf("trackInterpolationMode must be one of SPLINE, NEWTON, got %q", mode)
	}

	if err := m.children[config.DeviceDS].WriteAttributeValue(ctx, "trackinterpolationmode", mode); err != nil {
		return err
	}

	m.state.Set("trackinterpolationmode", mode)

	return nil
}

func (m *manager) ProgramTrackTable() []float64 {
	table, _ := m.state.Value("programtracktable").([]float64)
	return table
}

// SetProgramTrackTable validates the track table shape: a non-zero multiple
// of 3 entries, each group's timestamp strictly increasing, and the first
// timestamp clearing the configured lead time.
func (m *manager) SetProgramTrackTable(ctx context.Context, table []float64) error {
	if len(table) == 0 || len(table)%3 != 0 {
		return fmt.Errorf("programTrackTable length must be a non-zero multiple of 3, got %d", len(table))
	}

	lastTS := -1.0

	for i := 0; i < len(table); i += 3 {
		ts := table[i]

		if i == 0 && ts < float64(time.Now().Unix())+m.cfg.TrackTableLeadTime.Seconds() {
			return fmt.Errorf("programTrackTable first timestamp must be at least %s in the future", m.cfg.TrackTableLeadTime)
		}

		if ts <= lastTS {
			return fmt.Errorf("programTrackTable timestamps must be strictly increasing")
		}

		lastTS = ts
	}

	if err := m.children[config.DeviceDS].WriteAttributeValue(ctx, "programtracktable", table); err != nil {
		return err
	}

	m.state.Set("programtracktable", table)

	return nil
}

// BandPointingModelParams reads the last-known coefficient vector for band
// from the DS component state, or an empty slice for an unknown band.
func (m *manager) BandPointingModelParams(band aggregation.Band) []float64 {
	key, ok := pointingParamsKey(band)
	if !ok {
		return nil
	}

	vec, _ := m.children[config.DeviceDS].ComponentState().Value(key).([]float64)

	return vec
}

// SetBandPointingModelParams validates a direct coefficient-vector write
// (exactly 18 elements, each inside its range) and dispatches it to the DS.
func (m *manager) SetBandPointingModelParams(ctx context.Context, band aggregation.Band, params []float64) error {
	key, ok := pointingParamsKey(band)
	if !ok {
		return fmt.Errorf("unsupported band %q", band)
	}

	if err := validatePointingCoefficients(params); err != nil {
		return err
	}

	if err := m.children[config.DeviceDS].WriteAttributeValue(ctx, key, params); err != nil {
		return err
	}

	m.recordPointingParams(params)

	return nil
}

func (m *manager) ActStaticOffsetValueXel() float64 {
	xel, _ := m.children[config.DeviceDS].ComponentState().Value("actstaticoffsetvaluexel").(float64)
	return xel
}

func (m *manager) ActStaticOffsetValueEl() float64 {
	el, _ := m.children[config.DeviceDS].ComponentState().Value("actstaticoffsetvalueel").(float64)
	return el
}

// SPFRXAttenuations returns the six per-channel attenuation values in
// channel order; channels that have never reported read as zero.
func (m *manager) SPFRXAttenuations() []float64 {
	state := m.children[config.DeviceSPFRX].ComponentState()
	out := make([]float64, 6)

	for i := range out {
		out[i], _ = state.Value(fmt.Sprintf("attenuation%d", i+1)).(float64)
	}

	return out
}

func (m *manager) NoiseDiodeMode() string {
	mode, _ := m.children[config.DeviceSPFRX].ComponentState().Value("noisediodemode").(string)
	return mode
}

func (m *manager) NoiseDiodePeriod() float64 {
	period, _ := m.children[config.DeviceSPFRX].ComponentState().Value("noisediodeperiod").(float64)
	return period
}

func (m *manager) NoiseDiodeDutyCycle() float64 {
	duty, _ := m.children[config.DeviceSPFRX].ComponentState().Value("noisediodedutycycle").(float64)
	return duty
}

func (m *manager) TMCHeartbeatInterval() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.hbInterval
}

// SetTMCHeartbeatInterval arms (seconds > 0) or disarms (seconds == 0) the
// supervisory watchdog.
func (m *manager) SetTMCHeartbeatInterval(seconds float64) error {
	m.mu.Lock()
	m.hbInterval = seconds
	m.mu.Unlock()

	m.state.Set("tmcheartbeatinterval", seconds)

	if seconds > 0 {
		return m.wd.Enable(secondsToDuration(seconds))
	}

	m.wd.Disable()

	return nil
}

func (m *manager) TMCLastHeartbeat() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.hbLast
}

// TMCHeartbeat resets the watchdog and reports the moment it was received,
// in the stable reply format clients match on.
func (m *manager) TMCHeartbeat() (rpc.ResultCode, string) {
	now := time.Now().UTC()

	m.mu.Lock()
	armed := m.hbInterval > 0
	if armed {
		m.hbLast = float64(now.Unix())
	}
	m.mu.Unlock()

	if armed {
		_ = m.wd.Reset()
		m.state.Set("tmclastheartbeat", float64(now.Unix()))
	}

	stamp := now.Format(time.RFC3339)

	m.bus.Publish(bus.Message{Type: bus.EventHeartbeatReceived, Data: bus.StateChanged{Attribute: "tmcLastHeartbeat", Value: stamp}})

	return rpc.ResultOK, "TMC heartbeat received at: " + stamp
}
