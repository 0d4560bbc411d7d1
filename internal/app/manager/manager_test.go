package manager

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-mid/dish-manager-core/internal/app/aggregation"
	"github.com/ska-mid/dish-manager-core/internal/app/bus"
	"github.com/ska-mid/dish-manager-core/internal/app/dishmode"
	"github.com/ska-mid/dish-manager-core/internal/app/proxy"
	"github.com/ska-mid/dish-manager-core/internal/app/rpc"
	"github.com/ska-mid/dish-manager-core/internal/app/scheduler"
	"github.com/ska-mid/dish-manager-core/internal/app/tracker"
	"github.com/ska-mid/dish-manager-core/internal/config"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

type simRig struct {
	mgr  Manager
	trk  tracker.Tracker
	sims map[string]*rpc.Simulated
}

func newSimRig(t *testing.T) *simRig {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.PropertyStorePath = filepath.Join(t.TempDir(), "props.json")
	cfg.LRC.Timeout = 2 * time.Second

	seeds := map[string]map[string]interface{}{
		config.DeviceDS: {
			"operatingmode":   "STANDBY_LP",
			"powerstate":      "LOW_POWER",
			"pointingstate":   "READY",
			"indexerposition": "UNKNOWN",
		},
		config.DeviceSPF: {
			"operatingmode": "STANDBY_LP",
			"powerstate":    "LOW_POWER",
			"healthstate":   "OK",
		},
		config.DeviceSPFRX: {
			"operatingmode": "STANDBY",
			"healthstate":   "OK",
			"capturingdata": false,
		},
		config.DeviceB5DC: {"plllock": true},
		config.DeviceWMS:  {"windspeed": 3.5},
	}

	sims := make(map[string]*rpc.Simulated, len(seeds))
	registry := make(map[string]*rpc.Simulated, len(seeds))

	for name, attrs := range seeds {
		sim := rpc.NewSimulated(cfg.Devices[name].Address, attrs)
		sims[name] = sim
		registry[cfg.Devices[name].Address] = sim
	}

	log := logger.Noop()
	proxies := proxy.New(rpc.NewSimulatedDialer(registry), log)
	sched := scheduler.New(log)
	trk := tracker.New(64)

	mgr, err := New(cfg, log, bus.NoOp(), proxies, sched, trk)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	mgr.StartCommunicating(ctx)

	t.Cleanup(func() {
		mgr.StopCommunicating()
		sched.Stop()
		cancel()
	})

	return &simRig{mgr: mgr, trk: trk, sims: sims}
}

func (r *simRig) awaitMode(t *testing.T, mode dishmode.Mode) {
	t.Helper()

	require.Eventually(t, func() bool {
		return r.mgr.DishMode() == mode
	}, 5*time.Second, 5*time.Millisecond, "dishMode never reached %s", mode)
}

func (r *simRig) awaitResult(t *testing.T, id string) (rpc.ResultCode, string) {
	t.Helper()

	var (
		code rpc.ResultCode
		msg  string
	)

	require.Eventually(t, func() bool {
		rec, ok := r.trk.Get(id)
		if !ok {
			return false
		}

		switch rec.GetStatus() {
		case tracker.StatusCompleted, tracker.StatusFailed, tracker.StatusAborted, tracker.StatusRejected:
			code, msg = rec.Result()
			return true
		}

		return false
	}, 5*time.Second, 5*time.Millisecond)

	return code, msg
}

// scriptStandbyFPTransition makes the simulated children respond to the
// SetStandbyFPMode fan-out the way live controllers would.
func (r *simRig) scriptStandbyFPTransition() {
	ds := r.sims[config.DeviceDS]
	ds.RegisterCommand("SetStandbyFPMode", func(interface{}) (rpc.CommandReply, error) {
		ds.SetAttribute("operatingmode", "STANDBY_FP", false)
		return rpc.CommandReply{Code: rpc.ResultStarted}, nil
	})
	ds.RegisterCommand("SetPowerMode", func(interface{}) (rpc.CommandReply, error) {
		ds.SetAttribute("powerstate", "FULL_POWER", false)
		return rpc.CommandReply{Code: rpc.ResultStarted}, nil
	})

	spf := r.sims[config.DeviceSPF]
	spf.RegisterCommand("SetOperateMode", func(interface{}) (rpc.CommandReply, error) {
		spf.SetAttribute("operatingmode", "OPERATE", false)
		return rpc.CommandReply{Code: rpc.ResultStarted}, nil
	})

	spfrx := r.sims[config.DeviceSPFRX]
	spfrx.RegisterCommand("SetStandbyMode", func(interface{}) (rpc.CommandReply, error) {
		spfrx.SetAttribute("operatingmode", "STANDBY", false)
		return rpc.CommandReply{Code: rpc.ResultStarted}, nil
	})
}

func TestInitialAggregationFromSeededChildren(t *testing.T) {
	r := newSimRig(t)

	r.awaitMode(t, dishmode.StandbyLP)
	assert.Equal(t, aggregation.PowerLow, r.mgr.PowerState())
	assert.Equal(t, aggregation.HealthOK, r.mgr.HealthState())
	assert.Equal(t, aggregation.PointingReady, r.mgr.PointingState())
}

func TestSetStandbyFPModeHappyPath(t *testing.T) {
	r := newSimRig(t)
	r.awaitMode(t, dishmode.StandbyLP)
	r.scriptStandbyFPTransition()

	code, id := r.mgr.SetStandbyFPMode(context.Background())
	require.Equal(t, rpc.ResultQueued, code)

	resultCode, msg := r.awaitResult(t, id)
	assert.Equal(t, rpc.ResultOK, resultCode)
	assert.Equal(t, "SetStandbyFPMode completed", msg)

	r.awaitMode(t, dishmode.StandbyFP)

	require.Eventually(t, func() bool {
		return r.mgr.PowerState() == aggregation.PowerFull
	}, 5*time.Second, 5*time.Millisecond)

	rec, ok := r.trk.Get(id)
	require.True(t, ok)

	progress := strings.Join(rec.Progress(), "\n")
	assert.Contains(t, progress, "Fanned out commands: DS.SetStandbyFPMode, DS.SetPowerMode")
	assert.Contains(t, progress, "Awaiting dishmode change to STANDBY_FP")
	assert.Contains(t, progress, "SetStandbyFPMode completed")
}

func TestSetOperateModeRejectedWithoutConfiguredBand(t *testing.T) {
	r := newSimRig(t)
	r.awaitMode(t, dishmode.StandbyLP)
	r.scriptStandbyFPTransition()

	_, id := r.mgr.SetStandbyFPMode(context.Background())
	r.awaitResult(t, id)
	r.awaitMode(t, dishmode.StandbyFP)

	_, id = r.mgr.SetOperateMode(context.Background())

	code, msg := r.awaitResult(t, id)
	assert.Equal(t, rpc.ResultRejected, code)
	assert.Equal(t, "SetOperateMode requires a configured band", msg)
}

func TestConfigureBand2FromStandbyFP(t *testing.T) {
	r := newSimRig(t)
	r.awaitMode(t, dishmode.StandbyLP)
	r.scriptStandbyFPTransition()

	_, id := r.mgr.SetStandbyFPMode(context.Background())
	r.awaitResult(t, id)
	r.awaitMode(t, dishmode.StandbyFP)

	ds := r.sims[config.DeviceDS]
	ds.RegisterCommand("SetIndexPosition", func(arg interface{}) (rpc.CommandReply, error) {
		ds.SetAttribute("indexerposition", arg, false)
		return rpc.CommandReply{Code: rpc.ResultStarted}, nil
	})

	code, id := r.mgr.ConfigureBand(context.Background(), aggregation.Band2)
	require.Equal(t, rpc.ResultQueued, code)

	resultCode, msg := r.awaitResult(t, id)
	assert.Equal(t, rpc.ResultOK, resultCode)
	assert.Equal(t, "ConfigureBand2 completed", msg)
	assert.Equal(t, aggregation.Band2, r.mgr.ConfiguredBand())
}

func TestAbortMidTransition(t *testing.T) {
	r := newSimRig(t)
	r.awaitMode(t, dishmode.StandbyLP)

	// No scripted children yet: the fan-out dispatches but its awaited
	// predicate cannot hold.
	_, original := r.mgr.SetStandbyFPMode(context.Background())

	require.Eventually(t, func() bool {
		rec, ok := r.trk.Get(original)
		return ok && rec.GetStatus() == tracker.StatusInProgress
	}, 2*time.Second, 2*time.Millisecond)

	// Script the transition for the abort sequence's own SetStandbyFPMode.
	r.scriptStandbyFPTransition()

	code, abortID := r.mgr.Abort(context.Background())
	require.Equal(t, rpc.ResultQueued, code)

	origCode, origMsg := r.awaitResult(t, original)
	assert.Equal(t, rpc.ResultAborted, origCode)
	assert.Contains(t, origMsg, "SetStandbyFPMode Aborted")

	abortCode, abortMsg := r.awaitResult(t, abortID)
	assert.Equal(t, rpc.ResultOK, abortCode)
	assert.Equal(t, "Abort sequence completed", abortMsg)

	require.Eventually(t, func() bool {
		return len(r.mgr.LongRunningCommandsInQueue()) == 0
	}, 5*time.Second, 5*time.Millisecond)
}

func TestSecondAbortRejected(t *testing.T) {
	r := newSimRig(t)
	r.awaitMode(t, dishmode.StandbyLP)

	_, _ = r.mgr.Abort(context.Background())

	code, msg := r.mgr.Abort(context.Background())

	assert.Equal(t, rpc.ResultRejected, code)
	assert.Equal(t, "Existing Abort sequence ongoing", msg)
}

func TestHeartbeatWatchdogStowsOnExpiry(t *testing.T) {
	r := newSimRig(t)
	r.awaitMode(t, dishmode.StandbyLP)

	ds := r.sims[config.DeviceDS]
	ds.RegisterCommand("Stow", func(interface{}) (rpc.CommandReply, error) {
		ds.SetAttribute("operatingmode", "STOW", false)
		return rpc.CommandReply{Code: rpc.ResultStarted}, nil
	})

	require.NoError(t, r.mgr.SetTMCHeartbeatInterval(0.2))

	r.awaitMode(t, dishmode.Stow)

	require.Eventually(t, func() bool {
		return r.mgr.TMCHeartbeatInterval() == 0 && r.mgr.TMCLastHeartbeat() == 0
	}, 2*time.Second, 5*time.Millisecond)
}

func TestTMCHeartbeatResetsWatchdog(t *testing.T) {
	r := newSimRig(t)
	r.awaitMode(t, dishmode.StandbyLP)

	require.NoError(t, r.mgr.SetTMCHeartbeatInterval(5))

	code, msg := r.mgr.TMCHeartbeat()
	assert.Equal(t, rpc.ResultOK, code)
	assert.True(t, strings.HasPrefix(msg, "TMC heartbeat received at: "))
	assert.Greater(t, r.mgr.TMCLastHeartbeat(), 0.0)
}

func TestSlewArityRejectedSynchronously(t *testing.T) {
	r := newSimRig(t)

	code, msg := r.mgr.Slew(context.Background(), []float64{22.0})

	assert.Equal(t, rpc.ResultRejected, code)
	assert.Equal(t, "Expected 2 arguments (az, el) but got 1 arg(s).", msg)
}

func TestProgramTrackTableValidation(t *testing.T) {
	r := newSimRig(t)
	r.awaitMode(t, dishmode.StandbyLP)

	ctx := context.Background()

	err := r.mgr.SetProgramTrackTable(ctx, []float64{1, 2})
	assert.ErrorContains(t, err, "multiple of 3")

	stale := float64(time.Now().Unix()) - 100
	err = r.mgr.SetProgramTrackTable(ctx, []float64{stale, 0, 50})
	assert.ErrorContains(t, err, "in the future")

	future := float64(time.Now().Unix()) + 60
	err = r.mgr.SetProgramTrackTable(ctx, []float64{future, 0, 50, future, 1, 51})
	assert.ErrorContains(t, err, "strictly increasing")

	good := []float64{future, 0, 50, future + 1, 1, 51}
	require.NoError(t, r.mgr.SetProgramTrackTable(ctx, good))
	assert.Equal(t, good, r.mgr.ProgramTrackTable())
}

func pointingModelJSON(antenna, band string, names []string) []byte {
	coeffs := make([]string, 0, len(names))
	for _, n := range names {
		coeffs = append(coeffs, fmt.Sprintf("%q: {\"value\": 1.0}", n))
	}

	return []byte(fmt.Sprintf(`{
		"interface": "https://schema.skao.int/ska-mid-dish-gpm/1.2",
		"antenna": %q,
		"band": %q,
		"coefficients": {%s}
	}`, antenna, band, strings.Join(coeffs, ", ")))
}

var canonicalCoefficients = []string{
	"IA", "CA", "NPAE", "AN", "AN0", "AW", "AW0", "ACEC", "ACES",
	"ABA", "ABphi", "IE", "ECEC", "ECES", "HECE4", "HESE4", "HECE8", "HESE8",
}

func TestApplyPointingModelRejections(t *testing.T) {
	r := newSimRig(t)
	ctx := context.Background()

	code, msg := r.mgr.ApplyPointingModel(ctx, pointingModelJSON("SKA999", "Band_2", canonicalCoefficients))
	assert.Equal(t, rpc.ResultRejected, code)
	assert.Equal(t, "Command rejected. The Dish id SKA001 and the Antenna's value SKA999 are not equal.", msg)

	code, msg = r.mgr.ApplyPointingModel(ctx, pointingModelJSON("SKA001", "Band_7", canonicalCoefficients))
	assert.Equal(t, rpc.ResultRejected, code)
	assert.Equal(t, "Unsupported Band: Band_7", msg)

	shuffled := append([]string{"CA", "IA"}, canonicalCoefficients[2:]...)
	code, msg = r.mgr.ApplyPointingModel(ctx, pointingModelJSON("SKA001", "Band_2", shuffled))
	assert.Equal(t, rpc.ResultRejected, code)
	assert.Contains(t, msg, "Coefficients are missing or not in the correct order")
	assert.Contains(t, msg, "CA, IA")
}

func TestApplyPointingModelWritesThroughToDS(t *testing.T) {
	r := newSimRig(t)
	r.awaitMode(t, dishmode.StandbyLP)

	code, _ := r.mgr.ApplyPointingModel(context.Background(), pointingModelJSON("SKA001", "Band_2", canonicalCoefficients))
	require.Equal(t, rpc.ResultQueued, code)

	require.Eventually(t, func() bool {
		states := r.mgr.GetComponentStates()
		vec, ok := states[config.DeviceDS]["band2pointingmodelparams"].Value.([]float64)

		return ok && len(vec) == 18 && vec[0] == 1.0
	}, 5*time.Second, 5*time.Millisecond)
}

func TestScanSetsScanID(t *testing.T) {
	r := newSimRig(t)
	r.awaitMode(t, dishmode.StandbyLP)

	_, id := r.mgr.Scan(context.Background(), "scan-7")
	code, _ := r.awaitResult(t, id)
	require.Equal(t, rpc.ResultOK, code)

	assert.Equal(t, "scan-7", r.mgr.ScanID())

	_, id = r.mgr.EndScan(context.Background())
	code, _ = r.awaitResult(t, id)
	require.Equal(t, rpc.ResultOK, code)

	assert.Equal(t, "", r.mgr.ScanID())
}

func TestIgnoreFlagsPersistAcrossRestart(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PropertyStorePath = filepath.Join(t.TempDir(), "props.json")

	r := newSimRigWithConfig(t, cfg)
	require.NoError(t, r.mgr.SetIgnoreSPF(true))
	r.mgr.StopCommunicating()

	r2 := newSimRigWithConfig(t, cfg)
	assert.True(t, r2.mgr.IgnoreSPF())
	assert.False(t, r2.mgr.IgnoreSPFRX())
}

func newSimRigWithConfig(t *testing.T, cfg *config.Config) *simRig {
	t.Helper()

	registry := make(map[string]*rpc.Simulated, len(cfg.Devices))
	sims := make(map[string]*rpc.Simulated, len(cfg.Devices))

	for name, dev := range cfg.Devices {
		sim := rpc.NewSimulated(dev.Address, map[string]interface{}{})
		sims[name] = sim
		registry[dev.Address] = sim
	}

	log := logger.Noop()
	proxies := proxy.New(rpc.NewSimulatedDialer(registry), log)
	sched := scheduler.New(log)
	trk := tracker.New(16)

	mgr, err := New(cfg, log, bus.NoOp(), proxies, sched, trk)
	require.NoError(t, err)

	t.Cleanup(func() {
		mgr.StopCommunicating()
		sched.Stop()
	})

	return &simRig{mgr: mgr, trk: trk, sims: sims}
}

func TestGetComponentStatesIncludesRolledUpView(t *testing.T) {
	r := newSimRig(t)
	r.awaitMode(t, dishmode.StandbyLP)

	states := r.mgr.GetComponentStates()

	assert.Contains(t, states, "dish")
	assert.Contains(t, states, config.DeviceDS)
	assert.Contains(t, states, config.DeviceWMS)

	mode, _ := states["dish"]["dishmode"].Value.(dishmode.Mode)
	assert.Equal(t, dishmode.StandbyLP, mode)
}

func TestWindAggregatesFollowWMS(t *testing.T) {
	r := newSimRig(t)
	r.awaitMode(t, dishmode.StandbyLP)

	require.Eventually(t, func() bool {
		return r.mgr.MeanWindSpeed() > 0
	}, 5*time.Second, 5*time.Millisecond)

	r.sims[config.DeviceWMS].SetAttribute("windspeed", 12.0, false)

	require.Eventually(t, func() bool {
		return r.mgr.WindGust() == 12.0
	}, 5*time.Second, 5*time.Millisecond)
}

func TestBandPointingModelParamsDirectWrite(t *testing.T) {
	r := newSimRig(t)
	r.awaitMode(t, dishmode.StandbyLP)

	ctx := context.Background()

	params := make([]float64, 18)
	for i := range params {
		params[i] = float64(i)
	}

	require.NoError(t, r.mgr.SetBandPointingModelParams(ctx, aggregation.Band2, params))

	require.Eventually(t, func() bool {
		got := r.mgr.BandPointingModelParams(aggregation.Band2)
		return len(got) == 18 && got[17] == 17.0
	}, 5*time.Second, 5*time.Millisecond)
}

func TestSetBandPointingModelParamsValidation(t *testing.T) {
	r := newSimRig(t)
	ctx := context.Background()

	err := r.mgr.SetBandPointingModelParams(ctx, aggregation.Band2, []float64{1, 2, 3})
	assert.ErrorContains(t, err, "expected 18 pointing model coefficients, got 3")

	params := make([]float64, 18)
	params[10] = 400 // ABphi outside [0, 360]
	err = r.mgr.SetBandPointingModelParams(ctx, aggregation.Band2, params)
	assert.ErrorContains(t, err, "coefficient ABphi out of range")

	params[10] = 90
	params[0] = -2500
	err = r.mgr.SetBandPointingModelParams(ctx, aggregation.Band2, params)
	assert.ErrorContains(t, err, "coefficient IA out of range")

	err = r.mgr.SetBandPointingModelParams(ctx, aggregation.BandNone, make([]float64, 18))
	assert.ErrorContains(t, err, "unsupported band")
}

func TestSyncComponentStatesRefreshesFromDevices(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PropertyStorePath = filepath.Join(t.TempDir(), "props.json")

	r := newSimRigWithConfig(t, cfg)

	// No monitors are running; values change silently on the devices.
	r.sims[config.DeviceDS].SetAttribute("operatingmode", "STANDBY_LP", false)
	r.sims[config.DeviceDS].SetAttribute("pointingstate", "READY", false)
	r.sims[config.DeviceSPF].SetAttribute("operatingmode", "STANDBY_LP", false)
	r.sims[config.DeviceSPFRX].SetAttribute("operatingmode", "STANDBY", false)

	r.mgr.SyncComponentStates(context.Background())

	assert.Equal(t, dishmode.StandbyLP, r.mgr.DishMode())
	assert.Equal(t, aggregation.PointingReady, r.mgr.PointingState())
}

func TestAttributeReadAccessors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PropertyStorePath = filepath.Join(t.TempDir(), "props.json")

	r := newSimRigWithConfig(t, cfg)

	ds := r.sims[config.DeviceDS]
	ds.SetAttribute("actstaticoffsetvaluexel", 1.25, false)
	ds.SetAttribute("actstaticoffsetvalueel", -0.5, false)

	spfrx := r.sims[config.DeviceSPFRX]
	for i := 1; i <= 6; i++ {
		spfrx.SetAttribute(fmt.Sprintf("attenuation%d", i), float64(i), false)
	}
	spfrx.SetAttribute("noisediodemode", "PERIODIC", false)
	spfrx.SetAttribute("noisediodeperiod", 2.0, false)
	spfrx.SetAttribute("noisediodedutycycle", 0.5, false)

	r.mgr.SyncComponentStates(context.Background())

	assert.Equal(t, 1.25, r.mgr.ActStaticOffsetValueXel())
	assert.Equal(t, -0.5, r.mgr.ActStaticOffsetValueEl())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, r.mgr.SPFRXAttenuations())
	assert.Equal(t, "PERIODIC", r.mgr.NoiseDiodeMode())
	assert.Equal(t, 2.0, r.mgr.NoiseDiodePeriod())
	assert.Equal(t, 0.5, r.mgr.NoiseDiodeDutyCycle())
}
