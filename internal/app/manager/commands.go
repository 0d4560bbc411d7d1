package manager

import (
	"context"
	"time"

	"github.com/ska-mid/dish-manager-core/internal/app/aggregation"
	"github.com/ska-mid/dish-manager-core/internal/app/rpc"
)

// recordInvoked updates lastCommandInvoked, read back by LastCommandInvoked
// regardless of whether the command was accepted.
func (m *manager) recordInvoked(name string) {
	m.mu.Lock()
	m.lastInvoked = name
	m.mu.Unlock()
}

// recordMode updates lastCommandedMode for the five mode-transition commands
// and ConfigureBand commands.
func (m *manager) recordMode(name string) {
	m.mu.Lock()
	m.lastModeTAI = time.Now().UTC().Format(time.RFC3339)
	m.lastModeName = name
	m.mu.Unlock()
}

func (m *manager) recordPointingParams(params interface{}) {
	m.mu.Lock()
	m.lastParams = params
	m.mu.Unlock()
}

func (m *manager) SetStandbyLPMode(ctx context.Context) (rpc.ResultCode, string) {
	m.recordInvoked("SetStandbyLPMode")
	m.recordMode("SetStandbyLPMode")

	return m.engine.Execute(ctx, "SetStandbyLPMode", nil)
}

func (m *manager) SetStandbyFPMode(ctx context.Context) (rpc.ResultCode, string) {
	m.recordInvoked("SetStandbyFPMode")
	m.recordMode("SetStandbyFPMode")

	return m.engine.Execute(ctx, "SetStandbyFPMode", nil)
}

func (m *manager) SetOperateMode(ctx context.Context) (rpc.ResultCode, string) {
	m.recordInvoked("SetOperateMode")
	m.recordMode("SetOperateMode")

	return m.engine.Execute(ctx, "SetOperateMode", nil)
}

func (m *manager) SetStowMode(ctx context.Context) (rpc.ResultCode, string) {
	m.recordInvoked("SetStowMode")
	m.recordMode("SetStowMode")

	return m.engine.Execute(ctx, "SetStowMode", nil)
}

func (m *manager) SetMaintenanceMode(ctx context.Context) (rpc.ResultCode, string) {
	m.recordInvoked("SetMaintenanceMode")
	m.recordMode("SetMaintenanceMode")

	return m.engine.Execute(ctx, "SetMaintenanceMode", nil)
}

// bandCommand maps a Band to its ConfigureBandN command name. Unlike
// commandmap's own (unexported) reverse mapping, this is the public entry
// point a front-end calls with the band it wants configured.
func bandCommand(band aggregation.Band) (string, bool) {
	switch band {
	case aggregation.Band1:
		return "ConfigureBand1", true
	case aggregation.Band2:
		return "ConfigureBand2", true
	case aggregation.Band3:
		return "ConfigureBand3", true
	case aggregation.Band4:
		return "ConfigureBand4", true
	case aggregation.Band5a:
		return "ConfigureBand5a", true
	case aggregation.Band5b:
		return "ConfigureBand5b", true
	default:
		return "", false
	}
}

func (m *manager) ConfigureBand(ctx context.Context, band aggregation.Band) (rpc.ResultCode, string) {
	cmd, ok := bandCommand(band)
	if !ok {
		return rpc.ResultRejected, "unsupported band"
	}

	m.recordInvoked(cmd)
	m.recordMode(cmd)

	return m.engine.Execute(ctx, cmd, true)
}

func (m *manager) Track(ctx context.Context) (rpc.ResultCode, string) {
	m.recordInvoked("Track")
	return m.engine.Execute(ctx, "Track", nil)
}

func (m *manager) TrackStop(ctx context.Context) (rpc.ResultCode, string) {
	m.recordInvoked("TrackStop")
	return m.engine.Execute(ctx, "TrackStop", nil)
}

func (m *manager) Slew(ctx context.Context, azEl []float64) (rpc.ResultCode, string) {
	m.recordInvoked("Slew")
	return m.engine.Execute(ctx, "Slew", azEl)
}

func (m *manager) Scan(ctx context.Context, id string) (rpc.ResultCode, string) {
	m.recordInvoked("Scan")
	return m.engine.Execute(ctx, "Scan", id)
}

func (m *manager) EndScan(ctx context.Context) (rpc.ResultCode, string) {
	m.recordInvoked("EndScan")
	return m.engine.Execute(ctx, "EndScan", nil)
}

func (m *manager) TrackLoadStaticOff(ctx context.Context, xelEl []float64) (rpc.ResultCode, string) {
	m.recordInvoked("TrackLoadStaticOff")
	m.recordPointingParams(xelEl)

	return m.engine.Execute(ctx, "TrackLoadStaticOff", xelEl)
}

func (m *manager) ResetTrackTable(ctx context.Context) (rpc.ResultCode, string) {
	m.recordInvoked("ResetTrackTable")
	return m.engine.Execute(ctx, "ResetTrackTable", nil)
}

func (m *manager) SetKValue(ctx context.Context, k int) (rpc.ResultCode, string) {
	m.recordInvoked("SetKValue")
	code, id := m.engine.Execute(ctx, "SetKValue", k)

	if code == rpc.ResultQueued {
		m.mu.Lock()
		m.kValue = k
		m.mu.Unlock()

		m.state.Set("kvalue", k)
	}

	return code, id
}

func (m *manager) ApplyPointingModel(ctx context.Context, payload []byte) (rpc.ResultCode, string) {
	arg, err := parsePointingModel(payload, m.cfg.AntennaID)
	if err != nil {
		return rpc.ResultRejected, err.Error()
	}

	return m.engine.Execute(ctx, "ApplyPointingModel", arg)
}

func (m *manager) Abort(ctx context.Context) (rpc.ResultCode, string) {
	return m.abortSeq.Execute(ctx)
}

// AbortCommands is a deprecated alias for Abort, kept for clients that have
// not yet migrated to the renamed command.
func (m *manager) AbortCommands(ctx context.Context) (rpc.ResultCode, string) {
	if m.log != nil {
		m.log.Warn().Msg("AbortCommands is deprecated; use Abort")
	}

	return m.Abort(ctx)
}
