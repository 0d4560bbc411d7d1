package component

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-mid/dish-manager-core/internal/app/compstate"
	"github.com/ska-mid/dish-manager-core/internal/app/devicemonitor"
	"github.com/ska-mid/dish-manager-core/internal/app/proxy"
	"github.com/ska-mid/dish-manager-core/internal/app/rpc"
	"github.com/ska-mid/dish-manager-core/internal/app/tracker"
)

const dsAddr = "tango://ds"

func newTestDS(t *testing.T) (Manager, *rpc.Simulated) {
	t.Helper()

	sim := rpc.NewSimulated(dsAddr, map[string]interface{}{
		"operatingmode": 2, // STANDBY_LP
		"buildstate":    "1.0.0",
	})

	dialer := rpc.NewSimulatedDialer(map[string]*rpc.Simulated{dsAddr: sim})
	proxies := proxy.New(dialer, nil)
	mon := devicemonitor.New(proxies, nil)

	return New(NewDSICD(), dsAddr, proxies, mon, nil), sim
}

func TestComponentManagerTranslatesAndCommits(t *testing.T) {
	m, _ := newTestDS(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.StartCommunicating(ctx)
	defer m.StopCommunicating()

	assert.Eventually(t, func() bool {
		e, ok := m.ComponentState().Get("operatingmode")
		return ok && e.Value == "STANDBY_LP"
	}, time.Second, time.Millisecond)

	assert.Equal(t, compstate.CommunicationEstablished, m.CommunicationState())
}

func TestComponentManagerBuildStateReportedOnce(t *testing.T) {
	m, _ := newTestDS(t)

	var reported []string

	m.OnBuildState(func(bs string) { reported = append(reported, bs) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.StartCommunicating(ctx)
	defer m.StopCommunicating()

	assert.Eventually(t, func() bool { return len(reported) == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, reported, 1)
}

func TestComponentManagerRejectsCommandWhenNotEstablished(t *testing.T) {
	m, _ := newTestDS(t)

	status, _ := m.ExecuteCommand(context.Background(), "SetStandbyFPMode", nil)
	assert.Equal(t, tracker.StatusRejected, status)
}

func TestComponentManagerCommandInProgress(t *testing.T) {
	m, sim := newTestDS(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.StartCommunicating(ctx)
	defer m.StopCommunicating()

	assert.Eventually(t, func() bool {
		return m.CommunicationState() == compstate.CommunicationEstablished
	}, time.Second, time.Millisecond)

	sim.RegisterCommand("SetStandbyFPMode", func(arg interface{}) (rpc.CommandReply, error) {
		return rpc.CommandReply{Code: rpc.ResultStarted, Message: "started"}, nil
	})

	status, msg := m.ExecuteCommand(ctx, "SetStandbyFPMode", nil)
	require.Equal(t, tracker.StatusInProgress, status)
	assert.Equal(t, "started", msg)
}

func TestComponentManagerCommunicationStateMirrorsOnInvalidate(t *testing.T) {
	m, sim := newTestDS(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.StartCommunicating(ctx)
	defer m.StopCommunicating()

	assert.Eventually(t, func() bool {
		return m.CommunicationState() == compstate.CommunicationEstablished
	}, time.Second, time.Millisecond)

	var transitions []compstate.CommunicationStatus

	m.OnCommunicationStateChange(func(s compstate.CommunicationStatus) {
		transitions = append(transitions, s)
	})

	sim.Disconnect()

	assert.Eventually(t, func() bool {
		e, ok := m.ComponentState().Get("operatingmode")
		return ok && e.Quality == compstate.QualityInvalid
	}, time.Second, time.Millisecond)
}

func TestComponentManagerSeedsEverySchemaKey(t *testing.T) {
	m, _ := newTestDS(t)

	state := m.ComponentState()

	for _, attr := range NewDSICD().Attributes() {
		e, ok := state.Get(attr)
		require.True(t, ok, "attribute %s must be pre-populated", attr)
		assert.Equal(t, compstate.QualityInvalid, e.Quality, attr)
	}

	e, _ := state.Get("operatingmode")
	assert.Equal(t, "UNKNOWN", e.Value)
}
