package devicemonitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-mid/dish-manager-core/internal/app/proxy"
	"github.com/ska-mid/dish-manager-core/internal/app/rpc"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

func TestMonitor_DeliversSnapshotThenUpdates(t *testing.T) {
	dev := rpc.NewSimulated("ds://1", map[string]interface{}{"operatingmode": "STANDBY_LP"})
	pm := proxy.New(rpc.NewSimulatedDialer(map[string]*rpc.Simulated{"ds://1": dev}), logger.Noop())

	m := New(pm, logger.Noop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := m.Start(ctx, "ds://1", []string{"operatingmode"})

	select {
	case ev := <-sink:
		assert.Equal(t, "operatingmode", ev.Attribute)
		assert.Equal(t, "STANDBY_LP", ev.Value)
	case <-time.After(time.Second):
		t.Fatal("expected snapshot event")
	}

	dev.SetAttribute("operatingmode", "STANDBY_FP", false)

	select {
	case ev := <-sink:
		assert.Equal(t, "STANDBY_FP", ev.Value)
	case <-time.After(time.Second):
		t.Fatal("expected update event")
	}

	m.Stop()
}

func TestMonitor_ErrorFlagAndUnknownSentinelAreInvalid(t *testing.T) {
	dev := rpc.NewSimulated("ds://1", map[string]interface{}{"operatingmode": "STANDBY_LP"})
	pm := proxy.New(rpc.NewSimulatedDialer(map[string]*rpc.Simulated{"ds://1": dev}), logger.Noop())

	m := New(pm, logger.Noop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := m.Start(ctx, "ds://1", []string{"operatingmode"})
	<-sink // drain snapshot

	dev.SetAttribute("operatingmode", "STANDBY_FP", true)

	select {
	case ev := <-sink:
		assert.True(t, ev.ErrorFlag)
	case <-time.After(time.Second):
		t.Fatal("expected error-flagged event")
	}

	dev.SetAttribute("operatingmode", "UNKNOWN", false)

	select {
	case ev := <-sink:
		assert.Equal(t, "UNKNOWN", ev.Value)
	case <-time.After(time.Second):
		t.Fatal("expected unknown-sentinel event")
	}

	m.Stop()
}

func TestMonitor_ResubscribesOnDisconnect(t *testing.T) {
	dev := rpc.NewSimulated("ds://1", map[string]interface{}{"operatingmode": "STANDBY_LP"})
	pm := proxy.New(rpc.NewSimulatedDialer(map[string]*rpc.Simulated{"ds://1": dev}), logger.Noop())

	m := New(pm, logger.Noop()).(*monitor)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := m.Start(ctx, "ds://1", []string{"operatingmode"})
	<-sink // drain snapshot

	dev.Disconnect()
	dev.Reconnect()

	require.Eventually(t, func() bool {
		return m.RunCount() >= 2
	}, 2*time.Second, 10*time.Millisecond)

	m.Stop()
}

func TestMonitor_StartIsIdempotent(t *testing.T) {
	dev := rpc.NewSimulated("ds://1", nil)
	pm := proxy.New(rpc.NewSimulatedDialer(map[string]*rpc.Simulated{"ds://1": dev}), logger.Noop())

	m := New(pm, logger.Noop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s1 := m.Start(ctx, "ds://1", nil)
	s2 := m.Start(ctx, "ds://1", nil)

	assert.Equal(t, s1, s2)
	m.Stop()
}
