package watchdog

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-mid/dish-manager-core/internal/app/errors"
)

func TestWatchdogFiresOnExpiry(t *testing.T) {
	var fired int64

	w := New(func() { atomic.AddInt64(&fired, 1) })
	require.NoError(t, w.Enable(10*time.Millisecond))

	assert.Eventually(t, func() bool { return atomic.LoadInt64(&fired) == 1 }, time.Second, time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt64(&fired), "must fire exactly once")
}

func TestWatchdogResetExtendsDeadline(t *testing.T) {
	var fired int64

	w := New(func() { atomic.AddInt64(&fired, 1) })
	require.NoError(t, w.Enable(30 * time.Millisecond))

	time.Sleep(15 * time.Millisecond)
	require.NoError(t, w.Reset())
	time.Sleep(20 * time.Millisecond)

	assert.EqualValues(t, 0, atomic.LoadInt64(&fired), "reset should have pushed the deadline out")

	assert.Eventually(t, func() bool { return atomic.LoadInt64(&fired) == 1 }, time.Second, time.Millisecond)
}

func TestWatchdogResetBeforeEnableErrors(t *testing.T) {
	w := New(func() {})
	assert.ErrorIs(t, w.Reset(), errors.ErrWatchdogInactive)
}

func TestWatchdogEnableNonPositiveTimeout(t *testing.T) {
	w := New(func() {})
	assert.Error(t, w.Enable(0))
	assert.Error(t, w.Enable(-time.Second))
}

func TestWatchdogDisableCancelsPendingFire(t *testing.T) {
	var fired int64

	w := New(func() { atomic.AddInt64(&fired, 1) })
	require.NoError(t, w.Enable(10 * time.Millisecond))
	w.Disable()

	time.Sleep(30 * time.Millisecond)
	assert.EqualValues(t, 0, atomic.LoadInt64(&fired))
}
