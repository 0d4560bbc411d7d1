package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerRunsPeriodically(t *testing.T) {
	s := New(nil)
	defer s.Stop()

	var count int64

	s.Submit("ping", 10*time.Millisecond, func() {
		atomic.AddInt64(&count, 1)
	})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&count) >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestSchedulerRemove(t *testing.T) {
	s := New(nil)
	defer s.Stop()

	var count int64

	s.Submit("poll", 5*time.Millisecond, func() {
		atomic.AddInt64(&count, 1)
	})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&count) >= 1
	}, time.Second, 5*time.Millisecond)

	s.Remove("poll")
	seen := atomic.LoadInt64(&count)

	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, atomic.LoadInt64(&count), seen+1)
}

func TestSchedulerUpdatePeriodUnknown(t *testing.T) {
	s := New(nil)
	defer s.Stop()

	err := s.UpdatePeriod("missing", time.Second)
	assert.Error(t, err)
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	s := New(nil)
	s.Stop()
	s.Stop()
}
