// Package scheduler is the command scheduler: a thread-safe min-heap of
// periodic callables (the SPFRX 30s MonitorPing) drained by a
// single worker goroutine.
package scheduler

import (
	"container/heap"
	"sync"
	"time"

	"github.com/ska-mid/dish-manager-core/internal/app/crash"
	"github.com/ska-mid/dish-manager-core/internal/app/errors"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// Callable is a short-lived unit of periodic work. Only short callables
// (ping, poll) belong here; the worker never preempts a long execution.
type Callable func()

// Scheduler runs named callables on a fixed period until removed or Stop'd.
type Scheduler interface {
	// Submit schedules callable to run every period, starting after the first
	// period elapses. Submitting an existing name replaces it.
	Submit(name string, period time.Duration, callable Callable)
	// Remove cancels a scheduled callable. A no-op if name is unknown.
	Remove(name string)
	// UpdatePeriod changes the period of an already-scheduled callable, taking
	// effect on its next run. Returns ErrTaskNotFound if unknown.
	UpdatePeriod(name string, period time.Duration) error
	// Stop tears down the worker goroutine. Idempotent.
	Stop()
}

type task struct {
	name     string
	period   time.Duration
	next     time.Time
	callable Callable
	index    int
}

// taskHeap is a container/heap of tasks ordered by next-run-time.
type taskHeap []*task

func (h taskHeap) Len() int            { return len(h) }
func (h taskHeap) Less(i, j int) bool  { return h[i].next.Before(h[j].next) }
func (h taskHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *taskHeap) Push(x interface{}) { t := x.(*task); t.index = len(*h); *h = append(*h, t) }

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]

	return t
}

type scheduler struct {
	log logger.Logger
	now func() time.Time

	mu      sync.Mutex
	heap    taskHeap
	byName  map[string]*task
	wake    chan struct{}
	stop    chan struct{}
	stopped bool
	done    chan struct{}
}

// New creates a Scheduler and starts its worker goroutine.
func New(log logger.Logger) Scheduler {
	s := &scheduler{
		log:    log,
		now:    time.Now,
		byName: make(map[string]*task),
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	go s.run()

	return s
}

func (s *scheduler) Submit(name string, period time.Duration, callable Callable) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byName[name]; ok {
		heap.Remove(&s.heap, existing.index)
	}

	t := &task{name: name, period: period, next: s.now().Add(period), callable: callable}
	s.byName[name] = t
	heap.Push(&s.heap, t)

	s.nudge()
}

func (s *scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byName[name]
	if !ok {
		return
	}

	delete(s.byName, name)
	heap.Remove(&s.heap, t.index)

	s.nudge()
}

func (s *scheduler) UpdatePeriod(name string, period time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byName[name]
	if !ok {
		return errors.ErrTaskNotFound
	}

	t.period = period

	s.nudge()

	return nil
}

func (s *scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}

	s.stopped = true
	s.mu.Unlock()

	close(s.stop)
	<-s.done
}

// nudge wakes the worker if it is blocked waiting on an empty heap or a
// farther-out head. Must be called with mu held.
func (s *scheduler) nudge() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// run is the single worker loop: pop the head, re-enqueue from execution
// end, then execute outside the lock.
func (s *scheduler) run() {
	defer close(s.done)

	for {
		s.mu.Lock()
		var wait time.Duration

		if len(s.heap) == 0 {
			wait = 24 * time.Hour
		} else {
			wait = s.heap[0].next.Sub(s.now())
		}
		s.mu.Unlock()

		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)

		select {
		case <-s.stop:
			timer.Stop()
			return
		case <-s.wake:
			timer.Stop()
			continue
		case <-timer.C:
		}

		s.mu.Lock()
		if len(s.heap) == 0 || s.heap[0].next.After(s.now()) {
			s.mu.Unlock()
			continue
		}

		t := heap.Pop(&s.heap).(*task)
		s.mu.Unlock()

		s.execute(t)
	}
}

func (s *scheduler) execute(t *task) {
	defer func() {
		if r := recover(); r != nil {
			crash.Capture("SCHEDULER", r)

			if s.log != nil {
				s.log.Error().Msgf("scheduled task %s panicked: %v", t.name, r)
			}
		}

		s.mu.Lock()
		if _, stillTracked := s.byName[t.name]; stillTracked {
			t.next = s.now().Add(t.period)
			heap.Push(&s.heap, t)
		}
		s.mu.Unlock()
	}()

	t.callable()
}
