// Package watchdog is a single-shot countdown with
// reset/enable/disable semantics that invokes a supplied callback exactly
// once on expiry.
package watchdog

import (
	"sync"
	"time"

	"github.com/ska-mid/dish-manager-core/internal/app/errors"
)

// Callback is invoked exactly once when the watchdog expires without an
// intervening Reset or Disable.
type Callback func()

// Watchdog is a reentrant single-shot timer.
type Watchdog interface {
	// Enable arms the watchdog with timeout, replacing any pending timer.
	// Returns ErrWatchdogTimeout if timeout <= 0.
	Enable(timeout time.Duration) error
	// Reset rearms the existing timer with its last-enabled timeout, cancelling
	// any in-flight countdown. Returns ErrWatchdogInactive if the watchdog is
	// not currently enabled (never enabled, disabled, or already expired).
	Reset() error
	// Disable cancels any pending timer. Idempotent.
	Disable()
}

type watchdog struct {
	callback Callback

	mu      sync.Mutex
	timeout time.Duration
	enabled bool
	timer   *time.Timer
	gen     uint64
}

// New creates a Watchdog that invokes callback on expiry.
func New(callback Callback) Watchdog {
	return &watchdog{callback: callback}
}

func (w *watchdog) Enable(timeout time.Duration) error {
	if timeout <= 0 {
		return errors.ErrWatchdogTimeout
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.timeout = timeout
	w.enabled = true
	w.arm()

	return nil
}

func (w *watchdog) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.enabled {
		return errors.ErrWatchdogInactive
	}

	w.arm()

	return nil
}

func (w *watchdog) Disable() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.enabled = false
	w.gen++

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// arm (re)starts the countdown. Must be called with mu held.
func (w *watchdog) arm() {
	if w.timer != nil {
		w.timer.Stop()
	}

	w.gen++
	gen := w.gen

	w.timer = time.AfterFunc(w.timeout, func() { w.fire(gen) })
}

// fire runs the callback exactly once per arm generation and self-disarms,
// subsequent expirations require a new Enable.
func (w *watchdog) fire(gen uint64) {
	w.mu.Lock()
	if !w.enabled || gen != w.gen {
		w.mu.Unlock()
		return
	}

	w.enabled = false
	w.timer = nil
	w.mu.Unlock()

	if w.callback != nil {
		w.callback()
	}
}
