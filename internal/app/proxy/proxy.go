// Package proxy is the device proxy manager: it owns one cached
// rpc.Device handle per configured address, dials with an exponential
// backoff retry schedule on failure, and transparently redials on a detected
// disconnect.
package proxy

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ska-mid/dish-manager-core/internal/app/errors"
	"github.com/ska-mid/dish-manager-core/internal/app/rpc"
	"github.com/ska-mid/dish-manager-core/internal/config"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// Manager hands out a live rpc.Device for a configured address, dialing (and
// retrying) lazily and caching the result until the device reports a
// disconnect.
type Manager interface {
	// Get returns the cached Device for address, dialing it first if no handle
	// exists yet. It retries the dial per the configured backoff schedule
	// before giving up.
	Get(ctx context.Context, address string) (rpc.Device, error)
	// Invalidate drops any cached handle for address, forcing the next Get to
	// redial. Called by the device monitor when a subscription channel closes
	// unexpectedly.
	Invalidate(address string)
	// Command executes name against address's device with the configured
	// per-command timeout. On an execution error the cached handle is dropped
	// so the next call redials; the failed command itself is not retried.
	Command(ctx context.Context, address, name string, arg interface{}) (rpc.CommandReply, error)
	// Close releases every cached handle.
	Close()
}

type manager struct {
	dial rpc.Dialer
	log  logger.Logger

	attempts int
	initial  time.Duration
	factor   float64
	cmdTO    time.Duration

	mu      sync.Mutex
	handles map[string]rpc.Device
}

// New creates a Manager that dials through dial, using the retry schedule
// from internal/config.
func New(dial rpc.Dialer, log logger.Logger) Manager {
	return &manager{
		dial:     dial,
		log:      log,
		attempts: config.ProxyRetryAttempts,
		initial:  config.ProxyInitialBackoff,
		factor:   config.ProxyBackoffFactor,
		cmdTO:    config.ProxyCommandTimeout,
		handles:  make(map[string]rpc.Device),
	}
}

func (m *manager) Get(ctx context.Context, address string) (rpc.Device, error) {
	m.mu.Lock()
	if dev, ok := m.handles[address]; ok {
		m.mu.Unlock()
		return dev, nil
	}
	m.mu.Unlock()

	dev, err := m.dialWithRetry(ctx, address)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.handles[address] = dev
	m.mu.Unlock()

	return dev, nil
}

func (m *manager) Invalidate(address string) {
	m.mu.Lock()
	dev, ok := m.handles[address]
	delete(m.handles, address)
	m.mu.Unlock()

	if ok {
		_ = dev.Close()
	}
}

func (m *manager) Command(ctx context.Context, address, name string, arg interface{}) (rpc.CommandReply, error) {
	dev, err := m.Get(ctx, address)
	if err != nil {
		return rpc.CommandReply{}, err
	}

	cctx, cancel := context.WithTimeout(ctx, m.cmdTO)
	defer cancel()

	reply, err := dev.ExecuteCommand(cctx, name, arg)
	if err != nil {
		m.Invalidate(address)
		return rpc.CommandReply{}, fmt.Errorf("%w: %w", errors.ErrRemoteFailure, err)
	}

	return reply, nil
}

func (m *manager) Close() {
	m.mu.Lock()
	handles := m.handles
	m.handles = make(map[string]rpc.Device)
	m.mu.Unlock()

	for _, dev := range handles {
		_ = dev.Close()
	}
}

// dialWithRetry dials address, retrying up to m.attempts times with the
// configured backoff schedule.
func (m *manager) dialWithRetry(ctx context.Context, address string) (rpc.Device, error) {
	backoff := m.initial

	var lastErr error

	for attempt := 1; attempt <= m.attempts; attempt++ {
		dev, err := m.dial(ctx, address)
		if err == nil {
			return dev, nil
		}

		lastErr = err

		if m.log != nil {
			m.log.Warn().Err(err).Str("address", address).Int("attempt", attempt).
				Msg("device dial attempt failed")
		}

		if attempt == m.attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}

		backoff = nextBackoff(backoff, m.factor)
	}

	return nil, fmt.Errorf("%w: %s: %w", errors.ErrConnectionFailed, address, lastErr)
}

// nextBackoff multiplies d by factor and rounds to the nearest millisecond.
func nextBackoff(d time.Duration, factor float64) time.Duration {
	ms := float64(d.Milliseconds()) * factor
	return time.Duration(math.Round(ms)) * time.Millisecond
}
