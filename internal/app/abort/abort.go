// Package abort is the abort sequencer: a single in-flight ordered
// TrackStop -> SetStandbyFPMode -> EndScan -> ResetTrackTable sequence,
// stoppable via the shared abort event commandmap.Engine already exposes.
package abort

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ska-mid/dish-manager-core/internal/app/aggregation"
	"github.com/ska-mid/dish-manager-core/internal/app/commandmap"
	"github.com/ska-mid/dish-manager-core/internal/app/component"
	"github.com/ska-mid/dish-manager-core/internal/app/crash"
	"github.com/ska-mid/dish-manager-core/internal/app/dishmode"
	"github.com/ska-mid/dish-manager-core/internal/app/rpc"
	"github.com/ska-mid/dish-manager-core/internal/app/tracker"
	"github.com/ska-mid/dish-manager-core/internal/config"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// Sequencer runs the ordered abort sequence.
type Sequencer struct {
	engine   *commandmap.Engine
	ds       component.Manager
	snapshot commandmap.SnapshotFunc
	trk      tracker.Tracker
	log      logger.Logger

	mu      sync.Mutex
	running bool
}

// New creates a Sequencer. engine is used to issue TrackStop,
// SetStandbyFPMode and EndScan through the command map (so they get the
// same LRC
// progress/awaited-predicate treatment as a client-issued command); ds is
// used directly for the DS clock read and the ResetTrackTable write, which
// have no client-facing equivalent in the command map.
func New(engine *commandmap.Engine, ds component.Manager, snapshot commandmap.SnapshotFunc, trk tracker.Tracker, log logger.Logger) *Sequencer {
	return &Sequencer{engine: engine, ds: ds, snapshot: snapshot, trk: trk, log: log}
}

// Execute starts the abort sequence, or rejects immediately if one is
// already running.
func (s *Sequencer) Execute(ctx context.Context) (rpc.ResultCode, string) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return rpc.ResultRejected, "Existing Abort sequence ongoing"
	}

	s.running = true
	s.mu.Unlock()

	id := s.trk.NewCommand("Abort")

	go s.run(ctx, id)

	return rpc.ResultQueued, id
}

func (s *Sequencer) run(ctx context.Context, id string) {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()

		if r := recover(); r != nil {
			crash.Capture("ABORT", r)

			if s.log != nil {
				s.log.Error().Msgf("abort sequencer panicked: %v", r)
			}
		}
	}()

	inProgress := tracker.StatusInProgress
	_ = s.trk.Update(id, &inProgress, "", nil)

	// Stop any in-flight fan-out first, then immediately reset the shared
	// signal so this sequencer's own steps (issued through the same engine) are
	// not themselves born aborted.
	s.engine.TriggerAbort()
	s.engine.ResetAbort()

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"TrackStop", s.trackStop},
		{"SetStandbyFPMode", s.setStandbyFP},
		{"EndScan", s.endScan},
		{"ResetTrackTable", s.resetTrackTable},
	}

	for _, step := range steps {
		if s.aborted() {
			s.fail(id, "Abort sequence aborted")
			return
		}

		if err := step.run(ctx); err != nil {
			s.fail(id, fmt.Sprintf("Abort sequence failed at %s: %s", step.name, err))
			return
		}
	}

	status := tracker.StatusCompleted
	_ = s.trk.Update(id, &status, "", &tracker.Result{Code: rpc.ResultOK, Message: "Abort sequence completed"})
}

func (s *Sequencer) fail(id, message string) {
	status := tracker.StatusFailed
	_ = s.trk.Update(id, &status, "", &tracker.Result{Code: rpc.ResultFailed, Message: message})
}

func (s *Sequencer) aborted() bool {
	select {
	case <-s.engine.AbortSignal():
		return true
	default:
		return false
	}
}

// trackStop runs only when there is movement to stop: skipped when stowed,
// and skipped when the dish is not tracking or slewing (TrackStop would be
// rejected outright in those states).
func (s *Sequencer) trackStop(ctx context.Context) error {
	snap := s.snapshot()

	if snap.DishMode != dishmode.Operate {
		return nil
	}

	switch snap.PointingState {
	case aggregation.PointingTrack, aggregation.PointingSlew:
		return s.waitFor(ctx, "TrackStop", nil)
	default:
		return nil
	}
}

// setStandbyFP is skipped once dishMode is already STANDBY_FP; refreshing
// happens implicitly because the engine always reads the live Snapshot,
// never a cached one.
func (s *Sequencer) setStandbyFP(ctx context.Context) error {
	if s.snapshot().DishMode == dishmode.StandbyFP {
		return nil
	}

	return s.waitFor(ctx, "SetStandbyFPMode", nil)
}

func (s *Sequencer) endScan(ctx context.Context) error {
	return s.waitFor(ctx, "EndScan", nil)
}

// resetTrackTable resets the DS program-track table to five copies of
// (timestamp+5s, az=0, el=50), where timestamp is the DS-clock-offset
// corrected current TAI, falling back to the local wall clock if the DS
// clock read fails.
func (s *Sequencer) resetTrackTable(ctx context.Context) error {
	offset := s.clockOffset(ctx)
	stamp := float64(time.Now().Add(offset).Unix()) + config.AbortTrackTableLead.Seconds()

	table := make([]float64, 0, 15)
	for i := 0; i < 5; i++ {
		table = append(table, stamp, 0, config.AbortTrackTableEl)
	}

	return s.ds.WriteAttributeValue(ctx, "programtracktable", table)
}

// clockOffset reads the DS's clock offset via its GetClockOffset command;
// on any failure it falls back to a zero offset, logging the reason.
func (s *Sequencer) clockOffset(ctx context.Context) time.Duration {
	status, msg := s.ds.ExecuteCommand(ctx, "GetClockOffset", nil)
	if status == tracker.StatusFailed {
		if s.log != nil {
			s.log.Warn().Str("reason", msg).Msg("DS clock read failed, falling back to local clock")
		}

		return 0
	}

	seconds, err := strconv.ParseFloat(msg, 64)
	if err != nil {
		return 0
	}

	return time.Duration(seconds * float64(time.Second))
}

// waitFor issues name through the command map and blocks until it reaches a
// terminal status, translating a FAILED/ABORTED/REJECTED outcome into an
// error for the sequence's own step reporting.
func (s *Sequencer) waitFor(ctx context.Context, name string, arg interface{}) error {
	_, id := s.engine.Execute(ctx, name, arg)

	for {
		rec, ok := s.trk.Get(id)
		if !ok {
			return fmt.Errorf("%s: command id vanished from tracker", name)
		}

		switch rec.GetStatus() {
		case tracker.StatusCompleted:
			return nil
		case tracker.StatusFailed, tracker.StatusAborted, tracker.StatusRejected:
			_, msg := rec.Result()
			return fmt.Errorf("%s", msg)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}
