package abort

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-mid/dish-manager-core/internal/app/aggregation"
	"github.com/ska-mid/dish-manager-core/internal/app/commandmap"
	"github.com/ska-mid/dish-manager-core/internal/app/compstate"
	"github.com/ska-mid/dish-manager-core/internal/app/dishmode"
	"github.com/ska-mid/dish-manager-core/internal/app/rpc"
	"github.com/ska-mid/dish-manager-core/internal/app/tracker"
)

// fakeChild is a minimal component.Manager whose command hook lets a test
// script state transitions.
type fakeChild struct {
	mu        sync.Mutex
	commands  []string
	writes    map[string]interface{}
	onCommand func(name string) (tracker.TaskStatus, string)
}

func newFakeChild() *fakeChild {
	return &fakeChild{writes: make(map[string]interface{})}
}

func (f *fakeChild) StartCommunicating(context.Context) {}
func (f *fakeChild) StopCommunicating() {}

func (f *fakeChild) ExecuteCommand(_ context.Context, name string, _ interface{}) (tracker.TaskStatus, string) {
	f.mu.Lock()
	f.commands = append(f.commands, name)
	hook := f.onCommand
	f.mu.Unlock()

	if hook != nil {
		return hook(name)
	}

	return tracker.StatusInProgress, ""
}

func (f *fakeChild) WriteAttributeValue(_ context.Context, name string, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writes[name] = value

	return nil
}

func (f *fakeChild) RefreshState(context.Context) error { return nil }
func (f *fakeChild) ComponentState() *compstate.Map { return compstate.New() }
func (f *fakeChild) CommunicationState() compstate.CommunicationStatus { return compstate.CommunicationEstablished }
func (f *fakeChild) SetStateChangeCallback(compstate.ChangeFunc) {}
func (f *fakeChild) OnBuildState(func(string)) {}
func (f *fakeChild) OnCommunicationStateChange(func(compstate.CommunicationStatus)) {}

func (f *fakeChild) commandLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.commands...)
}

func (f *fakeChild) writtenTable() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	table, _ := f.writes["programtracktable"].([]float64)

	return table
}

type rig struct {
	seq   *Sequencer
	trk   tracker.Tracker
	ds    *fakeChild
	mu    sync.Mutex
	snap  commandmap.Snapshot
	state func() commandmap.Snapshot
	eng   *commandmap.Engine
}

func (r *rig) setMode(mode dishmode.Mode) {
	r.mu.Lock()
	r.snap.DishMode = mode
	r.mu.Unlock()

	r.eng.NotifyStateChanged()
}

func (r *rig) setPointing(ps aggregation.PointingState) {
	r.mu.Lock()
	r.snap.PointingState = ps
	r.mu.Unlock()

	r.eng.NotifyStateChanged()
}

func newRig(t *testing.T, startMode dishmode.Mode) *rig {
	t.Helper()

	r := &rig{trk: tracker.New(32), ds: newFakeChild()}
	r.snap = commandmap.Snapshot{
		DishMode:      startMode,
		PointingState: aggregation.PointingReady,
		DSConn:        compstate.CommunicationEstablished,
		SPFConn:       compstate.CommunicationEstablished,
		SPFRXConn:     compstate.CommunicationEstablished,
	}

	r.state = func() commandmap.Snapshot {
		r.mu.Lock()
		defer r.mu.Unlock()

		return r.snap
	}

	spf, spfrx := newFakeChild(), newFakeChild()

	r.eng = commandmap.New(dishmode.NewGraph(), r.trk, commandmap.Children{DS: r.ds, SPF: spf, SPFRX: spfrx}, commandmap.Hooks{
		SetScanID: func(id string) {
			r.mu.Lock()
			r.snap.ScanID = id
			r.mu.Unlock()
		},
	}, r.state, 2*time.Second, nil)

	// DS reaching STANDBY_FP completes the sequencer's second step.
	r.ds.onCommand = func(name string) (tracker.TaskStatus, string) {
		if name == "SetStandbyFPMode" {
			go func() {
				r.setMode(dishmode.StandbyFP)
			}()
		}

		return tracker.StatusInProgress, ""
	}

	r.seq = New(r.eng, r.ds, r.state, r.trk, nil)

	return r
}

func awaitTerminal(t *testing.T, trk tracker.Tracker, id string) tracker.Record {
	t.Helper()

	var rec tracker.Record

	require.Eventually(t, func() bool {
		got, ok := trk.Get(id)
		if !ok {
			return false
		}

		switch got.GetStatus() {
		case tracker.StatusCompleted, tracker.StatusFailed, tracker.StatusAborted, tracker.StatusRejected:
			rec = got
			return true
		}

		return false
	}, 5*time.Second, 2*time.Millisecond)

	return rec
}

func TestAbortSequenceFromStowSkipsTrackStop(t *testing.T) {
	r := newRig(t, dishmode.Stow)

	code, id := r.seq.Execute(context.Background())
	require.Equal(t, rpc.ResultQueued, code)

	rec := awaitTerminal(t, r.trk, id)
	assert.Equal(t, tracker.StatusCompleted, rec.GetStatus())

	resultCode, msg := rec.Result()
	assert.Equal(t, rpc.ResultOK, resultCode)
	assert.Equal(t, "Abort sequence completed", msg)

	log := strings.Join(r.ds.commandLog(), ",")
	assert.NotContains(t, log, "TrackStop")
	assert.Contains(t, log, "SetStandbyFPMode")
}

func TestAbortSequenceResetsTrackTable(t *testing.T) {
	r := newRig(t, dishmode.Stow)

	_, id := r.seq.Execute(context.Background())
	rec := awaitTerminal(t, r.trk, id)
	require.Equal(t, tracker.StatusCompleted, rec.GetStatus())

	table := r.ds.writtenTable()
	require.Len(t, table, 15)

	for i := 0; i < 15; i += 3 {
		assert.Greater(t, table[i], float64(time.Now().Unix()))
		assert.Equal(t, 0.0, table[i+1])
		assert.Equal(t, 50.0, table[i+2])
	}
}

func TestAbortSequenceRunsTrackStopOutsideStow(t *testing.T) {
	r := newRig(t, dishmode.Operate)
	r.setPointing(aggregation.PointingTrack)

	// TrackStop settles pointing back to READY, completing its predicate.
	r.ds.onCommand = func(name string) (tracker.TaskStatus, string) {
		switch name {
		case "TrackStop":
			go r.setPointing(aggregation.PointingReady)
		case "SetStandbyFPMode":
			go r.setMode(dishmode.StandbyFP)
		}

		return tracker.StatusInProgress, ""
	}

	_, id := r.seq.Execute(context.Background())

	rec := awaitTerminal(t, r.trk, id)
	assert.Equal(t, tracker.StatusCompleted, rec.GetStatus())
	assert.Contains(t, r.ds.commandLog(), "TrackStop")
}

func TestSecondAbortIsRejectedWhileFirstRuns(t *testing.T) {
	r := newRig(t, dishmode.Stow)

	// Make the first sequence hang on its SetStandbyFPMode step.
	r.ds.onCommand = func(name string) (tracker.TaskStatus, string) {
		return tracker.StatusInProgress, ""
	}

	_, first := r.seq.Execute(context.Background())

	code, msg := r.seq.Execute(context.Background())
	assert.Equal(t, rpc.ResultRejected, code)
	assert.Equal(t, "Existing Abort sequence ongoing", msg)

	// The first sequence eventually times out its awaited predicate and reports
	// a failure rather than hanging forever.
	rec := awaitTerminal(t, r.trk, first)
	assert.Equal(t, tracker.StatusFailed, rec.GetStatus())
}
