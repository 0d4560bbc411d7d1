// Package tracker is the long-running-command tracker: it allocates
// command ids, records their lifecycle and progress, and bounds retained
// history with FIFO eviction.
//
//go:generate mockgen -source=tracker.go -destination=tracker_mock.go -package=tracker
package tracker

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/ska-mid/dish-manager-core/internal/app/errors"
	"github.com/ska-mid/dish-manager-core/internal/app/rpc"
)

// Tracker allocates command ids and tracks their lifecycle.
type Tracker interface {
	// NewCommand allocates a fresh id of the form
	// <tai-timestamp>_<random-nonce>_<name> and records it STAGING.
	NewCommand(name string) string
	// Update mutates zero or more fields of id's record and fires every
	// registered observer with the resulting Record. A nil status/result
	// pointer or empty progress leaves that field untouched.
	Update(id string, status *TaskStatus, progress string, result *Result) error
	// Get returns id's Record and whether it is (still) tracked.
	Get(id string) (Record, bool)
	// ListByStatus returns the ids of every tracked command currently in
	// status, in submission order.
	ListByStatus(status TaskStatus) []string
	// ListInQueue returns ids STAGING or QUEUED, in submission order.
	ListInQueue() []string
	// ListInProgress returns ids IN_PROGRESS, in submission order.
	ListInProgress() []string
	// ListAll returns every retained id in submission order.
	ListAll() []string
	// OnUpdate registers an observer fired after every NewCommand and Update, used by the
	// component manager to push longRunningCommand* change events.
	OnUpdate(fn func(Record))
}

// Result is a long-running command's terminal outcome.
type Result struct {
	Code    rpc.ResultCode
	Message string
}

type tracker struct {
	historySize int

	mu       sync.Mutex
	order    []string
	byID     map[string]*record
	onUpdate []func(Record)
}

// New creates a Tracker retaining at most historySize records, evicting the
// oldest once the bound is reached.
func New(historySize int) Tracker {
	if historySize <= 0 {
		historySize = 64
	}

	return &tracker{historySize: historySize, byID: make(map[string]*record)}
}

func (t *tracker) NewCommand(name string) string {
	id := newID(name)
	rec := newRecord(id, name)

	t.mu.Lock()
	t.order = append(t.order, id)
	t.byID[id] = rec

	var evicted string
	if len(t.order) > t.historySize {
		evicted = t.order[0]
		t.order = t.order[1:]
		delete(t.byID, evicted)
	}
	t.mu.Unlock()

	t.notify(rec.snapshot())

	return id
}

func (t *tracker) Update(id string, status *TaskStatus, progress string, result *Result) error {
	t.mu.Lock()
	rec, ok := t.byID[id]
	t.mu.Unlock()

	if !ok {
		return errors.ErrCommandNotFound
	}

	if status != nil {
		rec.SetStatus(*status)
	}

	if progress != "" {
		rec.AddProgress(progress)
	}

	if result != nil {
		rec.SetResult(result.Code, result.Message)
	}

	t.notify(rec.snapshot())

	return nil
}

func (t *tracker) Get(id string) (Record, bool) {
	t.mu.Lock()
	rec, ok := t.byID[id]
	t.mu.Unlock()

	if !ok {
		return nil, false
	}

	return rec.snapshot(), true
}

func (t *tracker) ListByStatus(status TaskStatus) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var ids []string

	for _, id := range t.order {
		if t.byID[id].GetStatus() == status {
			ids = append(ids, id)
		}
	}

	return ids
}

func (t *tracker) ListInQueue() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var ids []string

	for _, id := range t.order {
		switch t.byID[id].GetStatus() {
		case StatusStaging, StatusQueued:
			ids = append(ids, id)
		}
	}

	return ids
}

func (t *tracker) ListInProgress() []string { return t.ListByStatus(StatusInProgress) }

func (t *tracker) ListAll() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]string(nil), t.order...)
}

func (t *tracker) OnUpdate(fn func(Record)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.onUpdate = append(t.onUpdate, fn)
}

func (t *tracker) notify(rec Record) {
	t.mu.Lock()
	observers := append([]func(Record){}, t.onUpdate...)
	t.mu.Unlock()

	for _, fn := range observers {
		fn(rec)
	}
}

// newID builds a command id of the form
// <tai-timestamp>_<random-nonce>_<name>. TAI-UTC leap-second offset is not
// modelled here; the UTC wall-clock time stands in for it, consistent
// with this core's general TAI handling (see internal/app/abort's
// clock-offset comment).
func newID(name string) string {
	ts := time.Now().UTC().Format("20060102-150405.000000")

	var nonceBytes [4]byte
	_, _ = rand.Read(nonceBytes[:])
	nonce := hex.EncodeToString(nonceBytes[:])

	return ts + "_" + nonce + "_" + name
}
