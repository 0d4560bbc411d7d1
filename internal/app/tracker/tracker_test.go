package tracker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-mid/dish-manager-core/internal/app/errors"
	"github.com/ska-mid/dish-manager-core/internal/app/rpc"
)

func TestNewCommandIDShape(t *testing.T) {
	tr := New(64)

	id := tr.NewCommand("SetOperateMode")

	parts := strings.Split(id, "_")
	require.Len(t, parts, 3)
	assert.Equal(t, "SetOperateMode", parts[2])

	rec, ok := tr.Get(id)
	require.True(t, ok)
	assert.Equal(t, StatusStaging, rec.GetStatus())
}

func TestUpdateMutatesAndNotifies(t *testing.T) {
	tr := New(64)
	id := tr.NewCommand("Track")

	var seen []Record

	tr.OnUpdate(func(r Record) { seen = append(seen, r) })

	inProgress := StatusInProgress
	require.NoError(t, tr.Update(id, &inProgress, "slewing", nil))

	completed := StatusCompleted
	result := &Result{Code: rpc.ResultOK, Message: "done"}
	require.NoError(t, tr.Update(id, &completed, "", result))

	rec, ok := tr.Get(id)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, rec.GetStatus())
	assert.Equal(t, []string{"slewing"}, rec.Progress())

	code, msg := rec.Result()
	assert.Equal(t, rpc.ResultOK, code)
	assert.Equal(t, "done", msg)

	require.Len(t, seen, 3) // NewCommand + 2 updates
}

func TestUpdateUnknownIDErrors(t *testing.T) {
	tr := New(64)

	status := StatusCompleted
	err := tr.Update("no-such-id", &status, "", nil)
	assert.ErrorIs(t, err, errors.ErrCommandNotFound)
}

func TestListInQueueAndInProgress(t *testing.T) {
	tr := New(64)

	staging := tr.NewCommand("SetStandbyFPMode")
	queued := tr.NewCommand("SetStowMode")
	running := tr.NewCommand("Slew")

	queuedStatus := StatusQueued
	require.NoError(t, tr.Update(queued, &queuedStatus, "", nil))

	inProgress := StatusInProgress
	require.NoError(t, tr.Update(running, &inProgress, "", nil))

	assert.ElementsMatch(t, []string{staging, queued}, tr.ListInQueue())
	assert.Equal(t, []string{running}, tr.ListInProgress())
}

func TestHistoryBoundEvictsOldestFIFO(t *testing.T) {
	tr := New(2)

	first := tr.NewCommand("Slew")
	_ = tr.NewCommand("Track")
	third := tr.NewCommand("Scan")

	_, ok := tr.Get(first)
	assert.False(t, ok, "oldest record should have been evicted")

	_, ok = tr.Get(third)
	assert.True(t, ok)
}
