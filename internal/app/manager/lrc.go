package manager

import (
	"fmt"

	"github.com/ska-mid/dish-manager-core/internal/app/tracker"
	"github.com/ska-mid/dish-manager-core/internal/config"
)

// The longRunningCommand* attribute family mirrors the tracker's records to
// clients: names and ids for submitted-but-unfinished commands, plus
// id-keyed status, progress and result views over the retained history.

func (m *manager) pendingIDs() []string {
	return append(m.trk.ListInQueue(), m.trk.ListInProgress()...)
}

func (m *manager) LongRunningCommandsInQueue() []string {
	ids := m.pendingIDs()
	names := make([]string, 0, len(ids))

	for _, id := range ids {
		if rec, ok := m.trk.Get(id); ok {
			names = append(names, rec.Name())
		}
	}

	return names
}

func (m *manager) LongRunningCommandIDsInQueue() []string {
	return m.pendingIDs()
}

// LongRunningCommandStatus returns the retained history flattened as
// alternating id, status pairs.
func (m *manager) LongRunningCommandStatus() []string {
	var out []string

	for _, id := range m.trk.ListAll() {
		if rec, ok := m.trk.Get(id); ok {
			out = append(out, id, rec.GetStatus().String())
		}
	}

	return out
}

// LongRunningCommandProgress returns alternating id, latest-progress pairs
// for commands that have reported any progress.
func (m *manager) LongRunningCommandProgress() []string {
	var out []string

	for _, id := range m.trk.ListAll() {
		rec, ok := m.trk.Get(id)
		if !ok {
			continue
		}

		progress := rec.Progress()
		if len(progress) == 0 {
			continue
		}

		out = append(out, id, progress[len(progress)-1])
	}

	return out
}

// LongRunningCommandResult returns the most recent terminal command as an
// id, "(code, message)" pair, empty until any command finishes.
func (m *manager) LongRunningCommandResult() []string {
	ids := m.trk.ListAll()

	for i := len(ids) - 1; i >= 0; i-- {
		rec, ok := m.trk.Get(ids[i])
		if !ok {
			continue
		}

		switch rec.GetStatus() {
		case tracker.StatusCompleted, tracker.StatusFailed, tracker.StatusAborted, tracker.StatusRejected:
		default:
			continue
		}

		code, msg := rec.Result()

		return []string{rec.ID(), fmt.Sprintf("(%d, %q)", int(code), msg)}
	}

	return nil
}

func (m *manager) LastCommandedMode() (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lastModeTAI, m.lastModeName
}

func (m *manager) LastCommandedPointingParams() interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lastParams
}

func (m *manager) LastCommandInvoked() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lastInvoked
}

func (m *manager) Capturing() bool {
	spfrx := m.children[config.DeviceSPFRX].ComponentState()
	capturing, _ := spfrx.Value("capturingdata").(bool)

	return capturing
}

func (m *manager) dsVector(key string, size int) []float64 {
	ds := m.children[config.DeviceDS].ComponentState()

	vec, _ := ds.Value(key).([]float64)
	if len(vec) < size {
		return make([]float64, size)
	}

	return vec
}

func (m *manager) AchievedPointing() [3]float64 {
	vec := m.dsVector("achievedpointing", 3)
	return [3]float64{vec[0], vec[1], vec[2]}
}

func (m *manager) AchievedPointingAz() [2]float64 {
	vec := m.dsVector("achievedpointingaz", 2)
	return [2]float64{vec[0], vec[1]}
}

func (m *manager) AchievedPointingEl() [2]float64 {
	vec := m.dsVector("achievedpointingel", 2)
	return [2]float64{vec[0], vec[1]}
}

func (m *manager) DesiredPointingAz() [2]float64 {
	vec := m.dsVector("desiredpointingaz", 2)
	return [2]float64{vec[0], vec[1]}
}

func (m *manager) DesiredPointingEl() [2]float64 {
	vec := m.dsVector("desiredpointingel", 2)
	return [2]float64{vec[0], vec[1]}
}

func (m *manager) WindGust() float64 { return m.stateFloat("windgust") }

func (m *manager) MeanWindSpeed() float64 { return m.stateFloat("meanwindspeed") }
