// Package compstate is the Component State data structure: a typed mapping
// from a lower-cased attribute name to its last-known value and quality,
// owned once per sub-component manager and once more, rolled up, by the Dish
// Manager itself.
package compstate

import (
	"sync"
)

// Quality reflects whether a value can be trusted.
type Quality int

// Quality values.
const (
	QualityInvalid Quality = iota
	QualityValid
)

func (q Quality) String() string {
	if q == QualityValid {
		return "VALID"
	}

	return "INVALID"
}

// CommunicationStatus is the link state between the Dish Manager and one
// subservient device.
type CommunicationStatus int

// CommunicationStatus values.
const (
	CommunicationDisabled CommunicationStatus = iota
	CommunicationNotEstablished
	CommunicationEstablished
)

func (c CommunicationStatus) String() string {
	switch c {
	case CommunicationDisabled:
		return "DISABLED"
	case CommunicationEstablished:
		return "ESTABLISHED"
	default:
		return "NOT_ESTABLISHED"
	}
}

// Entry is one key's last-known value and quality.
type Entry struct {
	Value   interface{}
	Quality Quality
}

// ChangeFunc is invoked after a key's Entry changes, with the key, the old
// entry and the new entry.
type ChangeFunc func(key string, old, new Entry)

// Map is a concurrency-safe typed mapping from attribute name to Entry. An
// update to one key atomically updates both value and quality; concurrent
// readers always see a consistent Entry.
type Map struct {
	mu       sync.RWMutex
	entries  map[string]Entry
	onChange []ChangeFunc
}

// New creates an empty Map.
func New() *Map {
	return &Map{entries: make(map[string]Entry)}
}

// OnChange registers a callback fired synchronously on every Set and
// SetWithQuality (whether or not the Entry differs), and on an Invalidate
// that downgrades a valid key. Children own the callback,
// never a back-reference to the parent.
func (m *Map) OnChange(fn ChangeFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onChange = append(m.onChange, fn)
}

// Set stores value for key with QualityValid and fires OnChange callbacks.
// Values are not compared, so setting an unchanged value fires them too.
func (m *Map) Set(key string, value interface{}) {
	m.set(key, Entry{Value: value, Quality: QualityValid})
}

// SetWithQuality stores value for key with an explicit quality, used by the
// device monitor to report an error-flagged attribute update as INVALID
// without discarding the value.
func (m *Map) SetWithQuality(key string, value interface{}, quality Quality) {
	m.set(key, Entry{Value: value, Quality: quality})
}

// Invalidate downgrades key's quality to INVALID while preserving its
// last-known value, used when a device's communication status degrades to
// NOT_ESTABLISHED.
func (m *Map) Invalidate(key string) {
	m.mu.Lock()
	old, ok := m.entries[key]
	if !ok {
		m.mu.Unlock()
		return
	}

	if old.Quality == QualityInvalid {
		m.mu.Unlock()
		return
	}

	next := Entry{Value: old.Value, Quality: QualityInvalid}
	m.entries[key] = next
	callbacks := append([]ChangeFunc(nil), m.onChange...)
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(key, old, next)
	}
}

// InvalidateAll downgrades every known key to INVALID, used when an entire
// device disconnects.
func (m *Map) InvalidateAll() {
	m.mu.Lock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	m.mu.Unlock()

	for _, k := range keys {
		m.Invalidate(k)
	}
}

func (m *Map) set(key string, next Entry) {
	m.mu.Lock()
	old := m.entries[key]

	m.entries[key] = next
	callbacks := append([]ChangeFunc(nil), m.onChange...)
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(key, old, next)
	}
}

// Get returns the current Entry for key and whether it has ever been set.
func (m *Map) Get(key string) (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	return e, ok
}

// Value returns just the value for key, or nil if unset.
func (m *Map) Value(key string) interface{} {
	e, _ := m.Get(key)
	return e.Value
}

// Snapshot returns a copy of the entire map, safe to range over without
// holding any lock.
func (m *Map) Snapshot() map[string]Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Entry, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}

	return out
}

// Keys returns the set of keys currently populated.
func (m *Map) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.entries))
	for k := range m.entries {
		out = append(out, k)
	}

	return out
}
