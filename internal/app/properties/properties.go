// Package properties persists the three ignore-flag device properties as a
// small JSON file, watched with fsnotify so an out-of-band edit by an
// operator or a second process is picked up without restarting the Manager.
package properties

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/ska-mid/dish-manager-core/internal/app/errors"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// Flags is the persisted ignore-flag set.
type Flags struct {
	IgnoreSPF   bool `json:"ignoreSpf"`
	IgnoreSPFRX bool `json:"ignoreSpfrx"`
	IgnoreB5DC  bool `json:"ignoreB5dc"`
}

// Store loads and persists Flags, notifying observers of externally-applied
// changes.
type Store interface {
	// Load returns the currently loaded Flags.
	Load() Flags
	// Set persists next and notifies observers, skipping the write if next is
	// unchanged.
	Set(next Flags) error
	// OnChange registers a callback fired with the new Flags whenever the
	// backing file is changed on disk by something other than this Store;
	// this Store's own Set calls are filtered out.
	OnChange(fn func(Flags))
	// Close stops the file watcher.
	Close()
}

type store struct {
	path string
	log  logger.Logger

	mu      sync.Mutex
	current Flags
	written []byte

	watcher  *fsnotify.Watcher
	watchers []func(Flags)
}

// New loads path (creating it with zero-value Flags if absent) and starts
// watching it for external edits.
func New(path string, log logger.Logger) (Store, error) {
	s := &store{path: path, log: log}

	if err := s.load(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	s.watcher = watcher

	go s.watch()

	return s, nil
}

func (s *store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.writeLocked(Flags{})
		}

		return err
	}

	var f Flags
	if err := json.Unmarshal(data, &f); err != nil {
		return errors.ErrPropertyStoreCorrupt
	}

	s.mu.Lock()
	s.current = f
	s.written = data
	s.mu.Unlock()

	return nil
}

func (s *store) Load() Flags {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

func (s *store) Set(next Flags) error {
	s.mu.Lock()
	if next == s.current {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.writeLocked(next)
}

func (s *store) writeLocked(f Flags) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = f
	s.written = data
	s.mu.Unlock()

	return nil
}

func (s *store) OnChange(fn func(Flags)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.watchers = append(s.watchers, fn)
}

func (s *store) Close() {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
}

// watch reacts to writes of the property file made by something other than
// this Store (an operator hand-editing the file, or a second process); this
// Store's own writeLocked calls are filtered out by comparing the freshly
// read bytes against the last bytes this Store itself wrote.
func (s *store) watch() {
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(ev.Name) != filepath.Clean(s.path) {
				continue
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			s.reload()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}

			if s.log != nil {
				s.log.Warn().Err(err).Msg("property store watch error")
			}
		}
	}
}

func (s *store) reload() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	s.mu.Lock()
	if string(data) == string(s.written) {
		s.mu.Unlock()
		return
	}

	var f Flags
	if err := json.Unmarshal(data, &f); err != nil {
		s.mu.Unlock()

		if s.log != nil {
			s.log.Warn().Err(err).Msg("ignoring corrupt external property file edit")
		}

		return
	}

	s.current = f
	s.written = data
	observers := append([]func(Flags){}, s.watchers...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(f)
	}
}
