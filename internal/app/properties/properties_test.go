package properties

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-mid/dish-manager-core/internal/app/errors"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

func newStore(t *testing.T, path string) Store {
	t.Helper()

	s, err := New(path, logger.Noop())
	require.NoError(t, err)

	t.Cleanup(s.Close)

	return s
}

func TestNewCreatesFileWithZeroFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.json")

	s := newStore(t, path)

	assert.Equal(t, Flags{}, s.Load())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSetPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.json")

	s := newStore(t, path)
	require.NoError(t, s.Set(Flags{IgnoreSPF: true, IgnoreB5DC: true}))
	s.Close()

	reopened := newStore(t, path)
	assert.Equal(t, Flags{IgnoreSPF: true, IgnoreB5DC: true}, reopened.Load())
}

func TestSetUnchangedSkipsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.json")

	s := newStore(t, path)
	require.NoError(t, s.Set(Flags{IgnoreSPFRX: true}))

	before, err := os.Stat(path)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.Set(Flags{IgnoreSPFRX: true}))

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestExternalEditFiresOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.json")

	s := newStore(t, path)

	var (
		mu   sync.Mutex
		seen []Flags
	)

	s.OnChange(func(f Flags) {
		mu.Lock()
		seen = append(seen, f)
		mu.Unlock()
	})

	// Simulate an operator editing the file out-of-band.
	require.NoError(t, os.WriteFile(path, []byte(`{"ignoreSpf": true, "ignoreSpfrx": false, "ignoreB5dc": false}`), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(seen) > 0 && seen[len(seen)-1].IgnoreSPF
	}, 3*time.Second, 10*time.Millisecond)

	assert.True(t, s.Load().IgnoreSPF)
}

func TestOwnWritesDoNotFireOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.json")

	s := newStore(t, path)

	var (
		mu    sync.Mutex
		fired int
	)

	s.OnChange(func(Flags) {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	require.NoError(t, s.Set(Flags{IgnoreSPF: true}))

	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, fired)
}

func TestCorruptFileRejectedAtLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := New(path, logger.Noop())
	assert.ErrorIs(t, err, errors.ErrPropertyStoreCorrupt)
}

func TestCorruptExternalEditIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.json")

	s := newStore(t, path)
	require.NoError(t, s.Set(Flags{IgnoreSPF: true}))

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	time.Sleep(200 * time.Millisecond)

	assert.True(t, s.Load().IgnoreSPF)
}
