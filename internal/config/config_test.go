package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-mid/dish-manager-core/internal/app/errors"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()

	assert.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Devices, 5)
	assert.Equal(t, LRCHistorySize, cfg.LRC.HistorySize)
	assert.Equal(t, DefaultLRCTimeout, cfg.LRC.Timeout)
	assert.Equal(t, "SKA001", cfg.AntennaID)
}

func TestValidateRejectsMissingDeviceAddress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Devices[DeviceSPF].Address = ""

	assert.ErrorIs(t, cfg.Validate(), errors.ErrDeviceAddressUnset)
}

func TestValidateRejectsMissingDevice(t *testing.T) {
	cfg := DefaultConfig()
	delete(cfg.Devices, DeviceWMS)

	assert.ErrorIs(t, cfg.Validate(), errors.ErrDeviceAddressUnset)
}

func TestValidateRejectsNonPositiveHistory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LRC.HistorySize = 0

	assert.ErrorIs(t, cfg.Validate(), errors.ErrInvalidConfig)
}

func TestLoadWithoutConfigFileFallsBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().AntennaID, cfg.AntennaID)
}

func TestLoadReadsYAMLOverrides(t *testing.T) {
	t.Chdir(t.TempDir())

	yaml := `
antennaid: SKA036
logging:
  level: debug
lrc:
  historysize: 16
`
	require.NoError(t, os.WriteFile(ConfigFile, []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "SKA036", cfg.AntennaID)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 16, cfg.LRC.HistorySize)

	// Unset sections fall back to defaults.
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, DefaultLRCTimeout, cfg.LRC.Timeout)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile(ConfigFile, []byte("devices: [unclosed"), 0o644))

	_, err := Load()
	assert.ErrorIs(t, err, errors.ErrFailedToReadConfig)
}

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{Devices: DefaultConfig().Devices}
	cfg.applyDefaults()

	assert.Equal(t, LogLevel, cfg.Logging.Level)
	assert.Equal(t, LRCHistorySize, cfg.LRC.HistorySize)
	assert.Equal(t, AbortTrackTableLead, cfg.TrackTableLeadTime)
	assert.NotEmpty(t, cfg.PropertyStorePath)
}

func TestConstantsStayInAgreedRanges(t *testing.T) {
	assert.Equal(t, 5, ProxyRetryAttempts)
	assert.Equal(t, 5*time.Second, ProxyCommandTimeout)
	assert.Equal(t, 30*time.Second, SPFRXMonitorPingPeriod)
	assert.InDelta(t, 1.5, ProxyBackoffFactor, 0.001)
}
