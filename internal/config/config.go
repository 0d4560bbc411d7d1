// Package config loads the Dish Manager's YAML configuration (device
// addresses, persisted ignore flags, Sentry DSN, heartbeat defaults): a
// viper-backed struct with defaults applied before validation.
package config

import (
	"bytes"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ska-mid/dish-manager-core/internal/app/errors"
)

// DeviceConfig describes how to reach one subservient controller.
type DeviceConfig struct {
	Address string `yaml:"address"`
	// Ignore is read from the configuration file but nothing else reads it;
	// the ignore flags that aggregation and fan-out act on are the ones
	// persisted by internal/app/properties.
	Ignore bool `yaml:"ignore"`
}

// Config is the Dish Manager's process configuration.
type Config struct {
	Devices map[string]*DeviceConfig `yaml:"devices"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Sentry struct {
		DSN string `yaml:"dsn"`
	} `yaml:"sentry"`

	Heartbeat struct {
		DefaultIntervalSeconds float64 `yaml:"default_interval_seconds"`
	} `yaml:"heartbeat"`

	LRC struct {
		Timeout      time.Duration `yaml:"timeout"`
		HistorySize  int           `yaml:"history_size"`
	} `yaml:"lrc"`

	// PropertyStorePath is where ignoreSpf/ignoreSpfrx/ignoreB5dc are persisted
	// across restarts.
	PropertyStorePath string `yaml:"property_store_path"`

	// TrackTableLeadTime is the minimum lead time (seconds into the future) a
	// programTrackTable write's first timestamp must clear.
	TrackTableLeadTime time.Duration `yaml:"track_table_lead_time"`

	AntennaID string `yaml:"antenna_id"`
}

// DefaultConfig returns the configuration used when no config file is
// present.
func DefaultConfig() *Config {
	cfg := &Config{
		Devices: map[string]*DeviceConfig{
			DeviceDS:    {Address: "tango://localhost:10000/mid_dish/ds/SKA001"},
			DeviceSPF:   {Address: "tango://localhost:10000/mid_dish/spf/SKA001"},
			DeviceSPFRX: {Address: "tango://localhost:10000/mid_dish/spfrx/SKA001"},
			DeviceB5DC:  {Address: "tango://localhost:10000/mid_dish/b5dc/SKA001"},
			DeviceWMS:   {Address: "tango://localhost:10000/mid_dish/wms/SKA001"},
		},
		PropertyStorePath:  "dishmanager-properties.json",
		TrackTableLeadTime: AbortTrackTableLead,
		AntennaID:          "SKA001",
	}

	cfg.Logging.Level = LogLevel
	cfg.Logging.Format = LogFormat
	cfg.LRC.Timeout = DefaultLRCTimeout
	cfg.LRC.HistorySize = LRCHistorySize

	return cfg
}

// Load loads the configuration from dishmanager.yaml (if present) and from a
// sibling .env file holding device connection secrets, falling back to
// DefaultConfig when no file exists.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(EnvFile); err != nil && !os.IsNotExist(err) {
		return nil, errors.New("failed to load .env file: " + err.Error())
	}

	data, err := os.ReadFile(ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			if verr := cfg.Validate(); verr != nil {
				return nil, verr
			}

			return cfg, nil
		}

		return nil, errors.ErrFailedToReadConfig
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, errors.ErrFailedToReadConfig
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.ErrFailedToParseConfig
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevel
	}

	if c.Logging.Format == "" {
		c.Logging.Format = LogFormat
	}

	if c.LRC.Timeout == 0 {
		c.LRC.Timeout = DefaultLRCTimeout
	}

	if c.LRC.HistorySize == 0 {
		c.LRC.HistorySize = LRCHistorySize
	}

	if c.TrackTableLeadTime == 0 {
		c.TrackTableLeadTime = AbortTrackTableLead
	}

	if c.PropertyStorePath == "" {
		c.PropertyStorePath = "dishmanager-properties.json"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, name := range []string{DeviceDS, DeviceSPF, DeviceSPFRX, DeviceB5DC, DeviceWMS} {
		dev, ok := c.Devices[name]
		if !ok || dev.Address == "" {
			return errors.ErrDeviceAddressUnset
		}
	}

	if c.LRC.HistorySize <= 0 {
		return errors.ErrInvalidConfig
	}

	return nil
}
