package config

import "time"

// Application metadata.
const (
	AppName    = "dishmanagerd"
	Version    = "0.1.0"
	ConfigFile = "dishmanager.yaml"
	EnvFile    = ".env"
)

// Logging defaults.
const (
	LogLevel  = "info"
	LogFormat = "console"
)

// Device identifiers (map keys into Config.Devices and the component
// registry in internal/app/manager).
const (
	DeviceDS    = "ds"
	DeviceSPF   = "spf"
	DeviceSPFRX = "spfrx"
	DeviceB5DC  = "b5dc"
	DeviceWMS   = "wms"
)

// Device proxy retry schedule: 5 attempts, backoff multiplied by
// 1.5 (rounded) after each failure.
const (
	ProxyRetryAttempts  = 5
	ProxyInitialBackoff = 200 * time.Millisecond
	ProxyBackoffFactor  = 1.5
	ProxyCommandTimeout = 5 * time.Second
)

// LRC tracker retained-history bound.
const (
	LRCHistorySize = 64
)

// Command scheduler periods.
const (
	SPFRXMonitorPingPeriod = 30 * time.Second
)

// Default heartbeat / shutdown timing.
const (
	DefaultLRCTimeout   = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	AbortTrackTableLead = 5 * time.Second
	AbortTrackTableEl   = 50.0
)

// dscPowerLimitkW accepted range, enforced before the write reaches the DS.
const (
	DSCPowerLimitMinKW = 1.0
	DSCPowerLimitMaxKW = 20.0
)

// Pointing-model coefficient range: all 18 elements in [-2000, 2000] except
// element 10 (ABphi) which is in [0, 360].
const (
	PointingModelCoeffMin  = -2000.0
	PointingModelCoeffMax  = 2000.0
	PointingModelABphiMin  = 0.0
	PointingModelABphiMax  = 360.0
	PointingModelCoeffSize = 18
	ABphiIndex             = 10
)
