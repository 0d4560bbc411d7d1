// Package errors collects the sentinel errors shared across the Dish Manager
// core. Commands wrap these with fmt.Errorf("%w: ...") so callers can still
// errors.Is/As against the stable kind.
package errors

import (
	"errors"
)

// Configuration and bootstrap errors.
var (
	ErrFailedToReadConfig  = errors.New("failed to read config file")
	ErrFailedToParseConfig = errors.New("failed to parse config file")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrDeviceAddressUnset  = errors.New("device address is not configured")
)

// Device proxy / transport errors.
var (
	ErrConnectionFailed      = errors.New("connection failed")
	ErrConnectionInterrupted = errors.New("connection interrupted")
	ErrDeviceUnknown         = errors.New("unknown device address")
)

// Command admissibility and argument errors.
var (
	ErrCommandNotAllowed     = errors.New("Command is not allowed")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrPreconditionFailed    = errors.New("precondition not satisfied")
	ErrCommunicationDisabled = errors.New("communication with device is disabled")
	ErrRemoteFailure         = errors.New("remote command failed")
	ErrAborted               = errors.New("aborted")
	ErrTimeout               = errors.New("timeout")
	ErrWatchdogInactive      = errors.New("WATCHDOG_INACTIVE")
	ErrAbortInProgress       = errors.New("Existing Abort sequence ongoing")
)

// LRC tracker errors.
var (
	ErrCommandNotFound = errors.New("long running command not found")
)

// Scheduler errors.
var (
	ErrTaskNotFound = errors.New("scheduled task not found")
)

// Watchdog errors.
var (
	ErrWatchdogTimeout = errors.New("watchdog timeout must be greater than zero")
)

// Property store errors.
var (
	ErrPropertyStoreCorrupt = errors.New("property store file corrupted")
)

// As, Is and New re-export the stdlib helpers so callers only need one
// import for both sentinel errors and error inspection.
var (
	As  = errors.As
	Is  = errors.Is
	New = errors.New
)
