// Package crash reports panics from long-lived goroutines to Sentry. The
// supervisory loops (monitor consumers, the scheduler worker, fan-out
// workers, the abort sequencer) already recover locally so a failing
// callable can never take the process down; this package gives those recover
// blocks a single place to forward the panic before they resume.
package crash

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/ska-mid/dish-manager-core/internal/config"
)

// Init configures the Sentry client. An empty DSN disables reporting
// entirely; Capture and Flush become no-ops.
func Init(dsn string) error {
	if dsn == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:     dsn,
		Release: config.AppName + "@" + config.Version,
	})
}

// Capture forwards a recovered panic value, tagged with the goroutine's
// component name. Safe to call when Init was never run or the DSN is empty.
func Capture(component string, recovered interface{}) {
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", component)
		hub.Recover(recovered)
	})
}

// CaptureErr reports a non-panic error worth alerting on (e.g. a child
// connection giving up its retry budget).
func CaptureErr(component string, err error) {
	hub := sentry.CurrentHub()
	if hub.Client() == nil || err == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", component)
		hub.CaptureException(err)
	})
}

// Flush drains buffered events, called once on shutdown.
func Flush(timeout time.Duration) {
	if sentry.CurrentHub().Client() == nil {
		return
	}

	sentry.Flush(timeout)
}

// Message formats a recovered value for local logging alongside Capture.
func Message(recovered interface{}) string {
	return fmt.Sprintf("%v", recovered)
}
