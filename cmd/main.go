package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/ska-mid/dish-manager-core/internal/app"
	"github.com/ska-mid/dish-manager-core/internal/app/cli"
	"github.com/ska-mid/dish-manager-core/internal/app/crash"
	"github.com/ska-mid/dish-manager-core/internal/app/rpc"
	"github.com/ska-mid/dish-manager-core/internal/config"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// main is the entry point for the application
func main() {
	runApp()
}

// runApp contains the main application logic
func runApp() {
	cmd, err := cli.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := crash.Init(cfg.Sentry.DSN); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: sentry disabled: %v\n", err)
	}

	application := createApp(cfg, cmd)
	application.Run()
}

// loadConfig wraps config.Load for easier testing
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// createApp creates the FX application with the given config
func createApp(cfg *config.Config, cmd *cli.Options) *fx.App {
	return fx.New(
		fx.WithLogger(createFxLogger(cfg)),
		fx.Supply(cfg, cmd),
		fx.Provide(func() logger.Logger {
			return logger.NewLoggerWithOutput(cfg, logOutput(cmd))
		}),
		fx.Provide(newDialer),
		app.Module,
	)
}

// logOutput suppresses log lines while the alt-screen dashboard owns the
// terminal; headless and one-shot commands log to stdout as usual.
func logOutput(cmd *cli.Options) io.Writer {
	if cmd.Type == cli.CommandRun && !cmd.NoUI {
		return io.Discard
	}

	return os.Stdout
}

// newDialer supplies the transport the proxy layer dials children through.
// This build ships the in-memory simulator; a deployment against real
// subservient controllers swaps this one constructor for its own dialer.
func newDialer(cfg *config.Config) rpc.Dialer {
	registry := make(map[string]*rpc.Simulated, len(cfg.Devices))

	for name, dev := range cfg.Devices {
		registry[dev.Address] = rpc.NewSimulated(dev.Address, defaultAttributes(name))
	}

	return rpc.NewSimulatedDialer(registry)
}

// defaultAttributes seeds a simulated child with the idle state a freshly
// powered controller reports.
func defaultAttributes(device string) map[string]interface{} {
	switch device {
	case config.DeviceDS:
		return map[string]interface{}{
			"operatingmode":   "STANDBY_LP",
			"powerstate":      "LOW_POWER",
			"pointingstate":   "READY",
			"indexerposition": "UNKNOWN",
		}
	case config.DeviceSPF:
		return map[string]interface{}{
			"operatingmode": "STANDBY_LP",
			"powerstate":    "LOW_POWER",
			"healthstate":   "OK",
		}
	case config.DeviceSPFRX:
		return map[string]interface{}{
			"operatingmode":  "STANDBY",
			"healthstate":    "OK",
			"configuredband": "UNKNOWN",
			"capturingdata":  false,
		}
	case config.DeviceB5DC:
		return map[string]interface{}{
			"plllock": true,
		}
	case config.DeviceWMS:
		return map[string]interface{}{
			"windspeed": 0.0,
		}
	default:
		return map[string]interface{}{}
	}
}

// createFxLogger returns an FX logger based on the config
func createFxLogger(cfg *config.Config) func() fxevent.Logger {
	return func() fxevent.Logger {
		if cfg.Logging.Level == logger.DebugLevel {
			return &fxevent.ConsoleLogger{W: os.Stdout}
		}

		return fxevent.NopLogger
	}
}
