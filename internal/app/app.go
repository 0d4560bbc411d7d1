package app

import (
	"context"
	"os"
	"time"

	"go.uber.org/fx"

	"github.com/ska-mid/dish-manager-core/internal/app/bus"
	"github.com/ska-mid/dish-manager-core/internal/app/cli"
	"github.com/ska-mid/dish-manager-core/internal/app/crash"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// App represents the main application container
type App struct {
	cli      cli.CLI
	event    bus.Bus
	log      logger.Logger
	shutdown fx.Shutdowner
}

// NewApp creates a new application instance with its dependencies
func NewApp(cli cli.CLI, event bus.Bus, log logger.Logger, shutdown fx.Shutdowner) *App {
	return &App{
		cli:      cli,
		event:    event,
		log:      log,
		shutdown: shutdown,
	}
}

// Run executes the application with command line arguments
func (a *App) Run() {
	exitCode := a.execute(os.Args[1:])
	_ = a.shutdown.Shutdown(fx.ExitCode(exitCode))
}

// execute runs the CLI with given args and handles errors - extracted for
// testing
func (a *App) execute(args []string) int {
	exitCode, err := a.cli.Run(args)
	if err != nil {
		a.log.Error().Err(err).Msg("Application error")
	}

	return exitCode
}

// Register registers the application's lifecycle hooks with fx
func Register(lifecycle fx.Lifecycle, app *App) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go app.Run()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			app.event.Close()
			crash.Flush(2 * time.Second)

			return nil
		},
	})
}
