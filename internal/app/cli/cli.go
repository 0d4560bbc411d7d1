//go:generate mockgen -source=cli.go -destination=cli_mock.go -package=cli
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.yaml.in/yaml/v3"

	"github.com/ska-mid/dish-manager-core/internal/app/aggregation"
	"github.com/ska-mid/dish-manager-core/internal/app/compstate"
	"github.com/ska-mid/dish-manager-core/internal/app/dishmode"
	"github.com/ska-mid/dish-manager-core/internal/config"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// Dish is the read surface the CLI renders. Satisfied by the component
// manager; narrow on purpose so the TUI can be driven by a small fake in
// tests.
type Dish interface {
	DishMode() dishmode.Mode
	PowerState() aggregation.PowerState
	HealthState() aggregation.HealthState
	PointingState() aggregation.PointingState
	ConfiguredBand() aggregation.Band
	CapabilityState(band aggregation.Band) aggregation.CapabilityState
	ConnectionState(device string) compstate.CommunicationStatus
	DSCErrorStatuses() string
	WindGust() float64
	MeanWindSpeed() float64
	LongRunningCommandsInQueue() []string
	LongRunningCommandStatus() []string
	SyncComponentStates(ctx context.Context)
	GetComponentStates() map[string]map[string]compstate.Entry
}

// CLI defines the interface for cli operations
type CLI interface {
	Run(args []string) (int, error)
}

// cli represents the command-line interface for the application
type cli struct {
	cfg  *config.Config
	dish Dish
	tui  TUI
	log  logger.Logger
}

// NewCLI creates a new cli instance
func NewCLI(cfg *config.Config, dish Dish, tui TUI, log logger.Logger) CLI {
	return &cli{
		cfg:  cfg,
		dish: dish,
		tui:  tui,
		log:  log,
	}
}

// Run processes command-line arguments and executes commands
func (c *cli) Run(args []string) (int, error) {
	opts, err := Parse(args)
	if err != nil {
		return 1, err
	}

	switch opts.Type {
	case CommandHelp:
		return c.handleHelp()
	case CommandVersion:
		return c.handleVersion()
	case CommandStatus:
		return c.handleStatus()
	default:
		return c.handleRun(opts)
	}
}

func (c *cli) handleHelp() (int, error) {
	if err := c.tui.Help(); err != nil {
		return 1, err
	}

	return 0, nil
}

func (c *cli) handleVersion() (int, error) {
	fmt.Printf("%s v%s\n", config.AppName, config.Version)
	return 0, nil
}

// handleStatus prints a one-shot YAML snapshot of every child's component
// state plus the rolled-up dish state.
func (c *cli) handleStatus() (int, error) {
	c.dish.SyncComponentStates(context.Background())

	out, err := yaml.Marshal(statusReport(c.dish))
	if err != nil {
		return 1, err
	}

	fmt.Print(string(out))

	return 0, nil
}

func (c *cli) handleRun(opts *Options) (int, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if opts.NoUI {
		return c.runHeadless(ctx)
	}

	if err := c.tui.Run(ctx, c.dish); err != nil {
		c.log.Error().Err(err).Msg("TUI exited with error")
		return 1, err
	}

	return 0, nil
}

// runHeadless blocks until interrupted; the component manager's own
// lifecycle hooks keep supervising in the background.
func (c *cli) runHeadless(ctx context.Context) (int, error) {
	c.log.Info().Msg("running without TUI, press ctrl+c to stop")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	return 0, nil
}

// statusReport flattens component-state entries into plain values for YAML
// output, annotating INVALID entries rather than dropping them.
func statusReport(dish Dish) map[string]map[string]string {
	states := dish.GetComponentStates()
	report := make(map[string]map[string]string, len(states))

	for device, attrs := range states {
		flat := make(map[string]string, len(attrs))

		for name, entry := range attrs {
			value := fmt.Sprintf("%v", entry.Value)
			if entry.Quality == compstate.QualityInvalid {
				value += " (INVALID)"
			}

			flat[name] = value
		}

		report[device] = flat
	}

	return report
}
