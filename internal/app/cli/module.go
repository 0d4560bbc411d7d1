package cli

import (
	"go.uber.org/fx"

	"github.com/ska-mid/dish-manager-core/internal/app/bus"
	"github.com/ska-mid/dish-manager-core/internal/app/manager"
	"github.com/ska-mid/dish-manager-core/internal/config"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// Module provides the fx dependency injection options for the cli package
var Module = fx.Module("cli",
	fx.Provide(func(cfg *config.Config, event bus.Bus, log logger.Logger) TUI {
		return NewTUI(cfg, event, log.WithComponent("TUI"))
	}),
	fx.Provide(func(cfg *config.Config, m manager.Manager, tui TUI, log logger.Logger) CLI {
		return NewCLI(cfg, m, tui, log.WithComponent("CLI"))
	}),
)
