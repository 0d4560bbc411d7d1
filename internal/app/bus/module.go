package bus

import (
	"go.uber.org/fx"

	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// Module provides Bus for dependency injection.
var Module = fx.Module("bus",
	fx.Provide(func(log logger.Logger) Bus {
		return New(256, log.WithComponent("BUS"))
	}),
)
