package scheduler

import (
	"context"

	"go.uber.org/fx"

	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// Module provides Scheduler for dependency injection.
var Module = fx.Module("scheduler",
	fx.Provide(func(log logger.Logger) Scheduler {
		return New(log.WithComponent("SCHEDULER"))
	}),
	fx.Invoke(func(lc fx.Lifecycle, s Scheduler) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				s.Stop()
				return nil
			},
		})
	}),
)
