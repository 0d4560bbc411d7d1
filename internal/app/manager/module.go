package manager

import (
	"context"

	"go.uber.org/fx"

	"github.com/ska-mid/dish-manager-core/internal/app/bus"
	"github.com/ska-mid/dish-manager-core/internal/app/proxy"
	"github.com/ska-mid/dish-manager-core/internal/app/scheduler"
	"github.com/ska-mid/dish-manager-core/internal/app/tracker"
	"github.com/ska-mid/dish-manager-core/internal/config"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// Module provides Manager for dependency injection and ties its
// communication lifecycle to the fx application lifecycle.
var Module = fx.Module("manager",
	fx.Provide(func(cfg *config.Config, log logger.Logger, eventBus bus.Bus, proxies proxy.Manager, sched scheduler.Scheduler, trk tracker.Tracker) (Manager, error) {
		return New(cfg, log.WithComponent("MANAGER"), eventBus, proxies, sched, trk)
	}),
	fx.Invoke(func(lc fx.Lifecycle, m Manager) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				m.StartCommunicating(context.WithoutCancel(ctx))
				return nil
			},
			OnStop: func(ctx context.Context) error {
				m.StopCommunicating()
				return nil
			},
		})
	}),
)
