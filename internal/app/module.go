package app

import (
	"go.uber.org/fx"

	"github.com/ska-mid/dish-manager-core/internal/app/bus"
	"github.com/ska-mid/dish-manager-core/internal/app/cli"
	"github.com/ska-mid/dish-manager-core/internal/app/manager"
	"github.com/ska-mid/dish-manager-core/internal/app/proxy"
	"github.com/ska-mid/dish-manager-core/internal/app/scheduler"
	"github.com/ska-mid/dish-manager-core/internal/app/tracker"
)

// Module provides the fx dependency injection options for the app package
var Module = fx.Options(
	bus.Module,
	proxy.Module,
	scheduler.Module,
	tracker.Module,
	manager.Module,
	cli.Module,
	fx.Provide(NewApp),
	fx.Invoke(Register),
)
