package tracker

import (
	"go.uber.org/fx"

	"github.com/ska-mid/dish-manager-core/internal/config"
)

// Module provides the fx dependency injection options for the tracker
// package.
var Module = fx.Options(
	fx.Provide(func(cfg *config.Config) Tracker { return New(cfg.LRC.HistorySize) }),
)
