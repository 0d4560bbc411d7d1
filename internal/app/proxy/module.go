package proxy

import (
	"go.uber.org/fx"

	"github.com/ska-mid/dish-manager-core/internal/app/rpc"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// Module provides a Manager over whatever rpc.Dialer is already in the fx
// graph; cmd/main.go supplies the concrete Dialer (real transport in
// production, rpc.NewSimulatedDialer in local/dev runs).
var Module = fx.Module("proxy",
	fx.Provide(func(dial rpc.Dialer, log logger.Logger) Manager {
		return New(dial, log.WithComponent("PROXY"))
	}),
)
