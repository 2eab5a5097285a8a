package session

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sshagain/sshagain/util/logging"
)

// Module wires the session components into the application graph. The
// caller supplies the per-invocation Params; Config and the logger come
// from the shared application module.
func Module(params Params) fx.Option {
	return fx.Module(
		"session",
		// scope the logger to the session module
		logging.DecorateLogger("session"),
		// provide session params
		fx.Supply(params),
		// provide the manager
		fx.Provide(newManager),
		// provide and invoke the lifecycle runner
		fx.Provide(NewLifecycleRunner),
		fx.Invoke(func(*Runner) {}),
	)
}

func newManager(params Params, config Config, log *zap.Logger) *Manager {
	return NewManager(ManagerParams{
		Params: params,
		Config: config,
		Log:    log,
	})
}
