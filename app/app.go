package app

import (
	"github.com/sshagain/sshagain/config"
	"github.com/sshagain/sshagain/internal/shell"
	"github.com/sshagain/sshagain/util/conf"
	"github.com/sshagain/sshagain/util/logging"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
)

// New creates a new application shell from the logger and the parsed
// configuration carried in the cli context.
func New(ctx *cli.Context) (*shell.Shell, error) {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return nil, err
	}

	config, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return nil, err
	}

	sharedModule := fx.Module(
		"shared",
		// provide global config
		fx.Supply(config),
		// provide session config
		fx.Supply(config.Session),
	)

	return shell.New(log, sharedModule), nil
}
