package cmd

import (
	"github.com/sshagain/sshagain/app"
	"github.com/sshagain/sshagain/internal/session"
	"github.com/sshagain/sshagain/internal/shell"
	"github.com/urfave/cli/v2"
)

// connectAction is the root action. It hands the forwarded arguments
// to the session supervisor and runs it until the session ends.
func connectAction(ctx *cli.Context) error {
	forwarded := ctx.Args().Slice()
	if len(forwarded) == 0 {
		// Nothing to pass to ssh. Print usage and bail out before
		// any session machinery is built.
		_ = cli.ShowAppHelp(ctx)
		return shell.NewExitError(shell.ExitCodeError)
	}

	app, err := app.New(ctx)
	if err != nil {
		return err
	}

	return app.Run(ctx.Context, session.Module(session.Params{
		Args: forwarded,
	}))
}
