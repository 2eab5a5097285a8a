// Package shell runs the fx application graph for one invocation and
// turns its shutdown into a process exit code.
package shell

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

type Shell struct {
	log     *zap.Logger
	fxApp   *fx.App
	options []fx.Option
}

func New(log *zap.Logger, options ...fx.Option) *Shell {
	return &Shell{
		log:     log,
		options: options,
	}
}

// Run builds and starts the fx app, blocks until it shuts down, and
// returns an ExitError carrying the exit code. Shutdown happens either
// programmatically, via fx.Shutdowner with an exit code, or through an
// OS signal; a signal-triggered shutdown is a user interrupt and maps
// to the failure exit code.
func (s *Shell) Run(ctx context.Context, options ...fx.Option) error {
	// after run ends, flush the logger
	defer s.log.Sync()

	// the app context is handed to the graph; it is cancelled when
	// Run winds down so lifecycle components can unblock
	appCtx, cancelApp := context.WithCancel(ctx)
	defer cancelApp()

	fxApp := s.createFxApp(appCtx, options...)
	s.fxApp = fxApp

	startCtx, cancelStart := context.WithTimeout(ctx, fxApp.StartTimeout())
	defer cancelStart()

	if err := fxApp.Start(startCtx); err != nil {
		return NewExitError(ExitCodeError)
	}

	// block until a shutdown signal arrives
	sig := <-fxApp.Wait()

	exitCode := sig.ExitCode
	if sig.Signal != nil {
		s.log.Debug("received signal", zap.Stringer("signal", sig.Signal))
		exitCode = ExitCodeError
	}

	stopCtx, cancelStop := context.WithTimeout(ctx, fxApp.StopTimeout())
	defer cancelStop()

	if err := fxApp.Stop(stopCtx); err != nil {
		return NewExitError(ExitCodeError)
	}

	return NewExitError(exitCode)
}

func (s *Shell) createFxApp(ctx context.Context, options ...fx.Option) *fx.App {
	return fx.New(
		// inject global execution context
		fx.Supply(fx.Annotate(ctx, fx.As(new(context.Context)))),

		// inject the logger
		fx.Supply(s.log),

		// use the logger also for fx' logs
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: s.log.Named("fx")}
		}),

		// provide shell-level options
		fx.Options(s.options...),

		// provide run options
		fx.Options(options...),
	)
}
