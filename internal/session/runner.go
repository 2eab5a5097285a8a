package session

import (
	"context"
	"errors"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sshagain/sshagain/internal/shell"
)

type RunnerParams struct {
	fx.In

	Context context.Context

	Manager *Manager
	Logger  *zap.Logger

	Shutdowner fx.Shutdowner
}

// Runner ties the session manager into the application lifecycle. Once
// the app has started it drives Connect in the background and turns the
// result into the application's exit code.
type Runner struct {
	manager    *Manager
	shutdowner fx.Shutdowner

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	log *zap.Logger
}

func NewRunner(params RunnerParams) *Runner {
	ctx, cancel := context.WithCancel(params.Context)

	return &Runner{
		manager:    params.Manager,
		shutdowner: params.Shutdowner,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		log:        params.Logger,
	}
}

func NewLifecycleRunner(params RunnerParams, lc fx.Lifecycle) *Runner {
	runner := NewRunner(params)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go runner.Run()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return runner.Stop(ctx)
		},
	})
	return runner
}

// Run drives the session to completion and shuts the application down
// with the session's exit code. Failure classes share one exit code and
// are told apart in the logged output.
func (r *Runner) Run() {
	defer close(r.done)

	err := r.manager.Connect(r.ctx)

	code := shell.ExitCodeOK

	switch {
	case err == nil:
	case errors.Is(err, ErrClientNotFound):
		r.log.Error(err.Error())
		code = shell.ExitCodeError
	case errors.Is(err, ErrMaxAttempts):
		r.log.Error(err.Error())
		code = shell.ExitCodeError
	case errors.Is(err, ErrInterrupted):
		r.log.Debug("session interrupted")
		code = shell.ExitCodeError
	default:
		r.log.Error("unexpected error", zap.Error(err))
		code = shell.ExitCodeError
	}

	if err := r.shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
		r.log.Error("shutdown failed", zap.Error(err))
	}
}

// Stop cancels the running session and waits for it to wind down.
func (r *Runner) Stop(ctx context.Context) error {
	r.cancel()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
