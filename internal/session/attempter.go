package session

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/sshagain/sshagain/internal/client"
)

// Attempter performs a single spawn-wait-classify cycle against the
// resolved ssh executable.
type Attempter interface {
	Attempt(ctx context.Context, exe string, args []string) (Outcome, error)
}

const (
	// DefaultTimeout is the default observation window.
	DefaultTimeout = 30 * time.Second

	terminateGrace = 5 * time.Second
	killGrace      = 2 * time.Second
)

// ProcessAttempter runs the ssh client as a child process attached to
// the caller's terminal.
type ProcessAttempter struct {
	timeout time.Duration

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	log *zap.Logger
}

func NewProcessAttempter(timeout time.Duration, log *zap.Logger) *ProcessAttempter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &ProcessAttempter{
		timeout: timeout,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		log:     log.Named("attempter"),
	}
}

var _ Attempter = (*ProcessAttempter)(nil)

// Attempt spawns the client and waits for it to finish. A client that
// exits within the observation window is classified by its exit code. A
// client that outlives the window is an established session: it is not
// killed, and Attempt keeps waiting on the same process until it truly
// exits, so that no second client can contend for the terminal.
func (a *ProcessAttempter) Attempt(ctx context.Context, exe string, args []string) (Outcome, error) {
	c := client.New(a.log)

	err := c.Start(ctx, client.StartConfig{
		Cmd:    exe,
		Args:   args,
		Stdin:  a.stdin,
		Stdout: a.stdout,
		Stderr: a.stderr,
	})
	if err != nil {
		return Outcome{}, err
	}

	evt, err := c.WaitFor(ctx, a.timeout)
	if err == nil {
		return classify(evt), nil
	}

	if ctx.Err() != nil {
		return Outcome{}, a.abort(ctx, c)
	}

	if !errors.Is(err, context.DeadlineExceeded) {
		return Outcome{}, err
	}

	// The client outlived the observation window: the connection is
	// established and healthy. Hold the terminal and wait for the
	// process to exit on its own.
	a.log.Debug("session established, waiting for client to exit",
		zap.Int("pid", c.Pid()),
	)

	evt, err = c.Wait(ctx)
	if err != nil {
		return Outcome{}, a.abort(ctx, c)
	}

	// A late exit means the connection dropped. The run did not
	// succeed within the window; the supervisor decides whether
	// to reconnect.
	a.log.Debug("client exited after established session",
		zap.Int("code", evt.ExitCode()),
	)

	return Outcome{Kind: OutcomeStillActive, Code: evt.ExitCode()}, nil
}

// abort tears the client down after a cancellation: terminate,
// escalate to kill if it will not die, and reap the exit status.
func (a *ProcessAttempter) abort(ctx context.Context, c *client.Client) error {
	if err := c.Terminate(terminateGrace); errors.Is(err, client.ErrKillTimeout) {
		if err := c.Kill(killGrace); err != nil {
			a.log.Warn("client did not exit on kill", zap.Error(err))
		}
	}

	return ctx.Err()
}

func classify(evt client.ExitEvent) Outcome {
	if evt.Success() {
		return Outcome{Kind: OutcomeSuccess}
	}

	return Outcome{Kind: OutcomeFailure, Code: evt.ExitCode()}
}
