// Package client owns the lifecycle of a single ssh client process:
// spawning it attached to the caller's terminal, waiting for it to
// exit, and reaping its exit status.
package client

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Client is a one-shot handle for a child process. A Client is started
// at most once; the exit status of the child is retained, so Wait may
// be called any number of times after the process has terminated.
type Client struct {
	startLock sync.Mutex
	cmd       *exec.Cmd
	pid       int

	// done is closed by the reaper goroutine after the exit
	// status has been consumed and recorded in exit.
	done chan struct{}
	exit ExitEvent

	log *zap.Logger
}

func New(log *zap.Logger) *Client {
	return &Client{
		done: make(chan struct{}),
		log:  log.Named("client"),
	}
}

// Start spawns the child process. The child inherits the streams given
// in the config and stays in the supervisor's process group, so signals
// generated by the controlling terminal reach it directly.
func (c *Client) Start(ctx context.Context, config StartConfig) error {
	c.log.With(
		zap.String("command", config.Cmd),
		zap.Strings("args", config.Args),
	).Debug("starting client process")

	// synchronize access to the process
	c.startLock.Lock()
	defer c.startLock.Unlock()

	if c.cmd != nil {
		return ErrAlreadyStarted
	}

	// exit early if the context is already cancelled
	if ctx.Err() != nil {
		return fmt.Errorf("failed to start process: %w", ctx.Err())
	}

	cmd := exec.Command(config.Cmd, config.Args...)
	cmd.Stdin = config.Stdin
	cmd.Stdout = config.Stdout
	cmd.Stderr = config.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start process: %w", err)
	}

	c.cmd = cmd
	c.pid = cmd.Process.Pid
	c.log = c.log.With(zap.Int("pid", c.pid))

	// reap the process: block until it exits, record the exit
	// status, and release anyone blocked in Wait.
	go func() {
		err := cmd.Wait()

		c.exit = getExitEvent(err)

		close(c.done)
	}()

	return nil
}

// Wait blocks until the child process has exited and its status has
// been reaped, and returns the exit event. If the process has already
// terminated, Wait returns immediately.
func (c *Client) Wait(ctx context.Context) (ExitEvent, error) {
	if !c.started() {
		return ExitEvent{}, ErrNotStarted
	}

	select {
	case <-ctx.Done():
		return ExitEvent{}, ctx.Err()
	case <-c.done:
		return c.exit, nil
	}
}

// WaitFor blocks until the child process exits or the deadline is
// reached, whichever comes first. A deadline of zero or less waits
// indefinitely. When the deadline passes, the child is left running
// and WaitFor returns context.DeadlineExceeded.
func (c *Client) WaitFor(ctx context.Context, deadline time.Duration) (ExitEvent, error) {
	var waitCtx context.Context
	var cancel context.CancelFunc

	if deadline <= 0 {
		waitCtx, cancel = context.WithCancel(ctx)
	} else {
		waitCtx, cancel = context.WithTimeout(ctx, deadline)
	}

	defer cancel()

	return c.Wait(waitCtx)
}

// Terminate sends SIGTERM to the child process and waits up to timeout
// for it to exit. See waitForTermination for the timeout semantics.
func (c *Client) Terminate(timeout time.Duration) error {
	if !c.started() {
		return ErrNotStarted
	}

	c.signal(syscall.SIGTERM)

	return c.waitForTermination(timeout)
}

// Kill sends SIGKILL to the child process and waits up to timeout for
// it to exit.
func (c *Client) Kill(timeout time.Duration) error {
	if !c.started() {
		return ErrNotStarted
	}

	c.signal(syscall.SIGKILL)

	return c.waitForTermination(timeout)
}

// Pid returns the process id of the child, or 0 if it was not started.
func (c *Client) Pid() int {
	c.startLock.Lock()
	defer c.startLock.Unlock()

	return c.pid
}

// Done returns a channel that is closed once the child process has
// exited and its status has been reaped.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) started() bool {
	c.startLock.Lock()
	defer c.startLock.Unlock()

	return c.cmd != nil
}

// waitForTermination blocks until the process exits. A negative timeout
// does not wait at all, a zero timeout waits indefinitely, and a
// positive timeout gives up with ErrKillTimeout once it elapses.
func (c *Client) waitForTermination(timeout time.Duration) error {
	if timeout < 0 {
		return nil
	}

	if timeout == 0 {
		<-c.done
		return nil
	}

	select {
	case <-c.done:
		return nil
	case <-time.After(timeout):
		return ErrKillTimeout
	}
}

func (c *Client) signal(signal syscall.Signal) {
	select {
	case <-c.done:
		c.log.Debug("process already terminated")
		return
	default:
	}

	c.log.Info("sending signal", zap.Stringer("signal", signal))

	// best effort, the process may already be gone
	if err := signalProcess(c.pid, signal); err != nil {
		c.log.Debug("sending signal failed", zap.Error(err))
	}
}

func getExitEvent(err error) ExitEvent {
	var cell int
	var exitStatus *int
	var signo *int

	if err == nil {
		// the process exited successfully, set the exit code to 0
		exitStatus = &cell
	} else if exitError, ok := err.(*exec.ExitError); ok {
		// the process exited with an error
		if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
			if code := status.ExitStatus(); code >= 0 {
				// the process exited with an exit code
				cell = code
				exitStatus = &cell
			} else {
				// the process was terminated by a signal
				cell = int(status.Signal())
				signo = &cell
			}
		}
	}

	if signo == nil && exitStatus == nil {
		// could not determine the exit status or signal,
		// set exit status to 1
		cell = 1
		exitStatus = &cell
	}

	return ExitEvent{
		Code:   exitStatus,
		Signal: signo,
	}
}
