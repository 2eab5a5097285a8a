// Package session implements the reconnection supervisor: it resolves
// the ssh client once, then drives attempt after attempt until one
// succeeds, the retry budget is exhausted, or the user interrupts.
package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Manager supervises a single ssh session. It is strictly sequential:
// at most one client process exists at any time, and each one is fully
// reaped before the next attempt starts. A Manager is not reused across
// sessions.
type Manager struct {
	args      []string
	policy    RetryPolicy
	resolver  Resolver
	attempter Attempter

	// sleep is swappable so tests can observe the retry schedule
	// without waiting for it.
	sleep func(ctx context.Context, d time.Duration) error

	attempts int

	log *zap.Logger
}

type ManagerParams struct {
	// Params are the per-invocation session parameters.
	Params Params

	// Config is the session configuration.
	Config Config

	// Resolver locates the ssh executable. When nil, a PathResolver
	// over the configured client name is used.
	Resolver Resolver

	// Attempter performs single connection attempts. When nil, a
	// ProcessAttempter attached to the caller's terminal is used.
	Attempter Attempter

	// Log is the logger to use for the manager.
	Log *zap.Logger
}

func NewManager(params ManagerParams) *Manager {
	log := params.Log
	if log == nil {
		log = zap.NewNop()
	}

	resolver := params.Resolver
	if resolver == nil {
		resolver = NewPathResolver(params.Config.Client, log)
	}

	attempter := params.Attempter
	if attempter == nil {
		attempter = NewProcessAttempter(params.Config.SessionTimeout(), log)
	}

	return &Manager{
		args:      params.Params.Args,
		policy:    params.Config.RetryPolicy(),
		resolver:  resolver,
		attempter: attempter,
		sleep:     sleepContext,
		log:       log,
	}
}

// Connect runs the session to completion. It returns nil once a client
// run succeeds, ErrClientNotFound when no executable resolves,
// ErrMaxAttempts when the retry budget runs out, ErrInterrupted when
// the context is cancelled, and any other attempt error unchanged.
func (m *Manager) Connect(ctx context.Context) error {
	exe, err := m.resolver.Resolve()
	if err != nil {
		return err
	}

	delay := m.policy.Delay

	for {
		m.attempts++

		m.log.Debug("attempting connection",
			zap.Int("attempt", m.attempts),
			zap.String("exe", exe),
		)

		outcome, err := m.attempter.Attempt(ctx, exe, m.args)
		if err != nil {
			if ctx.Err() != nil {
				return ErrInterrupted
			}
			return err
		}

		if outcome.Kind == OutcomeSuccess {
			m.log.Debug("session closed cleanly",
				zap.Int("attempts", m.attempts),
			)
			return nil
		}

		m.log.Debug("connection did not succeed",
			zap.Stringer("outcome", outcome.Kind),
			zap.Int("code", outcome.Code),
			zap.Int("attempt", m.attempts),
		)

		if m.policy.Exhausted(m.attempts) {
			return ErrMaxAttempts
		}

		m.log.Debug("waiting before reconnecting",
			zap.Duration("delay", delay),
		)

		if err := m.sleep(ctx, delay); err != nil {
			return ErrInterrupted
		}

		delay = m.policy.NextDelay(delay)
	}
}

// Attempts returns the number of connection attempts performed.
func (m *Manager) Attempts() int {
	return m.attempts
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
