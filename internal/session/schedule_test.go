package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticResolver string

func (r staticResolver) Resolve() (string, error) {
	return string(r), nil
}

type failingAttempter struct{}

func (failingAttempter) Attempt(context.Context, string, []string) (Outcome, error) {
	return Outcome{Kind: OutcomeFailure, Code: 1}, nil
}

func TestManager_Connect_BackoffSchedule(t *testing.T) {
	m := NewManager(ManagerParams{
		Config:    Config{MaxAttempts: 4, Delay: 1.0, Backoff: 2.0},
		Resolver:  staticResolver("/usr/bin/ssh"),
		Attempter: failingAttempter{},
		Log:       zap.NewNop(),
	})

	var delays []time.Duration
	m.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	err := m.Connect(context.Background())
	require.ErrorIs(t, err, ErrMaxAttempts)

	// one pause between consecutive attempts, scaled after each
	assert.Equal(t, []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
	}, delays)
}

func TestManager_Connect_ConstantDelaySchedule(t *testing.T) {
	m := NewManager(ManagerParams{
		Config:    Config{MaxAttempts: 3, Delay: 0.5},
		Resolver:  staticResolver("/usr/bin/ssh"),
		Attempter: failingAttempter{},
		Log:       zap.NewNop(),
	})

	var delays []time.Duration
	m.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	err := m.Connect(context.Background())
	require.ErrorIs(t, err, ErrMaxAttempts)

	// default backoff keeps the delay constant
	assert.Equal(t, []time.Duration{
		500 * time.Millisecond,
		500 * time.Millisecond,
	}, delays)
}

func TestSleepContext_CancelledBeforeSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sleepContext(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
