package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sshagain/sshagain/internal/session"
)

type fakeShutdowner struct {
	mu    sync.Mutex
	calls int
}

func (s *fakeShutdowner) Shutdown(...fx.ShutdownOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	return nil
}

func (s *fakeShutdowner) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

type blockingAttempter struct{}

func (blockingAttempter) Attempt(ctx context.Context, _ string, _ []string) (session.Outcome, error) {
	<-ctx.Done()
	return session.Outcome{}, ctx.Err()
}

func TestRunner_Run_ShutsDownAfterSession(t *testing.T) {
	shutdowner := &fakeShutdowner{}

	r := session.NewRunner(session.RunnerParams{
		Context:    context.Background(),
		Manager:    newManager(session.Config{}, nil, workingResolver(), scriptedAttempter(success)),
		Logger:     zap.NewNop(),
		Shutdowner: shutdowner,
	})

	r.Run()

	assert.Equal(t, 1, shutdowner.Calls())
}

func TestRunner_Stop_CancelsRunningSession(t *testing.T) {
	shutdowner := &fakeShutdowner{}

	r := session.NewRunner(session.RunnerParams{
		Context:    context.Background(),
		Manager:    newManager(session.Config{}, nil, workingResolver(), blockingAttempter{}),
		Logger:     zap.NewNop(),
		Shutdowner: shutdowner,
	})

	go r.Run()

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := r.Stop(stopCtx)
	require.NoError(t, err)

	assert.Equal(t, 1, shutdowner.Calls())
}
