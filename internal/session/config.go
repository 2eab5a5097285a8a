package session

import (
	"time"

	"github.com/sshagain/sshagain/util/conf"
)

// Config is the user-facing session configuration. Durations are
// expressed in seconds so that flags, env vars and config files stay
// uniform; they are converted once, at construction.
type Config struct {
	// Client is the name of or path to the ssh executable
	Client string `conf:"client"`

	// MaxAttempts is the connection attempt budget.
	// Zero means reconnect forever.
	MaxAttempts int `conf:"max_attempts"`

	// Delay is the initial pause between attempts, in seconds
	Delay float64 `conf:"delay"`

	// Backoff scales the pause after each unsuccessful attempt
	Backoff float64 `conf:"backoff"`

	// Timeout is the observation window in seconds: a client that
	// outlives it is considered an established session
	Timeout float64 `conf:"timeout"`
}

// DefaultConfig holds the session defaults, namespaced by the caller.
var DefaultConfig = conf.DefaultConfig{
	"client":       "ssh",
	"max_attempts": 0,
	"delay":        1.0,
	"backoff":      1.0,
	"timeout":      30.0,
}

// RetryPolicy derives the retry policy from the config.
func (c Config) RetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: c.MaxAttempts,
		Delay:       secondsToDuration(c.Delay),
		Backoff:     c.Backoff,
	}.Normalize()
}

// SessionTimeout returns the observation window as a duration.
func (c Config) SessionTimeout() time.Duration {
	return secondsToDuration(c.Timeout)
}

// Params carries the per-invocation session parameters: the argument
// list that is forwarded verbatim to every ssh invocation.
type Params struct {
	Args []string
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
