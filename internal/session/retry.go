package session

import "time"

// RetryPolicy bounds the reconnection loop.
type RetryPolicy struct {
	// MaxAttempts is the total number of connection attempts before
	// the supervisor gives up. Zero means no limit.
	MaxAttempts int

	// Delay is the pause before the first reconnection attempt.
	Delay time.Duration

	// Backoff scales the pause after every unsuccessful attempt.
	Backoff float64
}

// Normalize returns a copy of the policy with out-of-range fields
// clamped to usable values.
func (p RetryPolicy) Normalize() RetryPolicy {
	if p.MaxAttempts < 0 {
		p.MaxAttempts = 0
	}

	if p.Delay < 0 {
		p.Delay = 0
	}

	if p.Backoff <= 0 {
		p.Backoff = 1
	}

	return p
}

// Exhausted reports whether the given attempt number has consumed the
// whole retry budget.
func (p RetryPolicy) Exhausted(attempt int) bool {
	return p.MaxAttempts > 0 && attempt >= p.MaxAttempts
}

// NextDelay returns the pause that follows the given one.
func (p RetryPolicy) NextDelay(current time.Duration) time.Duration {
	return time.Duration(float64(current) * p.Backoff)
}
