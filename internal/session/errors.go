package session

import "errors"

var (
	// ErrClientNotFound means no usable ssh executable could be
	// located. Resolution happens once, before the first attempt,
	// and is never retried.
	ErrClientNotFound = errors.New("ssh client executable not found")

	// ErrMaxAttempts means the retry budget was exhausted without a
	// single successful session.
	ErrMaxAttempts = errors.New("exceeded maximum number of connection attempts")

	// ErrInterrupted means the session was cancelled from outside,
	// e.g. by an interrupt from the terminal. Callers must not
	// conflate it with ErrMaxAttempts.
	ErrInterrupted = errors.New("interrupted")
)
