package session

import "fmt"

// OutcomeKind classifies a single run of the ssh client.
type OutcomeKind int

const (
	// OutcomeSuccess is a clean exit within the observation window.
	OutcomeSuccess OutcomeKind = iota

	// OutcomeFailure is a nonzero or signalled exit within the
	// observation window.
	OutcomeFailure

	// OutcomeStillActive marks a run that outlived the observation
	// window: the connection was established. The client is never
	// killed for this; the outcome is reported only after it has
	// exited on its own.
	OutcomeStillActive
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeStillActive:
		return "still-active"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Outcome is the result of one connection attempt, produced by the
// attempter and consumed by the supervisor right away.
type Outcome struct {
	// Kind classifies the run.
	Kind OutcomeKind

	// Code is the exit code of the client process. It is meaningful
	// for every kind except OutcomeSuccess.
	Code int
}
