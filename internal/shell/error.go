package shell

import (
	"errors"
	"fmt"
)

const (
	// ExitCodeOK is the exit code of a session that ended cleanly.
	ExitCodeOK = 0

	// ExitCodeError is the single failure exit code, used for every
	// failure class: client not found, attempts exhausted, interrupt,
	// and unclassified errors. The classes are distinguished in the
	// logged output, not in the exit code.
	ExitCodeError = 255
)

// ExitError carries the process exit code out of the shell. ExitCode is
// deliberately a field, not a method: the error must not satisfy cli's
// ExitCoder, exiting the process is owned by the command layer.
type ExitError struct {
	ExitCode int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("shell exited with %d", e.ExitCode)
}

func NewExitError(exitCode int) *ExitError {
	return &ExitError{ExitCode: exitCode}
}

func IsExitError(err error) bool {
	if err == nil {
		return false
	}

	var exitErr *ExitError
	return errors.As(err, &exitErr)
}
