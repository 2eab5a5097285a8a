package client

import (
	"fmt"
	"io"
)

var (
	ErrKillTimeout    = fmt.Errorf("kill timeout")
	ErrNotStarted     = fmt.Errorf("client not started")
	ErrAlreadyStarted = fmt.Errorf("client already started")
)

type StartConfig struct {
	// Cmd is the path or name of the binary to execute
	Cmd string

	// Args is the list of arguments to pass to the command
	Args []string

	// Stdin, Stdout and Stderr are attached to the child process
	// as-is. Files are passed through as descriptors, which keeps
	// the child directly connected to the caller's terminal.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type ExitEvent struct {
	// Code is the exit code of the process
	Code *int

	// Signal is the signal that caused the process to exit
	Signal *int
}

// ExitCode collapses the event into a single exit code, mapping
// signal terminations to the shell convention of 128+signal.
func (e ExitEvent) ExitCode() int {
	if e.Code != nil {
		return *e.Code
	}

	if e.Signal != nil {
		return 128 + *e.Signal
	}

	return 1
}

// Success reports whether the process exited cleanly.
func (e ExitEvent) Success() bool {
	return e.Code != nil && *e.Code == 0
}
