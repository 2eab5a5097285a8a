//go:build windows

package client

import (
	"os"
	"syscall"
)

// signalProcess force-kills the child. Windows has no signal delivery,
// so graceful termination degrades to Kill.
func signalProcess(pid int, _ syscall.Signal) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}

	return proc.Kill()
}
