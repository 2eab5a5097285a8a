//go:build aix || darwin || dragonfly || freebsd || (js && wasm) || linux || nacl || netbsd || openbsd || solaris

package client

import "syscall"

// signalProcess delivers sig to the child process only. The child
// shares the supervisor's process group, so signalling the group
// would hit the supervisor itself.
func signalProcess(pid int, sig syscall.Signal) error {
	return syscall.Kill(pid, sig)
}
