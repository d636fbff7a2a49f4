// Package procutil provides the process-liveness probe shared by the
// recovery engine's stale-lockfile detection (C10) and klog's stale
// log-file sweep, grounded on the kill(pid,0) idiom used by the teacher's
// internal/integration/process supervisor and task executor.
package procutil

import (
	"os"
	"syscall"
)

// IsAlive reports whether pid names a live process on this machine. It
// must return in O(1): on Unix this is a signal-0 probe, which does not
// actually deliver a signal, it only checks permissions/existence.
func IsAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	if err == syscall.ESRCH {
		return false
	}
	// EPERM means the process exists but we can't signal it - still alive.
	return err == syscall.EPERM
}
