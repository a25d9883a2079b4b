//go:build unix

package lock

import (
	"os"
	"syscall"
)

// isProcessAlive probes pid with a POSIX signal-zero: sending signal 0
// performs error checking without actually delivering a signal.
func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
