// Package lock implements the dispatcher's PID-file mutual exclusion,
// guaranteeing at most one dispatcher process operates on a given project
// at a time.
package lock

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// ErrHeld is returned by Acquire when a live process already holds the lock.
var ErrHeld = fmt.Errorf("lock held by a running process")

// Lock is a held project lock. Release removes the lock file; it is safe to
// call more than once.
type Lock struct {
	path     string
	released sync.Once
	stop     func()
}

// Acquire attempts to take the lock at planningDir/gsd-cron.lock.
//
// If the file exists, its contents are parsed as a PID and probed for
// liveness (isProcessAlive, platform-specific). A live holder fails
// acquisition with ErrHeld. A dead, unreadable, or unparsable holder is
// treated as stale and removed. On success, the current PID is written and
// a SIGINT/SIGTERM handler is installed that best-effort releases the lock
// before re-raising, so an interrupted run doesn't strand the file for a
// full cron interval — the stale-PID reclaim path above is the backstop.
func Acquire(planningDir string) (*Lock, error) {
	path := filepath.Join(planningDir, "gsd-cron.lock")

	data, err := os.ReadFile(path)
	if err == nil {
		if pid, perr := strconv.Atoi(strings.TrimSpace(string(data))); perr == nil && isProcessAlive(pid) {
			return nil, ErrHeld
		}
	}
	if !os.IsNotExist(err) {
		// Stale, unreadable file, or unparsable PID: reclaim.
		os.Remove(path)
	}

	if err := os.MkdirAll(planningDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating planning dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return nil, fmt.Errorf("writing lock file: %w", err)
	}

	l := &Lock{path: path}
	l.installSignalHandler()
	return l, nil
}

func (l *Lock) installSignalHandler() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, terminationSignals()...)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			l.Release()
			signal.Stop(sigCh)
			proc, err := os.FindProcess(os.Getpid())
			if err == nil {
				proc.Signal(sig)
			}
		case <-done:
		}
	}()

	l.stop = func() {
		signal.Stop(sigCh)
		close(done)
	}
}

// Release deletes the lock file. Safe to call multiple times and on any
// exit path, including after a panic if called via defer.
func (l *Lock) Release() {
	l.released.Do(func() {
		os.Remove(l.path)
		if l.stop != nil {
			l.stop()
		}
	})
}
