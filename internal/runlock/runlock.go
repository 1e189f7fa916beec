// Package runlock prevents overlapping startup runs via a filesystem lock.
//
// Autostart runs are typically fired from cron or a boot hook; if a previous
// run is still talking to the cluster, a second one must not race it.
package runlock

import (
	"fmt"

	"github.com/gofrs/flock"
)

// DefaultPath is used when no lock_file is configured.
const DefaultPath = "/tmp/vmpilot.lock"

// Lock is a held run lock. Release it when the run completes.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes the run lock without blocking. It fails when another run
// already holds the lock.
func Acquire(path string) (*Lock, error) {
	if path == "" {
		path = DefaultPath
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("another run is in progress (lock held at %s)", path)
	}

	return &Lock{fl: fl}, nil
}

// Release drops the lock. Safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release run lock: %w", err)
	}
	return nil
}
