// Package runlock guards an output directory against concurrent extraction
// runs with an advisory file lock.
package runlock

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = ".audex.lock"

// Lock holds the advisory lock for one output directory.
type Lock struct {
	path string
	fl   *flock.Flock
}

// Acquire takes the lock inside dir, failing fast when another process
// already holds it. The directory must exist.
func Acquire(dir string) (*Lock, error) {
	path := filepath.Join(dir, lockFileName)
	fl := flock.New(path)

	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("another extraction is already writing to %s", dir)
	}
	return &Lock{path: path, fl: fl}, nil
}

// Path reports the lock file location.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release drops the lock. Safe on nil receivers so callers can defer it
// unconditionally.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
