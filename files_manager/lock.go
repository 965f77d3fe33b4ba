package files_manager

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"tiff2lerc/contracts"
)

const lockFileName = ".tiff2lerc.lock"

// OutputLock keeps two batch runs from writing into the same output tree.
type OutputLock struct {
	lock *flock.Flock
}

// LockOutput takes the advisory lock on dir without blocking.
func LockOutput(dir string) (*OutputLock, error) {
	lock := flock.New(filepath.Join(dir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: acquire lock: %v", contracts.ErrIO, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: another tiff2lerc run is writing to %s", contracts.ErrConfig, dir)
	}
	return &OutputLock{lock: lock}, nil
}

func (l *OutputLock) Path() string {
	return l.lock.Path()
}

// Release unlocks and removes the lock file.
func (l *OutputLock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("%w: release lock: %v", contracts.ErrIO, err)
	}
	if err := os.Remove(l.lock.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: remove lock file: %v", contracts.ErrIO, err)
	}
	return nil
}
