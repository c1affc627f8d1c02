package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"
)

// lockName is the file in the store root that serialises install and update
// runs. It is a regular file, so List never reports it.
const lockName = ".dothub.lock"

const lockRetryInterval = 100 * time.Millisecond

// fileLock is an exclusive flock on a file.
type fileLock struct {
	path string
	file *os.File
}

// lock acquires the store lock, waiting while another dothub process holds
// it. The store directory must exist.
func (s *Store) lock(ctx context.Context) (*fileLock, error) {
	fl := &fileLock{path: s.Path(lockName)}
	if err := fl.acquire(ctx); err != nil {
		return nil, fmt.Errorf("lock store %s: %w", s.dir, err)
	}
	return fl, nil
}

func (l *fileLock) acquire(ctx context.Context) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}

	for {
		err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			l.file = f
			return nil
		}
		if !errors.Is(err, syscall.EWOULDBLOCK) {
			f.Close()
			return err
		}

		select {
		case <-ctx.Done():
			f.Close()
			return ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

// release unlocks and closes the file. Releasing twice is a no-op.
func (l *fileLock) release() error {
	if l.file == nil {
		return nil
	}
	err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	l.file = nil
	return err
}
