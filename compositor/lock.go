package compositor

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// acquireLock takes an exclusive lock on path, creating it if
// necessary. The lock is held for as long as the returned file is
// open.
func acquireLock(path string) (*os.File, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o660)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	err = unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrChannelInUse
		}
		return nil, fmt.Errorf("lock %v: %w", path, err)
	}

	return file, nil
}

func releaseLock(file *os.File) error {
	if file == nil {
		return nil
	}

	path := file.Name()
	unix.Flock(int(file.Fd()), unix.LOCK_UN)
	return errors.Join(file.Close(), os.Remove(path))
}
