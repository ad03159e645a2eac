//go:build !windows

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

var lockFile *os.File

// EnsureSingleInstance ensures only one watcher is running for this user.
// Returns an error if another instance is already running.
func EnsureSingleInstance() error {
	lockPath := getLockFilePath()

	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}

	// Non-blocking exclusive lock, held for as long as f stays open
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return fmt.Errorf("another cccol watch is already running (%s)", lockPath)
	}

	f.Truncate(0)
	f.Seek(0, 0)
	fmt.Fprintf(f, "%d\n", os.Getpid())

	lockFile = f
	return nil
}

// ReleaseSingleInstance releases the lock file
func ReleaseSingleInstance() {
	if lockFile != nil {
		unix.Flock(int(lockFile.Fd()), unix.LOCK_UN)
		lockFile.Close()
		os.Remove(getLockFilePath())
		lockFile = nil
	}
}

func getLockFilePath() string {
	return filepath.Join(ConfigDir(), "watch.lock")
}
