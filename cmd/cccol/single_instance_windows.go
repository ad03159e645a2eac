//go:build windows

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

var lockHandle windows.Handle

// EnsureSingleInstance ensures only one watcher is running for this user.
// On Windows a named mutex is used instead of a lock file.
func EnsureSingleInstance() error {
	mutexName, err := windows.UTF16PtrFromString("Local\\cccol-watch")
	if err != nil {
		return fmt.Errorf("failed to create mutex name: %w", err)
	}

	handle, err := windows.CreateMutex(nil, false, mutexName)
	if err != nil {
		if err == windows.ERROR_ALREADY_EXISTS {
			return fmt.Errorf("another cccol watch is already running")
		}
		return fmt.Errorf("failed to create mutex: %w", err)
	}

	// WAIT_OBJECT_0 means we own the mutex
	event, err := windows.WaitForSingleObject(handle, 0)
	if err != nil || event != windows.WAIT_OBJECT_0 {
		windows.CloseHandle(handle)
		return fmt.Errorf("another cccol watch is already running")
	}

	lockHandle = handle
	writePIDFile()
	return nil
}

// ReleaseSingleInstance releases the mutex
func ReleaseSingleInstance() {
	if lockHandle != 0 {
		windows.ReleaseMutex(lockHandle)
		windows.CloseHandle(lockHandle)
		lockHandle = 0
	}
	os.Remove(getLockFilePath())
}

func writePIDFile() {
	pidPath := getLockFilePath()
	os.MkdirAll(filepath.Dir(pidPath), 0755)
	if f, err := os.Create(pidPath); err == nil {
		fmt.Fprintf(f, "%d\n", os.Getpid())
		f.Close()
	}
}

func getLockFilePath() string {
	return filepath.Join(ConfigDir(), "watch.pid")
}
