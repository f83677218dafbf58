package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"
)

// Lock is the content of the lock file held by a running host.
type Lock struct {
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
	SessionID string    `json:"session_id"`
}

var ErrLockHeld = errors.New("ironrun export lock is held")

// AcquireLock claims the export directory for this process. Two hosts
// exporting into the same directory would overwrite each other's snapshots.
// A lock left behind by a dead process is removed and retried once.
func (w *Writer) AcquireLock(sessionID string) (func() error, error) {
	release, err := w.tryLock(sessionID)
	if !errors.Is(err, errStaleLock) {
		return release, err
	}
	if removeErr := os.Remove(w.LockPath); removeErr != nil && !os.IsNotExist(removeErr) {
		return nil, fmt.Errorf("%w (stale lock could not be removed: %v)", ErrLockHeld, removeErr)
	}
	release, err = w.tryLock(sessionID)
	if errors.Is(err, errStaleLock) {
		return nil, fmt.Errorf("%w (lock file exists)", ErrLockHeld)
	}
	return release, err
}

var errStaleLock = errors.New("stale lock")

func (w *Writer) tryLock(sessionID string) (func() error, error) {
	l := Lock{PID: os.Getpid(), StartedAt: time.Now(), SessionID: sessionID}
	data, err := json.MarshalIndent(l, "", "    ")
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(w.LockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if !os.IsExist(err) {
			return nil, err
		}
		existing, readErr := w.ReadLock()
		if readErr != nil || existing.PID <= 0 {
			return nil, fmt.Errorf("%w (lock file exists)", ErrLockHeld)
		}
		if processAlive(existing.PID) {
			return nil, fmt.Errorf("%w by pid %d (session_id=%s)", ErrLockHeld, existing.PID, existing.SessionID)
		}
		return nil, errStaleLock
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(w.LockPath)
		return nil, err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(w.LockPath)
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(w.LockPath)
		return nil, err
	}

	release := func() error {
		return os.Remove(w.LockPath)
	}
	return release, nil
}

// ReadLock returns the current lock file content.
func (w *Writer) ReadLock() (Lock, error) {
	var l Lock
	b, err := os.ReadFile(w.LockPath)
	if err != nil {
		return l, err
	}
	if err := json.Unmarshal(b, &l); err != nil {
		return l, fmt.Errorf("parse lock file: %w", err)
	}
	return l, nil
}

func processAlive(pid int) bool {
	// Signal 0 checks existence without delivering anything.
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
