// Package cache coordinates processes that fill the same cache entry.
// A holder is recorded in "<target>.lock" together with its PID, so a lock
// left behind by a dead process can be taken over.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

const (
	pollInterval  = 200 * time.Millisecond
	retryInterval = 50 * time.Millisecond
	// emptyLockGrace is how long an empty lock file is assumed to be in
	// the middle of being written.
	emptyLockGrace = time.Second
)

// Lock takes the lock for target, waiting while a live process holds it.
// The wait ends early with ctx's error when ctx is done.
func Lock(ctx context.Context, target string) (func() error, error) {
	lockFile := target + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent dir for lock: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		acquired, err := tryCreate(lockFile)
		if err != nil {
			return nil, err
		}
		if acquired {
			return func() error { return os.Remove(lockFile) }, nil
		}

		wait, err := inspect(lockFile)
		if err != nil {
			return nil, err
		}
		if wait == 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func tryCreate(lockFile string) (bool, error) {
	f, err := os.OpenFile(lockFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}

	content := fmt.Sprintf("%s %d", time.Now().Format(time.RFC3339), os.Getpid())
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(lockFile)
		return false, fmt.Errorf("failed to write to lock file: %w", err)
	}
	return true, f.Close()
}

// inspect looks at an existing lock and returns how long to wait before the
// next attempt. Zero means retry at once because the lock was removed.
func inspect(lockFile string) (time.Duration, error) {
	content, err := os.ReadFile(lockFile)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return retryInterval, nil
	}

	if len(content) == 0 && !olderThan(lockFile, emptyLockGrace) {
		// The holder has created the file but not written it yet.
		return retryInterval, nil
	}
	fields := strings.Fields(string(content))
	if len(fields) < 2 {
		slog.Debug("Removing malformed lock", "path", lockFile)
		os.Remove(lockFile)
		return 0, nil
	}

	pid, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		slog.Debug("Removing lock with invalid pid", "path", lockFile)
		os.Remove(lockFile)
		return 0, nil
	}

	if isPidAlive(pid) {
		return pollInterval, nil
	}

	slog.Debug("Removing stale lock", "path", lockFile, "pid", pid)
	os.Remove(lockFile)
	return 0, nil
}

func olderThan(path string, age time.Duration) bool {
	info, err := os.Stat(path)
	return err == nil && time.Since(info.ModTime()) > age
}

func isPidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	if errors.Is(err, syscall.ESRCH) || errors.Is(err, os.ErrProcessDone) {
		return false
	}
	// EPERM: the process exists but belongs to someone else.
	return true
}
