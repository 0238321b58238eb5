package cache

import (
	"context"
	"os"
)

// Ensure runs fn to create target unless target already exists. Concurrent
// callers, in this or other processes, wait for the one running fn and then
// see its result.
func Ensure(ctx context.Context, target string, fn func() error) error {
	if _, err := os.Stat(target); err == nil {
		return nil
	}

	unlock, err := Lock(ctx, target)
	if err != nil {
		return err
	}
	defer unlock()

	// Someone else may have finished while we waited.
	if _, err := os.Stat(target); err == nil {
		return nil
	}
	return fn()
}
