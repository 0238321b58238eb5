package display

import "log/slog"

// callbackSlot boxes the registered callback so it can be swapped atomically.
type callbackSlot struct {
	cb ProgressCallback
}

// SetProgressCallback replaces the cancellation target; nil clears it.
// The Reporter only refers to cb, the caller keeps owning it.
//
// Registration is serialized, while CancelInProgressTask reads the slot
// without locking. A registration therefore never waits for a Cancel that is
// still running against the previous callback, and a callback may clear
// itself from inside Cancel.
func (r *Reporter) SetProgressCallback(cb ProgressCallback) {
	r.callbackMu.Lock()
	defer r.callbackMu.Unlock()
	if cb == nil {
		r.callback.Store(nil)
		return
	}
	r.callback.Store(&callbackSlot{cb: cb})
}

// CancelInProgressTask asks the registered callback, if any, to cancel.
// It is safe to call from any goroutine, such as a signal handler.
// force is reserved for a future confirmation step and is only logged.
func (r *Reporter) CancelInProgressTask(force bool) {
	slot := r.callback.Load()
	if slot == nil {
		slog.Debug("Cancel requested with no task in progress", "force", force)
		return
	}
	slog.Debug("Cancelling in-progress task", "force", force)
	slot.cb.Cancel()
}
