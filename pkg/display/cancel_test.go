package display

import (
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// blockingCallback stays inside Cancel until released.
type blockingCallback struct {
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (b *blockingCallback) Cancel() {
	b.calls.Add(1)
	b.entered <- struct{}{}
	<-b.release
}

func TestCancelWithoutCallback(t *testing.T) {
	r := New(io.Discard, strings.NewReader(""))
	r.CancelInProgressTask(false)
}

func TestCancelContext(t *testing.T) {
	r := New(io.Discard, strings.NewReader(""))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.SetProgressCallback(CancelFunc(cancel))
	r.CancelInProgressTask(false)

	if ctx.Err() != context.Canceled {
		t.Errorf("Expected the context to be cancelled, got %v", ctx.Err())
	}
}

func TestClearedCallbackIsNotCalled(t *testing.T) {
	r := New(io.Discard, strings.NewReader(""))
	var calls atomic.Int32
	r.SetProgressCallback(CancelFunc(func() { calls.Add(1) }))
	r.SetProgressCallback(nil)
	r.CancelInProgressTask(true)

	if calls.Load() != 0 {
		t.Errorf("Expected no call after clearing, got %d", calls.Load())
	}
}

func TestCallbackMayClearItself(t *testing.T) {
	r := New(io.Discard, strings.NewReader(""))
	done := make(chan struct{})
	r.SetProgressCallback(CancelFunc(func() {
		r.SetProgressCallback(nil)
		close(done)
	}))

	go r.CancelInProgressTask(false)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Callback deadlocked while clearing itself")
	}
	if r.callback.Load() != nil {
		t.Error("Expected the slot to be empty")
	}
}

func TestRegisterDuringCancel(t *testing.T) {
	r := New(io.Discard, strings.NewReader(""))
	a := &blockingCallback{entered: make(chan struct{}, 1), release: make(chan struct{})}
	var bCalls atomic.Int32

	r.SetProgressCallback(a)
	cancelled := make(chan struct{})
	go func() {
		r.CancelInProgressTask(false)
		close(cancelled)
	}()
	<-a.entered

	registered := make(chan struct{})
	go func() {
		r.SetProgressCallback(CancelFunc(func() { bCalls.Add(1) }))
		close(registered)
	}()
	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("Registration waited for an in-flight cancel")
	}

	close(a.release)
	<-cancelled

	r.CancelInProgressTask(false)
	if a.calls.Load() != 1 {
		t.Errorf("Expected the first callback once, got %d", a.calls.Load())
	}
	if bCalls.Load() != 1 {
		t.Errorf("Expected the second callback once, got %d", bCalls.Load())
	}
}

func TestConcurrentRegistrationAndCancel(t *testing.T) {
	r := New(io.Discard, strings.NewReader(""))
	var calls atomic.Int32
	cb := CancelFunc(func() { calls.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.SetProgressCallback(cb)
				r.SetProgressCallback(nil)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.CancelInProgressTask(false)
			}
		}()
	}
	wg.Wait()

	r.SetProgressCallback(cb)
	before := calls.Load()
	r.CancelInProgressTask(false)
	if calls.Load() != before+1 {
		t.Error("Expected the final registration to be cancelled")
	}
}
