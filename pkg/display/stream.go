package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"appinst/pkg/vt"
)

// sink guards the borrowed writer. Writes from the caller and from the
// spinner goroutine are serialized here, and the first failure is kept:
// once the writer has failed every later write fails with the same error.
// Mutable
type sink struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

func (s *sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(p)
}

func (s *sink) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

func (s *sink) writeLocked(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		s.err = fmt.Errorf("failed to write output: %w", err)
		return n, s.err
	}
	return n, nil
}

// writeAll writes the parts as one uninterrupted unit.
func (s *sink) writeAll(parts ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.writeLocked([]byte(strings.Join(parts, "")))
	return err
}

func (s *sink) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if f, ok := s.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			s.err = fmt.Errorf("failed to flush output: %w", err)
		}
	}
	return s.err
}

// Err returns the first write failure, if any.
func (s *sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// FormattedStream emits escape sequences around text while enabled and is a
// byte-transparent pass-through while disabled.
// Mutable
type FormattedStream struct {
	sink    *sink
	enabled bool
	pending []vt.Sequence
	closed  bool
	// touched is set once an escape sequence has reached the sink.
	touched bool
}

var _ Stream = (*FormattedStream)(nil)

func (s *FormattedStream) Enable() {
	s.enabled = true
}

// Disable stops escape sequence emission. Queued formats are dropped,
// text keeps flowing.
func (s *FormattedStream) Disable() {
	s.enabled = false
	s.pending = nil
}

func (s *FormattedStream) Enabled() bool {
	return s.enabled
}

// Touched reports whether this stream has ever emitted an escape sequence.
func (s *FormattedStream) Touched() bool {
	return s.touched
}

func (s *FormattedStream) AddFormat(seq vt.Sequence) {
	if s.enabled {
		s.pending = append(s.pending, seq)
	}
}

func (s *FormattedStream) WriteSequence(seq vt.Sequence) error {
	if !s.enabled {
		return nil
	}
	s.touched = true
	return s.sink.writeAll(string(seq))
}

// Write prefixes p with the queued formats and resets the style after it.
func (s *FormattedStream) Write(p []byte) (int, error) {
	if !s.enabled || len(s.pending) == 0 || len(p) == 0 {
		return s.sink.Write(p)
	}

	var b strings.Builder
	for _, seq := range s.pending {
		b.WriteString(string(seq))
	}
	s.pending = s.pending[:0]
	s.touched = true

	if err := s.sink.writeAll(b.String(), string(p), string(vt.Default)); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *FormattedStream) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// Close flushes and, the first time, resets the text style and makes the
// cursor visible again. The reset is also written while disabled if the
// stream emitted sequences earlier.
func (s *FormattedStream) Close() error {
	if !s.closed && (s.enabled || s.touched) {
		s.closed = true
		s.pending = nil
		if err := s.sink.writeAll(string(vt.Default), string(vt.ShowCursor)); err != nil {
			return err
		}
	}
	return s.sink.flush()
}

// PlainStream never emits escape sequences. While disabled it swallows
// everything written to it.
// Mutable
type PlainStream struct {
	sink    *sink
	enabled bool
}

var _ Stream = (*PlainStream)(nil)

func (s *PlainStream) Enable()       { s.enabled = true }
func (s *PlainStream) Disable()      { s.enabled = false }
func (s *PlainStream) Enabled() bool { return s.enabled }

func (s *PlainStream) AddFormat(vt.Sequence) {}

func (s *PlainStream) WriteSequence(vt.Sequence) error { return nil }

func (s *PlainStream) Write(p []byte) (int, error) {
	if !s.enabled {
		return len(p), nil
	}
	return s.sink.Write(p)
}

func (s *PlainStream) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

func (s *PlainStream) Close() error {
	return s.sink.flush()
}

// discardStream backs the verbose stream when verbose output is off.
type discardStream struct{}

func (discardStream) Write(p []byte) (int, error)       { return len(p), nil }
func (discardStream) WriteString(s string) (int, error) { return len(s), nil }
func (discardStream) AddFormat(vt.Sequence)             {}
func (discardStream) WriteSequence(vt.Sequence) error   { return nil }
func (discardStream) Close() error                      { return nil }
