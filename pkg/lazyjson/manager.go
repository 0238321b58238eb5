// Package lazyjson keeps a JSON document on disk and loads it on first use.
// Updates are written back atomically through a temporary file.
package lazyjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File is a JSON document of type T stored at a fixed path.
// It is safe for concurrent use.
// Mutable
type File[T any] struct {
	path string
	opts options[T]

	mu     sync.Mutex
	data   *T
	loaded bool
}

type options[T any] struct {
	indent       string
	fileMode     os.FileMode
	defaultValue func() *T
}

// New returns a File for path. Nothing is read until the first Get or Update.
func New[T any](path string, opts ...Option[T]) *File[T] {
	f := &File[T]{
		path: path,
		opts: options[T]{
			indent:   "  ",
			fileMode: 0644,
		},
	}
	for _, opt := range opts {
		opt(&f.opts)
	}
	return f
}

// Path returns where the document lives.
func (f *File[T]) Path() string {
	return f.path
}

// Get returns a copy of the document. A missing file yields the default
// value without creating the file.
func (f *File[T]) Get() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.loadLocked(); err != nil {
		var zero T
		return zero, err
	}
	return *f.data, nil
}

// Update applies fn to the document and saves the result. If fn fails the
// in-memory document is left as it was and nothing is written.
func (f *File[T]) Update(fn func(*T) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.loadLocked(); err != nil {
		return err
	}

	next := *f.data
	if err := fn(&next); err != nil {
		return err
	}
	if err := f.saveLocked(&next); err != nil {
		return err
	}
	f.data = &next
	return nil
}

// Reload drops the cached document so the next access reads the disk again.
func (f *File[T]) Reload() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = nil
	f.loaded = false
}

func (f *File[T]) loadLocked() error {
	if f.loaded {
		return nil
	}

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.data = f.newValue()
		f.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	v := f.newValue()
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", f.path, err)
	}
	f.data = v
	f.loaded = true
	return nil
}

func (f *File[T]) newValue() *T {
	if f.opts.defaultValue != nil {
		return f.opts.defaultValue()
	}
	return new(T)
}

func (f *File[T]) saveLocked(v *T) error {
	var raw []byte
	var err error
	if f.opts.indent != "" {
		raw, err = json.MarshalIndent(v, "", f.opts.indent)
	} else {
		raw, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.path, err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(f.opts.fileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}
