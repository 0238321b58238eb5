package lazyjson

import "os"

// Option configures a File.
type Option[T any] func(*options[T])

// WithIndent sets the indentation used when writing. "" writes compact JSON.
func WithIndent[T any](indent string) Option[T] {
	return func(o *options[T]) {
		o.indent = indent
	}
}

// WithFileMode sets the permissions of the written file. Default is 0644.
func WithFileMode[T any](mode os.FileMode) Option[T] {
	return func(o *options[T]) {
		o.fileMode = mode
	}
}

// WithDefaultValue supplies the document used while the file does not exist.
func WithDefaultValue[T any](fn func() *T) Option[T] {
	return func(o *options[T]) {
		o.defaultValue = fn
	}
}
