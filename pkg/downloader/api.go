// Package downloader retrieves resources by URI. Each URI scheme is served by
// a SchemeHandler, and transferred bytes are reported to a display.ProgressSink.
package downloader

import (
	"context"
	"io"

	"appinst/pkg/display"
)

// Downloader manages the retrieval of resources from various URIs.
type Downloader interface {
	// Download retrieves the resource at uri into w, reporting byte progress
	// to progress. It stops with ctx's error once ctx is done.
	Download(ctx context.Context, uri string, w io.Writer, progress display.ProgressSink) error
}

// SchemeHandler downloads URIs of the schemes it lists.
type SchemeHandler interface {
	Download(ctx context.Context, uri string, w io.Writer, progress display.ProgressSink) error
	Schemes() []string
}
