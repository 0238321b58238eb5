package downloader

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"appinst/pkg/display"
)

// Immutable
type fileHandler struct{}

// NewFileHandler serves file:// URIs from the local filesystem.
func NewFileHandler() SchemeHandler {
	return fileHandler{}
}

func (fileHandler) Schemes() []string {
	return []string{"file"}
}

func (fileHandler) Download(ctx context.Context, uri string, w io.Writer, progress display.ProgressSink) error {
	u, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("invalid uri: %w", err)
	}

	f, err := os.Open(u.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", u.Path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", u.Path, err)
	}

	_, err = copyWithProgress(ctx, w, f, uint64(info.Size()), progress)
	return err
}
