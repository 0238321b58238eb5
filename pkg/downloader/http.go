package downloader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"appinst/pkg/display"
)

// Immutable
type httpHandler struct {
	client *http.Client
}

func NewHTTPHandler() SchemeHandler {
	return &httpHandler{
		// Deadlines come from the request context.
		client: &http.Client{},
	}
}

func (h *httpHandler) Schemes() []string {
	return []string{"http", "https"}
}

func (h *httpHandler) Download(ctx context.Context, uri string, w io.Writer, progress display.ProgressSink) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return err
	}

	slog.Debug("Requesting", "uri", uri)
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	var total uint64
	if resp.ContentLength > 0 {
		total = uint64(resp.ContentLength)
	}
	_, err = copyWithProgress(ctx, w, resp.Body, total, progress)
	return err
}
