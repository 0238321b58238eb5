package downloader

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"appinst/pkg/display"
)

// reportInterval limits how often the progress bar is redrawn.
const reportInterval = 100 * time.Millisecond

// copyWithProgress copies src to dst, reporting transferred bytes against
// total. A total of zero means the size is unknown.
func copyWithProgress(ctx context.Context, dst io.Writer, src io.Reader, total uint64, progress display.ProgressSink) (uint64, error) {
	pw := &progressWriter{progress: progress, total: total}
	n, err := io.Copy(io.MultiWriter(dst, pw), &ctxReader{ctx: ctx, r: src})
	if err != nil {
		return uint64(n), err
	}
	progress.OnProgress(pw.written, total, display.ProgressBytes)
	slog.Debug("Transfer complete", "size", humanize.Bytes(pw.written))
	return pw.written, nil
}

// Mutable
type progressWriter struct {
	progress display.ProgressSink
	total    uint64
	written  uint64
	last     time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	pw.written += uint64(len(p))
	if now := time.Now(); now.Sub(pw.last) >= reportInterval {
		pw.last = now
		pw.progress.OnProgress(pw.written, pw.total, display.ProgressBytes)
	}
	return len(p), nil
}

// ctxReader fails reads once ctx is done, so a copy from a source that
// ignores contexts still stops.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
