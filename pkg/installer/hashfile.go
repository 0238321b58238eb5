package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"appinst/pkg/display"
	"appinst/pkg/hash"
)

const reportInterval = 100 * time.Millisecond

// HashFile computes the SHA-256 of the file at path, reporting bytes read.
func HashFile(ctx context.Context, path string, progress display.ProgressSink) (hash.Details, error) {
	f, err := os.Open(path)
	if err != nil {
		return hash.Details{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return hash.Details{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	r := &progressReader{ctx: ctx, r: f, total: uint64(info.Size()), progress: progress}
	details, err := hash.ComputeDetails(r)
	if err != nil {
		return hash.Details{}, err
	}
	progress.OnProgress(details.Size, r.total, display.ProgressBytes)
	return details, nil
}

// progressReader reports consumed bytes and stops once ctx is done.
// Mutable
type progressReader struct {
	ctx      context.Context
	r        io.Reader
	total    uint64
	read     uint64
	last     time.Time
	progress display.ProgressSink
}

func (p *progressReader) Read(b []byte) (int, error) {
	if err := p.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := p.r.Read(b)
	p.read += uint64(n)
	if now := time.Now(); now.Sub(p.last) >= reportInterval {
		p.last = now
		p.progress.OnProgress(p.read, p.total, display.ProgressBytes)
	}
	return n, err
}
