// Package archive unpacks downloaded archives. The format is chosen by file
// name suffix.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"appinst/pkg/display"
)

// SupportedExtensions lists the suffixes Extract understands.
func SupportedExtensions() []string {
	return []string{".zip", ".tar", ".tar.gz", ".tgz", ".tar.zst"}
}

// IsSupported reports whether filename has a suffix Extract understands.
func IsSupported(filename string) bool {
	for _, ext := range SupportedExtensions() {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

// Extract unpacks the archive at src into dest. Zip archives report
// progress in entries; tar streams report how much of src has been read.
// Extraction stops between entries once ctx is done.
func Extract(ctx context.Context, src, dest string, progress display.ProgressSink) error {
	if strings.HasSuffix(src, ".zip") {
		return extractZip(ctx, src, dest, progress)
	}

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat archive: %w", err)
	}
	size := uint64(info.Size())
	counted := &countingReader{r: f}
	report := func(done bool) {
		current := counted.n
		if done || current > size {
			current = size
		}
		progress.OnProgress(current, size, display.ProgressBytes)
	}

	var r io.Reader = counted
	switch {
	case strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"):
		gzr, err := gzip.NewReader(counted)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzr.Close()
		r = gzr
	case strings.HasSuffix(src, ".tar.zst"):
		zr, err := zstd.NewReader(counted)
		if err != nil {
			return fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	case strings.HasSuffix(src, ".tar"):
	default:
		return fmt.Errorf("unsupported archive format: %s", src)
	}

	return extractTar(ctx, r, dest, report)
}

func extractZip(ctx context.Context, src, dest string, progress display.ProgressSink) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open zip archive: %w", err)
	}
	defer r.Close()

	total := uint64(len(r.File))
	for i, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := extractFile(f.Name, f.FileInfo(), dest, func() (io.ReadCloser, error) {
			return f.Open()
		})
		if err != nil {
			return err
		}
		progress.OnProgress(uint64(i+1), total, display.ProgressItems)
	}
	return nil
}

func extractTar(ctx context.Context, r io.Reader, dest string, report func(done bool)) error {
	tr := tar.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read tar header: %w", err)
		}

		err = extractFile(header.Name, header.FileInfo(), dest, func() (io.ReadCloser, error) {
			return io.NopCloser(tr), nil
		})
		if err != nil {
			return err
		}
		report(false)
	}
	// Trailing padding may be left unread.
	report(true)
	return nil
}

// extractFile writes one entry below dest. opener supplies the entry's data.
func extractFile(name string, info os.FileInfo, dest string, opener func() (io.ReadCloser, error)) error {
	target := filepath.Join(dest, name)
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return fmt.Errorf("illegal file path in archive: %s", name)
	}

	if info.IsDir() {
		if err := os.MkdirAll(target, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", target, err)
		}
		return nil
	}
	if !info.Mode().IsRegular() {
		slog.Debug("Skipping archive entry", "name", name, "mode", info.Mode())
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", target, err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", target, err)
	}
	defer f.Close()

	rc, err := opener()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", name, err)
	}
	defer rc.Close()

	if _, err := io.Copy(f, rc); err != nil {
		return fmt.Errorf("failed to write file %s: %w", target, err)
	}
	return f.Close()
}

// countingReader tracks how many bytes of the archive have been consumed.
type countingReader struct {
	r io.Reader
	n uint64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += uint64(n)
	return n, err
}
