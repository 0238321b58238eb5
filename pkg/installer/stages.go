package installer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"appinst/pkg/archive"
	"appinst/pkg/cache"
	"appinst/pkg/display"
	"appinst/pkg/downloader"
	"appinst/pkg/hash"
	"appinst/pkg/resource"
)

// Stage is one step of the installation pipeline.
type Stage func(ctx context.Context, plan *Plan, rep Reporter) error

// Install runs the download, verify and extract stages in order. While it
// runs, cancelling the Reporter's in-progress task cancels the run.
func Install(ctx context.Context, plan *Plan, rep Reporter) error {
	if plan.InstallPath != "" {
		if _, err := os.Stat(plan.InstallPath); err == nil {
			slog.Debug("Package already installed", "path", plan.InstallPath)
			return nil
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	rep.SetProgressCallback(display.CancelFunc(cancel))
	defer rep.SetProgressCallback(nil)

	for _, stage := range []Stage{DownloadStage, VerifyStage, ExtractStage} {
		if err := stage(ctx, plan, rep); err != nil {
			if errors.Is(err, context.Canceled) {
				return fmt.Errorf("%w: %w", ErrCancelled, err)
			}
			return err
		}
	}

	slog.Info("Installation complete", "name", plan.Name, "path", plan.InstallPath)
	return say(success(rep), rep.Localizer().Get(resource.InstallSucceeded, plan.Name))
}

// DownloadStage retrieves the file unless an earlier run already did.
func DownloadStage(ctx context.Context, plan *Plan, rep Reporter) error {
	if err := say(rep.Info(), rep.Localizer().Get(resource.Downloading, plan.URL)); err != nil {
		return err
	}
	slog.Debug("Downloading", "url", plan.URL, "path", plan.DownloadPath)

	d := downloader.NewDefaultDownloader()
	err := withProgress(rep, func() error {
		return cache.Ensure(ctx, plan.DownloadPath, func() error {
			return downloadTo(ctx, d, plan, rep)
		})
	})
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	return nil
}

// downloadTo writes to a side file first so a broken transfer never looks
// like a finished download.
func downloadTo(ctx context.Context, d downloader.Downloader, plan *Plan, rep Reporter) error {
	part := plan.DownloadPath + ".part"
	f, err := os.Create(part)
	if err != nil {
		return err
	}
	defer os.Remove(part)

	if err := d.Download(ctx, plan.URL, f, rep); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(part, plan.DownloadPath)
}

// VerifyStage compares the download with the expected digest. On a mismatch
// the user decides whether to go on, unless the plan forces it.
func VerifyStage(ctx context.Context, plan *Plan, rep Reporter) error {
	loc := rep.Localizer()
	if plan.Expected == nil {
		slog.Debug("No expected hash, skipping verification", "path", plan.DownloadPath)
		return nil
	}

	if err := say(rep.Info(), loc.Get(resource.VerifyingHash)); err != nil {
		return err
	}

	var details hash.Details
	err := withProgress(rep, func() error {
		var err error
		details, err = HashFile(ctx, plan.DownloadPath, rep)
		return err
	})
	if err != nil {
		return err
	}
	slog.Debug("Hashed download", "path", plan.DownloadPath, "size", humanize.Bytes(details.Size), "sha256", details.Hash)

	if hash.Equal(details.Hash, *plan.Expected) {
		return say(success(rep), loc.Get(resource.HashVerified))
	}

	if err := say(rep.Error(), loc.Get(resource.HashMismatch, plan.Expected, details.Hash)); err != nil {
		return err
	}
	if plan.Force {
		return say(rep.Warn(), loc.Get(resource.HashOverridden))
	}

	proceed, err := rep.PromptForBoolResponse(loc.Get(resource.HashMismatchPrompt), display.LevelWarning)
	if err != nil {
		return err
	}
	if proceed {
		return say(rep.Warn(), loc.Get(resource.HashOverridden))
	}

	if err := os.Remove(plan.DownloadPath); err != nil {
		slog.Warn("Failed to remove rejected download", "path", plan.DownloadPath, "error", err)
	}
	if err := say(rep.Error(), loc.Get(resource.HashMismatchAborted)); err != nil {
		return err
	}
	return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, plan.Expected, details.Hash)
}

// ExtractStage unpacks an archive next to its final location and moves it
// into place once complete.
func ExtractStage(ctx context.Context, plan *Plan, rep Reporter) error {
	if plan.InstallPath == "" {
		slog.Debug("Download is not an archive, nothing to extract", "path", plan.DownloadPath)
		return nil
	}
	if err := say(rep.Info(), rep.Localizer().Get(resource.Extracting)); err != nil {
		return err
	}

	err := withProgress(rep, func() error {
		return cache.Ensure(ctx, plan.InstallPath, func() error {
			tmpDir := plan.InstallPath + ".tmp"
			if err := os.RemoveAll(tmpDir); err != nil {
				return err
			}
			if err := os.MkdirAll(tmpDir, 0755); err != nil {
				return err
			}
			defer os.RemoveAll(tmpDir)

			if err := archive.Extract(ctx, plan.DownloadPath, tmpDir, rep); err != nil {
				return err
			}
			return os.Rename(tmpDir, plan.InstallPath)
		})
	})
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}
	return nil
}

// withProgress brackets fn with the Reporter's progress display. The last
// frame stays on screen when fn succeeds.
func withProgress(rep Reporter, fn func() error) error {
	if err := rep.BeginProgress(); err != nil {
		return err
	}
	err := fn()
	endErr := rep.EndProgress(err != nil)
	if err != nil {
		return err
	}
	return endErr
}

func success(rep Reporter) display.Stream {
	s := rep.Info()
	s.AddFormat(display.SuccessEmphasis)
	return s
}

func say(s display.Stream, text string) error {
	_, err := s.WriteString(text + "\n")
	return err
}
