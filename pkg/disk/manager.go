// Package disk reports and reclaims the local storage used by appinst.
package disk

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"appinst/pkg/common"
	"appinst/pkg/config"
	"appinst/pkg/display"
)

// Usage is the disk usage of one category of data.
type Usage struct {
	Label string
	Path  string
	Size  uint64
	Items int
}

// Manager inspects and cleans the cache directories.
// Immutable
type Manager struct {
	cfg config.ReadOnly
}

func NewManager(cfg config.ReadOnly) *Manager {
	return &Manager{cfg: cfg}
}

func (m *Manager) dirs() []Usage {
	return []Usage{
		{Label: "Downloads", Path: m.cfg.GetDownloadDir()},
		{Label: "Packages", Path: m.cfg.GetPkgDir()},
	}
}

// Usage measures every category and returns the grand total in bytes.
func (m *Manager) Usage() ([]Usage, uint64) {
	stats := m.dirs()
	var total uint64
	for i := range stats {
		stats[i].Size, stats[i].Items = dirSize(stats[i].Path)
		total += stats[i].Size
	}
	return stats, total
}

// Output renders the usage as a table with the total as the message.
func (m *Manager) Output(totalMsg func(string) string) *common.Output {
	stats, total := m.Usage()
	table := &common.Table{
		Header: []string{"Type", "Size", "Items", "Path"},
	}
	for _, s := range stats {
		table.Rows = append(table.Rows, []string{s.Label, humanize.Bytes(s.Size), fmt.Sprintf("%d", s.Items), s.Path})
	}
	return &common.Output{
		Message: totalMsg(humanize.Bytes(total)),
		Table:   table,
	}
}

// Entries lists what Clean would remove. Lock files are left alone since
// another process may be holding them.
func (m *Manager) Entries() ([]string, error) {
	var entries []string
	for _, d := range m.dirs() {
		list, err := os.ReadDir(d.Path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", d.Path, err)
		}
		for _, e := range list {
			if strings.HasSuffix(e.Name(), ".lock") {
				continue
			}
			entries = append(entries, filepath.Join(d.Path, e.Name()))
		}
	}
	return entries, nil
}

// Clean removes entries one by one, reporting each removal. It stops between
// entries once ctx is done and returns how many were removed.
func (m *Manager) Clean(ctx context.Context, entries []string, progress display.ProgressSink) (int, error) {
	total := uint64(len(entries))
	for i, path := range entries {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		slog.Debug("Removing", "path", path)
		if err := os.RemoveAll(path); err != nil {
			return i, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		progress.OnProgress(uint64(i+1), total, display.ProgressItems)
	}
	return len(entries), nil
}

// dirSize adds up regular files below path. A missing path is empty.
func dirSize(path string) (uint64, int) {
	var size uint64
	var count int
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				size += uint64(info.Size())
				count++
			}
		}
		return nil
	})
	return size, count
}
