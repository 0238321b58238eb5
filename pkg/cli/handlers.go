package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"appinst/pkg/common"
	"appinst/pkg/disk"
	"appinst/pkg/display"
	"appinst/pkg/installer"
	"appinst/pkg/resource"
)

func applyGlobalFlags(m *Managers, flags *GlobalFlags) error {
	if flags.Verbose {
		m.Disp.SetVerbose(true)
		if m.LogLevel != nil {
			m.LogLevel.Set(slog.LevelDebug)
		}
	}

	style, set, err := m.Settings.Style()
	if err != nil {
		slog.Warn("Ignoring settings", "path", m.Settings.Path(), "error", err)
		set = false
	}
	if flags.Style != "" {
		if style, err = display.ParseVisualStyle(flags.Style); err != nil {
			return err
		}
		set = true
	}
	if set {
		m.Disp.SetStyle(style)
	}
	return nil
}

func runHash(ctx context.Context, m *Managers, args []string) (*ExecutionResult, error) {
	path := args[0]

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.Disp.SetProgressCallback(display.CancelFunc(cancel))
	defer m.Disp.SetProgressCallback(nil)

	if err := m.Disp.BeginProgress(); err != nil {
		return nil, err
	}
	details, err := installer.HashFile(ctx, path, m.Disp)
	if endErr := m.Disp.EndProgress(true); err == nil {
		err = endErr
	}
	if errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("%w: %w", installer.ErrCancelled, err)
	}
	if err != nil {
		return nil, err
	}

	if _, err := m.Disp.Verbose().WriteString(humanize.Bytes(details.Size) + " read\n"); err != nil {
		return nil, err
	}
	s := m.Disp.Info()
	s.AddFormat(display.IDEmphasis)
	if _, err := s.WriteString(details.Hash.String()); err != nil {
		return nil, err
	}
	if _, err := m.Disp.Info().WriteString("  " + path + "\n"); err != nil {
		return nil, err
	}
	return &ExecutionResult{ExitCode: common.ExitOK}, nil
}

func runInstall(ctx context.Context, m *Managers, req *installer.Request) (*ExecutionResult, error) {
	plan, err := installer.NewPlan(m.SysCfg, *req)
	if err != nil {
		return nil, err
	}
	if err := installer.Install(ctx, plan, m.Disp); err != nil {
		return nil, err
	}
	return &ExecutionResult{ExitCode: common.ExitOK}, nil
}

func runComplete(m *Managers, names []string, prefix string) (*ExecutionResult, error) {
	m.Disp.SetChannel(display.ChannelCompletion)

	for _, name := range filterPrefix(names, prefix) {
		if _, err := m.Disp.Info().WriteString(name + "\n"); err != nil {
			return nil, err
		}
	}
	return &ExecutionResult{ExitCode: common.ExitOK}, nil
}

func runSettings(ctx context.Context, m *Managers, args []string) (*ExecutionResult, error) {
	loc := m.Disp.Localizer()
	style, _ := m.Disp.Style()

	out := &common.Output{
		Message: loc.Get(resource.SettingsHeader),
		KV: []common.KV{
			{Key: loc.Get(resource.SettingsPath), Value: m.Settings.Path()},
			{Key: loc.Get(resource.SettingsStyle), Value: style.String()},
		},
	}
	if err := m.Disp.RenderOutput(out); err != nil {
		return nil, err
	}
	return &ExecutionResult{ExitCode: common.ExitOK}, nil
}

func runSetStyle(ctx context.Context, m *Managers, args []string) (*ExecutionResult, error) {
	style, err := display.ParseVisualStyle(args[0])
	if err != nil {
		return nil, err
	}
	if err := m.Settings.SetStyle(style); err != nil {
		return nil, err
	}
	m.Disp.SetStyle(style)
	return runSettings(ctx, m, nil)
}

func runDiskInfo(ctx context.Context, m *Managers, args []string) (*ExecutionResult, error) {
	loc := m.Disp.Localizer()
	out := disk.NewManager(m.SysCfg).Output(func(total string) string {
		return loc.Get(resource.DiskTotal, total)
	})
	if err := m.Disp.RenderOutput(out); err != nil {
		return nil, err
	}
	return &ExecutionResult{ExitCode: common.ExitOK}, nil
}

func runDiskClean(ctx context.Context, m *Managers, assumeYes bool) (*ExecutionResult, error) {
	loc := m.Disp.Localizer()
	mgr := disk.NewManager(m.SysCfg)

	entries, err := mgr.Entries()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		_, err := m.Disp.Info().WriteString(loc.Get(resource.DiskNothing) + "\n")
		return &ExecutionResult{ExitCode: common.ExitOK}, err
	}

	if !assumeYes {
		ok, err := m.Disp.PromptForBoolResponse(loc.Get(resource.DiskCleanPrompt, len(entries)), display.LevelWarning)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &ExecutionResult{ExitCode: common.ExitOK}, nil
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.Disp.SetProgressCallback(display.CancelFunc(cancel))
	defer m.Disp.SetProgressCallback(nil)

	if err := m.Disp.BeginProgress(); err != nil {
		return nil, err
	}
	n, err := mgr.Clean(ctx, entries, m.Disp)
	if endErr := m.Disp.EndProgress(false); err == nil {
		err = endErr
	}
	if errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("%w: %w", installer.ErrCancelled, err)
	}
	if err != nil {
		return nil, err
	}

	if _, err := m.Disp.Info().WriteString(loc.Get(resource.DiskCleaned, n) + "\n"); err != nil {
		return nil, err
	}
	return &ExecutionResult{ExitCode: common.ExitOK}, nil
}
