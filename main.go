package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"appinst/pkg/cli"
	"appinst/pkg/common"
	"appinst/pkg/config"
	"appinst/pkg/display"
	"appinst/pkg/resource"
	"appinst/pkg/vt"
)

func main() {
	os.Exit(run())
}

func run() int {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	console, err := vt.Init(os.Stdout)
	if err != nil {
		slog.Debug("Escape sequences unavailable", "error", err)
	}
	defer console.Restore()

	disp := display.New(os.Stdout, os.Stdin,
		display.WithConsole(console),
		display.WithLocalizer(resource.FromEnvironment()),
	)

	sysCfg := config.Init()
	sysCfg.Freeze()

	managers := &cli.Managers{
		Disp:     disp,
		SysCfg:   sysCfg,
		Settings: config.OpenSettings(sysCfg.GetSettingsPath()),
		LogLevel: level,
	}

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupts)

	code := cli.Run(context.Background(), managers, os.Args[1:], interrupts)
	if err := disp.Close(); err != nil {
		slog.Error("Failed to finish output", "error", err)
		if code == common.ExitOK {
			code = common.ExitError
		}
	}
	return code
}
