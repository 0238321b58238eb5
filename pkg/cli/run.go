package cli

import (
	"context"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"appinst/pkg/common"
	"appinst/pkg/display"
	"appinst/pkg/resource"
)

// Run executes the command line and returns the process exit code.
// Every signal received on interrupts while the command runs asks the
// in-progress task to cancel; repeated signals ask with force.
func Run(ctx context.Context, m *Managers, args []string, interrupts <-chan os.Signal) int {
	var result *ExecutionResult
	root := NewRootCommand(m, &result)
	root.SetArgs(args)

	ctx, finished := context.WithCancel(ctx)
	defer finished()

	cancelMsg := m.Disp.Localizer().Get(resource.CancelRequested)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer finished()
		return root.ExecuteContext(gctx)
	})
	g.Go(func() error {
		watchInterrupts(gctx, m.Disp, interrupts, cancelMsg)
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Debug("Command failed", "error", err)
		ReportError(m.Disp, err)
		return ExitCode(err)
	}
	if result == nil {
		return common.ExitOK
	}
	return result.ExitCode
}

// watchInterrupts only touches the Reporter through CancelInProgressTask,
// which is safe while the command goroutine is writing.
func watchInterrupts(ctx context.Context, rep *display.Reporter, interrupts <-chan os.Signal, msg string) {
	count := 0
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-interrupts:
			if !ok {
				return
			}
			count++
			slog.Warn(msg, "signal", sig, "count", count)
			rep.CancelInProgressTask(count > 1)
		}
	}
}
