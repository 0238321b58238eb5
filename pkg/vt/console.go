package vt

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// DefaultWidth is used when the terminal width cannot be determined.
const DefaultWidth = 80

// Console reports whether escape sequences can currently be rendered
// on the attached terminal, and how wide it is.
type Console interface {
	IsVTEnabled() bool
	Width() int
}

// ConsoleMode is the process-scoped Console for a real terminal.
// Create it once with Init and call Restore before the process exits.
type ConsoleMode struct {
	fd      uintptr
	enabled atomic.Bool
	restore func() error
}

var _ Console = (*ConsoleMode)(nil)

// Init inspects f and, when it is an interactive terminal that has not opted
// out of color, switches it into virtual terminal processing mode.
// The returned ConsoleMode is always usable; on error VT stays disabled.
func Init(f *os.File) (*ConsoleMode, error) {
	c := &ConsoleMode{
		fd:      f.Fd(),
		restore: func() error { return nil },
	}

	if !isTerminal(f.Fd()) || colorDisabled() {
		return c, nil
	}

	restore, err := termenv.EnableVirtualTerminalProcessing(termenv.NewOutput(f))
	if err != nil {
		return c, fmt.Errorf("failed to enable virtual terminal processing: %w", err)
	}
	c.restore = restore
	c.enabled.Store(true)
	return c, nil
}

func (c *ConsoleMode) IsVTEnabled() bool {
	return c.enabled.Load()
}

func (c *ConsoleMode) Width() int {
	w, _, err := term.GetSize(int(c.fd))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// Restore puts the console back into the mode it had before Init.
// It is safe to call more than once.
func (c *ConsoleMode) Restore() error {
	if !c.enabled.Swap(false) {
		return nil
	}
	return c.restore()
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorDisabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return os.Getenv("TERM") == "dumb"
}

// Static is a Console with a fixed answer, for pipes and tests.
type Static bool

func (s Static) IsVTEnabled() bool { return bool(s) }
func (s Static) Width() int        { return DefaultWidth }
