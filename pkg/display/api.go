// Package display routes every piece of user-facing output: styled text,
// spinners, progress bars and yes/no prompts. A Reporter is bound to one
// output and one input for the duration of a command.
package display

import (
	"errors"
	"fmt"
	"io"

	"appinst/pkg/vt"
)

// ErrPromptInput is returned when the input ends or breaks before the user
// gave a recognized answer to a prompt.
var ErrPromptInput = errors.New("prompt input error")

// Channel selects the routing policy for output.
type Channel int

const (
	// ChannelOutput is the interactive channel: colors and indicators allowed.
	ChannelOutput Channel = iota
	// ChannelCompletion carries machine-readable shell completion data.
	ChannelCompletion
	// ChannelDisabled drops everything.
	ChannelDisabled
)

func (c Channel) String() string {
	switch c {
	case ChannelOutput:
		return "output"
	case ChannelCompletion:
		return "completion"
	case ChannelDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Level is the severity of a message and selects its color.
type Level int

const (
	LevelVerbose Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// format returns the style for l. Any other value is a bug in the caller.
func (l Level) format() vt.Sequence {
	switch l {
	case LevelVerbose, LevelInfo:
		return vt.Default
	case LevelWarning:
		return vt.BrightYellow
	case LevelError:
		return vt.BrightRed
	default:
		panic(fmt.Sprintf("display: unexpected level %d", int(l)))
	}
}

// VisualStyle governs how indicators look.
type VisualStyle int

const (
	StyleNoVT VisualStyle = iota
	StyleRetro
	StyleAccent
	StyleRainbow
)

func (s VisualStyle) String() string {
	switch s {
	case StyleNoVT:
		return "novt"
	case StyleRetro:
		return "retro"
	case StyleAccent:
		return "accent"
	case StyleRainbow:
		return "rainbow"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// ParseVisualStyle converts a settings or flag value into a VisualStyle.
func ParseVisualStyle(s string) (VisualStyle, error) {
	switch s {
	case "novt", "noVT", "NoVT":
		return StyleNoVT, nil
	case "retro":
		return StyleRetro, nil
	case "accent", "":
		return StyleAccent, nil
	case "rainbow":
		return StyleRainbow, nil
	default:
		return StyleAccent, fmt.Errorf("unknown visual style: %s", s)
	}
}

// ProgressType tells the progress bar what the counts mean.
type ProgressType int

const (
	ProgressNone ProgressType = iota
	ProgressBytes
	ProgressPercent
	ProgressItems
)

// ProgressSink receives progress reports from a running operation.
type ProgressSink interface {
	// OnProgress reports that current of maximum units are done.
	// A maximum of zero, or a current beyond it, means the total is unknown.
	OnProgress(current, maximum uint64, typ ProgressType)
}

// ProgressCallback is the cancellation target of a running operation.
type ProgressCallback interface {
	// Cancel asks the operation to unwind. It must not block for long.
	Cancel()
}

// CancelFunc adapts a plain function, usually a context.CancelFunc,
// to ProgressCallback.
type CancelFunc func()

func (f CancelFunc) Cancel() { f() }

// BoolPromptOption is one answer a prompt accepts.
type BoolPromptOption struct {
	Label  string
	Hotkey string
	Value  bool
}

// Stream is where a caller writes one piece of output.
// Request a fresh Stream from the Reporter for every styled write.
type Stream interface {
	io.Writer
	io.StringWriter
	// AddFormat queues a style for the next write. Ignored when escape
	// sequences are not being emitted.
	AddFormat(seq vt.Sequence)
	// WriteSequence emits seq immediately if escape sequences are being emitted.
	WriteSequence(seq vt.Sequence) error
	// Close flushes the sink and restores the terminal.
	Close() error
}
