package display

import (
	"bufio"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/text/language"

	"appinst/pkg/resource"
	"appinst/pkg/vt"
)

// Emphasis styles for particular kinds of text.
var (
	HelpCommandEmphasis  = vt.Bright
	HelpArgumentEmphasis = vt.Bright
	ManifestInfoEmphasis = vt.Bright
	SourceInfoEmphasis   = vt.Bright
	NameEmphasis         = vt.BrightCyan
	IDEmphasis           = vt.BrightCyan
	URLEmphasis          = vt.BrightBlue
	PromptEmphasis       = vt.Bright
	SuccessEmphasis      = vt.BrightGreen
)

// Reporter multiplexes all user-facing output for one command invocation.
// Apart from CancelInProgressTask and SetProgressCallback it is meant to be
// driven from one goroutine at a time; use Clone to give a sub-operation its
// own surface.
// Mutable
type Reporter struct {
	out     io.Writer
	in      *bufio.Reader
	console vt.Console
	loc     *resource.Localizer

	sink      *sink
	formatted *FormattedStream
	plain     *PlainStream
	spinner   *Spinner
	bar       *ProgressBar

	channel   Channel
	style     *VisualStyle
	vtEnabled bool
	verbose   bool

	callbackMu sync.Mutex
	callback   atomic.Pointer[callbackSlot]
}

var _ ProgressSink = (*Reporter)(nil)

// Option configures a Reporter.
type Option func(*Reporter)

// WithConsole sets the terminal capability provider. Without it the
// Reporter assumes escape sequences cannot be rendered.
func WithConsole(c vt.Console) Option {
	return func(r *Reporter) { r.console = c }
}

// WithLocalizer sets where prompt labels and messages are looked up.
func WithLocalizer(l *resource.Localizer) Option {
	return func(r *Reporter) { r.loc = l }
}

// New creates a Reporter writing to out and reading answers from in.
// Both are borrowed and must outlive the Reporter.
func New(out io.Writer, in io.Reader, opts ...Option) *Reporter {
	r := &Reporter{
		out:       out,
		in:        bufferedReader(in),
		console:   vt.Static(false),
		vtEnabled: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.loc == nil {
		r.loc = resource.New(language.English)
	}

	r.sink = &sink{w: out}
	r.formatted = &FormattedStream{sink: r.sink}
	r.plain = &PlainStream{sink: r.sink, enabled: true}
	r.spinner = newSpinner(r.sink, r.IsVTEnabled())
	r.bar = newProgressBar(r.sink, r.IsVTEnabled(), barWidth(r.console.Width()))
	r.SetChannel(ChannelOutput)
	return r
}

func bufferedReader(in io.Reader) *bufio.Reader {
	if br, ok := in.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(in)
}

// Clone returns an independent Reporter on the same input and output with
// the same explicitly set style. Channel, indicators and the cancellation
// target start fresh.
func (r *Reporter) Clone() *Reporter {
	c := New(r.out, r.in, WithConsole(r.console), WithLocalizer(r.loc))
	if r.style != nil {
		c.SetStyle(*r.style)
	}
	c.verbose = r.verbose
	return c
}

// Localizer returns the string table this Reporter uses.
func (r *Reporter) Localizer() *resource.Localizer {
	return r.loc
}

// IsVTEnabled reports whether this Reporter may emit escape sequences:
// the terminal must support them and the Reporter must not have opted out.
func (r *Reporter) IsVTEnabled() bool {
	return r.vtEnabled && r.console.IsVTEnabled()
}

// vtPermitted also accounts for the active channel.
func (r *Reporter) vtPermitted() bool {
	return r.channel == ChannelOutput && r.IsVTEnabled()
}

// Channel returns the active channel.
func (r *Reporter) Channel() Channel {
	return r.channel
}

// SetChannel switches the routing policy. Leaving the output channel tears
// down both indicators; coming back does not recreate them.
func (r *Reporter) SetChannel(channel Channel) {
	slog.Debug("Switching output channel", "from", r.channel, "to", channel)
	r.channel = channel

	if channel == ChannelOutput {
		r.formatted.Enable()
		r.plain.Enable()
		return
	}

	r.formatted.Disable()
	if r.spinner != nil {
		r.spinner.Stop()
		r.spinner = nil
	}
	if r.bar != nil {
		_ = r.bar.EndProgress(true)
		r.bar = nil
	}

	if channel == ChannelCompletion {
		r.plain.Enable()
	} else {
		r.plain.Disable()
	}
}

// stream returns the authoritative stream without touching its format.
func (r *Reporter) stream() Stream {
	if !r.vtPermitted() {
		return r.plain
	}
	return r.formatted
}

// GetOutputStream returns the stream to write the next message at level to.
// On the formatted stream the level's style is queued for that one write.
// An unknown level panics.
func (r *Reporter) GetOutputStream(level Level) Stream {
	format := level.format()
	s := r.stream()
	s.AddFormat(format)
	return s
}

func (r *Reporter) Info() Stream  { return r.GetOutputStream(LevelInfo) }
func (r *Reporter) Warn() Stream  { return r.GetOutputStream(LevelWarning) }
func (r *Reporter) Error() Stream { return r.GetOutputStream(LevelError) }

// Verbose returns a stream that only reaches the output when verbose
// output has been turned on.
func (r *Reporter) Verbose() Stream {
	if !r.verbose {
		return discardStream{}
	}
	return r.GetOutputStream(LevelVerbose)
}

// SetVerbose enables or disables verbose output.
func (r *Reporter) SetVerbose(v bool) {
	r.verbose = v
}

// Style returns the explicitly set style, if any.
func (r *Reporter) Style() (VisualStyle, bool) {
	if r.style == nil {
		return StyleAccent, false
	}
	return *r.style, true
}

// SetStyle applies style to the indicators now and to any created later.
// StyleNoVT turns escape sequences off for the rest of this Reporter's life.
func (r *Reporter) SetStyle(style VisualStyle) {
	slog.Debug("Setting visual style", "style", style)
	r.style = &style
	if r.spinner != nil {
		r.spinner.SetStyle(style)
	}
	if r.bar != nil {
		r.bar.SetStyle(style)
	}
	if style == StyleNoVT {
		r.vtEnabled = false
	}
}

// ShowIndefiniteProgress starts or stops the spinner. Starting it erases a
// visible progress bar. Without a spinner, outside the output channel, it
// does nothing.
func (r *Reporter) ShowIndefiniteProgress(running bool) {
	if r.spinner == nil {
		return
	}
	if running {
		if r.bar != nil && r.bar.Visible() {
			_ = r.bar.EndProgress(true)
		}
		r.spinner.Show()
	} else {
		r.spinner.Stop()
	}
}

// OnProgress stops the spinner and draws the progress bar.
// Write failures are kept by the sink and returned by EndProgress or Close.
func (r *Reporter) OnProgress(current, maximum uint64, typ ProgressType) {
	r.ShowIndefiniteProgress(false)
	if r.bar != nil {
		_ = r.bar.ShowProgress(current, maximum, typ)
	}
}

// BeginProgress hides the cursor and starts the spinner until real
// progress is reported.
func (r *Reporter) BeginProgress() error {
	_ = r.stream().WriteSequence(vt.HideCursor)
	r.ShowIndefiniteProgress(true)
	return r.sink.Err()
}

// EndProgress stops whichever indicator is active. With hideWhenDone the
// last frame is erased, otherwise it stays on screen. The cursor is shown
// again either way.
func (r *Reporter) EndProgress(hideWhenDone bool) error {
	r.ShowIndefiniteProgress(false)
	if r.bar != nil {
		_ = r.bar.EndProgress(hideWhenDone)
	}
	_ = r.stream().WriteSequence(vt.ShowCursor)
	return r.sink.Err()
}

// Close stops any animation and flushes the sink. The text style is reset
// and the cursor restored if escape sequences are in use, or were emitted
// before the channel changed.
func (r *Reporter) Close() error {
	r.ShowIndefiniteProgress(false)
	if r.vtPermitted() || r.formatted.Touched() {
		return r.formatted.Close()
	}
	return r.plain.Close()
}
