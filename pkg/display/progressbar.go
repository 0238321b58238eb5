package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	"appinst/pkg/vt"
)

const (
	minBarWidth = 10
	maxBarWidth = 50
)

// barWidth sizes the bar to leave room for the unit label on one line.
func barWidth(consoleWidth int) int {
	w := consoleWidth / 2
	if w < minBarWidth {
		return minBarWidth
	}
	if w > maxBarWidth {
		return maxBarWidth
	}
	return w
}

// ProgressBar renders determinate progress on a single, rewritten line.
// Mutable
type ProgressBar struct {
	out   *sink
	vt    bool
	style VisualStyle
	width int
	model progress.Model

	visible   bool
	lastWidth int
}

func newProgressBar(out *sink, vtEnabled bool, width int) *ProgressBar {
	b := &ProgressBar{
		out:   out,
		vt:    vtEnabled,
		style: StyleAccent,
		width: width,
	}
	b.model = b.newModel()
	return b
}

func (b *ProgressBar) SetStyle(style VisualStyle) {
	b.style = style
	if style == StyleNoVT {
		b.vt = false
	}
	b.model = b.newModel()
}

func (b *ProgressBar) newModel() progress.Model {
	opts := []progress.Option{
		progress.WithWidth(b.width),
		progress.WithoutPercentage(),
	}
	if b.vt {
		opts = append(opts, progress.WithColorProfile(termenv.ANSI256))
	} else {
		opts = append(opts, progress.WithColorProfile(termenv.Ascii))
	}
	switch b.style {
	case StyleRainbow:
		opts = append(opts, progress.WithDefaultGradient())
	case StyleAccent:
		opts = append(opts, progress.WithSolidFill(string(accentColor)))
	}

	m := progress.New(opts...)
	if b.ascii() {
		m.Full, m.Empty = '#', '-'
	}
	return m
}

// ascii reports whether the bar is drawn with plain characters only.
func (b *ProgressBar) ascii() bool {
	return !b.vt || b.style == StyleRetro || b.style == StyleNoVT
}

// Visible reports whether a frame is currently on screen.
func (b *ProgressBar) Visible() bool {
	return b.visible
}

// ShowProgress redraws the bar for current of maximum.
func (b *ProgressBar) ShowProgress(current, maximum uint64, typ ProgressType) error {
	if typ == ProgressNone {
		return nil
	}
	line := b.render(current, maximum, typ)
	width := ansi.StringWidth(line)

	var err error
	if b.vt {
		err = b.out.writeAll("\r", string(vt.EraseLine), line)
	} else {
		// Overwrite whatever the previous, possibly longer, frame left behind.
		pad := ""
		if b.lastWidth > width {
			pad = strings.Repeat(" ", b.lastWidth-width) + strings.Repeat("\b", b.lastWidth-width)
		}
		err = b.out.writeAll("\r", line, pad)
	}
	b.visible = true
	b.lastWidth = width
	return err
}

// EndProgress either erases the last frame or leaves it and ends the line.
func (b *ProgressBar) EndProgress(hide bool) error {
	if !b.visible {
		return nil
	}
	b.visible = false
	defer func() { b.lastWidth = 0 }()

	if !hide {
		return b.out.writeAll("\n")
	}
	if b.vt {
		return b.out.writeAll("\r", string(vt.EraseLine))
	}
	return b.out.writeAll("\r", strings.Repeat(" ", b.lastWidth), "\r")
}

func (b *ProgressBar) render(current, maximum uint64, typ ProgressType) string {
	if maximum == 0 || current > maximum {
		return indeterminateLabel(current, typ)
	}
	ratio := float64(current) / float64(maximum)
	bar := b.model.ViewAs(ratio)
	if b.ascii() {
		bar = ansi.Strip(bar)
	}
	return bar + " " + determinateLabel(current, maximum, ratio, typ)
}

func determinateLabel(current, maximum uint64, ratio float64, typ ProgressType) string {
	switch typ {
	case ProgressBytes:
		return humanize.Bytes(current) + " / " + humanize.Bytes(maximum)
	case ProgressItems:
		return fmt.Sprintf("%d / %d", current, maximum)
	default:
		return fmt.Sprintf("%d%%", int(ratio*100))
	}
}

func indeterminateLabel(current uint64, typ ProgressType) string {
	switch typ {
	case ProgressBytes:
		return humanize.Bytes(current)
	case ProgressItems:
		return fmt.Sprintf("%d", current)
	default:
		return ""
	}
}
