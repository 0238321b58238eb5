package display

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"appinst/pkg/vt"
)

const spinnerIndent = "  "

var (
	// Indicator colors are always rendered as 256-color SGR; whether they
	// reach the terminal at all is decided by the indicator's vt flag.
	indicatorRenderer = newIndicatorRenderer()

	accentColor    = lipgloss.Color("33")
	rainbowPalette = []lipgloss.Color{"196", "208", "226", "46", "33", "129"}
)

func newIndicatorRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI256)
	return r
}

// spinnerLook is a snapshot of how the next frame is drawn.
type spinnerLook struct {
	frames   []string
	interval time.Duration
	vt       bool
	colors   []lipgloss.Style
}

func (l spinnerLook) frame(i int) string {
	f := l.frames[i%len(l.frames)]
	if !l.vt || len(l.colors) == 0 {
		return f
	}
	return l.colors[i%len(l.colors)].Render(f)
}

// Spinner is the indefinite progress indicator. While shown it repaints
// itself on its own goroutine until stopped.
// Mutable
type Spinner struct {
	out *sink

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}

	lookMu sync.Mutex
	style  VisualStyle
	vt     bool
}

func newSpinner(out *sink, vtEnabled bool) *Spinner {
	return &Spinner{
		out:   out,
		style: StyleAccent,
		vt:    vtEnabled,
	}
}

func (s *Spinner) SetStyle(style VisualStyle) {
	s.lookMu.Lock()
	defer s.lookMu.Unlock()
	s.style = style
	if style == StyleNoVT {
		s.vt = false
	}
}

func (s *Spinner) look() spinnerLook {
	s.lookMu.Lock()
	defer s.lookMu.Unlock()

	if !s.vt || s.style == StyleNoVT {
		return spinnerLook{frames: spinner.Line.Frames, interval: spinner.Line.FPS}
	}

	l := spinnerLook{vt: true}
	switch s.style {
	case StyleRainbow:
		l.frames, l.interval = spinner.Dot.Frames, spinner.Dot.FPS
		for _, c := range rainbowPalette {
			l.colors = append(l.colors, indicatorRenderer.NewStyle().Foreground(c))
		}
	case StyleAccent:
		l.frames, l.interval = spinner.MiniDot.Frames, spinner.MiniDot.FPS
		l.colors = []lipgloss.Style{indicatorRenderer.NewStyle().Foreground(accentColor)}
	default:
		l.frames, l.interval = spinner.Line.Frames, spinner.Line.FPS
	}
	return l
}

// Running reports whether the animation goroutine is active.
func (s *Spinner) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

// Show starts the animation. It does nothing if already running.
func (s *Spinner) Show() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

// Stop halts the animation, waits for the goroutine and erases the frame.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop, s.done = nil, nil
}

func (s *Spinner) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	look := s.look()
	if s.draw(look, 0) != nil {
		return
	}

	ticker := time.NewTicker(look.interval)
	defer ticker.Stop()

	for i := 1; ; i++ {
		select {
		case <-stop:
			s.erase(look, i-1)
			return
		case <-ticker.C:
			next := s.look()
			if next.vt != look.vt {
				// The frame on screen was drawn the old way; clear it that way.
				s.erase(look, i-1)
			}
			look = next
			if s.draw(look, i) != nil {
				return
			}
		}
	}
}

func (s *Spinner) draw(l spinnerLook, i int) error {
	if l.vt {
		return s.out.writeAll("\r", spinnerIndent, l.frame(i))
	}
	f := l.frame(i)
	return s.out.writeAll(f, strings.Repeat("\b", ansi.StringWidth(f)))
}

func (s *Spinner) erase(l spinnerLook, i int) {
	if l.vt {
		_ = s.out.writeAll("\r", string(vt.EraseLine))
		return
	}
	w := ansi.StringWidth(l.frames[i%len(l.frames)])
	_ = s.out.writeAll(strings.Repeat(" ", w), strings.Repeat("\b", w))
}
