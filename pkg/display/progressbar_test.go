package display

import (
	"strings"
	"testing"

	"appinst/pkg/vt"
)

func TestBarWidth(t *testing.T) {
	tests := []struct{ console, want int }{
		{0, minBarWidth},
		{40, 20},
		{80, 40},
		{300, maxBarWidth},
	}
	for _, tt := range tests {
		if got := barWidth(tt.console); got != tt.want {
			t.Errorf("barWidth(%d) = %d, expected %d", tt.console, got, tt.want)
		}
	}
}

func TestProgressLabels(t *testing.T) {
	tests := []struct {
		name             string
		current, maximum uint64
		typ              ProgressType
		want             string
	}{
		{"bytes", 50, 100, ProgressBytes, "50 B / 100 B"},
		{"items", 3, 7, ProgressItems, "3 / 7"},
		{"percent", 1, 4, ProgressPercent, "25%"},
		{"unknown bytes", 2048, 0, ProgressBytes, "2.0 kB"},
		{"overflowing items", 9, 7, ProgressItems, "9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newProgressBar(&sink{w: &strings.Builder{}}, false, 20)
			line := b.render(tt.current, tt.maximum, tt.typ)
			if !strings.HasSuffix(line, tt.want) {
				t.Errorf("Expected %q to end with %q", line, tt.want)
			}
		})
	}
}

func TestIndeterminateHasNoBar(t *testing.T) {
	b := newProgressBar(&sink{w: &strings.Builder{}}, false, 20)
	if line := b.render(5, 0, ProgressItems); line != "5" {
		t.Errorf("Expected only the count, got %q", line)
	}
}

func TestRetroBar(t *testing.T) {
	b := newProgressBar(&sink{w: &strings.Builder{}}, true, 10)
	b.SetStyle(StyleRetro)
	line := b.render(5, 10, ProgressPercent)
	if !strings.HasPrefix(line, "#####-----") {
		t.Errorf("Expected a half-filled ASCII bar, got %q", line)
	}
}

func TestProgressNoneDrawsNothing(t *testing.T) {
	out := &strings.Builder{}
	b := newProgressBar(&sink{w: out}, true, 10)
	if err := b.ShowProgress(1, 2, ProgressNone); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 || b.Visible() {
		t.Errorf("Expected nothing drawn, got %q", out.String())
	}
}

func TestNonVTRedrawPadsShorterFrame(t *testing.T) {
	out := &strings.Builder{}
	b := newProgressBar(&sink{w: out}, false, 10)
	b.ShowProgress(1000, 0, ProgressItems)
	out.Reset()
	b.ShowProgress(5, 0, ProgressItems)

	if out.String() != "\r5   \b\b\b" {
		t.Errorf("Expected the old frame to be blanked, got %q", out.String())
	}
	if strings.Contains(out.String(), string(vt.EraseLine)) {
		t.Error("Unexpected escape sequence")
	}
}

func TestNonVTHideBlanksLine(t *testing.T) {
	out := &strings.Builder{}
	b := newProgressBar(&sink{w: out}, false, 10)
	b.ShowProgress(12, 0, ProgressItems)
	out.Reset()
	b.EndProgress(true)

	if out.String() != "\r  \r" {
		t.Errorf("Expected the frame to be blanked, got %q", out.String())
	}
}
