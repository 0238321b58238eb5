package display

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"appinst/pkg/resource"
	"appinst/pkg/vt"
)

func TestPromptForBoolResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
		asks  int
	}{
		{"hotkey with whitespace", "  y\n", true, 1},
		{"label without newline", "No", false, 1},
		{"label any case", "YES\n", true, 1},
		{"re-prompt on unknown", "maybe\nN\n", false, 2},
		{"re-prompt on empty line", "\n\ny\n", true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, buf := newTestReporter(false, tt.input)
			got, err := r.PromptForBoolResponse("Continue?", LevelWarning)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
			if n := strings.Count(buf.String(), "[Y] Yes  [N] No: "); n != tt.asks {
				t.Errorf("Expected the options %d time(s), got %d in %q", tt.asks, n, buf.String())
			}
			if strings.Count(buf.String(), "Continue?\n") != 1 {
				t.Errorf("Expected the message once, got %q", buf.String())
			}
		})
	}
}

func TestPromptInputExhausted(t *testing.T) {
	for _, input := range []string{"", "maybe\n"} {
		r, _ := newTestReporter(false, input)
		_, err := r.PromptForBoolResponse("Continue?", LevelInfo)
		if !errors.Is(err, ErrPromptInput) {
			t.Errorf("Input %q: expected a prompt input error, got %v", input, err)
		}
		if errors.Is(err, io.EOF) {
			t.Errorf("Input %q: exhausted input must not look like an I/O error, got %v", input, err)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestPromptInputBroken(t *testing.T) {
	r := New(&bytes.Buffer{}, failingReader{})
	_, err := r.PromptForBoolResponse("Continue?", LevelInfo)
	if !errors.Is(err, ErrPromptInput) || !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("Expected a wrapped closed pipe, got %v", err)
	}
}

func TestPromptEmphasis(t *testing.T) {
	r, buf := newTestReporter(true, "n\n")
	if _, err := r.PromptForBoolResponse("Continue?", LevelWarning); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, string(vt.BrightYellow)+"Continue?\n") {
		t.Errorf("Expected the message in the level's color, got %q", out)
	}
	if !strings.Contains(out, string(PromptEmphasis)+"[Y] Yes"+string(vt.Default)) {
		t.Errorf("Expected emphasized options, got %q", out)
	}
}

func TestPromptForOptions(t *testing.T) {
	r, buf := newTestReporter(false, "never\n")
	got, err := r.PromptForOptions("Overwrite?", LevelInfo,
		BoolPromptOption{Label: "Always", Hotkey: "A", Value: true},
		BoolPromptOption{Label: "Never", Hotkey: "V", Value: false},
	)
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("Expected false for Never")
	}
	if !strings.Contains(buf.String(), "[A] Always  [V] Never: ") {
		t.Errorf("Unexpected options line: %q", buf.String())
	}
}

func TestPromptLocalized(t *testing.T) {
	buf := &bytes.Buffer{}
	r := New(buf, strings.NewReader("ja\n"), WithLocalizer(resource.New(language.German)))

	got, err := r.PromptForBoolResponse("Fortfahren?", LevelInfo)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("Expected the German yes to be accepted")
	}
	if !strings.Contains(buf.String(), "[Y] Ja  [N] Nein: ") {
		t.Errorf("Expected German labels, got %q", buf.String())
	}
}

func TestCloneSharesInput(t *testing.T) {
	r, _ := newTestReporter(false, "y\nn\n")
	c := r.Clone()

	first, err := r.PromptForBoolResponse("one", LevelInfo)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.PromptForBoolResponse("two", LevelInfo)
	if err != nil {
		t.Fatal(err)
	}
	if !first || second {
		t.Errorf("Expected yes then no, got %v then %v", first, second)
	}
}

func TestPromptStopsSpinner(t *testing.T) {
	r, buf := newTestReporter(true, "y\n")
	r.ShowIndefiniteProgress(true)

	if _, err := r.PromptForBoolResponse("Continue?", LevelInfo); err != nil {
		t.Fatal(err)
	}
	if r.spinner.Running() {
		t.Error("Expected the spinner to stop before prompting")
	}

	out := buf.String()
	if strings.Index(out, "\r"+string(vt.EraseLine)) > strings.Index(out, "Continue?") {
		t.Errorf("Expected the spinner frame to be erased before the message, got %q", out)
	}
}
