package resource

import (
	"testing"

	"golang.org/x/text/language"
)

func TestGetEnglish(t *testing.T) {
	l := New(language.English)
	if got := l.Get(PromptOptionYes); got != "Yes" {
		t.Errorf("Expected Yes, got %q", got)
	}
	if got := l.Get(InstallSucceeded, "tool"); got != "Successfully installed tool" {
		t.Errorf("Unexpected formatted string: %q", got)
	}
}

func TestGetGermanRegion(t *testing.T) {
	l := New(language.MustParse("de-AT"))
	if l.Language() != language.German {
		t.Errorf("Expected German, got %v", l.Language())
	}
	if got := l.Get(PromptOptionNo); got != "Nein" {
		t.Errorf("Expected Nein, got %q", got)
	}
}

func TestUnsupportedFallsBackToEnglish(t *testing.T) {
	l := New(language.Japanese)
	if got := l.Get(PromptOptionNo); got != "No" {
		t.Errorf("Expected English fallback, got %q", got)
	}
}

func TestUnknownID(t *testing.T) {
	l := New(language.English)
	if got := l.Get("NoSuchString"); got != "NoSuchString" {
		t.Errorf("Expected verbatim id, got %q", got)
	}
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		in   string
		want language.Tag
	}{
		{"C", language.English},
		{"POSIX", language.English},
		{"", language.English},
		{"de_DE.UTF-8", language.MustParse("de-DE")},
		{"en_US@euro", language.MustParse("en-US")},
	}
	for _, tt := range tests {
		if got := ParseLocale(tt.in); got != tt.want {
			t.Errorf("ParseLocale(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromEnvironment(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "de_CH.UTF-8")
	if got := FromEnvironment().Get(PromptOptionYes); got != "Ja" {
		t.Errorf("Expected Ja, got %q", got)
	}
}

func TestTablesComplete(t *testing.T) {
	for id := range tables[language.English] {
		for _, tag := range supported {
			if _, ok := tables[tag][id]; !ok {
				t.Errorf("%s missing from %v table", id, tag)
			}
		}
	}
}
