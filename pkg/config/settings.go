package config

import (
	"fmt"

	"appinst/pkg/display"
	"appinst/pkg/lazyjson"
)

// Settings is the content of settings.json.
type Settings struct {
	Visual VisualSettings `json:"visual"`
}

// VisualSettings controls how progress is drawn.
type VisualSettings struct {
	// ProgressBar is one of accent, rainbow, retro or novt.
	ProgressBar string `json:"progressBar,omitempty"`
}

// SettingsStore reads and updates the settings file.
// Mutable
type SettingsStore struct {
	file *lazyjson.File[Settings]
}

// OpenSettings returns a store for the settings file at path.
// The file is read on first use and need not exist.
func OpenSettings(path string) *SettingsStore {
	return &SettingsStore{file: lazyjson.New[Settings](path)}
}

func (s *SettingsStore) Path() string {
	return s.file.Path()
}

// Style returns the configured visual style and whether one was set.
// An unrecognized value is an error.
func (s *SettingsStore) Style() (display.VisualStyle, bool, error) {
	settings, err := s.file.Get()
	if err != nil {
		return display.StyleAccent, false, err
	}
	if settings.Visual.ProgressBar == "" {
		return display.StyleAccent, false, nil
	}
	style, err := display.ParseVisualStyle(settings.Visual.ProgressBar)
	if err != nil {
		return display.StyleAccent, false, fmt.Errorf("invalid visual.progressBar in %s: %w", s.Path(), err)
	}
	return style, true, nil
}

// SetStyle stores style as the preferred visual style.
func (s *SettingsStore) SetStyle(style display.VisualStyle) error {
	return s.file.Update(func(settings *Settings) error {
		settings.Visual.ProgressBar = style.String()
		return nil
	})
}
