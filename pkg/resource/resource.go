// Package resource resolves symbolic string identifiers to localized,
// user-facing text. The display layer treats the returned text as opaque.
package resource

import (
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// StringID names a localizable string.
type StringID string

const (
	PromptOptionYes StringID = "PromptOptionYes"
	PromptOptionNo  StringID = "PromptOptionNo"

	Downloading         StringID = "Downloading"
	VerifyingHash       StringID = "VerifyingHash"
	Extracting          StringID = "Extracting"
	HashVerified        StringID = "HashVerified"
	HashMismatch        StringID = "HashMismatch"
	HashMismatchPrompt  StringID = "HashMismatchPrompt"
	HashMismatchAborted StringID = "HashMismatchAborted"
	HashOverridden      StringID = "HashOverridden"
	InstallSucceeded    StringID = "InstallSucceeded"
	OperationCancelled  StringID = "OperationCancelled"
	CancelRequested     StringID = "CancelRequested"
	PromptInputError    StringID = "PromptInputError"

	SettingsPath   StringID = "SettingsPath"
	SettingsStyle  StringID = "SettingsStyle"
	SettingsHeader StringID = "SettingsHeader"

	DiskTotal       StringID = "DiskTotal"
	DiskCleanPrompt StringID = "DiskCleanPrompt"
	DiskCleaned     StringID = "DiskCleaned"
	DiskNothing     StringID = "DiskNothing"
)

var tables = map[language.Tag]map[StringID]string{
	language.English: {
		PromptOptionYes:     "Yes",
		PromptOptionNo:      "No",
		Downloading:         "Downloading %s",
		VerifyingHash:       "Verifying installer hash",
		Extracting:          "Extracting archive",
		HashVerified:        "Successfully verified installer hash",
		HashMismatch:        "Installer hash does not match; expected %s, got %s",
		HashMismatchPrompt:  "Do you want to continue anyway?",
		HashMismatchAborted: "Installation abandoned",
		HashOverridden:      "Installer hash verification overridden",
		InstallSucceeded:    "Successfully installed %s",
		OperationCancelled:  "Operation cancelled",
		CancelRequested:     "Cancelling...",
		PromptInputError:    "No response was given to the prompt",
		SettingsPath:        "Settings",
		SettingsStyle:       "Progress style",
		SettingsHeader:      "Current settings",
		DiskTotal:           "Total: %s",
		DiskCleanPrompt:     "Remove %d cached downloads and packages?",
		DiskCleaned:         "Removed %d items",
		DiskNothing:         "Nothing to clean",
	},
	language.German: {
		PromptOptionYes:     "Ja",
		PromptOptionNo:      "Nein",
		Downloading:         "%s wird heruntergeladen",
		VerifyingHash:       "Installer-Hash wird überprüft",
		Extracting:          "Archiv wird entpackt",
		HashVerified:        "Installer-Hash erfolgreich überprüft",
		HashMismatch:        "Installer-Hash stimmt nicht überein; erwartet %s, erhalten %s",
		HashMismatchPrompt:  "Trotzdem fortfahren?",
		HashMismatchAborted: "Installation abgebrochen",
		HashOverridden:      "Überprüfung des Installer-Hashs übersprungen",
		InstallSucceeded:    "%s wurde erfolgreich installiert",
		OperationCancelled:  "Vorgang abgebrochen",
		CancelRequested:     "Wird abgebrochen...",
		PromptInputError:    "Auf die Eingabeaufforderung wurde nicht geantwortet",
		SettingsPath:        "Einstellungen",
		SettingsStyle:       "Fortschrittsstil",
		SettingsHeader:      "Aktuelle Einstellungen",
		DiskTotal:           "Gesamt: %s",
		DiskCleanPrompt:     "%d zwischengespeicherte Downloads und Pakete entfernen?",
		DiskCleaned:         "%d Einträge entfernt",
		DiskNothing:         "Nichts zu bereinigen",
	},
}

var (
	supported      = []language.Tag{language.English, language.German}
	matcher        = language.NewMatcher(supported)
	defaultCatalog = buildCatalog()
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, table := range tables {
		for id, msg := range table {
			if err := b.SetString(tag, string(id), msg); err != nil {
				panic("resource: invalid catalog entry " + string(id) + ": " + err.Error())
			}
		}
	}
	return b
}

// Localizer looks strings up in one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Localizer for the supported language closest to tag.
func New(tag language.Tag) *Localizer {
	_, idx, _ := matcher.Match(tag)
	best := supported[idx]
	return &Localizer{
		tag:     best,
		printer: message.NewPrinter(best, message.Catalog(defaultCatalog)),
	}
}

// FromEnvironment picks the language from LC_ALL, LC_MESSAGES or LANG.
func FromEnvironment() *Localizer {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return New(ParseLocale(v))
		}
	}
	return New(language.English)
}

// ParseLocale converts a POSIX locale name such as "de_DE.UTF-8" to a tag.
func ParseLocale(locale string) language.Tag {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || locale == "C" || locale == "POSIX" {
		return language.English
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return language.English
	}
	return tag
}

// Language returns the language strings are resolved in.
func (l *Localizer) Language() language.Tag {
	return l.tag
}

// Get returns the localized text for id, formatted with args.
// Unknown identifiers come back verbatim.
func (l *Localizer) Get(id StringID, args ...any) string {
	return l.printer.Sprintf(string(id), args...)
}
