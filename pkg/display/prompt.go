package display

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"appinst/pkg/resource"
)

// DefaultBoolOptions returns the localized yes/no answers.
func (r *Reporter) DefaultBoolOptions() []BoolPromptOption {
	return []BoolPromptOption{
		{Label: r.loc.Get(resource.PromptOptionYes), Hotkey: "Y", Value: true},
		{Label: r.loc.Get(resource.PromptOptionNo), Hotkey: "N", Value: false},
	}
}

// PromptForBoolResponse writes message and asks for a yes/no answer until
// one is given. It blocks on the input and must not run concurrently with
// another prompt on the same Reporter.
func (r *Reporter) PromptForBoolResponse(message string, level Level) (bool, error) {
	return r.PromptForOptions(message, level, r.DefaultBoolOptions()...)
}

// PromptForOptions is PromptForBoolResponse over a caller-supplied set of
// mutually exclusive answers. Unrecognized input re-prompts; only an
// exhausted or broken input ends the loop without an answer, with an error
// matching ErrPromptInput. A running spinner is stopped first.
func (r *Reporter) PromptForOptions(message string, level Level, options ...BoolPromptOption) (bool, error) {
	if len(options) == 0 {
		panic("display: prompt without options")
	}
	r.ShowIndefiniteProgress(false)

	out := r.GetOutputStream(level)
	if _, err := out.WriteString(message + "\n"); err != nil {
		return false, err
	}

	for {
		if err := writeOptions(out, options); err != nil {
			return false, err
		}

		response, err := r.readLine()
		if err != nil {
			return false, err
		}

		for _, opt := range options {
			if strings.EqualFold(response, opt.Label) || strings.EqualFold(response, opt.Hotkey) {
				return opt.Value, nil
			}
		}
	}
}

func writeOptions(out Stream, options []BoolPromptOption) error {
	for i, opt := range options {
		out.AddFormat(PromptEmphasis)
		if _, err := out.WriteString("[" + opt.Hotkey + "] " + opt.Label); err != nil {
			return err
		}

		sep := "  "
		if i+1 == len(options) {
			out.AddFormat(PromptEmphasis)
			sep = ": "
		}
		if _, err := out.WriteString(sep); err != nil {
			return err
		}
	}
	return nil
}

// readLine returns the next line with surrounding whitespace removed.
// A final line without a newline still counts.
func (r *Reporter) readLine() (string, error) {
	line, err := r.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line == "" {
		return "", fmt.Errorf("%w: %v", ErrPromptInput, err)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: %w", ErrPromptInput, err)
	}
	return strings.TrimSpace(line), nil
}
