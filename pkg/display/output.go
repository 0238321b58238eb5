package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"appinst/pkg/common"
)

// RenderOutput writes structured output: the message, then the key/value
// list, then the table. Keys and table headers are emphasized when escape
// sequences are in use.
func (r *Reporter) RenderOutput(out *common.Output) error {
	if out == nil {
		return nil
	}

	if out.Message != "" {
		if _, err := r.Info().WriteString(out.Message + "\n"); err != nil {
			return err
		}
	}

	if len(out.KV) > 0 {
		width := 0
		for _, kv := range out.KV {
			width = max(width, ansi.StringWidth(kv.Key)+1)
		}
		for _, kv := range out.KV {
			s := r.Info()
			s.AddFormat(ManifestInfoEmphasis)
			if _, err := s.WriteString(pad(kv.Key+":", width)); err != nil {
				return err
			}
			if _, err := s.WriteString(" " + kv.Value + "\n"); err != nil {
				return err
			}
		}
	}

	if out.Table != nil {
		return r.renderTable(out.Table)
	}
	return nil
}

func (r *Reporter) renderTable(t *common.Table) error {
	if len(t.Header) == 0 {
		return nil
	}

	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		widths[i] = ansi.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], ansi.StringWidth(cell))
			}
		}
	}

	s := r.Info()
	s.AddFormat(HelpCommandEmphasis)
	if _, err := s.WriteString(formatRow(t.Header, widths) + "\n"); err != nil {
		return err
	}

	total := 0
	for _, w := range widths {
		total += w + 2
	}
	if _, err := r.Info().WriteString(strings.Repeat("-", total) + "\n"); err != nil {
		return err
	}

	for _, row := range t.Rows {
		if _, err := r.Info().WriteString(formatRow(row, widths) + "\n"); err != nil {
			return err
		}
	}
	return nil
}

func formatRow(cells []string, widths []int) string {
	var sb strings.Builder
	for i, cell := range cells {
		if i < len(widths) {
			fmt.Fprintf(&sb, "%s  ", pad(cell, widths[i]))
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

// pad right-pads s with spaces to the given display width.
func pad(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
