// Package vt holds the virtual terminal vocabulary used by the display layer
// and the process-wide capability that decides whether it may be emitted.
package vt

import "github.com/muesli/termenv"

// Sequence is a complete escape sequence, ready to be written to a terminal.
type Sequence string

func csi(seq string) Sequence {
	return Sequence(termenv.CSI + seq)
}

func sgr(params string) Sequence {
	return csi(params + "m")
}

func foreground(c termenv.ANSIColor) Sequence {
	return sgr(c.Sequence(false))
}

// Text formats.
var (
	Default      = sgr(termenv.ResetSeq)
	Bright       = sgr(termenv.BoldSeq)
	BrightCyan   = foreground(termenv.ANSIBrightCyan)
	BrightBlue   = foreground(termenv.ANSIBrightBlue)
	BrightYellow = foreground(termenv.ANSIBrightYellow)
	BrightRed    = foreground(termenv.ANSIBrightRed)
	BrightGreen  = foreground(termenv.ANSIBrightGreen)
)

// Cursor and line control.
var (
	HideCursor = csi(termenv.HideCursorSeq)
	ShowCursor = csi(termenv.ShowCursorSeq)
	EraseLine  = csi(termenv.EraseEntireLineSeq)
)

// String implements fmt.Stringer.
func (s Sequence) String() string {
	return string(s)
}
