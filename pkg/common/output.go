// Package common holds the small set of types shared between the display
// layer and the commands that feed it.
package common

// KV is a labelled value shown in an aligned list.
type KV struct {
	Key   string
	Value string
}

// Table is a header row followed by data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Output is structured, channel-independent command output.
// Each section is optional.
type Output struct {
	Message string
	KV      []KV
	Table   *Table
}
