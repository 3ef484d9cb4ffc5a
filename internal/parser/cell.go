package parser

import (
	"encoding/json"
	"strings"
)

// Cell is one parsed field value. A field whose raw text contains the
// secondary delimiter decodes into an ordered multi-value cell; any other
// field decodes into a single text value.
type Cell struct {
	Value string   // single value, meaningful when Multi is false
	Parts []string // ordered multi-value parts, meaningful when Multi is true
	Multi bool
}

// Key renders the cell as a record key. Multi-value header cells are rare
// and discouraged; their parts are joined back with the secondary delimiter
// so they still produce a stable key.
func (c Cell) Key() string {
	if c.Multi {
		return strings.Join(c.Parts, string(secondaryDelimiter))
	}

	return c.Value
}

// Strings returns the cell contents as a flat list: one element for a
// single-value cell, the parts in order for a multi-value cell.
func (c Cell) Strings() []string {
	if c.Multi {
		return c.Parts
	}

	return []string{c.Value}
}

func (c Cell) String() string {
	return c.Key()
}

// MarshalJSON renders single-value cells as JSON strings and multi-value
// cells as JSON arrays.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Multi {
		return json.Marshal(c.Parts)
	}

	return json.Marshal(c.Value)
}

// Row is an ordered sequence of cells from one data line. Row identity is
// positional; there is no key.
type Row []Cell

// Record maps header-derived keys to cells.
type Record map[string]Cell
