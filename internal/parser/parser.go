// Package parser turns the fetched line-oriented text into rows or
// header-keyed records. The format is fixed: lines hold fields separated by
// '|', and a field may carry an ordered list of values separated by ','.
// Whitespace around lines, fields and parts is insignificant; empty lines,
// fields and parts are dropped everywhere.
package parser

import (
	"fmt"
	"strings"

	"github.com/nbhansali/drivefeed/internal/errors"
	"github.com/nbhansali/drivefeed/internal/logger"
)

const (
	primaryDelimiter   = '|'
	secondaryDelimiter = ','
)

// Shape selects the structured output a caller wants from a parse.
type Shape int

const (
	// ShapeNone produces no structured result. A parse requested with an
	// unrecognized shape degrades to this rather than failing.
	ShapeNone Shape = iota
	// ShapeRows produces an ordered sequence of positional rows.
	ShapeRows
	// ShapeRecords produces header-keyed records; it only takes effect
	// together with the header flag.
	ShapeRecords
)

func (s Shape) String() string {
	switch s {
	case ShapeRows:
		return "rows"
	case ShapeRecords:
		return "records"
	default:
		return "none"
	}
}

// ParseShape converts a textual shape name into a Shape. Unknown names map
// to ShapeNone.
func ParseShape(name string) Shape {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rows":
		return ShapeRows
	case "records":
		return ShapeRecords
	default:
		return ShapeNone
	}
}

// Result is the tagged outcome of one parse. Exactly one of Rows/Records is
// populated, selected by Shape; a ShapeNone result carries neither and is
// distinct from an error.
type Result struct {
	shape   Shape
	rows    []Row
	records []Record
}

// Shape returns which variant this result carries.
func (r Result) Shape() Shape {
	return r.shape
}

// Rows returns the positional rows; nil unless Shape is ShapeRows.
func (r Result) Rows() []Row {
	return r.rows
}

// Records returns the keyed records; nil unless Shape is ShapeRecords.
func (r Result) Records() []Record {
	return r.records
}

// Len returns the number of parsed elements.
func (r Result) Len() int {
	switch r.shape {
	case ShapeRows:
		return len(r.rows)
	case ShapeRecords:
		return len(r.records)
	default:
		return 0
	}
}

// Parse decodes text into the requested shape. Records are produced only
// when shape is ShapeRecords and withHeader is set; every other recognized
// combination produces rows, and an unrecognized shape yields a ShapeNone
// result without error. Empty content is an empty result, never an error.
func Parse(text string, shape Shape, withHeader bool) (res Result, err error) {
	// The algorithm below cannot fail on well-formed UTF-8, but a decode
	// panic must still surface as a parse error rather than crash the call.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Parse panicked: %v", r)
			err = errors.NewParseError(fmt.Errorf("decode failure: %v", r), "content")
			res = Result{}
		}
	}()

	switch shape {
	case ShapeRows:
		return Result{shape: ShapeRows, rows: parseRows(splitLines(text))}, nil
	case ShapeRecords:
		if !withHeader {
			return Result{shape: ShapeRows, rows: parseRows(splitLines(text))}, nil
		}

		return Result{shape: ShapeRecords, records: parseRecords(splitLines(text))}, nil
	default:
		logger.Warnf("Unrecognized result shape %d, producing no structured result", shape)
		return Result{shape: ShapeNone}, nil
	}
}

// splitLines breaks text on line breaks, trims each line and drops the
// empty ones.
func splitLines(text string) []string {
	var lines []string

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

// decodeLine splits one line on the primary delimiter and decodes each
// surviving field into a cell.
func decodeLine(line string) Row {
	var row Row

	for _, field := range strings.Split(line, string(primaryDelimiter)) {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		row = append(row, decodeCell(field))
	}

	return row
}

// decodeCell turns one trimmed field into a cell. The presence of the
// secondary delimiter decides multi-value, even when only one part survives
// trimming.
func decodeCell(field string) Cell {
	if !strings.ContainsRune(field, secondaryDelimiter) {
		return Cell{Value: field}
	}

	parts := make([]string, 0, strings.Count(field, string(secondaryDelimiter))+1)

	for _, part := range strings.Split(field, string(secondaryDelimiter)) {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}

	return Cell{Parts: parts, Multi: true}
}

func parseRows(lines []string) []Row {
	rows := make([]Row, 0, len(lines))

	for _, line := range lines {
		row := decodeLine(line)
		if len(row) == 0 {
			continue
		}

		rows = append(rows, row)
	}

	return rows
}

func parseRecords(lines []string) []Record {
	if len(lines) == 0 {
		return []Record{}
	}

	header := decodeLine(lines[0])
	records := make([]Record, 0, len(lines)-1)

	for _, line := range lines[1:] {
		row := decodeLine(line)
		if len(row) == 0 {
			continue
		}

		record := make(Record, len(header))

		// Zip positionally up to the shorter of header and row; extras on
		// either side are dropped without error.
		for i := 0; i < len(header) && i < len(row); i++ {
			record[header[i].Key()] = row[i]
		}

		records = append(records, record)
	}

	return records
}
