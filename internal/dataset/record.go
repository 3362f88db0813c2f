package dataset

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the display layout used for dates across the dashboard.
const DateLayout = "02/01/2006"

// Column identifies one of the four logical columns of the checklist.
type Column int

const (
	ColumnDate Column = iota
	ColumnFloor
	ColumnPosition
	ColumnObservation
)

// Canonical header names as they appear in a well-formed source file.
const (
	HeaderDate        = "Data"
	HeaderFloor       = "Piso"
	HeaderPosition    = "Posição"
	HeaderObservation = "Observação"
)

// Columns lists the logical columns in canonical order.
var Columns = []Column{ColumnDate, ColumnFloor, ColumnPosition, ColumnObservation}

// Header returns the canonical header name of the column.
func (c Column) Header() string {
	switch c {
	case ColumnDate:
		return HeaderDate
	case ColumnFloor:
		return HeaderFloor
	case ColumnPosition:
		return HeaderPosition
	case ColumnObservation:
		return HeaderObservation
	default:
		return ""
	}
}

// String returns the logical (English) name of the column.
func (c Column) String() string {
	switch c {
	case ColumnDate:
		return "date"
	case ColumnFloor:
		return "floor"
	case ColumnPosition:
		return "position"
	case ColumnObservation:
		return "observation"
	default:
		return fmt.Sprintf("column(%d)", int(c))
	}
}

// ParseColumn accepts either the logical name or the canonical header.
func ParseColumn(name string) (Column, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, c := range Columns {
		if n == c.String() || n == strings.ToLower(c.Header()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// Record is one inspection row. A zero Date means the source value could not be parsed.
type Record struct {
	Date        time.Time `json:"date"`
	Floor       string    `json:"floor"`
	Position    string    `json:"position"`
	Observation string    `json:"observation"`
}

// HasDate reports whether the record carries a parsed date.
func (r Record) HasDate() bool {
	return !r.Date.IsZero()
}

// Value returns the record's value for the column as a string.
// Null dates render as the empty string.
func (r Record) Value(c Column) string {
	switch c {
	case ColumnDate:
		if !r.HasDate() {
			return ""
		}
		return r.Date.Format(DateLayout)
	case ColumnFloor:
		return r.Floor
	case ColumnPosition:
		return r.Position
	case ColumnObservation:
		return r.Observation
	default:
		return ""
	}
}

// Dataset is an immutable, ordered collection of records loaded from one file.
type Dataset struct {
	Source       string
	ModTime      time.Time
	LoadedAt     time.Time
	InvalidDates int
	records      []Record
}

// New builds a Dataset from records. The slice is copied.
func New(source string, records []Record) *Dataset {
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Dataset{Source: source, LoadedAt: time.Now(), records: cp}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Empty reports whether the dataset has no rows.
func (d *Dataset) Empty() bool {
	return d.Len() == 0
}

// At returns the i-th record.
func (d *Dataset) At(i int) Record {
	return d.records[i]
}

// Records returns a copy of all rows.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	cp := make([]Record, len(d.records))
	copy(cp, d.records)
	return cp
}

// Headers returns the canonical column names in order.
func (d *Dataset) Headers() []string {
	headers := make([]string, len(Columns))
	for i, c := range Columns {
		headers[i] = c.Header()
	}
	return headers
}

// Where returns the subset of rows satisfying keep, preserving order.
func (d *Dataset) Where(keep func(Record) bool) *Dataset {
	if d == nil {
		return &Dataset{}
	}
	out := &Dataset{Source: d.Source, ModTime: d.ModTime, LoadedAt: d.LoadedAt}
	for _, r := range d.records {
		if keep(r) {
			out.records = append(out.records, r)
		}
	}
	return out
}

// Rows renders every record as strings in canonical column order.
func (d *Dataset) Rows() [][]string {
	rows := make([][]string, 0, d.Len())
	for _, r := range d.records {
		row := make([]string, len(Columns))
		for i, c := range Columns {
			row[i] = r.Value(c)
		}
		rows = append(rows, row)
	}
	return rows
}
