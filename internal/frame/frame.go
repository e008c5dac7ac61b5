// Package frame implements the tabular container passed between pipeline
// stages. A Frame is an ordered set of columns over rows of loosely typed
// cells, mirroring what a provider response flattens into: every row from
// the same provider shares a vocabulary, but any single row may be missing
// values the provider did not send.
package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// ErrColumnMissing is returned by Select when a requested column is absent
// from every row of the frame.
var ErrColumnMissing = errors.New("column missing")

// Row is one record keyed by column name. A cell is absent (key missing),
// null (key present, value nil), or a concrete value. Values are the types
// JSON decoding produces: string, float64, int, bool.
type Row map[string]interface{}

// Frame is an ordered column list over a slice of rows. A column exists as
// soon as any row carries its key.
type Frame struct {
	cols []string
	seen map[string]bool
	rows []Row
}

// New returns an empty frame with the given column order pre-declared.
func New(cols ...string) *Frame {
	f := &Frame{seen: make(map[string]bool, len(cols))}
	for _, c := range cols {
		if !f.seen[c] {
			f.seen[c] = true
			f.cols = append(f.cols, c)
		}
	}
	return f
}

// FromRows builds a frame whose columns are the union of all row keys.
// Keys discovered within a single row are added in sorted order; across
// rows, first discovery wins the position.
func FromRows(rows []Row) *Frame {
	f := New()
	for _, r := range rows {
		f.Append(r)
	}
	return f
}

// Append adds a row, registering any columns not seen before.
func (f *Frame) Append(r Row) {
	keys := make([]string, 0, len(r))
	for k := range r {
		if !f.seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		f.seen[k] = true
		f.cols = append(f.cols, k)
	}
	f.rows = append(f.rows, r)
}

// Columns returns a copy of the column order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.cols))
	copy(out, f.cols)
	return out
}

// HasColumn reports whether at least one row carries the column.
func (f *Frame) HasColumn(col string) bool {
	return f.seen[col]
}

// Rows returns the underlying row slice. Callers iterating for transforms
// may mutate cells in place.
func (f *Frame) Rows() []Row {
	return f.rows
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// Select returns a new frame holding exactly the requested columns in the
// requested order. A column absent from every row is an error; a cell
// absent from an individual row stays absent in that row.
func (f *Frame) Select(cols ...string) (*Frame, error) {
	for _, c := range cols {
		if !f.seen[c] {
			return nil, fmt.Errorf("select %q: %w", c, ErrColumnMissing)
		}
	}
	out := New(cols...)
	for _, r := range f.rows {
		nr := make(Row, len(cols))
		for _, c := range cols {
			if v, ok := r[c]; ok {
				nr[c] = v
			}
		}
		out.rows = append(out.rows, nr)
	}
	return out, nil
}

// Rename returns a new frame with columns renamed per mapping. Columns not
// in the mapping keep their name; row keys are rewritten to match.
func (f *Frame) Rename(mapping map[string]string) *Frame {
	renamed := func(c string) string {
		if to, ok := mapping[c]; ok {
			return to
		}
		return c
	}
	cols := make([]string, len(f.cols))
	for i, c := range f.cols {
		cols[i] = renamed(c)
	}
	out := New(cols...)
	for _, r := range f.rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[renamed(k)] = v
		}
		out.rows = append(out.rows, nr)
	}
	return out
}

// Apply rewrites one column cell by cell, in place. Absent cells are
// skipped; the transform sees nulls and concrete values.
func (f *Frame) Apply(col string, fn func(interface{}) interface{}) {
	for _, r := range f.rows {
		if v, ok := r[col]; ok {
			r[col] = fn(v)
		}
	}
}

// WriteCSV writes the frame as CSV: a header row of column names, then one
// record per row. Absent and null cells render empty.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(f.cols))
	for _, r := range f.rows {
		for i, c := range f.cols {
			rec[i] = CellString(r[c])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CellString renders a single cell for text output. Floats print without
// trailing zeros so whole numbers stay readable.
func CellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
