// Package frame models tabular datasets: ordered rows with named, typed
// columns. A Frame is always fully materialized in memory; the pkg/db and
// pkg/remote sources do the work of pulling backend-resident tables into one.
package frame

import (
	"context"
	"sort"

	"github.com/pkg/errors"
)

// Row is a single record, keyed by column name. Mongo documents and JSON
// objects decode into this shape without copying.
type Row = map[string]any

// Frame is a materialized tabular dataset.
type Frame struct {
	schema *Schema
	rows   []Row
}

// Source materializes a backend-resident table into a Frame. Collect blocks
// until every row has been pulled; for remote backends this can be a costly
// full-table transfer, and cancellation is only as granular as the backend's
// own request boundaries.
type Source interface {
	Collect(ctx context.Context) (*Frame, error)
}

func New(schema *Schema) *Frame {
	if schema == nil {
		schema, _ = NewSchema()
	}
	return &Frame{schema: schema}
}

// FromRows builds a frame from already-materialized rows, inferring the schema
// from the first row: column names in sorted order, kinds from the dynamic
// types of its cells.
func FromRows(rows []Row) (*Frame, error) {
	if len(rows) == 0 {
		return New(nil), nil
	}

	names := make([]string, 0, len(rows[0]))
	for name := range rows[0] {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, len(names))
	for i, name := range names {
		fields[i] = Field{Name: name, Kind: kindOf(rows[0][name])}
	}

	schema, err := NewSchema(fields...)
	if err != nil {
		return nil, err
	}

	f := New(schema)
	for _, row := range rows {
		if err := f.Append(row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *Frame) Schema() *Schema {
	return f.schema
}

func (f *Frame) Len() int {
	return len(f.rows)
}

// Row returns the i'th row. The map is shared, not copied.
func (f *Frame) Row(i int) Row {
	return f.rows[i]
}

func (f *Frame) Rows() []Row {
	return f.rows
}

// Append validates a row against the schema and adds it in order. Cells for
// unknown columns are rejected; missing cells are allowed and surface later as
// lookup errors if a selector asks for them. A nil row is stored as an empty
// one, so later cell writes land in a real map.
func (f *Frame) Append(row Row) error {
	if row == nil {
		row = Row{}
	}
	for name, v := range row {
		field, ok := f.schema.Field(name)
		if !ok {
			return errors.Errorf("row %d: no column %q in schema", len(f.rows), name)
		}
		if v == nil {
			continue
		}
		k := kindOf(v)
		if field.Kind.Numeric() {
			if !k.Numeric() {
				return &CellTypeError{Column: name, Row: len(f.rows), Value: v}
			}
		} else if k != field.Kind {
			return errors.Errorf("row %d: column %q: expected %s, got %T", len(f.rows), name, field.Kind, v)
		}
	}
	f.rows = append(f.rows, row)
	return nil
}

// Float reads one cell as a float64. Row indices are in dataset order; the
// error distinguishes a missing cell from a cell of the wrong type so that
// callers can fail fast the way the conversion contract requires.
func (f *Frame) Float(i int, column string) (float64, error) {
	v, ok := f.rows[i][column]
	if !ok {
		return 0, &ColumnNotFoundError{Column: column, Row: i}
	}
	fv, ok := floatValue(v)
	if !ok {
		return 0, &CellTypeError{Column: column, Row: i, Value: v}
	}
	return fv, nil
}

// Column pulls a whole numeric column in row order.
func (f *Frame) Column(name string) ([]float64, error) {
	out := make([]float64, len(f.rows))
	for i := range f.rows {
		v, err := f.Float(i, name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Head returns a frame sharing this frame's schema and first n rows.
func (f *Frame) Head(n int) *Frame {
	if n > len(f.rows) {
		n = len(f.rows)
	}
	return &Frame{schema: f.schema, rows: f.rows[:n]}
}

// Collect makes a materialized frame trivially usable as a Source.
func (f *Frame) Collect(ctx context.Context) (*Frame, error) {
	return f, nil
}

// floatValue converts the numeric dynamic types a row cell can carry. Mongo
// hands back float64, int32 and int64; JSON only float64; CSV ingest produces
// float64 and bool.
func floatValue(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
