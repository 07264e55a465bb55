package frame

import "fmt"

// ColumnNotFoundError reports a selector naming a column that a row does not
// carry. Conversion fails fast on the first occurrence rather than padding
// with zeros.
type ColumnNotFoundError struct {
	Column string
	Row    int
}

func (e *ColumnNotFoundError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("no column %q in schema", e.Column)
	}
	return fmt.Sprintf("no column %q in row %d", e.Column, e.Row)
}

// CellTypeError reports a cell whose dynamic type cannot be read as a
// floating-point value.
type CellTypeError struct {
	Column string
	Row    int
	Value  any
}

func (e *CellTypeError) Error() string {
	return fmt.Sprintf("column %q row %d: cannot read %T as float", e.Column, e.Row, e.Value)
}
