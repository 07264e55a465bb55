package frame

import "github.com/pkg/errors"

// WithColumn appends a derived float column computed row by row. The function
// sees the full row, so derivations can combine any number of existing
// columns. The first row error aborts the derivation with the frame unchanged.
func (f *Frame) WithColumn(name string, fn func(Row) (float64, error)) error {
	if _, ok := f.schema.Field(name); ok {
		return errors.Errorf("column %q already in schema", name)
	}

	values := make([]float64, len(f.rows))
	for i, row := range f.rows {
		v, err := fn(row)
		if err != nil {
			return errors.Wrapf(err, "deriving %q for row %d", name, i)
		}
		values[i] = v
	}

	if err := f.schema.add(Field{Name: name, Kind: Float}); err != nil {
		return err
	}
	for i := range f.rows {
		f.rows[i][name] = values[i]
	}
	return nil
}

// RollingMean computes a windowed mean over values in order. Positions before
// the window has filled carry the mean of the values seen so far. A window
// below 1 is treated as 1, which leaves every value unchanged.
func RollingMean(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
			out[i] = sum / float64(window)
		} else {
			out[i] = sum / float64(i+1)
		}
	}
	return out
}
