// Package tensors bridges tabular frames and the dense float32 tensors that
// numeric code consumes. The core operation is FromFrame: selected columns of
// a materialized frame flattened row-major into a gorgonia tensor with shape
// (rows, columns).
package tensors

import (
	"context"

	"github.com/grexie/frames/pkg/frame"
	"gorgonia.org/tensor"
)

// FromFrame flattens the selected columns of a frame into a float32 tensor of
// shape (rows, len(columns)).
//
// A nil selector returns (nil, nil): without a column list there is no tensor
// to form, and callers treat that as a no-op rather than a failure. An empty
// non-nil selector is honored literally and yields shape (rows, 0), as an
// empty frame yields (0, len(columns)).
//
// The selector drives the layout: position i of every row reads the column
// named columns[i], so reordering the selector reorders the buffer and names
// may repeat. A column missing from a row or a cell that is not numeric fails
// the conversion immediately; nothing is padded or skipped.
func FromFrame(f *frame.Frame, columns []string) (*tensor.Dense, error) {
	if columns == nil {
		return nil, nil
	}

	rows := f.Len()
	cols := len(columns)

	backing := make([]float32, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for _, name := range columns {
			v, err := f.Float(i, name)
			if err != nil {
				return nil, err
			}
			backing = append(backing, float32(v))
		}
	}

	return tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(backing)), nil
}

// Collect materializes a source and converts it in one step. The nil-selector
// no-op is decided before collection so that callers do not pay for a backend
// pull whose result would be discarded. Materialization itself is the
// expensive part: for the mongo and remote sources it transfers the whole
// table into this process.
func Collect(ctx context.Context, src frame.Source, columns []string) (*tensor.Dense, error) {
	if columns == nil {
		return nil, nil
	}

	f, err := src.Collect(ctx)
	if err != nil {
		return nil, err
	}
	return FromFrame(f, columns)
}
