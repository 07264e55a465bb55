package tensors

import (
	"math/rand"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Batches splits a (rows, cols) tensor into row-major batches of at most size
// rows. The final batch is short when rows is not a multiple of size. Each
// batch owns a copy of its backing, so batches stay valid if the input is
// later mutated.
func Batches(x *tensor.Dense, size int) ([]*tensor.Dense, error) {
	if size <= 0 {
		return nil, errors.Errorf("batch size %d, must be positive", size)
	}
	rows, cols, backing, err := matrix(x)
	if err != nil {
		return nil, err
	}

	out := make([]*tensor.Dense, 0, (rows+size-1)/size)
	for start := 0; start < rows; start += size {
		end := start + size
		if end > rows {
			end = rows
		}
		buf := make([]float32, (end-start)*cols)
		copy(buf, backing[start*cols:end*cols])
		out = append(out, tensor.New(tensor.WithShape(end-start, cols), tensor.WithBacking(buf)))
	}
	return out, nil
}

// Shuffle applies one random row permutation to a feature matrix and its
// labels, keeping pairs aligned. Labels may be a vector of length rows or a
// matrix with rows rows (one-hot). The same seed always produces the same
// order.
func Shuffle(x, y *tensor.Dense, seed int64) error {
	rows, cols, xb, err := matrix(x)
	if err != nil {
		return err
	}
	if y == nil {
		return errors.New("nil labels tensor")
	}

	yCols := 1
	if y.Dims() == 2 {
		yCols = y.Shape()[1]
	} else if y.Dims() != 1 {
		return errors.Errorf("labels: expected a vector or matrix, got shape %v", y.Shape())
	}
	if y.Shape()[0] != rows {
		return errors.Errorf("labels: %d rows, features: %d rows", y.Shape()[0], rows)
	}
	if rows == 0 {
		return nil
	}

	var yb []float32
	if yCols > 0 {
		b, ok := y.Data().([]float32)
		if !ok {
			return errors.Errorf("labels: expected float32 backing, got %T", y.Data())
		}
		yb = b
	}

	perm := rand.New(rand.NewSource(seed)).Perm(rows)

	xOut := make([]float32, len(xb))
	yOut := make([]float32, len(yb))
	for i, v := range perm {
		copy(xOut[i*cols:(i+1)*cols], xb[v*cols:(v+1)*cols])
		copy(yOut[i*yCols:(i+1)*yCols], yb[v*yCols:(v+1)*yCols])
	}
	copy(xb, xOut)
	copy(yb, yOut)
	return nil
}

// matrix unwraps a two-dimensional float32 dense tensor. A zero-element
// matrix unwraps to a nil backing: Data panics on zero-size tensors, and
// there are no elements to hand back anyway.
func matrix(x *tensor.Dense) (rows, cols int, backing []float32, err error) {
	if x == nil {
		return 0, 0, nil, errors.New("nil tensor")
	}
	if x.Dims() != 2 {
		return 0, 0, nil, errors.Errorf("expected a matrix, got shape %v", x.Shape())
	}
	rows, cols = x.Shape()[0], x.Shape()[1]
	if rows*cols == 0 {
		return rows, cols, nil, nil
	}
	backing, ok := x.Data().([]float32)
	if !ok {
		return 0, 0, nil, errors.Errorf("expected float32 backing, got %T", x.Data())
	}
	return rows, cols, backing, nil
}
