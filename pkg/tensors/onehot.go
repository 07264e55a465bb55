package tensors

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// OneHot expands class labels into a (len(labels), classes) float32 tensor
// with a single 1 per row. Labels must be whole numbers in [0, classes).
func OneHot(labels []float64, classes int) (*tensor.Dense, error) {
	if classes <= 0 {
		return nil, errors.Errorf("classes %d, must be positive", classes)
	}

	backing := make([]float32, len(labels)*classes)
	for i, label := range labels {
		class := int(label)
		if float64(class) != label || class < 0 || class >= classes {
			return nil, errors.Errorf("label %v at index %d out of range [0, %d)", label, i, classes)
		}
		backing[i*classes+class] = 1
	}

	return tensor.New(tensor.WithShape(len(labels), classes), tensor.WithBacking(backing)), nil
}
