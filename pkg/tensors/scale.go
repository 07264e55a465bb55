package tensors

import (
	"math"

	"gorgonia.org/tensor"
)

// ScaleMinMax rescales each column of a (rows, cols) tensor to [0, 1] in
// place. A constant column maps to 0.5, the midpoint, so that downstream
// models see it as uninformative rather than extreme.
func ScaleMinMax(x *tensor.Dense) error {
	rows, cols, backing, err := matrix(x)
	if err != nil {
		return err
	}

	for j := 0; j < cols; j++ {
		if rows == 0 {
			break
		}
		min, max := backing[j], backing[j]
		for i := 1; i < rows; i++ {
			v := backing[i*cols+j]
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		for i := 0; i < rows; i++ {
			if max > min {
				backing[i*cols+j] = (backing[i*cols+j] - min) / (max - min)
			} else {
				backing[i*cols+j] = 0.5
			}
		}
	}
	return nil
}

// ScaleStandard standardizes each column to zero mean and unit variance in
// place. A constant column maps to 0.
func ScaleStandard(x *tensor.Dense) error {
	rows, cols, backing, err := matrix(x)
	if err != nil {
		return err
	}
	if rows == 0 {
		return nil
	}

	for j := 0; j < cols; j++ {
		mean := 0.0
		for i := 0; i < rows; i++ {
			mean += float64(backing[i*cols+j])
		}
		mean /= float64(rows)

		variance := 0.0
		for i := 0; i < rows; i++ {
			d := float64(backing[i*cols+j]) - mean
			variance += d * d
		}
		std := math.Sqrt(variance / float64(rows))

		for i := 0; i < rows; i++ {
			if std > 0 {
				backing[i*cols+j] = float32((float64(backing[i*cols+j]) - mean) / std)
			} else {
				backing[i*cols+j] = 0
			}
		}
	}
	return nil
}
