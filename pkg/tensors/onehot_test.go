package tensors_test

import (
	"testing"

	"github.com/grexie/frames/pkg/tensors"
)

func TestOneHot(t *testing.T) {
	x, err := tensors.OneHot([]float64{0, 2, 1}, 3)
	if err != nil {
		t.Fatalf("error encoding labels: %v", err)
	}
	if x.Shape()[0] != 3 || x.Shape()[1] != 3 {
		t.Fatalf("expected shape (3, 3), got %v", x.Shape())
	}
	want := []float32{1, 0, 0, 0, 0, 1, 0, 1, 0}
	if got := x.Data().([]float32); !equalF32(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestOneHotBadLabels(t *testing.T) {
	if _, err := tensors.OneHot([]float64{0.5}, 2); err == nil {
		t.Fatal("expected an error for a fractional label")
	}
	if _, err := tensors.OneHot([]float64{2}, 2); err == nil {
		t.Fatal("expected an error for a label out of range")
	}
	if _, err := tensors.OneHot([]float64{-1}, 2); err == nil {
		t.Fatal("expected an error for a negative label")
	}
	if _, err := tensors.OneHot([]float64{0}, 0); err == nil {
		t.Fatal("expected an error for zero classes")
	}
}
