// Package vecmath holds the dense-vector helpers shared by the indexes and
// scorers.
package vecmath

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Cosine returns the cosine similarity of a and b. A zero vector has
// similarity 0 with everything.
func Cosine(a, b []float64) float64 {
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// Mean returns the element-wise mean of vs. All vectors must share a dimension.
func Mean(vs [][]float64) []float64 {
	if len(vs) == 0 {
		return nil
	}
	out := make([]float64, len(vs[0]))
	for _, v := range vs {
		floats.Add(out, v)
	}
	floats.Scale(1/float64(len(vs)), out)
	return out
}

// CheckDims verifies that every vector has dimension dim (or the dimension of
// the first vector when dim is 0) and is non-empty.
func CheckDims(vs [][]float64, dim int) error {
	for i, v := range vs {
		if len(v) == 0 {
			return fmt.Errorf("vector %d is empty", i)
		}
		if dim == 0 {
			dim = len(v)
		}
		if len(v) != dim {
			return fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), dim)
		}
	}
	return nil
}
