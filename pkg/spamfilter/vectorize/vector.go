package vectorize

import "math"

// Vector is a sparse feature vector over a frozen vocabulary. Indices are
// strictly increasing and every index is below Dim.
type Vector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// Zero returns an all-zero vector of the given dimension.
func Zero(dim int) Vector {
	return Vector{Dim: dim}
}

// NNZ returns the number of stored entries.
func (v Vector) NNZ() int {
	return len(v.Indices)
}

// At returns the value stored at index i, or zero.
func (v Vector) At(i int) float64 {
	lo, hi := 0, len(v.Indices)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case v.Indices[mid] == i:
			return v.Values[mid]
		case v.Indices[mid] < i:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0
}

// Dense expands the vector into a slice of length Dim.
func (v Vector) Dense() []float64 {
	out := make([]float64, v.Dim)
	for k, i := range v.Indices {
		out[i] = v.Values[k]
	}
	return out
}

// Norm returns the Euclidean norm.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dot returns the dot product with a dense weight row of length Dim.
func (v Vector) Dot(row []float64) float64 {
	var sum float64
	for k, i := range v.Indices {
		sum += v.Values[k] * row[i]
	}
	return sum
}
