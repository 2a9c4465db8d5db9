package vectorizer

// Vector is a sparse count vector of fixed dimension.
// Indices are strictly increasing.
type Vector struct {
	Indices []int
	Values  []float64
	Dim     int
}

// Len returns the dimension of the vector.
func (v Vector) Len() int {
	return v.Dim
}

// Nnz returns the number of non-zero entries.
func (v Vector) Nnz() int {
	return len(v.Indices)
}

// At returns the value stored at index i.
func (v Vector) At(i int) float64 {
	for k, idx := range v.Indices {
		if idx == i {
			return v.Values[k]
		}
		if idx > i {
			break
		}
	}
	return 0
}

// Dot computes the dot product with a dense vector.
func (v Vector) Dot(dense []float64) float64 {
	var sum float64
	for k, idx := range v.Indices {
		if idx < len(dense) {
			sum += v.Values[k] * dense[idx]
		}
	}
	return sum
}

// Dense materializes the fixed-length representation.
func (v Vector) Dense() []float64 {
	dense := make([]float64, v.Dim)
	for k, idx := range v.Indices {
		dense[idx] = v.Values[k]
	}
	return dense
}
