package neighbornet

import "math"

// symMatrix is a validated symmetric n×n matrix stored flat in row-major
// order, the layout the rest of the package indexes directly.
type symMatrix struct {
	n    int
	data []float64
}

// N returns the number of rows (taxa).
func (m *symMatrix) N() int { return m.n }

// At returns entry (i, j), 0-based.
func (m *symMatrix) At(i, j int) float64 { return m.data[i*m.n+j] }

// DistanceMatrix is a validated dissimilarity matrix: square, finite,
// non-negative, zero diagonal, symmetric. Row i holds taxon i+1.
// It is never mutated after construction.
type DistanceMatrix struct{ symMatrix }

// VarianceMatrix holds per-pair variances used to weight the least-squares
// fit. Off-diagonal entries are strictly positive; the diagonal is ignored.
type VarianceMatrix struct{ symMatrix }

// NewDistanceMatrix validates rows and copies them into a DistanceMatrix.
// Entries (i, j) and (j, i) may differ by at most symTol; the stored value is
// their mean so the result is exactly symmetric.
func NewDistanceMatrix(rows [][]float64, symTol float64) (*DistanceMatrix, error) {
	m, err := newSymMatrix("distances", rows, symTol)
	if err != nil {
		return nil, err
	}
	for i := 0; i < m.n; i++ {
		if math.Abs(m.At(i, i)) > symTol {
			return nil, &InvalidInputError{Row: i, Col: i, Matrix: "distances", Err: ErrNonZeroDiagonal}
		}
		m.data[i*m.n+i] = 0
		for j := 0; j < m.n; j++ {
			if m.At(i, j) < 0 {
				return nil, &InvalidInputError{Row: i, Col: j, Matrix: "distances", Err: ErrNegativeDistance}
			}
		}
	}
	return &DistanceMatrix{*m}, nil
}

// NewVarianceMatrix validates rows and copies them into a VarianceMatrix.
func NewVarianceMatrix(rows [][]float64, symTol float64) (*VarianceMatrix, error) {
	m, err := newSymMatrix("variances", rows, symTol)
	if err != nil {
		return nil, err
	}
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			if i != j && m.At(i, j) <= 0 {
				return nil, &InvalidInputError{Row: i, Col: j, Matrix: "variances", Err: ErrNonPositiveVariance}
			}
		}
	}
	return &VarianceMatrix{*m}, nil
}

// newSymMatrix runs the checks shared by both matrix kinds: square shape,
// finite entries, symmetry within symTol.
func newSymMatrix(name string, rows [][]float64, symTol float64) (*symMatrix, error) {
	n := len(rows)
	data := make([]float64, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, &InvalidInputError{Row: i, Col: -1, Matrix: name, Err: ErrNotSquare}
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &InvalidInputError{Row: i, Col: j, Matrix: name, Err: ErrNonFinite}
			}
		}
		copy(data[i*n:], row)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := data[i*n+j], data[j*n+i]
			if math.Abs(a-b) > symTol {
				return nil, &InvalidInputError{Row: i, Col: j, Matrix: name, Err: ErrAsymmetric}
			}
			mean := (a + b) / 2
			data[i*n+j] = mean
			data[j*n+i] = mean
		}
	}
	return &symMatrix{n: n, data: data}, nil
}
