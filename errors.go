package neighbornet

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidInput is matched (via errors.Is) by every InvalidInputError.
var ErrInvalidInput = errors.New("neighbornet: invalid input")

// Sentinels carried inside InvalidInputError.
var (
	ErrNotSquare           = errors.New("matrix is not square")
	ErrShapeMismatch       = errors.New("variance matrix shape does not match distance matrix")
	ErrAsymmetric          = errors.New("matrix is not symmetric within tolerance")
	ErrNonZeroDiagonal     = errors.New("diagonal entry is not zero within tolerance")
	ErrNegativeDistance    = errors.New("negative distance")
	ErrNonFinite           = errors.New("NaN or Inf entry")
	ErrNonPositiveVariance = errors.New("variance must be > 0")
)

// InvalidInputError reports a malformed distance or variance matrix.
// Row and Col are 0-based matrix indices of the offending entry, or -1 when
// the problem is not tied to a single entry.
type InvalidInputError struct {
	Row, Col int
	// Matrix names the offending input: "distances" or "variances".
	Matrix string
	Err    error
}

func (e *InvalidInputError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("neighbornet: invalid %s: %v", e.Matrix, e.Err)
	}
	if e.Col < 0 {
		return fmt.Sprintf("neighbornet: invalid %s at row %d: %v", e.Matrix, e.Row, e.Err)
	}
	return fmt.Sprintf("neighbornet: invalid %s at [%d][%d]: %v", e.Matrix, e.Row, e.Col, e.Err)
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrInvalidInput) match any InvalidInputError.
func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// CanceledError is returned when the caller's context ends mid-computation.
// No partial ordering or split system accompanies it.
type CanceledError struct {
	Phase Phase
	Err   error
}

func (e *CanceledError) Error() string {
	return fmt.Sprintf("neighbornet: canceled during %s: %v", e.Phase, e.Err)
}

func (e *CanceledError) Unwrap() error { return e.Err }

// checkCanceled returns a CanceledError if ctx is done.
func checkCanceled(ctx context.Context, phase Phase) error {
	if err := ctx.Err(); err != nil {
		return &CanceledError{Phase: phase, Err: err}
	}
	return nil
}
