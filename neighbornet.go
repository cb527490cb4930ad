package neighbornet

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
)

// Config controls the Neighbor-Net pipeline.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Variance selects how pairs are weighted in the least-squares fit.
	// Empty means VarianceEstimated when Input.Variances is set and
	// VarianceOLS otherwise. Default: "".
	Variance VarianceMode

	// ZeroTolerance is the weight at or below which a split is treated as
	// absent from the network. 0 means default. Must be >= 0. Default: 1e-6.
	ZeroTolerance float64

	// SymmetryTolerance bounds |D[i][j] - D[j][i]| and |D[i][i]| on input.
	// 0 means default. Must be >= 0. Default: 1e-9.
	SymmetryTolerance float64

	// CGTolerance is the relative residual at which each conjugate-gradient
	// solve inside the active-set method stops. Must be > 0. Default: 1e-8.
	CGTolerance float64

	// MaxIterations caps the active-set iterations. 0 means the natural
	// bound of four passes over all splits. Must be >= 0. Default: 0.
	MaxIterations int

	// MaxCGIterations caps each conjugate-gradient solve inside the
	// active-set method. 0 means one step per split, which is exact in
	// exact arithmetic. Must be >= 0. Default: 0.
	MaxCGIterations int

	// Logger receives debug records at phase boundaries. Nil means
	// slog.Default().
	Logger *slog.Logger

	// Progress, if set, receives advisory progress reports.
	Progress ProgressFunc

	// Workers bounds the number of pipelines RunBatch runs at once.
	// 0 means runtime.NumCPU(). Ignored by Run. Default: 0 (auto).
	Workers int
}

// Input holds the matrices handed to the pipeline. Row i of each matrix
// belongs to taxon i+1. Neither matrix is modified.
type Input struct {
	// Distances is the n×n dissimilarity matrix: symmetric, non-negative,
	// zero diagonal. It need not satisfy the triangle inequality.
	Distances [][]float64

	// Variances optionally weights each pair by 1/Variances[i][j].
	// Off-diagonal entries must be > 0.
	Variances [][]float64
}

// Result is the assembled output of the pipeline.
type Result struct {
	// Ordering is the circular ordering of taxa 1..n chosen by the
	// agglomeration.
	Ordering CircularOrdering

	// Splits holds every circular split whose weight exceeds the zero
	// tolerance, in ordering-index order.
	Splits []Split

	// Compatibility is CompatibilityCompatible when no two splits cross
	// (the network is a tree) and CompatibilityCyclic otherwise.
	Compatibility Compatibility

	// Fit is 100·(1 − SSR/SSQ), clamped to [0, 100]. It is 100 when every
	// input distance is zero.
	Fit float64

	// SSR is the sum over pairs of squared differences between the input
	// distance and the network distance.
	SSR float64

	// SSQ is the sum over pairs of squared input distances.
	SSQ float64

	// TotalWeight is the sum of the retained split weights.
	TotalWeight float64
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		ZeroTolerance:     1e-6,
		SymmetryTolerance: 1e-9,
		CGTolerance:       1e-8,
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.ZeroTolerance == 0 {
		cfg.ZeroTolerance = def.ZeroTolerance
	}
	if cfg.SymmetryTolerance == 0 {
		cfg.SymmetryTolerance = def.SymmetryTolerance
	}
	if cfg.CGTolerance == 0 {
		cfg.CGTolerance = def.CGTolerance
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	switch cfg.Variance {
	case "", VarianceOLS, VarianceFitchMargoliash1, VarianceFitchMargoliash2, VarianceEstimated:
		// valid
	default:
		return fmt.Errorf("neighbornet: invalid Variance %q", cfg.Variance)
	}
	if cfg.ZeroTolerance < 0 {
		return fmt.Errorf("neighbornet: ZeroTolerance must be >= 0, got %g", cfg.ZeroTolerance)
	}
	if cfg.SymmetryTolerance < 0 {
		return fmt.Errorf("neighbornet: SymmetryTolerance must be >= 0, got %g", cfg.SymmetryTolerance)
	}
	if cfg.CGTolerance <= 0 {
		return fmt.Errorf("neighbornet: CGTolerance must be > 0, got %g", cfg.CGTolerance)
	}
	if cfg.MaxIterations < 0 {
		return fmt.Errorf("neighbornet: MaxIterations must be >= 0, got %d", cfg.MaxIterations)
	}
	if cfg.MaxCGIterations < 0 {
		return fmt.Errorf("neighbornet: MaxCGIterations must be >= 0, got %d", cfg.MaxCGIterations)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("neighbornet: Workers must be >= 0 (0 means runtime.NumCPU()), got %d", cfg.Workers)
	}
	return nil
}

// prepareConfig applies defaults and validates, in that order.
func prepareConfig(cfg *Config) error {
	applyDefaults(cfg)
	return validateConfig(cfg)
}

// Run computes the Neighbor-Net split system for in: validate the
// matrices, order the taxa by agglomeration, fit non-negative weights to
// every circular split of that ordering, then filter and score the result.
// It returns a *CanceledError if ctx ends first and an *InvalidInputError
// for malformed matrices.
func Run(ctx context.Context, in Input, cfg Config) (*Result, error) {
	if err := prepareConfig(&cfg); err != nil {
		return nil, err
	}

	d, err := NewDistanceMatrix(in.Distances, cfg.SymmetryTolerance)
	if err != nil {
		return nil, err
	}

	var v *VarianceMatrix
	if in.Variances != nil {
		v, err = NewVarianceMatrix(in.Variances, cfg.SymmetryTolerance)
		if err != nil {
			return nil, err
		}
		if v.N() != d.N() {
			return nil, &InvalidInputError{Row: -1, Col: -1, Matrix: "variances", Err: ErrShapeMismatch}
		}
	}

	ordering, err := Order(ctx, d, cfg)
	if err != nil {
		return nil, err
	}

	weights, err := SolveWeights(ctx, ordering, d, v, cfg)
	if err != nil {
		return nil, err
	}

	return Assemble(weights, d, cfg)
}
