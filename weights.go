package neighbornet

import (
	"context"
	"fmt"
)

// WeightedSplitSystem assigns a non-negative weight to every circular split
// of an ordering. Weights at or below the zero tolerance are stored as
// exactly zero.
type WeightedSplitSystem struct {
	Ordering CircularOrdering

	// Weights is indexed like the pairs of ordering positions: the weight
	// of the split with side A = Ordering[k+1..l] sits at the index of
	// (k, l). See Split.
	Weights []float64

	// Variance is the weighting the fit used.
	Variance VarianceMode

	// Iterations counts active-set iterations; 0 when the unconstrained
	// fit was already non-negative.
	Iterations int

	// Converged is false when MaxIterations stopped the active-set method
	// early. The weights are still non-negative.
	Converged bool
}

// SolveWeights fits non-negative weights to every circular split of
// ordering so that split distances best reproduce d in the weighted
// least-squares sense selected by cfg.Variance. v may be nil.
// It returns a *CanceledError if ctx ends first.
func SolveWeights(ctx context.Context, ordering CircularOrdering, d *DistanceMatrix, v *VarianceMatrix, cfg Config) (*WeightedSplitSystem, error) {
	if err := prepareConfig(&cfg); err != nil {
		return nil, err
	}
	n := len(ordering)
	if n != d.N() {
		return nil, fmt.Errorf("neighbornet: ordering has %d taxa, distance matrix has %d", n, d.N())
	}
	if err := ordering.Validate(); err != nil {
		return nil, err
	}
	if v != nil && v.N() != n {
		return nil, &InvalidInputError{Row: -1, Col: -1, Matrix: "variances", Err: ErrShapeMismatch}
	}
	mode, err := resolveVarianceMode(cfg.Variance, v)
	if err != nil {
		return nil, err
	}

	dist := orderedDistances(ordering, d)
	x := unconstrainedWeights(n, dist)

	ws := &WeightedSplitSystem{
		Ordering:  ordering,
		Weights:   x,
		Variance:  mode,
		Converged: true,
	}
	if n < 2 {
		return ws, nil
	}

	maxIter := cfg.MaxIterations
	if maxIter == 0 {
		maxIter = 4 * len(x)
	}
	solver := newActiveSetSolver(n, dist, pairWeights(mode, ordering, dist, v), cfg.CGTolerance)
	if cfg.MaxCGIterations > 0 {
		solver.cgMaxSteps = cfg.MaxCGIterations
	}
	ws.Iterations, ws.Converged, err = solver.solve(ctx, x, maxIter, cfg.Progress)
	if err != nil {
		return nil, err
	}
	if !ws.Converged {
		cfg.Logger.Warn("neighbornet: active set stopped before convergence",
			"taxa", n, "iterations", ws.Iterations)
	}
	cfg.Logger.Debug("neighbornet: split weights solved",
		"taxa", n, "splits", len(x), "iterations", ws.Iterations, "variance", string(mode))

	for k, w := range x {
		if w <= cfg.ZeroTolerance {
			x[k] = 0
		}
	}
	return ws, nil
}

// Split returns the circular split with side A = Ordering[k+1..l] and its
// weight, for 0 <= k < l < n.
func (ws *WeightedSplitSystem) Split(k, l int) Split {
	n := len(ws.Ordering)
	s := NewSplit(n, ws.Ordering[k+1:l+1]...)
	s.Weight = ws.Weights[pairIndex(n, k, l)]
	return s
}

// Splits returns every circular split with non-zero weight, in index order.
func (ws *WeightedSplitSystem) Splits() []Split {
	n := len(ws.Ordering)
	var out []Split
	for k := 0; k < n; k++ {
		for l := k + 1; l < n; l++ {
			if ws.Weights[pairIndex(n, k, l)] > 0 {
				out = append(out, ws.Split(k, l))
			}
		}
	}
	return out
}

// Distance returns the network distance between taxa i and j (1-based): the
// total weight of splits separating them.
func (ws *WeightedSplitSystem) Distance(i, j int) float64 {
	if i == j {
		return 0
	}
	n := len(ws.Ordering)
	out := ws.networkDistances()
	pos := ws.Ordering.Positions()
	pi, pj := pos[i], pos[j]
	if pi > pj {
		pi, pj = pj, pi
	}
	return out[pairIndex(n, pi, pj)]
}

// networkDistances returns A·weights in pair order.
func (ws *WeightedSplitSystem) networkDistances() []float64 {
	n := len(ws.Ordering)
	out := make([]float64, numPairs(n))
	circularOperator{n: n}.ax(ws.Weights, out)
	return out
}
