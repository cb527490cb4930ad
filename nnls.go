package neighbornet

import (
	"context"

	"gonum.org/v1/gonum/floats"
)

// activeSetSolver minimizes Σ w·(A·x − d)² subject to x >= 0 for the circular
// incidence matrix A. Variables in the active set are held at zero; the
// free ones are fitted by conjugate gradients on the normal equations
// AᵀWA·x = AᵀW·d, using the O(n²) operators for every product. The active
// set is updated in blocks, so the number of fits stays small as n grows.
type activeSetSolver struct {
	op     circularOperator
	w      []float64
	atwd   []float64
	active []bool
	cgTol  float64

	// cgMaxSteps caps each conjugate-gradient solve.
	cgMaxSteps int

	// scratch, one entry per pair
	ax, r, p, q []float64
}

func newActiveSetSolver(n int, d, w []float64, cgTol float64) *activeSetSolver {
	m := numPairs(n)
	s := &activeSetSolver{
		op:         circularOperator{n: n},
		w:          w,
		atwd:       make([]float64, m),
		active:     make([]bool, m),
		cgTol:      cgTol,
		cgMaxSteps: m,
		ax:         make([]float64, m),
		r:          make([]float64, m),
		p:          make([]float64, m),
		q:          make([]float64, m),
	}
	wd := make([]float64, m)
	floats.MulTo(wd, w, d)
	s.op.atx(wd, s.atwd)
	return s
}

// normal stores AᵀWA·x in out.
func (s *activeSetSolver) normal(x, out []float64) {
	s.op.ax(x, s.ax)
	floats.Mul(s.ax, s.w)
	s.op.atx(s.ax, out)
}

// gradient stores AᵀW(A·x − d), the gradient of half the objective, in out.
func (s *activeSetSolver) gradient(x, out []float64) {
	s.normal(x, out)
	floats.Sub(out, s.atwd)
}

// conjugateGradients refines x over the free variables until the normal
// equation residual falls below cgTol relative to ‖AᵀW·d‖. Active entries
// of x must be zero on entry and stay zero.
func (s *activeSetSolver) conjugateGradients(x []float64) {
	s.normal(x, s.r)
	for k := range s.r {
		if s.active[k] {
			s.r[k] = 0
		} else {
			s.r[k] = s.atwd[k] - s.r[k]
		}
	}

	rho := floats.Dot(s.r, s.r)
	tol := s.cgTol * s.cgTol * floats.Dot(s.atwd, s.atwd)
	rhoOld := 0.0
	for it := 0; it < s.cgMaxSteps && rho > tol; it++ {
		if it == 0 {
			copy(s.p, s.r)
		} else {
			floats.AddScaledTo(s.p, s.r, rho/rhoOld, s.p)
		}
		s.normal(s.p, s.q)
		for k := range s.q {
			if s.active[k] {
				s.q[k] = 0
			}
		}
		pq := floats.Dot(s.p, s.q)
		if pq <= 0 {
			break
		}
		alpha := rho / pq
		floats.AddScaled(x, alpha, s.p)
		floats.AddScaled(s.r, -alpha, s.q)
		rhoOld = rho
		rho = floats.Dot(s.r, s.r)
	}
}

// bppBackup is how many full exchanges may fail to shrink the infeasible
// set before single exchanges take over.
const bppBackup = 3

// solve overwrites x, which must hold the unconstrained optimum, with the
// non-negative optimum by block principal pivoting: each iteration fits the
// free variables, then moves every variable that violates the optimality
// conditions across the free/held boundary at once. It returns the number
// of iterations and whether the method converged within maxIter.
func (s *activeSetSolver) solve(ctx context.Context, x []float64, maxIter int, progress ProgressFunc) (int, bool, error) {
	feasible := true
	for k := range x {
		if x[k] < 0 {
			s.active[k] = true
			x[k] = 0
			feasible = false
		}
	}
	if feasible {
		return 0, true, nil
	}

	g := make([]float64, len(x))
	gradTol := s.cgTol * floats.Norm(s.atwd, 2)
	bestInfeasible, backup := len(x)+1, bppBackup

	for iter := 1; ; iter++ {
		if err := checkCanceled(ctx, PhaseWeights); err != nil {
			return iter, false, err
		}
		if iter > maxIter {
			clampNegative(x)
			return maxIter, false, nil
		}
		progress.report(PhaseWeights, iter, maxIter)

		// Held entries are zero, so x warm-starts the free fit.
		s.conjugateGradients(x)
		s.gradient(x, g)
		xTol := s.cgTol * (1 + floats.Max(x))

		infeasible, last := 0, none
		for k := range x {
			if s.violates(k, x, g, xTol, gradTol) {
				infeasible++
				last = k
			}
		}
		if infeasible == 0 {
			clampNegative(x)
			return iter, true, nil
		}

		switch {
		case infeasible < bestInfeasible:
			bestInfeasible, backup = infeasible, bppBackup
			s.exchangeAll(x, g, xTol, gradTol)
		case backup > 0:
			backup--
			s.exchangeAll(x, g, xTol, gradTol)
		default:
			// Single exchange of the highest-index violator cannot cycle.
			s.exchange(last, x)
		}
	}
}

// violates reports whether variable k breaks optimality: a free variable
// below zero, or a held one whose gradient says it should grow.
func (s *activeSetSolver) violates(k int, x, g []float64, xTol, gradTol float64) bool {
	if s.active[k] {
		return g[k] < -gradTol
	}
	return x[k] < -xTol
}

func (s *activeSetSolver) exchangeAll(x, g []float64, xTol, gradTol float64) {
	for k := range x {
		if s.violates(k, x, g, xTol, gradTol) {
			s.exchange(k, x)
		}
	}
}

// exchange moves k between the free and held sets. Held variables are zero.
func (s *activeSetSolver) exchange(k int, x []float64) {
	s.active[k] = !s.active[k]
	x[k] = 0
}

func clampNegative(x []float64) {
	for k := range x {
		x[k] = max(x[k], 0)
	}
}
