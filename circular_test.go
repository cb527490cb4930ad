package neighbornet

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestPairIndex_Enumeration(t *testing.T) {
	for n := 2; n <= 12; n++ {
		want := 0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				require.Equal(t, want, pairIndex(n, i, j), "n=%d (%d,%d)", n, i, j)
				want++
			}
		}
		assert.Equal(t, numPairs(n), want)
	}
}

func TestCircularOperator_MatchesDense(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, n := range []int{2, 3, 4, 5, 7, 10} {
		m := numPairs(n)
		a := denseIncidence(n)
		op := circularOperator{n: n}

		x := make([]float64, m)
		for k := range x {
			x[k] = rng.NormFloat64()
		}

		got := make([]float64, m)
		op.ax(x, got)
		var want mat.VecDense
		want.MulVec(a, mat.NewVecDense(m, x))
		assert.InDeltaSlice(t, want.RawVector().Data, got, 1e-9, "ax n=%d", n)

		op.atx(x, got)
		want.MulVec(a.T(), mat.NewVecDense(m, x))
		assert.InDeltaSlice(t, want.RawVector().Data, got, 1e-9, "atx n=%d", n)
	}
}

func TestCircularOperator_Adjoint(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	n := 15
	m := numPairs(n)
	op := circularOperator{n: n}

	x := make([]float64, m)
	y := make([]float64, m)
	for k := range x {
		x[k] = rng.Float64()
		y[k] = rng.Float64()
	}
	ax := make([]float64, m)
	aty := make([]float64, m)
	op.ax(x, ax)
	op.atx(y, aty)

	assert.InDelta(t, floats.Dot(ax, y), floats.Dot(x, aty), 1e-8)
}

func TestUnconstrainedWeights_InvertsOperator(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for _, n := range []int{3, 4, 6, 13} {
		m := numPairs(n)
		d := make([]float64, m)
		for k := range d {
			d[k] = 1 + 10*rng.Float64()
		}
		x := unconstrainedWeights(n, d)
		back := make([]float64, m)
		circularOperator{n: n}.ax(x, back)
		assert.InDeltaSlice(t, d, back, 1e-9, "n=%d", n)
	}
}

func TestUnconstrainedWeights_ScenarioA(t *testing.T) {
	o := CircularOrdering{1, 3, 4, 2}
	x := unconstrainedWeights(4, orderedDistances(o, mustDistances(t, scenarioA())))

	// (0,1)={3} (0,2)={3,4} (0,3)={3,4,2} (1,2)={4} (1,3)={4,2} (2,3)={2}
	assert.InDeltaSlice(t, []float64{0.5, 1, 0.5, 0.5, 1, 0.5}, x, 1e-12)
}

func TestOrderedDistances(t *testing.T) {
	d := mustDistances(t, scenarioA())
	got := orderedDistances(CircularOrdering{1, 3, 4, 2}, d)
	// pairs (1,3) (1,4) (1,2) (3,4) (3,2) (4,2)
	assert.Equal(t, []float64{2, 3, 2, 2, 3, 2}, got)
}
