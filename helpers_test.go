package neighbornet

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// scenarioA admits an exact circular fit: two crossing splits of weight 1
// and four pendant splits of weight 0.5.
func scenarioA() [][]float64 {
	return [][]float64{
		{0, 2, 2, 3},
		{2, 0, 3, 2},
		{2, 3, 0, 2},
		{3, 2, 2, 0},
	}
}

// scenarioB is ultrametric: clades {1,2} and {3,4} at distance 2, 4 between.
func scenarioB() [][]float64 {
	return [][]float64{
		{0, 2, 4, 4},
		{2, 0, 4, 4},
		{4, 4, 0, 2},
		{4, 4, 2, 0},
	}
}

func zeroMatrix(n int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
	}
	return rows
}

// randomMatrix returns a symmetric matrix with entries uniform in [1, 11).
// It is generally not circular decomposable.
func randomMatrix(rng *rand.Rand, n int) [][]float64 {
	rows := zeroMatrix(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := 1 + 10*rng.Float64()
			rows[i][j] = v
			rows[j][i] = v
		}
	}
	return rows
}

// randomPermutation returns a random ordering of taxa 1..n.
func randomPermutation(rng *rand.Rand, n int) CircularOrdering {
	o := make(CircularOrdering, n)
	for i, p := range rng.Perm(n) {
		o[i] = p + 1
	}
	return o
}

// circularMetric builds the distances realized by weights on the circular
// splits of o (weights in pair order).
func circularMetric(o CircularOrdering, weights []float64) [][]float64 {
	n := len(o)
	network := make([]float64, numPairs(n))
	circularOperator{n: n}.ax(weights, network)
	rows := zeroMatrix(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := o[i]-1, o[j]-1
			rows[a][b] = network[pairIndex(n, i, j)]
			rows[b][a] = rows[a][b]
		}
	}
	return rows
}

// caterpillarMetric is the tree metric of a caterpillar whose internal edges
// cut off the nested arcs o[1..l], with random edge lengths in [1, 2).
func caterpillarMetric(rng *rand.Rand, o CircularOrdering) [][]float64 {
	n := len(o)
	weights := make([]float64, numPairs(n))
	for k := 0; k < n; k++ {
		for l := k + 1; l < n; l++ {
			size := l - k
			switch {
			case size == 1 || size == n-1:
				weights[pairIndex(n, k, l)] = 1 + rng.Float64()
			case k == 0 && size <= n-2:
				weights[pairIndex(n, k, l)] = 1 + rng.Float64()
			}
		}
	}
	return circularMetric(o, weights)
}

func mustDistances(t testing.TB, rows [][]float64) *DistanceMatrix {
	t.Helper()
	d, err := NewDistanceMatrix(rows, 1e-9)
	require.NoError(t, err)
	return d
}

// denseIncidence builds the pair×split incidence matrix explicitly.
func denseIncidence(n int) *mat.Dense {
	m := numPairs(n)
	a := mat.NewDense(m, m, nil)
	inside := func(k, l, p int) bool { return k < p && p <= l }
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := 0; k < n; k++ {
				for l := k + 1; l < n; l++ {
					if inside(k, l, i) != inside(k, l, j) {
						a.Set(pairIndex(n, i, j), pairIndex(n, k, l), 1)
					}
				}
			}
		}
	}
	return a
}

// weightedObjective returns Σ w·(A·x − d)².
func weightedObjective(n int, x, d, w []float64) float64 {
	ax := make([]float64, len(d))
	circularOperator{n: n}.ax(x, ax)
	sum := 0.0
	for k := range d {
		r := ax[k] - d[k]
		sum += w[k] * r * r
	}
	return sum
}
