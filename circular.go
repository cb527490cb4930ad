package neighbornet

// Pairs of ordering positions (i, j), i < j, and circular splits share one
// index space of size n(n-1)/2, enumerated lexicographically. Split (k, l)
// has side A = positions k+1..l, so it never contains position 0. Split
// (k, l) separates pair (i, j) exactly when one of its cut points k, l lies
// in [i, j-1]. That structure lets A·x and Aᵀ·y, with A the pair×split
// incidence matrix, be computed in O(n²) by inclusion–exclusion instead of
// O(n⁴) by a dense product.

// numPairs returns n(n-1)/2.
func numPairs(n int) int { return n * (n - 1) / 2 }

// pairIndex returns the index of pair or split (i, j), 0 <= i < j < n.
func pairIndex(n, i, j int) int {
	return i*(2*n-i-1)/2 + j - i - 1
}

// circularOperator applies the pair×split incidence matrix of an n-taxon
// circular ordering.
type circularOperator struct {
	n int
}

// ax stores in out the network distance of every pair, given split weights x:
// out(i,j) = Σ x(k,l) over splits (k,l) separating positions i and j.
func (c circularOperator) ax(x, out []float64) {
	n := c.n
	// Adjacent pairs are separated by every split with a cut at i.
	for i := 0; i < n-1; i++ {
		s := 0.0
		for l := i + 1; l < n; l++ {
			s += x[pairIndex(n, i, l)]
		}
		for k := 0; k < i; k++ {
			s += x[pairIndex(n, k, i)]
		}
		out[pairIndex(n, i, i+1)] = s
	}
	// out(i,j) = out(i,j-1) + out(i+1,j) − out(i+1,j-1) − 2·x(i,j-1)
	for gap := 2; gap < n; gap++ {
		for i := 0; i+gap < n; i++ {
			j := i + gap
			v := out[pairIndex(n, i, j-1)] + out[pairIndex(n, i+1, j)] - 2*x[pairIndex(n, i, j-1)]
			if gap > 2 {
				v -= out[pairIndex(n, i+1, j-1)]
			}
			out[pairIndex(n, i, j)] = v
		}
	}
}

// atx stores in out, for every split, the sum of y over the pairs it
// separates: out(k,l) = Σ y(i,j), i in A = k+1..l, j outside A.
func (c circularOperator) atx(y, out []float64) {
	n := c.n
	// A single-taxon side collects its whole row.
	for k := 0; k < n-1; k++ {
		t := k + 1
		s := 0.0
		for j := 0; j < n; j++ {
			switch {
			case j < t:
				s += y[pairIndex(n, j, t)]
			case j > t:
				s += y[pairIndex(n, t, j)]
			}
		}
		out[pairIndex(n, k, k+1)] = s
	}
	// out(k,l) = out(k,l-1) + out(k+1,l) − out(k+1,l-1) − 2·y(k+1,l)
	for gap := 2; gap < n; gap++ {
		for k := 0; k+gap < n; k++ {
			l := k + gap
			v := out[pairIndex(n, k, l-1)] + out[pairIndex(n, k+1, l)] - 2*y[pairIndex(n, k+1, l)]
			if gap > 2 {
				v -= out[pairIndex(n, k+1, l-1)]
			}
			out[pairIndex(n, k, l)] = v
		}
	}
}

// orderedDistances returns the input distances in pair order for ordering o:
// entry (i, j) is the distance between taxa o[i] and o[j].
func orderedDistances(o CircularOrdering, d *DistanceMatrix) []float64 {
	n := len(o)
	out := make([]float64, numPairs(n))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out[pairIndex(n, i, j)] = d.At(o[i]-1, o[j]-1)
		}
	}
	return out
}

// unconstrainedWeights solves A·x = d exactly. A is square and invertible for
// circular splits, so the solution is the same under every weighting:
// x(k,l) = (d(k,l) + d(k+1,l+1) − d(k,l+1) − d(k+1,l)) / 2, indices mod n.
func unconstrainedWeights(n int, d []float64) []float64 {
	dist := func(i, j int) float64 {
		i, j = i%n, j%n
		switch {
		case i == j:
			return 0
		case i > j:
			i, j = j, i
		}
		return d[pairIndex(n, i, j)]
	}
	x := make([]float64, numPairs(n))
	for k := 0; k < n; k++ {
		for l := k + 1; l < n; l++ {
			x[pairIndex(n, k, l)] = (dist(k, l) + dist(k+1, l+1) - dist(k, l+1) - dist(k+1, l)) / 2
		}
	}
	return x
}
