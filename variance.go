package neighbornet

import "fmt"

// VarianceMode selects the per-pair weighting of the least-squares fit.
type VarianceMode string

const (
	// VarianceOLS weights every pair equally (ordinary least squares).
	VarianceOLS VarianceMode = "ols"
	// VarianceFitchMargoliash1 takes each pair's variance to be its distance.
	VarianceFitchMargoliash1 VarianceMode = "fm1"
	// VarianceFitchMargoliash2 takes each pair's variance to be its squared distance.
	VarianceFitchMargoliash2 VarianceMode = "fm2"
	// VarianceEstimated uses the supplied VarianceMatrix.
	VarianceEstimated VarianceMode = "estimated"
)

// zeroVarianceWeight stands in for 1/0 when a derived variance vanishes.
const zeroVarianceWeight = 1e8

// resolveVarianceMode turns the empty mode into the one implied by whether
// variances were supplied.
func resolveVarianceMode(mode VarianceMode, v *VarianceMatrix) (VarianceMode, error) {
	switch {
	case mode == "" && v != nil:
		return VarianceEstimated, nil
	case mode == "":
		return VarianceOLS, nil
	case mode == VarianceEstimated && v == nil:
		return "", fmt.Errorf("neighbornet: Variance %q requires a variance matrix", mode)
	}
	return mode, nil
}

// pairWeights returns 1/variance for every pair in ordering o, in pair order.
// d holds the ordered distances from orderedDistances.
func pairWeights(mode VarianceMode, o CircularOrdering, d []float64, v *VarianceMatrix) []float64 {
	n := len(o)
	w := make([]float64, len(d))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			k := pairIndex(n, i, j)
			var variance float64
			switch mode {
			case VarianceFitchMargoliash1:
				variance = d[k]
			case VarianceFitchMargoliash2:
				variance = d[k] * d[k]
			case VarianceEstimated:
				variance = v.At(o[i]-1, o[j]-1)
			default:
				variance = 1
			}
			if variance == 0 {
				w[k] = zeroVarianceWeight
			} else {
				w[k] = 1 / variance
			}
		}
	}
	return w
}
