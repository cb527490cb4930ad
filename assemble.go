package neighbornet

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Compatibility labels an assembled split system. Circular split systems are
// always weakly compatible, so only these two outcomes occur.
type Compatibility string

const (
	// CompatibilityCompatible means no two splits cross: the network is a tree.
	CompatibilityCompatible Compatibility = "compatible"
	// CompatibilityCyclic means some splits cross; the network has boxes.
	CompatibilityCyclic Compatibility = "cyclic"
)

// Assemble drops zero-weight splits from ws, classifies what remains and
// scores how well it reproduces d. d must cover the taxa of ws.Ordering.
func Assemble(ws *WeightedSplitSystem, d *DistanceMatrix, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if n := len(ws.Ordering); n != d.N() {
		return nil, fmt.Errorf("neighbornet: ordering has %d taxa, distance matrix has %d", n, d.N())
	}
	if len(ws.Weights) != numPairs(len(ws.Ordering)) {
		return nil, fmt.Errorf("neighbornet: %d weights for %d taxa, want %d",
			len(ws.Weights), len(ws.Ordering), numPairs(len(ws.Ordering)))
	}

	var splits []Split
	for _, s := range ws.Splits() {
		if s.Weight > cfg.ZeroTolerance {
			splits = append(splits, s)
		}
	}

	weights := make([]float64, len(splits))
	for i, s := range splits {
		weights[i] = s.Weight
	}

	ssr, ssq := fitStatistics(ws, d, cfg.ZeroTolerance)
	return &Result{
		Ordering:      ws.Ordering,
		Splits:        splits,
		Compatibility: Classify(splits),
		Fit:           fitPercent(ssr, ssq),
		SSR:           ssr,
		SSQ:           ssq,
		TotalWeight:   floats.Sum(weights),
	}, nil
}

// Classify returns CompatibilityCompatible when every pair of splits is
// compatible and CompatibilityCyclic otherwise.
func Classify(splits []Split) Compatibility {
	for i := range splits {
		if splits[i].IsTrivial() {
			continue
		}
		for j := i + 1; j < len(splits); j++ {
			if !splits[i].Compatible(splits[j]) {
				return CompatibilityCyclic
			}
		}
	}
	return CompatibilityCompatible
}

// fitStatistics returns the residual sum of squares of the network
// distances, counting only splits above tol, and the sum of squared input
// distances.
func fitStatistics(ws *WeightedSplitSystem, d *DistanceMatrix, tol float64) (ssr, ssq float64) {
	n := len(ws.Ordering)
	kept := make([]float64, len(ws.Weights))
	for k, w := range ws.Weights {
		if w > tol {
			kept[k] = w
		}
	}
	network := make([]float64, numPairs(n))
	circularOperator{n: n}.ax(kept, network)

	input := orderedDistances(ws.Ordering, d)
	ssq = floats.Dot(input, input)
	floats.Sub(network, input)
	ssr = floats.Dot(network, network)
	return ssr, ssq
}

// fitPercent converts residuals into the percentage of squared distance the
// network explains. An all-zero matrix is explained perfectly.
func fitPercent(ssr, ssq float64) float64 {
	if ssq == 0 {
		return 100
	}
	return min(max(100*(1-ssr/ssq), 0), 100)
}
