// Package neighbornet implements the Neighbor-Net method: it turns a
// pairwise distance matrix over n taxa into a weighted circular split
// system, the input to a splits-graph (phylogenetic network) drawing.
//
// The pipeline has three stages. An agglomeration, similar in spirit to
// neighbor joining, merges clusters of at most two nodes and records
// three-way merges that are later unrolled into a circular ordering of the
// taxa. A non-negative least-squares solve then weights every split whose
// side is a contiguous arc of that ordering. Finally near-zero splits are
// dropped, the system is classified as a tree or not, and its fit is scored.
//
// Basic usage:
//
//	in := neighbornet.Input{Distances: dist} // dist[i][j], taxon i+1 vs j+1
//	result, err := neighbornet.Run(ctx, in, neighbornet.DefaultConfig())
//	// result.Ordering is the circular ordering of taxa 1..n
//	// result.Splits are the splits with positive weight
//	// result.Fit is the percentage of squared distance explained
//
// With per-pair variances:
//
//	in.Variances = variances // weights each pair by 1/variance
//
// The stages are also exported on their own: [Order] runs the agglomeration,
// [SolveWeights] fits weights for any ordering, [Assemble] filters and
// scores. [RunBatch] runs many independent inputs concurrently.
//
// # Cancellation
//
// Every stage checks its context once per outer iteration and returns a
// [*CanceledError] (wrapping ctx.Err()) instead of a partial result.
package neighbornet
