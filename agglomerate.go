package neighbornet

import "context"

// joinNodes runs the agglomeration phase. Clusters are one node (open) or
// two mutually-neighbored nodes (closed). Each pass picks the pair of
// clusters minimizing the Q-criterion on averaged cluster distances, then
// either links two open nodes, or collapses three nodes into two with a
// three-way merge. The merges are returned in creation order; the active
// list is left holding exactly three nodes.
func (a *nodeArena) joinNodes(ctx context.Context, progress ProgressFunc) ([]int, error) {
	return a.join(ctx, a.n, a.n, progress)
}

// join continues the agglomeration from a state with numActive nodes in
// numClusters clusters.
func (a *nodeArena) join(ctx context.Context, numActive, numClusters int, progress ProgressFunc) ([]int, error) {
	var amalgs []int

	for numActive > 3 {
		if err := checkCanceled(ctx, PhaseAgglomeration); err != nil {
			return nil, err
		}
		progress.report(PhaseAgglomeration, a.n-numClusters, a.n-2)

		// Two cherries left: the Q-criterion divides by zero here, so join
		// them along the pairing with the smaller sum of cross distances.
		if numActive == 4 && numClusters == 2 {
			p := a.head
			q := a.next(p)
			if q == a.nbr(p) {
				q = a.next(q)
			}
			pn, qn := a.nbr(p), a.nbr(q)
			if a.d(p, q)+a.d(pn, qn) < a.d(p, qn)+a.d(pn, q) {
				amalgs = append(amalgs, a.agg3way(p, q, qn))
			} else {
				amalgs = append(amalgs, a.agg3way(p, qn, q))
			}
			break
		}

		a.computeSx()
		cx, cy := a.selectClusters(numClusters)
		x, y := a.selectNodes(cx, cy, numClusters)

		switch {
		case a.nbr(x) == none && a.nbr(y) == none:
			a.agg2way(x, y)
			numClusters--
		case a.nbr(x) == none:
			amalgs = append(amalgs, a.agg3way(x, y, a.nbr(y)))
			numActive--
			numClusters--
		case a.nbr(y) == none || numActive == 4:
			amalgs = append(amalgs, a.agg3way(y, x, a.nbr(x)))
			numActive--
			numClusters--
		default:
			amalgs = a.agg4way(a.nbr(x), x, y, a.nbr(y), amalgs)
			numActive -= 2
			numClusters--
		}
	}
	return amalgs, nil
}

// isRepresentative reports whether p speaks for its cluster: open nodes
// always do, closed clusters are represented by their lower-indexed node.
func (a *nodeArena) isRepresentative(p int) bool {
	pn := a.nbr(p)
	return pn == none || pn > p
}

// clusterDist averages the distances between the clusters of p and q.
func (a *nodeArena) clusterDist(p, q int) float64 {
	pn, qn := a.nbr(p), a.nbr(q)
	switch {
	case pn == none && qn == none:
		return a.d(p, q)
	case qn == none:
		return (a.d(p, q) + a.d(pn, q)) / 2
	case pn == none:
		return (a.d(p, q) + a.d(p, qn)) / 2
	default:
		return (a.d(p, q) + a.d(p, qn) + a.d(pn, q) + a.d(pn, qn)) / 4
	}
}

// computeSx sets each active node's Sx to the sum of averaged distances from
// its cluster to every other cluster. Both nodes of a closed cluster get the
// same sum.
func (a *nodeArena) computeSx() {
	for p := a.head; p != none; p = a.next(p) {
		a.nodes[p].sx = 0
	}
	for p := a.head; p != none; p = a.next(p) {
		if !a.isRepresentative(p) {
			continue
		}
		pn := a.nbr(p)
		for q := a.next(p); q != none; q = a.next(q) {
			if !a.isRepresentative(q) || a.nbr(q) == p {
				continue
			}
			dpq := a.clusterDist(p, q)
			a.nodes[p].sx += dpq
			if pn != none {
				a.nodes[pn].sx += dpq
			}
			a.nodes[q].sx += dpq
			if qn := a.nbr(q); qn != none {
				a.nodes[qn].sx += dpq
			}
		}
	}
}

// selectClusters returns representatives of the cluster pair minimizing
// (m-2)·D(p,q) − Sx(p) − Sx(q). Ties keep the first pair met in list order.
func (a *nodeArena) selectClusters(numClusters int) (int, int) {
	cx, cy := none, none
	best := 0.0
	for p := a.head; p != none; p = a.next(p) {
		if !a.isRepresentative(p) {
			continue
		}
		for q := a.head; q != p; q = a.next(q) {
			if !a.isRepresentative(q) || a.nbr(q) == p {
				continue
			}
			qpq := float64(numClusters-2)*a.clusterDist(p, q) - a.nodes[p].sx - a.nodes[q].sx
			if cx == none || qpq < best {
				cx, cy, best = p, q, qpq
			}
		}
	}
	return cx, cy
}

// selectNodes picks which node of each chosen cluster takes part in the
// merge, comparing the Q-criterion on refined sums Rx over the up to four
// node combinations.
func (a *nodeArena) selectNodes(cx, cy, numClusters int) (int, int) {
	cxn, cyn := a.nbr(cx), a.nbr(cy)
	if cxn == none && cyn == none {
		return cx, cy
	}

	a.nodes[cx].rx = a.computeRx(cx, cx, cy)
	if cxn != none {
		a.nodes[cxn].rx = a.computeRx(cxn, cx, cy)
	}
	a.nodes[cy].rx = a.computeRx(cy, cx, cy)
	if cyn != none {
		a.nodes[cyn].rx = a.computeRx(cyn, cx, cy)
	}

	m := numClusters
	if cxn != none {
		m++
	}
	if cyn != none {
		m++
	}
	q := func(p, r int) float64 {
		return float64(m-2)*a.d(p, r) - a.nodes[p].rx - a.nodes[r].rx
	}

	x, y := cx, cy
	best := q(cx, cy)
	if cxn != none {
		if v := q(cxn, cy); v < best {
			x, y, best = cxn, cy, v
		}
	}
	if cyn != none {
		if v := q(cx, cyn); v < best {
			x, y, best = cx, cyn, v
		}
	}
	if cxn != none && cyn != none {
		if v := q(cxn, cyn); v < best {
			x, y = cxn, cyn
		}
	}
	return x, y
}

// computeRx sums the distances from z to every active node. Nodes of the two
// chosen clusters and open nodes count fully; nodes of other closed clusters
// count half, so each such cluster contributes its average.
func (a *nodeArena) computeRx(z, cx, cy int) float64 {
	cxn, cyn := a.nbr(cx), a.nbr(cy)
	rx := 0.0
	for p := a.head; p != none; p = a.next(p) {
		if p == cx || p == cxn || p == cy || p == cyn || a.nbr(p) == none {
			rx += a.d(z, p)
		} else {
			rx += a.d(z, p) / 2
		}
	}
	return rx
}

// agg2way links two open nodes into a closed cluster.
func (a *nodeArena) agg2way(x, y int) {
	a.nodes[x].nbr = y
	a.nodes[y].nbr = x
}

// agg3way replaces x, y, z (y and z neighbors) by the neighbor pair u, v with
// u = (x, y) in x's slot and v = (y, z) in z's slot. Distances to u and v are
// the 2:1 blends of x:y and z:y. Returns u.
func (a *nodeArena) agg3way(x, y, z int) int {
	u := a.newNode(x, y)
	v := a.newNode(y, z)

	a.replace(x, u)
	a.replace(z, v)
	a.unlink(y)

	a.nodes[u].nbr = v
	a.nodes[v].nbr = u

	for p := a.head; p != none; p = a.next(p) {
		if p == u || p == v {
			continue
		}
		a.setD(u, p, (2.0/3.0)*a.d(x, p)+a.d(y, p)/3.0)
		a.setD(v, p, (2.0/3.0)*a.d(z, p)+a.d(y, p)/3.0)
	}
	a.setD(u, u, 0)
	a.setD(v, v, 0)
	a.setD(u, v, 0)
	return u
}

// agg4way merges two closed clusters (x2, x) and (y, y2) joined across x–y
// as two consecutive three-way merges, leaving one closed cluster.
func (a *nodeArena) agg4way(x2, x, y, y2 int, amalgs []int) []int {
	u := a.agg3way(x2, x, y)
	amalgs = append(amalgs, u)
	return append(amalgs, a.agg3way(u, a.nbr(u), y2))
}
