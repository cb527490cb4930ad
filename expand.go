package neighbornet

import "context"

// expandNodes unrolls the merges recorded by joinNodes into a circular
// ordering. The three nodes left active seed a cycle; each popped merge u
// (with neighbor v) is replaced by its three children, oriented so that the
// child order follows the direction u→v already present in the cycle.
func (a *nodeArena) expandNodes(ctx context.Context, amalgs []int, progress ProgressFunc) (CircularOrdering, error) {
	x := a.head
	y := a.next(x)
	z := a.next(y)
	a.nodes[z].next = x
	a.nodes[x].prev = z

	total := len(amalgs)
	for len(amalgs) > 0 {
		if err := checkCanceled(ctx, PhaseExpansion); err != nil {
			return nil, err
		}
		progress.report(PhaseExpansion, total-len(amalgs), total)

		u := amalgs[len(amalgs)-1]
		amalgs = amalgs[:len(amalgs)-1]
		v := a.nbr(u)
		x, y, z = a.nodes[u].ch1, a.nodes[u].ch2, a.nodes[v].ch2
		if v != a.next(u) {
			u, v = v, u
			x, z = z, x
		}

		a.nodes[x].prev = a.nodes[u].prev
		a.nodes[a.nodes[x].prev].next = x
		a.nodes[x].next = y
		a.nodes[y].prev = x
		a.nodes[y].next = z
		a.nodes[z].prev = y
		a.nodes[z].next = a.nodes[v].next
		a.nodes[a.nodes[z].next].prev = z
	}

	// Read the cycle starting from taxon 1 (node 0).
	for x != 0 {
		x = a.next(x)
	}
	ordering := make(CircularOrdering, 0, a.n)
	p := x
	for {
		ordering = append(ordering, p+1)
		p = a.next(p)
		if p == x {
			break
		}
	}
	return ordering, nil
}
