package neighbornet

// none marks an absent node reference.
const none = -1

// workingNode is one entry of the agglomeration arena. Indices 0..n-1 are
// the leaves (taxon i+1); larger indices are synthesized by three-way merges.
// All references are arena indices.
type workingNode struct {
	// nbr is set at most once and never cleared.
	nbr int
	// ch1, ch2 are set at creation for synthesized nodes only.
	ch1, ch2 int
	// prev, next link the active list during agglomeration and the
	// circular order during expansion.
	prev, next int
	rx, sx     float64
}

// nodeArena owns the working nodes and the working distance matrix of one
// ordering computation.
type nodeArena struct {
	n     int
	nodes []workingNode
	// head is the first node of the active list.
	head int
	// dist is a stride×stride scratch copy of the distances, grown with
	// rows for synthesized nodes.
	dist   []float64
	stride int
}

// newNodeArena links the n leaves into the active list and copies d into
// a working matrix with room for every node the agglomeration can create.
func newNodeArena(d *DistanceMatrix) *nodeArena {
	n := d.N()
	// n leaves plus two nodes for each of the n-3 three-way merges.
	stride := max(3*n-5, n)
	a := &nodeArena{
		n:      n,
		nodes:  make([]workingNode, n, stride),
		head:   none,
		dist:   make([]float64, stride*stride),
		stride: stride,
	}
	for i := 0; i < n; i++ {
		a.nodes[i] = workingNode{nbr: none, ch1: none, ch2: none, prev: i - 1, next: i + 1}
		copy(a.dist[i*stride:i*stride+n], d.data[i*n:(i+1)*n])
	}
	if n > 0 {
		a.head = 0
		a.nodes[n-1].next = none
	}
	return a
}

func (a *nodeArena) d(i, j int) float64 { return a.dist[i*a.stride+j] }

func (a *nodeArena) setD(i, j int, v float64) {
	a.dist[i*a.stride+j] = v
	a.dist[j*a.stride+i] = v
}

func (a *nodeArena) nbr(i int) int  { return a.nodes[i].nbr }
func (a *nodeArena) next(i int) int { return a.nodes[i].next }

// newNode appends a synthesized node with the given children.
func (a *nodeArena) newNode(ch1, ch2 int) int {
	a.nodes = append(a.nodes, workingNode{nbr: none, ch1: ch1, ch2: ch2, prev: none, next: none})
	return len(a.nodes) - 1
}

// replace puts node in old's slot of the active list.
func (a *nodeArena) replace(old, node int) {
	prev, next := a.nodes[old].prev, a.nodes[old].next
	a.nodes[node].prev = prev
	a.nodes[node].next = next
	if next != none {
		a.nodes[next].prev = node
	}
	if prev != none {
		a.nodes[prev].next = node
	} else {
		a.head = node
	}
}

// unlink removes node from the active list. Its own links are left as they
// were.
func (a *nodeArena) unlink(node int) {
	prev, next := a.nodes[node].prev, a.nodes[node].next
	if next != none {
		a.nodes[next].prev = prev
	}
	if prev != none {
		a.nodes[prev].next = next
	} else {
		a.head = next
	}
}
