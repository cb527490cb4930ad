package neighbornet

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// NoConfidence marks a split whose confidence has not been assigned.
// The core never assigns confidences; bootstrap wrappers may.
const NoConfidence = -1.0

// Split is a weighted bipartition of taxa 1..N. A holds one side (bit t set
// for taxon t); the other side is its complement. Splits produced by this
// package never put the first taxon of the ordering in A.
type Split struct {
	A          *bitset.BitSet
	N          int
	Weight     float64
	Confidence float64
}

// NewSplit returns the split of 1..n with side A = taxa.
func NewSplit(n int, taxa ...int) Split {
	a := bitset.New(uint(n + 1))
	for _, t := range taxa {
		a.Set(uint(t))
	}
	return Split{A: a, N: n, Confidence: NoConfidence}
}

// Contains reports whether taxon t is on side A.
func (s Split) Contains(t int) bool { return s.A.Test(uint(t)) }

// Size returns the number of taxa on side A.
func (s Split) Size() int { return int(s.A.Count()) }

// IsTrivial reports whether s cuts off a single taxon.
func (s Split) IsTrivial() bool {
	k := s.Size()
	return k == 1 || k == s.N-1
}

// Separates reports whether taxa i and j lie on different sides of s.
func (s Split) Separates(i, j int) bool { return s.Contains(i) != s.Contains(j) }

// Compatible reports whether s and o can both be edges of one tree: at least
// one of the four side intersections is empty.
func (s Split) Compatible(o Split) bool {
	switch {
	case s.A.IntersectionCardinality(o.A) == 0:
		return true
	case o.A.IsSuperSet(s.A):
		return true
	case s.A.IsSuperSet(o.A):
		return true
	default:
		return int(s.A.UnionCardinality(o.A)) == s.N
	}
}

// Taxa lists side A in increasing order.
func (s Split) Taxa() []int {
	taxa := make([]int, 0, s.Size())
	for i, ok := s.A.NextSet(0); ok; i, ok = s.A.NextSet(i + 1) {
		taxa = append(taxa, int(i))
	}
	return taxa
}

// String formats side A as "{2 3 5}".
func (s Split) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, t := range s.Taxa() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(t))
	}
	b.WriteByte('}')
	return b.String()
}
