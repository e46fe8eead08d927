package network

import (
	"math/bits"

	errs "github.com/matzehuels/ventgraph/pkg/errors"
)

// Mask is a set of activated positive-rate nodes, one bit per node.
type Mask uint64

// MaxIndexed is the largest number of positive-rate nodes a [Mask] can index.
// One bit of headroom keeps Full()+1 from overflowing.
const MaxIndexed = 63

// Has reports whether bit b is set.
func (m Mask) Has(b Mask) bool { return m&b != 0 }

// With returns m with bit b set.
func (m Mask) With(b Mask) Mask { return m | b }

// Count returns the number of set bits.
func (m Mask) Count() int { return bits.OnesCount64(uint64(m)) }

// BitIndex assigns each positive-rate node a bit position. Positions follow
// registry order, so two runs over the same input agree bit for bit.
type BitIndex struct {
	ids  []string    // bit position -> node ID
	bits map[int]int // registry position -> bit position
}

// AssignBits indexes the positive-rate nodes of net.
//
// It fails with CAPACITY_EXCEEDED if net has more than [MaxIndexed]
// positive-rate nodes.
func AssignBits(net *Network) (*BitIndex, error) {
	if k := net.PositiveCount(); k > MaxIndexed {
		return nil, errs.New(errs.ErrCodeCapacityExceeded,
			"%d positive-rate nodes exceed the %d-bit visited mask", k, MaxIndexed)
	}
	idx := &BitIndex{bits: make(map[int]int)}
	for p, nd := range net.nodes {
		if !nd.Positive() {
			continue
		}
		idx.bits[p] = len(idx.ids)
		idx.ids = append(idx.ids, nd.ID)
	}
	return idx, nil
}

// Len returns the number of indexed nodes (K).
func (x *BitIndex) Len() int { return len(x.ids) }

// Full returns the mask with all K bits set.
func (x *BitIndex) Full() Mask { return Mask(1)<<uint(len(x.ids)) - 1 }

// Position returns the bit position of the node at registry position p.
func (x *BitIndex) Position(p int) (int, bool) {
	b, ok := x.bits[p]
	return b, ok
}

// Bit returns the single-bit mask of the node at registry position p.
func (x *BitIndex) Bit(p int) (Mask, bool) {
	b, ok := x.bits[p]
	if !ok {
		return 0, false
	}
	return Mask(1) << uint(b), true
}

// ID returns the node ID assigned to bit position b.
func (x *BitIndex) ID(b int) string { return x.ids[b] }

// IDs returns the node IDs selected by m, in bit order.
func (x *BitIndex) IDs(m Mask) []string {
	var out []string
	for b, id := range x.ids {
		if m.Has(Mask(1) << uint(b)) {
			out = append(out, id)
		}
	}
	return out
}
