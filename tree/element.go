package tree

import (
	"math/bits"

	"github.com/beamminer/beamhash3/oracle"
	"github.com/beamminer/beamhash3/shared"
)

const mixBits = 512

// Element is a node of the reduction tree: its remaining work bits and the
// leaf indices of its subtree in canonical order.
type Element struct {
	Work    Work
	Indices []uint32
}

// GenerateWork returns the work value of the leaf at index idx.
// Word i is the i-th pseudorandom word of the leaf; word 6 is the most significant.
func GenerateWork(wo *oracle.WorkOracle, idx uint32) Work {
	var w Work
	for i := range w {
		w[i] = wo.Position(idx, uint(i))
	}
	return w
}

// NewLeaf returns the leaf element at index idx.
func NewLeaf(wo *oracle.WorkOracle, idx uint32) Element {
	return Element{
		Work:    GenerateWork(wo, idx),
		Indices: []uint32{idx},
	}
}

// MixWork replaces the low 64 bits of w with a digest of w and the first
// indices of the subtree, lined up right above the remLen live bits of w.
func MixWork(w *Work, indices []uint32, remLen int) {
	var temp [mixBits / 64]uint64
	copy(temp[:], w[:])

	padNum := (mixBits - remLen + shared.CollisionBitSize) / shared.IndexBitSize
	padNum = min(padNum, len(indices))

	for i := 0; i < padNum; i++ {
		offset := remLen + i*shared.IndexBitSize
		word, shift := offset/64, uint(offset%64)
		if word >= len(temp) {
			break
		}
		v := uint64(indices[i])
		temp[word] |= v << shift
		if shift+shared.IndexBitSize > 64 && word+1 < len(temp) {
			temp[word+1] |= v >> (64 - shift)
		}
	}

	var result uint64
	for i, v := range temp {
		result += bits.RotateLeft64(v, (29*(i+1))&63)
	}
	w[0] = bits.RotateLeft64(result, 24)
}

// Mix applies MixWork to the element.
func (e *Element) Mix(remLen int) {
	MixWork(&e.Work, e.Indices, remLen)
}

// CollisionBits returns the low 24 bits of the element's work.
func (e *Element) CollisionBits() uint32 {
	return e.Work.CollisionBits()
}

// MergeWork returns ((a ^ b) >> 24) truncated to remLen bits.
func MergeWork(a, b *Work, remLen int) Work {
	var w Work
	w.xorShift(a, b)
	w.truncate(remLen)
	return w
}

// MergeIndices concatenates the two index lists, the one with the smaller
// first index first.
func MergeIndices(a, b []uint32) []uint32 {
	out := make([]uint32, 0, len(a)+len(b))
	if b[0] < a[0] {
		a, b = b, a
	}
	out = append(out, a...)
	return append(out, b...)
}

// Merge returns the parent of a and b.
func Merge(a, b *Element, remLen int) Element {
	return Element{
		Work:    MergeWork(&a.Work, &b.Work, remLen),
		Indices: MergeIndices(a.Indices, b.Indices),
	}
}

// HasCollision reports whether a and b agree on their collision bits.
func HasCollision(a, b *Element) bool {
	return a.CollisionBits() == b.CollisionBits()
}

// DistinctIndices reports whether the two index lists share no index.
func DistinctIndices(a, b []uint32) bool {
	if len(a)*len(b) <= 64 {
		for _, x := range a {
			for _, y := range b {
				if x == y {
					return false
				}
			}
		}
		return true
	}

	seen := make(map[uint32]struct{}, len(a))
	for _, x := range a {
		seen[x] = struct{}{}
	}
	for _, y := range b {
		if _, ok := seen[y]; ok {
			return false
		}
	}
	return true
}

// IndexAfter reports whether a's first index is smaller than b's.
func IndexAfter(a, b *Element) bool {
	return a.Indices[0] < b.Indices[0]
}
