// Package tree implements the elements of the BeamHash III reduction tree: leaf
// generation, the per-round mix, and the pairwise merge.
package tree

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/beamminer/beamhash3/shared"
)

// WorkWords is the number of 64 bit words in a work value.
const WorkWords = shared.WorkBitSize / 64

// Work is a 448 bit unsigned integer, least significant word first.
type Work [WorkWords]uint64

// IsZero reports whether all bits of w are zero.
func (w *Work) IsZero() bool {
	var acc uint64
	for _, v := range w {
		acc |= v
	}
	return acc == 0
}

// CollisionBits returns the low 24 bits of w.
func (w *Work) CollisionBits() uint32 {
	return uint32(w[0] & (1<<shared.CollisionBitSize - 1))
}

// xorShift sets w to (a ^ b) >> shared.CollisionBitSize.
func (w *Work) xorShift(a, b *Work) {
	const s = shared.CollisionBitSize
	for i := 0; i < WorkWords-1; i++ {
		w[i] = (a[i]^b[i])>>s | (a[i+1]^b[i+1])<<(64-s)
	}
	w[WorkWords-1] = (a[WorkWords-1] ^ b[WorkWords-1]) >> s
}

// truncate clears every bit at position numBits and above.
func (w *Work) truncate(numBits int) {
	for i := range w {
		lo := i * 64
		switch {
		case numBits >= lo+64:
		case numBits <= lo:
			w[i] = 0
		default:
			w[i] &= 1<<uint(numBits-lo) - 1
		}
	}
}

// Bytes returns w as 56 little-endian bytes.
func (w *Work) Bytes() []byte {
	b := make([]byte, WorkWords*8)
	for i, v := range w {
		binary.LittleEndian.PutUint64(b[i*8:], v)
	}
	return b
}

// String returns w as big-endian hex, most significant word first.
func (w Work) String() string {
	b := make([]byte, WorkWords*8)
	for i, v := range w {
		binary.BigEndian.PutUint64(b[(WorkWords-1-i)*8:], v)
	}
	return hex.EncodeToString(b)
}
