package proving

import (
	"github.com/beamminer/beamhash3/tree"
)

// arena holds every element of one round: their work values and, flattened,
// their leaf indices, width per element.
type arena struct {
	width   int
	works   []tree.Work
	indices []uint32
}

func newArena(n, width int) *arena {
	return &arena{
		width:   width,
		works:   make([]tree.Work, n),
		indices: make([]uint32, n*width),
	}
}

func (a *arena) len() int {
	return len(a.works)
}

func (a *arena) indicesAt(p uint32) []uint32 {
	lo := int(p) * a.width
	return a.indices[lo : lo+a.width : lo+a.width]
}

// elementSize is the number of bytes an element of the given width takes in an arena.
func elementSize(width int) uint64 {
	return uint64(tree.WorkWords*8 + width*4)
}

// memoryEstimate returns the peak arena memory of a search over 1<<leafBits leaves.
// The expected number of elements stays at the number of leaves in every round.
func memoryEstimate(leafBits uint) uint64 {
	n := uint64(1) << leafBits
	var peak uint64
	for width := 1; width < 16; width *= 2 {
		// input arena + sort keys + output arena
		round := n*elementSize(width) + n*8 + n*elementSize(2*width)
		peak = max(peak, round)
	}
	return peak
}
