package tree

import "github.com/beamminer/beamhash3/shared"

// MixLength returns the width of the work value that is mixed in the given round (1..5).
func MixLength(round int) int {
	n := shared.WorkBitSize - (round-1)*shared.CollisionBitSize
	if round == shared.NumRounds {
		n -= 64
	}
	return n
}

// MergeLength returns the width of the work value produced by merging in the given round (1..5).
func MergeLength(round int) int {
	switch round {
	case shared.NumRounds:
		return shared.CollisionBitSize
	case shared.NumRounds - 1:
		return shared.WorkBitSize - round*shared.CollisionBitSize - 64
	default:
		return shared.WorkBitSize - round*shared.CollisionBitSize
	}
}
