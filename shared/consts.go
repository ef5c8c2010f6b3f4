package shared

const (
	// WorkBitSize is the width of a leaf work value, in bits (56 bytes).
	WorkBitSize = 448

	// CollisionBitSize is the number of bits that must collide in every round (3 bytes).
	CollisionBitSize = 24

	// NumRounds is the depth of the reduction tree.
	NumRounds = 5

	// IndexBitSize is the width of a single packed leaf index.
	IndexBitSize = CollisionBitSize + 1

	// NumLeaves is the size of the leaf index space (2^25).
	NumLeaves = 1 << IndexBitSize

	// NumIndices is the number of leaf indices in a solution (2^NumRounds).
	NumIndices = 1 << NumRounds
)

const (
	// InputSize is the size of the block input being solved.
	InputSize = 32
	// NonceSize is the size of the miner nonce.
	NonceSize = 8
	// ExtraNonceSize is the size of the extra nonce appended to a solution.
	ExtraNonceSize = 4
	// PreWorkSize is the size of the preliminary hash keying the leaves.
	PreWorkSize = 32

	// MinimalSize is the size of the packed indices (32 * 25 bits).
	MinimalSize = NumIndices * IndexBitSize / 8
	// SolutionSize is the size of an encoded solution, indices then extra nonce.
	SolutionSize = MinimalSize + ExtraNonceSize
)

// Personalization is the BLAKE2b personalization prefix of the preliminary hash.
const Personalization = "Beam-PoW"
