package shared

import (
	"encoding/hex"
	"encoding/json"
)

// Solution is the 104 byte proof of work: 100 bytes of packed leaf indices
// followed by the 4 byte extra nonce.
type Solution [SolutionSize]byte

// NewSolution packs indices and appends the extra nonce.
func NewSolution(indices []uint32, extraNonce [ExtraNonceSize]byte) (Solution, error) {
	var s Solution
	minimal, err := MinimalFromIndices(indices)
	if err != nil {
		return s, err
	}
	copy(s[:MinimalSize], minimal)
	copy(s[MinimalSize:], extraNonce[:])
	return s, nil
}

// SolutionFromBytes copies b into a Solution.
func SolutionFromBytes(b []byte) (Solution, error) {
	var s Solution
	if err := CheckLength("solution", b, SolutionSize); err != nil {
		return s, err
	}
	copy(s[:], b)
	return s, nil
}

// ParseSolution decodes a hex encoded solution.
func ParseSolution(s string) (Solution, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Solution{}, err
	}
	return SolutionFromBytes(b)
}

// Indices decodes the packed leaf indices.
func (s *Solution) Indices() []uint32 {
	indices, err := IndicesFromMinimal(s[:MinimalSize])
	if err != nil {
		// a Solution always holds MinimalSize bytes of indices.
		panic(err)
	}
	return indices
}

// ExtraNonce returns the trailing 4 bytes.
func (s *Solution) ExtraNonce() [ExtraNonceSize]byte {
	var n [ExtraNonceSize]byte
	copy(n[:], s[MinimalSize:])
	return n
}

func (s Solution) String() string {
	return hex.EncodeToString(s[:])
}

func (s Solution) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(s[:]))
}

func (s *Solution) UnmarshalJSON(data []byte) (err error) {
	var hexString string
	if err = json.Unmarshal(data, &hexString); err != nil {
		return
	}
	*s, err = ParseSolution(hexString)
	return
}

// HexBytes is a byte slice that marshals to JSON as a hex string.
type HexBytes []byte

func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(h))
}

func (h *HexBytes) UnmarshalJSON(data []byte) (err error) {
	var hexString string
	if err = json.Unmarshal(data, &hexString); err != nil {
		return
	}
	*h, err = hex.DecodeString(hexString)
	return
}

// Share is a found solution together with the job it solves, as written by
// the solver command line.
type Share struct {
	Input      HexBytes
	Nonce      HexBytes
	Difficulty Difficulty `json:",omitempty"`
	Solution   Solution
}
