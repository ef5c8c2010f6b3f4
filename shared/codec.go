package shared

import (
	"bytes"
	"fmt"

	"github.com/beamminer/beamhash3/bitstream"
)

// IndicesFromMinimal unpacks the 32 leaf indices from the first 100 bytes of b.
// Index 0 occupies the least significant 25 bits.
func IndicesFromMinimal(b []byte) ([]uint32, error) {
	if len(b) < MinimalSize {
		return nil, LengthError{Param: "solution", Expected: MinimalSize, Given: len(b)}
	}

	br := bitstream.NewReader(bytes.NewReader(b[:MinimalSize]))
	indices := make([]uint32, NumIndices)
	for i := range indices {
		v, err := br.ReadUint64(IndexBitSize)
		if err != nil {
			return nil, fmt.Errorf("failed to read index %d: %w", i, err)
		}
		indices[i] = uint32(v)
	}
	return indices, nil
}

// MinimalFromIndices packs 32 leaf indices into exactly 100 bytes.
func MinimalFromIndices(indices []uint32) ([]byte, error) {
	if len(indices) != NumIndices {
		return nil, fmt.Errorf("invalid number of indices; expected: %d, given: %d", NumIndices, len(indices))
	}

	var buf bytes.Buffer
	buf.Grow(MinimalSize)
	bw := bitstream.NewWriter(&buf)
	for i, idx := range indices {
		if idx >= NumLeaves {
			return nil, fmt.Errorf("index %d out of range: %d", i, idx)
		}
		if err := bw.WriteUint64(uint64(idx), IndexBitSize); err != nil {
			return nil, err
		}
	}
	if err := bw.Flush(bitstream.Zero); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
