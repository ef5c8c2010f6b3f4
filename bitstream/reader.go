package bitstream

import (
	"io"
)

// BitReader reads bits from an io.Reader.
type BitReader struct {
	stream    io.Reader
	pending   [1]byte
	alignment uint8
}

// NewReader returns a new instance of BitReader.
func NewReader(r io.Reader) *BitReader {
	b := new(BitReader)
	b.stream = r
	b.alignment = 8
	return b
}

// ReadUint64 reads the next numBits from the stream as an uint64 whose
// least-significant bit comes first, regardless of the alignment.
func (br *BitReader) ReadUint64(numBits int) (uint64, error) {
	var val uint64
	var shift uint

	for numBits >= 8 {
		byt, err := br.ReadByte()
		if err != nil {
			return 0, err
		}

		val |= uint64(byt) << shift
		shift += 8
		numBits -= 8
	}

	for numBits > 0 {
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}

		if bit {
			val |= 1 << shift
		}
		shift++
		numBits--
	}

	return val, nil
}

// ReadByte reads the next single byte from the stream, regardless of the alignment.
// If the byte is split, the LSB pattern is followed in bit-groups.
func (br *BitReader) ReadByte() (byte, error) {
	if br.alignment == 8 {
		n, err := br.stream.Read(br.pending[:])
		if n != 1 {
			br.pending[0] = 0
			if err == nil {
				err = io.ErrNoProgress
			}
			return 0, err
		}
		// Mask io.EOF for the last byte.
		return br.pending[0], nil
	}

	// The byte stream is not aligned.
	// Use the current byte LS bits, combined with the next byte LS bits as MS bits.

	current := br.pending[0]
	n, err := br.stream.Read(br.pending[:])
	if n != 1 {
		if err == nil {
			err = io.ErrNoProgress
		}
		return 0, err
	}

	// Use the next pending byte LS bits to fill MS bits.
	current |= br.pending[0] << (8 - br.alignment)

	// Remove the used LS bits from the next pending byte.
	br.pending[0] >>= br.alignment

	return current, nil
}

// ReadBit reads the next single bit from the stream, LSB first.
func (br *BitReader) ReadBit() (Bit, error) {
	if br.alignment == 8 {
		n, err := br.stream.Read(br.pending[:])
		if n != 1 {
			if err == nil {
				err = io.ErrNoProgress
			}
			return Zero, err
		}
		br.alignment = 0
	}
	br.alignment++

	// Read LS bit.
	lsb := Bit(br.pending[0]&1 == 1)

	// Remove LS bit.
	br.pending[0] >>= 1

	return lsb, nil
}
