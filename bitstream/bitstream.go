// Package bitstream provides wrappers for io.Writer and io.Reader to allow
// bit-granularity access to the stream, following the LSB pattern, where
// least-significant bits are written/read first.
//
// Integers are packed least-significant bit first, so a sequence of values
// written back to back forms one little-endian bit string. This is the layout
// of the minimal solution encoding.
package bitstream

type Bit bool

const (
	Zero Bit = false
	One  Bit = true
)
