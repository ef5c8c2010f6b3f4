package shared

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/holiman/uint256"
	"github.com/spacemeshos/sha256-simd"
)

const (
	// MantissaBits is the width of the packed mantissa, without its implicit leading bit.
	MantissaBits = 24
	// MaxOrder is the largest shift applied to the mantissa.
	MaxOrder = 32*8 - MantissaBits - 1
	// DifficultyInf is the packed difficulty with an all-ones target: only
	// hashes up to 2^MantissaBits reach it. Larger packed values are invalid.
	DifficultyInf Difficulty = (MaxOrder + 1) << MantissaBits
)

// Difficulty is a packed floating point target multiplier: the high 8 bits are
// the order and the low 24 bits the mantissa.
type Difficulty uint32

// Unpack returns the order and the mantissa, including its leading bit.
func (d Difficulty) Unpack() (order uint, mantissa uint32) {
	const leadingBit = 1 << MantissaBits
	return uint(d >> MantissaBits), leadingBit | uint32(d)&(leadingBit-1)
}

// IsValid reports whether d is at most DifficultyInf.
func (d Difficulty) IsValid() bool {
	return d <= DifficultyInf
}

// Target returns the 256 bit multiplier of d: mantissa << order, or all ones for DifficultyInf.
func (d Difficulty) Target() *uint256.Int {
	if d >= DifficultyInf {
		return new(uint256.Int).SetAllOne()
	}

	order, mantissa := d.Unpack()
	return new(uint256.Int).Lsh(uint256.NewInt(uint64(mantissa)), order)
}

// IsTargetReached reports whether the big-endian hash times the target fits
// below 2^(256+MantissaBits), i.e. the top 29 bytes of the 512 bit product are zero.
func (d Difficulty) IsTargetReached(hash [32]byte) bool {
	if !d.IsValid() {
		return false
	}

	h := new(uint256.Int).SetBytes32(hash[:])
	p := mul512(h, d.Target())

	return p[7] == 0 && p[6] == 0 && p[5] == 0 && p[4]>>MantissaBits == 0
}

// Reached reports whether the SHA-256 of the solution reaches the target.
func (d Difficulty) Reached(s Solution) bool {
	return d.IsTargetReached(sha256.Sum256(s[:]))
}

// ToFloat returns the multiplier as a float, +Inf for DifficultyInf.
func (d Difficulty) ToFloat() float64 {
	if d >= DifficultyInf {
		return math.Inf(1)
	}
	order, mantissa := d.Unpack()
	return math.Ldexp(float64(mantissa), int(order)-MantissaBits)
}

func (d Difficulty) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("invalid(%d)", uint32(d))
	}
	return fmt.Sprintf("%d(%.3f)", uint32(d), d.ToFloat())
}

// mul512 returns the full product of x and y as eight little-endian words.
func mul512(x, y *uint256.Int) [8]uint64 {
	var p [8]uint64
	for i := 0; i < 4; i++ {
		var carry uint64
		for j := 0; j < 4; j++ {
			hi, lo := bits.Mul64(x[i], y[j])
			var c uint64
			lo, c = bits.Add64(lo, p[i+j], 0)
			hi += c
			lo, c = bits.Add64(lo, carry, 0)
			hi += c
			p[i+j] = lo
			carry = hi
		}
		p[i+4] = carry
	}
	return p
}
