package oracle

import "math/bits"

func sipRound(v0, v1, v2, v3 uint64) (uint64, uint64, uint64, uint64) {
	v0 += v1
	v2 += v3
	v1 = bits.RotateLeft64(v1, 13)
	v3 = bits.RotateLeft64(v3, 16)
	v1 ^= v0
	v3 ^= v2
	v0 = bits.RotateLeft64(v0, 32)
	v2 += v1
	v0 += v3
	v1 = bits.RotateLeft64(v1, 17)
	v3 = bits.RotateLeft64(v3, 21)
	v1 ^= v2
	v3 ^= v0
	v2 = bits.RotateLeft64(v2, 32)

	return v0, v1, v2, v3
}

// SipHash24 is SipHash-2-4 over a single message word, keyed directly by the
// four state words. No length block is absorbed: the state is the key.
func SipHash24(k0, k1, k2, k3, m uint64) uint64 {
	v0, v1, v2, v3 := k0, k1, k2, k3^m

	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)

	v0 ^= m
	v2 ^= 0xff

	for range 4 {
		v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	}

	return v0 ^ v1 ^ v2 ^ v3
}
