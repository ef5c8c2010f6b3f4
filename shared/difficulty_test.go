package shared

import (
	"math"
	"math/big"
	"math/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestDifficulty_Constants(t *testing.T) {
	require.Equal(t, 231, MaxOrder)
	require.Equal(t, Difficulty(232<<24), DifficultyInf)
}

func TestDifficulty_Unpack(t *testing.T) {
	order, mantissa := Difficulty(138455134).Unpack()
	require.Equal(t, uint(8), order)
	require.Equal(t, uint32(0x1000000|0x40a85e), mantissa)

	order, mantissa = Difficulty(0).Unpack()
	require.Zero(t, order)
	require.Equal(t, uint32(1<<24), mantissa)
}

func TestDifficulty_Target(t *testing.T) {
	r := require.New(t)

	r.Equal(uint256.NewInt(1<<24), Difficulty(0).Target())
	r.Equal(new(uint256.Int).Lsh(uint256.NewInt(0x140a85e), 8), Difficulty(138455134).Target())

	allOnes := new(uint256.Int).Not(new(uint256.Int))
	r.Equal(allOnes, DifficultyInf.Target())

	top := Difficulty(MaxOrder<<MantissaBits | (1<<MantissaBits - 1)).Target()
	r.Equal(uint64(1)<<63|(1<<24-1)<<39, top[3])
}

func TestDifficulty_Fixture(t *testing.T) {
	s, err := ParseSolution(fixtureSolution)
	require.NoError(t, err)
	require.True(t, Difficulty(138455134).Reached(s))
	require.True(t, Difficulty(0).Reached(s))
	require.False(t, DifficultyInf.Reached(s))
}

func TestDifficulty_Bounds(t *testing.T) {
	r := require.New(t)

	var zero, ones [32]byte
	for i := range ones {
		ones[i] = 0xff
	}

	// Any hash times 2^24 fits below 2^280.
	r.True(Difficulty(0).IsTargetReached(ones))

	r.True(DifficultyInf.IsTargetReached(zero))
	r.False(DifficultyInf.IsTargetReached(ones))

	// (2^256 - 1) * h < 2^280 holds up to h = 2^24.
	var edge [32]byte
	edge[28] = 1
	r.True(DifficultyInf.IsTargetReached(edge))
	edge[31] = 1
	r.False(DifficultyInf.IsTargetReached(edge))
	small := [32]byte{29: 0xff, 30: 0xff, 31: 0xff}
	r.True(DifficultyInf.IsTargetReached(small))

	r.False((DifficultyInf + 1).IsTargetReached(zero), "invalid difficulty never passes")
	r.False((DifficultyInf + 1).IsValid())
	r.True(DifficultyInf.IsValid())
}

func TestDifficulty_Monotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for n := 0; n < 2000; n++ {
		var hash [32]byte
		rng.Read(hash[:])
		// Keep a few leading zero bytes so that high difficulties get exercised.
		for i := 0; i < rng.Intn(8); i++ {
			hash[i] = 0
		}

		a := Difficulty(rng.Uint32() % uint32(DifficultyInf))
		b := Difficulty(rng.Uint32() % uint32(DifficultyInf))
		if a > b {
			a, b = b, a
		}
		if b.IsTargetReached(hash) {
			require.True(t, a.IsTargetReached(hash), "hash %x reaches %d but not %d", hash, b, a)
		}
	}
}

func TestDifficulty_IsTargetReachedMatchesBigInt(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	limit := new(big.Int).Lsh(big.NewInt(1), 256+MantissaBits)

	for n := 0; n < 2000; n++ {
		var hash [32]byte
		rng.Read(hash[:])
		for i := 0; i < rng.Intn(12); i++ {
			hash[i] = 0
		}
		d := Difficulty(rng.Uint32() % uint32(DifficultyInf))

		p := new(big.Int).Mul(new(big.Int).SetBytes(hash[:]), d.Target().ToBig())
		require.Equal(t, p.Cmp(limit) < 0, d.IsTargetReached(hash))
	}
}

func TestMul512(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 500; n++ {
		var x, y uint256.Int
		for i := 0; i < 4; i++ {
			x[i] = rng.Uint64()
			y[i] = rng.Uint64()
		}

		p := mul512(&x, &y)
		got := new(big.Int)
		for i := 7; i >= 0; i-- {
			got.Lsh(got, 64)
			got.Or(got, new(big.Int).SetUint64(p[i]))
		}
		require.Zero(t, got.Cmp(new(big.Int).Mul(x.ToBig(), y.ToBig())))
	}
}

func TestDifficulty_ToFloat(t *testing.T) {
	require.Equal(t, 1.0, Difficulty(0).ToFloat())
	require.Equal(t, 256.0*float64(0x140a85e)/float64(1<<24), Difficulty(138455134).ToFloat())
	require.True(t, math.IsInf(DifficultyInf.ToFloat(), 1))
	require.Equal(t, "0(1.000)", Difficulty(0).String())
	require.Equal(t, "invalid(3892314113)", (DifficultyInf + 1).String())
}
