package verifying

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/beamminer/beamhash3/shared"
)

const difficulty = shared.Difficulty(138455134)

var (
	input, _    = hex.DecodeString("fb1b64ed2a170ee919171aaa10e4f04d91f8bce204d52c0ee0405b1332e1b9d9")
	nonce, _    = hex.DecodeString("471051c32c32cafc")
	solution, _ = hex.DecodeString("57050dd8ba98ac5d6d52d9ebde1bcf0c1a741abcd4c50accd2e1b6bd0030a16e81d51b476dde623b8f611b38d992c7f332b258d76c4cd402d9bd1d1ab6f6b92685a8d791d38a3e2cd08baab2a27ea004b54e9bfd4ce7d15db3d24d42582b941c3ccdc8f800000000")
)

func fixture() []byte {
	return append([]byte(nil), solution...)
}

// withIndices re-encodes the fixture after applying f to its indices.
func withIndices(t *testing.T, f func([]uint32)) []byte {
	s, err := shared.SolutionFromBytes(solution)
	require.NoError(t, err)
	indices := s.Indices()
	f(indices)
	out, err := shared.NewSolution(indices, s.ExtraNonce())
	require.NoError(t, err)
	return out[:]
}

func TestVerify_Fixture(t *testing.T) {
	require.NoError(t, Verify(input, nonce, fixture(), WithLogger(zaptest.NewLogger(t))))

	ok, err := IsValidSolution(input, nonce, fixture())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerify_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		ok, err := IsValidSolution(input, nonce, fixture())
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestVerify_CorruptedFirstByte(t *testing.T) {
	s := fixture()
	s[0] = 0

	err := Verify(input, nonce, s, WithLogger(zaptest.NewLogger(t)))
	require.ErrorIs(t, err, shared.ErrInvalidSolution)

	ok, err := IsValidSolution(input, nonce, s)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerify_WrongJob(t *testing.T) {
	otherNonce := append([]byte(nil), nonce...)
	otherNonce[7] ^= 1
	ok, err := IsValidSolution(input, otherNonce, fixture())
	require.NoError(t, err)
	require.False(t, ok)

	s := fixture()
	s[shared.MinimalSize] = 1 // extra nonce feeds the preliminary hash.
	ok, err = IsValidSolution(input, nonce, s)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerify_Checks(t *testing.T) {
	tests := []struct {
		name   string
		modify func([]uint32)
		err    error
	}{
		{
			name:   "swapped siblings",
			modify: func(idx []uint32) { idx[0], idx[1] = idx[1], idx[0] },
			err:    ErrIndexOrder,
		},
		{
			name:   "duplicate leaf",
			modify: func(idx []uint32) { idx[1] = idx[0] },
			err:    ErrDuplicateIndex,
		},
		{
			name:   "foreign leaf",
			modify: func(idx []uint32) { idx[31] ^= 1 },
			err:    ErrNoCollision,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Verify(input, nonce, withIndices(t, tc.modify))
			require.ErrorIs(t, err, tc.err)
			require.ErrorIs(t, err, shared.ErrInvalidSolution)
		})
	}
}

func TestVerify_SwappedSiblingsNamesRound(t *testing.T) {
	err := Verify(input, nonce, withIndices(t, func(idx []uint32) { idx[2], idx[3] = idx[3], idx[2] }))
	require.EqualError(t, err, "round 1, pair 1: invalid solution: subtrees out of order")
}

func TestVerify_Difficulty(t *testing.T) {
	require.NoError(t, Verify(input, nonce, fixture(), WithDifficulty(difficulty)))

	err := Verify(input, nonce, fixture(), WithDifficulty(shared.DifficultyInf))
	require.ErrorIs(t, err, ErrDifficultyNotReached)

	ok, err := IsValidSolution(input, nonce, fixture(), WithDifficulty(shared.DifficultyInf))
	require.NoError(t, err)
	require.False(t, ok)

	_, err = IsValidSolution(input, nonce, fixture(), WithDifficulty(shared.DifficultyInf+1))
	require.EqualError(t, err, "invalid `difficulty`")
}

func TestVerify_Lengths(t *testing.T) {
	tests := []struct {
		name                   string
		input, nonce, solution []byte
		param                  string
	}{
		{"short solution", input, nonce, solution[:103], "solution"},
		{"long solution", input, nonce, append(fixture(), 0), "solution"},
		{"short input", input[:31], nonce, solution, "input"},
		{"long nonce", input, append(append([]byte(nil), nonce...), 0), solution, "nonce"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := IsValidSolution(tc.input, tc.nonce, tc.solution)
			require.False(t, ok)

			var lengthErr shared.LengthError
			require.True(t, errors.As(err, &lengthErr))
			require.Equal(t, tc.param, lengthErr.Param)
			require.NotErrorIs(t, err, shared.ErrInvalidSolution)
		})
	}
}

func TestWithLogger_Nil(t *testing.T) {
	require.EqualError(t, Verify(input, nonce, fixture(), WithLogger(nil)), "logger is nil")
}

func BenchmarkVerify(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if err := Verify(input, nonce, solution); err != nil {
			b.Fatal(err)
		}
	}
}
