package oracle_test

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/beamminer/beamhash3/oracle"
	"github.com/beamminer/beamhash3/shared"
)

var (
	input, _ = hex.DecodeString("fb1b64ed2a170ee919171aaa10e4f04d91f8bce204d52c0ee0405b1332e1b9d9")
	nonce, _ = hex.DecodeString("471051c32c32cafc")
)

func TestPersonalization(t *testing.T) {
	p := oracle.Personalization()
	require.Len(t, p, 16)
	require.Equal(t, []byte("Beam-PoW"), p[:8])
	require.Equal(t, []byte{0xc0, 0x01, 0x00, 0x00}, p[8:12]) // 448
	require.Equal(t, []byte{0x05, 0x00, 0x00, 0x00}, p[12:16])
}

func TestNew_Validation(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		_, err := oracle.New(oracle.WithNonce(nonce))
		require.EqualError(t, err, "`input` is required")
	})
	t.Run("missing nonce", func(t *testing.T) {
		_, err := oracle.New(oracle.WithInput(input))
		require.EqualError(t, err, "`nonce` is required")
	})
	t.Run("short input", func(t *testing.T) {
		_, err := oracle.New(oracle.WithInput(input[:31]), oracle.WithNonce(nonce))
		require.ErrorAs(t, err, &shared.LengthError{})
		require.EqualError(t, err, "invalid `input` length; expected: 32, given: 31")
	})
	t.Run("long nonce", func(t *testing.T) {
		_, err := oracle.New(oracle.WithInput(input), oracle.WithNonce(append(nonce, 0)))
		require.EqualError(t, err, "invalid `nonce` length; expected: 8, given: 9")
	})
	t.Run("bad extra nonce", func(t *testing.T) {
		_, err := oracle.New(oracle.WithInput(input), oracle.WithNonce(nonce), oracle.WithExtraNonce([]byte{1, 2}))
		require.EqualError(t, err, "invalid `extraNonce` length; expected: 4, given: 2")
	})
}

func TestNew_DefaultExtraNonceIsZero(t *testing.T) {
	a, err := oracle.New(oracle.WithInput(input), oracle.WithNonce(nonce))
	require.NoError(t, err)
	b, err := oracle.New(oracle.WithInput(input), oracle.WithNonce(nonce), oracle.WithExtraNonce(make([]byte, 4)))
	require.NoError(t, err)
	require.Equal(t, a.PreWork(), b.PreWork())

	c, err := oracle.New(oracle.WithInput(input), oracle.WithNonce(nonce), oracle.WithExtraNonce([]byte{0, 0, 0, 1}))
	require.NoError(t, err)
	require.NotEqual(t, a.PreWork(), c.PreWork())
}

func TestPrepare_MatchesNew(t *testing.T) {
	extra := []byte{0xde, 0xad, 0xbe, 0xef}

	h, err := oracle.Prepare(input, nonce)
	require.NoError(t, err)
	h.Write(extra)
	sum := h.Sum(nil)
	require.Len(t, sum, shared.PreWorkSize)

	wo, err := oracle.New(oracle.WithInput(input), oracle.WithNonce(nonce), oracle.WithExtraNonce(extra))
	require.NoError(t, err)
	preWork := wo.PreWork()
	require.True(t, bytes.Equal(sum, preWork[:]))
}

func TestPrepare_Length(t *testing.T) {
	_, err := oracle.Prepare(input, nonce[:4])
	require.ErrorAs(t, err, &shared.LengthError{})
}

func TestKeysAndPosition(t *testing.T) {
	r := require.New(t)

	var preWork [shared.PreWorkSize]byte
	for i := range preWork {
		preWork[i] = byte(i)
	}
	wo := oracle.FromPreWork(preWork)

	keys := wo.Keys()
	r.Equal(uint64(0x0706050403020100), keys[0])
	r.Equal(uint64(0x0f0e0d0c0b0a0908), keys[1])
	r.Equal(binary.LittleEndian.Uint64(preWork[16:]), keys[2])
	r.Equal(binary.LittleEndian.Uint64(preWork[24:]), keys[3])

	for _, idx := range []uint32{0, 1, 12345, shared.NumLeaves - 1} {
		for word := uint(0); word < 7; word++ {
			want := oracle.SipHash24(keys[0], keys[1], keys[2], keys[3], uint64(idx)*8+uint64(word))
			r.Equal(want, wo.Position(idx, word))
		}
	}
}
