// Package oracle derives the preliminary hash of a block template and the
// per-leaf pseudorandom words that seed the reduction tree.
package oracle

import (
	"encoding/binary"
	"errors"
	"hash"

	blake2b "github.com/minio/blake2b-simd"

	"github.com/beamminer/beamhash3/shared"
)

type option struct {
	input      []byte
	nonce      []byte
	extraNonce []byte
}

func (o *option) validate() error {
	if o.input == nil {
		return errors.New("`input` is required")
	}

	if o.nonce == nil {
		return errors.New("`nonce` is required")
	}

	if o.extraNonce == nil {
		o.extraNonce = make([]byte, shared.ExtraNonceSize)
	}

	return nil
}

// OptionFunc is a function that sets an option for a WorkOracle instance.
type OptionFunc func(*option) error

// WithInput sets the 32 byte block input (the header hash being mined).
func WithInput(input []byte) OptionFunc {
	return func(opts *option) error {
		if err := shared.CheckLength("input", input, shared.InputSize); err != nil {
			return err
		}

		opts.input = input
		return nil
	}
}

// WithNonce sets the 8 byte nonce.
func WithNonce(nonce []byte) OptionFunc {
	return func(opts *option) error {
		if err := shared.CheckLength("nonce", nonce, shared.NonceSize); err != nil {
			return err
		}

		opts.nonce = nonce
		return nil
	}
}

// WithExtraNonce sets the 4 byte extra nonce that is appended to a solution.
// If not specified, an all-zero extra nonce is used.
func WithExtraNonce(extraNonce []byte) OptionFunc {
	return func(opts *option) error {
		if err := shared.CheckLength("extraNonce", extraNonce, shared.ExtraNonceSize); err != nil {
			return err
		}

		opts.extraNonce = extraNonce
		return nil
	}
}

// Personalization returns the 16 byte BLAKE2b personalization:
// "Beam-PoW" followed by the work bit size and the number of rounds, as
// little-endian 32 bit integers.
func Personalization() []byte {
	p := make([]byte, 16)
	copy(p, shared.Personalization)
	binary.LittleEndian.PutUint32(p[8:], shared.WorkBitSize)
	binary.LittleEndian.PutUint32(p[12:], shared.NumRounds)
	return p
}

// Prepare returns a BLAKE2b-256 state that has absorbed input and nonce.
// The caller completes it with the extra nonce.
func Prepare(input, nonce []byte) (hash.Hash, error) {
	if err := shared.CheckLength("input", input, shared.InputSize); err != nil {
		return nil, err
	}
	if err := shared.CheckLength("nonce", nonce, shared.NonceSize); err != nil {
		return nil, err
	}

	h, err := blake2b.New(&blake2b.Config{
		Size:   shared.PreWorkSize,
		Person: Personalization(),
	})
	if err != nil {
		return nil, err
	}

	h.Write(input)
	h.Write(nonce)
	return h, nil
}

// WorkOracle produces the pseudorandom words of every leaf for one
// (input, nonce, extra nonce) triple.
type WorkOracle struct {
	preWork [shared.PreWorkSize]byte
	keys    [4]uint64
}

// New returns a WorkOracle for the given options. Input and nonce are required.
func New(opts ...OptionFunc) (*WorkOracle, error) {
	options := &option{}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	if err := options.validate(); err != nil {
		return nil, err
	}

	h, err := Prepare(options.input, options.nonce)
	if err != nil {
		return nil, err
	}
	h.Write(options.extraNonce)

	var preWork [shared.PreWorkSize]byte
	copy(preWork[:], h.Sum(nil))
	return FromPreWork(preWork), nil
}

// FromPreWork returns a WorkOracle for an already computed preliminary hash.
func FromPreWork(preWork [shared.PreWorkSize]byte) *WorkOracle {
	wo := &WorkOracle{preWork: preWork}
	for i := range wo.keys {
		wo.keys[i] = binary.LittleEndian.Uint64(preWork[i*8:])
	}
	return wo
}

// PreWork returns the preliminary hash.
func (w *WorkOracle) PreWork() [shared.PreWorkSize]byte {
	return w.preWork
}

// Keys returns the preliminary hash as four little-endian words, the SipHash state.
func (w *WorkOracle) Keys() [4]uint64 {
	return w.keys
}

// Position returns the pseudorandom word `word` (0..6) of the leaf at index idx.
func (w *WorkOracle) Position(idx uint32, word uint) uint64 {
	return SipHash24(w.keys[0], w.keys[1], w.keys[2], w.keys[3], uint64(idx)<<3+uint64(word))
}
