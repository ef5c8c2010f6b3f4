package proving

import (
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/beamminer/beamhash3/shared"
)

type option struct {
	logger *zap.Logger
	// How many threads to use for solving.
	// 0 - automatically detect
	threads    uint
	extraNonce [shared.ExtraNonceSize]byte
	// Number of leaves is 1 << leafBits.
	leafBits uint
}

func (o *option) validate() error {
	if o.threads == 0 {
		o.threads = uint(runtime.NumCPU())
	}
	if o.leafBits == 0 || o.leafBits > shared.IndexBitSize {
		return fmt.Errorf("invalid `leafBits`; expected: 1-%d, given: %d", shared.IndexBitSize, o.leafBits)
	}
	return nil
}

type OptionFunc func(*option) error

// WithLogger sets the logger for the solver.
func WithLogger(logger *zap.Logger) OptionFunc {
	return func(o *option) error {
		if logger == nil {
			return errors.New("logger is nil")
		}
		o.logger = logger
		return nil
	}
}

// WithThreads sets the number of worker goroutines. 0 uses all CPUs.
func WithThreads(n uint) OptionFunc {
	return func(o *option) error {
		o.threads = n
		return nil
	}
}

// WithExtraNonce sets the extra nonce mixed into the preliminary hash and
// appended to every solution. It defaults to all zeros.
func WithExtraNonce(extraNonce [shared.ExtraNonceSize]byte) OptionFunc {
	return func(o *option) error {
		o.extraNonce = extraNonce
		return nil
	}
}

// withLeafBits shrinks the leaf space. Only meant for tests, a reduced space
// almost never holds a solution.
func withLeafBits(n uint) OptionFunc {
	return func(o *option) error {
		o.leafBits = n
		return nil
	}
}
