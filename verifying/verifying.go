// Package verifying checks BeamHash III solutions by rebuilding the reduction
// tree from the 32 leaf indices a solution carries.
package verifying

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/beamminer/beamhash3/oracle"
	"github.com/beamminer/beamhash3/shared"
	"github.com/beamminer/beamhash3/tree"
)

var (
	ErrNoCollision          = fmt.Errorf("%w: collision bits differ", shared.ErrInvalidSolution)
	ErrDuplicateIndex       = fmt.Errorf("%w: subtrees share an index", shared.ErrInvalidSolution)
	ErrIndexOrder           = fmt.Errorf("%w: subtrees out of order", shared.ErrInvalidSolution)
	ErrNonZeroWork          = fmt.Errorf("%w: final work is not zero", shared.ErrInvalidSolution)
	ErrDifficultyNotReached = fmt.Errorf("%w: difficulty target not reached", shared.ErrInvalidSolution)
)

// Verify checks the solution for the given input and nonce.
//
// A nil error means the solution is valid. Rejections wrap
// shared.ErrInvalidSolution and name the failing round. A shared.LengthError is
// returned for malformed arguments.
func Verify(input, nonce, solution []byte, opts ...OptionFunc) error {
	options := &option{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return err
		}
	}
	if err := options.validate(); err != nil {
		return err
	}

	if err := shared.CheckLength("solution", solution, shared.SolutionSize); err != nil {
		return err
	}

	wo, err := oracle.New(
		oracle.WithInput(input),
		oracle.WithNonce(nonce),
		oracle.WithExtraNonce(solution[shared.MinimalSize:]),
	)
	if err != nil {
		return err
	}

	indices, err := shared.IndicesFromMinimal(solution)
	if err != nil {
		return err
	}

	if err := verifyTree(wo, indices); err != nil {
		options.logger.Debug("solution rejected",
			zap.Binary("input", input),
			zap.Binary("nonce", nonce),
			zap.Error(err),
		)
		return err
	}

	if options.difficulty != nil {
		var s shared.Solution
		copy(s[:], solution)
		if !options.difficulty.Reached(s) {
			options.logger.Debug("solution below difficulty", zap.Stringer("difficulty", options.difficulty))
			return ErrDifficultyNotReached
		}
	}

	return nil
}

// IsValidSolution reports whether the solution is valid for the given input
// and nonce. The error is only set for malformed arguments.
func IsValidSolution(input, nonce, solution []byte, opts ...OptionFunc) (bool, error) {
	err := Verify(input, nonce, solution, opts...)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, shared.ErrInvalidSolution):
		return false, nil
	default:
		return false, err
	}
}

func verifyTree(wo *oracle.WorkOracle, indices []uint32) error {
	x := make([]tree.Element, len(indices))
	for i, idx := range indices {
		x[i] = tree.NewLeaf(wo, idx)
	}

	for round := 1; len(x) > 1; round++ {
		mixLen := tree.MixLength(round)
		mergeLen := tree.MergeLength(round)

		next := make([]tree.Element, 0, len(x)/2)
		for i := 0; i < len(x); i += 2 {
			a, b := &x[i], &x[i+1]
			a.Mix(mixLen)
			b.Mix(mixLen)

			if !tree.HasCollision(a, b) {
				return fmt.Errorf("round %d, pair %d: %w", round, i/2, ErrNoCollision)
			}
			if !tree.DistinctIndices(a.Indices, b.Indices) {
				return fmt.Errorf("round %d, pair %d: %w", round, i/2, ErrDuplicateIndex)
			}
			if !tree.IndexAfter(a, b) {
				return fmt.Errorf("round %d, pair %d: %w", round, i/2, ErrIndexOrder)
			}

			next = append(next, tree.Merge(a, b, mergeLen))
		}
		x = next
	}

	if !x[0].Work.IsZero() {
		return ErrNonZeroWork
	}
	return nil
}
