// Package proving searches for BeamHash III solutions.
//
// The search builds all leaves of the preliminary hash and, round by round,
// sorts the elements by their collision bits and merges every colliding pair.
// Elements of the last round whose merge is zero are solutions.
package proving

import (
	"context"
	"errors"
	"fmt"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"go.uber.org/zap"

	"github.com/beamminer/beamhash3/oracle"
	"github.com/beamminer/beamhash3/shared"
	"github.com/beamminer/beamhash3/verifying"
)

// AcceptFunc decides whether a found solution ends the search.
type AcceptFunc func(shared.Solution) bool

// AcceptDifficulty returns an AcceptFunc that accepts solutions reaching d
// which also pass verification for input and nonce.
func AcceptDifficulty(input, nonce []byte, d shared.Difficulty) AcceptFunc {
	return func(s shared.Solution) bool {
		if !d.Reached(s) {
			return false
		}
		ok, err := verifying.IsValidSolution(input, nonce, s[:])
		return err == nil && ok
	}
}

// MemoryEstimate returns the peak memory in bytes a full search allocates for its arenas.
func MemoryEstimate() uint64 {
	return memoryEstimate(shared.IndexBitSize)
}

type solver struct {
	logger   *zap.Logger
	threads  uint
	leafBits uint
	wo       *oracle.WorkOracle
}

// Solve searches for a solution for input and nonce and returns the first
// one accept returns true for.
//
// accept is called from a single goroutine and not called again once it
// returned true. shared.ErrSolutionNotFound is returned when the search is
// exhausted. Cancelling ctx stops the search; the error then matches both
// shared.ErrSolutionNotFound and the context error.
func Solve(ctx context.Context, input, nonce []byte, accept AcceptFunc, opts ...OptionFunc) (shared.Solution, error) {
	options := &option{
		logger:   zap.NewNop(),
		leafBits: shared.IndexBitSize,
	}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return shared.Solution{}, err
		}
	}
	if err := options.validate(); err != nil {
		return shared.Solution{}, err
	}
	if accept == nil {
		return shared.Solution{}, errors.New("`accept` is required")
	}

	wo, err := oracle.New(
		oracle.WithInput(input),
		oracle.WithNonce(nonce),
		oracle.WithExtraNonce(options.extraNonce[:]),
	)
	if err != nil {
		return shared.Solution{}, err
	}

	s := &solver{
		logger:   options.logger,
		threads:  options.threads,
		leafBits: options.leafBits,
		wo:       wo,
	}

	s.logger.Info("solving",
		zap.Binary("input", input),
		zap.Binary("nonce", nonce),
		zap.Binary("extraNonce", options.extraNonce[:]),
		zap.Uint("threads", s.threads),
		zap.String("memory", bytefmt.ByteSize(memoryEstimate(s.leafBits))),
	)

	start := time.Now()
	solution, err := s.solve(ctx, options.extraNonce, accept)
	if err != nil {
		if ctx.Err() != nil {
			return shared.Solution{}, fmt.Errorf("%w: %w", shared.ErrSolutionNotFound, ctx.Err())
		}
		return shared.Solution{}, err
	}

	s.logger.Info("solution found",
		zap.Stringer("solution", solution),
		zap.Duration("duration", time.Since(start)),
	)
	return *solution, nil
}

func (s *solver) solve(ctx context.Context, extraNonce [shared.ExtraNonceSize]byte, accept AcceptFunc) (*shared.Solution, error) {
	start := time.Now()
	a, err := s.generate(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("leaves generated", zap.Int("leaves", a.len()), zap.Duration("duration", time.Since(start)))

	for round := 1; round < shared.NumRounds; round++ {
		start := time.Now()
		next, err := s.round(ctx, a, round)
		if err != nil {
			return nil, err
		}
		a = next

		s.logger.Debug("round done",
			zap.Int("round", round),
			zap.Int("elements", a.len()),
			zap.Duration("duration", time.Since(start)),
		)
		if a.len() < 2 {
			return nil, shared.ErrSolutionNotFound
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.mix(ctx, a, shared.NumRounds); err != nil {
		return nil, err
	}
	keys, bnd, err := s.sort(ctx, a)
	if err != nil {
		return nil, err
	}

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	candidates := make(chan []uint32)
	var solution *shared.Solution
	var workerErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		solution, workerErr = solutionWorker(workerCtx, candidates, extraNonce, accept, s.logger)
	}()

	err = s.final(workerCtx, a, keys, bnd, candidates)
	close(candidates)
	<-done

	switch {
	case solution != nil:
		return solution, nil
	case workerErr != nil && !errors.Is(workerErr, context.Canceled):
		return nil, workerErr
	case err != nil:
		return nil, err
	case ctx.Err() != nil:
		return nil, ctx.Err()
	}
	return nil, shared.ErrSolutionNotFound
}

// round mixes, sorts and merges the elements of one of the first four rounds.
func (s *solver) round(ctx context.Context, a *arena, round int) (*arena, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.mix(ctx, a, round); err != nil {
		return nil, err
	}
	keys, bnd, err := s.sort(ctx, a)
	if err != nil {
		return nil, err
	}
	return s.match(ctx, a, keys, bnd, round)
}
