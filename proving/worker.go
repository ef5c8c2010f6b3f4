package proving

import (
	"context"
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/beamminer/beamhash3/shared"
	"github.com/beamminer/beamhash3/tree"
)

// Sort keys are bucketed on the top bits of the collision value.
const (
	bucketBits  = 8
	numBuckets  = 1 << bucketBits
	bucketShift = shared.CollisionBitSize - bucketBits
)

const minChunkSize = 1 << 12

type bounds [numBuckets + 1]int

func (b *bounds) bucket(keys []uint64, i int) []uint64 {
	return keys[b[i]:b[i+1]]
}

func sortKey(bits uint32, pos int) uint64 {
	return uint64(bits)<<32 | uint64(pos)
}

// chunks splits [0, n) into ranges handed to the workers.
func (s *solver) chunks(n int) [][2]int {
	size := max(minChunkSize, (n+int(s.threads)*4-1)/(int(s.threads)*4))
	var out [][2]int
	for lo := 0; lo < n; lo += size {
		out = append(out, [2]int{lo, min(lo+size, n)})
	}
	return out
}

// parallel runs fn for every chunk of [0, n) on at most s.threads goroutines.
func (s *solver) parallel(ctx context.Context, n int, fn func(c, lo, hi int)) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(int(s.threads))
	for c, r := range s.chunks(n) {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			fn(c, r[0], r[1])
			return nil
		})
	}
	return eg.Wait()
}

// eachBucket runs fn for every sort bucket on at most s.threads goroutines.
// The context is checked before each bucket is scanned.
func (s *solver) eachBucket(ctx context.Context, fn func(ctx context.Context, b int) error) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(int(s.threads))
	for b := 0; b < numBuckets; b++ {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			return fn(egCtx, b)
		})
	}
	return eg.Wait()
}

// generate fills the leaf arena.
func (s *solver) generate(ctx context.Context) (*arena, error) {
	a := newArena(1<<s.leafBits, 1)
	err := s.parallel(ctx, a.len(), func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			a.works[i] = tree.GenerateWork(s.wo, uint32(i))
			a.indices[i] = uint32(i)
		}
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// mix applies the round's mix to every element in place.
func (s *solver) mix(ctx context.Context, a *arena, round int) error {
	remLen := tree.MixLength(round)
	return s.parallel(ctx, a.len(), func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			tree.MixWork(&a.works[i], a.indicesAt(uint32(i)), remLen)
		}
	})
}

// sort returns one key per element, ordered by collision bits then position,
// and the boundaries of the buckets within the keys.
func (s *solver) sort(ctx context.Context, a *arena) ([]uint64, *bounds, error) {
	n := a.len()
	chunks := s.chunks(n)
	hist := make([][numBuckets]int, len(chunks))

	err := s.parallel(ctx, n, func(c, lo, hi int) {
		for i := lo; i < hi; i++ {
			hist[c][a.works[i].CollisionBits()>>bucketShift]++
		}
	})
	if err != nil {
		return nil, nil, err
	}

	// Turn the histograms into per chunk write offsets.
	var bnd bounds
	offset := 0
	for b := 0; b < numBuckets; b++ {
		bnd[b] = offset
		for c := range hist {
			count := hist[c][b]
			hist[c][b] = offset
			offset += count
		}
	}
	bnd[numBuckets] = offset

	keys := make([]uint64, n)
	err = s.parallel(ctx, n, func(c, lo, hi int) {
		next := &hist[c]
		for i := lo; i < hi; i++ {
			bits := a.works[i].CollisionBits()
			b := bits >> bucketShift
			keys[next[b]] = sortKey(bits, i)
			next[b]++
		}
	})
	if err != nil {
		return nil, nil, err
	}

	err = s.eachBucket(ctx, func(_ context.Context, b int) error {
		slices.Sort(bnd.bucket(keys, b))
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return keys, &bnd, nil
}

// forEachPair calls fn for every pair of elements in the sorted keys that
// share their collision bits and have disjoint index sets.
func forEachPair(a *arena, keys []uint64, fn func(pa, pb uint32) error) error {
	for lo := 0; lo < len(keys); {
		hi := lo + 1
		for hi < len(keys) && keys[hi]>>32 == keys[lo]>>32 {
			hi++
		}

		for i := lo; i < hi-1; i++ {
			pa := uint32(keys[i])
			for j := i + 1; j < hi; j++ {
				pb := uint32(keys[j])
				if !tree.DistinctIndices(a.indicesAt(pa), a.indicesAt(pb)) {
					continue
				}
				if err := fn(pa, pb); err != nil {
					return err
				}
			}
		}
		lo = hi
	}
	return nil
}

// match merges every colliding pair of the round into a new arena.
func (s *solver) match(ctx context.Context, a *arena, keys []uint64, bnd *bounds, round int) (*arena, error) {
	remLen := tree.MergeLength(round)

	var counts [numBuckets]int
	err := s.eachBucket(ctx, func(_ context.Context, b int) error {
		return forEachPair(a, bnd.bucket(keys, b), func(_, _ uint32) error {
			counts[b]++
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	var offsets [numBuckets]int
	total := 0
	for b, count := range counts {
		offsets[b] = total
		total += count
	}
	if uint64(total) > math.MaxUint32 {
		return nil, fmt.Errorf("round %d produced too many elements: %d", round, total)
	}

	next := newArena(total, 2*a.width)
	err = s.eachBucket(ctx, func(_ context.Context, b int) error {
		pos := offsets[b]
		return forEachPair(a, bnd.bucket(keys, b), func(pa, pb uint32) error {
			next.works[pos] = tree.MergeWork(&a.works[pa], &a.works[pb], remLen)
			ia, ib := a.indicesAt(pa), a.indicesAt(pb)
			if ib[0] < ia[0] {
				ia, ib = ib, ia
			}
			out := next.indicesAt(uint32(pos))
			copy(out, ia)
			copy(out[len(ia):], ib)
			pos++
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// final merges the colliding pairs of the last round and sends the index
// lists of those merging to zero to the candidates channel.
func (s *solver) final(ctx context.Context, a *arena, keys []uint64, bnd *bounds, candidates chan<- []uint32) error {
	remLen := tree.MergeLength(shared.NumRounds)
	return s.eachBucket(ctx, func(ctx context.Context, b int) error {
		return forEachPair(a, bnd.bucket(keys, b), func(pa, pb uint32) error {
			w := tree.MergeWork(&a.works[pa], &a.works[pb], remLen)
			if !w.IsZero() {
				return nil
			}

			select {
			case candidates <- tree.MergeIndices(a.indicesAt(pa), a.indicesAt(pb)):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	})
}

// solutionWorker encodes candidates and offers them to accept, one at a time.
// It returns the first accepted solution, or nil once candidates is closed.
func solutionWorker(ctx context.Context, candidates <-chan []uint32, extraNonce [shared.ExtraNonceSize]byte, accept AcceptFunc, logger *zap.Logger) (*shared.Solution, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case indices, ok := <-candidates:
			if !ok {
				return nil, nil
			}

			solution, err := shared.NewSolution(indices, extraNonce)
			if err != nil {
				return nil, err
			}

			if accept(solution) {
				return &solution, nil
			}
			logger.Debug("candidate rejected", zap.Stringer("solution", solution))
		}
	}
}
