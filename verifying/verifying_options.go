package verifying

import (
	"errors"

	"go.uber.org/zap"

	"github.com/beamminer/beamhash3/shared"
)

type option struct {
	logger     *zap.Logger
	difficulty *shared.Difficulty
}

func (o *option) validate() error {
	if o.difficulty != nil && !o.difficulty.IsValid() {
		return errors.New("invalid `difficulty`")
	}
	return nil
}

type OptionFunc func(*option) error

// WithLogger sets the logger used to report why a solution was rejected.
func WithLogger(logger *zap.Logger) OptionFunc {
	return func(o *option) error {
		if logger == nil {
			return errors.New("logger is nil")
		}
		o.logger = logger
		return nil
	}
}

// WithDifficulty additionally requires the solution to reach the given difficulty target.
func WithDifficulty(d shared.Difficulty) OptionFunc {
	return func(o *option) error {
		o.difficulty = &d
		return nil
	}
}
