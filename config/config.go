package config

import (
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/spacemeshos/smutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/beamminer/beamhash3/proving"
	"github.com/beamminer/beamhash3/shared"
)

const (
	MaxThreads = 1 << 10

	DefaultDirName        = ".beamhash"
	DefaultConfigFileName = "config.toml"
	DefaultLogLevel       = "info"
)

var (
	DefaultDir        = filepath.Join(smutil.GetUserHomeDirectory(), DefaultDirName)
	DefaultConfigFile = filepath.Join(DefaultDir, DefaultConfigFileName)
)

type Config struct {
	// Threads is the number of solver goroutines, 0 uses all CPUs.
	Threads uint `mapstructure:"threads"`
	// ExtraNonce is the hex encoded 4 byte extra nonce appended to solutions.
	ExtraNonce string `mapstructure:"extra-nonce"`
	LogLevel   string `mapstructure:"log-level"`
	// Difficulty is the packed target solutions must reach, 0 accepts any valid solution.
	Difficulty uint32 `mapstructure:"difficulty"`
}

func DefaultConfig() *Config {
	return &Config{
		ExtraNonce: hex.EncodeToString(make([]byte, shared.ExtraNonceSize)),
		LogLevel:   DefaultLogLevel,
	}
}

func (cfg *Config) Validate() error {
	if cfg.Threads > MaxThreads {
		return fmt.Errorf("invalid `Threads`; expected: <= %d, given: %d", MaxThreads, cfg.Threads)
	}

	if _, err := cfg.ExtraNonceBytes(); err != nil {
		return err
	}

	if _, err := cfg.Level(); err != nil {
		return err
	}

	if !shared.Difficulty(cfg.Difficulty).IsValid() {
		return fmt.Errorf("invalid `Difficulty`; expected: <= %d, given: %d", uint32(shared.DifficultyInf), cfg.Difficulty)
	}

	return nil
}

// ExtraNonceBytes decodes ExtraNonce.
func (cfg *Config) ExtraNonceBytes() ([shared.ExtraNonceSize]byte, error) {
	var n [shared.ExtraNonceSize]byte
	b, err := hex.DecodeString(cfg.ExtraNonce)
	if err != nil {
		return n, fmt.Errorf("invalid `ExtraNonce`: %w", err)
	}
	if err := shared.CheckLength("ExtraNonce", b, shared.ExtraNonceSize); err != nil {
		return n, err
	}
	copy(n[:], b)
	return n, nil
}

// Level parses LogLevel.
func (cfg *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("invalid `LogLevel`: %w", err)
	}
	return lvl, nil
}

// ProvingOpts returns the solver options described by cfg.
func (cfg *Config) ProvingOpts(logger *zap.Logger) ([]proving.OptionFunc, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	extraNonce, _ := cfg.ExtraNonceBytes()
	return []proving.OptionFunc{
		proving.WithLogger(logger),
		proving.WithThreads(cfg.Threads),
		proving.WithExtraNonce(extraNonce),
	}, nil
}
