package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/beamminer/beamhash3/config"
	"github.com/beamminer/beamhash3/shared"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Validate())

	n, err := cfg.ExtraNonceBytes()
	require.NoError(t, err)
	require.Equal(t, [shared.ExtraNonceSize]byte{}, n)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, zapcore.InfoLevel, lvl)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
		err    string
	}{
		{
			name:   "too many threads",
			modify: func(c *config.Config) { c.Threads = config.MaxThreads + 1 },
			err:    "invalid `Threads`; expected: <= 1024, given: 1025",
		},
		{
			name:   "extra nonce not hex",
			modify: func(c *config.Config) { c.ExtraNonce = "xyz" },
			err:    "invalid `ExtraNonce`: encoding/hex: invalid byte: U+0078 'x'",
		},
		{
			name:   "short extra nonce",
			modify: func(c *config.Config) { c.ExtraNonce = "0102" },
			err:    "invalid `ExtraNonce` length; expected: 4, given: 2",
		},
		{
			name:   "unknown log level",
			modify: func(c *config.Config) { c.LogLevel = "loud" },
			err:    `invalid ` + "`LogLevel`" + `: unrecognized level: "loud"`,
		},
		{
			name:   "difficulty above infinity",
			modify: func(c *config.Config) { c.Difficulty = uint32(shared.DifficultyInf) + 1 },
			err:    "invalid `Difficulty`; expected: <= 3892314112, given: 3892314113",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.DefaultConfig()
			tc.modify(cfg)
			require.EqualError(t, cfg.Validate(), tc.err)
		})
	}
}

func TestExtraNonceBytes(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ExtraNonce = "deadbeef"
	n, err := cfg.ExtraNonceBytes()
	require.NoError(t, err)
	require.Equal(t, [shared.ExtraNonceSize]byte{0xde, 0xad, 0xbe, 0xef}, n)
}

func TestProvingOpts(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Threads = 2

	opts, err := cfg.ProvingOpts(zap.NewNop())
	require.NoError(t, err)
	require.Len(t, opts, 3)

	cfg.ExtraNonce = ""
	_, err = cfg.ProvingOpts(zap.NewNop())
	require.Error(t, err)
}
