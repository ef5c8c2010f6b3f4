package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spacemeshos/smutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/beamminer/beamhash3/config"
)

var (
	Version string
	Commit  string

	cfgFile string
	cfg     = config.DefaultConfig()
	logger  = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "beamcli",
	Short: "Solve and verify BeamHash III proofs of work",
	Long: `beamcli verifies BeamHash III solutions, checks them against a difficulty
target and runs the memory hard solver for a block input and nonce.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = c

		lvl, _ := cfg.Level()
		logger, err = newLogger(lvl)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (%s)", Version, Commit)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", config.DefaultConfigFile, "Path to configuration file")
	flags.Uint("threads", cfg.Threads, "Number of solver threads (0 uses all CPUs)")
	flags.String("extra-nonce", cfg.ExtraNonce, "Extra nonce appended to solutions, in hex")
	flags.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.Uint32("difficulty", cfg.Difficulty, "Packed difficulty solutions must reach")
}

// loadConfig merges, in increasing priority, the defaults, the config file and
// the flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	vip := viper.New()
	if err := bindFlags(vip, cmd.Flags()); err != nil {
		return nil, err
	}

	if err := loadConfigFile(smutil.GetCanonicalPath(cfgFile), vip); err != nil {
		return nil, err
	}

	c := config.DefaultConfig()
	if err := vip.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// bindFlags binds the flags backing config.Config fields to their config keys.
func bindFlags(vip *viper.Viper, flags *pflag.FlagSet) error {
	for _, name := range []string{"threads", "extra-nonce", "log-level", "difficulty"} {
		if err := vip.BindPFlag(name, flags.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

// loadConfigFile reads the config file. A missing default config file is not an error.
func loadConfigFile(fileLocation string, vip *viper.Viper) error {
	if fileLocation == "" {
		fileLocation = config.DefaultConfigFile
	}

	vip.SetConfigFile(fileLocation)
	err := vip.ReadInConfig()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist) && fileLocation == config.DefaultConfigFile:
		return nil
	default:
		return fmt.Errorf("failed to read config file: %w", err)
	}
}

func newLogger(lvl zapcore.Level) (*zap.Logger, error) {
	zapCfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(lvl),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			NameKey:        "N",
			MessageKey:     "M",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize zap logger: %w", err)
	}
	return logger, nil
}
