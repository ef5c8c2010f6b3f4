package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"code.cloudfoundry.org/bytefmt"
	"github.com/natefinch/atomic"
	"github.com/shirou/gopsutil/mem"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/beamminer/beamhash3/proving"
	"github.com/beamminer/beamhash3/shared"
)

var outFile string

// solveCmd represents the solve command.
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Search for a solution",
	Long: `solve runs the BeamHash III solver for the given input and nonce and prints the
first solution that reaches the configured difficulty. A full search needs
several GiB of memory. Interrupt with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := cfg.ProvingOpts(logger)
		if err != nil {
			return err
		}

		checkMemory(proving.MemoryEstimate())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		d := shared.Difficulty(cfg.Difficulty)
		solution, err := proving.Solve(ctx, job.input, job.nonce, proving.AcceptDifficulty(job.input, job.nonce, d), opts...)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), solution)
		if outFile == "" {
			return nil
		}
		return writeShare(outFile, shared.Share{
			Input:      job.input,
			Nonce:      job.nonce,
			Difficulty: d,
			Solution:   solution,
		})
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveCmd.Flags().BytesHexVar(&job.input, "input", nil, "Block input, in hex (required)")
	solveCmd.Flags().BytesHexVar(&job.nonce, "nonce", nil, "Nonce, in hex (required)")
	solveCmd.Flags().StringVar(&outFile, "out", "", "Write the found share as JSON to this file")
	for _, name := range []string{"input", "nonce"} {
		_ = solveCmd.MarkFlagRequired(name)
	}
}

func checkMemory(needed uint64) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		logger.Warn("failed to read available memory", zap.Error(err))
		return
	}
	if vm.Available < needed {
		logger.Warn("available memory is below the solver's estimate",
			zap.String("available", bytefmt.ByteSize(vm.Available)),
			zap.String("needed", bytefmt.ByteSize(needed)),
		)
	}
}

func writeShare(filename string, share shared.Share) error {
	data, err := json.MarshalIndent(share, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode share: %w", err)
	}
	if err := atomic.WriteFile(filename, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write share: %w", err)
	}
	logger.Info("share written", zap.String("file", filename))
	return nil
}

// readShare is the counterpart of writeShare.
func readShare(filename string) (*shared.Share, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	share := &shared.Share{}
	if err := json.Unmarshal(data, share); err != nil {
		return nil, fmt.Errorf("failed to decode share %s: %w", filename, err)
	}
	return share, nil
}
