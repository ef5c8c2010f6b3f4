package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/beamminer/beamhash3/oracle"
	"github.com/beamminer/beamhash3/proving"
	"github.com/beamminer/beamhash3/shared"
	"github.com/beamminer/beamhash3/tree"
	"github.com/beamminer/beamhash3/verifying"
)

// A mainnet share used as the benchmark workload.
var (
	benchInput, _    = hex.DecodeString("fb1b64ed2a170ee919171aaa10e4f04d91f8bce204d52c0ee0405b1332e1b9d9")
	benchNonce, _    = hex.DecodeString("471051c32c32cafc")
	benchSolution, _ = hex.DecodeString("57050dd8ba98ac5d6d52d9ebde1bcf0c1a741abcd4c50accd2e1b6bd0030a16e81d51b476dde623b8f611b38d992c7f332b258d76c4cd402d9bd1d1ab6f6b92685a8d791d38a3e2cd08baab2a27ea004b54e9bfd4ce7d15db3d24d42582b941c3ccdc8f800000000")
	benchDifficulty  = shared.Difficulty(138455134)
)

var (
	benchRounds int

	// leafSink keeps the generated leaves alive.
	leafSink uint64
)

// benchCmd represents the bench command.
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the verifier",
	Long: `bench times verification, the difficulty test and leaf generation on a known
share and prints the memory a full search would take.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if benchRounds <= 0 {
			return fmt.Errorf("invalid `rounds`; expected: > 0, given: %d", benchRounds)
		}

		solution, err := shared.SolutionFromBytes(benchSolution)
		if err != nil {
			return err
		}
		wo, err := oracle.New(oracle.WithInput(benchInput), oracle.WithNonce(benchNonce))
		if err != nil {
			return err
		}

		cases := []struct {
			name string
			fn   func() error
		}{
			{"verify", func() error {
				return verifying.Verify(benchInput, benchNonce, benchSolution)
			}},
			{"difficulty", func() error {
				if !benchDifficulty.Reached(solution) {
					return fmt.Errorf("difficulty %s not reached", benchDifficulty)
				}
				return nil
			}},
			{"preliminary hash", func() error {
				_, err := oracle.New(oracle.WithInput(benchInput), oracle.WithNonce(benchNonce))
				return err
			}},
			{"1024 leaves", func() error {
				for i := uint32(0); i < 1024; i++ {
					w := tree.GenerateWork(wo, i)
					leafSink ^= w[0]
				}
				return nil
			}},
		}

		data := make([][]string, 0, len(cases))
		for _, c := range cases {
			start := time.Now()
			for i := 0; i < benchRounds; i++ {
				if err := c.fn(); err != nil {
					return fmt.Errorf("%s: %w", c.name, err)
				}
			}
			elapsed := time.Since(start)
			data = append(data, []string{
				c.name,
				strconv.Itoa(benchRounds),
				elapsed.Round(time.Millisecond).String(),
				(elapsed / time.Duration(benchRounds)).String(),
			})
		}

		report(cmd, []string{"operation", "runs", "total", "per-op"}, data)
		fmt.Fprintf(cmd.OutOrStdout(), "solver memory estimate: %s\n", bytefmt.ByteSize(proving.MemoryEstimate()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().IntVar(&benchRounds, "rounds", 100, "Number of runs per operation")
}

func report(cmd *cobra.Command, header []string, data [][]string) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader(header)
	table.SetBorder(true)
	table.AppendBulk(data)
	table.Render()
}
