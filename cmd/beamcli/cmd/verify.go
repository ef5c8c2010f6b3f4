package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beamminer/beamhash3/shared"
	"github.com/beamminer/beamhash3/verifying"
)

var (
	job struct {
		input    []byte
		nonce    []byte
		solution []byte
	}

	shareFile string
)

// verifyCmd represents the verify command.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a solution",
	Long: `verify checks that a 104 byte solution is valid for the given input and nonce.
If a difficulty is configured the solution must also reach its target.
The job can also be read from a share file written by solve.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := shared.Difficulty(cfg.Difficulty)
		if shareFile != "" {
			share, err := readShare(shareFile)
			if err != nil {
				return err
			}
			job.input, job.nonce, job.solution = share.Input, share.Nonce, share.Solution[:]
			if d == 0 {
				d = share.Difficulty
			}
		}

		opts := []verifying.OptionFunc{verifying.WithLogger(logger)}
		if d != 0 {
			opts = append(opts, verifying.WithDifficulty(d))
		}

		if err := verifying.Verify(job.input, job.nonce, job.solution, opts...); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().BytesHexVar(&job.input, "input", nil, "Block input, in hex")
	verifyCmd.Flags().BytesHexVar(&job.nonce, "nonce", nil, "Nonce, in hex")
	verifyCmd.Flags().BytesHexVar(&job.solution, "solution", nil, "Solution, in hex")
	verifyCmd.Flags().StringVar(&shareFile, "share", "", "Read input, nonce and solution from a share file")

	verifyCmd.MarkFlagsRequiredTogether("input", "nonce", "solution")
	verifyCmd.MarkFlagsMutuallyExclusive("share", "solution")
	verifyCmd.MarkFlagsOneRequired("share", "solution")
}
