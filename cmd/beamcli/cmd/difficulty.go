package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beamminer/beamhash3/shared"
)

// difficultyCmd represents the difficulty command.
var difficultyCmd = &cobra.Command{
	Use:   "difficulty",
	Short: "Check a solution against a difficulty target",
	Long: `difficulty prints the target of the configured packed difficulty and
whether the SHA-256 of the solution reaches it. The solution is not verified.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := shared.SolutionFromBytes(job.solution)
		if err != nil {
			return err
		}

		d := shared.Difficulty(cfg.Difficulty)
		order, mantissa := d.Unpack()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "difficulty: %s\n", d)
		fmt.Fprintf(out, "order:      %d\n", order)
		fmt.Fprintf(out, "mantissa:   %#x\n", mantissa)
		fmt.Fprintf(out, "target:     %s\n", d.Target().Hex())
		fmt.Fprintf(out, "reached:    %t\n", d.Reached(s))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(difficultyCmd)

	difficultyCmd.Flags().BytesHexVar(&job.solution, "solution", nil, "Solution, in hex (required)")
	_ = difficultyCmd.MarkFlagRequired("solution")
}
