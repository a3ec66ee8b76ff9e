package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/tripscore/internal/compare"
	"github.com/sells-group/tripscore/internal/extract"
	"github.com/sells-group/tripscore/internal/scorer"
)

var compareCmd = &cobra.Command{
	Use:   "compare <file>...",
	Short: "Compare the top three flights and recommend one",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		weights, err := resolveWeights(ctx, cmd)
		if err != nil {
			return err
		}
		doc, err := loadDocument(ctx, args)
		if err != nil {
			return err
		}

		scored := scorer.ScoreFlights(extract.Records(doc.Flights), weights)
		cmp := compare.Compare(scorer.Top(scored, compare.MaxCandidates))
		return printOutput(cmd.OutOrStdout(), cmp, func(w io.Writer) { formatComparison(w, cmp) })
	},
}

func init() {
	addWeightFlags(compareCmd)
	compareCmd.Flags().String("user", "", "read weights from this user's session")
	rootCmd.AddCommand(compareCmd)
}
