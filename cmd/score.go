package main

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/tripscore/internal/extract"
	"github.com/sells-group/tripscore/internal/model"
	"github.com/sells-group/tripscore/internal/scorer"
)

var scoreCmd = &cobra.Command{
	Use:   "score <flights|hotels|activities> <file>...",
	Short: "Score extracted options against preference weights",
	Long: `Score flights, hotels or activities read from input files.

Weights come from --budget/--quality/--convenience when any is set, then
from the stored session of --user, then from the configured default.

Examples:
  # Budget-first flight ranking from a provider payload
  score flights testdata/flights.json --budget 1 --quality 0 --convenience 0

  # Hotels using alice's stored weights, as a table
  score hotels testdata/hotels.yaml --user alice --format table`,
	Args: cobra.MinimumNArgs(2),
	RunE: runScore,
}

func init() {
	addWeightFlags(scoreCmd)
	scoreCmd.Flags().String("user", "", "read weights from this user's session")
	scoreCmd.Flags().Bool("rank", true, "sort results by score, highest first")
	rootCmd.AddCommand(scoreCmd)
}

type scoreOutput[T model.Candidate] struct {
	Weights model.PreferenceWeights    `json:"weights"`
	Results []model.ScoredCandidate[T] `json:"results"`
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	kind, paths := args[0], args[1:]

	weights, err := resolveWeights(ctx, cmd)
	if err != nil {
		return err
	}
	doc, err := loadDocument(ctx, paths)
	if err != nil {
		return err
	}
	rank, _ := cmd.Flags().GetBool("rank")
	out := cmd.OutOrStdout()

	switch kind {
	case "flights":
		flights := scorer.MarkOptimal(extract.Records(doc.Flights), scorer.FromConfig(cfg.Scoring))
		res := maybeRank(scorer.ScoreFlights(flights, weights), rank)
		return printOutput(out, scoreOutput[model.FlightOption]{weights, res}, func(w io.Writer) { formatScoredFlights(w, res) })
	case "hotels":
		res := maybeRank(scorer.ScoreHotels(extract.Records(doc.Hotels), weights), rank)
		return printOutput(out, scoreOutput[model.HotelOption]{weights, res}, func(w io.Writer) { formatScoredHotels(w, res) })
	case "activities":
		res := maybeRank(scorer.ScoreActivities(extract.Records(doc.Activities), weights), rank)
		return printOutput(out, scoreOutput[model.ActivityOption]{weights, res}, func(w io.Writer) { formatScoredActivities(w, res) })
	default:
		return eris.Errorf("score: unknown option kind %q (want flights, hotels or activities)", kind)
	}
}

func maybeRank[T model.Candidate](scored []model.ScoredCandidate[T], rank bool) []model.ScoredCandidate[T] {
	if rank {
		return scorer.Rank(scored)
	}
	return scored
}
