package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tripscore/internal/extract"
	"github.com/sells-group/tripscore/internal/itinerary"
	"github.com/sells-group/tripscore/internal/model"
	"github.com/sells-group/tripscore/internal/scorer"
)

var itineraryCmd = &cobra.Command{
	Use:   "itinerary <file>...",
	Short: "Assemble a day-by-day itinerary from extracted options",
	Long: `Assemble an itinerary from the best-scoring flight, return flight and
hotel found in the input files, filling middle days with activities in score
order. A missing or unparseable --start is an error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runItinerary,
}

func init() {
	f := itineraryCmd.Flags()
	f.String("start", "", "trip start date (required)")
	f.String("end", "", "trip end date (default: start)")
	f.String("return", "", "return flight date")
	f.String("locale", "", "date label locale (default from config)")
	f.String("user", "", "read weights from this user's session")
	addWeightFlags(itineraryCmd)
	rootCmd.AddCommand(itineraryCmd)
}

func runItinerary(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	startFlag, _ := cmd.Flags().GetString("start")
	endFlag, _ := cmd.Flags().GetString("end")
	retFlag, _ := cmd.Flags().GetString("return")

	start, end, ret, err := itinerary.ResolveDates(startFlag, endFlag, retFlag)
	if err != nil {
		return err
	}

	weights, err := resolveWeights(ctx, cmd)
	if err != nil {
		return err
	}
	doc, err := loadDocument(ctx, args)
	if err != nil {
		return err
	}

	locale, _ := cmd.Flags().GetString("locale")
	if locale == "" {
		locale = cfg.Itinerary.Locale
	}
	in := itinerary.Input{
		Start:            start,
		End:              end,
		Return:           ret,
		Locale:           locale,
		ActivitiesPerDay: cfg.Itinerary.ActivitiesPerDay,
	}
	if best, ok := scorer.Best(scorer.ScoreFlights(extract.Records(doc.Flights), weights)); ok {
		in.Flight = &best
	}
	if best, ok := scorer.Best(scorer.ScoreFlights(extract.Records(doc.ReturnFlights), weights)); ok {
		in.ReturnFlight = &best
	}
	if best, ok := scorer.Best(scorer.ScoreHotels(extract.Records(doc.Hotels), weights)); ok {
		in.Hotel = &best
	}
	for _, a := range scorer.Rank(scorer.ScoreActivities(extract.Records(doc.Activities), weights)) {
		in.Activities = append(in.Activities, a.Candidate)
	}

	days, err := itinerary.Assemble(in)
	if err != nil {
		return err
	}
	zap.L().Info("itinerary assembled", zap.Int("days", len(days)))

	return printOutput(cmd.OutOrStdout(), struct {
		Days []model.ItineraryDay `json:"days"`
	}{days}, func(w io.Writer) { formatItinerary(w, days) })
}
