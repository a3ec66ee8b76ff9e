package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/tripscore/internal/planner"
	"github.com/sells-group/tripscore/internal/provider"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Fetch provider data and plan a full trip",
	Long: `Fetch flights, hotels and activities from the configured provider, score
them with the user's weights, assemble an itinerary, compare the top flights
and cache the itinerary for the user.

Examples:
  # Plan from local fixtures
  plan --user alice --origin JFK --destination IST --depart 2026-03-10 --return 2026-03-14

  # One-way trip with an explicit end date, budget-first
  plan --user bob --destination IST --depart 2026-03-10 --end 2026-03-12 --budget 1`,
	RunE: runPlan,
}

func init() {
	f := planCmd.Flags()
	f.String("user", "", "user key (required)")
	f.String("origin", "", "origin airport code")
	f.String("destination", "", "destination airport code")
	f.String("depart", "", "departure date (required)")
	f.String("return", "", "return date")
	f.String("end", "", "trip end date (default: return date)")
	f.String("location", "", "hotel and activity area (default: destination)")
	f.Int("adults", 1, "number of adult travellers")
	f.Int("max", 0, "maximum options per provider (default from config)")
	addWeightFlags(planCmd)
	_ = planCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := initPlanner(ctx, "plan")
	if err != nil {
		return err
	}
	defer env.Close()

	f := cmd.Flags()
	user, _ := f.GetString("user")
	q := provider.Query{}
	q.Origin, _ = f.GetString("origin")
	q.Destination, _ = f.GetString("destination")
	q.DepartDate, _ = f.GetString("depart")
	q.ReturnDate, _ = f.GetString("return")
	q.Location, _ = f.GetString("location")
	q.Adults, _ = f.GetInt("adults")
	q.Max, _ = f.GetInt("max")
	if q.Max <= 0 {
		q.Max = cfg.Provider.MaxOptionCount
	}

	req := planner.Request{Query: q}
	req.EndDate, _ = f.GetString("end")
	if raw, ok := rawFromFlags(cmd); ok {
		req.Weights = &raw
	}

	res, err := env.Planner.Plan(ctx, user, req)
	if err != nil {
		return eris.Wrap(err, "plan")
	}

	return printOutput(cmd.OutOrStdout(), res, func(w io.Writer) {
		formatScoredFlights(w, res.Flights)
		_, _ = fmt.Fprintln(w)
		formatScoredHotels(w, res.Hotels)
		_, _ = fmt.Fprintln(w)
		formatItinerary(w, res.Itinerary)
		_, _ = fmt.Fprintln(w)
		formatComparison(w, res.Comparison)
	})
}
