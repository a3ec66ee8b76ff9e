package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/tidwall/pretty"

	"github.com/sells-group/tripscore/internal/extract"
	"github.com/sells-group/tripscore/internal/model"
)

const (
	formatJSON     = "json"
	formatTable    = "table"
	formatMarkdown = "markdown"
)

var outputFormat string

func printJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return eris.Wrap(err, "marshal output")
	}
	_, err = w.Write(pretty.Pretty(data))
	return err
}

// printOutput writes v as JSON, or through table when the table format was
// requested and a table renderer exists.
func printOutput(w io.Writer, v any, table func(io.Writer)) error {
	switch outputFormat {
	case formatTable:
		if table != nil {
			table(w)
			return nil
		}
		return printJSON(w, v)
	case formatJSON, "":
		return printJSON(w, v)
	default:
		return eris.Errorf("unsupported output format %q", outputFormat)
	}
}

func formatScoredFlights(out io.Writer, scored []model.ScoredCandidate[model.FlightOption]) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SCORE\tAIRLINE\tFLIGHT\tPRICE\tDURATION\tSTOPS\tOPTIMAL")
	_, _ = fmt.Fprintln(w, "-----\t-------\t------\t-----\t--------\t-----\t-------")
	for _, s := range scored {
		f := s.Candidate
		optimal := ""
		if f.IsOptimal {
			optimal = "yes"
		}
		_, _ = fmt.Fprintf(w, "%.1f\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.WeightedScore, f.Airline, f.FlightNumber,
			extract.FormatPrice(f.PriceAmount, f.CurrencyCode),
			extract.FormatDuration(f.DurationHours),
			extract.FormatStops(f.StopCount),
			optimal,
		)
	}
	_ = w.Flush()
}

func formatScoredHotels(out io.Writer, scored []model.ScoredCandidate[model.HotelOption]) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SCORE\tHOTEL\tLOCATION\tPER NIGHT\tRATING")
	_, _ = fmt.Fprintln(w, "-----\t-----\t--------\t---------\t------")
	for _, s := range scored {
		h := s.Candidate
		_, _ = fmt.Fprintf(w, "%.1f\t%s\t%s\t%s\t%.1f\n",
			s.WeightedScore, h.Name, h.Location,
			extract.FormatPrice(h.PricePerNight, h.CurrencyCode), h.Rating)
	}
	_ = w.Flush()
}

func formatScoredActivities(out io.Writer, scored []model.ScoredCandidate[model.ActivityOption]) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SCORE\tACTIVITY\tDURATION\tPRICE\tRATING")
	_, _ = fmt.Fprintln(w, "-----\t--------\t--------\t-----\t------")
	for _, s := range scored {
		a := s.Candidate
		_, _ = fmt.Fprintf(w, "%.1f\t%s\t%s\t%s\t%.1f\n",
			s.WeightedScore, a.Name, a.DurationLabel,
			extract.FormatPrice(a.PriceAmount, a.CurrencyCode), a.Rating)
	}
	_ = w.Flush()
}

func formatItinerary(out io.Writer, days []model.ItineraryDay) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, d := range days {
		_, _ = fmt.Fprintf(w, "Day %d\t%s\n", d.DayIndex, d.DateLabel)
		for _, it := range d.Items {
			title := it.Title
			if it.IsPlaceholder {
				title += " (placeholder)"
			}
			_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\n", it.TimeLabel, it.Kind, title)
		}
	}
	_ = w.Flush()
}

func formatComparison(out io.Writer, cmp model.Comparison) {
	if len(cmp.Insights) == 0 {
		_, _ = fmt.Fprintln(out, "Not enough flights to compare.")
		return
	}
	for _, in := range cmp.Insights {
		_, _ = fmt.Fprintf(out, "[%s] %s\n", strings.ToUpper(string(in.Kind)), in.Text)
	}
}

func formatWeights(out io.Writer, weights model.PreferenceWeights) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Budget:\t%.3f\n", weights.Budget)
	_, _ = fmt.Fprintf(w, "Quality:\t%.3f\n", weights.Quality)
	_, _ = fmt.Fprintf(w, "Convenience:\t%.3f\n", weights.Convenience)
	_ = w.Flush()
}
