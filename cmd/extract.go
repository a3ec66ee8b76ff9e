package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tripscore/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>...",
	Short: "Extract canonical records from markdown, JSON, YAML, CSV, TSV or XLSX files",
	Long: `Extract flights, return flights, hotels and activities from input files.

Markdown files are scanned for tables (flights) and fenced json blocks.
CSV, TSV and XLSX files are read as flight tables. JSON and YAML files are
read as provider payloads and routed by their envelope key.

With --format markdown the extracted flights are written back out as a
markdown table.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(cmd.Context(), args)
		if err != nil {
			return err
		}

		zap.L().Info("extracted records",
			zap.Int("files", len(args)),
			zap.Int("flights", len(doc.Flights)),
			zap.Int("return_flights", len(doc.ReturnFlights)),
			zap.Int("hotels", len(doc.Hotels)),
			zap.Int("activities", len(doc.Activities)),
		)

		out := cmd.OutOrStdout()
		if outputFormat == formatMarkdown {
			writeFlightTable(out, doc)
			return nil
		}
		return printOutput(out, doc, func(w io.Writer) { writeFlightTable(w, doc) })
	},
}

func writeFlightTable(w io.Writer, doc extract.Document) {
	_, _ = fmt.Fprintln(w, extract.RenderTable(extract.FlightTable(extract.Records(doc.Flights))))
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
