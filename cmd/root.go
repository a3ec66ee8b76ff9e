package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tripscore/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "tripscore",
	Short: "Preference-weighted trip scoring and itinerary assembly",
	Long: "Extracts flights, hotels and activities from provider payloads, markdown and spreadsheets, " +
		"scores them against budget/quality/convenience weights, compares flights and lays out day-by-day itineraries.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", formatJSON, "output format: json or table")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
