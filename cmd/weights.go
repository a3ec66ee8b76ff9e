package main

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/tripscore/internal/model"
	"github.com/sells-group/tripscore/internal/planner"
	"github.com/sells-group/tripscore/internal/scorer"
)

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Normalize, read and store preference weights",
}

var weightsNormalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize raw slider values into weights that sum to 1",
	RunE: func(cmd *cobra.Command, _ []string) error {
		raw, _ := rawFromFlags(cmd)
		weights := scorer.Normalize(raw)
		return printOutput(cmd.OutOrStdout(), weights, func(w io.Writer) { formatWeights(w, weights) })
	},
}

var weightsGetCmd = &cobra.Command{
	Use:   "get <user>",
	Short: "Show the stored weights for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initPlanner(ctx, "engine")
		if err != nil {
			return err
		}
		defer env.Close()

		sess, err := env.Planner.Session(ctx, args[0])
		if err != nil {
			return err
		}
		return printSession(cmd.OutOrStdout(), sess)
	},
}

var weightsSetCmd = &cobra.Command{
	Use:   "set <user>",
	Short: "Normalize and store weights for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, ok := rawFromFlags(cmd)
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			var values map[string]any
			if err := readJSONInput(file, &values); err != nil {
				return err
			}
			raw, ok = scorer.RawFromAny(values), true
		}
		if !ok {
			return eris.New("weights set: at least one of --budget, --quality, --convenience or --file is required")
		}

		ctx := cmd.Context()
		env, err := initPlanner(ctx, "engine")
		if err != nil {
			return err
		}
		defer env.Close()

		sess, err := env.Planner.UpdateWeights(ctx, args[0], raw)
		if err != nil {
			return err
		}
		return printSession(cmd.OutOrStdout(), sess)
	},
}

func printSession(out io.Writer, sess planner.Session) error {
	return printOutput(out, sess, func(w io.Writer) { formatWeights(w, sess.Weights) })
}

func addWeightFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("budget", 0, "budget slider value")
	f.Float64("quality", 0, "quality slider value")
	f.Float64("convenience", 0, "convenience slider value")
}

// rawFromFlags reads the weight flags that were set. It reports false when
// none were.
func rawFromFlags(cmd *cobra.Command) (model.RawWeights, bool) {
	var raw model.RawWeights
	set := false
	for name, dst := range map[string]**float64{
		"budget":      &raw.Budget,
		"quality":     &raw.Quality,
		"convenience": &raw.Convenience,
	} {
		if !cmd.Flags().Changed(name) {
			continue
		}
		v, _ := cmd.Flags().GetFloat64(name)
		*dst = &v
		set = true
	}
	return raw, set
}

// resolveWeights picks the weights for a stateless command: explicit flags,
// then the --user session, then the configured default.
func resolveWeights(ctx context.Context, cmd *cobra.Command) (model.PreferenceWeights, error) {
	if raw, ok := rawFromFlags(cmd); ok {
		return scorer.Normalize(raw), nil
	}
	user, _ := cmd.Flags().GetString("user")
	if user == "" {
		return scorer.FromConfig(cfg.Scoring).SessionDefault(), nil
	}

	env, err := initPlanner(ctx, "engine")
	if err != nil {
		return model.PreferenceWeights{}, err
	}
	defer env.Close()

	sess, err := env.Planner.Session(ctx, user)
	if err != nil {
		return model.PreferenceWeights{}, err
	}
	return sess.Weights, nil
}

func init() {
	addWeightFlags(weightsNormalizeCmd)
	addWeightFlags(weightsSetCmd)
	weightsSetCmd.Flags().String("file", "", "read slider values from a JSON or YAML file")

	weightsCmd.AddCommand(weightsNormalizeCmd, weightsGetCmd, weightsSetCmd)
	rootCmd.AddCommand(weightsCmd)
}
