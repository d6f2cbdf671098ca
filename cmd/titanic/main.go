// Command titanic trains and evaluates the survival model over a
// passenger manifest.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rich1707/Titanic/pkg/dataset"
	"github.com/rich1707/Titanic/pkg/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		dataPath   string
		seed       int64
		evalRatio  float64
		verbose    bool
	)

	root := &cobra.Command{
		Use:           "titanic",
		Short:         "Feature engineering and survival classification over the passenger manifest",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: derive features, tune, fit, and score",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := pipeline.Default()
			if configPath != "" {
				var err error
				if cfg, err = pipeline.Load(configPath); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("data") {
				cfg.DataPath = dataPath
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if cmd.Flags().Changed("eval-ratio") {
				cfg.EvalRatio = evalRatio
			}

			logger, err := buildLogger(verbose)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			passengers, err := dataset.LoadCSV(cfg.DataPath)
			if err != nil {
				return err
			}

			report, err := pipeline.New(cfg, logger.Sugar()).Run(cmd.Context(), passengers)
			if err != nil {
				return err
			}
			printReport(cmd, report)
			return nil
		},
	}
	run.Flags().StringVarP(&configPath, "config", "c", "", "YAML run configuration")
	run.Flags().StringVar(&dataPath, "data", "", "passenger manifest CSV")
	run.Flags().Int64Var(&seed, "seed", 0, "override the run seed")
	run.Flags().Float64Var(&evalRatio, "eval-ratio", 0, "override the evaluation split ratio")
	run.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(run)
	return root
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}

func printReport(cmd *cobra.Command, r *pipeline.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s\n", r.RunID)
	fmt.Fprintf(out, "train/eval rows: %d/%d\n", r.TrainRows, r.EvalRows)
	fmt.Fprintf(out, "best params: %+v (cv accuracy %.4f)\n", r.Best, r.CVAccuracy)
	fmt.Fprintf(out, "eval accuracy: %.4f  precision: %.4f  recall: %.4f  f1: %.4f\n",
		r.Accuracy, r.Precision, r.Recall, r.F1)

	names := make([]string, 0, len(r.Importances))
	for name := range r.Importances {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if r.Importances[names[i]] != r.Importances[names[j]] {
			return r.Importances[names[i]] > r.Importances[names[j]]
		}
		return names[i] < names[j]
	})
	fmt.Fprintln(out, "feature importances:")
	for _, name := range names {
		fmt.Fprintf(out, "  %-30s %.4f\n", name, r.Importances[name])
	}
}
