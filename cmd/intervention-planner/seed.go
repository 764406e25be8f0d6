package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"groupscholar-intervention-planner/internal/config"
	"groupscholar-intervention-planner/internal/planner"
	"groupscholar-intervention-planner/internal/roster"
	"groupscholar-intervention-planner/internal/store"
)

// seedOptions are the fixed parameters for sample runs. They differ from
// the plan defaults only in the three-week forecast.
func seedOptions() planner.Options {
	opts := planner.DefaultOptions()
	opts.ForecastWindowDays = 21
	opts.ForecastIncludeOverdue = true
	return opts
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store a sample run using the default thresholds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			return runSeed(cmd.Context(), cmd.OutOrStdout(), cfg,
				viper.GetString("seed.input"),
				viper.GetString("seed.today"),
				viper.GetString("seed.run_label"),
				time.Now())
		},
	}

	cmd.Flags().String("input", "data/sample.csv", "roster CSV for the seed run")
	cmd.Flags().String("today", "", "override today's date (YYYY-MM-DD)")
	cmd.Flags().String("run-label", "", "label for the seeded run")

	_ = viper.BindPFlag("seed.input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("seed.today", cmd.Flags().Lookup("today"))
	_ = viper.BindPFlag("seed.run_label", cmd.Flags().Lookup("run-label"))

	return cmd
}

func runSeed(ctx context.Context, out io.Writer, cfg config.Config, input, todayValue, label string, now time.Time) error {
	today, err := resolveToday(todayValue, now)
	if err != nil {
		return err
	}
	loaded, err := roster.LoadFile(input)
	if err != nil {
		return err
	}

	engine := planner.NewEngine(planner.DefaultThresholds(), planner.DefaultHighImpactFlags())
	report := engine.Analyze(loaded.Scholars, today, seedOptions(), now.UTC().Truncate(time.Second))
	if label == "" {
		label = store.DefaultRunLabel(input, report.Today)
	}

	s, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	runID, err := s.SaveRun(ctx, store.Run{
		Label:       label,
		Report:      report,
		InvalidRows: loaded.InvalidRows,
		BadDates:    loaded.BadDates,
	})
	if err != nil {
		return fmt.Errorf("seed run: %w", err)
	}
	slog.Info("seeded sample run", "run_id", runID, "schema", s.Schema(), "scholars", len(report.Records))
	fmt.Fprintf(out, "Seeded sample data into schema '%s' (run %s).\n", s.Schema(), runID)
	return nil
}

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recently stored runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			return listRuns(cmd.Context(), cmd.OutOrStdout(), cfg, viper.GetInt("runs.limit"))
		},
	}
	cmd.Flags().Int("limit", 10, "number of runs to show (0 for all)")
	_ = viper.BindPFlag("runs.limit", cmd.Flags().Lookup("limit"))
	return cmd
}

func listRuns(ctx context.Context, out io.Writer, cfg config.Config, limit int) error {
	s, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs stored yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLabel\tToday\tScholars\tOverdue\tNoTouch")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n", run.ID, run.Label, run.Today, run.Total, run.Overdue, run.NoTouch)
	}
	return w.Flush()
}
