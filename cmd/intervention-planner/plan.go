package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"groupscholar-intervention-planner/internal/config"
	"groupscholar-intervention-planner/internal/planner"
	"groupscholar-intervention-planner/internal/render"
	"groupscholar-intervention-planner/internal/roster"
	"groupscholar-intervention-planner/internal/store"
)

// planRequest holds the per-invocation inputs that are not part of Config.
type planRequest struct {
	Input     string
	Today     string
	JSONPath  string
	YAMLPath  string
	AlertsCSV string
	MinStatus string
	Persist   bool
	InitDB    bool
	RunLabel  string
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Score a roster and print the intervention plan",
		Long: `Reads a roster CSV, assigns each scholar a risk tier and contact cadence,
and prints a prioritized action queue with cohort, owner, and horizon rollups.`,
		RunE: runPlanCmd,
	}

	cmd.Flags().StringP("input", "i", "", "roster CSV path (required)")
	cmd.Flags().String("today", "", "override today's date (YYYY-MM-DD)")
	cmd.Flags().String("json", "", "write the full report as JSON to this path")
	cmd.Flags().String("yaml", "", "write the full report as YAML to this path")
	cmd.Flags().String("alerts", "", "write an alerts CSV to this path")
	cmd.Flags().String("min-status", "due-soon", "minimum status for the alerts CSV (on-track, due-soon, overdue)")
	cmd.Flags().Bool("db", false, "store the run in the database")
	cmd.Flags().Bool("init-db", false, "create tables and store the run only if no runs exist yet")
	cmd.Flags().String("run-label", "", "label for the stored run (default: <input>-<today>)")

	cmd.Flags().Float64("high-risk", 70, "risk score for the high tier")
	cmd.Flags().Float64("medium-risk", 40, "risk score for the medium tier")
	cmd.Flags().Int("soon-days", 14, "days ahead that count as due soon")
	cmd.Flags().Int("stale-days", 60, "days since last touch that count as stale")
	cmd.Flags().Float64("stale-boost", 15, "priority boost for stale touches")
	cmd.Flags().StringSlice("high-impact-flags", planner.DefaultHighImpactFlags(), "flags that add priority")
	cmd.Flags().Int("limit", 10, "rows in the priority action queue (0 for all)")
	cmd.Flags().Int("cohort-limit", 5, "rows in the cohort table (0 for all)")
	cmd.Flags().Int("owner-limit", 5, "rows in the owner tables (0 for all)")
	cmd.Flags().Int("owner-queue-limit", 5, "owners in the owner queue export")
	cmd.Flags().Int("owner-queue-size", 3, "scholars per owner queue")
	cmd.Flags().Int("channel-batch-limit", 4, "channels in the batch export")
	cmd.Flags().Int("channel-batch-size", 3, "scholars per channel batch")
	cmd.Flags().Int("escalation-limit", 5, "maximum escalation candidates")
	cmd.Flags().Float64("escalation-min-score", 90, "minimum priority for escalation")
	cmd.Flags().Int("forecast-window-days", 14, "days covered by the touchpoint forecast")
	cmd.Flags().Bool("forecast-include-overdue", true, "fold overdue touches into today's forecast")
	cmd.Flags().Int("owner-capacity-window-days", 7, "window for owner capacity")
	cmd.Flags().Int("owner-capacity-daily", 3, "touches an owner can make per day")
	cmd.Flags().Bool("owner-capacity-exclude-overdue", false, "leave overdue touches out of owner capacity")
	cmd.Flags().Int("owner-overdue-threshold", 2, "overdue count that raises an owner alert (0 disables)")
	cmd.Flags().Int("owner-no-touch-threshold", 1, "no-touch count that raises an owner alert (0 disables)")
	cmd.Flags().Int("owner-total-threshold", 8, "caseload that raises an owner alert (0 disables)")

	for flag, key := range map[string]string{
		"input":                          "plan.input",
		"today":                          "plan.today",
		"json":                           "plan.json",
		"yaml":                           "plan.yaml",
		"alerts":                         "plan.alerts",
		"min-status":                     "plan.min_status",
		"db":                             "plan.db",
		"init-db":                        "plan.init_db",
		"run-label":                      "plan.run_label",
		"high-risk":                      "thresholds.high_risk",
		"medium-risk":                    "thresholds.medium_risk",
		"soon-days":                      "thresholds.soon_days",
		"stale-days":                     "thresholds.stale_days",
		"stale-boost":                    "thresholds.stale_boost",
		"high-impact-flags":              "thresholds.high_impact_flags",
		"limit":                          "report.limit",
		"cohort-limit":                   "report.cohort_limit",
		"owner-limit":                    "report.owner_limit",
		"owner-queue-limit":              "report.owner_queue_limit",
		"owner-queue-size":               "report.owner_queue_size",
		"channel-batch-limit":            "report.channel_batch_limit",
		"channel-batch-size":             "report.channel_batch_size",
		"escalation-limit":               "report.escalation_limit",
		"escalation-min-score":           "report.escalation_min_score",
		"forecast-window-days":           "report.forecast_window_days",
		"forecast-include-overdue":       "report.forecast_include_overdue",
		"owner-capacity-window-days":     "report.owner_capacity_window_days",
		"owner-capacity-daily":           "report.owner_capacity_daily",
		"owner-capacity-exclude-overdue": "report.owner_capacity_exclude_overdue",
		"owner-overdue-threshold":        "report.owner_overdue_threshold",
		"owner-no-touch-threshold":       "report.owner_no_touch_threshold",
		"owner-total-threshold":          "report.owner_total_threshold",
	} {
		_ = viper.BindPFlag(key, cmd.Flags().Lookup(flag))
	}

	return cmd
}

func runPlanCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	req := planRequest{
		Input:     viper.GetString("plan.input"),
		Today:     viper.GetString("plan.today"),
		JSONPath:  viper.GetString("plan.json"),
		YAMLPath:  viper.GetString("plan.yaml"),
		AlertsCSV: viper.GetString("plan.alerts"),
		MinStatus: viper.GetString("plan.min_status"),
		Persist:   viper.GetBool("plan.db"),
		InitDB:    viper.GetBool("plan.init_db"),
		RunLabel:  viper.GetString("plan.run_label"),
	}
	return runPlan(cmd.Context(), cmd.OutOrStdout(), cfg, req, time.Now())
}

func runPlan(ctx context.Context, out io.Writer, cfg config.Config, req planRequest, now time.Time) error {
	if req.Input == "" {
		return errors.New("--input is required")
	}
	if req.AlertsCSV != "" {
		if _, ok := render.StatusRank(req.MinStatus); !ok {
			return fmt.Errorf("invalid --min-status value: %s", req.MinStatus)
		}
	}

	today, err := resolveToday(req.Today, now)
	if err != nil {
		return err
	}

	loaded, err := roster.LoadFile(req.Input)
	if err != nil {
		return err
	}
	slog.Info("roster loaded", "path", req.Input, "scholars", len(loaded.Scholars))
	if loaded.InvalidRows > 0 || loaded.BadDates > 0 {
		slog.Warn("roster rows need attention", "invalid_rows", loaded.InvalidRows, "bad_dates", loaded.BadDates)
	}

	engine := planner.NewEngine(cfg.EngineThresholds(), cfg.Thresholds.HighImpactFlags)
	report := engine.Analyze(loaded.Scholars, today, cfg.AnalysisOptions(), now.UTC().Truncate(time.Second))

	display := render.Display{
		Limit:       cfg.Report.Limit,
		CohortLimit: cfg.Report.CohortLimit,
		OwnerLimit:  cfg.Report.OwnerLimit,
	}
	if err := render.PrintReport(out, report, req.Input, display); err != nil {
		return fmt.Errorf("print report: %w", err)
	}

	if req.JSONPath != "" {
		if err := render.WriteJSON(report, req.JSONPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nJSON report written to %s\n", req.JSONPath)
	}
	if req.YAMLPath != "" {
		if err := render.WriteYAML(report, req.YAMLPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nYAML report written to %s\n", req.YAMLPath)
	}
	if req.AlertsCSV != "" {
		if err := render.WriteAlertsCSV(report, req.AlertsCSV, req.MinStatus); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nAlerts CSV written to %s\n", req.AlertsCSV)
	}

	if !req.Persist && !req.InitDB {
		return nil
	}

	label := req.RunLabel
	if label == "" {
		label = store.DefaultRunLabel(req.Input, report.Today)
	}
	run := store.Run{
		Label:       label,
		Report:      report,
		InvalidRows: loaded.InvalidRows,
		BadDates:    loaded.BadDates,
	}

	s, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if req.InitDB {
		runID, seeded, err := s.Seed(ctx, run)
		if err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
		if !seeded {
			fmt.Fprintln(out, "\nRun data already present; skipping seed.")
			return nil
		}
		slog.Info("seeded run store", "run_id", runID, "label", label)
		fmt.Fprintf(out, "\nSeeded database with run %s\n", runID)
		return nil
	}

	runID, err := s.SaveRun(ctx, run)
	if err != nil {
		return fmt.Errorf("store run: %w", err)
	}
	slog.Info("stored run", "run_id", runID, "label", label)
	fmt.Fprintf(out, "\nStored run %s\n", runID)
	return nil
}

func resolveToday(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return planner.DateOnly(now), nil
	}
	parsed, err := roster.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today date: %w", err)
	}
	return parsed, nil
}

// openStore connects to the configured run store and ensures its tables exist.
func openStore(ctx context.Context, cfg config.Config) (*store.Store, error) {
	dbEnv, err := config.LoadDBEnv()
	if err != nil {
		return nil, err
	}

	var dsn string
	switch cfg.DB.Driver {
	case store.DriverSQLite:
		dsn = dbEnv.SQLitePath
	default:
		if dsn, err = dbEnv.PostgresDSN(); err != nil {
			return nil, err
		}
	}

	s, err := store.Open(ctx, cfg.DB.Driver, dsn, cfg.DB.Schema)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
