package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"groupscholar-intervention-planner/internal/planner"
)

// Run is one planner execution ready to persist.
type Run struct {
	Label       string
	Report      planner.Report
	InvalidRows int
	BadDates    int
}

// RunInfo is the stored headline of a run.
type RunInfo struct {
	ID      string
	Label   string
	Today   string
	Total   int
	Overdue int
	NoTouch int
}

// DefaultRunLabel names a run after its input file and date, e.g. "roster-2024-04-01".
func DefaultRunLabel(inputPath string, today string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "run"
	}
	return base + "-" + today
}

// SaveRun writes the run and its rollups in one transaction and returns the run id.
func (s *Store) SaveRun(ctx context.Context, run Run) (string, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	runID, err := s.insertRun(ctx, tx, run)
	if err != nil {
		_ = tx.Rollback()
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	return runID.String(), nil
}

// Seed stores run only when no runs exist yet. It reports whether a run was written.
func (s *Store) Seed(ctx context.Context, run Run) (string, bool, error) {
	count, err := s.CountRuns(ctx)
	if err != nil {
		return "", false, err
	}
	if count > 0 {
		return "", false, nil
	}
	id, err := s.SaveRun(ctx, run)
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// CountRuns returns the number of stored runs.
func (s *Store) CountRuns(ctx context.Context) (int, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	query, args, err := s.builder.Select("COUNT(*)").From(s.table("runs")).ToSql()
	if err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return count, nil
}

// RecentRuns lists up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	builder := s.builder.
		Select("CAST(id AS text)", "run_label", "CAST(today AS text)", "total_scholars", "overdue_count", "no_touch_count").
		From(s.table("runs")).
		OrderBy("generated_at DESC", "created_at DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var info RunInfo
		if err := rows.Scan(&info.ID, &info.Label, &info.Today, &info.Total, &info.Overdue, &info.NoTouch); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return runs, nil
}

func (s *Store) insertRun(ctx context.Context, tx *sql.Tx, run Run) (uuid.UUID, error) {
	report := run.Report
	runID := uuid.New()

	today, err := time.Parse("2006-01-02", report.Today)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse run date: %w", err)
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode run payload: %w", err)
	}

	summary := report.Summary.Summary
	th := report.Thresholds
	err = s.exec(ctx, tx, s.builder.Insert(s.table("runs")).
		Columns(
			"id", "run_label", "today", "generated_at",
			"high_risk", "medium_risk", "soon_days", "stale_days", "stale_boost",
			"total_scholars", "overdue_count", "due_soon_count", "on_track_count", "no_touch_count",
			"high_risk_count", "medium_risk_count", "low_risk_count", "stale_touch_count",
			"invalid_rows", "bad_dates", "payload",
		).
		Values(
			runID.String(), run.Label, s.dateValue(&today), s.timestampValue(report.GeneratedAt),
			th.HighRisk, th.MediumRisk, th.SoonDays, th.StaleDays, th.StaleBoost,
			summary.Total, summary.Overdue, summary.DueSoon, summary.OnTrack, summary.NoTouch,
			summary.HighRisk, summary.MediumRisk, summary.LowRisk, summary.StaleTouch,
			run.InvalidRows, run.BadDates, string(payload),
		))
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert run: %w", err)
	}

	for _, entry := range report.Records {
		err = s.exec(ctx, tx, s.builder.Insert(s.table("run_records")).
			Columns(
				"id", "run_id", "scholar_id", "name", "cohort", "owner", "channel",
				"risk_score", "risk_tier", "cadence_days", "last_touch", "due_date",
				"days_since_touch", "overdue_days", "status", "priority_score",
				"priority_reasons", "recommended_action", "stale_touch",
			).
			Values(
				uuid.NewString(), runID.String(), entry.ScholarID, nullString(entry.Name), nullString(entry.Cohort), entry.Owner, nullString(entry.Channel),
				entry.RiskScore, string(entry.RiskTier), entry.CadenceDays, s.dateValue(entry.LastTouch), s.dateValue(entry.DueDate),
				nullInt(entry.DaysSinceTouch), nullInt(entry.OverdueDays), string(entry.Status), entry.PriorityScore,
				nullString(joinReasons(entry.PriorityReasons)), entry.RecommendedAction, entry.StaleTouch,
			))
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert record %s: %w", entry.ScholarID, err)
		}
	}

	for _, entry := range report.CohortSummary {
		err = s.exec(ctx, tx, s.builder.Insert(s.table("cohort_summary")).
			Columns("id", "run_id", "cohort", "total", "overdue", "due_soon", "no_touch", "avg_priority").
			Values(uuid.NewString(), runID.String(), entry.Cohort, entry.Total, entry.Overdue, entry.DueSoon, entry.NoTouch, entry.AvgPriority))
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert cohort summary: %w", err)
		}
	}

	alerts := make(map[string][]string, len(report.Summary.OwnerAlerts))
	for _, alert := range report.Summary.OwnerAlerts {
		alerts[alert.Owner] = alert.Reasons
	}
	for _, entry := range report.OwnerSummary {
		err = s.exec(ctx, tx, s.builder.Insert(s.table("owner_summary")).
			Columns("id", "run_id", "owner", "total", "overdue", "due_soon", "no_touch", "avg_priority", "alert_reasons").
			Values(uuid.NewString(), runID.String(), entry.Owner, entry.Total, entry.Overdue, entry.DueSoon, entry.NoTouch, entry.AvgPriority,
				nullString(joinReasons(alerts[entry.Owner]))))
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert owner summary: %w", err)
		}
	}

	for _, entry := range report.EscalationCandidates {
		err = s.exec(ctx, tx, s.builder.Insert(s.table("escalations")).
			Columns("id", "run_id", "scholar_id", "name", "owner", "status", "priority_score", "overdue_days").
			Values(uuid.NewString(), runID.String(), entry.ScholarID, nullString(entry.Name), entry.Owner, string(entry.Status),
				entry.PriorityScore, nullInt(entry.OverdueDays)))
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert escalation: %w", err)
		}
	}

	return runID, nil
}

type sqlizer interface {
	ToSql() (string, []interface{}, error)
}

func (s *Store) exec(ctx context.Context, tx *sql.Tx, stmt sqlizer) error {
	query, args, err := stmt.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// dateValue stores dates as DATE on postgres and as ISO text on sqlite.
func (s *Store) dateValue(value *time.Time) any {
	if value == nil || value.IsZero() {
		return nil
	}
	day := planner.DateOnly(*value)
	if s.driver == DriverSQLite {
		return day.Format("2006-01-02")
	}
	return day
}

func (s *Store) timestampValue(value time.Time) any {
	if s.driver == DriverSQLite {
		return value.UTC().Format(time.RFC3339)
	}
	return value
}

func nullString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func nullInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}
