package store

import (
	"context"
	"fmt"
	"strings"
)

// column types that differ between the two dialects.
type dialectTypes struct {
	id        string
	date      string
	timestamp string
	now       string
	payload   string
	boolean   string
	numeric   string
}

func (s *Store) types() dialectTypes {
	if s.driver == DriverSQLite {
		return dialectTypes{
			id:        "text",
			date:      "text",
			timestamp: "text",
			now:       "CURRENT_TIMESTAMP",
			payload:   "text",
			boolean:   "integer",
			numeric:   "real",
		}
	}
	return dialectTypes{
		id:        "uuid",
		date:      "date",
		timestamp: "timestamptz",
		now:       "now()",
		payload:   "jsonb",
		boolean:   "boolean",
		numeric:   "numeric(8,2)",
	}
}

// EnsureSchema creates the schema, tables, and indexes when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	for _, stmt := range s.schemaStatements() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *Store) schemaStatements() []string {
	t := s.types()
	runs := s.table("runs")
	records := s.table("run_records")
	cohorts := s.table("cohort_summary")
	owners := s.table("owner_summary")
	escalations := s.table("escalations")

	var stmts []string
	if s.driver == DriverPostgres {
		stmts = append(stmts, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, s.schema))
	}

	stmts = append(stmts,
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id %[2]s PRIMARY KEY,
			run_label text NOT NULL,
			today %[3]s NOT NULL,
			generated_at %[4]s NOT NULL,
			high_risk %[5]s NOT NULL,
			medium_risk %[5]s NOT NULL,
			soon_days integer NOT NULL,
			stale_days integer NOT NULL,
			stale_boost %[5]s NOT NULL,
			total_scholars integer NOT NULL,
			overdue_count integer NOT NULL,
			due_soon_count integer NOT NULL,
			on_track_count integer NOT NULL,
			no_touch_count integer NOT NULL,
			high_risk_count integer NOT NULL,
			medium_risk_count integer NOT NULL,
			low_risk_count integer NOT NULL,
			stale_touch_count integer NOT NULL,
			invalid_rows integer NOT NULL,
			bad_dates integer NOT NULL,
			payload %[6]s NOT NULL,
			created_at %[4]s NOT NULL DEFAULT %[7]s
		)`, runs, t.id, t.date, t.timestamp, t.numeric, t.payload, t.now),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id %[3]s PRIMARY KEY,
			run_id %[3]s NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
			scholar_id text NOT NULL,
			name text,
			cohort text,
			owner text NOT NULL,
			channel text,
			risk_score %[5]s NOT NULL,
			risk_tier text NOT NULL,
			cadence_days integer NOT NULL,
			last_touch %[4]s,
			due_date %[4]s,
			days_since_touch integer,
			overdue_days integer,
			status text NOT NULL,
			priority_score %[5]s NOT NULL,
			priority_reasons text,
			recommended_action text NOT NULL,
			stale_touch %[6]s NOT NULL
		)`, records, runs, t.id, t.date, t.numeric, t.boolean),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id %[3]s PRIMARY KEY,
			run_id %[3]s NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
			cohort text NOT NULL,
			total integer NOT NULL,
			overdue integer NOT NULL,
			due_soon integer NOT NULL,
			no_touch integer NOT NULL,
			avg_priority %[4]s NOT NULL
		)`, cohorts, runs, t.id, t.numeric),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id %[3]s PRIMARY KEY,
			run_id %[3]s NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
			owner text NOT NULL,
			total integer NOT NULL,
			overdue integer NOT NULL,
			due_soon integer NOT NULL,
			no_touch integer NOT NULL,
			avg_priority %[4]s NOT NULL,
			alert_reasons text
		)`, owners, runs, t.id, t.numeric),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id %[3]s PRIMARY KEY,
			run_id %[3]s NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
			scholar_id text NOT NULL,
			name text,
			owner text NOT NULL,
			status text NOT NULL,
			priority_score %[4]s NOT NULL,
			overdue_days integer
		)`, escalations, runs, t.id, t.numeric),
	)

	prefix := s.schema + "_"
	for _, idx := range []struct{ name, table, column string }{
		{"run_records_run_idx", records, "run_id"},
		{"run_records_status_idx", records, "status"},
		{"cohort_summary_run_idx", cohorts, "run_id"},
		{"owner_summary_run_idx", owners, "run_id"},
		{"escalations_run_idx", escalations, "run_id"},
	} {
		stmts = append(stmts, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s%s ON %s (%s)`,
			prefix, idx.name, idx.table, idx.column))
	}
	return stmts
}

func joinReasons(reasons []string) string {
	return strings.Join(reasons, "; ")
}
