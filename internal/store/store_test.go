package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupscholar-intervention-planner/internal/planner"
)

var storeToday = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

func openSQLite(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planner.db")
	s, err := Open(context.Background(), DriverSQLite, path, "planner_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func testRun(t *testing.T) Run {
	t.Helper()
	touched := storeToday.AddDate(0, 0, -40)
	scholars := []planner.Scholar{
		{ID: "S1", Name: "Ava Cole", Cohort: "Fall", Owner: "Advisor A", Channel: "sms", LastTouch: &touched, RiskScore: 92, Flags: []string{"crisis"}},
		{ID: "S2", Name: "Ben Diaz", Cohort: "Fall", Owner: "Advisor A", Channel: "email", RiskScore: 50},
		{ID: "S3", Name: "Cam Ess", Cohort: "Spring", Channel: "call", LastTouch: &touched, RiskScore: 10},
	}
	engine := planner.NewEngine(planner.DefaultThresholds(), planner.DefaultHighImpactFlags())
	report := engine.Analyze(scholars, storeToday, planner.DefaultOptions(), storeToday.Add(9*time.Hour))
	return Run{Label: "roster-2024-04-01", Report: report, InvalidRows: 1}
}

func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM "+s.table(table)).Scan(&count))
	return count
}

func TestSaveRunWritesRollups(t *testing.T) {
	s := openSQLite(t)
	run := testRun(t)

	id, err := s.SaveRun(context.Background(), run)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	assert.Equal(t, 1, countRows(t, s, "runs"))
	assert.Equal(t, 3, countRows(t, s, "run_records"))
	assert.Equal(t, len(run.Report.CohortSummary), countRows(t, s, "cohort_summary"))
	assert.Equal(t, len(run.Report.OwnerSummary), countRows(t, s, "owner_summary"))
	assert.Equal(t, len(run.Report.EscalationCandidates), countRows(t, s, "escalations"))

	var lastTouch, dueDate *string
	var overdueDays *int
	require.NoError(t, s.db.QueryRow(
		"SELECT last_touch, due_date, overdue_days FROM "+s.table("run_records")+" WHERE scholar_id = ?", "S1",
	).Scan(&lastTouch, &dueDate, &overdueDays))
	require.NotNil(t, lastTouch)
	assert.Equal(t, "2024-02-21", *lastTouch)
	assert.Equal(t, "2024-02-28", *dueDate)
	assert.Equal(t, 33, *overdueDays)

	require.NoError(t, s.db.QueryRow(
		"SELECT last_touch, due_date FROM "+s.table("run_records")+" WHERE scholar_id = ?", "S2",
	).Scan(&lastTouch, &dueDate))
	assert.Nil(t, lastTouch)
	assert.Nil(t, dueDate)

	var payload string
	var invalid int
	require.NoError(t, s.db.QueryRow("SELECT payload, invalid_rows FROM "+s.table("runs")).Scan(&payload, &invalid))
	assert.Contains(t, payload, `"escalation_candidates"`)
	assert.Equal(t, 1, invalid)
}

func TestSeedSkipsWhenRunsExist(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	id, seeded, err := s.Seed(ctx, testRun(t))
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.NotEmpty(t, id)

	id, seeded, err = s.Seed(ctx, testRun(t))
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Empty(t, id)

	count, err := s.CountRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecentRuns(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	first := testRun(t)
	first.Label = "first"
	second := testRun(t)
	second.Label = "second"
	second.Report.GeneratedAt = first.Report.GeneratedAt.Add(time.Hour)

	_, err := s.SaveRun(ctx, first)
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, second)
	require.NoError(t, err)

	runs, err := s.RecentRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "second", runs[0].Label)
	assert.Equal(t, "2024-04-01", runs[0].Today)
	assert.Equal(t, 3, runs[0].Total)
	assert.Equal(t, 1, runs[0].NoTouch)

	runs, err = s.RecentRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	s := openSQLite(t)
	require.NoError(t, s.EnsureSchema(context.Background()))
}

func TestOpenValidatesInputs(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "x.db"), "bad-schema")
	assert.True(t, errors.Is(err, ErrInvalidSchema))

	_, err = Open(ctx, "mysql", "dsn", "planner")
	assert.True(t, errors.Is(err, ErrUnknownDriver))
}

func TestSanitizeSchema(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "trimmed", input: "  planner_v2 ", want: "planner_v2"},
		{name: "leading underscore", input: "_p", want: "_p"},
		{name: "empty", input: " ", wantErr: true},
		{name: "leading digit", input: "2planner", wantErr: true},
		{name: "punctuation", input: "planner.runs", wantErr: true},
		{name: "statement", input: "planner;drop", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeSchema(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSchema)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultRunLabel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"data/roster.csv", "roster-2024-04-01"},
		{"scholars", "scholars-2024-04-01"},
		{"", "run-2024-04-01"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultRunLabel(tt.input, "2024-04-01"))
		})
	}
}

func TestSchemaStatementsQualifyPostgres(t *testing.T) {
	s := &Store{driver: DriverPostgres, schema: "planner"}
	stmts := s.schemaStatements()
	require.NotEmpty(t, stmts)
	assert.Equal(t, "CREATE SCHEMA IF NOT EXISTS planner", stmts[0])
	assert.Contains(t, stmts[1], "planner.runs")
	assert.Contains(t, stmts[1], "jsonb")
}
