package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"groupscholar-intervention-planner/internal/planner"
)

// WriteJSON writes the report as indented JSON to path.
func WriteJSON(report planner.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteYAML writes the report as YAML to path.
func WriteYAML(report planner.Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := yaml.NewEncoder(file)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode yaml report: %w", err)
	}
	return enc.Close()
}

// WriteAlertsCSV writes every scored scholar whose status ranks at or above
// minStatus. Rows keep the report's priority order.
func WriteAlertsCSV(report planner.Report, path string, minStatus string) error {
	threshold, ok := StatusRank(minStatus)
	if !ok {
		return fmt.Errorf("invalid --min-status value: %s", minStatus)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{
		"scholar_id",
		"name",
		"cohort",
		"owner",
		"channel",
		"risk_tier",
		"status",
		"priority_score",
		"last_touch",
		"due_date",
		"overdue_days",
		"recommended_action",
	}); err != nil {
		return err
	}

	for _, entry := range report.Records {
		rank, _ := StatusRank(string(entry.Status))
		if rank < threshold {
			continue
		}
		record := []string{
			entry.ScholarID,
			entry.Name,
			entry.Cohort,
			entry.Owner,
			entry.Channel,
			string(entry.RiskTier),
			string(entry.Status),
			strconv.FormatFloat(entry.PriorityScore, 'f', 2, 64),
			formatDate(entry.LastTouch),
			formatDate(entry.DueDate),
			formatInt(entry.OverdueDays),
			entry.RecommendedAction,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// StatusRank orders statuses by urgency: on-track 0, due-soon 1,
// overdue and no-touch 2. Underscores are accepted in place of dashes.
func StatusRank(value string) (int, bool) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "_", "-") {
	case string(planner.StatusOnTrack):
		return 0, true
	case string(planner.StatusDueSoon):
		return 1, true
	case string(planner.StatusOverdue), string(planner.StatusNoTouch):
		return 2, true
	default:
		return 0, false
	}
}

func formatDate(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format("2006-01-02")
}

func formatInt(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}
