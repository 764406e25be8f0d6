// Package planner scores scholar outreach records and folds them into triage rollups.
//
// Everything in this package is a pure function of its inputs: callers load a roster,
// score it once with an Engine, and hand the scored slice to any of the aggregators.
package planner

import "time"

// Tier is the risk classification derived from a risk score.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Status is the outreach state of a scored scholar.
type Status string

const (
	StatusNoTouch Status = "no-touch"
	StatusOverdue Status = "overdue"
	StatusDueSoon Status = "due-soon"
	StatusOnTrack Status = "on-track"
)

// UnassignedOwner is used for blank owners and cohorts.
const UnassignedOwner = "Unassigned"

// Scholar is a roster row as supplied by the loader.
type Scholar struct {
	ID        string
	Name      string
	Cohort    string
	Owner     string
	Channel   string
	LastTouch *time.Time
	RiskScore float64
	Flags     []string
}

// ScoredScholar is a Scholar with its derived cadence, status, and priority.
type ScoredScholar struct {
	ScholarID         string     `json:"scholar_id" yaml:"scholar_id"`
	Name              string     `json:"name" yaml:"name"`
	Cohort            string     `json:"cohort" yaml:"cohort"`
	Owner             string     `json:"owner" yaml:"owner"`
	Channel           string     `json:"channel_preference" yaml:"channel_preference"`
	LastTouch         *time.Time `json:"last_touch" yaml:"last_touch"`
	RiskScore         float64    `json:"risk_score" yaml:"risk_score"`
	Flags             []string   `json:"flags" yaml:"flags"`
	RiskTier          Tier       `json:"risk_tier" yaml:"risk_tier"`
	CadenceDays       int        `json:"cadence_days" yaml:"cadence_days"`
	DueDate           *time.Time `json:"due_date" yaml:"due_date"`
	DaysSinceTouch    *int       `json:"days_since_touch" yaml:"days_since_touch"`
	DueInDays         *int       `json:"due_in_days" yaml:"due_in_days"`
	OverdueDays       *int       `json:"overdue_days" yaml:"overdue_days"`
	Status            Status     `json:"status" yaml:"status"`
	PriorityScore     float64    `json:"priority_score" yaml:"priority_score"`
	PriorityReasons   []string   `json:"priority_reasons" yaml:"priority_reasons"`
	RecommendedAction string     `json:"recommended_action" yaml:"recommended_action"`
	StaleTouch        bool       `json:"stale_touch" yaml:"stale_touch"`
	StaleDays         *int       `json:"stale_days" yaml:"stale_days"`
}

// Thresholds are the run-wide scoring parameters.
type Thresholds struct {
	High       float64
	Medium     float64
	SoonDays   int
	StaleDays  int
	StaleBoost float64
}

// DefaultThresholds returns the thresholds used when nothing is configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		High:       70,
		Medium:     40,
		SoonDays:   14,
		StaleDays:  60,
		StaleBoost: 15,
	}
}

// DefaultHighImpactFlags returns the flag tokens that raise priority.
func DefaultHighImpactFlags() []string {
	return []string{"crisis", "housing", "food", "health", "safety", "financial"}
}

// DateOnly truncates value to midnight UTC of its calendar day.
func DateOnly(value time.Time) time.Time {
	if value.IsZero() {
		return value
	}
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween counts calendar days from from to to. It works on unix seconds
// since time.Duration saturates for spans over roughly 292 years.
func daysBetween(from time.Time, to time.Time) int {
	return int((DateOnly(to).Unix() - DateOnly(from).Unix()) / 86400)
}

func tierForCadence(cadenceDays int) Tier {
	switch cadenceDays {
	case 7:
		return TierHigh
	case 21:
		return TierMedium
	default:
		return TierLow
	}
}

func intPtr(value int) *int {
	return &value
}
