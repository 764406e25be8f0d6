package planner

import (
	"fmt"
	"sort"
)

// Load is the per-bucket tally shared by cohort and owner rollups.
type Load struct {
	Total       int     `json:"total" yaml:"total"`
	Overdue     int     `json:"overdue" yaml:"overdue"`
	DueSoon     int     `json:"due_soon" yaml:"due_soon"`
	NoTouch     int     `json:"no_touch" yaml:"no_touch"`
	AvgPriority float64 `json:"avg_priority" yaml:"avg_priority"`
	HighRisk    int     `json:"high_risk" yaml:"high_risk"`
	MediumRisk  int     `json:"medium_risk" yaml:"medium_risk"`
	LowRisk     int     `json:"low_risk" yaml:"low_risk"`
}

func (l *Load) add(record ScoredScholar) {
	l.Total++
	switch record.Status {
	case StatusOverdue:
		l.Overdue++
	case StatusDueSoon:
		l.DueSoon++
	case StatusNoTouch:
		l.NoTouch++
	}
	switch tierForCadence(record.CadenceDays) {
	case TierHigh:
		l.HighRisk++
	case TierMedium:
		l.MediumRisk++
	default:
		l.LowRisk++
	}
	l.AvgPriority = runningAverage(l.AvgPriority, l.Total, record.PriorityScore)
}

// hotter orders loads by overdue, then due soon, then average priority.
func hotter(a Load, b Load) bool {
	if a.Overdue != b.Overdue {
		return a.Overdue > b.Overdue
	}
	if a.DueSoon != b.DueSoon {
		return a.DueSoon > b.DueSoon
	}
	return a.AvgPriority > b.AvgPriority
}

// foldLoads groups scored records by key, keeping first-seen order.
func foldLoads(scored []ScoredScholar, key func(ScoredScholar) string) ([]string, []Load) {
	index := map[string]int{}
	var keys []string
	var loads []Load
	for _, record := range scored {
		k := key(record)
		idx, ok := index[k]
		if !ok {
			idx = len(keys)
			index[k] = idx
			keys = append(keys, k)
			loads = append(loads, Load{})
		}
		loads[idx].add(record)
	}
	return keys, loads
}

// CohortSummary is the load carried by one cohort.
type CohortSummary struct {
	Cohort string `json:"cohort" yaml:"cohort"`
	Load   `yaml:",inline"`
}

// SummarizeCohorts rolls the roster up by cohort, hottest cohorts first.
func SummarizeCohorts(scored []ScoredScholar) []CohortSummary {
	keys, loads := foldLoads(scored, func(record ScoredScholar) string {
		return cohortKey(record.Cohort)
	})
	cohorts := make([]CohortSummary, len(keys))
	for i := range keys {
		cohorts[i] = CohortSummary{Cohort: keys[i], Load: loads[i]}
	}
	sort.SliceStable(cohorts, func(i, j int) bool {
		return hotter(cohorts[i].Load, cohorts[j].Load)
	})
	return cohorts
}

// OwnerSummary is the load carried by one owner.
type OwnerSummary struct {
	Owner string `json:"owner" yaml:"owner"`
	Load  `yaml:",inline"`
}

// SummarizeOwners rolls the roster up by owner, busiest owners first.
func SummarizeOwners(scored []ScoredScholar) []OwnerSummary {
	keys, loads := foldLoads(scored, func(record ScoredScholar) string {
		return NormalizeOwner(record.Owner)
	})
	owners := make([]OwnerSummary, len(keys))
	for i := range keys {
		owners[i] = OwnerSummary{Owner: keys[i], Load: loads[i]}
	}
	sort.SliceStable(owners, func(i, j int) bool {
		return hotter(owners[i].Load, owners[j].Load)
	})
	return owners
}

// OwnerCapacity compares an owner's upcoming touches with what they can cover.
type OwnerCapacity struct {
	Owner           string  `json:"owner" yaml:"owner"`
	Total           int     `json:"total" yaml:"total"`
	Overdue         int     `json:"overdue" yaml:"overdue"`
	DueWithinWindow int     `json:"due_within_window" yaml:"due_within_window"`
	Capacity        int     `json:"capacity" yaml:"capacity"`
	Gap             int     `json:"gap" yaml:"gap"`
	Utilization     float64 `json:"utilization" yaml:"utilization"`
}

// SummarizeOwnerCapacity counts touches due within windowDays per owner against
// dailyCapacity*windowDays. Overdue touches count toward the window when includeOverdue is set.
func SummarizeOwnerCapacity(scored []ScoredScholar, windowDays int, dailyCapacity int, includeOverdue bool) []OwnerCapacity {
	capacity := max(0, dailyCapacity*windowDays)
	index := map[string]int{}
	owners := []OwnerCapacity{}
	for _, record := range scored {
		owner := NormalizeOwner(record.Owner)
		idx, ok := index[owner]
		if !ok {
			idx = len(owners)
			index[owner] = idx
			owners = append(owners, OwnerCapacity{Owner: owner, Capacity: capacity})
		}
		bucket := &owners[idx]
		bucket.Total++
		if record.DueInDays == nil {
			continue
		}
		days := *record.DueInDays
		if days < 0 {
			bucket.Overdue++
			if includeOverdue {
				bucket.DueWithinWindow++
			}
			continue
		}
		if days <= windowDays {
			bucket.DueWithinWindow++
		}
	}

	for i := range owners {
		bucket := &owners[i]
		bucket.Gap = max(0, bucket.DueWithinWindow-capacity)
		if capacity > 0 {
			bucket.Utilization = round2(float64(bucket.DueWithinWindow) / float64(capacity))
		}
	}

	sort.SliceStable(owners, func(i, j int) bool {
		a, b := owners[i], owners[j]
		if a.Gap != b.Gap {
			return a.Gap > b.Gap
		}
		if a.Overdue != b.Overdue {
			return a.Overdue > b.Overdue
		}
		if a.DueWithinWindow != b.DueWithinWindow {
			return a.DueWithinWindow > b.DueWithinWindow
		}
		return a.Owner < b.Owner
	})
	return owners
}

// AlertThresholds trigger owner alerts. A zero or negative threshold is disabled.
type AlertThresholds struct {
	Overdue int
	NoTouch int
	Total   int
}

// OwnerAlert is an owner whose load crossed at least one alert threshold.
type OwnerAlert struct {
	Owner       string   `json:"owner" yaml:"owner"`
	Total       int      `json:"total" yaml:"total"`
	Overdue     int      `json:"overdue" yaml:"overdue"`
	NoTouch     int      `json:"no_touch" yaml:"no_touch"`
	AvgPriority float64  `json:"avg_priority" yaml:"avg_priority"`
	Reasons     []string `json:"reasons" yaml:"reasons"`
}

// BuildOwnerAlerts flags owners whose overdue, no-touch, or total counts meet a threshold.
func BuildOwnerAlerts(owners []OwnerSummary, thresholds AlertThresholds) []OwnerAlert {
	alerts := []OwnerAlert{}
	for _, owner := range owners {
		reasons := []string{}
		if thresholds.Overdue > 0 && owner.Overdue >= thresholds.Overdue {
			reasons = append(reasons, fmt.Sprintf("overdue %d >= %d", owner.Overdue, thresholds.Overdue))
		}
		if thresholds.NoTouch > 0 && owner.NoTouch >= thresholds.NoTouch {
			reasons = append(reasons, fmt.Sprintf("no-touch %d >= %d", owner.NoTouch, thresholds.NoTouch))
		}
		if thresholds.Total > 0 && owner.Total >= thresholds.Total {
			reasons = append(reasons, fmt.Sprintf("caseload %d >= %d", owner.Total, thresholds.Total))
		}
		if len(reasons) == 0 {
			continue
		}
		alerts = append(alerts, OwnerAlert{
			Owner:       owner.Owner,
			Total:       owner.Total,
			Overdue:     owner.Overdue,
			NoTouch:     owner.NoTouch,
			AvgPriority: owner.AvgPriority,
			Reasons:     reasons,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.Overdue != b.Overdue {
			return a.Overdue > b.Overdue
		}
		if a.NoTouch != b.NoTouch {
			return a.NoTouch > b.NoTouch
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.AvgPriority > b.AvgPriority
	})
	return alerts
}
