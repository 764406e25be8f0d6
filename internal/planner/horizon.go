package planner

import (
	"sort"
	"time"
)

// Horizon buckets scholars by how far away their next touch is due.
type Horizon struct {
	Overdue    int `json:"overdue" yaml:"overdue"`
	Next7Days  int `json:"next_7_days" yaml:"next_7_days"`
	Next14Days int `json:"next_14_days" yaml:"next_14_days"`
	Next30Days int `json:"next_30_days" yaml:"next_30_days"`
	Later      int `json:"later" yaml:"later"`
	NoDueDate  int `json:"no_due_date" yaml:"no_due_date"`
}

// Total sums every horizon bucket.
func (h Horizon) Total() int {
	return h.Overdue + h.Next7Days + h.Next14Days + h.Next30Days + h.Later + h.NoDueDate
}

func (h *Horizon) add(dueInDays *int) {
	if dueInDays == nil {
		h.NoDueDate++
		return
	}
	switch days := *dueInDays; {
	case days < 0:
		h.Overdue++
	case days <= 7:
		h.Next7Days++
	case days <= 14:
		h.Next14Days++
	case days <= 30:
		h.Next30Days++
	default:
		h.Later++
	}
}

// SummarizeTouchpointHorizon buckets the roster by due_in_days.
func SummarizeTouchpointHorizon(scored []ScoredScholar) Horizon {
	var horizon Horizon
	for _, record := range scored {
		horizon.add(record.DueInDays)
	}
	return horizon
}

// ForecastDay is the number of touches due on one calendar day.
type ForecastDay struct {
	Offset int    `json:"offset" yaml:"offset"`
	Date   string `json:"date" yaml:"date"`
	Count  int    `json:"count" yaml:"count"`
}

// Forecast is a day-by-day view of touches due within a window.
type Forecast struct {
	WindowDays     int           `json:"window_days" yaml:"window_days"`
	IncludeOverdue bool          `json:"include_overdue" yaml:"include_overdue"`
	Overdue        int           `json:"overdue" yaml:"overdue"`
	BeyondWindow   int           `json:"beyond_window" yaml:"beyond_window"`
	NoDueDate      int           `json:"no_due_date" yaml:"no_due_date"`
	Daily          []ForecastDay `json:"daily" yaml:"daily"`
}

// SummarizeTouchpointForecast lays out touches due over today..today+windowDays.
// Overdue touches are counted separately and, when includeOverdue is set, folded into day 0.
func SummarizeTouchpointForecast(scored []ScoredScholar, today time.Time, windowDays int, includeOverdue bool) Forecast {
	today = DateOnly(today)
	windowDays = max(0, windowDays)
	forecast := Forecast{
		WindowDays:     windowDays,
		IncludeOverdue: includeOverdue,
		Daily:          make([]ForecastDay, windowDays+1),
	}
	for offset := range forecast.Daily {
		forecast.Daily[offset] = ForecastDay{
			Offset: offset,
			Date:   today.AddDate(0, 0, offset).Format("2006-01-02"),
		}
	}

	for _, record := range scored {
		if record.DueInDays == nil {
			forecast.NoDueDate++
			continue
		}
		days := *record.DueInDays
		switch {
		case days < 0:
			forecast.Overdue++
			if includeOverdue {
				forecast.Daily[0].Count++
			}
		case days > windowDays:
			forecast.BeyondWindow++
		default:
			forecast.Daily[days].Count++
		}
	}
	return forecast
}

// OwnerHorizon is the touchpoint horizon for a single owner.
type OwnerHorizon struct {
	Horizon `yaml:",inline"`

	Owner       string  `json:"owner" yaml:"owner"`
	Total       int     `json:"total" yaml:"total"`
	AvgPriority float64 `json:"avg_priority" yaml:"avg_priority"`
}

// SummarizeOwnerHorizon partitions each owner's scholars into horizon buckets.
func SummarizeOwnerHorizon(scored []ScoredScholar) []OwnerHorizon {
	index := map[string]int{}
	owners := []OwnerHorizon{}
	for _, record := range scored {
		owner := NormalizeOwner(record.Owner)
		idx, ok := index[owner]
		if !ok {
			idx = len(owners)
			index[owner] = idx
			owners = append(owners, OwnerHorizon{Owner: owner})
		}
		bucket := &owners[idx]
		bucket.Total++
		bucket.add(record.DueInDays)
		bucket.AvgPriority = runningAverage(bucket.AvgPriority, bucket.Total, record.PriorityScore)
	}

	sort.SliceStable(owners, func(i, j int) bool {
		a, b := owners[i], owners[j]
		if a.Overdue != b.Overdue {
			return a.Overdue > b.Overdue
		}
		if a.Next7Days != b.Next7Days {
			return a.Next7Days > b.Next7Days
		}
		if a.Next14Days != b.Next14Days {
			return a.Next14Days > b.Next14Days
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.AvgPriority > b.AvgPriority
	})
	return owners
}

// runningAverage folds value into avg, where n counts value.
// The mean is re-derived from the previous mean and rounded each step so stored
// reports stay reproducible.
func runningAverage(avg float64, n int, value float64) float64 {
	return round2((avg*float64(n-1) + value) / float64(n))
}
