package planner

import "sort"

// Summary holds run-wide status and tier counts.
type Summary struct {
	Total      int `json:"total" yaml:"total"`
	Overdue    int `json:"overdue" yaml:"overdue"`
	DueSoon    int `json:"due_soon" yaml:"due_soon"`
	OnTrack    int `json:"on_track" yaml:"on_track"`
	NoTouch    int `json:"no_touch" yaml:"no_touch"`
	HighRisk   int `json:"high_risk" yaml:"high_risk"`
	MediumRisk int `json:"medium_risk" yaml:"medium_risk"`
	LowRisk    int `json:"low_risk" yaml:"low_risk"`
	StaleTouch int `json:"stale_touch" yaml:"stale_touch"`
}

// Summarize counts statuses, tiers, and stale touches across the scored roster.
func Summarize(scored []ScoredScholar) Summary {
	summary := Summary{Total: len(scored)}
	for _, record := range scored {
		switch record.Status {
		case StatusOverdue:
			summary.Overdue++
		case StatusDueSoon:
			summary.DueSoon++
		case StatusOnTrack:
			summary.OnTrack++
		case StatusNoTouch:
			summary.NoTouch++
		}
		switch tierForCadence(record.CadenceDays) {
		case TierHigh:
			summary.HighRisk++
		case TierMedium:
			summary.MediumRisk++
		default:
			summary.LowRisk++
		}
		if record.StaleTouch {
			summary.StaleTouch++
		}
	}
	return summary
}

// BucketCount is a labelled histogram bucket.
type BucketCount struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// SummarizeOverdueAging buckets overdue scholars by how many days late they are.
func SummarizeOverdueAging(scored []ScoredScholar) []BucketCount {
	buckets := []BucketCount{
		{Label: "1-7"},
		{Label: "8-14"},
		{Label: "15-30"},
		{Label: "31-60"},
		{Label: "61+"},
	}
	for _, record := range scored {
		if record.Status != StatusOverdue || record.OverdueDays == nil {
			continue
		}
		days := *record.OverdueDays
		switch {
		case days <= 7:
			buckets[0].Count++
		case days <= 14:
			buckets[1].Count++
		case days <= 30:
			buckets[2].Count++
		case days <= 60:
			buckets[3].Count++
		default:
			buckets[4].Count++
		}
	}
	return buckets
}

// StatusCounts counts scholars per status.
type StatusCounts struct {
	Overdue int `json:"overdue" yaml:"overdue"`
	DueSoon int `json:"due_soon" yaml:"due_soon"`
	OnTrack int `json:"on_track" yaml:"on_track"`
	NoTouch int `json:"no_touch" yaml:"no_touch"`
}

// Total sums every status cell.
func (c StatusCounts) Total() int {
	return c.Overdue + c.DueSoon + c.OnTrack + c.NoTouch
}

func (c *StatusCounts) add(status Status) {
	switch status {
	case StatusOverdue:
		c.Overdue++
	case StatusDueSoon:
		c.DueSoon++
	case StatusOnTrack:
		c.OnTrack++
	case StatusNoTouch:
		c.NoTouch++
	}
}

// StatusByRisk is the tier by status matrix.
type StatusByRisk struct {
	High   StatusCounts `json:"high" yaml:"high"`
	Medium StatusCounts `json:"medium" yaml:"medium"`
	Low    StatusCounts `json:"low" yaml:"low"`
}

// Tier returns the row for tier.
func (m StatusByRisk) Tier(tier Tier) StatusCounts {
	switch tier {
	case TierHigh:
		return m.High
	case TierMedium:
		return m.Medium
	default:
		return m.Low
	}
}

// SummarizeStatusByRisk cross-tabulates risk tier against status.
func SummarizeStatusByRisk(scored []ScoredScholar) StatusByRisk {
	var matrix StatusByRisk
	for _, record := range scored {
		switch tierForCadence(record.CadenceDays) {
		case TierHigh:
			matrix.High.add(record.Status)
		case TierMedium:
			matrix.Medium.add(record.Status)
		default:
			matrix.Low.add(record.Status)
		}
	}
	return matrix
}

// ChannelCount is one entry of the channel mix.
type ChannelCount struct {
	Channel string `json:"channel" yaml:"channel"`
	Count   int    `json:"count" yaml:"count"`
}

// SummarizeChannels counts normalized preferred channels, most common first.
func SummarizeChannels(scored []ScoredScholar) []ChannelCount {
	index := map[string]int{}
	mix := []ChannelCount{}
	for _, record := range scored {
		key := NormalizeChannel(record.Channel)
		idx, ok := index[key]
		if !ok {
			idx = len(mix)
			index[key] = idx
			mix = append(mix, ChannelCount{Channel: key})
		}
		mix[idx].Count++
	}
	sort.SliceStable(mix, func(i, j int) bool {
		return mix[i].Count > mix[j].Count
	})
	return mix
}

// FlagCount is one entry of the high-impact flag highlights.
type FlagCount struct {
	Flag  string `json:"flag" yaml:"flag"`
	Count int    `json:"count" yaml:"count"`
}

// SummarizeFlags counts high-impact flags across the roster, most common first.
func (e *Engine) SummarizeFlags(scored []ScoredScholar) []FlagCount {
	index := map[string]int{}
	counts := []FlagCount{}
	for _, record := range scored {
		for _, flag := range record.Flags {
			if !e.IsHighImpact(flag) {
				continue
			}
			idx, ok := index[flag]
			if !ok {
				idx = len(counts)
				index[flag] = idx
				counts = append(counts, FlagCount{Flag: flag})
			}
			counts[idx].Count++
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}
