package planner

import (
	"sort"
	"time"
)

// QueueItem is a compact view of one scholar in a queue or batch.
type QueueItem struct {
	ScholarID         string     `json:"scholar_id" yaml:"scholar_id"`
	Name              string     `json:"name" yaml:"name"`
	Cohort            string     `json:"cohort" yaml:"cohort"`
	Status            Status     `json:"status" yaml:"status"`
	PriorityScore     float64    `json:"priority_score" yaml:"priority_score"`
	DueDate           *time.Time `json:"due_date" yaml:"due_date"`
	RecommendedAction string     `json:"recommended_action" yaml:"recommended_action"`
}

func queueItem(record ScoredScholar) QueueItem {
	return QueueItem{
		ScholarID:         record.ScholarID,
		Name:              record.Name,
		Cohort:            record.Cohort,
		Status:            record.Status,
		PriorityScore:     record.PriorityScore,
		DueDate:           record.DueDate,
		RecommendedAction: record.RecommendedAction,
	}
}

// OwnerQueue lists the top scholars for one owner.
type OwnerQueue struct {
	Owner string      `json:"owner" yaml:"owner"`
	Total int         `json:"total" yaml:"total"`
	Items []QueueItem `json:"items" yaml:"items"`
}

// BuildOwnerQueue groups scholars by owner, keeping at most size items per owner
// in roster order. Owners are ordered by total then name, and truncated to limit
// when limit is positive.
func BuildOwnerQueue(scored []ScoredScholar, limit int, size int) []OwnerQueue {
	index := map[string]int{}
	queues := []OwnerQueue{}
	for _, record := range scored {
		owner := NormalizeOwner(record.Owner)
		idx, ok := index[owner]
		if !ok {
			idx = len(queues)
			index[owner] = idx
			queues = append(queues, OwnerQueue{Owner: owner, Items: []QueueItem{}})
		}
		queue := &queues[idx]
		queue.Total++
		if len(queue.Items) < size {
			queue.Items = append(queue.Items, queueItem(record))
		}
	}

	sort.SliceStable(queues, func(i, j int) bool {
		if queues[i].Total != queues[j].Total {
			return queues[i].Total > queues[j].Total
		}
		return queues[i].Owner < queues[j].Owner
	})
	return truncate(queues, limit)
}

// ChannelBatch groups scholars that share a normalized contact channel.
type ChannelBatch struct {
	Channel     string      `json:"channel" yaml:"channel"`
	Total       int         `json:"total" yaml:"total"`
	Overdue     int         `json:"overdue" yaml:"overdue"`
	DueSoon     int         `json:"due_soon" yaml:"due_soon"`
	AvgPriority float64     `json:"avg_priority" yaml:"avg_priority"`
	Items       []QueueItem `json:"items" yaml:"items"`
}

// BuildChannelBatches groups scholars by channel so outreach can be sent in batches.
func BuildChannelBatches(scored []ScoredScholar, limit int, size int) []ChannelBatch {
	index := map[string]int{}
	batches := []ChannelBatch{}
	for _, record := range scored {
		channel := NormalizeChannel(record.Channel)
		idx, ok := index[channel]
		if !ok {
			idx = len(batches)
			index[channel] = idx
			batches = append(batches, ChannelBatch{Channel: channel, Items: []QueueItem{}})
		}
		batch := &batches[idx]
		batch.Total++
		switch record.Status {
		case StatusOverdue:
			batch.Overdue++
		case StatusDueSoon:
			batch.DueSoon++
		}
		batch.AvgPriority = runningAverage(batch.AvgPriority, batch.Total, record.PriorityScore)
		if len(batch.Items) < size {
			batch.Items = append(batch.Items, queueItem(record))
		}
	}

	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if a.Overdue != b.Overdue {
			return a.Overdue > b.Overdue
		}
		if a.DueSoon != b.DueSoon {
			return a.DueSoon > b.DueSoon
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.AvgPriority > b.AvgPriority
	})
	return truncate(batches, limit)
}

// EscalationCandidate is a high-risk scholar who needs supervisor attention.
type EscalationCandidate struct {
	ScholarID         string   `json:"scholar_id" yaml:"scholar_id"`
	Name              string   `json:"name" yaml:"name"`
	Cohort            string   `json:"cohort" yaml:"cohort"`
	Owner             string   `json:"owner" yaml:"owner"`
	Status            Status   `json:"status" yaml:"status"`
	PriorityScore     float64  `json:"priority_score" yaml:"priority_score"`
	OverdueDays       *int     `json:"overdue_days" yaml:"overdue_days"`
	DaysSinceTouch    *int     `json:"days_since_touch" yaml:"days_since_touch"`
	PriorityReasons   []string `json:"priority_reasons" yaml:"priority_reasons"`
	RecommendedAction string   `json:"recommended_action" yaml:"recommended_action"`
}

// BuildEscalationList picks high-tier scholars that are overdue or never touched and
// score at least minScore, highest score first with ties broken by name.
func BuildEscalationList(scored []ScoredScholar, limit int, minScore float64) []EscalationCandidate {
	candidates := []EscalationCandidate{}
	for _, record := range scored {
		if record.CadenceDays != 7 {
			continue
		}
		if record.Status != StatusOverdue && record.Status != StatusNoTouch {
			continue
		}
		if record.PriorityScore < minScore {
			continue
		}
		candidates = append(candidates, EscalationCandidate{
			ScholarID:         record.ScholarID,
			Name:              record.Name,
			Cohort:            record.Cohort,
			Owner:             NormalizeOwner(record.Owner),
			Status:            record.Status,
			PriorityScore:     record.PriorityScore,
			OverdueDays:       record.OverdueDays,
			DaysSinceTouch:    record.DaysSinceTouch,
			PriorityReasons:   record.PriorityReasons,
			RecommendedAction: record.RecommendedAction,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].PriorityScore != candidates[j].PriorityScore {
			return candidates[i].PriorityScore > candidates[j].PriorityScore
		}
		return candidates[i].Name < candidates[j].Name
	})
	return truncate(candidates, limit)
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
