package planner

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

const (
	noTouchBoost    = 25.0
	overdueBoost    = 30.0
	dueSoonBoost    = 12.0
	highImpactBoost = 8.0
)

// Engine scores scholars against a fixed set of thresholds and high-impact flags.
type Engine struct {
	thresholds Thresholds
	flags      []string
	highImpact map[string]struct{}
}

// NewEngine builds an Engine. Flags are matched case-insensitively.
func NewEngine(thresholds Thresholds, highImpactFlags []string) *Engine {
	e := &Engine{thresholds: thresholds, highImpact: make(map[string]struct{}, len(highImpactFlags))}
	for _, flag := range highImpactFlags {
		flag = strings.ToLower(strings.TrimSpace(flag))
		if flag == "" || e.IsHighImpact(flag) {
			continue
		}
		e.highImpact[flag] = struct{}{}
		e.flags = append(e.flags, flag)
	}
	return e
}

// Thresholds returns the engine's scoring thresholds.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// HighImpactFlags returns the engine's high-impact flags in configured order.
func (e *Engine) HighImpactFlags() []string {
	return append([]string{}, e.flags...)
}

// IsHighImpact reports whether flag belongs to the engine's high-impact set.
func (e *Engine) IsHighImpact(flag string) bool {
	_, ok := e.highImpact[flag]
	return ok
}

// Score derives cadence, due dates, status, and priority for one scholar as of today.
func (e *Engine) Score(scholar Scholar, today time.Time) ScoredScholar {
	today = DateOnly(today)
	th := e.thresholds

	tier, cadenceDays := ClassifyRisk(scholar.RiskScore, th.High, th.Medium)
	scored := ScoredScholar{
		ScholarID:   scholar.ID,
		Name:        scholar.Name,
		Cohort:      scholar.Cohort,
		Owner:       NormalizeOwner(scholar.Owner),
		Channel:     scholar.Channel,
		RiskScore:   scholar.RiskScore,
		Flags:       append([]string{}, scholar.Flags...),
		RiskTier:    tier,
		CadenceDays: cadenceDays,
	}

	priority := scholar.RiskScore
	reasons := []string{}

	switch tier {
	case TierHigh:
		reasons = append(reasons, "high risk tier")
	case TierMedium:
		reasons = append(reasons, "medium risk tier")
	}

	overdue, dueSoon := false, false
	if scholar.LastTouch == nil {
		priority += noTouchBoost
		reasons = append(reasons, "no previous touch")
	} else {
		lastTouch := DateOnly(*scholar.LastTouch)
		dueDate := lastTouch.AddDate(0, 0, cadenceDays)
		daysSince := daysBetween(lastTouch, today)
		dueIn := daysBetween(today, dueDate)
		overdue = dueIn < 0
		dueSoon = dueIn >= 0 && dueIn <= th.SoonDays

		scored.LastTouch = &lastTouch
		scored.DueDate = &dueDate
		scored.DaysSinceTouch = intPtr(daysSince)
		scored.DueInDays = intPtr(dueIn)
		scored.OverdueDays = intPtr(max(0, -dueIn))

		if daysSince >= th.StaleDays {
			priority += th.StaleBoost
			scored.StaleTouch = true
			scored.StaleDays = intPtr(daysSince)
			reasons = append(reasons, fmt.Sprintf("stale last touch (%d days)", daysSince))
		}
	}

	if overdue {
		priority += overdueBoost
		reasons = append(reasons, fmt.Sprintf("overdue by %d days", *scored.OverdueDays))
	} else if dueSoon {
		priority += dueSoonBoost
		reasons = append(reasons, fmt.Sprintf("due in %d days", *scored.DueInDays))
	}

	for _, flag := range scholar.Flags {
		if e.IsHighImpact(flag) {
			priority += highImpactBoost
			reasons = append(reasons, "flag: "+flag)
		}
	}

	switch {
	case scholar.LastTouch == nil:
		scored.Status = StatusNoTouch
	case overdue:
		scored.Status = StatusOverdue
	case dueSoon:
		scored.Status = StatusDueSoon
	default:
		scored.Status = StatusOnTrack
	}

	scored.PriorityScore = round2(priority)
	scored.PriorityReasons = reasons
	scored.RecommendedAction = BuildRecommendation(tier, scholar.Channel, scored.Status)
	return scored
}

// BuildReport scores every scholar and orders them by priority, highest first.
// Equal scores keep their roster order.
func (e *Engine) BuildReport(scholars []Scholar, today time.Time) []ScoredScholar {
	scored := make([]ScoredScholar, 0, len(scholars))
	for _, scholar := range scholars {
		scored = append(scored, e.Score(scholar, today))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].PriorityScore > scored[j].PriorityScore
	})
	return scored
}

// BuildRecommendation phrases the next action for a tier, channel, and status.
func BuildRecommendation(tier Tier, channel string, status Status) string {
	var channelPhrase string
	switch NormalizeChannel(channel) {
	case "sms":
		channelPhrase = "Send a brief text check-in"
	case "email":
		channelPhrase = "Send a focused email check-in"
	case "call":
		channelPhrase = "Schedule a short call"
	default:
		channelPhrase = "Send a check-in"
	}

	var urgency string
	switch status {
	case StatusOverdue:
		urgency = "within 48 hours"
	case StatusDueSoon:
		urgency = "within the next week"
	case StatusNoTouch:
		urgency = "today"
	default:
		urgency = "during the next touch window"
	}

	var tierPhrase string
	switch tier {
	case TierHigh:
		tierPhrase = "Confirm support needs and capture blockers"
	case TierMedium:
		tierPhrase = "Reconfirm goals and offer resource links"
	default:
		tierPhrase = "Share a light encouragement and next milestone"
	}

	return fmt.Sprintf("%s %s. %s.", channelPhrase, urgency, tierPhrase)
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
