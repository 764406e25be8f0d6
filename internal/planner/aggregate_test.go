package planner

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordOption func(*ScoredScholar)

func withOwner(owner string) recordOption {
	return func(r *ScoredScholar) { r.Owner = owner }
}

func withCohort(cohort string) recordOption {
	return func(r *ScoredScholar) { r.Cohort = cohort }
}

func withChannel(channel string) recordOption {
	return func(r *ScoredScholar) { r.Channel = channel }
}

func withCadence(days int) recordOption {
	return func(r *ScoredScholar) { r.CadenceDays = days }
}

func withStatus(status Status) recordOption {
	return func(r *ScoredScholar) { r.Status = status }
}

func withDueIn(days int) recordOption {
	return func(r *ScoredScholar) { r.DueInDays = intPtr(days) }
}

func withOverdueDays(days int) recordOption {
	return func(r *ScoredScholar) { r.OverdueDays = intPtr(days) }
}

func withPriority(score float64) recordOption {
	return func(r *ScoredScholar) { r.PriorityScore = score }
}

func withName(name string) recordOption {
	return func(r *ScoredScholar) { r.Name = name }
}

func makeRecord(opts ...recordOption) ScoredScholar {
	record := ScoredScholar{
		ScholarID:         "s-1",
		Name:              "Test Scholar",
		Cohort:            "Test",
		Owner:             "Owner",
		Channel:           "email",
		RiskScore:         50,
		CadenceDays:       21,
		Status:            StatusOnTrack,
		PriorityScore:     50,
		RecommendedAction: "Check in",
	}
	for _, opt := range opts {
		opt(&record)
	}
	return record
}

func TestSummarize(t *testing.T) {
	stale := makeRecord(withCadence(45), withStatus(StatusOverdue))
	stale.StaleTouch = true
	records := []ScoredScholar{
		makeRecord(withCadence(7), withStatus(StatusOverdue)),
		makeRecord(withCadence(7), withStatus(StatusNoTouch)),
		makeRecord(withCadence(21), withStatus(StatusDueSoon)),
		makeRecord(withCadence(21), withStatus(StatusOnTrack)),
		stale,
	}

	summary := Summarize(records)
	assert.Equal(t, Summary{
		Total:      5,
		Overdue:    2,
		DueSoon:    1,
		OnTrack:    1,
		NoTouch:    1,
		HighRisk:   2,
		MediumRisk: 2,
		LowRisk:    1,
		StaleTouch: 1,
	}, summary)
}

func TestSummarizeOverdueAging(t *testing.T) {
	var records []ScoredScholar
	for _, days := range []int{1, 7, 8, 14, 15, 30, 31, 60, 61} {
		records = append(records, makeRecord(withStatus(StatusOverdue), withOverdueDays(days)))
	}
	records = append(records,
		makeRecord(withStatus(StatusOnTrack), withOverdueDays(0)),
		makeRecord(withStatus(StatusNoTouch)),
	)

	aging := SummarizeOverdueAging(records)
	assert.Equal(t, []BucketCount{
		{Label: "1-7", Count: 2},
		{Label: "8-14", Count: 2},
		{Label: "15-30", Count: 2},
		{Label: "31-60", Count: 2},
		{Label: "61+", Count: 1},
	}, aging)
}

func TestSummarizeStatusByRisk(t *testing.T) {
	records := []ScoredScholar{
		makeRecord(withCadence(7), withStatus(StatusOverdue)),
		makeRecord(withCadence(7), withStatus(StatusDueSoon)),
		makeRecord(withCadence(21), withStatus(StatusOnTrack)),
		makeRecord(withCadence(21), withStatus(StatusNoTouch)),
		makeRecord(withCadence(45), withStatus(StatusOverdue)),
	}

	matrix := SummarizeStatusByRisk(records)
	assert.Equal(t, 1, matrix.High.Overdue)
	assert.Equal(t, 1, matrix.High.DueSoon)
	assert.Equal(t, 0, matrix.High.OnTrack)
	assert.Equal(t, 0, matrix.High.NoTouch)
	assert.Equal(t, 1, matrix.Medium.OnTrack)
	assert.Equal(t, 1, matrix.Medium.NoTouch)
	assert.Equal(t, 1, matrix.Tier(TierLow).Overdue)
	assert.Equal(t, len(records), matrix.High.Total()+matrix.Medium.Total()+matrix.Low.Total())
}

func TestSummarizeTouchpointHorizon(t *testing.T) {
	records := []ScoredScholar{
		makeRecord(withDueIn(-3)),
		makeRecord(withDueIn(0)),
		makeRecord(withDueIn(5)),
		makeRecord(withDueIn(8)),
		makeRecord(withDueIn(14)),
		makeRecord(withDueIn(20)),
		makeRecord(withDueIn(31)),
		makeRecord(),
	}

	horizon := SummarizeTouchpointHorizon(records)
	assert.Equal(t, Horizon{
		Overdue:    1,
		Next7Days:  2,
		Next14Days: 2,
		Next30Days: 1,
		Later:      1,
		NoDueDate:  1,
	}, horizon)
	assert.Equal(t, len(records), horizon.Total())
}

func TestSummarizeTouchpointForecast(t *testing.T) {
	today := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("includes overdue", func(t *testing.T) {
		records := []ScoredScholar{
			makeRecord(withDueIn(-2)),
			makeRecord(withDueIn(0)),
			makeRecord(withDueIn(1)),
			makeRecord(withDueIn(4)),
			makeRecord(withDueIn(10)),
			makeRecord(),
		}

		forecast := SummarizeTouchpointForecast(records, today, 7, true)
		require.Len(t, forecast.Daily, 8)
		assert.Equal(t, 1, forecast.Overdue)
		assert.Equal(t, 1, forecast.NoDueDate)
		assert.Equal(t, 1, forecast.BeyondWindow)
		assert.Equal(t, 2, forecast.Daily[0].Count)
		assert.Equal(t, 1, forecast.Daily[1].Count)
		assert.Equal(t, 1, forecast.Daily[4].Count)
		assert.Equal(t, "2025-01-15", forecast.Daily[0].Date)
		assert.Equal(t, "2025-01-22", forecast.Daily[7].Date)
	})

	t.Run("excludes overdue", func(t *testing.T) {
		records := []ScoredScholar{
			makeRecord(withDueIn(-1)),
			makeRecord(withDueIn(0)),
			makeRecord(withDueIn(3)),
		}

		forecast := SummarizeTouchpointForecast(records, today, 5, false)
		require.Len(t, forecast.Daily, 6)
		assert.Equal(t, 1, forecast.Overdue)
		assert.Equal(t, 1, forecast.Daily[0].Count)
		assert.Equal(t, 1, forecast.Daily[3].Count)
	})

	t.Run("negative window collapses to today", func(t *testing.T) {
		forecast := SummarizeTouchpointForecast([]ScoredScholar{makeRecord(withDueIn(0)), makeRecord(withDueIn(1))}, today, -3, false)
		require.Len(t, forecast.Daily, 1)
		assert.Equal(t, 1, forecast.Daily[0].Count)
		assert.Equal(t, 1, forecast.BeyondWindow)
	})
}

func TestSummarizeCohorts(t *testing.T) {
	records := []ScoredScholar{
		makeRecord(withCohort("X"), withStatus(StatusOverdue), withPriority(50)),
		makeRecord(withCohort("Y"), withStatus(StatusDueSoon), withPriority(80)),
		makeRecord(withCohort("X"), withStatus(StatusOnTrack), withPriority(61), withCadence(7)),
		makeRecord(withCohort("Z"), withPriority(90)),
		makeRecord(withCohort(" "), withPriority(10), withCadence(45)),
		makeRecord(withCohort("W"), withPriority(90)),
	}

	cohorts := SummarizeCohorts(records)
	require.Len(t, cohorts, 5)
	names := make([]string, 0, len(cohorts))
	for _, cohort := range cohorts {
		names = append(names, cohort.Cohort)
	}
	assert.Equal(t, []string{"X", "Y", "Z", "W", UnassignedOwner}, names)

	x := cohorts[0]
	assert.Equal(t, 2, x.Total)
	assert.Equal(t, 1, x.Overdue)
	assert.Equal(t, 1, x.HighRisk)
	assert.Equal(t, 1, x.MediumRisk)
	assert.InDelta(t, 55.5, x.AvgPriority, 0.001)
	assert.Equal(t, 1, cohorts[4].LowRisk)
}

func TestRunningAverageRoundsEachStep(t *testing.T) {
	records := []ScoredScholar{
		makeRecord(withOwner("A"), withPriority(1)),
		makeRecord(withOwner("A"), withPriority(2)),
		makeRecord(withOwner("A"), withPriority(2)),
	}

	owners := SummarizeOwners(records)
	require.Len(t, owners, 1)
	assert.Equal(t, 1.67, owners[0].AvgPriority)
}

func TestSummarizeOwnersDefaultsBlankOwner(t *testing.T) {
	records := []ScoredScholar{
		makeRecord(withOwner(""), withStatus(StatusNoTouch)),
		makeRecord(withOwner("Advisor A"), withStatus(StatusOverdue)),
		makeRecord(withOwner("  "), withStatus(StatusOverdue)),
	}

	owners := SummarizeOwners(records)
	require.Len(t, owners, 2)
	assert.Equal(t, UnassignedOwner, owners[0].Owner)
	assert.Equal(t, 2, owners[0].Total)
	assert.Equal(t, 1, owners[0].NoTouch)
	assert.Equal(t, "Advisor A", owners[1].Owner)
}

func TestSummarizeOwnerHorizon(t *testing.T) {
	records := []ScoredScholar{
		makeRecord(withOwner("Advisor A"), withDueIn(-2), withPriority(80)),
		makeRecord(withOwner("Advisor A"), withDueIn(3), withPriority(60)),
		makeRecord(withOwner("Advisor A"), withPriority(40)),
		makeRecord(withOwner("Advisor B"), withDueIn(10), withPriority(50)),
		makeRecord(withOwner("Advisor B"), withDueIn(25), withPriority(70)),
		makeRecord(withOwner("Advisor B"), withDueIn(40), withPriority(90)),
	}

	horizon := SummarizeOwnerHorizon(records)
	require.Len(t, horizon, 2)

	a := horizon[0]
	assert.Equal(t, "Advisor A", a.Owner)
	assert.Equal(t, 3, a.Total)
	assert.Equal(t, Horizon{Overdue: 1, Next7Days: 1, NoDueDate: 1}, a.Horizon)
	assert.Equal(t, 60.0, a.AvgPriority)

	b := horizon[1]
	assert.Equal(t, "Advisor B", b.Owner)
	assert.Equal(t, 3, b.Total)
	assert.Equal(t, Horizon{Next14Days: 1, Next30Days: 1, Later: 1}, b.Horizon)
	assert.Equal(t, 70.0, b.AvgPriority)

	for _, owner := range horizon {
		assert.Equal(t, owner.Total, owner.Horizon.Total())
	}
}

func TestSummarizeOwnerCapacity(t *testing.T) {
	records := []ScoredScholar{
		makeRecord(withOwner("Advisor A"), withDueIn(-2)),
		makeRecord(withOwner("Advisor A"), withDueIn(3)),
		makeRecord(withOwner("Advisor A")),
		makeRecord(withOwner("Advisor B"), withDueIn(1)),
		makeRecord(withOwner("Advisor B"), withDueIn(5)),
		makeRecord(withOwner("Advisor B"), withDueIn(9)),
	}
	for i := 0; i < 15; i++ {
		records = append(records, makeRecord(withOwner("Advisor C"), withDueIn(-1)))
	}

	t.Run("including overdue", func(t *testing.T) {
		capacity := SummarizeOwnerCapacity(records, 7, 2, true)
		require.Len(t, capacity, 3)

		c := capacity[0]
		assert.Equal(t, "Advisor C", c.Owner)
		assert.Equal(t, 15, c.DueWithinWindow)
		assert.Equal(t, 15, c.Overdue)
		assert.Equal(t, 14, c.Capacity)
		assert.Equal(t, 1, c.Gap)
		assert.Equal(t, 1.07, c.Utilization)

		a := capacity[1]
		assert.Equal(t, "Advisor A", a.Owner)
		assert.Equal(t, 3, a.Total)
		assert.Equal(t, 2, a.DueWithinWindow)
		assert.Equal(t, 1, a.Overdue)
		assert.Equal(t, 0, a.Gap)
		assert.Equal(t, 0.14, a.Utilization)

		b := capacity[2]
		assert.Equal(t, "Advisor B", b.Owner)
		assert.Equal(t, 2, b.DueWithinWindow)
	})

	t.Run("excluding overdue", func(t *testing.T) {
		capacity := SummarizeOwnerCapacity(records, 7, 2, false)
		assert.Equal(t, "Advisor C", capacity[0].Owner)
		assert.Equal(t, 0, capacity[0].DueWithinWindow)
		assert.Equal(t, 0, capacity[0].Gap)
		assert.Equal(t, 1, capacity[1].DueWithinWindow)
	})

	t.Run("zero capacity", func(t *testing.T) {
		capacity := SummarizeOwnerCapacity(records, 7, 0, true)
		for _, owner := range capacity {
			assert.Equal(t, 0.0, owner.Utilization)
			assert.Equal(t, owner.DueWithinWindow, owner.Gap)
		}
	})

	t.Run("ties fall back to owner name", func(t *testing.T) {
		capacity := SummarizeOwnerCapacity([]ScoredScholar{
			makeRecord(withOwner("Zed"), withDueIn(1)),
			makeRecord(withOwner("Amy"), withDueIn(2)),
		}, 7, 1, true)
		assert.Equal(t, "Amy", capacity[0].Owner)
		assert.Equal(t, "Zed", capacity[1].Owner)
	})
}

func TestBuildOwnerAlerts(t *testing.T) {
	owners := []OwnerSummary{
		{Owner: "C", Load: Load{Total: 2}},
		{Owner: "B", Load: Load{Total: 9, NoTouch: 1, AvgPriority: 70}},
		{Owner: "A", Load: Load{Total: 5, Overdue: 3, AvgPriority: 60}},
	}

	alerts := BuildOwnerAlerts(owners, AlertThresholds{Overdue: 2, NoTouch: 1, Total: 8})
	require.Len(t, alerts, 2)
	assert.Equal(t, "A", alerts[0].Owner)
	assert.Equal(t, []string{"overdue 3 >= 2"}, alerts[0].Reasons)
	assert.Equal(t, "B", alerts[1].Owner)
	assert.Equal(t, []string{"no-touch 1 >= 1", "caseload 9 >= 8"}, alerts[1].Reasons)

	assert.Empty(t, BuildOwnerAlerts(owners, AlertThresholds{}))
}

func TestBuildOwnerQueue(t *testing.T) {
	records := []ScoredScholar{
		makeRecord(withOwner("B"), withName("b1"), withPriority(90)),
		makeRecord(withOwner("A"), withName("a1"), withPriority(80)),
		makeRecord(withOwner("C"), withName("c1"), withPriority(70)),
		makeRecord(withOwner("B"), withName("b2"), withPriority(60)),
		makeRecord(withOwner("A"), withName("a2"), withPriority(50)),
		makeRecord(withOwner("A"), withName("a3"), withPriority(40)),
		makeRecord(withOwner("B"), withName("b3"), withPriority(30)),
	}

	queue := BuildOwnerQueue(records, 2, 2)
	require.Len(t, queue, 2)
	assert.Equal(t, "A", queue[0].Owner)
	assert.Equal(t, 3, queue[0].Total)
	require.Len(t, queue[0].Items, 2)
	assert.Equal(t, "a1", queue[0].Items[0].Name)
	assert.Equal(t, "a2", queue[0].Items[1].Name)
	assert.Equal(t, "B", queue[1].Owner)
	assert.Equal(t, 3, queue[1].Total)

	assert.Len(t, BuildOwnerQueue(records, 0, 1), 3)
}

func TestBuildChannelBatches(t *testing.T) {
	records := []ScoredScholar{
		makeRecord(withChannel("Text"), withName("texter"), withStatus(StatusOverdue), withPriority(60)),
		makeRecord(withChannel("sms"), withStatus(StatusOnTrack), withPriority(40)),
		makeRecord(withChannel("Email"), withStatus(StatusDueSoon), withPriority(50)),
		makeRecord(withChannel("phone"), withStatus(StatusOverdue), withPriority(80)),
		makeRecord(withChannel(""), withStatus(StatusOnTrack), withPriority(10)),
	}

	batches := BuildChannelBatches(records, 3, 1)
	require.Len(t, batches, 3)
	assert.Equal(t, "sms", batches[0].Channel)
	assert.Equal(t, 2, batches[0].Total)
	assert.Equal(t, 1, batches[0].Overdue)
	assert.Equal(t, 50.0, batches[0].AvgPriority)
	require.Len(t, batches[0].Items, 1)
	assert.Equal(t, "texter", batches[0].Items[0].Name)
	assert.Equal(t, "call", batches[1].Channel)
	assert.Equal(t, "email", batches[2].Channel)
}

func TestBuildEscalationList(t *testing.T) {
	t.Run("filters high risk overdue and score", func(t *testing.T) {
		today := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
		touched := func(days int) *time.Time {
			value := today.AddDate(0, 0, -days)
			return &value
		}
		engine := defaultEngine()
		scored := []ScoredScholar{
			engine.Score(Scholar{ID: "s-1", Name: "Avery", Cohort: "2024", Owner: "Casey", Channel: "email", LastTouch: touched(40), RiskScore: 92, Flags: []string{"housing"}}, today),
			engine.Score(Scholar{ID: "s-2", Name: "Blake", Cohort: "2024", Owner: "Casey", Channel: "sms", LastTouch: touched(2), RiskScore: 95}, today),
			engine.Score(Scholar{ID: "s-3", Name: "Carmen", Cohort: "2023", Owner: "Dee", Channel: "call", LastTouch: touched(50), RiskScore: 55}, today),
		}

		escalations := BuildEscalationList(scored, 5, 100)
		require.Len(t, escalations, 1)
		assert.Equal(t, "Avery", escalations[0].Name)
		assert.Equal(t, StatusOverdue, escalations[0].Status)
	})

	t.Run("sorts by score then name and truncates", func(t *testing.T) {
		records := []ScoredScholar{
			makeRecord(withCadence(7), withStatus(StatusNoTouch), withName("Zoe"), withPriority(120)),
			makeRecord(withCadence(7), withStatus(StatusOverdue), withName("Ann"), withPriority(120)),
			makeRecord(withCadence(7), withStatus(StatusOverdue), withName("Bo"), withPriority(130)),
			makeRecord(withCadence(7), withStatus(StatusDueSoon), withName("Cy"), withPriority(200)),
			makeRecord(withCadence(21), withStatus(StatusOverdue), withName("Di"), withPriority(200)),
			makeRecord(withCadence(7), withStatus(StatusOverdue), withName("Ed"), withPriority(89.99)),
		}

		escalations := BuildEscalationList(records, 2, 90)
		require.Len(t, escalations, 2)
		assert.Equal(t, "Bo", escalations[0].Name)
		assert.Equal(t, "Ann", escalations[1].Name)

		all := BuildEscalationList(records, 0, 90)
		require.Len(t, all, 3)
		for i := 1; i < len(all); i++ {
			assert.GreaterOrEqual(t, all[i-1].PriorityScore, all[i].PriorityScore)
		}
	})
}

func TestSummarizeCadenceAdherence(t *testing.T) {
	t.Run("per tier", func(t *testing.T) {
		records := []ScoredScholar{
			makeRecord(withCadence(7), withStatus(StatusOnTrack)),
			makeRecord(withCadence(7), withStatus(StatusOverdue)),
			makeRecord(withCadence(21), withStatus(StatusDueSoon)),
			makeRecord(withCadence(45), withStatus(StatusNoTouch)),
		}

		summary := SummarizeCadenceAdherence(records)
		assert.Equal(t, Adherence{Total: 4, Compliant: 2, Overdue: 1, NoTouch: 1, ComplianceRate: 0.5}, summary.Overall)
		assert.Equal(t, Adherence{Total: 2, Compliant: 1, Overdue: 1, ComplianceRate: 0.5}, summary.High)
		assert.Equal(t, Adherence{Total: 1, Compliant: 1, ComplianceRate: 1.0}, summary.Medium)
		assert.Equal(t, Adherence{Total: 1, NoTouch: 1, ComplianceRate: 0.0}, summary.Low)
	})

	t.Run("overall rate is pooled", func(t *testing.T) {
		records := []ScoredScholar{
			makeRecord(withCadence(7), withStatus(StatusOnTrack)),
			makeRecord(withCadence(7), withStatus(StatusOnTrack)),
			makeRecord(withCadence(7), withStatus(StatusDueSoon)),
			makeRecord(withCadence(7), withStatus(StatusOverdue)),
			makeRecord(withCadence(45), withStatus(StatusOverdue)),
		}

		summary := SummarizeCadenceAdherence(records)
		assert.InDelta(t, 0.6, summary.Overall.ComplianceRate, 1e-9)
		assert.InDelta(t, 0.75, summary.High.ComplianceRate, 1e-9)
		assert.Equal(t, 0.0, summary.Medium.ComplianceRate)
		assert.Equal(t, 0, summary.Medium.Total)
	})
}

func TestSummarizeChannelsAndFlags(t *testing.T) {
	records := []ScoredScholar{
		makeRecord(withChannel("email")),
		makeRecord(withChannel("Text")),
		makeRecord(withChannel("sms")),
		makeRecord(withChannel("call")),
	}
	records[0].Flags = []string{"food", "sports"}
	records[1].Flags = []string{"crisis", "food"}
	records[2].Flags = []string{"housing"}

	assert.Equal(t, []ChannelCount{
		{Channel: "sms", Count: 2},
		{Channel: "email", Count: 1},
		{Channel: "call", Count: 1},
	}, SummarizeChannels(records))

	assert.Equal(t, []FlagCount{
		{Flag: "food", Count: 2},
		{Flag: "crisis", Count: 1},
		{Flag: "housing", Count: 1},
	}, defaultEngine().SummarizeFlags(records))
}

func TestAnalyze(t *testing.T) {
	scholars := []Scholar{
		{ID: "s-1", Name: "Avery", Cohort: "2024", Owner: "Casey", Channel: "sms", LastTouch: daysAgo(40), RiskScore: 92, Flags: []string{"housing"}},
		{ID: "s-2", Name: "Blake", Cohort: "2024", Owner: "Casey", Channel: "email", RiskScore: 75},
		{ID: "s-3", Name: "Carmen", Cohort: "2023", Owner: "", Channel: "call", LastTouch: daysAgo(3), RiskScore: 20},
	}
	generated := time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)

	report := defaultEngine().Analyze(scholars, testToday.Add(15*time.Hour), DefaultOptions(), generated)
	assert.Equal(t, "2024-04-01", report.Today)
	assert.Equal(t, generated, report.GeneratedAt)
	assert.Equal(t, 3, report.Summary.Total)
	require.Len(t, report.Records, 3)
	assert.Equal(t, "s-1", report.Records[0].ScholarID)
	assert.Equal(t, DefaultHighImpactFlags(), report.Thresholds.HighImpactFlags)
	require.Len(t, report.Summary.OwnerAlerts, 1)
	assert.Equal(t, "Casey", report.Summary.OwnerAlerts[0].Owner)
	require.Len(t, report.EscalationCandidates, 2)
	assert.Len(t, report.TouchpointForecast.Daily, 15)
	assert.Equal(t, 3, report.TouchpointHorizon.Total())
}

func TestAnalyzeEmptyRosterEncodesEmptyLists(t *testing.T) {
	report := defaultEngine().Analyze(nil, testToday, DefaultOptions(), testToday)

	payload, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	summary, ok := decoded["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{}, summary["owner_alerts"])
	for _, key := range []string{
		"channel_mix", "high_impact_flags", "cohort_summary", "owner_summary", "owner_horizon",
		"owner_capacity", "owner_queue", "channel_batches", "escalation_candidates", "records",
	} {
		assert.Equal(t, []any{}, decoded[key], key)
	}
}

func TestAnalyzeEmptyReasonsEncodeAsList(t *testing.T) {
	last := testToday.AddDate(0, 0, -1)
	report := defaultEngine().Analyze([]Scholar{{ID: "s", RiskScore: 5, LastTouch: &last}}, testToday, DefaultOptions(), testToday)
	require.Len(t, report.Records, 1)
	assert.NotNil(t, report.Records[0].PriorityReasons)

	payload, err := json.Marshal(report.Records[0])
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"priority_reasons":[]`)
}
