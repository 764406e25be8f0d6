package planner

import "time"

// Options carries the per-aggregator parameters for Analyze.
type Options struct {
	OwnerQueueLimit        int
	OwnerQueueSize         int
	ChannelBatchLimit      int
	ChannelBatchSize       int
	EscalationLimit        int
	EscalationMinScore     float64
	ForecastWindowDays     int
	ForecastIncludeOverdue bool
	CapacityWindowDays     int
	CapacityDaily          int
	CapacityIncludeOverdue bool
	Alerts                 AlertThresholds
}

// DefaultOptions returns the aggregator parameters used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		OwnerQueueLimit:        5,
		OwnerQueueSize:         3,
		ChannelBatchLimit:      4,
		ChannelBatchSize:       3,
		EscalationLimit:        5,
		EscalationMinScore:     90,
		ForecastWindowDays:     14,
		ForecastIncludeOverdue: true,
		CapacityWindowDays:     7,
		CapacityDaily:          3,
		CapacityIncludeOverdue: true,
		Alerts:                 AlertThresholds{Overdue: 2, NoTouch: 1, Total: 8},
	}
}

// ThresholdSettings echoes the scoring thresholds into a report.
type ThresholdSettings struct {
	HighRisk        float64  `json:"high_risk" yaml:"high_risk"`
	MediumRisk      float64  `json:"medium_risk" yaml:"medium_risk"`
	SoonDays        int      `json:"soon_days" yaml:"soon_days"`
	StaleDays       int      `json:"stale_days" yaml:"stale_days"`
	StaleBoost      float64  `json:"stale_boost" yaml:"stale_boost"`
	HighImpactFlags []string `json:"high_impact_flags" yaml:"high_impact_flags"`
}

// ReportSummary is the run summary plus the owners that tripped an alert.
type ReportSummary struct {
	Summary `yaml:",inline"`

	OwnerAlerts []OwnerAlert `json:"owner_alerts" yaml:"owner_alerts"`
}

// Report bundles the scored roster with every rollup.
type Report struct {
	GeneratedAt          time.Time             `json:"generated_at" yaml:"generated_at"`
	Today                string                `json:"today" yaml:"today"`
	Thresholds           ThresholdSettings     `json:"thresholds" yaml:"thresholds"`
	Summary              ReportSummary         `json:"summary" yaml:"summary"`
	ChannelMix           []ChannelCount        `json:"channel_mix" yaml:"channel_mix"`
	HighImpactFlags      []FlagCount           `json:"high_impact_flags" yaml:"high_impact_flags"`
	CohortSummary        []CohortSummary       `json:"cohort_summary" yaml:"cohort_summary"`
	OwnerSummary         []OwnerSummary        `json:"owner_summary" yaml:"owner_summary"`
	OwnerHorizon         []OwnerHorizon        `json:"owner_horizon" yaml:"owner_horizon"`
	OwnerCapacity        []OwnerCapacity       `json:"owner_capacity" yaml:"owner_capacity"`
	OwnerQueue           []OwnerQueue          `json:"owner_queue" yaml:"owner_queue"`
	TouchpointHorizon    Horizon               `json:"touchpoint_horizon" yaml:"touchpoint_horizon"`
	TouchpointForecast   Forecast              `json:"touchpoint_forecast" yaml:"touchpoint_forecast"`
	OverdueAging         []BucketCount         `json:"overdue_aging" yaml:"overdue_aging"`
	StatusByRisk         StatusByRisk          `json:"status_by_risk" yaml:"status_by_risk"`
	CadenceAdherence     CadenceAdherence      `json:"cadence_adherence" yaml:"cadence_adherence"`
	ChannelBatches       []ChannelBatch        `json:"channel_batches" yaml:"channel_batches"`
	EscalationCandidates []EscalationCandidate `json:"escalation_candidates" yaml:"escalation_candidates"`
	Records              []ScoredScholar       `json:"records" yaml:"records"`
}

// Analyze scores the roster and runs every aggregator over the result.
// generatedAt is stamped on the report as-is.
func (e *Engine) Analyze(scholars []Scholar, today time.Time, opts Options, generatedAt time.Time) Report {
	today = DateOnly(today)
	scored := e.BuildReport(scholars, today)
	owners := SummarizeOwners(scored)

	return Report{
		GeneratedAt: generatedAt,
		Today:       today.Format("2006-01-02"),
		Thresholds:  e.settings(),
		Summary: ReportSummary{
			Summary:     Summarize(scored),
			OwnerAlerts: BuildOwnerAlerts(owners, opts.Alerts),
		},
		ChannelMix:           SummarizeChannels(scored),
		HighImpactFlags:      e.SummarizeFlags(scored),
		CohortSummary:        SummarizeCohorts(scored),
		OwnerSummary:         owners,
		OwnerHorizon:         SummarizeOwnerHorizon(scored),
		OwnerCapacity:        SummarizeOwnerCapacity(scored, opts.CapacityWindowDays, opts.CapacityDaily, opts.CapacityIncludeOverdue),
		OwnerQueue:           BuildOwnerQueue(scored, opts.OwnerQueueLimit, opts.OwnerQueueSize),
		TouchpointHorizon:    SummarizeTouchpointHorizon(scored),
		TouchpointForecast:   SummarizeTouchpointForecast(scored, today, opts.ForecastWindowDays, opts.ForecastIncludeOverdue),
		OverdueAging:         SummarizeOverdueAging(scored),
		StatusByRisk:         SummarizeStatusByRisk(scored),
		CadenceAdherence:     SummarizeCadenceAdherence(scored),
		ChannelBatches:       BuildChannelBatches(scored, opts.ChannelBatchLimit, opts.ChannelBatchSize),
		EscalationCandidates: BuildEscalationList(scored, opts.EscalationLimit, opts.EscalationMinScore),
		Records:              scored,
	}
}

func (e *Engine) settings() ThresholdSettings {
	return ThresholdSettings{
		HighRisk:        e.thresholds.High,
		MediumRisk:      e.thresholds.Medium,
		SoonDays:        e.thresholds.SoonDays,
		StaleDays:       e.thresholds.StaleDays,
		StaleBoost:      e.thresholds.StaleBoost,
		HighImpactFlags: e.HighImpactFlags(),
	}
}
