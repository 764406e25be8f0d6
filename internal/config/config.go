// Package config resolves planner settings from flags, config files, and the environment.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"groupscholar-intervention-planner/internal/planner"
	"groupscholar-intervention-planner/internal/store"
)

// DefaultSchema is the database schema used when none is configured.
const DefaultSchema = "intervention_planner"

// ErrInvalidConfig marks settings that failed validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Thresholds are the scoring settings.
type Thresholds struct {
	HighRisk        float64  `mapstructure:"high_risk"`
	MediumRisk      float64  `mapstructure:"medium_risk"`
	SoonDays        int      `mapstructure:"soon_days"`
	StaleDays       int      `mapstructure:"stale_days"`
	StaleBoost      float64  `mapstructure:"stale_boost"`
	HighImpactFlags []string `mapstructure:"high_impact_flags"`
}

// Report holds the per-aggregator and display settings.
type Report struct {
	Limit                       int     `mapstructure:"limit"`
	CohortLimit                 int     `mapstructure:"cohort_limit"`
	OwnerLimit                  int     `mapstructure:"owner_limit"`
	OwnerQueueLimit             int     `mapstructure:"owner_queue_limit"`
	OwnerQueueSize              int     `mapstructure:"owner_queue_size"`
	ChannelBatchLimit           int     `mapstructure:"channel_batch_limit"`
	ChannelBatchSize            int     `mapstructure:"channel_batch_size"`
	EscalationLimit             int     `mapstructure:"escalation_limit"`
	EscalationMinScore          float64 `mapstructure:"escalation_min_score"`
	ForecastWindowDays          int     `mapstructure:"forecast_window_days"`
	ForecastIncludeOverdue      bool    `mapstructure:"forecast_include_overdue"`
	OwnerCapacityWindowDays     int     `mapstructure:"owner_capacity_window_days"`
	OwnerCapacityDaily          int     `mapstructure:"owner_capacity_daily"`
	OwnerCapacityExcludeOverdue bool    `mapstructure:"owner_capacity_exclude_overdue"`
	OwnerOverdueThreshold       int     `mapstructure:"owner_overdue_threshold"`
	OwnerNoTouchThreshold       int     `mapstructure:"owner_no_touch_threshold"`
	OwnerTotalThreshold         int     `mapstructure:"owner_total_threshold"`
}

// Database selects the run store.
type Database struct {
	Driver string `mapstructure:"driver"`
	Schema string `mapstructure:"schema"`
}

// Logging configures slog.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the full planner configuration.
type Config struct {
	Thresholds Thresholds `mapstructure:"thresholds"`
	Report     Report     `mapstructure:"report"`
	DB         Database   `mapstructure:"db"`
	Logging    Logging    `mapstructure:"logging"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	th := planner.DefaultThresholds()
	opts := planner.DefaultOptions()

	v.SetDefault("thresholds.high_risk", th.High)
	v.SetDefault("thresholds.medium_risk", th.Medium)
	v.SetDefault("thresholds.soon_days", th.SoonDays)
	v.SetDefault("thresholds.stale_days", th.StaleDays)
	v.SetDefault("thresholds.stale_boost", th.StaleBoost)
	v.SetDefault("thresholds.high_impact_flags", planner.DefaultHighImpactFlags())

	v.SetDefault("report.limit", 10)
	v.SetDefault("report.cohort_limit", 5)
	v.SetDefault("report.owner_limit", 5)
	v.SetDefault("report.owner_queue_limit", opts.OwnerQueueLimit)
	v.SetDefault("report.owner_queue_size", opts.OwnerQueueSize)
	v.SetDefault("report.channel_batch_limit", opts.ChannelBatchLimit)
	v.SetDefault("report.channel_batch_size", opts.ChannelBatchSize)
	v.SetDefault("report.escalation_limit", opts.EscalationLimit)
	v.SetDefault("report.escalation_min_score", opts.EscalationMinScore)
	v.SetDefault("report.forecast_window_days", opts.ForecastWindowDays)
	v.SetDefault("report.forecast_include_overdue", opts.ForecastIncludeOverdue)
	v.SetDefault("report.owner_capacity_window_days", opts.CapacityWindowDays)
	v.SetDefault("report.owner_capacity_daily", opts.CapacityDaily)
	v.SetDefault("report.owner_capacity_exclude_overdue", !opts.CapacityIncludeOverdue)
	v.SetDefault("report.owner_overdue_threshold", opts.Alerts.Overdue)
	v.SetDefault("report.owner_no_touch_threshold", opts.Alerts.NoTouch)
	v.SetDefault("report.owner_total_threshold", opts.Alerts.Total)

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.schema", DefaultSchema)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that the engine and store cannot recover from.
func (c Config) Validate() error {
	var problems []string
	if c.Thresholds.SoonDays < 0 {
		problems = append(problems, "thresholds.soon_days must not be negative")
	}
	if c.Thresholds.StaleDays < 0 {
		problems = append(problems, "thresholds.stale_days must not be negative")
	}
	nonNegative := map[string]int{
		"report.limit":                      c.Report.Limit,
		"report.cohort_limit":               c.Report.CohortLimit,
		"report.owner_limit":                c.Report.OwnerLimit,
		"report.owner_queue_limit":          c.Report.OwnerQueueLimit,
		"report.owner_queue_size":           c.Report.OwnerQueueSize,
		"report.channel_batch_limit":        c.Report.ChannelBatchLimit,
		"report.channel_batch_size":         c.Report.ChannelBatchSize,
		"report.escalation_limit":           c.Report.EscalationLimit,
		"report.forecast_window_days":       c.Report.ForecastWindowDays,
		"report.owner_capacity_window_days": c.Report.OwnerCapacityWindowDays,
		"report.owner_capacity_daily":       c.Report.OwnerCapacityDaily,
	}
	for _, key := range sortedKeys(nonNegative) {
		if nonNegative[key] < 0 {
			problems = append(problems, key+" must not be negative")
		}
	}
	if _, err := store.SanitizeSchema(c.DB.Schema); err != nil {
		problems = append(problems, err.Error())
	}
	switch strings.ToLower(c.DB.Driver) {
	case store.DriverPostgres, store.DriverSQLite:
	default:
		problems = append(problems, fmt.Sprintf("unknown db.driver %q", c.DB.Driver))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// EngineThresholds converts the scoring settings for the planner.
func (c Config) EngineThresholds() planner.Thresholds {
	return planner.Thresholds{
		High:       c.Thresholds.HighRisk,
		Medium:     c.Thresholds.MediumRisk,
		SoonDays:   c.Thresholds.SoonDays,
		StaleDays:  c.Thresholds.StaleDays,
		StaleBoost: c.Thresholds.StaleBoost,
	}
}

// AnalysisOptions converts the report settings for the planner.
func (c Config) AnalysisOptions() planner.Options {
	r := c.Report
	return planner.Options{
		OwnerQueueLimit:        r.OwnerQueueLimit,
		OwnerQueueSize:         r.OwnerQueueSize,
		ChannelBatchLimit:      r.ChannelBatchLimit,
		ChannelBatchSize:       r.ChannelBatchSize,
		EscalationLimit:        r.EscalationLimit,
		EscalationMinScore:     r.EscalationMinScore,
		ForecastWindowDays:     r.ForecastWindowDays,
		ForecastIncludeOverdue: r.ForecastIncludeOverdue,
		CapacityWindowDays:     r.OwnerCapacityWindowDays,
		CapacityDaily:          r.OwnerCapacityDaily,
		CapacityIncludeOverdue: !r.OwnerCapacityExcludeOverdue,
		Alerts: planner.AlertThresholds{
			Overdue: r.OwnerOverdueThreshold,
			NoTouch: r.OwnerNoTouchThreshold,
			Total:   r.OwnerTotalThreshold,
		},
	}
}

func sortedKeys(values map[string]int) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
