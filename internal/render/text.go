package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"groupscholar-intervention-planner/internal/planner"
)

// Display limits how many rows each text section shows.
type Display struct {
	Limit       int
	CohortLimit int
	OwnerLimit  int
}

type textWriter struct {
	w     io.Writer
	p     *message.Printer
	title cases.Caser
}

// PrintReport writes the human-readable report for inputPath to w.
func PrintReport(w io.Writer, report planner.Report, inputPath string, display Display) error {
	tw := &textWriter{
		w:     w,
		p:     message.NewPrinter(language.English),
		title: cases.Title(language.English),
	}

	fmt.Fprintln(w, TitleStyle.Render("Group Scholar Intervention Planner"))
	fmt.Fprintln(w, strings.Repeat("=", 38))
	if inputPath != "" {
		fmt.Fprintf(w, "Input: %s\n", filepath.Base(inputPath))
	}
	fmt.Fprintf(w, "Today: %s\n", report.Today)

	steps := []func(planner.Report, Display) error{
		tw.summary,
		tw.channelMix,
		tw.flags,
		tw.cohorts,
		tw.owners,
		tw.ownerAlerts,
		tw.ownerCapacity,
		tw.ownerHorizon,
		tw.horizon,
		tw.forecast,
		tw.aging,
		tw.statusByRisk,
		tw.adherence,
		tw.escalations,
		tw.ownerQueue,
		tw.channelBatches,
		tw.actionQueue,
		tw.guidance,
	}
	for _, step := range steps {
		if err := step(report, display); err != nil {
			return err
		}
	}
	return nil
}

func (t *textWriter) section(name string) {
	fmt.Fprintln(t.w)
	fmt.Fprintln(t.w, SectionStyle.Render(name))
	fmt.Fprintln(t.w, strings.Repeat("-", len(name)))
}

func (t *textWriter) table() *tabwriter.Writer {
	return tabwriter.NewWriter(t.w, 0, 0, 2, ' ', 0)
}

func (t *textWriter) summary(report planner.Report, _ Display) error {
	s := report.Summary
	t.section("Intervention Summary")
	t.p.Fprintf(t.w, "Total scholars: %d\n", s.Total)
	t.p.Fprintf(t.w, "High risk: %d\n", s.HighRisk)
	t.p.Fprintf(t.w, "Medium risk: %d\n", s.MediumRisk)
	t.p.Fprintf(t.w, "Low risk: %d\n", s.LowRisk)
	t.p.Fprintf(t.w, "Overdue touches: %d\n", s.Overdue)
	t.p.Fprintf(t.w, "Due soon: %d\n", s.DueSoon)
	t.p.Fprintf(t.w, "On track: %d\n", s.OnTrack)
	t.p.Fprintf(t.w, "No prior touch: %d\n", s.NoTouch)
	t.p.Fprintf(t.w, "Stale touches: %d\n", s.StaleTouch)
	return nil
}

func (t *textWriter) channelMix(report planner.Report, _ Display) error {
	t.section("Channel Mix")
	if len(report.ChannelMix) == 0 {
		fmt.Fprintln(t.w, "No channel data available.")
		return nil
	}
	tw := t.table()
	for _, entry := range report.ChannelMix {
		t.p.Fprintf(tw, "%s\t%d\n", entry.Channel, entry.Count)
	}
	return tw.Flush()
}

func (t *textWriter) flags(report planner.Report, _ Display) error {
	t.section("High-Impact Flags")
	if len(report.HighImpactFlags) == 0 {
		fmt.Fprintln(t.w, "No high-impact flags captured.")
		return nil
	}
	tw := t.table()
	for _, entry := range report.HighImpactFlags {
		t.p.Fprintf(tw, "%s\t%d\n", entry.Flag, entry.Count)
	}
	return tw.Flush()
}

func (t *textWriter) cohorts(report planner.Report, display Display) error {
	t.section("Cohort Hotspots")
	if len(report.CohortSummary) == 0 {
		fmt.Fprintln(t.w, "No cohort data available.")
		return nil
	}
	tw := t.table()
	fmt.Fprintln(tw, "Cohort\tTotal\tOverdue\tDueSoon\tNoTouch\tAvgScore")
	for _, entry := range limit(report.CohortSummary, display.CohortLimit) {
		t.p.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.1f\n",
			clip(entry.Cohort, 16), entry.Total, entry.Overdue, entry.DueSoon, entry.NoTouch, entry.AvgPriority)
	}
	return tw.Flush()
}

func (t *textWriter) owners(report planner.Report, display Display) error {
	t.section("Owner Load")
	if len(report.OwnerSummary) == 0 {
		fmt.Fprintln(t.w, "No owner data available.")
		return nil
	}
	tw := t.table()
	fmt.Fprintln(tw, "Owner\tTotal\tOverdue\tDueSoon\tNoTouch\tAvgScore")
	for _, entry := range limit(report.OwnerSummary, display.OwnerLimit) {
		t.p.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.1f\n",
			clip(entry.Owner, 18), entry.Total, entry.Overdue, entry.DueSoon, entry.NoTouch, entry.AvgPriority)
	}
	return tw.Flush()
}

func (t *textWriter) ownerAlerts(report planner.Report, _ Display) error {
	t.section("Owner Alerts")
	if len(report.Summary.OwnerAlerts) == 0 {
		fmt.Fprintln(t.w, "No owners over alert thresholds.")
		return nil
	}
	for _, alert := range report.Summary.OwnerAlerts {
		fmt.Fprintln(t.w, WarningStyle.Render(fmt.Sprintf("%s: %s", alert.Owner, strings.Join(alert.Reasons, ", "))))
	}
	return nil
}

func (t *textWriter) ownerCapacity(report planner.Report, display Display) error {
	t.section("Owner Capacity")
	if len(report.OwnerCapacity) == 0 {
		fmt.Fprintln(t.w, "No owner data available.")
		return nil
	}
	tw := t.table()
	fmt.Fprintln(tw, "Owner\tDue\tCapacity\tGap\tUtilization")
	for _, entry := range limit(report.OwnerCapacity, display.OwnerLimit) {
		t.p.Fprintf(tw, "%s\t%d\t%d\t%d\t%.0f%%\n",
			clip(entry.Owner, 18), entry.DueWithinWindow, entry.Capacity, entry.Gap, entry.Utilization*100)
	}
	return tw.Flush()
}

func (t *textWriter) ownerHorizon(report planner.Report, display Display) error {
	t.section("Owner Horizon")
	if len(report.OwnerHorizon) == 0 {
		fmt.Fprintln(t.w, "No owner data available.")
		return nil
	}
	tw := t.table()
	fmt.Fprintln(tw, "Owner\tOverdue\t0-7\t8-14\t15-30\tLater\tNoDue\tAvgScore")
	for _, entry := range limit(report.OwnerHorizon, display.OwnerLimit) {
		t.p.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%.1f\n",
			clip(entry.Owner, 18), entry.Overdue, entry.Next7Days, entry.Next14Days, entry.Next30Days,
			entry.Later, entry.NoDueDate, entry.AvgPriority)
	}
	return tw.Flush()
}

func (t *textWriter) horizon(report planner.Report, _ Display) error {
	h := report.TouchpointHorizon
	t.section("Touchpoint Horizon")
	tw := t.table()
	t.p.Fprintf(tw, "Overdue\t%d\n", h.Overdue)
	t.p.Fprintf(tw, "Next 7 days\t%d\n", h.Next7Days)
	t.p.Fprintf(tw, "Next 8-14 days\t%d\n", h.Next14Days)
	t.p.Fprintf(tw, "Next 15-30 days\t%d\n", h.Next30Days)
	t.p.Fprintf(tw, "Later\t%d\n", h.Later)
	t.p.Fprintf(tw, "No due date\t%d\n", h.NoDueDate)
	return tw.Flush()
}

func (t *textWriter) forecast(report planner.Report, _ Display) error {
	f := report.TouchpointForecast
	t.section(fmt.Sprintf("Touchpoint Forecast (%d days)", f.WindowDays))
	tw := t.table()
	for _, day := range f.Daily {
		if day.Count == 0 {
			continue
		}
		t.p.Fprintf(tw, "%s\t%d\n", day.Date, day.Count)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	note := "overdue counted separately"
	if f.IncludeOverdue {
		note = "overdue folded into today"
	}
	t.p.Fprintf(t.w, "Overdue: %d (%s) | Beyond window: %d | No due date: %d\n",
		f.Overdue, note, f.BeyondWindow, f.NoDueDate)
	return nil
}

func (t *textWriter) aging(report planner.Report, _ Display) error {
	t.section("Overdue Aging")
	tw := t.table()
	for _, bucket := range report.OverdueAging {
		t.p.Fprintf(tw, "%s days\t%d\n", bucket.Label, bucket.Count)
	}
	return tw.Flush()
}

func (t *textWriter) statusByRisk(report planner.Report, _ Display) error {
	t.section("Status by Risk")
	tw := t.table()
	fmt.Fprintln(tw, "Tier\tOverdue\tDueSoon\tOnTrack\tNoTouch")
	for _, tier := range []planner.Tier{planner.TierHigh, planner.TierMedium, planner.TierLow} {
		row := report.StatusByRisk.Tier(tier)
		t.p.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", t.title.String(string(tier)), row.Overdue, row.DueSoon, row.OnTrack, row.NoTouch)
	}
	return tw.Flush()
}

func (t *textWriter) adherence(report planner.Report, _ Display) error {
	a := report.CadenceAdherence
	t.section("Cadence Adherence")
	tw := t.table()
	fmt.Fprintln(tw, "Tier\tTotal\tCompliant\tOverdue\tNoTouch\tRate")
	rows := []struct {
		name string
		row  planner.Adherence
	}{
		{"High", a.High},
		{"Medium", a.Medium},
		{"Low", a.Low},
		{"Overall", a.Overall},
	}
	for _, r := range rows {
		t.p.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.0f%%\n",
			r.name, r.row.Total, r.row.Compliant, r.row.Overdue, r.row.NoTouch, r.row.ComplianceRate*100)
	}
	return tw.Flush()
}

func (t *textWriter) escalations(report planner.Report, _ Display) error {
	t.section("Escalation Candidates")
	if len(report.EscalationCandidates) == 0 {
		fmt.Fprintln(t.w, "No escalation candidates.")
		return nil
	}
	tw := t.table()
	fmt.Fprintln(tw, "Score\tScholar\tOwner\tStatus\tReasons")
	for _, c := range report.EscalationCandidates {
		t.p.Fprintf(tw, "%.1f\t%s\t%s\t%s\t%s\n",
			c.PriorityScore, clip(c.Name, 20), clip(c.Owner, 16), c.Status, strings.Join(c.PriorityReasons, "; "))
	}
	return tw.Flush()
}

func (t *textWriter) ownerQueue(report planner.Report, _ Display) error {
	t.section("Owner Queue")
	if len(report.OwnerQueue) == 0 {
		fmt.Fprintln(t.w, "No owner queues.")
		return nil
	}
	tw := t.table()
	for _, queue := range report.OwnerQueue {
		t.p.Fprintf(tw, "%s (%d scholars)\n", queue.Owner, queue.Total)
		t.queueItems(tw, queue.Items)
	}
	return tw.Flush()
}

func (t *textWriter) channelBatches(report planner.Report, _ Display) error {
	t.section("Channel Batches")
	if len(report.ChannelBatches) == 0 {
		fmt.Fprintln(t.w, "No channel batches.")
		return nil
	}
	tw := t.table()
	for _, batch := range report.ChannelBatches {
		t.p.Fprintf(tw, "%s: %d total, %d overdue, %d due soon, avg %.1f\n",
			batch.Channel, batch.Total, batch.Overdue, batch.DueSoon, batch.AvgPriority)
		t.queueItems(tw, batch.Items)
	}
	return tw.Flush()
}

// queueItems writes indented item rows. Group headers carry no tabs so they
// stay out of the column widths.
func (t *textWriter) queueItems(tw io.Writer, items []planner.QueueItem) {
	for _, item := range items {
		due := formatDate(item.DueDate)
		if due == "" {
			due = "-"
		}
		t.p.Fprintf(tw, "  %s\t%s\t%s\t%.1f\t%s\n",
			item.ScholarID, clip(item.Name, 20), item.Status, item.PriorityScore, due)
	}
}

func (t *textWriter) actionQueue(report planner.Report, display Display) error {
	t.section("Priority Action Queue")
	if len(report.Records) == 0 {
		fmt.Fprintln(t.w, "No scholars found.")
		return nil
	}
	for _, record := range limit(report.Records, display.Limit) {
		due := "-"
		if record.DueDate != nil {
			due = record.DueDate.Format("2006-01-02")
		}
		t.p.Fprintf(t.w, "%6.1f  %-20s %-10s %5.1f  %-9s %-10s\n",
			record.PriorityScore, clip(record.Name, 20), clip(record.Cohort, 10), record.RiskScore, record.Status, due)
		fmt.Fprintln(t.w, SubtleStyle.Render("      -> "+record.RecommendedAction))
	}
	return nil
}

func (t *textWriter) guidance(report planner.Report, _ Display) error {
	th := report.Thresholds
	t.section("Cadence Guidance")
	t.p.Fprintf(t.w, "High risk (>= %.0f): touch every 7 days\n", th.HighRisk)
	t.p.Fprintf(t.w, "Medium risk (>= %.0f): touch every 21 days\n", th.MediumRisk)
	fmt.Fprintln(t.w, "Low risk: touch every 45 days")
	return nil
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

func clip(value string, width int) string {
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}
	return string(runes[:width])
}
