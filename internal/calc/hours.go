// Package calc implements the measurement math: hours reconciliation over
// daily field reports, franchise/guarantee application, and monetary totals
// aggregation. All functions are pure transforms over domain values.
package calc

import (
	"strconv"
	"strings"
	"time"

	"medibill/internal/domain"
)

// GuaranteeConfig is the slice of the proposal snapshot the reconciliation
// step needs.
type GuaranteeConfig struct {
	MinHoursGuarantee float64
	IgnoreLunchBreak  bool
}

// ParseClock converts an "HH:MM" clock string into fractional hours.
// Missing or unparseable values yield 0, never an error: field data entry is
// messy and a bad time must not abort a whole measurement.
func ParseClock(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 {
		return 0
	}
	return float64(h) + float64(m)/60
}

// IsWeekend reports whether the date falls on Saturday or Sunday. The
// contractual guarantee is suppressed on weekends; there is no holiday
// calendar, only the calendar day-of-week.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// applicableGuarantee returns the guarantee hours applying on the given date.
func applicableGuarantee(date time.Time, minGuarantee float64) float64 {
	if IsWeekend(date) {
		return 0
	}
	return sanitize(minGuarantee)
}

// ReconcileReports converts daily reports into measurement detail lines,
// preserving input order (chronological by report date). An empty input
// yields an empty output; "nothing found" is the caller's call to present.
func ReconcileReports(reports []domain.DailyReport, cfg GuaranteeConfig) []domain.MeasurementDetail {
	details := make([]domain.MeasurementDetail, 0, len(reports))
	for i := range reports {
		details = append(details, reconcileReport(&reports[i], cfg, i))
	}
	return details
}

func reconcileReport(r *domain.DailyReport, cfg GuaranteeConfig, position int) domain.MeasurementDetail {
	start := ParseClock(r.StartTime)
	end := ParseClock(r.EndTime)

	lunch := 0.0
	if !cfg.IgnoreLunchBreak {
		lunch = nonNegative(ParseClock(r.LunchEndTime) - ParseClock(r.LunchStartTime))
	}

	worked := nonNegative(end - start - lunch)
	total := nonNegative(worked - sanitize(r.DowntimeHours))

	guarantee := applicableGuarantee(r.ReportDate, cfg.MinHoursGuarantee)
	overtime := nonNegative(total - guarantee)

	reportID := r.ID
	return domain.MeasurementDetail{
		ReportID:       &reportID,
		ReportNumber:   r.ReportNumber,
		OperatorName:   r.OperatorName,
		ReportDate:     r.ReportDate,
		DowntimeHours:  sanitize(r.DowntimeHours),
		TotalHours:     total,
		GuaranteeHours: guarantee,
		OvertimeHours:  overtime,
		BalanceHours:   total,
		Position:       position,
	}
}

// ReapplyGuarantee recomputes guarantee and overtime hours on existing detail
// lines for a (possibly edited) contractual guarantee, without re-fetching
// the raw reports. Total, balance, and downtime hours are untouched.
// Applying twice with the same guarantee yields the same result.
func ReapplyGuarantee(details []domain.MeasurementDetail, minGuarantee float64) []domain.MeasurementDetail {
	out := make([]domain.MeasurementDetail, len(details))
	copy(out, details)
	for i := range out {
		out[i].GuaranteeHours = applicableGuarantee(out[i].ReportDate, minGuarantee)
		out[i].OvertimeHours = nonNegative(sanitize(out[i].TotalHours) - out[i].GuaranteeHours)
	}
	return out
}

// RederiveDetail restores the overtime and balance invariants after a manual
// edit to a line's total or guarantee hours.
func RederiveDetail(d domain.MeasurementDetail) domain.MeasurementDetail {
	d.TotalHours = sanitize(d.TotalHours)
	d.GuaranteeHours = sanitize(d.GuaranteeHours)
	d.OvertimeHours = nonNegative(d.TotalHours - d.GuaranteeHours)
	d.BalanceHours = d.TotalHours
	return d
}
