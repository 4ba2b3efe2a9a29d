package calc

import (
	"math"

	"medibill/internal/domain"
)

// sanitize coerces NaN and infinities to 0 so a bad input field never
// poisons an aggregate.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func nonNegative(v float64) float64 {
	v = sanitize(v)
	if v < 0 {
		return 0
	}
	return v
}

// AggregateTotals sums detail lines into period totals and converts them to
// monetary value using the proposal snapshot.
//
// Billable hours follow the contract: an explicit considered-hours override
// wins outright; otherwise the guarantee times the number of periods is a
// floor under the actual balance, so the customer pays for the contractual
// minimum even on a slow period.
func AggregateTotals(details []domain.MeasurementDetail, snap domain.ProposalSnapshot) domain.Totals {
	var t domain.Totals
	var balanceSum float64
	for i := range details {
		t.TotalDowntimeHours += sanitize(details[i].DowntimeHours)
		t.TotalTotalHours += sanitize(details[i].TotalHours)
		t.TotalGuaranteeHours += sanitize(details[i].GuaranteeHours)
		t.TotalOvertimeHours += sanitize(details[i].OvertimeHours)
		balanceSum += sanitize(details[i].BalanceHours)
	}

	if considered := sanitize(snap.ConsideredHours); considered > 0 {
		t.TotalBalanceHours = considered
	} else {
		floor := sanitize(snap.MinHoursGuarantee) * float64(snap.PeriodsQuantity)
		t.TotalBalanceHours = math.Max(balanceSum, floor)
	}

	t.TotalBaseValue = t.TotalBalanceHours * sanitize(snap.HourValue)
	t.TotalOvertimeValue = t.TotalOvertimeHours * sanitize(snap.ExtraHourValue)

	subtotal := t.TotalBaseValue + t.TotalOvertimeValue +
		sanitize(snap.Mobilization) + sanitize(snap.Demobilization)
	t.TotalValue = subtotal - sanitize(snap.Discount)

	return t
}
