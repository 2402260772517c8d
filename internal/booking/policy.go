package booking

// RefundPolicy maps the time remaining until showtime to a refund
// percentage.  The tiers are configuration, not process-wide state, so
// the engine stays deterministic and testable.  Percentages are whole
// numbers in [0,100] and must be non-decreasing from low to full tier
// for RefundPercentage to be monotone.
type RefundPolicy struct {
	MinNoticeHours float64 // below this, cancellation is rejected outright
	LowTierPct     int     // [MinNoticeHours, 6h)
	MidTierPct     int     // [6h, 24h)
	FullTierPct    int     // >= 24h
}

// Tier boundaries in hours before showtime.
const (
	midTierHours  = 6.0
	fullTierHours = 24.0
)

// DefaultRefundPolicy mirrors the standard house rules: full refund a
// day or more ahead, half between 6 and 24 hours, a quarter down to
// one hour before the show.
func DefaultRefundPolicy() RefundPolicy {
	return RefundPolicy{
		MinNoticeHours: 1,
		LowTierPct:     25,
		MidTierPct:     50,
		FullTierPct:    100,
	}
}

// RefundPercentage returns the refund percentage for a cancellation
// happening hoursUntilShow before showtime.  Callers must reject
// cancellations below MinNoticeHours before consulting the policy;
// inputs under the minimum still yield the low tier so the function
// stays total and monotone over its whole domain.
func (p RefundPolicy) RefundPercentage(hoursUntilShow float64) int {
	switch {
	case hoursUntilShow >= fullTierHours:
		return p.FullTierPct
	case hoursUntilShow >= midTierHours:
		return p.MidTierPct
	default:
		return p.LowTierPct
	}
}

// RefundAmountCents applies the percentage for hoursUntilShow to a
// ticket total, rounding down to the currency's minor unit.  Integer
// arithmetic only; money never passes through floating point.
func (p RefundPolicy) RefundAmountCents(totalCents int64, hoursUntilShow float64) (int64, int) {
	pct := p.RefundPercentage(hoursUntilShow)
	return totalCents * int64(pct) / 100, pct
}
