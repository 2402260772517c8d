package config

import (
	"os"
	"strconv"
)

// RefundConfig holds the cancellation policy tiers.  Values are read
// from the environment with house defaults so a bare deployment still
// has a sane policy.  Percentages must be 0-100 and non-decreasing
// from low to full tier; invalid values fall back to the defaults.
type RefundConfig struct {
	MinNoticeHours float64 // cancellations closer to showtime are rejected
	LowTierPct     int     // refund % from min notice up to 6 hours out
	MidTierPct     int     // refund % from 6 up to 24 hours out
	FullTierPct    int     // refund % at 24 hours out or more
}

// LoadRefundConfig reads the refund tier environment variables.
func LoadRefundConfig() RefundConfig {
	rc := RefundConfig{
		MinNoticeHours: envFloat("REFUND_MIN_NOTICE_HOURS", 1),
		LowTierPct:     envInt("REFUND_LOW_TIER_PCT", 25),
		MidTierPct:     envInt("REFUND_MID_TIER_PCT", 50),
		FullTierPct:    envInt("REFUND_FULL_TIER_PCT", 100),
	}
	if rc.MinNoticeHours < 0 {
		rc.MinNoticeHours = 0
	}
	if !validPct(rc.LowTierPct) || !validPct(rc.MidTierPct) || !validPct(rc.FullTierPct) ||
		rc.LowTierPct > rc.MidTierPct || rc.MidTierPct > rc.FullTierPct {
		rc.LowTierPct, rc.MidTierPct, rc.FullTierPct = 25, 50, 100
	}
	return rc
}

func validPct(p int) bool { return p >= 0 && p <= 100 }

func envFloat(k string, d float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return d
}
