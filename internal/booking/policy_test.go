package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefundPercentageTiers(t *testing.T) {
	p := DefaultRefundPolicy()

	assert.Equal(t, 100, p.RefundPercentage(24))
	assert.Equal(t, 100, p.RefundPercentage(48))
	assert.Equal(t, 50, p.RefundPercentage(23.9))
	assert.Equal(t, 50, p.RefundPercentage(10))
	assert.Equal(t, 50, p.RefundPercentage(6))
	assert.Equal(t, 25, p.RefundPercentage(5.9))
	assert.Equal(t, 25, p.RefundPercentage(1))
}

func TestRefundPercentageMonotonic(t *testing.T) {
	p := DefaultRefundPolicy()

	// More notice never yields a smaller refund.
	prev := 0
	for _, h := range []float64{1, 2, 5.99, 6, 12, 23.99, 24, 72} {
		pct := p.RefundPercentage(h)
		assert.GreaterOrEqual(t, pct, prev, "hours=%v", h)
		prev = pct
	}
}

func TestRefundAmountCents(t *testing.T) {
	p := DefaultRefundPolicy()

	// Three seats at 10.00 each.
	amount, pct := p.RefundAmountCents(3000, 48)
	assert.Equal(t, int64(3000), amount)
	assert.Equal(t, 100, pct)

	amount, pct = p.RefundAmountCents(3000, 10)
	assert.Equal(t, int64(1500), amount)
	assert.Equal(t, 50, pct)

	amount, pct = p.RefundAmountCents(3000, 2)
	assert.Equal(t, int64(750), amount)
	assert.Equal(t, 25, pct)
}

func TestRefundAmountRoundsDown(t *testing.T) {
	p := DefaultRefundPolicy()

	// 25% of 999 cents is 249.75; the refund stays in whole cents.
	amount, _ := p.RefundAmountCents(999, 2)
	assert.Equal(t, int64(249), amount)

	// 50% of an odd total rounds down too.
	amount, _ = p.RefundAmountCents(101, 10)
	assert.Equal(t, int64(50), amount)
}

func TestRefundAmountNeverExceedsTotal(t *testing.T) {
	p := RefundPolicy{MinNoticeHours: 1, LowTierPct: 25, MidTierPct: 50, FullTierPct: 100}
	for _, total := range []int64{0, 1, 999, 123456} {
		for _, h := range []float64{1.5, 7, 30} {
			amount, pct := p.RefundAmountCents(total, h)
			assert.LessOrEqual(t, amount, total)
			assert.GreaterOrEqual(t, pct, 0)
			assert.LessOrEqual(t, pct, 100)
		}
	}
}
