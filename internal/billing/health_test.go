package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"subtrackr_backend/internal/models"
)

func intPtr(v int) *int { return &v }

func paymentStatusPtr(s models.PaymentStatus) *models.PaymentStatus { return &s }

func amounts(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, decimal.RequireFromString(v))
	}
	return out
}

func TestHealthScore_PerfectSubscription(t *testing.T) {
	t.Parallel()

	sub := &models.Subscription{
		Status:            models.SubscriptionStatusActive,
		PricingType:       models.PricingFixed,
		LastPaymentStatus: paymentStatusPtr(models.PaymentStatusPaid),
	}

	assert.Equal(t, 100, HealthScore(sub, nil, date(2025, 6, 15)))
}

func TestHealthScore_PaymentDeductions(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 15)

	sub := &models.Subscription{LastPaymentStatus: paymentStatusPtr(models.PaymentStatusOverdue)}
	assert.Equal(t, 70, HealthScore(sub, nil, now))

	sub.LastPaymentStatus = paymentStatusPtr(models.PaymentStatusPending)
	assert.Equal(t, 90, HealthScore(sub, nil, now))
}

func TestHealthScore_UnderutilizedSeats(t *testing.T) {
	t.Parallel()

	// Paying for 100 seats while 10 are used: 100 - 25 = 75.
	sub := &models.Subscription{
		PricingType:       models.PricingFixed,
		LastPaymentStatus: paymentStatusPtr(models.PaymentStatusPaid),
		SeatCount:         intPtr(100),
		SeatsUsed:         intPtr(10),
	}

	assert.Equal(t, 75, HealthScore(sub, nil, date(2025, 6, 15)))
}

func TestHealthScore_SeatUtilizationBands(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 15)

	tests := []struct {
		used int
		want int
	}{
		{29, 75},  // under 30%
		{30, 100}, // boundary, no deduction
		{60, 100},
		{90, 100}, // boundary, no deduction
		{91, 95},  // over 90%
	}

	for _, tt := range tests {
		sub := &models.Subscription{
			SeatCount: intPtr(100),
			SeatsUsed: intPtr(tt.used),
		}
		assert.Equal(t, tt.want, HealthScore(sub, nil, now), "seatsUsed=%d", tt.used)
	}
}

func TestHealthScore_SeatsIgnoredWhenUnknown(t *testing.T) {
	t.Parallel()

	sub := &models.Subscription{SeatCount: intPtr(100)}
	assert.Equal(t, 100, HealthScore(sub, nil, date(2025, 6, 15)))
}

func TestHealthScore_ContractExpiry(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 15)

	soon := date(2025, 6, 30)
	sub := &models.Subscription{ContractEndDate: &soon}
	assert.Equal(t, 85, HealthScore(sub, nil, now))

	lapsed := date(2025, 5, 1)
	sub = &models.Subscription{ContractEndDate: &lapsed}
	assert.Equal(t, 75, HealthScore(sub, nil, now))

	far := date(2026, 6, 15)
	sub = &models.Subscription{ContractEndDate: &far}
	assert.Equal(t, 100, HealthScore(sub, nil, now))
}

func TestHealthScore_VolatileVariableCost(t *testing.T) {
	t.Parallel()

	// [100, 100, 400]: mean 200, population stddev ~141.4, CV ~70.7% > 30.
	sub := &models.Subscription{PricingType: models.PricingVariable}
	history := amounts("400", "100", "100")

	assert.Equal(t, 80, HealthScore(sub, history, date(2025, 6, 15)))
}

func TestHealthScore_StableVariableCost(t *testing.T) {
	t.Parallel()

	sub := &models.Subscription{PricingType: models.PricingVariable}
	history := amounts("100", "102", "98")

	assert.Equal(t, 100, HealthScore(sub, history, date(2025, 6, 15)))
}

func TestHealthScore_VolatilityNeedsThreePoints(t *testing.T) {
	t.Parallel()

	sub := &models.Subscription{PricingType: models.PricingVariable}
	history := amounts("500", "10")

	assert.Equal(t, 100, HealthScore(sub, history, date(2025, 6, 15)))
}

func TestHealthScore_FixedPricingIgnoresHistory(t *testing.T) {
	t.Parallel()

	sub := &models.Subscription{PricingType: models.PricingFixed}
	history := amounts("100", "100", "400")

	assert.Equal(t, 100, HealthScore(sub, history, date(2025, 6, 15)))
}

func TestHealthScore_FloorAtZero(t *testing.T) {
	t.Parallel()

	// All deductions at once: 100 - 30 - 25 - 25 - 20 < 0, floored at 0.
	lapsed := date(2025, 1, 1)
	sub := &models.Subscription{
		PricingType:       models.PricingVariable,
		LastPaymentStatus: paymentStatusPtr(models.PaymentStatusOverdue),
		SeatCount:         intPtr(100),
		SeatsUsed:         intPtr(1),
		ContractEndDate:   &lapsed,
	}
	history := amounts("100", "100", "400")

	assert.Equal(t, 0, HealthScore(sub, history, date(2025, 6, 15)))
}

func TestHealthScore_Bounds(t *testing.T) {
	t.Parallel()

	// Score stays in [0,100] across a grid of inputs.
	now := date(2025, 6, 15)
	seatCounts := []*int{nil, intPtr(10), intPtr(100)}
	seatsUsed := []*int{nil, intPtr(0), intPtr(5), intPtr(100)}
	statuses := []*models.PaymentStatus{
		nil,
		paymentStatusPtr(models.PaymentStatusPaid),
		paymentStatusPtr(models.PaymentStatusPending),
		paymentStatusPtr(models.PaymentStatusOverdue),
	}
	ends := []*time.Time{nil, timePtr(date(2025, 1, 1)), timePtr(date(2025, 7, 1)), timePtr(date(2027, 1, 1))}

	for _, sc := range seatCounts {
		for _, su := range seatsUsed {
			for _, st := range statuses {
				for _, end := range ends {
					sub := &models.Subscription{
						PricingType:       models.PricingVariable,
						LastPaymentStatus: st,
						SeatCount:         sc,
						SeatsUsed:         su,
						ContractEndDate:   end,
					}
					score := HealthScore(sub, amounts("100", "100", "400"), now)
					assert.GreaterOrEqual(t, score, 0)
					assert.LessOrEqual(t, score, 100)
				}
			}
		}
	}
}

func timePtr(t time.Time) *time.Time { return &t }
