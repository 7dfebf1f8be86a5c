package billing

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"subtrackr_backend/internal/models"
)

// Deductions applied by HealthScore. Independent and additive; the final
// score is clamped to [0,100].
const (
	penaltyPaymentOverdue = 30
	penaltyPaymentPending = 10
	penaltyUnderutilized  = 25
	penaltyNearCapacity   = 5
	penaltyRenewalSoon    = 15
	penaltyContractLapsed = 25
	penaltyVolatileCost   = 20

	lowUtilization  = 0.30
	highUtilization = 0.90

	renewalWindowDays = 30

	// Coefficient-of-variation threshold (percent) above which a
	// variable-cost history counts as volatile.
	volatilityCVThreshold = 30.0

	// Minimum number of monthly actuals before volatility is assessed.
	volatilityMinPoints = 3
)

// HealthScore computes the 0-100 suitability score for a subscription.
// costHistory must be the most recent monthly actuals, newest first; only
// the last three are considered. Deterministic: same inputs, same score.
func HealthScore(sub *models.Subscription, costHistory []decimal.Decimal, now time.Time) int {
	score := 100

	if sub.LastPaymentStatus != nil {
		switch *sub.LastPaymentStatus {
		case models.PaymentStatusOverdue:
			score -= penaltyPaymentOverdue
		case models.PaymentStatusPending:
			score -= penaltyPaymentPending
		}
	}

	if sub.SeatCount != nil && sub.SeatsUsed != nil && *sub.SeatCount > 0 {
		utilization := float64(*sub.SeatsUsed) / float64(*sub.SeatCount)
		if utilization < lowUtilization {
			// Paying for capacity nobody uses.
			score -= penaltyUnderutilized
		} else if utilization > highUtilization {
			score -= penaltyNearCapacity
		}
	}

	if sub.ContractEndDate != nil {
		daysToExpiry := int(math.Ceil(sub.ContractEndDate.Sub(now).Hours() / 24))
		switch {
		case daysToExpiry <= 0:
			score -= penaltyContractLapsed
		case daysToExpiry < renewalWindowDays:
			score -= penaltyRenewalSoon
		}
	}

	if sub.PricingType == models.PricingVariable && len(costHistory) >= volatilityMinPoints {
		if coefficientOfVariation(costHistory[:volatilityMinPoints]) > volatilityCVThreshold {
			score -= penaltyVolatileCost
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// coefficientOfVariation returns stddev/mean as a percentage, using the
// population standard deviation. A zero mean yields 0 (no spend is not
// volatile spend).
func coefficientOfVariation(amounts []decimal.Decimal) float64 {
	n := float64(len(amounts))
	if n == 0 {
		return 0
	}

	var sum float64
	for _, a := range amounts {
		sum += a.InexactFloat64()
	}
	mean := sum / n
	if mean == 0 {
		return 0
	}

	var variance float64
	for _, a := range amounts {
		d := a.InexactFloat64() - mean
		variance += d * d
	}
	variance /= n

	return math.Sqrt(variance) / mean * 100
}
