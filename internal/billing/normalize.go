// Package billing holds the pure computation rules for vendor-spend
// records: cost normalization, derived status, health scoring and
// billing-cycle advancement. Nothing here touches the database; callers
// pass already-validated values and the current time.
package billing

import (
	"github.com/shopspring/decimal"

	"subtrackr_backend/internal/models"
)

var (
	three  = decimal.NewFromInt(3)
	twelve = decimal.NewFromInt(12)
)

// MonthlyEquivalent converts a per-cadence cost into its monthly figure,
// rounded to cents. The cadence enum is closed, so there is no error path;
// an unrecognized value behaves as monthly (validated flow never gets
// here with one).
func MonthlyEquivalent(cost decimal.Decimal, cadence models.BillingCadence) decimal.Decimal {
	switch cadence {
	case models.CadenceQuarterly:
		return cost.Div(three).Round(2)
	case models.CadenceYearly:
		return cost.Div(twelve).Round(2)
	default:
		return cost.Round(2)
	}
}

// MonthlyCost returns the subscription's monthly-equivalent spend. For
// variable pricing a recorded current-month actual wins over the
// cadence-derived figure; the formula is only the fallback before any
// actual exists.
func MonthlyCost(sub *models.Subscription, currentActual *decimal.Decimal) decimal.Decimal {
	if sub.PricingType == models.PricingVariable && currentActual != nil {
		return currentActual.Round(2)
	}
	return MonthlyEquivalent(sub.Cost, sub.BillingCadence)
}
