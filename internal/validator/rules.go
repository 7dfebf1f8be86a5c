package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"subtrackr_backend/internal/models"
)

// registerCustomRules wires the domain-specific validation tags.
func registerCustomRules(v *validator.Validate) error {
	if err := v.RegisterValidation("cadence", validateCadence); err != nil {
		return err
	}
	return v.RegisterValidation("money", validateMoney)
}

// validateCadence enforces the closed billing-cadence enum. Unknown
// cadences are rejected at the boundary instead of silently falling back
// to a monthly interval.
func validateCadence(fl validator.FieldLevel) bool {
	return models.ValidCadence(models.BillingCadence(fl.Field().String()))
}

// validateMoney accepts non-negative decimal strings with cent precision.
func validateMoney(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return false
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return false
	}
	if amount.IsNegative() {
		return false
	}
	return amount.Exponent() >= -2
}
