package billing

import (
	"time"

	"subtrackr_backend/internal/models"
)

// AddInterval advances a date by exactly one billing interval using
// calendar-aware arithmetic, so month-length and leap-year variation is
// handled by the calendar rather than a fixed day count. The cadence enum
// is validated upstream; an unknown value advances monthly to keep the
// function total.
func AddInterval(t time.Time, cadence models.BillingCadence) time.Time {
	switch cadence {
	case models.CadenceQuarterly:
		return t.AddDate(0, 3, 0)
	case models.CadenceYearly:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// AdvanceNextBilling computes the next billing date after a payment made
// on paidOn. When no due date was ever set, the cycle is seeded one
// interval past the payment. A stale due date (several missed cycles in
// the past) self-corrects: the date advances cycle-by-cycle until it lands
// strictly after the payment date.
func AdvanceNextBilling(current *time.Time, cadence models.BillingCadence, paidOn time.Time) time.Time {
	next := AddInterval(paidOn, cadence)
	if current != nil {
		next = *current
	}

	for !next.After(paidOn) {
		next = AddInterval(next, cadence)
	}

	return next
}
