package billing

import (
	"time"

	"subtrackr_backend/internal/models"
)

// DerivedStatus computes the single user-facing status label. Priority,
// first match wins:
//
//  1. cancelled lifecycle is terminal and overrides everything
//  2. a next-billing date strictly before now means overdue
//  3. the most recent payment's status is surfaced
//  4. otherwise the raw lifecycle status
//
// lastPayment must be the most recent payment selected by (payment date
// desc, id desc) so same-day ties resolve to the last inserted row.
func DerivedStatus(sub *models.Subscription, lastPayment *models.Payment, now time.Time) models.DerivedStatus {
	if sub.Status == models.SubscriptionStatusCancelled {
		return models.DerivedStatusCancelled
	}

	// Strictly before the current date: a subscription due today is not
	// overdue yet, so both sides are compared at day granularity.
	if sub.NextBillingDate != nil && dateOnly(*sub.NextBillingDate).Before(dateOnly(now)) {
		return models.DerivedStatusOverdue
	}

	if lastPayment != nil {
		return models.DerivedStatus(lastPayment.Status)
	}

	return models.DerivedStatus(sub.Status)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
