package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"subtrackr_backend/internal/models"
)

func TestDerivedStatus_CancelledDominates(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 15)
	overdue := date(2025, 1, 1)

	sub := &models.Subscription{
		Status:          models.SubscriptionStatusCancelled,
		NextBillingDate: &overdue,
	}
	lastPayment := &models.Payment{Status: models.PaymentStatusOverdue}

	// Cancellation is terminal even with an overdue due date and an
	// overdue last payment.
	assert.Equal(t, models.DerivedStatusCancelled, DerivedStatus(sub, lastPayment, now))
}

func TestDerivedStatus_OverdueBeatsPayment(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 15)
	past := date(2025, 6, 1)

	sub := &models.Subscription{
		Status:          models.SubscriptionStatusActive,
		NextBillingDate: &past,
	}
	lastPayment := &models.Payment{Status: models.PaymentStatusPaid}

	assert.Equal(t, models.DerivedStatusOverdue, DerivedStatus(sub, lastPayment, now))
}

func TestDerivedStatus_DueTodayIsNotOverdue(t *testing.T) {
	t.Parallel()

	// Strictly-before comparison: due today means not overdue yet, even
	// late in the day.
	now := time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)
	today := date(2025, 6, 15)

	sub := &models.Subscription{
		Status:          models.SubscriptionStatusActive,
		NextBillingDate: &today,
	}

	assert.Equal(t, models.DerivedStatusActive, DerivedStatus(sub, nil, now))
}

func TestDerivedStatus_PaymentRefinesLifecycle(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 15)
	future := date(2025, 7, 1)

	sub := &models.Subscription{
		Status:          models.SubscriptionStatusActive,
		NextBillingDate: &future,
	}

	for _, status := range []models.PaymentStatus{
		models.PaymentStatusPaid,
		models.PaymentStatusPending,
		models.PaymentStatusOverdue,
	} {
		lastPayment := &models.Payment{Status: status}
		assert.Equal(t, models.DerivedStatus(status), DerivedStatus(sub, lastPayment, now))
	}
}

func TestDerivedStatus_FallsBackToLifecycle(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 15)

	sub := &models.Subscription{Status: models.SubscriptionStatusPending}
	assert.Equal(t, models.DerivedStatusPending, DerivedStatus(sub, nil, now))

	sub.Status = models.SubscriptionStatusActive
	assert.Equal(t, models.DerivedStatusActive, DerivedStatus(sub, nil, now))
}
