package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is an immutable ledger row belonging to one subscription. Rows
// are only ever created through the record-payment operation; multiple
// payments per billing period are permitted (split/partial payments).
type Payment struct {
	BaseModel
	SubscriptionID string          `gorm:"not null;index"`
	PaymentDate    time.Time       `gorm:"not null;index"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status         PaymentStatus   `gorm:"default:'paid'"`
	Method         string
	Reference      string
}

// SubscriptionCost is one variable-pricing actual per calendar month.
// Period is always the first day of its month; (subscription, period) is
// unique and re-submission upserts.
type SubscriptionCost struct {
	BaseModel
	SubscriptionID string          `gorm:"not null;uniqueIndex:idx_costs_subscription_period"`
	Period         time.Time       `gorm:"not null;uniqueIndex:idx_costs_subscription_period"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency       string          `gorm:"default:'USD'"`
	Source         CostSource      `gorm:"default:'manual'"`
	Notes          string
}

// TruncateToMonth normalizes any date to the first day of its month (UTC).
func TruncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
