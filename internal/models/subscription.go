package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription is a recurring vendor-spend record scoped to a company
// (tenant). Cost is the per-cadence base price; for variable pricing the
// recorded monthly actuals in SubscriptionCost take precedence.
type Subscription struct {
	BaseModel
	Company           string          `gorm:"not null;index"`
	ServiceName       string          `gorm:"not null"`
	Cost              decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	BillingCadence    BillingCadence  `gorm:"not null;default:'monthly'"`
	PricingType       PricingType     `gorm:"not null;default:'fixed'"`
	NextBillingDate   *time.Time      `gorm:"index"`
	ContractEndDate   *time.Time
	Category          string `gorm:"index"`
	Manager           string
	ManagerEmail      string
	RenewalAlertDays  int                `gorm:"default:30"` // clamped to [0,365]
	Status            SubscriptionStatus `gorm:"default:'active';index"`
	LastPaymentStatus *PaymentStatus
	PaymentMethod     string
	Notes             string
	SeatCount         *int
	SeatsUsed         *int

	// Relations
	Tags []SubscriptionTag `gorm:"foreignKey:SubscriptionID"`
}

// SubscriptionTag stores one (subscription, tag) pair. The tag set is
// replaced wholesale on subscription update, never merged.
type SubscriptionTag struct {
	BaseModel
	SubscriptionID string `gorm:"not null;index"`
	Tag            string `gorm:"not null"`
}

// TagNames flattens the tag rows into plain strings.
func (s *Subscription) TagNames() []string {
	names := make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		names = append(names, t.Tag)
	}
	return names
}
