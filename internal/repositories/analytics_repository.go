package repositories

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"subtrackr_backend/internal/models"
)

// MonthlySpend is one point of the spend trend series.
type MonthlySpend struct {
	Month time.Time       `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// CategorySpend aggregates paid amounts per subscription category.
type CategorySpend struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// StatusCounts summarizes the portfolio by lifecycle and payment state.
type StatusCounts struct {
	Active    int64 `json:"active"`
	Pending   int64 `json:"pending"`
	Cancelled int64 `json:"cancelled"`
	Overdue   int64 `json:"overdue"`
}

type AnalyticsRepository interface {
	PaidTotal(db *gorm.DB, company string, from, to time.Time) (decimal.Decimal, error)
	MonthlySpendSeries(db *gorm.DB, company string, from time.Time) ([]MonthlySpend, error)
	SpendByCategory(db *gorm.DB, company string, from, to time.Time, limit int) ([]CategorySpend, error)
	CountByStatus(db *gorm.DB, company string, now time.Time) (*StatusCounts, error)
}

type AnalyticsRepositoryImpl struct{}

func NewAnalyticsRepository() AnalyticsRepository {
	return &AnalyticsRepositoryImpl{}
}

// PaidTotal sums paid payments between from (inclusive) and to
// (exclusive) for one company, or across tenants when company is empty.
func (r *AnalyticsRepositoryImpl) PaidTotal(db *gorm.DB, company string, from, to time.Time) (decimal.Decimal, error) {
	query := db.Model(&models.Payment{}).
		Joins("JOIN subscriptions ON subscriptions.id = payments.subscription_id").
		Where("payments.status = ?", models.PaymentStatusPaid).
		Where("payments.payment_date >= ? AND payments.payment_date < ?", from, to)
	if company != "" {
		query = query.Where("subscriptions.company = ?", company)
	}

	var row struct {
		Total decimal.Decimal
	}
	err := query.Select("COALESCE(SUM(payments.amount), 0) AS total").Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// MonthlySpendSeries groups paid payments by calendar month from the
// given point onward. Months with no payments are absent; the service
// fills the gaps.
func (r *AnalyticsRepositoryImpl) MonthlySpendSeries(db *gorm.DB, company string, from time.Time) ([]MonthlySpend, error) {
	query := db.Model(&models.Payment{}).
		Joins("JOIN subscriptions ON subscriptions.id = payments.subscription_id").
		Where("payments.status = ?", models.PaymentStatusPaid).
		Where("payments.payment_date >= ?", from)
	if company != "" {
		query = query.Where("subscriptions.company = ?", company)
	}

	var series []MonthlySpend
	err := query.
		Select("date_trunc('month', payments.payment_date) AS month, SUM(payments.amount) AS total").
		Group("month").
		Order("month ASC").
		Scan(&series).Error
	return series, err
}

func (r *AnalyticsRepositoryImpl) SpendByCategory(db *gorm.DB, company string, from, to time.Time, limit int) ([]CategorySpend, error) {
	query := db.Model(&models.Payment{}).
		Joins("JOIN subscriptions ON subscriptions.id = payments.subscription_id").
		Where("payments.status = ?", models.PaymentStatusPaid).
		Where("payments.payment_date >= ? AND payments.payment_date < ?", from, to)
	if company != "" {
		query = query.Where("subscriptions.company = ?", company)
	}

	var rows []CategorySpend
	err := query.
		Select("COALESCE(NULLIF(subscriptions.category, ''), 'uncategorized') AS category, SUM(payments.amount) AS total").
		Group("category").
		Order("total DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// CountByStatus counts stored lifecycle states plus the overdue slice:
// active subscriptions whose next billing date is strictly before today.
func (r *AnalyticsRepositoryImpl) CountByStatus(db *gorm.DB, company string, now time.Time) (*StatusCounts, error) {
	base := func() *gorm.DB {
		q := db.Model(&models.Subscription{})
		if company != "" {
			q = q.Where("company = ?", company)
		}
		return q
	}

	counts := &StatusCounts{}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if err := base().Where("status = ?", models.SubscriptionStatusActive).Count(&counts.Active).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.SubscriptionStatusPending).Count(&counts.Pending).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.SubscriptionStatusCancelled).Count(&counts.Cancelled).Error; err != nil {
		return nil, err
	}
	err := base().
		Where("status = ?", models.SubscriptionStatusActive).
		Where("next_billing_date IS NOT NULL AND next_billing_date < ?", today).
		Count(&counts.Overdue).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
