package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"subtrackr_backend/internal/models"
)

var ErrCostNotFound = errors.New("cost entry not found")

type CostRepository interface {
	Upsert(db *gorm.DB, cost *models.SubscriptionCost) error
	FindByPeriod(db *gorm.DB, subscriptionID string, period time.Time) (*models.SubscriptionCost, error)
	ListBySubscription(db *gorm.DB, subscriptionID string) ([]models.SubscriptionCost, error)
	RecentActuals(db *gorm.DB, subscriptionID string, limit int) ([]models.SubscriptionCost, error)
	DeleteBySubscription(db *gorm.DB, subscriptionID string) error
}

type CostRepositoryImpl struct{}

func NewCostRepository() CostRepository {
	return &CostRepositoryImpl{}
}

// Upsert inserts the month's actual or overwrites an existing entry for
// the same subscription and period.
func (r *CostRepositoryImpl) Upsert(db *gorm.DB, cost *models.SubscriptionCost) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "subscription_id"}, {Name: "period"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"amount", "currency", "source", "notes", "updated_at",
		}),
	}).Create(cost).Error
}

func (r *CostRepositoryImpl) FindByPeriod(db *gorm.DB, subscriptionID string, period time.Time) (*models.SubscriptionCost, error) {
	var cost models.SubscriptionCost
	err := db.
		Where("subscription_id = ? AND period = ?", subscriptionID, period).
		First(&cost).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCostNotFound
		}
		return nil, err
	}
	return &cost, nil
}

func (r *CostRepositoryImpl) ListBySubscription(db *gorm.DB, subscriptionID string) ([]models.SubscriptionCost, error) {
	var costs []models.SubscriptionCost
	err := db.
		Where("subscription_id = ?", subscriptionID).
		Order("period DESC").
		Find(&costs).Error
	return costs, err
}

// RecentActuals returns the latest cost entries, newest period first.
func (r *CostRepositoryImpl) RecentActuals(db *gorm.DB, subscriptionID string, limit int) ([]models.SubscriptionCost, error) {
	var costs []models.SubscriptionCost
	err := db.
		Where("subscription_id = ?", subscriptionID).
		Order("period DESC").
		Limit(limit).
		Find(&costs).Error
	return costs, err
}

func (r *CostRepositoryImpl) DeleteBySubscription(db *gorm.DB, subscriptionID string) error {
	return db.Delete(&models.SubscriptionCost{}, "subscription_id = ?", subscriptionID).Error
}
