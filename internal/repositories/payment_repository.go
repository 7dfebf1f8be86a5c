package repositories

import (
	"errors"

	"gorm.io/gorm"

	"subtrackr_backend/internal/models"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepository interface {
	Create(db *gorm.DB, payment *models.Payment) error
	ListBySubscription(db *gorm.DB, subscriptionID string) ([]models.Payment, error)
	LastPayment(db *gorm.DB, subscriptionID string) (*models.Payment, error)
	DeleteBySubscription(db *gorm.DB, subscriptionID string) error
}

type PaymentRepositoryImpl struct{}

func NewPaymentRepository() PaymentRepository {
	return &PaymentRepositoryImpl{}
}

func (r *PaymentRepositoryImpl) Create(db *gorm.DB, payment *models.Payment) error {
	return db.Create(payment).Error
}

func (r *PaymentRepositoryImpl) ListBySubscription(db *gorm.DB, subscriptionID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := db.
		Where("subscription_id = ?", subscriptionID).
		Order("payment_date DESC, created_at DESC, id DESC").
		Find(&payments).Error
	return payments, err
}

// LastPayment returns the most recent payment by payment date. Same-day
// ties resolve to the last inserted row; ids are random uuids, so the
// insertion timestamp is the tie-breaker. Returns (nil, nil) when the
// ledger is empty.
func (r *PaymentRepositoryImpl) LastPayment(db *gorm.DB, subscriptionID string) (*models.Payment, error) {
	var payment models.Payment
	err := db.
		Where("subscription_id = ?", subscriptionID).
		Order("payment_date DESC, created_at DESC, id DESC").
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) DeleteBySubscription(db *gorm.DB, subscriptionID string) error {
	return db.Delete(&models.Payment{}, "subscription_id = ?", subscriptionID).Error
}
