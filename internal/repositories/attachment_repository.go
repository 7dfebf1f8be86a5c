package repositories

import (
	"errors"

	"gorm.io/gorm"

	"subtrackr_backend/internal/models"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

type AttachmentRepository interface {
	Create(db *gorm.DB, attachment *models.Attachment) error
	FindByID(db *gorm.DB, id string) (*models.Attachment, error)
	ListBySubscription(db *gorm.DB, subscriptionID string) ([]models.Attachment, error)
	ExistsDuplicate(db *gorm.DB, subscriptionID, name string, size int64) (bool, error)
	Delete(db *gorm.DB, id string) error
	DeleteBySubscription(db *gorm.DB, subscriptionID string) error
}

type AttachmentRepositoryImpl struct{}

func NewAttachmentRepository() AttachmentRepository {
	return &AttachmentRepositoryImpl{}
}

func (r *AttachmentRepositoryImpl) Create(db *gorm.DB, attachment *models.Attachment) error {
	return db.Create(attachment).Error
}

// FindByID loads the full record including the file bytes.
func (r *AttachmentRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Attachment, error) {
	var attachment models.Attachment
	err := db.First(&attachment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttachmentNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// ListBySubscription returns metadata only; file bytes stay in the
// database until a download asks for them.
func (r *AttachmentRepositoryImpl) ListBySubscription(db *gorm.DB, subscriptionID string) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := db.
		Select("id", "subscription_id", "name", "type", "size", "mime_type", "created_at", "updated_at").
		Where("subscription_id = ?", subscriptionID).
		Order("created_at DESC").
		Find(&attachments).Error
	return attachments, err
}

func (r *AttachmentRepositoryImpl) ExistsDuplicate(db *gorm.DB, subscriptionID, name string, size int64) (bool, error) {
	var count int64
	err := db.Model(&models.Attachment{}).
		Where("subscription_id = ? AND name = ? AND size = ?", subscriptionID, name, size).
		Count(&count).Error
	return count > 0, err
}

func (r *AttachmentRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Attachment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}

func (r *AttachmentRepositoryImpl) DeleteBySubscription(db *gorm.DB, subscriptionID string) error {
	return db.Delete(&models.Attachment{}, "subscription_id = ?", subscriptionID).Error
}
