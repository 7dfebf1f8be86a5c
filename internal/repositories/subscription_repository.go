package repositories

import (
	"errors"

	"gorm.io/gorm"

	"subtrackr_backend/internal/models"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

// SubscriptionCriteria filters the list endpoint.
type SubscriptionCriteria struct {
	Status   string
	Category string
	Company  string
	Tag      string
	Search   string
	Page     int
	PageSize int
}

type SubscriptionRepository interface {
	Create(db *gorm.DB, sub *models.Subscription) error
	FindByID(db *gorm.DB, id string) (*models.Subscription, error)
	List(db *gorm.DB, criteria SubscriptionCriteria) ([]models.Subscription, int64, error)
	ListAll(db *gorm.DB, company string) ([]models.Subscription, error)
	Update(db *gorm.DB, sub *models.Subscription) error
	Delete(db *gorm.DB, id string) error

	ReplaceTags(db *gorm.DB, subscriptionID string, tags []string) error
	DeleteTags(db *gorm.DB, subscriptionID string) error

	FindDueForAlert(db *gorm.DB, company string) ([]models.Subscription, error)
}

type SubscriptionRepositoryImpl struct{}

func NewSubscriptionRepository() SubscriptionRepository {
	return &SubscriptionRepositoryImpl{}
}

func (r *SubscriptionRepositoryImpl) Create(db *gorm.DB, sub *models.Subscription) error {
	return db.Create(sub).Error
}

func (r *SubscriptionRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Subscription, error) {
	var sub models.Subscription
	err := db.Preload("Tags").First(&sub, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) List(db *gorm.DB, criteria SubscriptionCriteria) ([]models.Subscription, int64, error) {
	query := db.Model(&models.Subscription{})

	if criteria.Company != "" {
		query = query.Where("company = ?", criteria.Company)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.Category != "" {
		query = query.Where("category = ?", criteria.Category)
	}
	if criteria.Tag != "" {
		query = query.Where(
			"id IN (?)",
			db.Model(&models.SubscriptionTag{}).Select("subscription_id").Where("tag = ?", criteria.Tag),
		)
	}
	if criteria.Search != "" {
		pattern := "%" + criteria.Search + "%"
		query = query.Where("service_name ILIKE ? OR manager ILIKE ? OR notes ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := criteria.Page
	if page <= 0 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	var subs []models.Subscription
	err := query.
		Preload("Tags").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&subs).Error
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (r *SubscriptionRepositoryImpl) ListAll(db *gorm.DB, company string) ([]models.Subscription, error) {
	query := db.Model(&models.Subscription{})
	if company != "" {
		query = query.Where("company = ?", company)
	}

	var subs []models.Subscription
	err := query.Preload("Tags").Order("service_name ASC").Find(&subs).Error
	return subs, err
}

func (r *SubscriptionRepositoryImpl) Update(db *gorm.DB, sub *models.Subscription) error {
	result := db.Model(&models.Subscription{}).
		Where("id = ?", sub.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(sub)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Subscription{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// ReplaceTags swaps the stored tag set wholesale.
func (r *SubscriptionRepositoryImpl) ReplaceTags(db *gorm.DB, subscriptionID string, tags []string) error {
	if err := r.DeleteTags(db, subscriptionID); err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}

	rows := make([]models.SubscriptionTag, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		rows = append(rows, models.SubscriptionTag{SubscriptionID: subscriptionID, Tag: tag})
	}
	if len(rows) == 0 {
		return nil
	}
	return db.Create(&rows).Error
}

func (r *SubscriptionRepositoryImpl) DeleteTags(db *gorm.DB, subscriptionID string) error {
	return db.Delete(&models.SubscriptionTag{}, "subscription_id = ?", subscriptionID).Error
}

// FindDueForAlert returns active subscriptions whose next billing date
// falls inside their per-row alert window.
func (r *SubscriptionRepositoryImpl) FindDueForAlert(db *gorm.DB, company string) ([]models.Subscription, error) {
	query := db.Model(&models.Subscription{}).
		Where("status = ?", models.SubscriptionStatusActive).
		Where("next_billing_date IS NOT NULL").
		Where("next_billing_date <= CURRENT_DATE + renewal_alert_days * INTERVAL '1 day'")
	if company != "" {
		query = query.Where("company = ?", company)
	}

	var subs []models.Subscription
	err := query.Preload("Tags").Order("next_billing_date ASC").Find(&subs).Error
	return subs, err
}
