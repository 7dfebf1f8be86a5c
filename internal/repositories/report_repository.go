package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"subtrackr_backend/internal/models"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepository interface {
	Create(db *gorm.DB, report *models.Report) error
	FindByID(db *gorm.DB, id string) (*models.Report, error)
	ListByCompany(db *gorm.DB, company string) ([]models.Report, error)
	Update(db *gorm.DB, report *models.Report) error
	Delete(db *gorm.DB, id string) error
}

type ReportRepositoryImpl struct{}

func NewReportRepository() ReportRepository {
	return &ReportRepositoryImpl{}
}

func (r *ReportRepositoryImpl) Create(db *gorm.DB, report *models.Report) error {
	return db.Create(report).Error
}

func (r *ReportRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Report, error) {
	var report models.Report
	err := db.First(&report, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepositoryImpl) ListByCompany(db *gorm.DB, company string) ([]models.Report, error) {
	query := db.Model(&models.Report{})
	if company != "" {
		query = query.Where("company = ?", company)
	}

	var reports []models.Report
	err := query.Order("created_at DESC").Find(&reports).Error
	return reports, err
}

func (r *ReportRepositoryImpl) Update(db *gorm.DB, report *models.Report) error {
	result := db.Model(&models.Report{}).
		Where("id = ?", report.ID).
		Select("name", "type", "filters").
		Updates(report)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (r *ReportRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Report{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

type PreferenceRepository interface {
	GetByUserID(db *gorm.DB, userID string) (*models.Preference, error)
	Upsert(db *gorm.DB, pref *models.Preference) error
}

type PreferenceRepositoryImpl struct{}

func NewPreferenceRepository() PreferenceRepository {
	return &PreferenceRepositoryImpl{}
}

// GetByUserID returns (nil, nil) when the user has never saved
// preferences; callers substitute the defaults.
func (r *PreferenceRepositoryImpl) GetByUserID(db *gorm.DB, userID string) (*models.Preference, error) {
	var pref models.Preference
	err := db.First(&pref, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}

func (r *PreferenceRepositoryImpl) Upsert(db *gorm.DB, pref *models.Preference) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"dashboard", "updated_at"}),
	}).Create(pref).Error
}
