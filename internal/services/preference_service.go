package services

import (
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"subtrackr_backend/internal/dto"
	"subtrackr_backend/internal/models"
	"subtrackr_backend/internal/repositories"
	"subtrackr_backend/pkg/apperrors"
)

// defaultDashboard is returned for users who never saved preferences.
var defaultDashboard = json.RawMessage(`{"widgets":["spend_trend","upcoming_renewals","health_overview"],"currency":"USD"}`)

type PreferenceService interface {
	Get(db *gorm.DB, userID string) (*dto.PreferencesResponse, error)
	Update(db *gorm.DB, userID string, req *dto.UpdatePreferencesRequest) (*dto.PreferencesResponse, error)
}

type preferenceService struct {
	prefRepo repositories.PreferenceRepository
	userRepo repositories.UserRepository
}

func NewPreferenceService(prefRepo repositories.PreferenceRepository, userRepo repositories.UserRepository) PreferenceService {
	return &preferenceService{
		prefRepo: prefRepo,
		userRepo: userRepo,
	}
}

func (s *preferenceService) Get(db *gorm.DB, userID string) (*dto.PreferencesResponse, error) {
	if _, err := s.userRepo.FindByID(db, userID); err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	pref, err := s.prefRepo.GetByUserID(db, userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return &dto.PreferencesResponse{Dashboard: defaultDashboard}, nil
	}

	updatedAt := pref.UpdatedAt
	return &dto.PreferencesResponse{
		Dashboard: json.RawMessage(pref.Dashboard),
		UpdatedAt: &updatedAt,
	}, nil
}

// Update replaces the whole dashboard document. Partial merges are a
// client concern.
func (s *preferenceService) Update(db *gorm.DB, userID string, req *dto.UpdatePreferencesRequest) (*dto.PreferencesResponse, error) {
	if _, err := s.userRepo.FindByID(db, userID); err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if len(req.Dashboard) == 0 || !json.Valid(req.Dashboard) {
		return nil, apperrors.NewBadRequestError("Dashboard must be a valid JSON document")
	}

	pref := &models.Preference{
		UserID:    userID,
		Dashboard: datatypes.JSON(req.Dashboard),
	}
	if err := s.prefRepo.Upsert(db, pref); err != nil {
		return nil, err
	}

	stored, err := s.prefRepo.GetByUserID(db, userID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, errors.New("preferences missing after upsert")
	}

	updatedAt := stored.UpdatedAt
	return &dto.PreferencesResponse{
		Dashboard: json.RawMessage(stored.Dashboard),
		UpdatedAt: &updatedAt,
	}, nil
}
