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

type ReportService interface {
	Create(db *gorm.DB, userID string, req *dto.CreateReportRequest) (*dto.ReportResponse, error)
	Get(db *gorm.DB, userID, id string) (*dto.ReportResponse, error)
	List(db *gorm.DB, userID string) ([]dto.ReportResponse, error)
	Update(db *gorm.DB, userID, id string, req *dto.UpdateReportRequest) (*dto.ReportResponse, error)
	Delete(db *gorm.DB, userID, id string) error
}

type reportService struct {
	reportRepo repositories.ReportRepository
	userRepo   repositories.UserRepository
}

func NewReportService(reportRepo repositories.ReportRepository, userRepo repositories.UserRepository) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		userRepo:   userRepo,
	}
}

func (s *reportService) Create(db *gorm.DB, userID string, req *dto.CreateReportRequest) (*dto.ReportResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	filters, err := normalizeFilters(req.Filters)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Filters must be a valid JSON object")
	}

	report := &models.Report{
		Name:      req.Name,
		Type:      "spend",
		Filters:   filters,
		Company:   user.Company,
		CreatedBy: user.ID,
	}
	if req.Type != "" {
		report.Type = req.Type
	}

	if err := s.reportRepo.Create(db, report); err != nil {
		return nil, err
	}
	resp := toReportResponse(report)
	return &resp, nil
}

func (s *reportService) Get(db *gorm.DB, userID, id string) (*dto.ReportResponse, error) {
	_, report, err := s.resolve(db, userID, id)
	if err != nil {
		return nil, err
	}
	resp := toReportResponse(report)
	return &resp, nil
}

func (s *reportService) List(db *gorm.DB, userID string) ([]dto.ReportResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	company := user.Company
	if user.Role == models.UserRoleAdmin {
		company = ""
	}

	reports, err := s.reportRepo.ListByCompany(db, company)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, toReportResponse(&reports[i]))
	}
	return out, nil
}

func (s *reportService) Update(db *gorm.DB, userID, id string, req *dto.UpdateReportRequest) (*dto.ReportResponse, error) {
	_, report, err := s.resolve(db, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		report.Name = *req.Name
	}
	if req.Type != nil {
		report.Type = *req.Type
	}
	if req.Filters != nil {
		filters, err := normalizeFilters(req.Filters)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Filters must be a valid JSON object")
		}
		report.Filters = filters
	}

	if err := s.reportRepo.Update(db, report); err != nil {
		return nil, err
	}

	updated, err := s.reportRepo.FindByID(db, id)
	if err != nil {
		return nil, err
	}
	resp := toReportResponse(updated)
	return &resp, nil
}

func (s *reportService) Delete(db *gorm.DB, userID, id string) error {
	_, _, err := s.resolve(db, userID, id)
	if err != nil {
		return err
	}
	return s.reportRepo.Delete(db, id)
}

func (s *reportService) resolve(db *gorm.DB, userID, id string) (*models.User, *models.Report, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, nil, apperrors.ErrNotFound(err)
	}

	report, err := s.reportRepo.FindByID(db, id)
	if err != nil {
		return nil, nil, apperrors.ErrNotFound(err)
	}
	if user.Role != models.UserRoleAdmin && report.Company != user.Company {
		return nil, nil, apperrors.ErrNotFound(repositories.ErrReportNotFound)
	}
	return user, report, nil
}

// normalizeFilters validates the document and substitutes an empty
// object for absent filters.
func normalizeFilters(raw json.RawMessage) (datatypes.JSON, error) {
	if len(raw) == 0 {
		return datatypes.JSON([]byte("{}")), nil
	}
	if !json.Valid(raw) {
		return nil, errors.New("invalid filters json")
	}
	return datatypes.JSON(raw), nil
}

func toReportResponse(r *models.Report) dto.ReportResponse {
	return dto.ReportResponse{
		ID:        r.ID,
		Name:      r.Name,
		Type:      r.Type,
		Filters:   json.RawMessage(r.Filters),
		Company:   r.Company,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
