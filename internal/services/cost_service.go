package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"subtrackr_backend/internal/dto"
	"subtrackr_backend/internal/models"
	"subtrackr_backend/internal/repositories"
	"subtrackr_backend/pkg/apperrors"
)

type CostService interface {
	UpsertCost(db *gorm.DB, userID, subscriptionID string, req *dto.UpsertCostRequest) (*dto.CostResponse, error)
	ListCosts(db *gorm.DB, userID, subscriptionID string) ([]dto.CostResponse, error)
}

type costService struct {
	subService SubscriptionService
	costRepo   repositories.CostRepository
}

func NewCostService(subService SubscriptionService, costRepo repositories.CostRepository) CostService {
	return &costService{
		subService: subService,
		costRepo:   costRepo,
	}
}

// UpsertCost records the actual spend for one calendar month. Writing
// the same month twice overwrites the earlier entry.
func (s *costService) UpsertCost(db *gorm.DB, userID, subscriptionID string, req *dto.UpsertCostRequest) (*dto.CostResponse, error) {
	_, sub, err := s.subService.ResolveScope(db, userID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.Status == models.SubscriptionStatusCancelled {
		return nil, apperrors.ErrSubscriptionCancelled
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}

	periodDate, err := dto.ParseDate(req.Period)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Invalid period")
	}
	period := models.TruncateToMonth(periodDate)

	cost := &models.SubscriptionCost{
		SubscriptionID: sub.ID,
		Period:         period,
		Amount:         amount,
		Currency:       "USD",
		Source:         models.CostSourceManual,
		Notes:          req.Notes,
	}
	if req.Currency != "" {
		cost.Currency = req.Currency
	}
	if req.Source != "" {
		cost.Source = models.CostSource(req.Source)
	}

	if err := s.costRepo.Upsert(db, cost); err != nil {
		return nil, err
	}

	// Re-read so an overwrite returns the surviving row, not the zero IDs
	// of the conflicting insert.
	stored, err := s.costRepo.FindByPeriod(db, sub.ID, period)
	if err != nil {
		return nil, err
	}
	resp := toCostResponse(stored)
	return &resp, nil
}

func (s *costService) ListCosts(db *gorm.DB, userID, subscriptionID string) ([]dto.CostResponse, error) {
	_, sub, err := s.subService.ResolveScope(db, userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	costs, err := s.costRepo.ListBySubscription(db, sub.ID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CostResponse, 0, len(costs))
	for i := range costs {
		out = append(out, toCostResponse(&costs[i]))
	}
	return out, nil
}

func toCostResponse(c *models.SubscriptionCost) dto.CostResponse {
	return dto.CostResponse{
		ID:             c.ID,
		SubscriptionID: c.SubscriptionID,
		Period:         c.Period.Format(dto.DateFormat),
		Amount:         c.Amount.StringFixed(2),
		Currency:       c.Currency,
		Source:         string(c.Source),
		Notes:          c.Notes,
		UpdatedAt:      c.UpdatedAt,
	}
}
