package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"subtrackr_backend/internal/billing"
	"subtrackr_backend/internal/dto"
	"subtrackr_backend/internal/models"
	"subtrackr_backend/internal/repositories"
	"subtrackr_backend/pkg/apperrors"
)

const (
	trendMonths      = 6
	topCategoryLimit = 10
)

type AnalyticsService interface {
	Summary(db *gorm.DB, userID string) (*dto.AnalyticsSummaryResponse, error)
}

type analyticsService struct {
	analyticsRepo repositories.AnalyticsRepository
	subRepo       repositories.SubscriptionRepository
	costRepo      repositories.CostRepository
	userRepo      repositories.UserRepository
}

func NewAnalyticsService(
	analyticsRepo repositories.AnalyticsRepository,
	subRepo repositories.SubscriptionRepository,
	costRepo repositories.CostRepository,
	userRepo repositories.UserRepository,
) AnalyticsService {
	return &analyticsService{
		analyticsRepo: analyticsRepo,
		subRepo:       subRepo,
		costRepo:      costRepo,
		userRepo:      userRepo,
	}
}

func (s *analyticsService) Summary(db *gorm.DB, userID string) (*dto.AnalyticsSummaryResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	company := user.Company
	if user.Role == models.UserRoleAdmin {
		company = ""
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := models.TruncateToMonth(now)
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	mtd, err := s.analyticsRepo.PaidTotal(db, company, monthStart, tomorrow)
	if err != nil {
		return nil, err
	}
	last30, err := s.analyticsRepo.PaidTotal(db, company, today.AddDate(0, 0, -30), tomorrow)
	if err != nil {
		return nil, err
	}
	ytd, err := s.analyticsRepo.PaidTotal(db, company, yearStart, tomorrow)
	if err != nil {
		return nil, err
	}

	trendFrom := monthStart.AddDate(0, -(trendMonths - 1), 0)
	series, err := s.analyticsRepo.MonthlySpendSeries(db, company, trendFrom)
	if err != nil {
		return nil, err
	}

	categories, err := s.analyticsRepo.SpendByCategory(db, company, yearStart, tomorrow, topCategoryLimit)
	if err != nil {
		return nil, err
	}

	statuses, err := s.analyticsRepo.CountByStatus(db, company, now)
	if err != nil {
		return nil, err
	}

	mrr, err := s.monthlyRunRate(db, company, now)
	if err != nil {
		return nil, err
	}

	resp := &dto.AnalyticsSummaryResponse{
		MonthToDateSpend: mtd.StringFixed(2),
		Last30DaysSpend:  last30.StringFixed(2),
		YearToDateSpend:  ytd.StringFixed(2),
		MonthlyRunRate:   mrr.StringFixed(2),
		SpendTrend:       fillTrend(series, trendFrom, trendMonths),
		TopCategories:    make([]dto.CategoryTotal, 0, len(categories)),
		Statuses: dto.StatusBreakdown{
			Active:    statuses.Active,
			Pending:   statuses.Pending,
			Cancelled: statuses.Cancelled,
			Overdue:   statuses.Overdue,
		},
		TotalActive: statuses.Active,
	}
	for _, c := range categories {
		resp.TopCategories = append(resp.TopCategories, dto.CategoryTotal{
			Category: c.Category,
			Total:    c.Total.StringFixed(2),
		})
	}
	return resp, nil
}

// monthlyRunRate sums the normalized monthly cost of every
// non-cancelled subscription, preferring the current month's actual for
// variable pricing.
func (s *analyticsService) monthlyRunRate(db *gorm.DB, company string, now time.Time) (decimal.Decimal, error) {
	subs, err := s.subRepo.ListAll(db, company)
	if err != nil {
		return decimal.Zero, err
	}

	currentPeriod := models.TruncateToMonth(now)
	total := decimal.Zero
	for i := range subs {
		sub := &subs[i]
		if sub.Status == models.SubscriptionStatusCancelled {
			continue
		}

		var currentActual *decimal.Decimal
		if sub.PricingType == models.PricingVariable {
			cost, err := s.costRepo.FindByPeriod(db, sub.ID, currentPeriod)
			if err == nil {
				currentActual = &cost.Amount
			} else if err != repositories.ErrCostNotFound {
				return decimal.Zero, err
			}
		}
		total = total.Add(billing.MonthlyCost(sub, currentActual))
	}
	return total, nil
}

// fillTrend projects the sparse series onto a contiguous month range.
func fillTrend(series []repositories.MonthlySpend, from time.Time, months int) []dto.TrendPoint {
	totals := make(map[string]decimal.Decimal, len(series))
	for _, point := range series {
		totals[point.Month.Format("2006-01")] = point.Total
	}

	out := make([]dto.TrendPoint, 0, months)
	for i := 0; i < months; i++ {
		month := from.AddDate(0, i, 0).Format("2006-01")
		total := decimal.Zero
		if v, ok := totals[month]; ok {
			total = v
		}
		out = append(out, dto.TrendPoint{Month: month, Total: total.StringFixed(2)})
	}
	return out
}
