package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"subtrackr_backend/internal/billing"
	"subtrackr_backend/internal/dto"
	"subtrackr_backend/internal/logger"
	"subtrackr_backend/internal/models"
	"subtrackr_backend/internal/repositories"
	"subtrackr_backend/pkg/apperrors"
)

const (
	minRenewalAlertDays = 0
	maxRenewalAlertDays = 365

	// Variable-cost history window used for scoring.
	costHistoryWindow = 3
)

type SubscriptionService interface {
	Create(db *gorm.DB, userID string, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	Get(db *gorm.DB, userID, id string) (*dto.SubscriptionResponse, error)
	List(db *gorm.DB, userID string, filter *dto.SubscriptionFilter) (*dto.SubscriptionListResponse, error)
	Update(db *gorm.DB, userID, id string, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	Delete(db *gorm.DB, userID, id string) error

	// BuildResponse assembles the read model with the computed fields.
	BuildResponse(db *gorm.DB, sub *models.Subscription, now time.Time) (*dto.SubscriptionResponse, error)

	// ResolveScope loads the actor and enforces company scoping on the
	// subscription. Shared by the payment, cost and attachment services.
	ResolveScope(db *gorm.DB, userID, subscriptionID string) (*models.User, *models.Subscription, error)
}

type subscriptionService struct {
	subRepo        repositories.SubscriptionRepository
	paymentRepo    repositories.PaymentRepository
	costRepo       repositories.CostRepository
	attachmentRepo repositories.AttachmentRepository
	userRepo       repositories.UserRepository
}

func NewSubscriptionService(
	subRepo repositories.SubscriptionRepository,
	paymentRepo repositories.PaymentRepository,
	costRepo repositories.CostRepository,
	attachmentRepo repositories.AttachmentRepository,
	userRepo repositories.UserRepository,
) SubscriptionService {
	return &subscriptionService{
		subRepo:        subRepo,
		paymentRepo:    paymentRepo,
		costRepo:       costRepo,
		attachmentRepo: attachmentRepo,
		userRepo:       userRepo,
	}
}

func (s *subscriptionService) Create(db *gorm.DB, userID string, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	cost, err := decimal.NewFromString(req.Cost)
	if err != nil || cost.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}

	nextBilling, err := dto.ParseDatePtr(req.NextBillingDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Invalid next_billing_date")
	}
	contractEnd, err := dto.ParseDatePtr(req.ContractEndDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Invalid contract_end_date")
	}

	company := req.Company
	if company == "" || user.Role != models.UserRoleAdmin {
		company = user.Company
	}

	sub := &models.Subscription{
		Company:         company,
		ServiceName:     req.ServiceName,
		Cost:            cost,
		BillingCadence:  models.BillingCadence(req.BillingCadence),
		PricingType:     models.PricingFixed,
		NextBillingDate: nextBilling,
		ContractEndDate: contractEnd,
		Category:        req.Category,
		Manager:         req.Manager,
		ManagerEmail:    req.ManagerEmail,
		Status:          models.SubscriptionStatusActive,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
		SeatCount:       req.SeatCount,
		SeatsUsed:       req.SeatsUsed,
	}
	if req.PricingType != "" {
		sub.PricingType = models.PricingType(req.PricingType)
	}
	if req.Status != "" {
		sub.Status = models.SubscriptionStatus(req.Status)
	}
	sub.RenewalAlertDays = clampAlertDays(req.RenewalAlertDays)

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.subRepo.Create(tx, sub); err != nil {
			return err
		}
		return s.subRepo.ReplaceTags(tx, sub.ID, req.Tags)
	})
	if err != nil {
		return nil, err
	}

	created, err := s.subRepo.FindByID(db, sub.ID)
	if err != nil {
		return nil, err
	}
	return s.BuildResponse(db, created, time.Now().UTC())
}

func (s *subscriptionService) Get(db *gorm.DB, userID, id string) (*dto.SubscriptionResponse, error) {
	_, sub, err := s.ResolveScope(db, userID, id)
	if err != nil {
		return nil, err
	}
	return s.BuildResponse(db, sub, time.Now().UTC())
}

func (s *subscriptionService) List(db *gorm.DB, userID string, filter *dto.SubscriptionFilter) (*dto.SubscriptionListResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	criteria := repositories.SubscriptionCriteria{
		Status:   filter.Status,
		Category: filter.Category,
		Company:  filter.Company,
		Tag:      filter.Tag,
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	// Members only see their own tenant.
	if user.Role != models.UserRoleAdmin {
		criteria.Company = user.Company
	}

	subs, total, err := s.subRepo.List(db, criteria)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := make([]dto.SubscriptionResponse, 0, len(subs))
	for i := range subs {
		resp, err := s.BuildResponse(db, &subs[i], now)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}

	page := criteria.Page
	if page <= 0 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	return &dto.SubscriptionListResponse{
		Subscriptions: out,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *subscriptionService) Update(db *gorm.DB, userID, id string, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	_, sub, err := s.ResolveScope(db, userID, id)
	if err != nil {
		return nil, err
	}

	if req.ServiceName != nil {
		sub.ServiceName = *req.ServiceName
	}
	if req.Cost != nil {
		cost, err := decimal.NewFromString(*req.Cost)
		if err != nil || cost.IsNegative() {
			return nil, apperrors.ErrNegativeAmount
		}
		sub.Cost = cost
	}
	if req.BillingCadence != nil {
		cadence := models.BillingCadence(*req.BillingCadence)
		if !models.ValidCadence(cadence) {
			return nil, apperrors.ErrInvalidCadence
		}
		sub.BillingCadence = cadence
	}
	if req.PricingType != nil {
		sub.PricingType = models.PricingType(*req.PricingType)
	}
	if req.NextBillingDate != nil {
		next, err := dto.ParseDatePtr(req.NextBillingDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Invalid next_billing_date")
		}
		sub.NextBillingDate = next
	}
	if req.ContractEndDate != nil {
		end, err := dto.ParseDatePtr(req.ContractEndDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Invalid contract_end_date")
		}
		sub.ContractEndDate = end
	}
	if req.Category != nil {
		sub.Category = *req.Category
	}
	if req.Manager != nil {
		sub.Manager = *req.Manager
	}
	if req.ManagerEmail != nil {
		sub.ManagerEmail = *req.ManagerEmail
	}
	if req.RenewalAlertDays != nil {
		sub.RenewalAlertDays = clampAlertDays(req.RenewalAlertDays)
	}
	if req.Status != nil {
		sub.Status = models.SubscriptionStatus(*req.Status)
	}
	if req.PaymentMethod != nil {
		sub.PaymentMethod = *req.PaymentMethod
	}
	if req.Notes != nil {
		sub.Notes = *req.Notes
	}
	if req.SeatCount != nil {
		sub.SeatCount = req.SeatCount
	}
	if req.SeatsUsed != nil {
		sub.SeatsUsed = req.SeatsUsed
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.subRepo.Update(tx, sub); err != nil {
			return err
		}
		if req.Tags != nil {
			return s.subRepo.ReplaceTags(tx, sub.ID, *req.Tags)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.subRepo.FindByID(db, sub.ID)
	if err != nil {
		return nil, err
	}
	return s.BuildResponse(db, updated, time.Now().UTC())
}

// Delete removes the subscription and everything hanging off it. Child
// rows go first so a failure mid-way cannot orphan them; the whole
// cascade is one transaction.
func (s *subscriptionService) Delete(db *gorm.DB, userID, id string) error {
	_, sub, err := s.ResolveScope(db, userID, id)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.DeleteBySubscription(tx, sub.ID); err != nil {
			return err
		}
		if err := s.attachmentRepo.DeleteBySubscription(tx, sub.ID); err != nil {
			return err
		}
		if err := s.costRepo.DeleteBySubscription(tx, sub.ID); err != nil {
			return err
		}
		if err := s.subRepo.DeleteTags(tx, sub.ID); err != nil {
			return err
		}
		if err := s.subRepo.Delete(tx, sub.ID); err != nil {
			return err
		}
		logger.Info("subscription deleted", "subscription_id", sub.ID, "service", sub.ServiceName)
		return nil
	})
}

func (s *subscriptionService) ResolveScope(db *gorm.DB, userID, subscriptionID string) (*models.User, *models.Subscription, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, nil, apperrors.ErrNotFound(err)
	}

	sub, err := s.subRepo.FindByID(db, subscriptionID)
	if err != nil {
		return nil, nil, apperrors.ErrNotFound(err)
	}

	// Cross-tenant reads look like a missing record, not a 403.
	if user.Role != models.UserRoleAdmin && sub.Company != user.Company {
		return nil, nil, apperrors.ErrNotFound(repositories.ErrSubscriptionNotFound)
	}
	return user, sub, nil
}

func (s *subscriptionService) BuildResponse(db *gorm.DB, sub *models.Subscription, now time.Time) (*dto.SubscriptionResponse, error) {
	lastPayment, err := s.paymentRepo.LastPayment(db, sub.ID)
	if err != nil {
		return nil, err
	}

	recent, err := s.costRepo.RecentActuals(db, sub.ID, costHistoryWindow)
	if err != nil {
		return nil, err
	}

	history := make([]decimal.Decimal, 0, len(recent))
	var currentActual *decimal.Decimal
	currentPeriod := models.TruncateToMonth(now)
	for i := range recent {
		history = append(history, recent[i].Amount)
		if recent[i].Period.Equal(currentPeriod) {
			currentActual = &recent[i].Amount
		}
	}

	resp := &dto.SubscriptionResponse{
		ID:               sub.ID,
		Company:          sub.Company,
		ServiceName:      sub.ServiceName,
		Cost:             sub.Cost.StringFixed(2),
		BillingCadence:   string(sub.BillingCadence),
		PricingType:      string(sub.PricingType),
		NextBillingDate:  formatDatePtr(sub.NextBillingDate),
		ContractEndDate:  formatDatePtr(sub.ContractEndDate),
		Category:         sub.Category,
		Manager:          sub.Manager,
		ManagerEmail:     sub.ManagerEmail,
		RenewalAlertDays: sub.RenewalAlertDays,
		Status:           string(sub.Status),
		DerivedStatus:    string(billing.DerivedStatus(sub, lastPayment, now)),
		PaymentMethod:    sub.PaymentMethod,
		Notes:            sub.Notes,
		Tags:             sub.TagNames(),
		SeatCount:        sub.SeatCount,
		SeatsUsed:        sub.SeatsUsed,
		MonthlyCost:      billing.MonthlyCost(sub, currentActual).StringFixed(2),
		HealthScore:      billing.HealthScore(sub, history, now),
		CreatedAt:        sub.CreatedAt,
		UpdatedAt:        sub.UpdatedAt,
	}
	return resp, nil
}

// clampAlertDays keeps the alert window inside [0, 365] instead of
// rejecting out-of-range values.
func clampAlertDays(v *int) int {
	if v == nil {
		return 30
	}
	if *v < minRenewalAlertDays {
		return minRenewalAlertDays
	}
	if *v > maxRenewalAlertDays {
		return maxRenewalAlertDays
	}
	return *v
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dto.DateFormat)
	return &s
}
