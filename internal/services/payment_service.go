package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"subtrackr_backend/internal/billing"
	"subtrackr_backend/internal/dto"
	"subtrackr_backend/internal/logger"
	"subtrackr_backend/internal/models"
	"subtrackr_backend/internal/repositories"
	"subtrackr_backend/pkg/apperrors"
)

type PaymentService interface {
	RecordPayment(db *gorm.DB, userID, subscriptionID string, req *dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error)
	ListPayments(db *gorm.DB, userID, subscriptionID string) ([]dto.PaymentResponse, error)
}

type paymentService struct {
	subService  SubscriptionService
	subRepo     repositories.SubscriptionRepository
	paymentRepo repositories.PaymentRepository
}

func NewPaymentService(
	subService SubscriptionService,
	subRepo repositories.SubscriptionRepository,
	paymentRepo repositories.PaymentRepository,
) PaymentService {
	return &paymentService{
		subService:  subService,
		subRepo:     subRepo,
		paymentRepo: paymentRepo,
	}
}

// RecordPayment appends a ledger row, advances the billing schedule and
// refreshes the cached last-payment status. Ledger insert and schedule
// update commit together or not at all.
func (s *paymentService) RecordPayment(db *gorm.DB, userID, subscriptionID string, req *dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	_, sub, err := s.subService.ResolveScope(db, userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}

	paidOn, err := dto.ParseDate(req.PaymentDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Invalid payment_date")
	}

	status := models.PaymentStatusPaid
	if req.Status != "" {
		status = models.PaymentStatus(req.Status)
	}

	payment := &models.Payment{
		SubscriptionID: sub.ID,
		PaymentDate:    paidOn,
		Amount:         amount,
		Status:         status,
		Method:         req.Method,
		Reference:      req.Reference,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.Create(tx, payment); err != nil {
			return err
		}

		sub.LastPaymentStatus = &status
		next := billing.AdvanceNextBilling(sub.NextBillingDate, sub.BillingCadence, paidOn)
		sub.NextBillingDate = &next
		return s.subRepo.Update(tx, sub)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("payment recorded",
		"subscription_id", sub.ID,
		"payment_id", payment.ID,
		"amount", amount.StringFixed(2),
		"status", string(status),
	)

	resp := &dto.RecordPaymentResponse{
		Payment: toPaymentResponse(payment),
	}
	if sub.NextBillingDate != nil {
		resp.NextBillingDate = sub.NextBillingDate.Format(dto.DateFormat)
	}
	return resp, nil
}

func (s *paymentService) ListPayments(db *gorm.DB, userID, subscriptionID string) ([]dto.PaymentResponse, error) {
	_, sub, err := s.subService.ResolveScope(db, userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListBySubscription(db, sub.ID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, toPaymentResponse(&payments[i]))
	}
	return out, nil
}

func toPaymentResponse(p *models.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:             p.ID,
		SubscriptionID: p.SubscriptionID,
		PaymentDate:    p.PaymentDate.Format(dto.DateFormat),
		Amount:         p.Amount.StringFixed(2),
		Status:         string(p.Status),
		Method:         p.Method,
		Reference:      p.Reference,
		CreatedAt:      p.CreatedAt,
	}
}
