package services

import (
	"time"

	"gorm.io/gorm"

	"subtrackr_backend/internal/dto"
	"subtrackr_backend/internal/email"
	"subtrackr_backend/internal/logger"
	"subtrackr_backend/internal/models"
	"subtrackr_backend/internal/repositories"
	"subtrackr_backend/pkg/apperrors"
)

type AlertService interface {
	UpcomingRenewals(db *gorm.DB, userID string) (*dto.UpcomingRenewalsResponse, error)
	DispatchAlerts(db *gorm.DB, userID string) (*dto.DispatchAlertsResponse, error)
}

type alertService struct {
	subRepo  repositories.SubscriptionRepository
	userRepo repositories.UserRepository
	mailer   email.Provider
}

func NewAlertService(
	subRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	mailer email.Provider,
) AlertService {
	return &alertService{
		subRepo:  subRepo,
		userRepo: userRepo,
		mailer:   mailer,
	}
}

func (s *alertService) UpcomingRenewals(db *gorm.DB, userID string) (*dto.UpcomingRenewalsResponse, error) {
	items, err := s.collect(db, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UpcomingRenewalsResponse{Items: items}, nil
}

// DispatchAlerts sends one digest per manager email covering all of
// their subscriptions inside the alert window. Sending is synchronous;
// a failed recipient is counted and skipped, not retried.
func (s *alertService) DispatchAlerts(db *gorm.DB, userID string) (*dto.DispatchAlertsResponse, error) {
	items, err := s.collect(db, userID)
	if err != nil {
		return nil, err
	}

	byManager := make(map[string][]email.RenewalItem)
	skipped := 0
	for _, item := range items {
		if item.ManagerEmail == "" {
			skipped++
			continue
		}
		next, err := dto.ParseDate(item.NextBillingDate)
		if err != nil {
			skipped++
			continue
		}
		byManager[item.ManagerEmail] = append(byManager[item.ManagerEmail], email.RenewalItem{
			ServiceName:     item.ServiceName,
			Cost:            item.Cost,
			BillingCadence:  item.BillingCadence,
			NextBillingDate: next,
			Manager:         item.Manager,
		})
	}

	sent := 0
	for recipient, digest := range byManager {
		body, err := email.RenderRenewalDigest(digest)
		if err != nil {
			return nil, err
		}
		err = s.mailer.Send(&email.Email{
			To:      []string{recipient},
			Subject: "Upcoming subscription renewals",
			Body:    body,
		})
		if err != nil {
			logger.WithError(err).Warn("renewal digest send failed", "recipient", recipient)
			skipped++
			continue
		}
		sent++
	}

	logger.Info("renewal alerts dispatched", "emails_sent", sent, "skipped", skipped)
	return &dto.DispatchAlertsResponse{EmailsSent: sent, Skipped: skipped}, nil
}

func (s *alertService) collect(db *gorm.DB, userID string) ([]dto.RenewalAlertItem, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	company := user.Company
	if user.Role == models.UserRoleAdmin {
		company = ""
	}

	subs, err := s.subRepo.FindDueForAlert(db, company)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	items := make([]dto.RenewalAlertItem, 0, len(subs))
	for i := range subs {
		sub := &subs[i]
		if sub.NextBillingDate == nil {
			continue
		}
		next := *sub.NextBillingDate
		nextDay := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)

		items = append(items, dto.RenewalAlertItem{
			SubscriptionID:  sub.ID,
			ServiceName:     sub.ServiceName,
			Cost:            sub.Cost.StringFixed(2),
			BillingCadence:  string(sub.BillingCadence),
			NextBillingDate: nextDay.Format(dto.DateFormat),
			DaysUntil:       int(nextDay.Sub(today).Hours() / 24),
			Manager:         sub.Manager,
			ManagerEmail:    sub.ManagerEmail,
		})
	}
	return items, nil
}
