package services

import (
	"subtrackr_backend/internal/auth"
	"subtrackr_backend/internal/email"
	"subtrackr_backend/internal/repositories"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService         AuthService
	SubscriptionService SubscriptionService
	PaymentService      PaymentService
	CostService         CostService
	AttachmentService   AttachmentService
	AnalyticsService    AnalyticsService
	ReportService       ReportService
	PreferenceService   PreferenceService
	AlertService        AlertService
	EmailProvider       email.Provider
}

// ContainerOptions carries the non-repository dependencies.
type ContainerOptions struct {
	OIDCClient       *auth.OIDCClient
	Mailer           email.Provider
	MaxUploadSize    int64
	AllowedMimeTypes []string
}

// NewServiceContainer wires the repositories into the service graph.
func NewServiceContainer(opts ContainerOptions) *ServiceContainer {
	subRepo := repositories.NewSubscriptionRepository()
	paymentRepo := repositories.NewPaymentRepository()
	costRepo := repositories.NewCostRepository()
	attachmentRepo := repositories.NewAttachmentRepository()
	userRepo := repositories.NewUserRepository()
	reportRepo := repositories.NewReportRepository()
	prefRepo := repositories.NewPreferenceRepository()
	analyticsRepo := repositories.NewAnalyticsRepository()

	mailer := opts.Mailer
	if mailer == nil {
		mailer = email.NewNoopProvider()
	}

	subService := NewSubscriptionService(subRepo, paymentRepo, costRepo, attachmentRepo, userRepo)

	return &ServiceContainer{
		AuthService:         NewAuthService(userRepo, opts.OIDCClient),
		SubscriptionService: subService,
		PaymentService:      NewPaymentService(subService, subRepo, paymentRepo),
		CostService:         NewCostService(subService, costRepo),
		AttachmentService:   NewAttachmentService(subService, attachmentRepo, opts.MaxUploadSize, opts.AllowedMimeTypes),
		AnalyticsService:    NewAnalyticsService(analyticsRepo, subRepo, costRepo, userRepo),
		ReportService:       NewReportService(reportRepo, userRepo),
		PreferenceService:   NewPreferenceService(prefRepo, userRepo),
		AlertService:        NewAlertService(subRepo, userRepo, mailer),
		EmailProvider:       mailer,
	}
}
