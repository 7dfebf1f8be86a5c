package handlers

import (
	"subtrackr_backend/internal/services"
	"subtrackr_backend/internal/validator"
)

// AppHandlers bundles every HTTP handler of the application.
type AppHandlers struct {
	Auth         *AuthHandler
	Subscription *SubscriptionHandler
	Payment      *PaymentHandler
	Attachment   *AttachmentHandler
	Analytics    *AnalyticsHandler
	Report       *ReportHandler
	Alert        *AlertHandler
}

func NewAppHandlers(container *services.ServiceContainer, v *validator.Validator, maxUploadSize int64) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		Auth:         NewAuthHandler(base, container.AuthService),
		Subscription: NewSubscriptionHandler(base, container.SubscriptionService),
		Payment:      NewPaymentHandler(base, container.PaymentService, container.CostService),
		Attachment:   NewAttachmentHandler(base, container.AttachmentService, maxUploadSize),
		Analytics:    NewAnalyticsHandler(base, container.AnalyticsService),
		Report:       NewReportHandler(base, container.ReportService, container.PreferenceService),
		Alert:        NewAlertHandler(base, container.AlertService),
	}
}
