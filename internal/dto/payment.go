package dto

import "time"

type RecordPaymentRequest struct {
	PaymentDate string `json:"payment_date" validate:"required,datetime=2006-01-02"`
	Amount      string `json:"amount" validate:"required,money"`
	Status      string `json:"status" validate:"omitempty,oneof=paid pending overdue"`
	Method      string `json:"method" validate:"omitempty,max=100"`
	Reference   string `json:"reference" validate:"omitempty,max=200"`
}

type PaymentResponse struct {
	ID             string    `json:"id"`
	SubscriptionID string    `json:"subscription_id"`
	PaymentDate    string    `json:"payment_date"`
	Amount         string    `json:"amount"`
	Status         string    `json:"status"`
	Method         string    `json:"method"`
	Reference      string    `json:"reference"`
	CreatedAt      time.Time `json:"created_at"`
}

// RecordPaymentResponse returns the new ledger row together with the
// advanced billing state so clients can refresh without a second read.
type RecordPaymentResponse struct {
	Payment         PaymentResponse `json:"payment"`
	NextBillingDate string          `json:"next_billing_date"`
}

type UpsertCostRequest struct {
	// Period accepts any date; it is truncated to the first of its month.
	Period   string `json:"period" validate:"required,datetime=2006-01-02"`
	Amount   string `json:"amount" validate:"required,money"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
	Source   string `json:"source" validate:"omitempty,oneof=manual import api"`
	Notes    string `json:"notes"`
}

type CostResponse struct {
	ID             string    `json:"id"`
	SubscriptionID string    `json:"subscription_id"`
	Period         string    `json:"period"`
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency"`
	Source         string    `json:"source"`
	Notes          string    `json:"notes"`
	UpdatedAt      time.Time `json:"updated_at"`
}
