package dto

import (
	"time"
)

// DateFormat is the wire format for calendar dates (no time component).
const DateFormat = "2006-01-02"

// ParseDate parses a wire-format date. The validator has already checked
// the format, so errors only occur on unvalidated paths.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// ParseDatePtr parses an optional wire-format date.
func ParseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateFormat, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type CreateSubscriptionRequest struct {
	Company          string   `json:"company" validate:"omitempty,max=200"`
	ServiceName      string   `json:"service_name" validate:"required,max=200"`
	Cost             string   `json:"cost" validate:"required,money"`
	BillingCadence   string   `json:"billing_cadence" validate:"required,cadence"`
	PricingType      string   `json:"pricing_type" validate:"omitempty,oneof=fixed variable"`
	NextBillingDate  *string  `json:"next_billing_date" validate:"omitempty,datetime=2006-01-02"`
	ContractEndDate  *string  `json:"contract_end_date" validate:"omitempty,datetime=2006-01-02"`
	Category         string   `json:"category" validate:"omitempty,max=100"`
	Manager          string   `json:"manager" validate:"omitempty,max=200"`
	ManagerEmail     string   `json:"manager_email" validate:"omitempty,email"`
	RenewalAlertDays *int     `json:"renewal_alert_days"` // clamped to [0,365]
	Status           string   `json:"status" validate:"omitempty,oneof=active pending cancelled"`
	PaymentMethod    string   `json:"payment_method" validate:"omitempty,max=100"`
	Notes            string   `json:"notes"`
	Tags             []string `json:"tags"`
	SeatCount        *int     `json:"seat_count" validate:"omitempty,gte=0"`
	SeatsUsed        *int     `json:"seats_used" validate:"omitempty,gte=0"`
}

// UpdateSubscriptionRequest uses pointers so absent fields are left
// untouched. Tags, when present, replace the stored set wholesale.
type UpdateSubscriptionRequest struct {
	ServiceName      *string   `json:"service_name" validate:"omitempty,max=200"`
	Cost             *string   `json:"cost" validate:"omitempty,money"`
	BillingCadence   *string   `json:"billing_cadence" validate:"omitempty,cadence"`
	PricingType      *string   `json:"pricing_type" validate:"omitempty,oneof=fixed variable"`
	NextBillingDate  *string   `json:"next_billing_date" validate:"omitempty,datetime=2006-01-02"`
	ContractEndDate  *string   `json:"contract_end_date" validate:"omitempty,datetime=2006-01-02"`
	Category         *string   `json:"category" validate:"omitempty,max=100"`
	Manager          *string   `json:"manager" validate:"omitempty,max=200"`
	ManagerEmail     *string   `json:"manager_email" validate:"omitempty,email"`
	RenewalAlertDays *int      `json:"renewal_alert_days"`
	Status           *string   `json:"status" validate:"omitempty,oneof=active pending cancelled"`
	PaymentMethod    *string   `json:"payment_method" validate:"omitempty,max=100"`
	Notes            *string   `json:"notes"`
	Tags             *[]string `json:"tags"`
	SeatCount        *int      `json:"seat_count" validate:"omitempty,gte=0"`
	SeatsUsed        *int      `json:"seats_used" validate:"omitempty,gte=0"`
}

// SubscriptionFilter captures the list-endpoint query parameters.
type SubscriptionFilter struct {
	Status   string `form:"status" validate:"omitempty,oneof=active pending cancelled"`
	Category string `form:"category"`
	Company  string `form:"company"`
	Tag      string `form:"tag"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// SubscriptionResponse is the read model: the stored record plus the
// computed fields the dashboard renders.
type SubscriptionResponse struct {
	ID               string    `json:"id"`
	Company          string    `json:"company"`
	ServiceName      string    `json:"service_name"`
	Cost             string    `json:"cost"`
	BillingCadence   string    `json:"billing_cadence"`
	PricingType      string    `json:"pricing_type"`
	NextBillingDate  *string   `json:"next_billing_date"`
	ContractEndDate  *string   `json:"contract_end_date"`
	Category         string    `json:"category"`
	Manager          string    `json:"manager"`
	ManagerEmail     string    `json:"manager_email,omitempty"`
	RenewalAlertDays int       `json:"renewal_alert_days"`
	Status           string    `json:"status"`
	DerivedStatus    string    `json:"derived_status"`
	PaymentMethod    string    `json:"payment_method"`
	Notes            string    `json:"notes"`
	Tags             []string  `json:"tags"`
	SeatCount        *int      `json:"seat_count,omitempty"`
	SeatsUsed        *int      `json:"seats_used,omitempty"`
	MonthlyCost      string    `json:"monthly_cost"`
	HealthScore      int       `json:"health_score"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type SubscriptionListResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}
