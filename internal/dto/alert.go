package dto

type RenewalAlertItem struct {
	SubscriptionID  string `json:"subscription_id"`
	ServiceName     string `json:"service_name"`
	Cost            string `json:"cost"`
	BillingCadence  string `json:"billing_cadence"`
	NextBillingDate string `json:"next_billing_date"`
	DaysUntil       int    `json:"days_until"`
	Manager         string `json:"manager"`
	ManagerEmail    string `json:"manager_email,omitempty"`
}

type UpcomingRenewalsResponse struct {
	Items []RenewalAlertItem `json:"items"`
}

// DispatchAlertsResponse reports the outcome of a manual alert run.
type DispatchAlertsResponse struct {
	EmailsSent int `json:"emails_sent"`
	Skipped    int `json:"skipped"`
}
