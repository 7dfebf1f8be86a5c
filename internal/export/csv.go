// Package export renders subscription data for download.
package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"subtrackr_backend/internal/dto"
)

var csvHeader = []string{
	"service_name", "company", "category", "cost", "billing_cadence",
	"pricing_type", "monthly_cost", "status", "derived_status",
	"next_billing_date", "contract_end_date", "manager", "manager_email",
	"payment_method", "health_score", "tags", "notes",
}

// SubscriptionsCSV renders the list as RFC 4180 CSV with a header row.
func SubscriptionsCSV(subs []dto.SubscriptionResponse) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for i := range subs {
		if err := w.Write(subscriptionRow(&subs[i])); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func subscriptionRow(s *dto.SubscriptionResponse) []string {
	return []string{
		s.ServiceName,
		s.Company,
		s.Category,
		s.Cost,
		s.BillingCadence,
		s.PricingType,
		s.MonthlyCost,
		s.Status,
		s.DerivedStatus,
		derefOrEmpty(s.NextBillingDate),
		derefOrEmpty(s.ContractEndDate),
		s.Manager,
		s.ManagerEmail,
		s.PaymentMethod,
		strconv.Itoa(s.HealthScore),
		strings.Join(s.Tags, ";"),
		s.Notes,
	}
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
