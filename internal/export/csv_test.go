package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtrackr_backend/internal/dto"
)

func TestSubscriptionsCSV(t *testing.T) {
	nextBilling := "2025-07-01"
	subs := []dto.SubscriptionResponse{
		{
			ServiceName:     "Datadog",
			Company:         "Acme Corp",
			Category:        "observability",
			Cost:            "1200.00",
			BillingCadence:  "yearly",
			PricingType:     "fixed",
			MonthlyCost:     "100.00",
			Status:          "active",
			DerivedStatus:   "active",
			NextBillingDate: &nextBilling,
			HealthScore:     100,
			Tags:            []string{"infra", "monitoring"},
			Notes:           "renews, via \"procurement\"",
		},
		{
			ServiceName: "Figma",
			Company:     "Acme Corp",
			Cost:        "45.00",
			MonthlyCost: "45.00",
			HealthScore: 85,
		},
	}

	out, err := SubscriptionsCSV(subs)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one row per subscription")

	assert.Equal(t, csvHeader, records[0])

	datadog := records[1]
	assert.Equal(t, "Datadog", datadog[0])
	assert.Equal(t, "100.00", datadog[6])
	assert.Equal(t, "2025-07-01", datadog[9])
	assert.Equal(t, "infra;monitoring", datadog[15])
	// The reader round-trip proves quoting survived the embedded comma
	// and quotes.
	assert.Equal(t, "renews, via \"procurement\"", datadog[16])

	figma := records[2]
	assert.Equal(t, "Figma", figma[0])
	assert.Equal(t, "", figma[9], "nil dates render empty")
	assert.Equal(t, "", figma[15])
}

func TestSubscriptionsCSV_EmptyList(t *testing.T) {
	out, err := SubscriptionsCSV(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, csvHeader, records[0])
}
