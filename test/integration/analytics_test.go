package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtrackr_backend/internal/dto"
	"subtrackr_backend/internal/models"
	"subtrackr_backend/test/helpers"
)

func TestAnalytics_SummaryAggregatesPaidSpend(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("analytics"), "password123", "Analytics Corp", models.UserRoleMember)
	subID := createSubscription(t, ts, tx, token, map[string]interface{}{
		"category": "devtools",
		"cost":     "50.00",
	})
	// Pending counts toward the run rate, cancelled does not.
	createSubscription(t, ts, tx, token, map[string]interface{}{
		"cost":   "25.00",
		"status": "pending",
	})
	createSubscription(t, ts, tx, token, map[string]interface{}{
		"cost":   "99.00",
		"status": "cancelled",
	})

	today := time.Now().UTC().Format("2006-01-02")
	res, bodyStr := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/subscriptions/"+subID+"/payments", token, map[string]interface{}{
		"payment_date": today,
		"amount":       "50.00",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	res, bodyStr = ts.SendRequest(t, tx, http.MethodGet, "/api/v1/analytics/summary", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var summary dto.AnalyticsSummaryResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &summary))

	assert.Equal(t, "50.00", summary.MonthToDateSpend)
	assert.Equal(t, "50.00", summary.Last30DaysSpend)
	assert.Equal(t, "50.00", summary.YearToDateSpend)
	assert.Equal(t, "75.00", summary.MonthlyRunRate, "active plus pending, cancelled excluded")
	assert.Len(t, summary.SpendTrend, 6, "trend covers six months including empty ones")
	assert.GreaterOrEqual(t, summary.Statuses.Active, int64(1))

	require.NotEmpty(t, summary.TopCategories)
	assert.Equal(t, "devtools", summary.TopCategories[0].Category)
	assert.Equal(t, "50.00", summary.TopCategories[0].Total)
}

func TestAnalytics_SummaryScopedToTenant(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	ownerToken, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("scoped_a"), "password123", "Scoped A", models.UserRoleMember)
	otherToken, _ := helpers.CreateAndLoginUser(t, ts, tx, "Other", helpers.UniqueEmail("scoped_b"), "password123", "Scoped B", models.UserRoleMember)

	subID := createSubscription(t, ts, tx, ownerToken, map[string]interface{}{"cost": "75.00"})
	today := time.Now().UTC().Format("2006-01-02")
	res, bodyStr := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/subscriptions/"+subID+"/payments", ownerToken, map[string]interface{}{
		"payment_date": today,
		"amount":       "75.00",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	res, bodyStr = ts.SendRequest(t, tx, http.MethodGet, "/api/v1/analytics/summary", otherToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var summary dto.AnalyticsSummaryResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &summary))
	assert.Equal(t, "0.00", summary.MonthToDateSpend, "another tenant's payments must not leak")
}

func TestAlerts_UpcomingListsSubscriptionsInsideWindow(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("alerts"), "password123", "Alerts Corp", models.UserRoleMember)

	soon := time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02")
	far := time.Now().UTC().AddDate(0, 6, 0).Format("2006-01-02")

	createSubscription(t, ts, tx, token, map[string]interface{}{
		"service_name":      "RenewingSoon",
		"next_billing_date": soon,
	})
	createSubscription(t, ts, tx, token, map[string]interface{}{
		"service_name":      "RenewingLater",
		"next_billing_date": far,
	})

	res, bodyStr := ts.SendRequest(t, tx, http.MethodGet, "/api/v1/alerts/upcoming", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var resp dto.UpcomingRenewalsResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &resp))

	names := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		names = append(names, item.ServiceName)
	}
	assert.Contains(t, names, "RenewingSoon")
	assert.NotContains(t, names, "RenewingLater", "outside the default 30-day window")
}

func TestAlerts_DispatchCountsRecipients(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	adminToken, _ := helpers.CreateAndLoginUser(t, ts, tx, "Admin", helpers.UniqueEmail("dispatch"), "password123", "Dispatch Corp", models.UserRoleAdmin)

	soon := time.Now().UTC().AddDate(0, 0, 5).Format("2006-01-02")
	createSubscription(t, ts, tx, adminToken, map[string]interface{}{
		"service_name":      "Managed",
		"next_billing_date": soon,
		"manager_email":     "manager@dispatch.test",
	})
	createSubscription(t, ts, tx, adminToken, map[string]interface{}{
		"service_name":      "Unmanaged",
		"next_billing_date": soon,
	})

	res, bodyStr := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/alerts/dispatch", adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var resp dto.DispatchAlertsResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &resp))
	assert.Equal(t, 1, resp.EmailsSent, "one digest for the single manager email")
	assert.Equal(t, 1, resp.Skipped, "subscription without manager email is skipped")
}
