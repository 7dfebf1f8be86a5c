package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtrackr_backend/internal/dto"
	"subtrackr_backend/internal/models"
	"subtrackr_backend/test/helpers"
)

func TestSubscription_CreateComputesDerivedFields(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("owner"), "password123", "Acme Corp", models.UserRoleMember)

	body := map[string]interface{}{
		"service_name":    "Datadog",
		"cost":            "1200.00",
		"billing_cadence": "yearly",
		"category":        "observability",
		"tags":            []string{"infra", "monitoring"},
	}
	res, bodyStr := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/subscriptions", token, body)
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	var created dto.SubscriptionResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &created))

	// 1200/year normalizes to 100/month.
	assert.Equal(t, "100.00", created.MonthlyCost)
	assert.Equal(t, "active", created.DerivedStatus)
	assert.Equal(t, 100, created.HealthScore)
	assert.Equal(t, "Acme Corp", created.Company)
	assert.ElementsMatch(t, []string{"infra", "monitoring"}, created.Tags)
	assert.Equal(t, 30, created.RenewalAlertDays)
}

func TestSubscription_CreateRejectsUnknownCadence(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("cadence"), "password123", "Acme Corp", models.UserRoleMember)

	body := map[string]interface{}{
		"service_name":    "Mystery",
		"cost":            "10.00",
		"billing_cadence": "weekly",
	}
	res, bodyStr := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/subscriptions", token, body)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "billing_cadence")
}

func TestSubscription_UpdateClampsAlertDaysAndReplacesTags(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("update"), "password123", "Acme Corp", models.UserRoleMember)
	subID := createSubscription(t, ts, tx, token, map[string]interface{}{
		"tags": []string{"old-tag"},
	})

	updateBody := map[string]interface{}{
		"renewal_alert_days": 9999,
		"tags":               []string{"fresh", "replaced"},
	}
	res, bodyStr := ts.SendRequest(t, tx, http.MethodPut, "/api/v1/subscriptions/"+subID, token, updateBody)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var updated dto.SubscriptionResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &updated))
	assert.Equal(t, 365, updated.RenewalAlertDays)
	assert.ElementsMatch(t, []string{"fresh", "replaced"}, updated.Tags)
	assert.NotContains(t, updated.Tags, "old-tag")
}

func TestSubscription_TenantIsolation(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	ownerToken, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("tenant_a"), "password123", "Tenant A", models.UserRoleMember)
	otherToken, _ := helpers.CreateAndLoginUser(t, ts, tx, "Other", helpers.UniqueEmail("tenant_b"), "password123", "Tenant B", models.UserRoleMember)

	subID := createSubscription(t, ts, tx, ownerToken, nil)

	// The other tenant cannot see or touch it.
	res, _ := ts.SendRequest(t, tx, http.MethodGet, "/api/v1/subscriptions/"+subID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = ts.SendRequest(t, tx, http.MethodDelete, "/api/v1/subscriptions/"+subID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = ts.SendRequest(t, tx, http.MethodGet, "/api/v1/subscriptions/"+subID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestSubscription_DeleteCascades(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("cascade"), "password123", "Acme Corp", models.UserRoleMember)
	subID := createSubscription(t, ts, tx, token, nil)

	res, bodyStr := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/subscriptions/"+subID+"/payments", token, map[string]interface{}{
		"payment_date": "2025-06-01",
		"amount":       "120.00",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	res, _ = ts.SendRequest(t, tx, http.MethodDelete, "/api/v1/subscriptions/"+subID, token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var paymentCount int64
	require.NoError(t, tx.Model(&models.Payment{}).Where("subscription_id = ?", subID).Count(&paymentCount).Error)
	assert.Zero(t, paymentCount, "payments must be removed with the subscription")

	res, _ = ts.SendRequest(t, tx, http.MethodGet, "/api/v1/subscriptions/"+subID, token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestSubscription_ExportCSV(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("export"), "password123", "Acme Corp", models.UserRoleMember)
	createSubscription(t, ts, tx, token, map[string]interface{}{"service_name": "Exportable"})

	res, bodyStr := ts.SendRequest(t, tx, http.MethodGet, "/api/v1/subscriptions/export", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, bodyStr, "service_name")
	assert.Contains(t, bodyStr, "Exportable")
}
