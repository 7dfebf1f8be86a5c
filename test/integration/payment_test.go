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

func TestPayment_RecordAdvancesNextBilling(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("advance"), "password123", "Acme Corp", models.UserRoleMember)
	subID := createSubscription(t, ts, tx, token, map[string]interface{}{
		"billing_cadence":   "monthly",
		"next_billing_date": "2025-06-05",
	})

	res, bodyStr := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/subscriptions/"+subID+"/payments", token, map[string]interface{}{
		"payment_date": "2025-06-10",
		"amount":       "120.00",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	var resp dto.RecordPaymentResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &resp))
	// Due date moves past the payment date in whole cycles.
	assert.Equal(t, "2025-07-05", resp.NextBillingDate)
	assert.Equal(t, "paid", resp.Payment.Status)
}

func TestPayment_RecordCatchesUpStaleSchedule(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("stale"), "password123", "Acme Corp", models.UserRoleMember)
	subID := createSubscription(t, ts, tx, token, map[string]interface{}{
		"billing_cadence":   "monthly",
		"next_billing_date": "2025-01-05",
	})

	// Months of missed updates collapse into one catch-up.
	res, bodyStr := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/subscriptions/"+subID+"/payments", token, map[string]interface{}{
		"payment_date": "2025-06-10",
		"amount":       "120.00",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	var resp dto.RecordPaymentResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &resp))
	assert.Equal(t, "2025-07-05", resp.NextBillingDate)
}

func TestPayment_EveryStatusAdvancesSchedule(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("anystatus"), "password123", "Acme Corp", models.UserRoleMember)

	// The advance is part of recording, not of settling: pending and
	// overdue rows move the due date the same way paid ones do.
	for _, status := range []string{"pending", "overdue"} {
		subID := createSubscription(t, ts, tx, token, map[string]interface{}{
			"billing_cadence":   "monthly",
			"next_billing_date": "2025-06-05",
		})

		res, bodyStr := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/subscriptions/"+subID+"/payments", token, map[string]interface{}{
			"payment_date": "2025-06-10",
			"amount":       "120.00",
			"status":       status,
		})
		require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

		var resp dto.RecordPaymentResponse
		require.NoError(t, json.Unmarshal([]byte(bodyStr), &resp))
		assert.Equal(t, "2025-07-05", resp.NextBillingDate, "status %q must advance the due date", status)
		assert.Equal(t, status, resp.Payment.Status)
	}
}

func TestPayment_RecordedOnCancelledSubscription(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("cancelled"), "password123", "Acme Corp", models.UserRoleMember)
	subID := createSubscription(t, ts, tx, token, map[string]interface{}{"status": "cancelled"})

	// The ledger stays append-permissive: a late invoice against a
	// cancelled service is still bookkept.
	res, bodyStr := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/subscriptions/"+subID+"/payments", token, map[string]interface{}{
		"payment_date": "2025-06-10",
		"amount":       "120.00",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	// Cancellation still dominates the derived status.
	res, bodyStr = ts.SendRequest(t, tx, http.MethodGet, "/api/v1/subscriptions/"+subID, token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var sub dto.SubscriptionResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &sub))
	assert.Equal(t, "cancelled", sub.DerivedStatus)
}

func TestPayment_SameDayTieResolvesToLastRecorded(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("sameday"), "password123", "Acme Corp", models.UserRoleMember)
	subID := createSubscription(t, ts, tx, token, map[string]interface{}{
		"billing_cadence":   "monthly",
		"next_billing_date": "2025-06-05",
	})

	paymentDate := time.Now().UTC().Format("2006-01-02")
	for _, status := range []string{"paid", "pending"} {
		res, bodyStr := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/subscriptions/"+subID+"/payments", token, map[string]interface{}{
			"payment_date": paymentDate,
			"amount":       "60.00",
			"status":       status,
		})
		require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)
	}

	// Two rows share the payment date; the later insert is the most
	// recent payment, so the derived status follows it.
	res, bodyStr := ts.SendRequest(t, tx, http.MethodGet, "/api/v1/subscriptions/"+subID, token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var sub dto.SubscriptionResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &sub))
	assert.Equal(t, "pending", sub.DerivedStatus)

	res, bodyStr = ts.SendRequest(t, tx, http.MethodGet, "/api/v1/subscriptions/"+subID+"/payments", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var list struct {
		Payments []dto.PaymentResponse `json:"payments"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &list))
	require.Len(t, list.Payments, 2)
	assert.Equal(t, "pending", list.Payments[0].Status, "newest insert listed first")
}

func TestPayment_NegativeAmountRejected(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("negative"), "password123", "Acme Corp", models.UserRoleMember)
	subID := createSubscription(t, ts, tx, token, nil)

	res, bodyStr := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/subscriptions/"+subID+"/payments", token, map[string]interface{}{
		"payment_date": "2025-06-10",
		"amount":       "-5.00",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "amount")
}

func TestCost_UpsertOverwritesSamePeriod(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("costs"), "password123", "Acme Corp", models.UserRoleMember)
	subID := createSubscription(t, ts, tx, token, map[string]interface{}{"pricing_type": "variable"})

	res, bodyStr := ts.SendRequest(t, tx, http.MethodPut, "/api/v1/subscriptions/"+subID+"/costs", token, map[string]interface{}{
		"period": "2025-06-15",
		"amount": "150.00",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var first dto.CostResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &first))
	// Mid-month dates land on the first of the month.
	assert.Equal(t, "2025-06-01", first.Period)

	// Same month again overwrites.
	res, bodyStr = ts.SendRequest(t, tx, http.MethodPut, "/api/v1/subscriptions/"+subID+"/costs", token, map[string]interface{}{
		"period": "2025-06-20",
		"amount": "175.50",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var second dto.CostResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &second))
	assert.Equal(t, "2025-06-01", second.Period)
	assert.Equal(t, "175.50", second.Amount)

	res, bodyStr = ts.SendRequest(t, tx, http.MethodGet, "/api/v1/subscriptions/"+subID+"/costs", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &list))
	assert.Equal(t, 1, list.Total, "upsert must not create a second row for the same month")
}
