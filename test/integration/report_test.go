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

func TestReport_CRUDLifecycle(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("report"), "password123", "Report Corp", models.UserRoleMember)

	res, bodyStr := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/reports", token, map[string]interface{}{
		"name":    "Quarterly spend",
		"type":    "spend",
		"filters": map[string]interface{}{"category": "devtools"},
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	var created dto.ReportResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &created))
	assert.Equal(t, "Quarterly spend", created.Name)
	assert.Equal(t, "Report Corp", created.Company)

	res, bodyStr = ts.SendRequest(t, tx, http.MethodPut, "/api/v1/reports/"+created.ID, token, map[string]interface{}{
		"name": "Quarterly spend v2",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, "Quarterly spend v2")

	res, bodyStr = ts.SendRequest(t, tx, http.MethodGet, "/api/v1/reports", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &list))
	assert.Equal(t, 1, list.Total)

	res, _ = ts.SendRequest(t, tx, http.MethodDelete, "/api/v1/reports/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, tx, http.MethodGet, "/api/v1/reports/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestPreferences_DefaultsThenRoundTrip(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("prefs"), "password123", "Prefs Corp", models.UserRoleMember)

	// First read returns the defaults.
	res, bodyStr := ts.SendRequest(t, tx, http.MethodGet, "/api/v1/preferences", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, "spend_trend")

	res, bodyStr = ts.SendRequest(t, tx, http.MethodPut, "/api/v1/preferences", token, map[string]interface{}{
		"dashboard": map[string]interface{}{
			"widgets":  []string{"health_overview"},
			"currency": "EUR",
		},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	res, bodyStr = ts.SendRequest(t, tx, http.MethodGet, "/api/v1/preferences", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, "EUR")
	assert.NotContains(t, bodyStr, "spend_trend", "saved document replaces the defaults")
}
