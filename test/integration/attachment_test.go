package integration_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtrackr_backend/internal/dto"
	"subtrackr_backend/internal/models"
	"subtrackr_backend/test/helpers"
)

func TestAttachment_UploadAndDownload(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("upload"), "password123", "Acme Corp", models.UserRoleMember)
	subID := createSubscription(t, ts, tx, token, nil)

	content := []byte("%PDF-1.4 fake contract body")
	res, bodyStr := ts.SendMultipart(t, tx, "/api/v1/subscriptions/"+subID+"/attachments", token,
		"file", "contract.pdf", "application/pdf", content, map[string]string{"type": "contract"})
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	var uploaded dto.AttachmentResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &uploaded))
	assert.Equal(t, "contract.pdf", uploaded.Name)
	assert.Equal(t, "contract", uploaded.Type)
	assert.Equal(t, int64(len(content)), uploaded.Size)

	res, bodyStr = ts.SendRequest(t, tx, http.MethodGet, "/api/v1/attachments/"+uploaded.ID+"/download", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, bytes.Equal(content, []byte(bodyStr)), "downloaded bytes must match the upload")
	assert.Contains(t, res.Header.Get("Content-Disposition"), "contract.pdf")
}

func TestAttachment_DuplicateNameAndSizeConflicts(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("duplicate"), "password123", "Acme Corp", models.UserRoleMember)
	subID := createSubscription(t, ts, tx, token, nil)

	content := []byte("duplicate payload")
	res, bodyStr := ts.SendMultipart(t, tx, "/api/v1/subscriptions/"+subID+"/attachments", token,
		"file", "invoice.pdf", "application/pdf", content, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	res, _ = ts.SendMultipart(t, tx, "/api/v1/subscriptions/"+subID+"/attachments", token,
		"file", "invoice.pdf", "application/pdf", content, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode, "same name and size must be rejected")

	// Different size with the same name passes.
	res, _ = ts.SendMultipart(t, tx, "/api/v1/subscriptions/"+subID+"/attachments", token,
		"file", "invoice.pdf", "application/pdf", append(content, '!'), nil)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
}

func TestAttachment_RejectsDisallowedMimeType(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("badmime"), "password123", "Acme Corp", models.UserRoleMember)
	subID := createSubscription(t, ts, tx, token, nil)

	res, _ := ts.SendMultipart(t, tx, "/api/v1/subscriptions/"+subID+"/attachments", token,
		"file", "malware.exe", "application/x-msdownload", []byte("MZ"), nil)
	assert.Equal(t, http.StatusUnsupportedMediaType, res.StatusCode)
}

func TestAttachment_NameIsSanitized(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("sanitize"), "password123", "Acme Corp", models.UserRoleMember)
	subID := createSubscription(t, ts, tx, token, nil)

	res, bodyStr := ts.SendMultipart(t, tx, "/api/v1/subscriptions/"+subID+"/attachments", token,
		"file", `..\evil<name>.pdf`, "application/pdf", []byte("content"), nil)
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	var uploaded dto.AttachmentResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &uploaded))
	assert.Equal(t, "..evilname.pdf", uploaded.Name)
}

func TestAttachment_DeleteRemovesRecord(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginUser(t, ts, tx, "Owner", helpers.UniqueEmail("attdelete"), "password123", "Acme Corp", models.UserRoleMember)
	subID := createSubscription(t, ts, tx, token, nil)

	res, bodyStr := ts.SendMultipart(t, tx, "/api/v1/subscriptions/"+subID+"/attachments", token,
		"file", "temp.pdf", "application/pdf", []byte("temp"), nil)
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	var uploaded dto.AttachmentResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &uploaded))

	res, _ = ts.SendRequest(t, tx, http.MethodDelete, "/api/v1/attachments/"+uploaded.ID, token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, tx, http.MethodGet, "/api/v1/attachments/"+uploaded.ID+"/download", token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
