package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"subtrackr_backend/internal/models"
)

// CreateUser inserts a user, hashing the raw password it carries.
func CreateUser(t *testing.T, db *gorm.DB, user *models.User, rawPassword string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	require.NoError(t, err, "failed to hash test password")
	user.PasswordHash = string(hash)

	require.NoError(t, db.Create(user).Error, "failed to create test user")
}

// CreateAndLoginUser provisions a user and logs in through the API.
func CreateAndLoginUser(t *testing.T, ts *TestServer, tx *gorm.DB, name, email, password, company string, role models.UserRole) (string, *models.User) {
	user := &models.User{
		Name:    name,
		Email:   email,
		Company: company,
		Role:    role,
	}
	CreateUser(t, tx, user, password)

	loginBody := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	res, bodyStr := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	require.Equal(t, http.StatusOK, res.StatusCode, "login should succeed, got: "+bodyStr)

	var loginResponse struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &loginResponse))
	require.NotEmpty(t, loginResponse.Token)

	return loginResponse.Token, user
}

// UniqueEmail builds a collision-free address for parallel tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.local", prefix, time.Now().UnixNano())
}
