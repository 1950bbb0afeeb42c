package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/database"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/model"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/utilities"
)

var testDB *database.DBinstanceStruct
var testTeardown func(context.Context, ...testcontainers.TerminateOption) error
var testTokens = NewTokenIssuer([]byte("local-test-secret"))

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	testTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := testTeardown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "teardown error: %v\n", err)
	}
}

// Helper: validate access token in response and return claims.
func assertValidAccessToken(t *testing.T, resp map[string]interface{}) *Claims {
	t.Helper()
	tokenStr, ok := resp["access_token"].(string)
	assert.True(t, ok, "access_token not a string")
	token, claims, err := testTokens.ValidateToken(tokenStr)
	assert.NoError(t, err)
	assert.True(t, token.Valid)
	assert.NotEmpty(t, claims.Subject, "token subject empty")
	return claims
}

func TestRegister(t *testing.T) {
	handler := NewLocalAuthHandler(testDB, testTokens)

	payload := map[string]string{
		"first_name":  "Carol",
		"middle_name": "Jean",
		"last_name":   "Dimitrova",
		"username":    "test_carol",
		"password":    "password123",
	}
	rec, resp, err := utilities.SimulateAPICall(handler.RegisterHandler, "/register", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code, "unexpected status, body: %s", rec.Body.String())

	assert.Contains(t, resp, "access_token")
	claims := assertValidAccessToken(t, resp)
	assert.Equal(t, "test_carol", claims.Username)
	assert.Equal(t, model.RoleUser, claims.Role, "new accounts always get role USER")
	assert.Equal(t, "Carol Dimitrova", claims.Name)

	userObj, ok := resp["user"].(map[string]interface{})
	assert.True(t, ok, "user key missing in response")
	assert.Equal(t, "USER", userObj["role"])
	assert.NotContains(t, userObj, "password", "password hash must never be serialized")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	handler := NewLocalAuthHandler(testDB, testTokens)

	payload := map[string]string{
		"first_name": "Copy",
		"last_name":  "Cat",
		"username":   database.TestUserAlice.Username, // seeded username
		"password":   "password123",
	}
	rec, resp, err := utilities.SimulateAPICall(handler.RegisterHandler, "/register", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	errMsg, _ := resp["error"].(string)
	assert.Equal(t, "Username already exists", errMsg)

	// Exactly one user holds the seeded username.
	var count int64
	assert.NoError(t, testDB.Model(&model.User{}).
		Where("username = ?", database.TestUserAlice.Username).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegisterPasswordTooShort(t *testing.T) {
	handler := NewLocalAuthHandler(testDB, testTokens)

	payload := map[string]string{
		"first_name": "Short",
		"last_name":  "Pwd",
		"username":   "test_short_pwd",
		"password":   "12345", // 5 chars
	}
	rec, _, err := utilities.SimulateAPICall(handler.RegisterHandler, "/register", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterMissingNames(t *testing.T) {
	handler := NewLocalAuthHandler(testDB, testTokens)

	payload := map[string]string{
		"username": "test_nameless",
		"password": "password123",
	}
	rec, _, err := utilities.SimulateAPICall(handler.RegisterHandler, "/register", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	handler := NewLocalAuthHandler(testDB, testTokens)

	payload := map[string]string{
		"username": database.TestUserAlice.Username,
		"password": database.TestSeedPassword,
	}
	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code, "unexpected status, body: %s", rec.Body.String())

	claims := assertValidAccessToken(t, resp)
	assert.Equal(t, database.TestUserAlice.Username, claims.Username)
	assert.Equal(t, model.RoleUser, claims.Role)
}

func TestLoginAdmin(t *testing.T) {
	handler := NewLocalAuthHandler(testDB, testTokens)

	payload := map[string]string{
		"username": database.TestAdminUser.Username,
		"password": database.TestSeedPassword,
	}
	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	claims := assertValidAccessToken(t, resp)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	handler := NewLocalAuthHandler(testDB, testTokens)

	payload := map[string]string{
		"username": database.TestUserAlice.Username,
		"password": "definitely-wrong",
	}
	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	errMsg, _ := resp["error"].(string)
	assert.Equal(t, "Username or password is incorrect", errMsg)
}

func TestLoginUnknownUsername(t *testing.T) {
	handler := NewLocalAuthHandler(testDB, testTokens)

	payload := map[string]string{
		"username": "no_such_user",
		"password": "password123",
	}
	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Same message as wrong password, so callers can't probe usernames.
	errMsg, _ := resp["error"].(string)
	assert.Equal(t, "Username or password is incorrect", errMsg)
}
