package server

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

	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/auth"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/database"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/testutil"
)

var testDB *database.DBinstanceStruct
var testTeardown func(context.Context, ...testcontainers.TerminateOption) error
var testRouter *gin.Engine

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	// Keep the rate limiter out of the way and give CORS a valid origin.
	os.Setenv("RATE_LIMIT_REQUESTS_PER_SECOND", "1000")
	os.Setenv("ALLOW_ORIGIN", "http://localhost:3000")

	var err error
	testTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	s := &MyServer{
		DB:     testDB,
		Tokens: auth.NewTokenIssuer([]byte("routes-test-secret")),
	}
	testRouter = s.RegisterRoutes().(*gin.Engine)

	m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := testTeardown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "teardown error: %v\n", err)
	}
}

// loginAs logs a seeded user in through the router and returns the token.
func loginAs(t *testing.T, username string) string {
	t.Helper()
	rec, resp := testutil.MakeJSONRequest(gin.H{
		"username": username,
		"password": database.TestSeedPassword,
	}, "", testRouter, "/api/v1/auth/login", http.MethodPost)
	assert.Equal(t, http.StatusOK, rec.Code, "login failed, body: %s", rec.Body.String())

	token, ok := resp["access_token"].(string)
	assert.True(t, ok, "access_token missing from login response")
	return token
}

func TestHelloWorldRoute(t *testing.T) {
	rec, resp := testutil.MakeJSONRequest(nil, "", testRouter, "/", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello World", resp["message"])
}

func TestHealthRoute(t *testing.T) {
	rec, resp := testutil.MakeJSONRequest(nil, "", testRouter, "/health", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "up", resp["status"])
}

func TestRegisterThenLogin(t *testing.T) {
	rec, _ := testutil.MakeJSONRequest(gin.H{
		"first_name": "Routa",
		"last_name":  "Tester",
		"username":   "test_routes_user",
		"password":   "password123",
	}, "", testRouter, "/api/v1/auth/register", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code, "register failed, body: %s", rec.Body.String())

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"username": "test_routes_user",
		"password": "password123",
	}, "", testRouter, "/api/v1/auth/login", http.MethodPost)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, resp, "access_token")
}

func TestJobsRouteGates(t *testing.T) {
	payload := gin.H{
		"title":        "Gated Posting",
		"company_name": "Gatekeeper Ltd",
		"description":  "Created through the real router.",
	}

	// Anonymous browsing is allowed, anonymous writing is not.
	rec, _ := testutil.MakeJSONListRequest("", testRouter, "/api/v1/jobs")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = testutil.MakeJSONRequest(payload, "", testRouter, "/api/v1/jobs", http.MethodPost)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	userToken := loginAs(t, database.TestUserBob.Username)
	rec, _ = testutil.MakeJSONRequest(payload, userToken, testRouter, "/api/v1/jobs", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := loginAs(t, database.TestAdminUser.Username)
	rec, resp := testutil.MakeJSONRequest(payload, adminToken, testRouter, "/api/v1/jobs", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code, "unexpected status, body: %s", rec.Body.String())
	assert.Equal(t, "Gated Posting", resp["title"])
}

func TestApplicationsRouteGates(t *testing.T) {
	// Admin accounts do not apply to jobs and users do not review them.
	adminToken := loginAs(t, database.TestAdminUser.Username)
	rec, _ := testutil.MakeJSONListRequest(adminToken, testRouter, "/api/v1/applications/my-applications")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	userToken := loginAs(t, database.TestUserAlice.Username)
	rec, _ = testutil.MakeJSONListRequest(userToken, testRouter, "/api/v1/applications")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = testutil.MakeJSONListRequest("", testRouter, "/api/v1/applications/my-applications")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestApplyThroughRouter(t *testing.T) {
	userToken := loginAs(t, database.TestUserBob.Username)

	endpoint := fmt.Sprintf("/api/v1/applications/apply/%d", database.TestJobPosting2.ID)
	rec, resp := testutil.MakeJSONRequest(nil, userToken, testRouter, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code, "unexpected status, body: %s", rec.Body.String())
	assert.Equal(t, "Submitted", resp["status"])

	// The admin listing for the posting now includes Bob.
	adminToken := loginAs(t, database.TestAdminUser.Username)
	listEndpoint := fmt.Sprintf("/api/v1/applications/job/%d", database.TestJobPosting2.ID)
	rec, list := testutil.MakeJSONListRequest(adminToken, testRouter, listEndpoint)
	assert.Equal(t, http.StatusOK, rec.Code)

	found := false
	for _, a := range list {
		if a["applicant_name"] == "Bob Ivanov" {
			found = true
		}
	}
	assert.True(t, found, "submitted application missing from the admin listing")
}
