package database

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	m "github.com/codingburgas/job-tracking-DKGeorgiev21/internal/model"
)

var testDB *DBinstanceStruct
var testTeardown func(context.Context, ...testcontainers.TerminateOption) error

func TestMain(tm *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	testTeardown, testDB, err = GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	tm.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := testTeardown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "teardown error: %v\n", err)
	}
}

func TestHealth(t *testing.T) {
	stats := testDB.Health()

	assert.Equal(t, "up", stats["status"])
	assert.Equal(t, "It's healthy", stats["message"])
	assert.Contains(t, stats, "open_connections")
}

func TestRawIsCached(t *testing.T) {
	first, err := testDB.Raw()
	assert.NoError(t, err)
	second, err := testDB.Raw()
	assert.NoError(t, err)
	assert.Same(t, first, second)
}

func TestUsernameUnique(t *testing.T) {
	dup := m.User{
		FirstName: "Dup",
		LastName:  "User",
		Username:  TestUserAlice.Username,
		Password:  "irrelevant",
		Role:      m.RoleUser,
	}
	assert.Error(t, testDB.Create(&dup).Error, "duplicate usernames must be rejected by the database")
}

func TestDuplicateApplicationRejected(t *testing.T) {
	dup := m.Application{
		UserID:       TestApplication1.UserID,
		JobPostingID: TestApplication1.JobPostingID,
		Status:       m.StatusSubmitted,
	}
	assert.Error(t, testDB.Create(&dup).Error, "one application per (user, posting) pair")
}

func TestDeleteUserCascadesApplications(t *testing.T) {
	user := m.User{
		FirstName: "Cascade",
		LastName:  "Target",
		Username:  "test_cascade_user",
		Password:  "irrelevant",
		Role:      m.RoleUser,
	}
	assert.NoError(t, testDB.Create(&user).Error)

	application := m.Application{
		UserID:       user.ID,
		JobPostingID: TestJobPosting1.ID,
		Status:       m.StatusSubmitted,
	}
	assert.NoError(t, testDB.Create(&application).Error)

	assert.NoError(t, testDB.Delete(&user).Error)

	var count int64
	assert.NoError(t, testDB.Model(&m.Application{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count, "applications must not outlive their applicant")
}

func TestApplicationDefaults(t *testing.T) {
	application := m.Application{
		UserID:       TestUserBob.ID,
		JobPostingID: TestJobPosting3.ID,
	}
	assert.NoError(t, testDB.Create(&application).Error)
	t.Cleanup(func() {
		testDB.Delete(&m.Application{}, application.ID)
	})

	var reloaded m.Application
	assert.NoError(t, testDB.First(&reloaded, application.ID).Error)
	assert.Equal(t, m.StatusSubmitted, reloaded.Status, "status defaults to Submitted")
	assert.False(t, reloaded.SubmittedAt.IsZero(), "submitted_at is stamped by the database")
	assert.Nil(t, reloaded.UpdatedAt, "updated_at stays NULL until a status change")
}

func TestPostingDefaults(t *testing.T) {
	posting := m.JobPosting{
		EditableJobPostingInfo: m.EditableJobPostingInfo{
			Title:       "Defaults Probe",
			CompanyName: "Test Co",
			Description: "Checks column defaults.",
		},
		CreatedByUserID: TestAdminUser.ID,
	}
	assert.NoError(t, testDB.Create(&posting).Error)
	t.Cleanup(func() {
		testDB.Delete(&m.JobPosting{}, posting.ID)
	})

	var reloaded m.JobPosting
	assert.NoError(t, testDB.First(&reloaded, posting.ID).Error)
	assert.True(t, reloaded.IsActive, "is_active defaults to true")
	assert.False(t, reloaded.DatePosted.IsZero(), "date_posted is stamped by the database")
}
