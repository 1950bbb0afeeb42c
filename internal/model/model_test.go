package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	u := User{FirstName: "Alice", MiddleName: "Marie", LastName: "Petrova"}
	assert.Equal(t, "Alice Petrova", u.DisplayName(), "middle name stays out of the display name")
}

func TestUserIs(t *testing.T) {
	admin := User{Role: RoleAdmin}
	user := User{Role: RoleUser}

	assert.True(t, admin.Is(RoleAdmin))
	assert.True(t, admin.Is(RoleUser, RoleAdmin))
	assert.False(t, admin.Is(RoleUser))
	assert.True(t, user.Is(RoleUser))
	assert.False(t, user.Is(RoleAdmin))
	assert.False(t, user.Is())
}

func TestApplicationStatusValid(t *testing.T) {
	assert.True(t, StatusSubmitted.Valid())
	assert.True(t, StatusSelectedForInterview.Valid())
	assert.True(t, StatusRejected.Valid())
	assert.False(t, ApplicationStatus("Pending").Valid())
	assert.False(t, ApplicationStatus("").Valid())
}

func TestJobPostingToResponse(t *testing.T) {
	posting := JobPosting{
		ID: 7,
		EditableJobPostingInfo: EditableJobPostingInfo{
			Title:       "Engineer",
			CompanyName: "Acme",
			Description: "Build things",
			IsActive:    true,
		},
		DatePosted: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		CreatedBy:  User{FirstName: "Site", LastName: "Admin"},
		Applications: []Application{
			{UserID: 1},
			{UserID: 2},
		},
	}

	anon := posting.ToResponse(0)
	assert.Equal(t, "Site Admin", anon.CreatedByName)
	assert.Equal(t, 2, anon.ApplicationCount)
	assert.False(t, anon.HasApplied, "anonymous callers never see has_applied")

	applicant := posting.ToResponse(2)
	assert.True(t, applicant.HasApplied)

	other := posting.ToResponse(3)
	assert.False(t, other.HasApplied)
}

func TestApplicationToResponse(t *testing.T) {
	updated := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	a := Application{
		ID:           3,
		UserID:       1,
		JobPostingID: 7,
		Status:       StatusSelectedForInterview,
		SubmittedAt:  time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC),
		UpdatedAt:    &updated,
		User:         User{FirstName: "Alice", LastName: "Petrova"},
		JobPosting: JobPosting{
			EditableJobPostingInfo: EditableJobPostingInfo{
				Title:       "Engineer",
				CompanyName: "Acme",
			},
		},
	}

	resp := a.ToResponse()
	assert.Equal(t, uint(3), resp.ID)
	assert.Equal(t, StatusSelectedForInterview, resp.Status)
	assert.Equal(t, "Engineer", resp.JobTitle)
	assert.Equal(t, "Acme", resp.CompanyName)
	assert.Equal(t, "Alice Petrova", resp.ApplicantName)
	assert.Equal(t, &updated, resp.UpdatedAt)
}
