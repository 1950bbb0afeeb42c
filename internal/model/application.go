package model

import (
	"time"
)

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

var (
	// StatusSubmitted is the state every application starts in
	StatusSubmitted ApplicationStatus = "Submitted"
	// StatusSelectedForInterview indicates the applicant moved forward
	StatusSelectedForInterview ApplicationStatus = "SelectedForInterview"
	// StatusRejected indicates the application was turned down
	StatusRejected ApplicationStatus = "Rejected"
)

// Valid reports whether s is one of the known review states.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusSelectedForInterview, StatusRejected:
		return true
	}
	return false
}

// Application is gorm model for one user's interest in one posting.
// The compound unique index keeps it to at most one per (user, posting)
// pair; both foreign keys cascade so an application never outlives its
// parents.
type Application struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	UserID uint `gorm:"not null;uniqueIndex:idx_user_job" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	JobPostingID uint       `gorm:"not null;uniqueIndex:idx_user_job" json:"job_posting_id"`
	JobPosting   JobPosting `gorm:"foreignKey:JobPostingID;constraint:OnDelete:CASCADE" json:"-"`

	Status ApplicationStatus `gorm:"type:varchar(20);default:Submitted" json:"status"`

	SubmittedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"submitted_at"`
	// UpdatedAt is set only when the status changes, never on create.
	UpdatedAt *time.Time `gorm:"type:timestamp;autoUpdateTime:false" json:"updated_at"`
}

// ApplicationResponse is the enriched read view of an application.
type ApplicationResponse struct {
	ID            uint              `json:"id"`
	Status        ApplicationStatus `json:"status"`
	SubmittedAt   time.Time         `json:"submitted_at"`
	UpdatedAt     *time.Time        `json:"updated_at"`
	JobTitle      string            `json:"job_title"`
	CompanyName   string            `json:"company_name"`
	ApplicantName string            `json:"applicant_name"`
	JobPostingID  uint              `json:"job_posting_id"`
	UserID        uint              `json:"user_id"`
}

// ToResponse materializes the read view. JobPosting and User must be
// preloaded.
func (a *Application) ToResponse() ApplicationResponse {
	return ApplicationResponse{
		ID:            a.ID,
		Status:        a.Status,
		SubmittedAt:   a.SubmittedAt,
		UpdatedAt:     a.UpdatedAt,
		JobTitle:      a.JobPosting.Title,
		CompanyName:   a.JobPosting.CompanyName,
		ApplicantName: a.User.DisplayName(),
		JobPostingID:  a.JobPostingID,
		UserID:        a.UserID,
	}
}
