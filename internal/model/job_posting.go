package model

import (
	"time"
)

// EditableJobPostingInfo holds the fields an admin may set when creating
// or editing a posting. Embedded in JobPosting so request bodies can be
// decoded straight into it without touching ownership fields.
type EditableJobPostingInfo struct {
	Title       string `gorm:"type:varchar(100);not null" json:"title" binding:"required,max=100"`
	CompanyName string `gorm:"type:varchar(100);not null" json:"company_name" binding:"required,max=100"`
	Description string `gorm:"type:varchar(1000);not null" json:"description" binding:"required,max=1000"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

// JobPosting is gorm model for store job listings in DB
type JobPosting struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`

	EditableJobPostingInfo `gorm:"embedded"`

	DatePosted time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"date_posted"`

	CreatedByUserID uint `gorm:"not null;index;<-:create" json:"created_by_user_id"`
	CreatedBy       User `gorm:"foreignKey:CreatedByUserID" json:"-"`

	Applications []Application `gorm:"foreignKey:JobPostingID;constraint:OnDelete:CASCADE" json:"-"`
}

// JobPostingResponse is the enriched read view of a posting.
type JobPostingResponse struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	CompanyName      string    `json:"company_name"`
	Description      string    `json:"description"`
	DatePosted       time.Time `json:"date_posted"`
	IsActive         bool      `json:"is_active"`
	CreatedByName    string    `json:"created_by_name"`
	ApplicationCount int       `json:"application_count"`
	HasApplied       bool      `json:"has_applied"`
}

// ToResponse materializes the read view for the given caller.
// callerID 0 means anonymous, so HasApplied stays false.
// CreatedBy and Applications must be preloaded.
func (j *JobPosting) ToResponse(callerID uint) JobPostingResponse {
	hasApplied := false
	for _, a := range j.Applications {
		if callerID != 0 && a.UserID == callerID {
			hasApplied = true
			break
		}
	}

	return JobPostingResponse{
		ID:               j.ID,
		Title:            j.Title,
		CompanyName:      j.CompanyName,
		Description:      j.Description,
		DatePosted:       j.DatePosted,
		IsActive:         j.IsActive,
		CreatedByName:    j.CreatedBy.DisplayName(),
		ApplicationCount: len(j.Applications),
		HasApplied:       hasApplied,
	}
}
