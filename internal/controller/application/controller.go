// Package application provides HTTP handlers for job application operations.
package application

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/database"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/model"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/utilities"
)

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	DB *database.DBinstanceStruct
}

// NewApplicationController creates a new instance of ApplicationController with the provided database connection.
func NewApplicationController(db *database.DBinstanceStruct) *ApplicationController {
	return &ApplicationController{
		DB: db,
	}
}

// SubmitHandler handles a user applying to a job posting.
// @Summary Apply to a job posting
// @Description Only USER accounts can apply, and at most once per posting
// @Tags Applications
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param jobId path integer true "ID of the job posting to apply to"
// @Success 201 {object} model.ApplicationResponse "Successfully applied to job posting"
// @Failure 400 {object} utilities.ErrorResponse "Already applied to this job posting"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as a USER account"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/apply/{jobId} [post]
func (ac *ApplicationController) SubmitHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID := c.Param("jobId")

	posting := model.JobPosting{}
	if err := ac.DB.Where("id = ?", jobID).First(&posting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	// Prevent duplicate applications: check if this user already applied
	// to the same job posting.
	existing := model.Application{}
	if err := ac.DB.
		Where("user_id = ? AND job_posting_id = ?", user.ID, posting.ID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "You have already applied to this job posting",
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to check existing application",
		})
		return
	}

	application := model.Application{
		UserID:       user.ID,
		JobPostingID: posting.ID,
		Status:       model.StatusSubmitted,
	}

	if err := ac.DB.Create(&application).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// A concurrent submit can slip past the pre-check; the
			// compound unique index answers the race and we report it
			// the same way as the pre-check.
			case "23505":
				c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
					Error: "You have already applied to this job posting",
				})
				return
			// Foreign key violation: the posting was deleted between
			// lookup and insert.
			case "23503":
				c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
				return
			}
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create application: %s", err.Error()),
		})
		return
	}

	// Reload with parents for the enriched view.
	if err := ac.DB.
		Preload("User").
		Preload("JobPosting").
		First(&application, application.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve created application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, application.ToResponse())
}

// ListMineHandler lists the caller's applications, newest first.
// @Summary Get own applications
// @Description Only USER accounts can access this endpoint
// @Tags Applications
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.ApplicationResponse "Caller's applications, newest submission first"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as a USER account"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/my-applications [get]
func (ac *ApplicationController) ListMineHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	ac.listWhere(c, "user_id = ?", user.ID)
}

// ListForJobHandler lists all applications for one posting, newest first.
// @Summary Get applications for a job posting
// @Description Only admins have access to this endpoint
// @Tags Applications
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param jobId path integer true "ID of the job posting"
// @Success 200 {array} model.ApplicationResponse "Applications for the posting, newest submission first"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/job/{jobId} [get]
func (ac *ApplicationController) ListForJobHandler(c *gin.Context) {
	ac.listWhere(c, "job_posting_id = ?", c.Param("jobId"))
}

// ListAllHandler lists every application in the system, newest first.
// @Summary Get all applications
// @Description Only admins have access to this endpoint
// @Tags Applications
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.ApplicationResponse "All applications, newest submission first"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications [get]
func (ac *ApplicationController) ListAllHandler(c *gin.Context) {
	ac.listWhere(c, "")
}

// listWhere runs the shared list query and writes the response.
func (ac *ApplicationController) listWhere(c *gin.Context, cond string, args ...interface{}) {
	query := ac.DB.
		Preload("User").
		Preload("JobPosting").
		Order("submitted_at DESC")
	if cond != "" {
		query = query.Where(cond, args...)
	}

	var rawApplications []model.Application
	if err := query.Find(&rawApplications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch applications: %s", err.Error()),
		})
		return
	}

	applications := []model.ApplicationResponse{}
	for _, rawApplication := range rawApplications {
		applications = append(applications, rawApplication.ToResponse())
	}

	c.JSON(http.StatusOK, applications)
}

type updateStatusInfo struct {
	Status model.ApplicationStatus `json:"status" binding:"required,oneof=Submitted SelectedForInterview Rejected"`
}

// UpdateStatusHandler sets the review status of an application.
// @Summary Update application status
// @Description Only admins have access to this endpoint. Any status may overwrite any prior status; re-applying the same status still bumps updated_at.
// @Tags Applications
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the application"
// @Param Status body updateStatusInfo true "New status"
// @Success 200 {object} model.ApplicationResponse "Updated application"
// @Failure 400 {object} utilities.ErrorResponse "Unknown status value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as admin"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/status [put]
func (ac *ApplicationController) UpdateStatusHandler(c *gin.Context) {
	id := c.Param("id")

	var info updateStatusInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Status must be one of Submitted, SelectedForInterview, Rejected",
		})
		return
	}

	application := model.Application{}
	if err := ac.DB.
		Preload("User").
		Preload("JobPosting").
		Where("id = ?", id).
		First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}

	now := time.Now()
	application.Status = info.Status
	application.UpdatedAt = &now

	if err := ac.DB.Model(&application).
		Select("status", "updated_at").
		Updates(application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, application.ToResponse())
}
