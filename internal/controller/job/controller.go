// Package job provides HTTP handlers for job posting related operations.
package job

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/database"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/model"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/utilities"
)

// JobController handles job posting related endpoints
type JobController struct {
	DB *database.DBinstanceStruct
}

// NewJobController creates a new instance of JobController
func NewJobController(db *database.DBinstanceStruct) *JobController {
	return &JobController{
		DB: db,
	}
}

// callerID returns the authenticated user's ID, or 0 for anonymous callers.
func callerID(c *gin.Context) uint {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		return 0
	}
	return user.ID
}

// ListJobs fetches all active job postings from the database and
// returns them as enriched read views.
// @Summary Get all active job postings
// @Description Reachable anonymously; when a valid token is attached, each row's has_applied reflects the caller
// @Tags Jobs
// @Produce json
// @Param Authorization header string false "Optional access token" default(Bearer <your access token>)
// @Success 200 {array} model.JobPostingResponse "Active job postings"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [get]
func (jc *JobController) ListJobs(c *gin.Context) {
	caller := callerID(c)

	var rawPostings []model.JobPosting
	if err := jc.DB.
		Preload("CreatedBy").
		Preload("Applications").
		Where("is_active = ?", true).
		Order("id").
		Find(&rawPostings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch job postings: ", err.Error()),
		})
		return
	}

	postings := []model.JobPostingResponse{}
	for _, rawPosting := range rawPostings {
		postings = append(postings, rawPosting.ToResponse(caller))
	}

	c.JSON(http.StatusOK, postings)
}

// GetJobByID fetches a job posting by its ID from the database
// and returns it as an enriched read view.
// @Summary Get job posting by ID
// @Description Reachable anonymously; inactive postings are still returned by direct ID lookup
// @Tags Jobs
// @Produce json
// @Param Authorization header string false "Optional access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} model.JobPostingResponse "Return the job posting with the specified ID"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [get]
func (jc *JobController) GetJobByID(c *gin.Context) {
	id := c.Param("id")
	caller := callerID(c)

	posting := model.JobPosting{}
	if err := jc.DB.
		Preload("CreatedBy").
		Preload("Applications").
		Where("id = ?", id).
		First(&posting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, posting.ToResponse(caller))
}

// CreateJobHandler handles the creation of a new job posting by an admin.
// @Summary Create job posting based on given json structure
// @Description Only admins have access to this endpoint. New postings are always active.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Job body model.EditableJobPostingInfo true "Input job posting information"
// @Success 201 {object} model.JobPostingResponse "Successfully created job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job posting struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [post]
func (jc *JobController) CreateJobHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	posting := model.JobPosting{}
	if err := c.ShouldBindJSON(&posting.EditableJobPostingInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	// Whatever the request said, a new posting starts out active.
	posting.IsActive = true
	posting.CreatedByUserID = user.ID
	if err := jc.DB.Create(&posting).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to create job posting: ", err),
		})
		return
	}

	// Reload to pick up DB-side defaults and the creator for the view.
	if err := jc.DB.Preload("CreatedBy").First(&posting, posting.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve created job posting: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, posting.ToResponse(0))
}

// UpdateJobHandler overwrites the editable fields of a posting.
// Creator and posting date stay untouched.
// @Summary Edit job posting based on given json structure
// @Description Only admins have access to this endpoint
// @Tags Jobs
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Param Job body model.EditableJobPostingInfo true "Input job posting information"
// @Success 200 {object} model.JobPostingResponse "Successfully updated job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job posting struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as admin"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [put]
func (jc *JobController) UpdateJobHandler(c *gin.Context) {
	id := c.Param("id")

	posting := model.JobPosting{}
	if err := jc.DB.Where("id = ?", id).First(&posting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	updated := model.JobPosting{}
	if err := c.ShouldBindJSON(&updated.EditableJobPostingInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}

	// Select the editable columns explicitly so is_active=false is
	// written too; Updates alone skips zero values.
	if err := jc.DB.Model(&posting).
		Select("title", "company_name", "description", "is_active").
		Updates(updated.EditableJobPostingInfo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update job posting: %s", err.Error()),
		})
		return
	}

	// Reload the posting to return the latest data
	if err := jc.DB.
		Preload("CreatedBy").
		Preload("Applications").
		First(&posting, posting.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve updated job posting: %s", err.Error()),
		})
		return
	}

	// Caller 0: the response always reports has_applied=false, matching
	// the long-standing behavior of this endpoint.
	c.JSON(http.StatusOK, posting.ToResponse(0))
}

// DeleteJobHandler removes a posting and, by cascade, all its applications.
// @Summary Delete given job posting ID
// @Description Only admins have access to this endpoint
// @Tags Jobs
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} utilities.MessageResponse "Successfully deleted job posting"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as admin"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [delete]
func (jc *JobController) DeleteJobHandler(c *gin.Context) {
	id := c.Param("id")

	posting := model.JobPosting{}
	if err := jc.DB.Where("id = ?", id).First(&posting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	if err := jc.DB.Delete(&posting).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete job posting: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job posting deleted"})
}
