package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/middleware"
	"github.com/yigit/clubsite/internal/pkg/helpers"
)

// JobApplicationService handles applications to internal job posts
type JobApplicationService interface {
	Apply(ctx context.Context, jobID int64, form dto.JobApplicationForm, ip string) (int64, error)
	List(ctx context.Context, status string, jobID int64, page, limit int) ([]dto.JobApplicationResponse, dto.PaginationInfo, error)
	UpdateStatus(ctx context.Context, id int64, raw string) (models.JobApplicationStatus, error)
	Delete(ctx context.Context, id int64) error
}

// JobApplicationController handles job applications
type JobApplicationController struct {
	service JobApplicationService
}

// NewJobApplicationController creates a new JobApplicationController
func NewJobApplicationController(service JobApplicationService) *JobApplicationController {
	return &JobApplicationController{service: service}
}

// Apply accepts a multipart application with a résumé
func (jc *JobApplicationController) Apply(c *gin.Context) {
	jobID, valid := pathID(c, "id")
	if !valid {
		return
	}
	var form dto.JobApplicationForm
	if !bindForm(c, &form) {
		return
	}

	id, err := jc.service.Apply(c.Request.Context(), jobID, form, helpers.ClientIP(c.Request.Header))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	created(c, id, "Application submitted successfully")
}

// List returns applications, optionally for one job post
func (jc *JobApplicationController) List(c *gin.Context) {
	page, limit := helpers.ParsePaginationParams(c, 20)
	jobID := int64(helpers.QueryInt(c, "jobId"))

	items, pagination, err := jc.service.List(c.Request.Context(), c.Query("status"), jobID, page, limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	paginated(c, items, pagination)
}

// UpdateStatus moves an application through review
func (jc *JobApplicationController) UpdateStatus(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	status, err := jc.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, dto.StatusResponse{ID: id, Status: string(status)}, "Status updated")
}

// Delete removes an application; its résumé is queued for cleanup
func (jc *JobApplicationController) Delete(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := jc.service.Delete(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, nil, "Application deleted")
}
