package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/middleware"
	"github.com/yigit/clubsite/internal/pkg/helpers"
)

// JobPostService manages the job board
type JobPostService interface {
	ListPublic(ctx context.Context, search, jobType string, page, limit int) ([]dto.JobPostResponse, dto.PaginationInfo, error)
	ListAdmin(ctx context.Context, search, jobType string, page, limit int) ([]dto.JobPostResponse, dto.PaginationInfo, error)
	GetPublic(ctx context.Context, id int64) (dto.JobPostResponse, error)
	Create(ctx context.Context, req dto.JobPostRequest) (int64, error)
	Update(ctx context.Context, id int64, req dto.JobPostRequest) error
	Delete(ctx context.Context, id int64) error
}

// JobController handles job posts
type JobController struct {
	service JobPostService
}

// NewJobController creates a new JobController
func NewJobController(service JobPostService) *JobController {
	return &JobController{service: service}
}

// ListPublic returns active posts
func (jc *JobController) ListPublic(c *gin.Context) {
	page, limit := helpers.ParsePaginationParams(c, 10)

	jobs, pagination, err := jc.service.ListPublic(c.Request.Context(), c.Query("search"), c.Query("type"), page, limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	paginated(c, jobs, pagination)
}

// GetPublic returns one active post
func (jc *JobController) GetPublic(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	job, err := jc.service.GetPublic(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, job, "")
}

// ListAdmin returns posts of every status with application counts
func (jc *JobController) ListAdmin(c *gin.Context) {
	page, limit := helpers.ParsePaginationParams(c, 20)

	jobs, pagination, err := jc.service.ListAdmin(c.Request.Context(), c.Query("search"), c.Query("type"), page, limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	paginated(c, jobs, pagination)
}

func (jc *JobController) Create(c *gin.Context) {
	var req dto.JobPostRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := jc.service.Create(c.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	created(c, id, "Job post created")
}

func (jc *JobController) Update(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.JobPostRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := jc.service.Update(c.Request.Context(), id, req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, dto.IDResponse{ID: id}, "Job post updated")
}

// Delete refuses posts that still have applications
func (jc *JobController) Delete(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := jc.service.Delete(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, nil, "Job post deleted")
}
