package dto

import (
	"time"

	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/pkg/helpers"
)

// JobPostRequest creates or updates a job post
type JobPostRequest struct {
	Title        string `json:"title" binding:"required"`
	Company      string `json:"company" binding:"required"`
	Location     string `json:"location"`
	JobType      string `json:"jobType"`
	Description  string `json:"description" binding:"required"`
	Requirements string `json:"requirements"`
	Salary       string `json:"salary"`
	ApplyURL     string `json:"applyUrl" binding:"omitempty,url"`
	Deadline     string `json:"deadline"`
	Status       string `json:"status"`
	DisplayOrder int    `json:"displayOrder" binding:"min=0"`
}

// JobPostResponse is a job post with its derived display fields
type JobPostResponse struct {
	ID                  int64   `json:"id"`
	Title               string  `json:"title"`
	Company             string  `json:"company"`
	Location            string  `json:"location"`
	JobType             string  `json:"jobType"`
	Description         string  `json:"description"`
	Requirements        string  `json:"requirements"`
	Salary              string  `json:"salary"`
	ApplyURL            string  `json:"applyUrl"`
	Deadline            *string `json:"deadline"`
	FormattedDeadline   string  `json:"formattedDeadline"`
	IsExpired           bool    `json:"isExpired"`
	AcceptsApplications bool    `json:"acceptsApplications"`
	Status              string  `json:"status"`
	DisplayOrder        int     `json:"displayOrder"`
	CreatedAt           string  `json:"createdAt"`
	ApplicationCount    *int64  `json:"applicationCount,omitempty"`
}

// NewJobPostResponse shapes a job post; withCount exposes the application count to admins
func NewJobPostResponse(j *models.JobPost, now time.Time, withCount bool) JobPostResponse {
	resp := JobPostResponse{
		ID:                  j.ID,
		Title:               j.Title,
		Company:             j.Company,
		Location:            j.Location,
		JobType:             j.JobType,
		Description:         j.Description,
		Requirements:        j.Requirements,
		Salary:              j.Salary,
		ApplyURL:            j.ApplyURL,
		IsExpired:           j.DeadlinePassed(now),
		AcceptsApplications: j.AcceptsApplications(now),
		Status:              string(j.Status),
		DisplayOrder:        j.DisplayOrder,
		CreatedAt:           helpers.FormatDisplayDate(j.CreatedAt),
	}
	if j.Deadline != nil {
		d := j.Deadline.Format("2006-01-02")
		resp.Deadline = &d
		resp.FormattedDeadline = helpers.FormatDisplayDate(*j.Deadline)
	}
	if withCount {
		count := j.ApplicationCount
		resp.ApplicationCount = &count
	}
	return resp
}
