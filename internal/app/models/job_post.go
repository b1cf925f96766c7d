package models

import (
	"strings"
	"time"
)

// JobPostStatus is the publication state of a job post
type JobPostStatus string

const (
	JobPostActive JobPostStatus = "active"
	JobPostClosed JobPostStatus = "closed"
	JobPostDraft  JobPostStatus = "draft"
)

// JobPostStatuses lists every accepted job post status
var JobPostStatuses = []JobPostStatus{JobPostActive, JobPostClosed, JobPostDraft}

// ParseJobPostStatus validates a job post status
func ParseJobPostStatus(raw string) (JobPostStatus, error) {
	return parseEnum(raw, JobPostStatuses)
}

// JobPost is an opportunity published on the careers page
type JobPost struct {
	ID           int64         `json:"id" db:"id"`
	Title        string        `json:"title" db:"title"`
	Company      string        `json:"company" db:"company"`
	Location     string        `json:"location" db:"location"`
	JobType      string        `json:"jobType" db:"job_type"`
	Description  string        `json:"description" db:"description"`
	Requirements string        `json:"requirements" db:"requirements"`
	Salary       string        `json:"salary" db:"salary"`
	ApplyURL     string        `json:"applyUrl" db:"apply_url"`
	Deadline     *time.Time    `json:"deadline" db:"deadline"`
	Status       JobPostStatus `json:"status" db:"status"`
	DisplayOrder int           `json:"displayOrder" db:"display_order"`
	CreatedAt    time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" db:"updated_at"`

	ApplicationCount int64 `json:"applicationCount" db:"application_count"`
}

// HasExternalApplication reports whether applications are taken on another site
func (j *JobPost) HasExternalApplication() bool {
	return strings.TrimSpace(j.ApplyURL) != ""
}

// DeadlinePassed reports whether now's calendar date is after the deadline date.
// The deadline is a DATE column, so its own calendar date is used as stored.
func (j *JobPost) DeadlinePassed(now time.Time) bool {
	if j.Deadline == nil {
		return false
	}
	return calendarDay(now).After(calendarDay(*j.Deadline))
}

// AcceptsApplications reports whether the post takes applications through this site
func (j *JobPost) AcceptsApplications(now time.Time) bool {
	return j.Status == JobPostActive && !j.DeadlinePassed(now) && !j.HasExternalApplication()
}
