package dto

import (
	"mime/multipart"

	"github.com/yigit/clubsite/internal/app/models"
)

// CreateMembershipRequest is the public membership form
type CreateMembershipRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	StudentID  string `json:"studentId" binding:"required"`
	Department string `json:"department" binding:"required"`
	Batch      string `json:"batch" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	WhyJoin    string `json:"whyJoin"`
}

// CreateContactRequest is the public contact form
type CreateContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// JobApplicationForm is the multipart job application form
type JobApplicationForm struct {
	Name        string                `form:"name" binding:"required"`
	Email       string                `form:"email" binding:"required,email"`
	Phone       string                `form:"phone" binding:"required,phone"`
	CoverLetter string                `form:"coverLetter"`
	Resume      *multipart.FileHeader `form:"resume"`
}

// UpdateStatusRequest is the moderation status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// StatusResponse echoes an applied moderation status
type StatusResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// JobApplicationResponse is a job application as shown to admins
type JobApplicationResponse struct {
	*models.JobApplication
	FormattedDate string `json:"formattedDate"`
}
