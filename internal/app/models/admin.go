package models

import "time"

// AdminStatus marks whether an admin account may sign in
type AdminStatus string

const (
	AdminActive   AdminStatus = "active"
	AdminInactive AdminStatus = "inactive"
)

// Admin is a dashboard account
type Admin struct {
	ID           int64       `json:"id" db:"id"`
	Username     string      `json:"username" db:"username"`
	PasswordHash string      `json:"-" db:"password_hash"`
	Name         string      `json:"name" db:"name"`
	Email        string      `json:"email" db:"email"`
	Status       AdminStatus `json:"status" db:"status"`
	LastLoginAt  *time.Time  `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
}

// DashboardStats summarises pending moderation work and content totals
type DashboardStats struct {
	NewMemberships     int64 `json:"newMemberships"`
	NewContactMessages int64 `json:"newContactMessages"`
	NewJobApplications int64 `json:"newJobApplications"`
	Activities         int64 `json:"activities"`
	ActiveJobPosts     int64 `json:"activeJobPosts"`
	BoardMembers       int64 `json:"boardMembers"`
	CareerGuidelines   int64 `json:"careerGuidelines"`
	InterviewTips      int64 `json:"interviewTips"`
	CVTemplates        int64 `json:"cvTemplates"`
	SuccessStories     int64 `json:"successStories"`
}

// MediaCleanupTask is a stored media URL waiting to be removed from the media store
type MediaCleanupTask struct {
	ID        int64     `json:"id" db:"id"`
	URL       string    `json:"url" db:"url"`
	Attempts  int       `json:"attempts" db:"attempts"`
	LastError string    `json:"lastError" db:"last_error"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
