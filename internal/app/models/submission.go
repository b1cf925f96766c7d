package models

import "time"

// MembershipStatus is the moderation state of a membership application
type MembershipStatus string

const (
	MembershipNew      MembershipStatus = "new"
	MembershipReviewed MembershipStatus = "reviewed"
	MembershipApproved MembershipStatus = "approved"
	MembershipRejected MembershipStatus = "rejected"
)

// MembershipStatuses lists every accepted membership status
var MembershipStatuses = []MembershipStatus{MembershipNew, MembershipReviewed, MembershipApproved, MembershipRejected}

// ParseMembershipStatus validates a client supplied membership status
func ParseMembershipStatus(raw string) (MembershipStatus, error) {
	return parseEnum(raw, MembershipStatuses)
}

// ContactStatus is the moderation state of a contact message
type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactReplied  ContactStatus = "replied"
	ContactArchived ContactStatus = "archived"
)

// ContactStatuses lists every accepted contact message status
var ContactStatuses = []ContactStatus{ContactNew, ContactRead, ContactReplied, ContactArchived}

// ParseContactStatus validates a client supplied contact message status
func ParseContactStatus(raw string) (ContactStatus, error) {
	return parseEnum(raw, ContactStatuses)
}

// JobApplicationStatus is the moderation state of a job application
type JobApplicationStatus string

const (
	JobApplicationNew         JobApplicationStatus = "new"
	JobApplicationReviewed    JobApplicationStatus = "reviewed"
	JobApplicationShortlisted JobApplicationStatus = "shortlisted"
	JobApplicationRejected    JobApplicationStatus = "rejected"
)

// JobApplicationStatuses lists every accepted job application status
var JobApplicationStatuses = []JobApplicationStatus{
	JobApplicationNew, JobApplicationReviewed, JobApplicationShortlisted, JobApplicationRejected,
}

// ParseJobApplicationStatus validates a client supplied job application status
func ParseJobApplicationStatus(raw string) (JobApplicationStatus, error) {
	return parseEnum(raw, JobApplicationStatuses)
}

// MembershipApplication is a request to join the club
type MembershipApplication struct {
	ID         int64            `json:"id" db:"id"`
	Name       string           `json:"name" db:"name"`
	Email      string           `json:"email" db:"email"`
	StudentID  string           `json:"studentId" db:"student_id"`
	Department string           `json:"department" db:"department"`
	Batch      string           `json:"batch" db:"batch"`
	Phone      string           `json:"phone" db:"phone"`
	WhyJoin    string           `json:"whyJoin" db:"why_join"`
	Status     MembershipStatus `json:"status" db:"status"`
	IPAddress  string           `json:"ipAddress" db:"ip_address"`
	CreatedAt  time.Time        `json:"createdAt" db:"created_at"`
}

// ContactMessage is a message left through the public contact form
type ContactMessage struct {
	ID        int64         `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Email     string        `json:"email" db:"email"`
	Subject   string        `json:"subject" db:"subject"`
	Message   string        `json:"message" db:"message"`
	Status    ContactStatus `json:"status" db:"status"`
	IPAddress string        `json:"ipAddress" db:"ip_address"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
}

// JobApplication is a candidate's application to a job post
type JobApplication struct {
	ID          int64                `json:"id" db:"id"`
	JobPostID   int64                `json:"jobPostId" db:"job_post_id"`
	Name        string               `json:"name" db:"name"`
	Email       string               `json:"email" db:"email"`
	Phone       string               `json:"phone" db:"phone"`
	CoverLetter string               `json:"coverLetter" db:"cover_letter"`
	ResumeURL   string               `json:"resumeUrl" db:"resume_url"`
	Status      JobApplicationStatus `json:"status" db:"status"`
	IPAddress   string               `json:"ipAddress" db:"ip_address"`
	CreatedAt   time.Time            `json:"createdAt" db:"created_at"`

	// Related entities
	JobTitle   string `json:"jobTitle,omitempty" db:"job_title"`
	JobCompany string `json:"jobCompany,omitempty" db:"job_company"`
}
