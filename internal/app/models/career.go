package models

import "time"

// CareerGuideline is a long-form career article, optionally with a PDF
type CareerGuideline struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Summary      string    `json:"summary" db:"summary"`
	Content      string    `json:"content" db:"content"`
	Category     string    `json:"category" db:"category"`
	ThumbnailURL string    `json:"thumbnailUrl" db:"thumbnail_url"`
	ResourceURL  string    `json:"resourceUrl" db:"resource_url"`
	ViewCount    int64     `json:"viewCount" db:"view_count"`
	DisplayOrder int       `json:"displayOrder" db:"display_order"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// InterviewTip is a short interview preparation article
type InterviewTip struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Content      string    `json:"content" db:"content"`
	Category     string    `json:"category" db:"category"`
	ThumbnailURL string    `json:"thumbnailUrl" db:"thumbnail_url"`
	ViewCount    int64     `json:"viewCount" db:"view_count"`
	DisplayOrder int       `json:"displayOrder" db:"display_order"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// CVTemplate is a downloadable résumé template
type CVTemplate struct {
	ID            int64     `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	Category      string    `json:"category" db:"category"`
	FileURL       string    `json:"fileUrl" db:"file_url"`
	ThumbnailURL  string    `json:"thumbnailUrl" db:"thumbnail_url"`
	DownloadCount int64     `json:"downloadCount" db:"download_count"`
	DisplayOrder  int       `json:"displayOrder" db:"display_order"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// SuccessStory is an alumni story shown on the careers page
type SuccessStory struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Batch        string    `json:"batch" db:"batch"`
	Position     string    `json:"position" db:"position"`
	Company      string    `json:"company" db:"company"`
	Story        string    `json:"story" db:"story"`
	PhotoURL     string    `json:"photoUrl" db:"photo_url"`
	LinkedInURL  string    `json:"linkedinUrl" db:"linkedin_url"`
	DisplayOrder int       `json:"displayOrder" db:"display_order"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
