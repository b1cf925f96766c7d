package models

import "time"

// Activity is a club event shown in the public gallery
type Activity struct {
	ID            int64     `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	Category      string    `json:"category" db:"category"`
	ActivityDate  time.Time `json:"activityDate" db:"activity_date"`
	Location      string    `json:"location" db:"location"`
	CoverImageURL string    `json:"coverImage" db:"cover_image_url"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	DisplayOrder  int       `json:"displayOrder" db:"display_order"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Images []*ActivityImage `json:"images,omitempty"`
}

// ActivityImage is one photo of an activity
type ActivityImage struct {
	ID           int64     `json:"id" db:"id"`
	ActivityID   int64     `json:"activityId" db:"activity_id"`
	ImageURL     string    `json:"imageUrl" db:"image_url"`
	Caption      string    `json:"caption" db:"caption"`
	DisplayOrder int       `json:"displayOrder" db:"display_order"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// ActivityFilter narrows an activity listing
type ActivityFilter struct {
	Category   string
	Search     string
	Year       int
	ActiveOnly bool
	Offset     uint64
	Limit      int
}
