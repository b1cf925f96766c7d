package models

import "time"

// BoardCategory groups executive board members, usually one per term
// named like "Executive Board (2024-2025)"
type BoardCategory struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	DisplayOrder int       `json:"displayOrder" db:"display_order"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	MemberCount int64 `json:"memberCount" db:"member_count"`
}

// BoardMember is a person listed on the executive board page
type BoardMember struct {
	ID           int64     `json:"id" db:"id"`
	CategoryID   int64     `json:"categoryId" db:"category_id"`
	Name         string    `json:"name" db:"name"`
	Position     string    `json:"position" db:"position"`
	PhotoURL     string    `json:"photoUrl" db:"photo_url"`
	Email        string    `json:"email" db:"email"`
	LinkedInURL  string    `json:"linkedinUrl" db:"linkedin_url"`
	Bio          string    `json:"bio" db:"bio"`
	DisplayOrder int       `json:"displayOrder" db:"display_order"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	CategoryName string `json:"categoryName,omitempty" db:"category_name"`
}
