package dto

import (
	"mime/multipart"

	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/pkg/helpers"
)

// BoardCategoryRequest creates or updates a board category
type BoardCategoryRequest struct {
	Name         string `json:"name" binding:"required"`
	DisplayOrder int    `json:"displayOrder" binding:"min=0"`
	IsActive     *bool  `json:"isActive"`
}

// BoardMemberForm is the multipart admin form for board members
type BoardMemberForm struct {
	CategoryID   int64                 `form:"categoryId" binding:"required,min=1"`
	Name         string                `form:"name" binding:"required"`
	Position     string                `form:"position" binding:"required"`
	Email        string                `form:"email" binding:"omitempty,email"`
	LinkedInURL  string                `form:"linkedinUrl" binding:"omitempty,url"`
	Bio          string                `form:"bio"`
	IsActive     *bool                 `form:"isActive"`
	DisplayOrder int                   `form:"displayOrder" binding:"min=0"`
	Photo        *multipart.FileHeader `form:"photo"`
}

// BoardMemberResponse is a member as listed on the board page
type BoardMemberResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	Photo        string `json:"photo"`
	Email        string `json:"email"`
	LinkedInURL  string `json:"linkedinUrl"`
	Bio          string `json:"bio"`
	DisplayOrder int    `json:"displayOrder"`
}

// BoardCategoryResponse is a category with its members grouped under it
type BoardCategoryResponse struct {
	ID           int64                 `json:"id"`
	Name         string                `json:"name"`
	Year         string                `json:"year"`
	FullName     string                `json:"fullName"`
	DisplayOrder int                   `json:"displayOrder"`
	Members      []BoardMemberResponse `json:"members"`
	MemberCount  int                   `json:"memberCount"`
}

// GroupBoard groups members under their categories, keeping category order.
// Members of categories missing from the list are dropped.
func GroupBoard(categories []*models.BoardCategory, members []*models.BoardMember) []BoardCategoryResponse {
	byCategory := make(map[int64][]BoardMemberResponse, len(categories))
	for _, m := range members {
		byCategory[m.CategoryID] = append(byCategory[m.CategoryID], BoardMemberResponse{
			ID:           m.ID,
			Name:         m.Name,
			Position:     m.Position,
			Photo:        m.PhotoURL,
			Email:        m.Email,
			LinkedInURL:  m.LinkedInURL,
			Bio:          m.Bio,
			DisplayOrder: m.DisplayOrder,
		})
	}

	out := make([]BoardCategoryResponse, 0, len(categories))
	for _, c := range categories {
		name, year := helpers.SplitNameYear(c.Name)
		grouped := byCategory[c.ID]
		if grouped == nil {
			grouped = []BoardMemberResponse{}
		}
		out = append(out, BoardCategoryResponse{
			ID:           c.ID,
			Name:         name,
			Year:         year,
			FullName:     c.Name,
			DisplayOrder: c.DisplayOrder,
			Members:      grouped,
			MemberCount:  len(grouped),
		})
	}
	return out
}
