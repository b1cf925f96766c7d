package dto

import (
	"mime/multipart"

	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/pkg/helpers"
)

// CareerGuidelineForm is the multipart admin form for guidelines
type CareerGuidelineForm struct {
	Title        string                `form:"title" binding:"required"`
	Summary      string                `form:"summary"`
	Content      string                `form:"content" binding:"required"`
	Category     string                `form:"category"`
	IsActive     *bool                 `form:"isActive"`
	DisplayOrder int                   `form:"displayOrder" binding:"min=0"`
	Thumbnail    *multipart.FileHeader `form:"thumbnail"`
	Resource     *multipart.FileHeader `form:"resource"`
}

// InterviewTipForm is the multipart admin form for interview tips
type InterviewTipForm struct {
	Title        string                `form:"title" binding:"required"`
	Content      string                `form:"content" binding:"required"`
	Category     string                `form:"category"`
	IsActive     *bool                 `form:"isActive"`
	DisplayOrder int                   `form:"displayOrder" binding:"min=0"`
	Thumbnail    *multipart.FileHeader `form:"thumbnail"`
}

// CVTemplateForm is the multipart admin form for CV templates
type CVTemplateForm struct {
	Title        string                `form:"title" binding:"required"`
	Description  string                `form:"description"`
	Category     string                `form:"category"`
	IsActive     *bool                 `form:"isActive"`
	DisplayOrder int                   `form:"displayOrder" binding:"min=0"`
	File         *multipart.FileHeader `form:"file"`
	Thumbnail    *multipart.FileHeader `form:"thumbnail"`
}

// SuccessStoryForm is the multipart admin form for success stories
type SuccessStoryForm struct {
	Name         string                `form:"name" binding:"required"`
	Batch        string                `form:"batch"`
	Position     string                `form:"position"`
	Company      string                `form:"company"`
	Story        string                `form:"story" binding:"required"`
	LinkedInURL  string                `form:"linkedinUrl" binding:"omitempty,url"`
	IsActive     *bool                 `form:"isActive"`
	DisplayOrder int                   `form:"displayOrder" binding:"min=0"`
	Photo        *multipart.FileHeader `form:"photo"`
}

// CareerGuidelineResponse carries the rendered article body
type CareerGuidelineResponse struct {
	*models.CareerGuideline
	ContentHTML   string `json:"contentHtml"`
	FormattedDate string `json:"formattedDate"`
}

// InterviewTipResponse carries the rendered tip body
type InterviewTipResponse struct {
	*models.InterviewTip
	ContentHTML   string `json:"contentHtml"`
	FormattedDate string `json:"formattedDate"`
}

// SuccessStoryResponse adds the display date to a story
type SuccessStoryResponse struct {
	*models.SuccessStory
	FormattedDate string `json:"formattedDate"`
}

// NewSuccessStoryResponses maps a slice of stories
func NewSuccessStoryResponses(stories []*models.SuccessStory) []SuccessStoryResponse {
	out := make([]SuccessStoryResponse, 0, len(stories))
	for _, s := range stories {
		out = append(out, SuccessStoryResponse{SuccessStory: s, FormattedDate: helpers.FormatDisplayDate(s.CreatedAt)})
	}
	return out
}

// ViewCountResponse is the counter value after a view was recorded
type ViewCountResponse struct {
	ID        int64 `json:"id"`
	ViewCount int64 `json:"viewCount"`
}

// DownloadCountResponse is the counter value after a download was recorded
type DownloadCountResponse struct {
	ID            int64  `json:"id"`
	DownloadCount int64  `json:"downloadCount"`
	FileURL       string `json:"fileUrl"`
}
