package dto

import (
	"mime/multipart"

	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/pkg/helpers"
)

// ActivityForm is the multipart admin form for activities
type ActivityForm struct {
	Title        string                  `form:"title" binding:"required"`
	Description  string                  `form:"description"`
	Category     string                  `form:"category" binding:"required"`
	ActivityDate string                  `form:"activityDate" binding:"required"`
	Location     string                  `form:"location"`
	IsActive     *bool                   `form:"isActive"`
	DisplayOrder int                     `form:"displayOrder" binding:"min=0"`
	CoverImage   *multipart.FileHeader   `form:"coverImage"`
	Images       []*multipart.FileHeader `form:"images"`
}

// ActivityImageResponse is one gallery photo
type ActivityImageResponse struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// ActivityResponse is an activity shaped for the gallery pages
type ActivityResponse struct {
	ID            int64                   `json:"id"`
	Title         string                  `json:"title"`
	Description   string                  `json:"description"`
	Category      string                  `json:"category"`
	Date          string                  `json:"date"`
	FormattedDate string                  `json:"formattedDate"`
	Year          int                     `json:"year"`
	Location      string                  `json:"location"`
	CoverImage    string                  `json:"coverImage"`
	Images        []ActivityImageResponse `json:"images"`
	PhotoCount    int                     `json:"photoCount"`
	DisplayOrder  int                     `json:"displayOrder"`
	IsActive      bool                    `json:"isActive"`
}

// NewActivityResponse derives the display fields of an activity
func NewActivityResponse(a *models.Activity) ActivityResponse {
	images := make([]ActivityImageResponse, 0, len(a.Images))
	for _, img := range a.Images {
		images = append(images, ActivityImageResponse{ID: img.ID, URL: img.ImageURL, Caption: img.Caption})
	}

	cover := a.CoverImageURL
	if cover == "" && len(images) > 0 {
		cover = images[0].URL
	}

	return ActivityResponse{
		ID:            a.ID,
		Title:         a.Title,
		Description:   a.Description,
		Category:      a.Category,
		Date:          a.ActivityDate.Format("2006-01-02"),
		FormattedDate: helpers.FormatDisplayDate(a.ActivityDate),
		Year:          a.ActivityDate.Year(),
		Location:      a.Location,
		CoverImage:    cover,
		Images:        images,
		PhotoCount:    len(images),
		DisplayOrder:  a.DisplayOrder,
		IsActive:      a.IsActive,
	}
}

// NewActivityResponses maps a slice of activities
func NewActivityResponses(activities []*models.Activity) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, NewActivityResponse(a))
	}
	return out
}
