package controllers

import (
	"context"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/app/services"
	"github.com/yigit/clubsite/internal/middleware"
	"github.com/yigit/clubsite/internal/pkg/helpers"
)

// ActivityService manages the activity gallery
type ActivityService interface {
	List(ctx context.Context, q services.ActivityQuery, public bool) ([]dto.ActivityResponse, dto.PaginationInfo, error)
	Get(ctx context.Context, id int64, public bool) (dto.ActivityResponse, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, form dto.ActivityForm) (int64, error)
	Update(ctx context.Context, id int64, form dto.ActivityForm) error
	AddImages(ctx context.Context, id int64, files []*multipart.FileHeader) (int, error)
	DeleteImage(ctx context.Context, activityID, imageID int64) error
	Delete(ctx context.Context, id int64) error
}

// ActivityController handles activities and their photos
type ActivityController struct {
	service ActivityService
}

// NewActivityController creates a new ActivityController
func NewActivityController(service ActivityService) *ActivityController {
	return &ActivityController{service: service}
}

func activityQuery(c *gin.Context, defaultLimit int) services.ActivityQuery {
	page, limit := helpers.ParsePaginationParams(c, defaultLimit)
	return services.ActivityQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Year:     helpers.QueryInt(c, "year"),
		Page:     page,
		Limit:    limit,
	}
}

// ListPublic returns active activities
func (ac *ActivityController) ListPublic(c *gin.Context) {
	ac.list(c, activityQuery(c, 12), true)
}

// ListAdmin returns activities including hidden ones
func (ac *ActivityController) ListAdmin(c *gin.Context) {
	ac.list(c, activityQuery(c, 20), false)
}

func (ac *ActivityController) list(c *gin.Context, q services.ActivityQuery, public bool) {
	items, pagination, err := ac.service.List(c.Request.Context(), q, public)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	paginated(c, items, pagination)
}

// Categories returns the distinct categories of active activities
func (ac *ActivityController) Categories(c *gin.Context) {
	categories, err := ac.service.Categories(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, categories, "")
}

// GetPublic returns one active activity
func (ac *ActivityController) GetPublic(c *gin.Context) {
	ac.get(c, true)
}

// GetAdmin returns one activity regardless of visibility
func (ac *ActivityController) GetAdmin(c *gin.Context) {
	ac.get(c, false)
}

func (ac *ActivityController) get(c *gin.Context, public bool) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	activity, err := ac.service.Get(c.Request.Context(), id, public)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, activity, "")
}

// bindActivityForm binds the fields and collects images sent as images[]
func bindActivityForm(c *gin.Context) (dto.ActivityForm, bool) {
	var form dto.ActivityForm
	if !bindForm(c, &form) {
		return form, false
	}
	if len(form.Images) == 0 {
		form.Images = formFiles(c, "images")
	}
	return form, true
}

func (ac *ActivityController) Create(c *gin.Context) {
	form, valid := bindActivityForm(c)
	if !valid {
		return
	}

	id, err := ac.service.Create(c.Request.Context(), form)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	created(c, id, "Activity created")
}

// Update replaces fields and, when sent, the cover image. New gallery photos go
// through AddImages.
func (ac *ActivityController) Update(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	form, valid := bindActivityForm(c)
	if !valid {
		return
	}

	if err := ac.service.Update(c.Request.Context(), id, form); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, dto.IDResponse{ID: id}, "Activity updated")
}

func (ac *ActivityController) AddImages(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	added, err := ac.service.AddImages(c.Request.Context(), id, formFiles(c, "images"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, gin.H{"id": id, "added": added}, "Images added")
}

func (ac *ActivityController) DeleteImage(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	imageID, valid := pathID(c, "imageId")
	if !valid {
		return
	}

	if err := ac.service.DeleteImage(c.Request.Context(), id, imageID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, nil, "Image deleted")
}

// Delete removes the activity with its photos
func (ac *ActivityController) Delete(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := ac.service.Delete(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, nil, "Activity deleted")
}
