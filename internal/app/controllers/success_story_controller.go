package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/middleware"
	"github.com/yigit/clubsite/internal/pkg/helpers"
)

// SuccessStoryService manages alumni success stories
type SuccessStoryService interface {
	List(ctx context.Context, page, limit int, public bool) ([]dto.SuccessStoryResponse, dto.PaginationInfo, error)
	Create(ctx context.Context, form dto.SuccessStoryForm) (int64, error)
	Update(ctx context.Context, id int64, form dto.SuccessStoryForm) error
	Delete(ctx context.Context, id int64) error
}

// SuccessStoryController handles success stories
type SuccessStoryController struct {
	service SuccessStoryService
}

// NewSuccessStoryController creates a new SuccessStoryController
func NewSuccessStoryController(service SuccessStoryService) *SuccessStoryController {
	return &SuccessStoryController{service: service}
}

func (sc *SuccessStoryController) ListPublic(c *gin.Context) {
	sc.list(c, true)
}

func (sc *SuccessStoryController) ListAdmin(c *gin.Context) {
	sc.list(c, false)
}

func (sc *SuccessStoryController) list(c *gin.Context, public bool) {
	page, limit := helpers.ParsePaginationParams(c, 12)

	stories, pagination, err := sc.service.List(c.Request.Context(), page, limit, public)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	paginated(c, stories, pagination)
}

func (sc *SuccessStoryController) Create(c *gin.Context) {
	var form dto.SuccessStoryForm
	if !bindForm(c, &form) {
		return
	}

	id, err := sc.service.Create(c.Request.Context(), form)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	created(c, id, "Success story created")
}

func (sc *SuccessStoryController) Update(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var form dto.SuccessStoryForm
	if !bindForm(c, &form) {
		return
	}

	if err := sc.service.Update(c.Request.Context(), id, form); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, dto.IDResponse{ID: id}, "Success story updated")
}

func (sc *SuccessStoryController) Delete(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := sc.service.Delete(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, nil, "Success story deleted")
}
