package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/middleware"
	"github.com/yigit/clubsite/internal/pkg/helpers"
)

// BoardService manages board categories and members
type BoardService interface {
	PublicBoard(ctx context.Context, year string) ([]dto.BoardCategoryResponse, error)
	ListCategories(ctx context.Context) ([]*models.BoardCategory, error)
	CreateCategory(ctx context.Context, req dto.BoardCategoryRequest) (int64, error)
	UpdateCategory(ctx context.Context, id int64, req dto.BoardCategoryRequest) error
	DeleteCategory(ctx context.Context, id int64) error
	ListMembers(ctx context.Context, categoryID int64) ([]*models.BoardMember, error)
	CreateMember(ctx context.Context, form dto.BoardMemberForm) (int64, error)
	UpdateMember(ctx context.Context, id int64, form dto.BoardMemberForm) error
	DeleteMember(ctx context.Context, id int64) error
}

// BoardController handles the committee board
type BoardController struct {
	service BoardService
}

// NewBoardController creates a new BoardController
func NewBoardController(service BoardService) *BoardController {
	return &BoardController{service: service}
}

// PublicBoard returns the grouped board, optionally for one year
func (bc *BoardController) PublicBoard(c *gin.Context) {
	board, err := bc.service.PublicBoard(c.Request.Context(), c.Query("year"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, board, "")
}

func (bc *BoardController) ListCategories(c *gin.Context) {
	categories, err := bc.service.ListCategories(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, categories, "")
}

func (bc *BoardController) CreateCategory(c *gin.Context) {
	var req dto.BoardCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := bc.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	created(c, id, "Category created")
}

func (bc *BoardController) UpdateCategory(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.BoardCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := bc.service.UpdateCategory(c.Request.Context(), id, req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, dto.IDResponse{ID: id}, "Category updated")
}

// DeleteCategory refuses categories that still have members
func (bc *BoardController) DeleteCategory(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := bc.service.DeleteCategory(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, nil, "Category deleted")
}

// ListMembers accepts ?categoryId to narrow the list
func (bc *BoardController) ListMembers(c *gin.Context) {
	members, err := bc.service.ListMembers(c.Request.Context(), int64(helpers.QueryInt(c, "categoryId")))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, members, "")
}

func (bc *BoardController) CreateMember(c *gin.Context) {
	var form dto.BoardMemberForm
	if !bindForm(c, &form) {
		return
	}

	id, err := bc.service.CreateMember(c.Request.Context(), form)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	created(c, id, "Board member created")
}

func (bc *BoardController) UpdateMember(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var form dto.BoardMemberForm
	if !bindForm(c, &form) {
		return
	}

	if err := bc.service.UpdateMember(c.Request.Context(), id, form); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, dto.IDResponse{ID: id}, "Board member updated")
}

func (bc *BoardController) DeleteMember(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := bc.service.DeleteMember(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, nil, "Board member deleted")
}
