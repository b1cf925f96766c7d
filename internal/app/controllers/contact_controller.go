package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/middleware"
	"github.com/yigit/clubsite/internal/pkg/helpers"
)

// ContactService handles contact form messages
type ContactService interface {
	Submit(ctx context.Context, req dto.CreateContactRequest, ip string) (int64, error)
	List(ctx context.Context, status string, page, limit int) ([]*models.ContactMessage, dto.PaginationInfo, error)
	UpdateStatus(ctx context.Context, id int64, raw string) (models.ContactStatus, error)
	Delete(ctx context.Context, id int64) error
}

// ContactController handles contact form messages
type ContactController struct {
	service ContactService
}

// NewContactController creates a new ContactController
func NewContactController(service ContactService) *ContactController {
	return &ContactController{service: service}
}

// Submit handles the public contact form
func (cc *ContactController) Submit(c *gin.Context) {
	var req dto.CreateContactRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := cc.service.Submit(c.Request.Context(), req, helpers.ClientIP(c.Request.Header))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	created(c, id, "Message sent successfully")
}

// List returns messages for the dashboard
func (cc *ContactController) List(c *gin.Context) {
	page, limit := helpers.ParsePaginationParams(c, 20)

	items, pagination, err := cc.service.List(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	paginated(c, items, pagination)
}

// UpdateStatus moderates a message
func (cc *ContactController) UpdateStatus(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	status, err := cc.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, dto.StatusResponse{ID: id, Status: string(status)}, "Status updated")
}

// Delete removes a message
func (cc *ContactController) Delete(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := cc.service.Delete(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, nil, "Contact message deleted")
}
