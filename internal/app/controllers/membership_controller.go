package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/middleware"
	"github.com/yigit/clubsite/internal/pkg/helpers"
)

// MembershipService handles membership applications
type MembershipService interface {
	Submit(ctx context.Context, req dto.CreateMembershipRequest, ip string) (int64, error)
	List(ctx context.Context, status string, page, limit int) ([]*models.MembershipApplication, dto.PaginationInfo, error)
	UpdateStatus(ctx context.Context, id int64, raw string) (models.MembershipStatus, error)
	Delete(ctx context.Context, id int64) error
}

// MembershipController handles membership applications
type MembershipController struct {
	service MembershipService
}

// NewMembershipController creates a new MembershipController
func NewMembershipController(service MembershipService) *MembershipController {
	return &MembershipController{service: service}
}

// Submit handles the public membership form
func (mc *MembershipController) Submit(c *gin.Context) {
	var req dto.CreateMembershipRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := mc.service.Submit(c.Request.Context(), req, helpers.ClientIP(c.Request.Header))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	created(c, id, "Membership application submitted successfully")
}

// List returns applications for the dashboard
func (mc *MembershipController) List(c *gin.Context) {
	page, limit := helpers.ParsePaginationParams(c, 20)

	items, pagination, err := mc.service.List(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	paginated(c, items, pagination)
}

// UpdateStatus moderates an application
func (mc *MembershipController) UpdateStatus(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	status, err := mc.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, dto.StatusResponse{ID: id, Status: string(status)}, "Status updated")
}

// Delete removes an application
func (mc *MembershipController) Delete(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := mc.service.Delete(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, nil, "Membership application deleted")
}
