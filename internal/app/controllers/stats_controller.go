package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubsite/internal/app/models"
)

// StatsService reports dashboard counters
type StatsService interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

// StatsController serves the admin dashboard
type StatsController struct {
	service StatsService
}

// NewStatsController creates a new StatsController
func NewStatsController(service StatsService) *StatsController {
	return &StatsController{service: service}
}

// Dashboard returns pending submissions per kind and content totals
func (sc *StatsController) Dashboard(c *gin.Context) {
	stats, err := sc.service.Dashboard(c.Request.Context())
	respond(c, stats, err)
}
