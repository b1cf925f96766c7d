package services

import (
	"context"

	"github.com/yigit/clubsite/internal/app/models"
)

// StatsRepository is the storage used by StatsService
type StatsRepository interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

// StatsService serves the admin dashboard counters
type StatsService struct {
	repo StatsRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(repo StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

// Dashboard returns pending submission counts and content totals
func (s *StatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	return s.repo.Dashboard(ctx)
}
