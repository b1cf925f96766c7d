package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/db"
	"github.com/yigit/clubsite/internal/pkg/logger"
)

// StatsRepository aggregates dashboard counters
type StatsRepository struct {
	db db.DBTX
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(conn db.DBTX) *StatsRepository {
	return &StatsRepository{db: conn}
}

const dashboardQuery = `SELECT
	(SELECT COUNT(*) FROM membership_applications WHERE status = 'new'),
	(SELECT COUNT(*) FROM contact_messages WHERE status = 'new'),
	(SELECT COUNT(*) FROM job_applications WHERE status = 'new'),
	(SELECT COUNT(*) FROM activities),
	(SELECT COUNT(*) FROM job_posts WHERE status = 'active'),
	(SELECT COUNT(*) FROM board_members),
	(SELECT COUNT(*) FROM career_guidelines),
	(SELECT COUNT(*) FROM interview_tips),
	(SELECT COUNT(*) FROM cv_templates),
	(SELECT COUNT(*) FROM success_stories)`

// Dashboard counts pending submissions and content rows in a single round trip
func (r *StatsRepository) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	s := &models.DashboardStats{}
	err := r.db.QueryRow(ctx, dashboardQuery).Scan(
		&s.NewMemberships, &s.NewContactMessages, &s.NewJobApplications,
		&s.Activities, &s.ActiveJobPosts, &s.BoardMembers,
		&s.CareerGuidelines, &s.InterviewTips, &s.CVTemplates, &s.SuccessStories,
	)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing dashboard stats query")
		return nil, fmt.Errorf("error loading dashboard stats: %w", err)
	}
	return s, nil
}
