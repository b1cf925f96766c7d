package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/app/repositories"
	"github.com/yigit/clubsite/internal/pkg/apperrors"
	"github.com/yigit/clubsite/internal/pkg/helpers"
)

// JobPostRepository is the storage used by JobPostService
type JobPostRepository interface {
	Create(ctx context.Context, j *models.JobPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.JobPost, error)
	List(ctx context.Context, f repositories.JobPostFilter) ([]*models.JobPost, int64, error)
	Update(ctx context.Context, j *models.JobPost) error
	Delete(ctx context.Context, id int64) error
}

// JobPostService handles job posts
type JobPostService struct {
	repo   JobPostRepository
	now    func() time.Time
	logger zerolog.Logger
}

// NewJobPostService creates a new JobPostService
func NewJobPostService(repo JobPostRepository, logger zerolog.Logger) *JobPostService {
	return &JobPostService{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
}

// ListPublic returns one page of active job posts
func (s *JobPostService) ListPublic(ctx context.Context, search, jobType string, pageNum, limit int) ([]dto.JobPostResponse, dto.PaginationInfo, error) {
	return s.list(ctx, search, jobType, true, pageNum, limit)
}

// ListAdmin returns one page of job posts in every status with their application counts
func (s *JobPostService) ListAdmin(ctx context.Context, search, jobType string, pageNum, limit int) ([]dto.JobPostResponse, dto.PaginationInfo, error) {
	return s.list(ctx, search, jobType, false, pageNum, limit)
}

func (s *JobPostService) list(ctx context.Context, search, jobType string, public bool, pageNum, limit int) ([]dto.JobPostResponse, dto.PaginationInfo, error) {
	offset, size, pageNum := page(pageNum, limit)
	items, total, err := s.repo.List(ctx, repositories.JobPostFilter{
		Search:     strings.TrimSpace(search),
		JobType:    strings.TrimSpace(jobType),
		ActiveOnly: public,
		Offset:     offset,
		Limit:      size,
	})
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	now := s.now()
	out := make([]dto.JobPostResponse, 0, len(items))
	for _, j := range items {
		out = append(out, dto.NewJobPostResponse(j, now, !public))
	}
	return out, pagination(total, pageNum, size), nil
}

// GetPublic returns an active job post; other statuses are reported as not found
func (s *JobPostService) GetPublic(ctx context.Context, id int64) (dto.JobPostResponse, error) {
	j, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.JobPostResponse{}, err
	}
	if j.Status != models.JobPostActive {
		return dto.JobPostResponse{}, apperrors.ErrJobPostNotFound
	}
	return dto.NewJobPostResponse(j, s.now(), false), nil
}

// Create validates and stores a new job post
func (s *JobPostService) Create(ctx context.Context, req dto.JobPostRequest) (int64, error) {
	j := &models.JobPost{}
	if err := applyJobPostRequest(j, req); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, j)
}

// Update replaces every field of a job post
func (s *JobPostService) Update(ctx context.Context, id int64, req dto.JobPostRequest) error {
	j, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := applyJobPostRequest(j, req); err != nil {
		return err
	}
	return s.repo.Update(ctx, j)
}

// Delete removes a job post that has no applications
func (s *JobPostService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func applyJobPostRequest(j *models.JobPost, req dto.JobPostRequest) error {
	if err := requireFields(
		requiredField{"title", req.Title},
		requiredField{"company", req.Company},
		requiredField{"description", req.Description},
	); err != nil {
		return err
	}

	status := models.JobPostActive
	if strings.TrimSpace(req.Status) != "" {
		parsed, err := models.ParseJobPostStatus(req.Status)
		if err != nil {
			return invalidStatus(err)
		}
		status = parsed
	}

	if err := checkLink("applyUrl", strings.TrimSpace(req.ApplyURL)); err != nil {
		return err
	}

	var deadline *time.Time
	if strings.TrimSpace(req.Deadline) != "" {
		d, err := helpers.ParseDate(req.Deadline)
		if err != nil {
			return apperrors.NewValidationError("deadline must be a date (YYYY-MM-DD)")
		}
		deadline = &d
	}

	j.Title = strings.TrimSpace(req.Title)
	j.Company = strings.TrimSpace(req.Company)
	j.Location = strings.TrimSpace(req.Location)
	j.JobType = strings.TrimSpace(req.JobType)
	j.Description = req.Description
	j.Requirements = req.Requirements
	j.Salary = strings.TrimSpace(req.Salary)
	j.ApplyURL = strings.TrimSpace(req.ApplyURL)
	j.Deadline = deadline
	j.Status = status
	// a blank display order keeps the stored position on update
	if req.DisplayOrder > 0 {
		j.DisplayOrder = req.DisplayOrder
	}
	return nil
}
