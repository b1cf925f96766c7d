package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/app/repositories"
	"github.com/yigit/clubsite/internal/pkg/apperrors"
	"github.com/yigit/clubsite/internal/pkg/filestorage"
	"github.com/yigit/clubsite/internal/pkg/helpers"
	"github.com/yigit/clubsite/internal/pkg/richtext"
)

// JobApplicationRepository is the storage used by JobApplicationService
type JobApplicationRepository interface {
	Create(ctx context.Context, a *models.JobApplication) (int64, error)
	List(ctx context.Context, f repositories.JobApplicationFilter) ([]*models.JobApplication, int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.JobApplicationStatus) error
	Delete(ctx context.Context, id int64) error
}

// JobPostReader loads the post an application targets
type JobPostReader interface {
	GetByID(ctx context.Context, id int64) (*models.JobPost, error)
}

// JobApplicationService handles applications submitted through the site
type JobApplicationService struct {
	repo    JobApplicationRepository
	jobs    JobPostReader
	media   mediaUploads
	text    *richtext.Renderer
	tempDir string
	now     func() time.Time
	logger  zerolog.Logger
}

// NewJobApplicationService creates a new JobApplicationService
func NewJobApplicationService(
	repo JobApplicationRepository,
	jobs JobPostReader,
	store filestorage.MediaStore,
	queue CleanupQueue,
	text *richtext.Renderer,
	tempDir string,
	logger zerolog.Logger,
) *JobApplicationService {
	return &JobApplicationService{
		repo:    repo,
		jobs:    jobs,
		media:   newMediaUploads(store, queue, logger),
		text:    text,
		tempDir: tempDir,
		now:     time.Now,
		logger:  logger,
	}
}

// Apply stores an application for jobID. The résumé goes through a temporary
// file to the media store; if that upload fails nothing is written.
func (s *JobApplicationService) Apply(ctx context.Context, jobID int64, form dto.JobApplicationForm, ip string) (int64, error) {
	a := &models.JobApplication{
		JobPostID:   jobID,
		Name:        form.Name,
		Email:       strings.TrimSpace(form.Email),
		Phone:       strings.TrimSpace(form.Phone),
		CoverLetter: form.CoverLetter,
		Status:      models.JobApplicationNew,
		IPAddress:   ip,
	}
	cleanAll(s.text, &a.Name, &a.CoverLetter)

	if err := requireFields(
		requiredField{"name", a.Name},
		requiredField{"email", a.Email},
		requiredField{"phone", a.Phone},
	); err != nil {
		return 0, err
	}
	if err := checkSender(a.Name, a.Email); err != nil {
		return 0, err
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return 0, err
	}
	if job.Status == models.JobPostDraft {
		return 0, apperrors.ErrJobPostNotFound
	}
	if job.HasExternalApplication() {
		return 0, apperrors.ErrExternalApplication
	}
	if !job.AcceptsApplications(s.now()) {
		return 0, apperrors.ErrJobClosed
	}

	if form.Resume == nil {
		return 0, apperrors.NewCustomError(apperrors.ErrMediaRequired, "Resume file is required")
	}
	if _, err := filestorage.ValidateUpload(form.Resume, filestorage.ResumeRule); err != nil {
		return 0, err
	}

	resumeURL, err := filestorage.UploadViaTemp(ctx, s.media.store, filestorage.FolderResumes, form.Resume, filestorage.ResumeRule, s.tempDir)
	if err != nil {
		s.logger.Error().Err(err).Int64("jobPostID", jobID).Msg("Resume upload failed")
		return 0, apperrors.ErrMediaUpload
	}
	a.ResumeURL = resumeURL

	id, err := s.repo.Create(ctx, a)
	if err != nil {
		s.media.discard(ctx, resumeURL)
		return 0, err
	}

	s.logger.Info().Int64("applicationID", id).Int64("jobPostID", jobID).Msg("Job application received")
	return id, nil
}

// List returns one page of applications with their job title
func (s *JobApplicationService) List(ctx context.Context, status string, jobID int64, pageNum, limit int) ([]dto.JobApplicationResponse, dto.PaginationInfo, error) {
	filter, err := statusFilter(status, models.ParseJobApplicationStatus)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	offset, size, pageNum := page(pageNum, limit)
	items, total, err := s.repo.List(ctx, repositories.JobApplicationFilter{
		Status:    filter,
		JobPostID: jobID,
		Offset:    offset,
		Limit:     size,
	})
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	out := make([]dto.JobApplicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, dto.JobApplicationResponse{JobApplication: a, FormattedDate: helpers.FormatDisplayDate(a.CreatedAt)})
	}
	return out, pagination(total, pageNum, size), nil
}

// UpdateStatus applies a moderation status
func (s *JobApplicationService) UpdateStatus(ctx context.Context, id int64, raw string) (models.JobApplicationStatus, error) {
	status, err := models.ParseJobApplicationStatus(raw)
	if err != nil {
		return "", invalidStatus(err)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return "", err
	}
	return status, nil
}

// Delete removes an application; its résumé is queued for removal
func (s *JobApplicationService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
		s.logger.Error().Err(err).Int64("applicationID", id).Msg("Failed to delete job application")
	}
	return err
}
