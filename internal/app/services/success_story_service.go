package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/app/repositories"
	"github.com/yigit/clubsite/internal/pkg/filestorage"
)

// SuccessStoryRepository is the storage used by SuccessStoryService
type SuccessStoryRepository interface {
	Create(ctx context.Context, s *models.SuccessStory) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.SuccessStory, error)
	List(ctx context.Context, f repositories.ContentFilter) ([]*models.SuccessStory, int64, error)
	Update(ctx context.Context, s *models.SuccessStory) error
	Delete(ctx context.Context, id int64) error
}

// SuccessStoryService handles alumni success stories
type SuccessStoryService struct {
	repo   SuccessStoryRepository
	media  mediaUploads
	logger zerolog.Logger
}

// NewSuccessStoryService creates a new SuccessStoryService
func NewSuccessStoryService(repo SuccessStoryRepository, store filestorage.MediaStore, queue CleanupQueue, logger zerolog.Logger) *SuccessStoryService {
	return &SuccessStoryService{
		repo:   repo,
		media:  newMediaUploads(store, queue, logger),
		logger: logger,
	}
}

// List returns one page of stories; public listings only see active rows
func (s *SuccessStoryService) List(ctx context.Context, pageNum, limit int, public bool) ([]dto.SuccessStoryResponse, dto.PaginationInfo, error) {
	offset, size, pageNum := page(pageNum, limit)
	items, total, err := s.repo.List(ctx, repositories.ContentFilter{ActiveOnly: public, Offset: offset, Limit: size})
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return dto.NewSuccessStoryResponses(items), pagination(total, pageNum, size), nil
}

func applySuccessStoryForm(st *models.SuccessStory, form dto.SuccessStoryForm) error {
	if err := requireFields(
		requiredField{"name", form.Name},
		requiredField{"story", form.Story},
	); err != nil {
		return err
	}
	if err := checkLink("linkedinUrl", strings.TrimSpace(form.LinkedInURL)); err != nil {
		return err
	}
	st.Name = strings.TrimSpace(form.Name)
	st.Batch = strings.TrimSpace(form.Batch)
	st.Position = strings.TrimSpace(form.Position)
	st.Company = strings.TrimSpace(form.Company)
	st.Story = form.Story
	st.LinkedInURL = strings.TrimSpace(form.LinkedInURL)
	st.IsActive = boolOr(form.IsActive, st.IsActive)
	if form.DisplayOrder > 0 {
		st.DisplayOrder = form.DisplayOrder
	}
	return validateFiles(filestorage.ImageRule, form.Photo)
}

// Create stores a story with an optional photo
func (s *SuccessStoryService) Create(ctx context.Context, form dto.SuccessStoryForm) (int64, error) {
	st := &models.SuccessStory{IsActive: true}
	if err := applySuccessStoryForm(st, form); err != nil {
		return 0, err
	}

	photo, err := s.media.upload(ctx, filestorage.FolderSuccessStories, form.Photo, filestorage.ImageRule)
	if err != nil {
		return 0, err
	}
	st.PhotoURL = photo

	id, err := s.repo.Create(ctx, st)
	if err != nil {
		s.media.discard(ctx, photo)
		return 0, err
	}
	return id, nil
}

// Update replaces the fields of a story and optionally its photo
func (s *SuccessStoryService) Update(ctx context.Context, id int64, form dto.SuccessStoryForm) error {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := applySuccessStoryForm(st, form); err != nil {
		return err
	}

	oldPhoto := st.PhotoURL
	if st.PhotoURL, err = s.media.replace(ctx, filestorage.FolderSuccessStories, form.Photo, filestorage.ImageRule, oldPhoto); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, st); err != nil {
		s.media.discard(ctx, freshUploads([]string{oldPhoto}, []string{st.PhotoURL})...)
		return err
	}
	return nil
}

// Delete removes a story; its photo is queued for removal
func (s *SuccessStoryService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
