package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/pkg/apperrors"
	"github.com/yigit/clubsite/internal/pkg/filestorage"
	"github.com/yigit/clubsite/internal/pkg/helpers"
)

// ActivityRepository is the storage used by ActivityService
type ActivityRepository interface {
	Create(ctx context.Context, a *models.Activity, images []*models.ActivityImage) (int64, error)
	GetByID(ctx context.Context, id int64, activeOnly bool) (*models.Activity, error)
	List(ctx context.Context, f models.ActivityFilter) ([]*models.Activity, int64, error)
	Categories(ctx context.Context, activeOnly bool) ([]string, error)
	Update(ctx context.Context, a *models.Activity) error
	AddImages(ctx context.Context, activityID int64, images []*models.ActivityImage) error
	DeleteImage(ctx context.Context, activityID, imageID int64) error
	Delete(ctx context.Context, id int64) error
}

// ActivityQuery filters an activity listing
type ActivityQuery struct {
	Category string
	Search   string
	Year     int
	Page     int
	Limit    int
}

// ActivityService handles the activity gallery
type ActivityService struct {
	repo   ActivityRepository
	media  mediaUploads
	logger zerolog.Logger
}

// NewActivityService creates a new ActivityService
func NewActivityService(repo ActivityRepository, store filestorage.MediaStore, queue CleanupQueue, logger zerolog.Logger) *ActivityService {
	return &ActivityService{
		repo:   repo,
		media:  newMediaUploads(store, queue, logger),
		logger: logger,
	}
}

// List returns one page of activities; public listings only see active rows
func (s *ActivityService) List(ctx context.Context, q ActivityQuery, public bool) ([]dto.ActivityResponse, dto.PaginationInfo, error) {
	offset, size, pageNum := page(q.Page, q.Limit)
	items, total, err := s.repo.List(ctx, models.ActivityFilter{
		Category:   strings.TrimSpace(q.Category),
		Search:     strings.TrimSpace(q.Search),
		Year:       q.Year,
		ActiveOnly: public,
		Offset:     offset,
		Limit:      size,
	})
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return dto.NewActivityResponses(items), pagination(total, pageNum, size), nil
}

// Get returns one activity with its images
func (s *ActivityService) Get(ctx context.Context, id int64, public bool) (dto.ActivityResponse, error) {
	a, err := s.repo.GetByID(ctx, id, public)
	if err != nil {
		return dto.ActivityResponse{}, err
	}
	return dto.NewActivityResponse(a), nil
}

// Categories lists the distinct categories of public activities
func (s *ActivityService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx, true)
}

func applyActivityForm(a *models.Activity, form dto.ActivityForm) error {
	if err := requireFields(
		requiredField{"title", form.Title},
		requiredField{"category", form.Category},
		requiredField{"activityDate", form.ActivityDate},
	); err != nil {
		return err
	}

	date, err := helpers.ParseDate(form.ActivityDate)
	if err != nil {
		return apperrors.NewValidationError("activityDate must be a date (YYYY-MM-DD)")
	}

	a.Title = strings.TrimSpace(form.Title)
	a.Description = form.Description
	a.Category = strings.TrimSpace(form.Category)
	a.ActivityDate = date
	a.Location = strings.TrimSpace(form.Location)
	a.IsActive = boolOr(form.IsActive, a.IsActive)
	if form.DisplayOrder > 0 {
		a.DisplayOrder = form.DisplayOrder
	}
	return nil
}

// Create stores an activity, its cover and its gallery images. Fields and
// files are validated before anything is uploaded or written.
func (s *ActivityService) Create(ctx context.Context, form dto.ActivityForm) (int64, error) {
	a := &models.Activity{IsActive: true}
	if err := applyActivityForm(a, form); err != nil {
		return 0, err
	}
	if err := validateFiles(filestorage.ImageRule, append([]*multipart.FileHeader{form.CoverImage}, form.Images...)...); err != nil {
		return 0, err
	}

	cover, err := s.media.upload(ctx, filestorage.FolderActivities, form.CoverImage, filestorage.ImageRule)
	if err != nil {
		return 0, err
	}
	urls, err := s.media.uploadAll(ctx, filestorage.FolderActivities, form.Images, filestorage.ImageRule)
	if err != nil {
		s.media.discard(ctx, cover)
		return 0, err
	}

	a.CoverImageURL = cover

	id, err := s.repo.Create(ctx, a, toActivityImages(urls))
	if err != nil {
		s.media.discard(ctx, append(urls, cover)...)
		return 0, err
	}
	return id, nil
}

// Update replaces the fields of an activity and optionally its cover.
// Gallery images are managed through AddImages and DeleteImage.
func (s *ActivityService) Update(ctx context.Context, id int64, form dto.ActivityForm) error {
	a, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		return err
	}
	if err := applyActivityForm(a, form); err != nil {
		return err
	}
	if err := validateFiles(filestorage.ImageRule, form.CoverImage); err != nil {
		return err
	}

	oldCover := a.CoverImageURL
	if a.CoverImageURL, err = s.media.replace(ctx, filestorage.FolderActivities, form.CoverImage, filestorage.ImageRule, oldCover); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, a); err != nil {
		s.media.discard(ctx, freshUploads([]string{oldCover}, []string{a.CoverImageURL})...)
		return err
	}
	return nil
}

// AddImages appends gallery images to an activity
func (s *ActivityService) AddImages(ctx context.Context, id int64, files []*multipart.FileHeader) (int, error) {
	if len(files) == 0 {
		return 0, apperrors.NewCustomError(apperrors.ErrMediaRequired, "At least one image is required")
	}
	if err := validateFiles(filestorage.ImageRule, files...); err != nil {
		return 0, err
	}

	urls, err := s.media.uploadAll(ctx, filestorage.FolderActivities, files, filestorage.ImageRule)
	if err != nil {
		return 0, err
	}

	if err := s.repo.AddImages(ctx, id, toActivityImages(urls)); err != nil {
		s.media.discard(ctx, urls...)
		return 0, err
	}
	return len(urls), nil
}

// DeleteImage removes one gallery image
func (s *ActivityService) DeleteImage(ctx context.Context, activityID, imageID int64) error {
	return s.repo.DeleteImage(ctx, activityID, imageID)
}

// Delete removes an activity with its images
func (s *ActivityService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func toActivityImages(urls []string) []*models.ActivityImage {
	images := make([]*models.ActivityImage, 0, len(urls))
	for _, u := range urls {
		images = append(images, &models.ActivityImage{ImageURL: u})
	}
	return images
}
