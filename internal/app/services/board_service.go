package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/pkg/filestorage"
	"github.com/yigit/clubsite/internal/pkg/helpers"
)

// BoardRepository is the storage used by BoardService
type BoardRepository interface {
	CreateCategory(ctx context.Context, c *models.BoardCategory) (int64, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]*models.BoardCategory, error)
	GetCategory(ctx context.Context, id int64) (*models.BoardCategory, error)
	UpdateCategory(ctx context.Context, c *models.BoardCategory) error
	DeleteCategory(ctx context.Context, id int64) error
	CreateMember(ctx context.Context, m *models.BoardMember) (int64, error)
	GetMember(ctx context.Context, id int64) (*models.BoardMember, error)
	ListMembers(ctx context.Context, categoryIDs []int64, activeOnly bool) ([]*models.BoardMember, error)
	UpdateMember(ctx context.Context, m *models.BoardMember) error
	DeleteMember(ctx context.Context, id int64) error
}

// BoardService handles the executive board
type BoardService struct {
	repo   BoardRepository
	media  mediaUploads
	logger zerolog.Logger
}

// NewBoardService creates a new BoardService
func NewBoardService(repo BoardRepository, store filestorage.MediaStore, queue CleanupQueue, logger zerolog.Logger) *BoardService {
	return &BoardService{
		repo:   repo,
		media:  newMediaUploads(store, queue, logger),
		logger: logger,
	}
}

// PublicBoard returns the active categories with their active members grouped
// under them. A non-empty year keeps only categories labelled with that year.
func (s *BoardService) PublicBoard(ctx context.Context, year string) ([]dto.BoardCategoryResponse, error) {
	categories, err := s.repo.ListCategories(ctx, true)
	if err != nil {
		return nil, err
	}

	year = strings.TrimSpace(year)
	if year != "" {
		filtered := make([]*models.BoardCategory, 0, len(categories))
		for _, c := range categories {
			if _, y := helpers.SplitNameYear(c.Name); y == year {
				filtered = append(filtered, c)
			}
		}
		categories = filtered
	}
	if len(categories) == 0 {
		return []dto.BoardCategoryResponse{}, nil
	}

	ids := make([]int64, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	members, err := s.repo.ListMembers(ctx, ids, true)
	if err != nil {
		return nil, err
	}
	return dto.GroupBoard(categories, members), nil
}

// ListCategories returns every category with its member count
func (s *BoardService) ListCategories(ctx context.Context) ([]*models.BoardCategory, error) {
	return s.repo.ListCategories(ctx, false)
}

// CreateCategory stores a category
func (s *BoardService) CreateCategory(ctx context.Context, req dto.BoardCategoryRequest) (int64, error) {
	if err := requireFields(requiredField{"name", req.Name}); err != nil {
		return 0, err
	}
	return s.repo.CreateCategory(ctx, &models.BoardCategory{
		Name:         strings.TrimSpace(req.Name),
		DisplayOrder: req.DisplayOrder,
		IsActive:     boolOr(req.IsActive, true),
	})
}

// UpdateCategory replaces the fields of a category
func (s *BoardService) UpdateCategory(ctx context.Context, id int64, req dto.BoardCategoryRequest) error {
	if err := requireFields(requiredField{"name", req.Name}); err != nil {
		return err
	}
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	c.Name = strings.TrimSpace(req.Name)
	c.IsActive = boolOr(req.IsActive, c.IsActive)
	if req.DisplayOrder > 0 {
		c.DisplayOrder = req.DisplayOrder
	}
	return s.repo.UpdateCategory(ctx, c)
}

// DeleteCategory removes a category that has no members
func (s *BoardService) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}

// ListMembers returns the members of one category, or of all when categoryID is zero
func (s *BoardService) ListMembers(ctx context.Context, categoryID int64) ([]*models.BoardMember, error) {
	var ids []int64
	if categoryID > 0 {
		ids = []int64{categoryID}
	}
	return s.repo.ListMembers(ctx, ids, false)
}

func applyBoardMemberForm(m *models.BoardMember, form dto.BoardMemberForm) error {
	if err := requireFields(
		requiredField{"name", form.Name},
		requiredField{"position", form.Position},
	); err != nil {
		return err
	}
	if err := checkLink("linkedinUrl", strings.TrimSpace(form.LinkedInURL)); err != nil {
		return err
	}
	m.CategoryID = form.CategoryID
	m.Name = strings.TrimSpace(form.Name)
	m.Position = strings.TrimSpace(form.Position)
	m.Email = strings.TrimSpace(form.Email)
	m.LinkedInURL = strings.TrimSpace(form.LinkedInURL)
	m.Bio = form.Bio
	m.IsActive = boolOr(form.IsActive, m.IsActive)
	if form.DisplayOrder > 0 {
		m.DisplayOrder = form.DisplayOrder
	}
	return nil
}

// CreateMember stores a board member with an optional photo
func (s *BoardService) CreateMember(ctx context.Context, form dto.BoardMemberForm) (int64, error) {
	m := &models.BoardMember{IsActive: true}
	if err := applyBoardMemberForm(m, form); err != nil {
		return 0, err
	}
	if err := validateFiles(filestorage.ImageRule, form.Photo); err != nil {
		return 0, err
	}
	if _, err := s.repo.GetCategory(ctx, m.CategoryID); err != nil {
		return 0, err
	}

	photo, err := s.media.upload(ctx, filestorage.FolderExecutives, form.Photo, filestorage.ImageRule)
	if err != nil {
		return 0, err
	}
	m.PhotoURL = photo

	id, err := s.repo.CreateMember(ctx, m)
	if err != nil {
		s.media.discard(ctx, photo)
		return 0, err
	}
	return id, nil
}

// UpdateMember replaces the fields of a member and optionally its photo
func (s *BoardService) UpdateMember(ctx context.Context, id int64, form dto.BoardMemberForm) error {
	m, err := s.repo.GetMember(ctx, id)
	if err != nil {
		return err
	}
	if err := applyBoardMemberForm(m, form); err != nil {
		return err
	}
	if err := validateFiles(filestorage.ImageRule, form.Photo); err != nil {
		return err
	}

	oldPhoto := m.PhotoURL
	if m.PhotoURL, err = s.media.replace(ctx, filestorage.FolderExecutives, form.Photo, filestorage.ImageRule, oldPhoto); err != nil {
		return err
	}

	if err := s.repo.UpdateMember(ctx, m); err != nil {
		s.media.discard(ctx, freshUploads([]string{oldPhoto}, []string{m.PhotoURL})...)
		return err
	}
	return nil
}

// DeleteMember removes a member; its photo is queued for removal
func (s *BoardService) DeleteMember(ctx context.Context, id int64) error {
	return s.repo.DeleteMember(ctx, id)
}
