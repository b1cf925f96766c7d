package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/app/repositories"
	"github.com/yigit/clubsite/internal/pkg/apperrors"
	"github.com/yigit/clubsite/internal/pkg/filestorage"
	"github.com/yigit/clubsite/internal/pkg/helpers"
	"github.com/yigit/clubsite/internal/pkg/richtext"
)

// CareerGuidelineRepository is the guideline storage used by CareerService
type CareerGuidelineRepository interface {
	Create(ctx context.Context, g *models.CareerGuideline) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.CareerGuideline, error)
	List(ctx context.Context, f repositories.ContentFilter) ([]*models.CareerGuideline, int64, error)
	Update(ctx context.Context, g *models.CareerGuideline) error
	Delete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) (int64, error)
}

// InterviewTipRepository is the interview tip storage used by CareerService
type InterviewTipRepository interface {
	Create(ctx context.Context, t *models.InterviewTip) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.InterviewTip, error)
	List(ctx context.Context, f repositories.ContentFilter) ([]*models.InterviewTip, int64, error)
	Update(ctx context.Context, t *models.InterviewTip) error
	Delete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) (int64, error)
}

// CVTemplateRepository is the CV template storage used by CareerService
type CVTemplateRepository interface {
	Create(ctx context.Context, t *models.CVTemplate) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.CVTemplate, error)
	List(ctx context.Context, f repositories.ContentFilter) ([]*models.CVTemplate, int64, error)
	Update(ctx context.Context, t *models.CVTemplate) error
	Delete(ctx context.Context, id int64) error
	IncrementDownloads(ctx context.Context, id int64) (int64, string, error)
}

// CareerService handles career guidelines, interview tips and CV templates
type CareerService struct {
	guidelines CareerGuidelineRepository
	tips       InterviewTipRepository
	templates  CVTemplateRepository
	media      mediaUploads
	text       *richtext.Renderer
	logger     zerolog.Logger
}

// NewCareerService creates a new CareerService
func NewCareerService(
	guidelines CareerGuidelineRepository,
	tips InterviewTipRepository,
	templates CVTemplateRepository,
	store filestorage.MediaStore,
	queue CleanupQueue,
	text *richtext.Renderer,
	logger zerolog.Logger,
) *CareerService {
	return &CareerService{
		guidelines: guidelines,
		tips:       tips,
		templates:  templates,
		media:      newMediaUploads(store, queue, logger),
		text:       text,
		logger:     logger,
	}
}

// render converts markdown content; a render failure degrades to an empty body
func (s *CareerService) render(content string, id int64) string {
	out, err := s.text.Markdown(content)
	if err != nil {
		s.logger.Warn().Err(err).Int64("id", id).Msg("Failed to render content")
		return ""
	}
	return out
}

// ListGuidelines returns guidelines with their rendered body
func (s *CareerService) ListGuidelines(ctx context.Context, category string, public bool) ([]dto.CareerGuidelineResponse, error) {
	items, _, err := s.guidelines.List(ctx, repositories.ContentFilter{Category: strings.TrimSpace(category), ActiveOnly: public})
	if err != nil {
		return nil, err
	}
	out := make([]dto.CareerGuidelineResponse, 0, len(items))
	for _, g := range items {
		out = append(out, dto.CareerGuidelineResponse{
			CareerGuideline: g,
			ContentHTML:     s.render(g.Content, g.ID),
			FormattedDate:   helpers.FormatDisplayDate(g.CreatedAt),
		})
	}
	return out, nil
}

// RecordGuidelineView increments and returns the view counter
func (s *CareerService) RecordGuidelineView(ctx context.Context, id int64) (dto.ViewCountResponse, error) {
	views, err := s.guidelines.IncrementViews(ctx, id)
	if err != nil {
		return dto.ViewCountResponse{}, err
	}
	return dto.ViewCountResponse{ID: id, ViewCount: views}, nil
}

func applyGuidelineForm(g *models.CareerGuideline, form dto.CareerGuidelineForm) error {
	if err := requireFields(
		requiredField{"title", form.Title},
		requiredField{"content", form.Content},
	); err != nil {
		return err
	}
	g.Title = strings.TrimSpace(form.Title)
	g.Summary = form.Summary
	g.Content = form.Content
	g.Category = strings.TrimSpace(form.Category)
	g.IsActive = boolOr(form.IsActive, g.IsActive)
	if form.DisplayOrder > 0 {
		g.DisplayOrder = form.DisplayOrder
	}
	return validateGuidelineFiles(form)
}

func validateGuidelineFiles(form dto.CareerGuidelineForm) error {
	if err := validateFiles(filestorage.ImageRule, form.Thumbnail); err != nil {
		return err
	}
	return validateFiles(filestorage.PDFRule, form.Resource)
}

// CreateGuideline stores a guideline with its optional thumbnail and PDF
func (s *CareerService) CreateGuideline(ctx context.Context, form dto.CareerGuidelineForm) (int64, error) {
	g := &models.CareerGuideline{IsActive: true}
	if err := applyGuidelineForm(g, form); err != nil {
		return 0, err
	}

	thumb, err := s.media.upload(ctx, filestorage.FolderThumbnails, form.Thumbnail, filestorage.ImageRule)
	if err != nil {
		return 0, err
	}
	resource, err := s.media.upload(ctx, filestorage.FolderGuidelines, form.Resource, filestorage.PDFRule)
	if err != nil {
		s.media.discard(ctx, thumb)
		return 0, err
	}
	g.ThumbnailURL, g.ResourceURL = thumb, resource

	id, err := s.guidelines.Create(ctx, g)
	if err != nil {
		s.media.discard(ctx, thumb, resource)
		return 0, err
	}
	return id, nil
}

// UpdateGuideline replaces the fields of a guideline and optionally its files
func (s *CareerService) UpdateGuideline(ctx context.Context, id int64, form dto.CareerGuidelineForm) error {
	g, err := s.guidelines.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := applyGuidelineForm(g, form); err != nil {
		return err
	}

	before := []string{g.ThumbnailURL, g.ResourceURL}
	if g.ThumbnailURL, err = s.media.replace(ctx, filestorage.FolderThumbnails, form.Thumbnail, filestorage.ImageRule, g.ThumbnailURL); err != nil {
		return err
	}
	if g.ResourceURL, err = s.media.replace(ctx, filestorage.FolderGuidelines, form.Resource, filestorage.PDFRule, g.ResourceURL); err != nil {
		s.media.discard(ctx, freshUploads(before[:1], []string{g.ThumbnailURL})...)
		return err
	}

	if err := s.guidelines.Update(ctx, g); err != nil {
		s.media.discard(ctx, freshUploads(before, []string{g.ThumbnailURL, g.ResourceURL})...)
		return err
	}
	return nil
}

// DeleteGuideline removes a guideline; its files are queued for removal
func (s *CareerService) DeleteGuideline(ctx context.Context, id int64) error {
	return s.guidelines.Delete(ctx, id)
}

// ListInterviewTips returns tips with their rendered body
func (s *CareerService) ListInterviewTips(ctx context.Context, category string, public bool) ([]dto.InterviewTipResponse, error) {
	items, _, err := s.tips.List(ctx, repositories.ContentFilter{Category: strings.TrimSpace(category), ActiveOnly: public})
	if err != nil {
		return nil, err
	}
	out := make([]dto.InterviewTipResponse, 0, len(items))
	for _, t := range items {
		out = append(out, dto.InterviewTipResponse{
			InterviewTip:  t,
			ContentHTML:   s.render(t.Content, t.ID),
			FormattedDate: helpers.FormatDisplayDate(t.CreatedAt),
		})
	}
	return out, nil
}

// RecordInterviewTipView increments and returns the view counter
func (s *CareerService) RecordInterviewTipView(ctx context.Context, id int64) (dto.ViewCountResponse, error) {
	views, err := s.tips.IncrementViews(ctx, id)
	if err != nil {
		return dto.ViewCountResponse{}, err
	}
	return dto.ViewCountResponse{ID: id, ViewCount: views}, nil
}

func applyInterviewTipForm(t *models.InterviewTip, form dto.InterviewTipForm) error {
	if err := requireFields(
		requiredField{"title", form.Title},
		requiredField{"content", form.Content},
	); err != nil {
		return err
	}
	t.Title = strings.TrimSpace(form.Title)
	t.Content = form.Content
	t.Category = strings.TrimSpace(form.Category)
	t.IsActive = boolOr(form.IsActive, t.IsActive)
	if form.DisplayOrder > 0 {
		t.DisplayOrder = form.DisplayOrder
	}
	return validateFiles(filestorage.ImageRule, form.Thumbnail)
}

// CreateInterviewTip stores a tip with its optional thumbnail
func (s *CareerService) CreateInterviewTip(ctx context.Context, form dto.InterviewTipForm) (int64, error) {
	t := &models.InterviewTip{IsActive: true}
	if err := applyInterviewTipForm(t, form); err != nil {
		return 0, err
	}

	thumb, err := s.media.upload(ctx, filestorage.FolderThumbnails, form.Thumbnail, filestorage.ImageRule)
	if err != nil {
		return 0, err
	}
	t.ThumbnailURL = thumb

	id, err := s.tips.Create(ctx, t)
	if err != nil {
		s.media.discard(ctx, thumb)
		return 0, err
	}
	return id, nil
}

// UpdateInterviewTip replaces the fields of a tip and optionally its thumbnail
func (s *CareerService) UpdateInterviewTip(ctx context.Context, id int64, form dto.InterviewTipForm) error {
	t, err := s.tips.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := applyInterviewTipForm(t, form); err != nil {
		return err
	}

	oldThumb := t.ThumbnailURL
	if t.ThumbnailURL, err = s.media.replace(ctx, filestorage.FolderThumbnails, form.Thumbnail, filestorage.ImageRule, oldThumb); err != nil {
		return err
	}

	if err := s.tips.Update(ctx, t); err != nil {
		s.media.discard(ctx, freshUploads([]string{oldThumb}, []string{t.ThumbnailURL})...)
		return err
	}
	return nil
}

// DeleteInterviewTip removes a tip; its thumbnail is queued for removal
func (s *CareerService) DeleteInterviewTip(ctx context.Context, id int64) error {
	return s.tips.Delete(ctx, id)
}

// ListCVTemplates returns CV templates in display order
func (s *CareerService) ListCVTemplates(ctx context.Context, category string, public bool) ([]*models.CVTemplate, error) {
	items, _, err := s.templates.List(ctx, repositories.ContentFilter{Category: strings.TrimSpace(category), ActiveOnly: public})
	return items, err
}

// RecordCVTemplateDownload increments the download counter and returns the file to serve
func (s *CareerService) RecordCVTemplateDownload(ctx context.Context, id int64) (dto.DownloadCountResponse, error) {
	downloads, fileURL, err := s.templates.IncrementDownloads(ctx, id)
	if err != nil {
		return dto.DownloadCountResponse{}, err
	}
	return dto.DownloadCountResponse{ID: id, DownloadCount: downloads, FileURL: fileURL}, nil
}

func applyCVTemplateForm(t *models.CVTemplate, form dto.CVTemplateForm) error {
	if err := requireFields(requiredField{"title", form.Title}); err != nil {
		return err
	}
	t.Title = strings.TrimSpace(form.Title)
	t.Description = form.Description
	t.Category = strings.TrimSpace(form.Category)
	t.IsActive = boolOr(form.IsActive, t.IsActive)
	if form.DisplayOrder > 0 {
		t.DisplayOrder = form.DisplayOrder
	}
	if err := validateFiles(filestorage.PDFRule, form.File); err != nil {
		return err
	}
	return validateFiles(filestorage.ImageRule, form.Thumbnail)
}

// CreateCVTemplate stores a template. The PDF is the content itself, so a
// missing file or a failed upload aborts the operation.
func (s *CareerService) CreateCVTemplate(ctx context.Context, form dto.CVTemplateForm) (int64, error) {
	t := &models.CVTemplate{IsActive: true}
	if err := applyCVTemplateForm(t, form); err != nil {
		return 0, err
	}
	if form.File == nil {
		return 0, apperrors.NewCustomError(apperrors.ErrMediaRequired, "PDF file is required")
	}

	fileURL, err := s.media.upload(ctx, filestorage.FolderResources, form.File, filestorage.PDFRule)
	if err != nil {
		return 0, err
	}
	thumb, err := s.media.upload(ctx, filestorage.FolderThumbnails, form.Thumbnail, filestorage.ImageRule)
	if err != nil {
		s.media.discard(ctx, fileURL)
		return 0, err
	}
	t.FileURL, t.ThumbnailURL = fileURL, thumb

	id, err := s.templates.Create(ctx, t)
	if err != nil {
		s.media.discard(ctx, fileURL, thumb)
		return 0, err
	}
	return id, nil
}

// UpdateCVTemplate replaces the fields of a template and optionally its files
func (s *CareerService) UpdateCVTemplate(ctx context.Context, id int64, form dto.CVTemplateForm) error {
	t, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := applyCVTemplateForm(t, form); err != nil {
		return err
	}

	before := []string{t.FileURL, t.ThumbnailURL}
	if t.FileURL, err = s.media.replace(ctx, filestorage.FolderResources, form.File, filestorage.PDFRule, t.FileURL); err != nil {
		return err
	}
	if t.ThumbnailURL, err = s.media.replace(ctx, filestorage.FolderThumbnails, form.Thumbnail, filestorage.ImageRule, t.ThumbnailURL); err != nil {
		s.media.discard(ctx, freshUploads(before[:1], []string{t.FileURL})...)
		return err
	}

	if err := s.templates.Update(ctx, t); err != nil {
		s.media.discard(ctx, freshUploads(before, []string{t.FileURL, t.ThumbnailURL})...)
		return err
	}
	return nil
}

// DeleteCVTemplate removes a template; its files are queued for removal
func (s *CareerService) DeleteCVTemplate(ctx context.Context, id int64) error {
	return s.templates.Delete(ctx, id)
}
