package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/pkg/richtext"
)

// MembershipRepository is the storage used by MembershipService
type MembershipRepository interface {
	Create(ctx context.Context, m *models.MembershipApplication) (int64, error)
	List(ctx context.Context, status string, offset uint64, limit int) ([]*models.MembershipApplication, int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.MembershipStatus) error
	Delete(ctx context.Context, id int64) error
}

// MembershipService handles membership applications
type MembershipService struct {
	repo   MembershipRepository
	text   *richtext.Renderer
	logger zerolog.Logger
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(repo MembershipRepository, text *richtext.Renderer, logger zerolog.Logger) *MembershipService {
	return &MembershipService{
		repo:   repo,
		text:   text,
		logger: logger,
	}
}

// Submit stores a new application with status new
func (s *MembershipService) Submit(ctx context.Context, req dto.CreateMembershipRequest, ip string) (int64, error) {
	m := &models.MembershipApplication{
		Name:       req.Name,
		Email:      strings.TrimSpace(req.Email),
		StudentID:  req.StudentID,
		Department: req.Department,
		Batch:      req.Batch,
		Phone:      strings.TrimSpace(req.Phone),
		WhyJoin:    req.WhyJoin,
		Status:     models.MembershipNew,
		IPAddress:  ip,
	}
	cleanAll(s.text, &m.Name, &m.StudentID, &m.Department, &m.Batch, &m.WhyJoin)

	if err := requireFields(
		requiredField{"name", m.Name},
		requiredField{"email", m.Email},
		requiredField{"studentId", m.StudentID},
		requiredField{"department", m.Department},
		requiredField{"batch", m.Batch},
		requiredField{"phone", m.Phone},
	); err != nil {
		return 0, err
	}
	if err := checkSender(m.Name, m.Email); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, m)
	if err != nil {
		return 0, err
	}

	s.logger.Info().Int64("membershipID", id).Str("ip", ip).Msg("Membership application received")
	return id, nil
}

// List returns one page of applications, optionally filtered by status
func (s *MembershipService) List(ctx context.Context, status string, pageNum, limit int) ([]*models.MembershipApplication, dto.PaginationInfo, error) {
	filter, err := statusFilter(status, models.ParseMembershipStatus)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	offset, size, pageNum := page(pageNum, limit)
	items, total, err := s.repo.List(ctx, filter, offset, size)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return items, pagination(total, pageNum, size), nil
}

// UpdateStatus applies a moderation status; values outside the enum are rejected
func (s *MembershipService) UpdateStatus(ctx context.Context, id int64, raw string) (models.MembershipStatus, error) {
	status, err := models.ParseMembershipStatus(raw)
	if err != nil {
		return "", invalidStatus(err)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return "", err
	}
	return status, nil
}

// Delete removes an application
func (s *MembershipService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
