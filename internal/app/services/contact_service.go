package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/pkg/email"
	"github.com/yigit/clubsite/internal/pkg/richtext"
)

// ContactRepository is the storage used by ContactService
type ContactRepository interface {
	Create(ctx context.Context, m *models.ContactMessage) (int64, error)
	List(ctx context.Context, status string, offset uint64, limit int) ([]*models.ContactMessage, int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.ContactStatus) error
	Delete(ctx context.Context, id int64) error
}

// ContactService handles contact form messages
type ContactService struct {
	repo     ContactRepository
	notifier email.Notifier
	text     *richtext.Renderer
	logger   zerolog.Logger
}

// NewContactService creates a new ContactService
func NewContactService(repo ContactRepository, notifier email.Notifier, text *richtext.Renderer, logger zerolog.Logger) *ContactService {
	return &ContactService{
		repo:     repo,
		notifier: notifier,
		text:     text,
		logger:   logger,
	}
}

// Submit stores a new message and notifies the club mailbox.
// A failed notification is logged and does not fail the submission.
func (s *ContactService) Submit(ctx context.Context, req dto.CreateContactRequest, ip string) (int64, error) {
	m := &models.ContactMessage{
		Name:      req.Name,
		Email:     strings.TrimSpace(req.Email),
		Subject:   req.Subject,
		Message:   req.Message,
		Status:    models.ContactNew,
		IPAddress: ip,
	}
	cleanAll(s.text, &m.Name, &m.Subject, &m.Message)

	if err := requireFields(
		requiredField{"name", m.Name},
		requiredField{"email", m.Email},
		requiredField{"message", m.Message},
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

	if s.notifier != nil {
		if err := s.notifier.NotifyContactMessage(context.WithoutCancel(ctx), m.Name, m.Email, m.Subject, m.Message); err != nil {
			s.logger.Warn().Err(err).Int64("contactID", id).Msg("Contact notification failed")
		}
	}
	return id, nil
}

// List returns one page of messages, optionally filtered by status
func (s *ContactService) List(ctx context.Context, status string, pageNum, limit int) ([]*models.ContactMessage, dto.PaginationInfo, error) {
	filter, err := statusFilter(status, models.ParseContactStatus)
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

// UpdateStatus applies a moderation status
func (s *ContactService) UpdateStatus(ctx context.Context, id int64, raw string) (models.ContactStatus, error) {
	status, err := models.ParseContactStatus(raw)
	if err != nil {
		return "", invalidStatus(err)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return "", err
	}
	return status, nil
}

// Delete removes a message
func (s *ContactService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
