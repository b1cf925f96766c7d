package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/pkg/apperrors"
	"github.com/yigit/clubsite/internal/pkg/richtext"
)

var jobNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

type applicationFixture struct {
	svc   *JobApplicationService
	repo  *mockJobApplicationRepo
	jobs  *mockJobPostRepo
	queue *mockCleanupRepo
	store *memoryStore
}

func newApplicationFixture(t *testing.T) applicationFixture {
	f := applicationFixture{
		repo:  new(mockJobApplicationRepo),
		jobs:  new(mockJobPostRepo),
		queue: new(mockCleanupRepo),
		store: newMemoryStore(),
	}
	f.svc = NewJobApplicationService(f.repo, f.jobs, f.store, f.queue, richtext.NewRenderer(), t.TempDir(), zerolog.Nop())
	f.svc.now = func() time.Time { return jobNow }
	return f
}

func (f applicationFixture) form(t *testing.T) dto.JobApplicationForm {
	return dto.JobApplicationForm{
		Name:   "Linus",
		Email:  "linus@club.test",
		Phone:  "+8801711111111",
		Resume: fileHeader(t, "cv.pdf", pdfBytes),
	}
}

func TestJobApplicationService_Apply(t *testing.T) {
	f := newApplicationFixture(t)
	f.jobs.On("GetByID", mock.Anything, int64(1)).
		Return(&models.JobPost{ID: 1, Status: models.JobPostActive}, nil).Once()
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(a *models.JobApplication) bool {
		return a.JobPostID == 1 &&
			a.Status == models.JobApplicationNew &&
			strings.HasPrefix(a.ResumeURL, testMediaBase+"/resumes/")
	})).Return(int64(11), nil).Once()

	id, err := f.svc.Apply(context.Background(), 1, f.form(t), "203.0.113.5")

	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.Len(t, f.store.stored(), 1)
	f.repo.AssertExpectations(t)
	f.queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestJobApplicationService_ApplyRejected(t *testing.T) {
	yesterday := jobNow.AddDate(0, 0, -1)

	tests := []struct {
		name    string
		job     *models.JobPost
		jobErr  error
		wantErr error
	}{
		{"missing post", nil, apperrors.ErrJobPostNotFound, apperrors.ErrJobPostNotFound},
		{"draft post", &models.JobPost{ID: 1, Status: models.JobPostDraft}, nil, apperrors.ErrJobPostNotFound},
		{"external apply url", &models.JobPost{ID: 1, Status: models.JobPostActive, ApplyURL: "https://jobs.example.com/42"}, nil, apperrors.ErrExternalApplication},
		{"closed post", &models.JobPost{ID: 1, Status: models.JobPostClosed}, nil, apperrors.ErrJobClosed},
		{"deadline passed", &models.JobPost{ID: 1, Status: models.JobPostActive, Deadline: &yesterday}, nil, apperrors.ErrJobClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newApplicationFixture(t)
			if tt.job != nil {
				f.jobs.On("GetByID", mock.Anything, int64(1)).Return(tt.job, nil).Once()
			} else {
				f.jobs.On("GetByID", mock.Anything, int64(1)).Return(nil, tt.jobErr).Once()
			}

			_, err := f.svc.Apply(context.Background(), 1, f.form(t), "")

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.store.stored(), "nothing may be uploaded")
			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestJobApplicationService_ApplyDeadlineDayStillOpen(t *testing.T) {
	f := newApplicationFixture(t)
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	f.jobs.On("GetByID", mock.Anything, int64(1)).
		Return(&models.JobPost{ID: 1, Status: models.JobPostActive, Deadline: &today}, nil).Once()
	f.repo.On("Create", mock.Anything, mock.Anything).Return(int64(2), nil).Once()

	_, err := f.svc.Apply(context.Background(), 1, f.form(t), "")
	assert.NoError(t, err)
}

func TestJobApplicationService_ApplyRequiresResume(t *testing.T) {
	f := newApplicationFixture(t)
	f.jobs.On("GetByID", mock.Anything, int64(1)).
		Return(&models.JobPost{ID: 1, Status: models.JobPostActive}, nil)

	form := f.form(t)
	form.Resume = nil
	_, err := f.svc.Apply(context.Background(), 1, form, "")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	form.Resume = fileHeader(t, "cv.png", pngBytes)
	_, err = f.svc.Apply(context.Background(), 1, form, "")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	assert.Empty(t, f.store.stored())
}

func TestJobApplicationService_ApplyUploadFailureWritesNothing(t *testing.T) {
	f := newApplicationFixture(t)
	f.store.failAt = 1
	f.jobs.On("GetByID", mock.Anything, int64(1)).
		Return(&models.JobPost{ID: 1, Status: models.JobPostActive}, nil).Once()

	_, err := f.svc.Apply(context.Background(), 1, f.form(t), "")

	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestJobApplicationService_ApplyCreateFailureDiscardsResume(t *testing.T) {
	f := newApplicationFixture(t)
	f.jobs.On("GetByID", mock.Anything, int64(1)).
		Return(&models.JobPost{ID: 1, Status: models.JobPostActive}, nil).Once()
	f.repo.On("Create", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down")).Once()
	f.queue.On("Enqueue", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := f.svc.Apply(context.Background(), 1, f.form(t), "")

	require.Error(t, err)
	assert.ElementsMatch(t, f.store.stored(), f.queue.queued())
	f.queue.AssertExpectations(t)
}

func TestJobPostService_GetPublicHidesInactive(t *testing.T) {
	repo := new(mockJobPostRepo)
	svc := NewJobPostService(repo, zerolog.Nop())

	for id, status := range map[int64]models.JobPostStatus{1: models.JobPostDraft, 2: models.JobPostClosed} {
		repo.On("GetByID", mock.Anything, id).Return(&models.JobPost{ID: id, Status: status}, nil).Once()

		_, err := svc.GetPublic(context.Background(), id)
		assert.ErrorIs(t, err, apperrors.ErrJobPostNotFound, string(status))
	}
}

func TestJobPostService_Create(t *testing.T) {
	repo := new(mockJobPostRepo)
	svc := NewJobPostService(repo, zerolog.Nop())

	valid := dto.JobPostRequest{
		Title:       " Backend Intern ",
		Company:     "Acme",
		Description: "Write Go",
		Deadline:    "2025-04-01",
	}

	t.Run("defaults to active", func(t *testing.T) {
		repo.On("Create", mock.Anything, mock.MatchedBy(func(j *models.JobPost) bool {
			return j.Title == "Backend Intern" &&
				j.Status == models.JobPostActive &&
				j.Deadline != nil && j.Deadline.Day() == 1
		})).Return(int64(5), nil).Once()

		id, err := svc.Create(context.Background(), valid)
		require.NoError(t, err)
		assert.Equal(t, int64(5), id)
	})

	t.Run("invalid status", func(t *testing.T) {
		req := valid
		req.Status = "archived"
		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("invalid deadline", func(t *testing.T) {
		req := valid
		req.Deadline = "next friday"
		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("script apply url", func(t *testing.T) {
		req := valid
		req.ApplyURL = "javascript:alert(1)"
		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("missing company", func(t *testing.T) {
		req := valid
		req.Company = "  "
		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	repo.AssertExpectations(t)
}

func TestJobPostService_UpdateKeepsDisplayOrder(t *testing.T) {
	repo := new(mockJobPostRepo)
	svc := NewJobPostService(repo, zerolog.Nop())

	repo.On("GetByID", mock.Anything, int64(3)).
		Return(&models.JobPost{ID: 3, Status: models.JobPostActive, DisplayOrder: 4}, nil).Once()
	repo.On("Update", mock.Anything, mock.MatchedBy(func(j *models.JobPost) bool {
		return j.DisplayOrder == 4 && j.Status == models.JobPostClosed
	})).Return(nil).Once()

	err := svc.Update(context.Background(), 3, dto.JobPostRequest{
		Title: "Intern", Company: "Acme", Description: "Go", Status: "closed",
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
