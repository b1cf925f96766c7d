package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubsite/internal/app/models"
)

func TestMediaCleanupService_Sweep(t *testing.T) {
	repo := new(mockCleanupRepo)
	store := newMemoryStore()
	store.objects["activities/a.png"] = pngBytes
	store.objects["resumes/b.pdf"] = pdfBytes
	store.deleteErrs["resumes/b.pdf"] = errors.New("remote unavailable")

	svc := NewMediaCleanupService(repo, store, MediaCleanupConfig{
		BatchSize:   10,
		MaxAttempts: 3,
		ClaimLease:  time.Minute,
		BaseURL:     testMediaBase,
	}, zerolog.Nop())

	repo.On("ClaimPending", mock.Anything, 3, 10, time.Minute).Return([]*models.MediaCleanupTask{
		{ID: 1, URL: testMediaBase + "/activities/a.png"},
		{ID: 2, URL: "https://elsewhere.test/uploads/activities/c.png"},
		{ID: 3, URL: testMediaBase + "/resumes/b.pdf", Attempts: 1},
	}, nil).Once()
	repo.On("Delete", mock.Anything, int64(1)).Return(nil).Once()
	repo.On("Delete", mock.Anything, int64(2)).Return(nil).Once()
	repo.On("MarkFailed", mock.Anything, int64(3), "remote unavailable").Return(nil).Once()

	settled, err := svc.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, settled)
	assert.NotContains(t, store.objects, "activities/a.png")
	assert.Contains(t, store.objects, "resumes/b.pdf")
	repo.AssertExpectations(t)
}

func TestMediaCleanupService_SweepListFailure(t *testing.T) {
	repo := new(mockCleanupRepo)
	svc := NewMediaCleanupService(repo, newMemoryStore(), MediaCleanupConfig{BaseURL: testMediaBase}, zerolog.Nop())

	repo.On("ClaimPending", mock.Anything, 5, 50, 10*time.Minute).Return(nil, errors.New("db down")).Once()

	_, err := svc.Sweep(context.Background())
	assert.Error(t, err)
}

func TestMediaCleanupService_RunStopsOnCancel(t *testing.T) {
	repo := new(mockCleanupRepo)
	repo.On("ClaimPending", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*models.MediaCleanupTask{}, nil).Maybe()

	svc := NewMediaCleanupService(repo, newMemoryStore(), MediaCleanupConfig{
		Interval: 5 * time.Millisecond,
		BaseURL:  testMediaBase,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}
