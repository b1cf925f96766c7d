package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/pkg/filestorage"
)

// MediaCleanupRepository is the queue storage used by MediaCleanupService
type MediaCleanupRepository interface {
	ClaimPending(ctx context.Context, maxAttempts, limit int, lease time.Duration) ([]*models.MediaCleanupTask, error)
	Delete(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
}

// MediaCleanupConfig tunes the sweeper
type MediaCleanupConfig struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
	// ClaimLease is how long a claimed task is hidden from other sweepers
	ClaimLease time.Duration
	// BaseURL is the public base URL of the media store
	BaseURL string
}

// MediaCleanupService removes blobs whose owning row was deleted or now
// points at a replacement
type MediaCleanupService struct {
	repo   MediaCleanupRepository
	store  filestorage.MediaStore
	config MediaCleanupConfig
	logger zerolog.Logger
}

// NewMediaCleanupService creates a new MediaCleanupService
func NewMediaCleanupService(repo MediaCleanupRepository, store filestorage.MediaStore, config MediaCleanupConfig, logger zerolog.Logger) *MediaCleanupService {
	if config.Interval <= 0 {
		config.Interval = 5 * time.Minute
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 5
	}
	if config.ClaimLease <= 0 {
		config.ClaimLease = 10 * time.Minute
	}
	return &MediaCleanupService{
		repo:   repo,
		store:  store,
		config: config,
		logger: logger,
	}
}

// Run sweeps on every tick until ctx is cancelled
func (s *MediaCleanupService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.config.Interval).Msg("Media cleanup sweeper started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Media cleanup sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error().Err(err).Msg("Media cleanup sweep failed")
			}
		}
	}
}

// Sweep processes one batch of the queue and returns how many rows it settled
func (s *MediaCleanupService) Sweep(ctx context.Context) (int, error) {
	tasks, err := s.repo.ClaimPending(ctx, s.config.MaxAttempts, s.config.BatchSize, s.config.ClaimLease)
	if err != nil {
		return 0, err
	}

	settled := 0
	for _, task := range tasks {
		if ctx.Err() != nil {
			return settled, ctx.Err()
		}

		folder, name, ok := filestorage.ParseObjectURL(s.config.BaseURL, task.URL)
		if !ok {
			s.logger.Warn().Str("url", task.URL).Msg("Dropping media cleanup task outside the media store")
		} else if err := s.store.Delete(ctx, folder, name); err != nil {
			s.logger.Warn().Err(err).Str("url", task.URL).Int("attempts", task.Attempts+1).Msg("Media removal failed")
			if err := s.repo.MarkFailed(ctx, task.ID, err.Error()); err != nil {
				return settled, err
			}
			continue
		}

		if err := s.repo.Delete(ctx, task.ID); err != nil {
			return settled, err
		}
		settled++
	}

	if settled > 0 {
		s.logger.Debug().Int("removed", settled).Msg("Media cleanup sweep finished")
	}
	return settled, nil
}
