package services

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/rs/zerolog"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/pkg/apperrors"
	"github.com/yigit/clubsite/internal/pkg/filestorage"
	"github.com/yigit/clubsite/internal/pkg/helpers"
)

// CleanupQueue records media URLs that are no longer referenced by any row
type CleanupQueue interface {
	Enqueue(ctx context.Context, urls ...string) error
}

// mediaUploads stores admin uploads and takes them back when the row write fails
type mediaUploads struct {
	store  filestorage.MediaStore
	queue  CleanupQueue
	logger zerolog.Logger
}

func newMediaUploads(store filestorage.MediaStore, queue CleanupQueue, logger zerolog.Logger) mediaUploads {
	return mediaUploads{store: store, queue: queue, logger: logger}
}

// validateFiles checks every present file before anything is uploaded
func validateFiles(rule filestorage.UploadRule, files ...*multipart.FileHeader) error {
	for _, fh := range files {
		if fh == nil {
			continue
		}
		if _, err := filestorage.ValidateUpload(fh, rule); err != nil {
			return err
		}
	}
	return nil
}

// upload stores fh in folder. A nil header yields an empty URL.
// Store failures are reported as ErrMediaUpload.
func (m mediaUploads) upload(ctx context.Context, folder filestorage.Folder, fh *multipart.FileHeader, rule filestorage.UploadRule) (string, error) {
	if fh == nil {
		return "", nil
	}

	url, err := filestorage.UploadFile(ctx, m.store, folder, fh, rule)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidationFailed) {
			return "", err
		}
		m.logger.Error().Err(err).Str("folder", string(folder)).Str("file", fh.Filename).Msg("Media upload failed")
		return "", apperrors.ErrMediaUpload
	}
	return url, nil
}

// discard queues uploads whose row was never written
func (m mediaUploads) discard(ctx context.Context, urls ...string) {
	if len(urls) == 0 {
		return
	}
	if err := m.queue.Enqueue(context.WithoutCancel(ctx), urls...); err != nil {
		m.logger.Error().Err(err).Strs("urls", urls).Msg("Failed to queue orphaned uploads")
	}
}

// page converts a 1-based page request into repository offsets
func page(pageNum, limit int) (offset uint64, size int, normalized int) {
	offset, size = helpers.CalculateOffsetLimit(pageNum, limit)
	return offset, size, helpers.ClampPage(pageNum)
}

func pagination(total int64, pageNum, limit int) dto.PaginationInfo {
	return dto.NewPaginationInfo(total, pageNum, limit)
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// uploadAll stores every file in folder. On the first failure the files
// already stored are discarded.
func (m mediaUploads) uploadAll(ctx context.Context, folder filestorage.Folder, files []*multipart.FileHeader, rule filestorage.UploadRule) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		if fh == nil {
			continue
		}
		url, err := m.upload(ctx, folder, fh, rule)
		if err != nil {
			m.discard(ctx, urls...)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// replace uploads fh as the successor of current. Store failures keep current
// and are only logged; validation failures are returned.
func (m mediaUploads) replace(ctx context.Context, folder filestorage.Folder, fh *multipart.FileHeader, rule filestorage.UploadRule, current string) (string, error) {
	if fh == nil {
		return current, nil
	}
	url, err := m.upload(ctx, folder, fh, rule)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidationFailed) {
			return "", err
		}
		m.logger.Warn().Str("folder", string(folder)).Str("current", current).Msg("Keeping existing media after failed replacement")
		return current, nil
	}
	return url, nil
}

// freshUploads returns the entries of after that were not already stored in before
func freshUploads(before, after []string) []string {
	var out []string
	for i, u := range after {
		if u != "" && (i >= len(before) || before[i] != u) {
			out = append(out, u)
		}
	}
	return out
}
