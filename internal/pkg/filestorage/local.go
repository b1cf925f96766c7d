package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yigit/clubsite/internal/pkg/logger"
)

// LocalStorage keeps media on the local filesystem; the router serves basePath at the public base URL.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// BasePath returns the directory media is written to
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Upload writes r to basePath/folder under a unique name
func (ls *LocalStorage) Upload(ctx context.Context, folder Folder, originalName string, r io.Reader, size int64) (string, error) {
	if !folder.Valid() {
		return "", fmt.Errorf("unknown media folder %q", folder)
	}

	dir := filepath.Join(ls.basePath, string(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", folder, err)
	}

	name := ObjectName(originalName)
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Info().Str("folder", string(folder)).Str("name", name).Int64("size", size).Msg("Media stored locally")
	return ls.PublicURL(folder, name), nil
}

// Delete removes a stored file; a missing file counts as deleted
func (ls *LocalStorage) Delete(ctx context.Context, folder Folder, name string) error {
	if !folder.Valid() || name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid media path %s/%s", folder, name)
	}

	physicalPath := filepath.Join(ls.basePath, string(folder), name)
	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// PublicURL returns the URL an object is served from
func (ls *LocalStorage) PublicURL(folder Folder, name string) string {
	return joinURL(ls.baseURL, folder, name)
}
