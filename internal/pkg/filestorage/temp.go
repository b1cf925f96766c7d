package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"

	"github.com/yigit/clubsite/internal/pkg/logger"
)

// UploadViaTemp validates fh against rule, copies it to a temporary file under
// dir and uploads it from there. The temporary file is removed whatever the
// upload outcome.
func UploadViaTemp(ctx context.Context, store MediaStore, folder Folder, fh *multipart.FileHeader, rule UploadRule, dir string) (string, error) {
	mtype, err := detect(fh, rule)
	if err != nil {
		return "", err
	}
	name := storedName(fh.Filename, mtype)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(dir, "upload-*"+mtype.Extension())
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("path", tmp.Name()).Msg("Failed to remove temp upload")
		}
	}()

	size, err := io.Copy(tmp, src)
	if err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind temp file: %w", err)
	}

	return store.Upload(ctx, folder, name, tmp, size)
}
