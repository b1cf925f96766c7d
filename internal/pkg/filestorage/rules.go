package filestorage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/yigit/clubsite/internal/pkg/apperrors"
)

// UploadRule restricts the content type and size of an upload
type UploadRule struct {
	Label        string
	MaxSize      int64
	AllowedTypes []string
}

var (
	// ImageRule covers cover images, photos and thumbnails
	ImageRule = UploadRule{
		Label:        "Image",
		MaxSize:      5 << 20,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
	}

	// PDFRule covers CV templates and guideline resources
	PDFRule = UploadRule{
		Label:        "PDF",
		MaxSize:      10 << 20,
		AllowedTypes: []string{"application/pdf"},
	}

	// ResumeRule covers job application résumés
	ResumeRule = UploadRule{
		Label:   "Resume",
		MaxSize: 5 << 20,
		AllowedTypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
	}
)

// ValidateUpload checks fh against rule and returns the sniffed content type.
// The client supplied Content-Type header is ignored.
func ValidateUpload(fh *multipart.FileHeader, rule UploadRule) (string, error) {
	mtype, err := detect(fh, rule)
	if err != nil {
		return "", err
	}
	return mtype.String(), nil
}

// detect sniffs fh and returns the allowed type it matched
func detect(fh *multipart.FileHeader, rule UploadRule) (*mimetype.MIME, error) {
	if fh == nil || fh.Size == 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrMediaRequired,
			fmt.Sprintf("%s file is required", rule.Label))
	}

	if rule.MaxSize > 0 && fh.Size > rule.MaxSize {
		return nil, apperrors.NewCustomError(apperrors.ErrFileTooLarge,
			fmt.Sprintf("%s must be at most %s (got %s)", rule.Label,
				humanize.IBytes(uint64(rule.MaxSize)), humanize.IBytes(uint64(fh.Size))))
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to detect file type: %w", err)
	}

	matched := allowed(mtype, rule.AllowedTypes)
	if matched == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrUnsupportedFileType,
			fmt.Sprintf("Unsupported %s type %s; allowed: %s", strings.ToLower(rule.Label),
				mtype.String(), strings.Join(rule.AllowedTypes, ", ")))
	}
	return matched, nil
}

// allowed returns the first type in mtype's ancestry that the rule accepts
func allowed(mtype *mimetype.MIME, types []string) *mimetype.MIME {
	for m := mtype; m != nil; m = m.Parent() {
		for _, t := range types {
			if m.Is(t) {
				return m
			}
		}
	}
	return nil
}

// storedName keeps the client's base name for metadata but swaps its
// extension for the one belonging to the sniffed type
func storedName(clientName string, mtype *mimetype.MIME) string {
	base := filepath.Base(clientName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = "upload"
	}
	return base + mtype.Extension()
}

// UploadFile validates fh against rule and stores it in folder under the
// extension of its sniffed type
func UploadFile(ctx context.Context, store MediaStore, folder Folder, fh *multipart.FileHeader, rule UploadRule) (string, error) {
	mtype, err := detect(fh, rule)
	if err != nil {
		return "", err
	}

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	return store.Upload(ctx, folder, storedName(fh.Filename, mtype), file, fh.Size)
}
