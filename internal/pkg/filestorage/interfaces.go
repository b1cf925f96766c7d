package filestorage

import (
	"context"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Folder is a top level prefix in the media store
type Folder string

const (
	FolderActivities     Folder = "activities"
	FolderExecutives     Folder = "executives"
	FolderResources      Folder = "resources"
	FolderGuidelines     Folder = "guidelines"
	FolderThumbnails     Folder = "thumbnails"
	FolderResumes        Folder = "resumes"
	FolderSuccessStories Folder = "success-stories"
)

var folders = map[Folder]struct{}{
	FolderActivities:     {},
	FolderExecutives:     {},
	FolderResources:      {},
	FolderGuidelines:     {},
	FolderThumbnails:     {},
	FolderResumes:        {},
	FolderSuccessStories: {},
}

// Valid reports whether f is one of the known folders
func (f Folder) Valid() bool {
	_, ok := folders[f]
	return ok
}

// MediaStore uploads and removes blobs that are referenced by URL from database rows.
// Stored objects are addressed as {public_base_url}/{folder}/{name}.
type MediaStore interface {
	// Upload stores r under a fresh unique name inside folder and returns its public URL
	Upload(ctx context.Context, folder Folder, originalName string, r io.Reader, size int64) (string, error)

	// Delete removes folder/name; a missing object is not an error
	Delete(ctx context.Context, folder Folder, name string) error

	// PublicURL returns the URL an object is served from
	PublicURL(folder Folder, name string) string
}

var safeExt = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// ObjectName generates a collision free object name keeping the lowercased
// extension when it is a plain alphanumeric one
func ObjectName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !safeExt.MatchString(ext) {
		ext = ""
	}
	return uuid.New().String() + ext
}

func joinURL(baseURL string, folder Folder, name string) string {
	return strings.TrimRight(baseURL, "/") + "/" + string(folder) + "/" + name
}

// ParseObjectURL inverts the public URL layout. It reports false for URLs that
// were not produced under baseURL or that do not name a known folder.
func ParseObjectURL(baseURL, rawURL string) (Folder, string, bool) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", "", false
	}
	target, err := url.Parse(rawURL)
	if err != nil {
		return "", "", false
	}
	if !strings.EqualFold(base.Host, target.Host) || base.Scheme != target.Scheme {
		return "", "", false
	}

	rest, ok := strings.CutPrefix(target.Path, base.Path+"/")
	if !ok {
		return "", "", false
	}

	folder, name := path.Split(rest)
	f := Folder(strings.TrimSuffix(folder, "/"))
	if !f.Valid() || name == "" || name == "." || name == ".." {
		return "", "", false
	}
	return f, name, true
}
