// Package storage keeps uploaded catalog images on local disk under the public uploads path.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const PublicPrefix = "/uploads"

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrInvalidFolder   = errors.New("invalid upload folder")
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedFolders = map[string]bool{
	"menu":       true,
	"categories": true,
	"banners":    true,
	"gallery":    true,
}

type ImageStore struct {
	dir     string
	baseURL string
	now     func() time.Time
}

// NewImageStore stores files under dir and builds URLs as baseURL + /uploads/<folder>/<name>.
func NewImageStore(dir, baseURL string) *ImageStore {
	return &ImageStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

func (s *ImageStore) Dir() string { return s.dir }

// Save writes the upload into folder and returns its public URL.
func (s *ImageStore) Save(fh *multipart.FileHeader, folder string) (string, error) {
	if !allowedFolders[folder] {
		return "", ErrInvalidFolder
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", ErrUnsupportedType
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	targetDir := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	name := fmt.Sprintf("%d_%s%s", s.now().Unix(), uuid.NewString()[:8], ext)
	dst, err := os.Create(filepath.Join(targetDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return fmt.Sprintf("%s%s/%s/%s", s.baseURL, PublicPrefix, folder, name), nil
}

// Remove deletes the file behind a URL returned by Save. URLs pointing elsewhere are ignored.
func (s *ImageStore) Remove(url string) error {
	rel := strings.TrimPrefix(url, s.baseURL)
	if !strings.HasPrefix(rel, PublicPrefix+"/") {
		return nil
	}
	rel = strings.TrimPrefix(rel, PublicPrefix+"/")
	path := filepath.Join(s.dir, filepath.FromSlash(rel))
	if !strings.HasPrefix(path, filepath.Clean(s.dir)+string(os.PathSeparator)) {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
