package storage

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const MaxImageSize = 5 * 1024 * 1024 // 5MB

var (
	ErrUnsupportedImage = errors.New("only jpg, jpeg, png, webp and gif images are allowed")
	ErrImageTooLarge    = errors.New("image too large (max 5MB)")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// ImageStore persists an uploaded image and returns the URL it is served from
type ImageStore interface {
	Save(ctx context.Context, folder string, file *multipart.FileHeader) (string, error)
}

// ValidateImage checks extension and size before anything is stored
func ValidateImage(file *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return ErrUnsupportedImage
	}
	if file.Size > MaxImageSize {
		return ErrImageTooLarge
	}
	return nil
}
