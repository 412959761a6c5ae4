// Package storage uploads user images to object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/starbite-api/internal/config"
)

// ErrUploadsDisabled is returned when images are submitted but no storage is configured.
var ErrUploadsDisabled = errors.New("image uploads are not configured")

var acceptedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

// Image is a single uploaded file.
type Image struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Limits bounds what a single request may upload.
type Limits struct {
	MaxImages    int
	MaxImageSize int64
}

// ImageUploader stores images and returns their public URLs in input order.
type ImageUploader interface {
	Upload(ctx context.Context, images []Image) ([]string, error)
}

// ValidationError describes a rejected image.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks count, type and size of images.
func Validate(images []Image, limits Limits) error {
	if limits.MaxImages > 0 && len(images) > limits.MaxImages {
		return &ValidationError{Field: "images", Message: fmt.Sprintf("at most %d images allowed", limits.MaxImages)}
	}
	for _, img := range images {
		contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(img.ContentType, ";", 2)[0]))
		if _, ok := acceptedContentTypes[contentType]; !ok {
			return &ValidationError{Field: img.Name, Message: "invalid file type, only JPEG, JPG, PNG and webp are allowed"}
		}
		if limits.MaxImageSize > 0 && img.Size > limits.MaxImageSize {
			return &ValidationError{Field: img.Name, Message: fmt.Sprintf("file size should be at most %d bytes", limits.MaxImageSize)}
		}
	}
	return nil
}

type assetAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryUploader uploads images concurrently into a Cloudinary folder.
type CloudinaryUploader struct {
	api    assetAPI
	folder string
	logger *zap.Logger
}

// NewCloudinaryUploader builds an uploader from configuration.
func NewCloudinaryUploader(cfg config.StorageConfig, logger *zap.Logger) (*CloudinaryUploader, error) {
	if !cfg.Enabled() {
		return nil, ErrUploadsDisabled
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}
	return &CloudinaryUploader{api: &cld.Upload, folder: cfg.Folder, logger: logger}, nil
}

// Upload stores every image; the first failure cancels the rest.
func (u *CloudinaryUploader) Upload(ctx context.Context, images []Image) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}

	urls := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			resp, err := u.api.Upload(gctx, img.Content, uploader.UploadParams{Folder: u.folder})
			if err != nil {
				return fmt.Errorf("upload %s: %w", img.Name, err)
			}
			if resp.Error.Message != "" {
				return fmt.Errorf("upload %s: %s", img.Name, resp.Error.Message)
			}
			urls[i] = resp.SecureURL
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		u.logger.Warn("image upload failed", zap.Error(err))
		return nil, err
	}
	return urls, nil
}

// Disabled rejects any upload; used when storage credentials are absent.
type Disabled struct{}

// Upload returns ErrUploadsDisabled for non-empty input.
func (Disabled) Upload(_ context.Context, images []Image) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}
	return nil, ErrUploadsDisabled
}
