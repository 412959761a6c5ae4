package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/spec-kit/starbite-api/internal/storage"
	apperrors "github.com/spec-kit/starbite-api/pkg/util"
)

// imageIntake validates submitted images and hands them to the uploader.
type imageIntake struct {
	uploader storage.ImageUploader
	limits   storage.Limits
}

func (i *imageIntake) accept(ctx context.Context, images []storage.Image) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}
	if err := storage.Validate(images, i.limits); err != nil {
		var verr *storage.ValidationError
		if errors.As(err, &verr) {
			return nil, apperrors.NewValidationError(verr.Message, map[string]any{"field": verr.Field})
		}
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	urls, err := i.uploader.Upload(ctx, images)
	if err != nil {
		if errors.Is(err, storage.ErrUploadsDisabled) {
			return nil, apperrors.NewDomainError("STORAGE_UNAVAILABLE", "image uploads are unavailable", http.StatusServiceUnavailable, nil)
		}
		return nil, apperrors.NewDomainError("UPLOAD_FAILED", "failed to upload images", http.StatusBadGateway, nil)
	}
	return urls, nil
}
