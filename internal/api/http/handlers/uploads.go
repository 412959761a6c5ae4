package handlers

import (
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/starbite-api/internal/storage"
	apperrors "github.com/spec-kit/starbite-api/pkg/util"
)

const imagesField = "images"

// formImages opens the uploaded files of a multipart request. The returned
// closer must be called once the images have been consumed.
func formImages(c *fiber.Ctx) ([]storage.Image, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil, noop, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, noop, apperrors.NewValidationError("invalid multipart form", nil)
	}

	headers := form.File[imagesField]
	images := make([]storage.Image, 0, len(headers))
	files := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, noop, apperrors.NewValidationError("unreadable image", map[string]any{"field": fh.Filename})
		}
		files = append(files, f)
		images = append(images, storage.Image{
			Name:        fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
			Content:     f,
		})
	}
	return images, closeAll, nil
}
