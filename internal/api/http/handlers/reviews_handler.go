package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/starbite-api/internal/api/dto"
	"github.com/spec-kit/starbite-api/internal/auth"
	apperrors "github.com/spec-kit/starbite-api/pkg/util"
)

// ReviewsHandler manages review endpoints. All of them require an access token.
type ReviewsHandler struct {
	service ReviewService
}

// NewReviewsHandler constructs handler.
func NewReviewsHandler(reviewService ReviewService) *ReviewsHandler {
	return &ReviewsHandler{service: reviewService}
}

// Create POST /api/v1/reviews.
func (h *ReviewsHandler) Create(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}
	images, closeImages, err := formImages(c)
	if err != nil {
		return err
	}
	defer closeImages()

	id, err := h.service.Create(c.UserContext(), subject, req.ToDomain(), images)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.IDResponse{ID: id}})
}

// GetEditable GET /api/v1/edit/reviews/:reviewId.
func (h *ReviewsHandler) GetEditable(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	id := c.Params("reviewId")
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewValidationError("invalid review id", map[string]any{"reviewId": id})
	}
	review, err := h.service.GetEditable(c.UserContext(), subject, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.EditableReviewResponse{Text: review.Text, Rating: review.Rating}})
}

// Update PATCH /api/v1/reviews.
func (h *ReviewsHandler) Update(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.UpdateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}
	patched, err := h.service.Update(c.UserContext(), subject, req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PatchedReviewResponse{
		Text:     patched.Text,
		Rating:   patched.Rating,
		EditedAt: patched.EditedAt,
	}})
}
