package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/starbite-api/internal/api/dto"
	"github.com/spec-kit/starbite-api/internal/auth"
	"github.com/spec-kit/starbite-api/internal/service"
	apperrors "github.com/spec-kit/starbite-api/pkg/util"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	auth    AuthService
	profile ProfileService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService AuthService, profileService ProfileService) *UsersHandler {
	return &UsersHandler{auth: authService, profile: profileService}
}

// Register handles POST /api/v1/users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Image:    req.Image,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Profile handles GET /api/v1/profile.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	profile, err := h.profile.Get(c.UserContext(), subject)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(profile)})
}
