package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/starbite-api/internal/api/dto"
	"github.com/spec-kit/starbite-api/internal/auth"
	apperrors "github.com/spec-kit/starbite-api/pkg/util"
)

// AuthHandler exposes login and the refresh exchange.
type AuthHandler struct {
	auth AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	_, pair, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLoginResponse(pair)})
}

// Token handles POST /api/v1/auth/token. The refresh guard has already
// vetted the refresh credential and stored its subject.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("refresh token required")
	}
	cred, err := h.auth.Refresh(subject)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTokenResponse(cred)})
}
