package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/starbite-api/internal/api/dto"
)

// HomeHandler serves the landing page feed.
type HomeHandler struct {
	feed FeedService
}

// NewHomeHandler constructs handler.
func NewHomeHandler(feed FeedService) *HomeHandler {
	return &HomeHandler{feed: feed}
}

// Home GET /api/v1/home.
func (h *HomeHandler) Home(c *fiber.Ctx) error {
	feed, err := h.feed.Home(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewHomeFeedResponse(feed)})
}
