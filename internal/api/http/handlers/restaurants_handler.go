package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/starbite-api/internal/api/dto"
	"github.com/spec-kit/starbite-api/internal/auth"
	"github.com/spec-kit/starbite-api/internal/domain"
	apperrors "github.com/spec-kit/starbite-api/pkg/util"
)

// RestaurantsHandler manages restaurant endpoints.
type RestaurantsHandler struct {
	service RestaurantService
}

// NewRestaurantsHandler constructs handler.
func NewRestaurantsHandler(restaurantService RestaurantService) *RestaurantsHandler {
	return &RestaurantsHandler{service: restaurantService}
}

// Search GET /api/v1/restaurants?loc=<lat>&loc=<lng>&radius=<m>.
func (h *RestaurantsHandler) Search(c *fiber.Ctx) error {
	query, err := parseGeoQuery(c)
	if err != nil {
		return err
	}
	previews, err := h.service.Search(c.UserContext(), query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRestaurantPreviews(previews)})
}

// Create POST /api/v1/restaurants.
func (h *RestaurantsHandler) Create(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.CreateRestaurantRequest
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

// Get GET /api/v1/restaurants/:restaurantId.
func (h *RestaurantsHandler) Get(c *fiber.Ctx) error {
	id := c.Params("restaurantId")
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewValidationError("invalid restaurant id", map[string]any{"restaurantId": id})
	}
	restaurant, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRestaurantResponse(restaurant)})
}

func parseGeoQuery(c *fiber.Ctx) (domain.GeoQuery, error) {
	loc := c.Context().QueryArgs().PeekMulti("loc")
	if len(loc) != 2 {
		return domain.GeoQuery{}, apperrors.NewValidationError("loc must be given twice: latitude then longitude", nil)
	}
	lat, errLat := strconv.ParseFloat(string(loc[0]), 64)
	lng, errLng := strconv.ParseFloat(string(loc[1]), 64)
	if errLat != nil || errLng != nil || !finite(lat) || !finite(lng) {
		return domain.GeoQuery{}, apperrors.NewValidationError("invalid user location coordinates", map[string]any{
			"loc": []string{string(loc[0]), string(loc[1])},
		})
	}

	query := domain.GeoQuery{Latitude: lat, Longitude: lng}
	if raw := c.Query("radius"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil || !finite(radius) || radius < 0 {
			return domain.GeoQuery{}, apperrors.NewValidationError("invalid radius", map[string]any{"radius": raw})
		}
		query.RadiusMeters = radius
	}
	return query, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
