package service

import (
	"context"
	"errors"
	"math"
	"strconv"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/starbite-api/internal/domain"
	"github.com/spec-kit/starbite-api/internal/events"
	"github.com/spec-kit/starbite-api/internal/repository"
	"github.com/spec-kit/starbite-api/internal/storage"
	apperrors "github.com/spec-kit/starbite-api/pkg/util"
)

const (
	// DefaultSearchRadius applies when the caller gives no radius.
	DefaultSearchRadius = 2000.0
	// MaxSearchRadius bounds a single geo query.
	MaxSearchRadius = 50000.0
)

// RestaurantService handles restaurant creation, lookup and geo search.
type RestaurantService struct {
	restaurants repository.RestaurantRepository
	images      *imageIntake
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewRestaurantService creates the service.
func NewRestaurantService(
	restaurants repository.RestaurantRepository,
	uploader storage.ImageUploader,
	limits storage.Limits,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *RestaurantService {
	return &RestaurantService{
		restaurants: restaurants,
		images:      &imageIntake{uploader: uploader, limits: limits},
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// Create uploads the images and stores the restaurant.
func (s *RestaurantService) Create(ctx context.Context, actorID string, restaurant domain.NewRestaurant, images []storage.Image) (string, error) {
	urls, err := s.images.accept(ctx, images)
	if err != nil {
		return "", err
	}
	restaurant.AddedBy = actorID
	restaurant.Images = urls

	id, err := s.restaurants.Create(ctx, &restaurant)
	if err != nil {
		if errors.Is(err, repository.ErrMissingAuthor) {
			return "", apperrors.NewNotFound("user", map[string]any{"id": actorID})
		}
		return "", apperrors.NewInternalError(err)
	}

	s.logger.Info("restaurant created", zap.String("restaurant_id", id), zap.String("user_id", actorID))
	_ = s.dispatcher.Publish(ctx, events.New(events.EventRestaurantCreated, actorID, events.RestaurantCreatedPayload{
		RestaurantID: id,
		Name:         restaurant.Name,
	}))
	return id, nil
}

// Get returns the restaurant with its reviews.
func (s *RestaurantService) Get(ctx context.Context, id string) (*domain.Restaurant, error) {
	restaurant, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("restaurant", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return restaurant, nil
}

// Search finds restaurants within the query radius.
func (s *RestaurantService) Search(ctx context.Context, query domain.GeoQuery) ([]domain.RestaurantPreview, error) {
	if !withinBound(query.Latitude, 90) || !withinBound(query.Longitude, 180) {
		return nil, apperrors.NewValidationError("invalid user location coordinates", map[string]any{
			"lat": formatCoordinate(query.Latitude),
			"lng": formatCoordinate(query.Longitude),
		})
	}
	if math.IsNaN(query.RadiusMeters) {
		return nil, apperrors.NewValidationError("invalid radius", map[string]any{"radius": "NaN"})
	}
	if query.RadiusMeters <= 0 {
		query.RadiusMeters = DefaultSearchRadius
	}
	if query.RadiusMeters > MaxSearchRadius {
		query.RadiusMeters = MaxSearchRadius
	}

	previews, err := s.restaurants.SearchNearby(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return previews, nil
}

// withinBound reports whether v is a real number in [-bound, bound].
func withinBound(v, bound float64) bool {
	return !math.IsNaN(v) && v >= -bound && v <= bound
}

// formatCoordinate keeps NaN and Inf encodable in JSON error details.
func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
