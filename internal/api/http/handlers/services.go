package handlers

import (
	"context"

	"github.com/spec-kit/starbite-api/internal/auth"
	"github.com/spec-kit/starbite-api/internal/domain"
	"github.com/spec-kit/starbite-api/internal/service"
	"github.com/spec-kit/starbite-api/internal/storage"
)

// AuthService is the account and token workflow behind the user and auth handlers.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, auth.TokenPair, error)
	Refresh(subject string) (auth.Credential, error)
}

// RestaurantService backs the restaurant handlers.
type RestaurantService interface {
	Create(ctx context.Context, actorID string, restaurant domain.NewRestaurant, images []storage.Image) (string, error)
	Get(ctx context.Context, id string) (*domain.Restaurant, error)
	Search(ctx context.Context, query domain.GeoQuery) ([]domain.RestaurantPreview, error)
}

// ReviewService backs the review handlers.
type ReviewService interface {
	Create(ctx context.Context, actorID string, review domain.NewReview, images []storage.Image) (string, error)
	GetEditable(ctx context.Context, actorID, reviewID string) (*domain.EditableReview, error)
	Update(ctx context.Context, actorID string, patch domain.ReviewPatch) (*domain.PatchedReview, error)
}

// FeedService backs the home page.
type FeedService interface {
	Home(ctx context.Context) (*domain.HomeFeed, error)
}

// ProfileService backs the profile page.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
}
