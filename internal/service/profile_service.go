package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/starbite-api/internal/domain"
	"github.com/spec-kit/starbite-api/internal/repository"
	apperrors "github.com/spec-kit/starbite-api/pkg/util"
)

// ProfileService returns a user and their review history.
type ProfileService struct {
	users   repository.UserRepository
	reviews repository.ReviewRepository
}

// NewProfileService creates the service.
func NewProfileService(users repository.UserRepository, reviews repository.ReviewRepository) *ProfileService {
	return &ProfileService{users: users, reviews: reviews}
}

// Get loads the profile of userID.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return nil, apperrors.NewInternalError(err)
	}

	history, err := s.reviews.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &domain.Profile{User: *user, Reviews: history}, nil
}
