package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/starbite-api/internal/domain"
	"github.com/spec-kit/starbite-api/internal/events"
	"github.com/spec-kit/starbite-api/internal/repository"
	"github.com/spec-kit/starbite-api/internal/storage"
	apperrors "github.com/spec-kit/starbite-api/pkg/util"
)

// ReviewService handles review creation and owner edits.
type ReviewService struct {
	reviews    repository.ReviewRepository
	images     *imageIntake
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewReviewService creates the service.
func NewReviewService(
	reviews repository.ReviewRepository,
	uploader storage.ImageUploader,
	limits storage.Limits,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		images:     &imageIntake{uploader: uploader, limits: limits},
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Create stores a review written by actorID.
func (s *ReviewService) Create(ctx context.Context, actorID string, review domain.NewReview, images []storage.Image) (string, error) {
	urls, err := s.images.accept(ctx, images)
	if err != nil {
		return "", err
	}
	review.AuthorID = actorID
	review.Images = urls

	id, err := s.reviews.Create(ctx, &review)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMissingAuthor):
			return "", apperrors.NewNotFound("user", map[string]any{"id": actorID})
		case errors.Is(err, repository.ErrMissingReference):
			return "", apperrors.NewNotFound("restaurant", map[string]any{"id": review.RestaurantID})
		}
		return "", apperrors.NewInternalError(err)
	}

	s.logger.Info("review created", zap.String("review_id", id), zap.String("restaurant_id", review.RestaurantID))
	_ = s.dispatcher.Publish(ctx, events.New(events.EventReviewCreated, actorID, events.ReviewPayload{
		ReviewID:     id,
		RestaurantID: review.RestaurantID,
		Rating:       review.Rating,
	}))
	return id, nil
}

// GetEditable returns a review only to its author.
func (s *ReviewService) GetEditable(ctx context.Context, actorID, reviewID string) (*domain.EditableReview, error) {
	review, err := s.reviews.GetEditable(ctx, reviewID, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("review", map[string]any{"id": reviewID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return review, nil
}

// Update changes text and rating of the actor's own review.
func (s *ReviewService) Update(ctx context.Context, actorID string, patch domain.ReviewPatch) (*domain.PatchedReview, error) {
	patch.AuthorID = actorID
	patched, err := s.reviews.Update(ctx, patch, s.now().UTC())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("review", map[string]any{"id": patch.ID})
		}
		return nil, apperrors.NewInternalError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.New(events.EventReviewUpdated, actorID, events.ReviewPayload{
		ReviewID: patch.ID,
		Rating:   patched.Rating,
	}))
	return patched, nil
}
