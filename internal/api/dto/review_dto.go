package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/starbite-api/internal/domain"
)

// CreateReviewRequest is the multipart form for a new review.
type CreateReviewRequest struct {
	RestaurantID string   `form:"restaurantId" validate:"required,uuid"`
	Review       string   `form:"review" validate:"max=255"`
	Rating       *float64 `form:"rating" validate:"required,gte=0.5,lte=5"`
}

// ToDomain converts the form into the insert model.
func (r CreateReviewRequest) ToDomain() domain.NewReview {
	out := domain.NewReview{RestaurantID: r.RestaurantID, Text: optionalText(r.Review)}
	if r.Rating != nil {
		out.Rating = *r.Rating
	}
	return out
}

// UpdateReviewRequest is the PATCH body.
type UpdateReviewRequest struct {
	ID     string   `json:"id" validate:"required,uuid"`
	Review string   `json:"review" validate:"max=255"`
	Rating *float64 `json:"rating" validate:"required,gte=0.5,lte=5"`
}

// ToDomain converts the body into a patch.
func (r UpdateReviewRequest) ToDomain() domain.ReviewPatch {
	out := domain.ReviewPatch{ID: r.ID, Text: optionalText(r.Review)}
	if r.Rating != nil {
		out.Rating = *r.Rating
	}
	return out
}

// EditableReviewResponse is a review opened for editing.
type EditableReviewResponse struct {
	Text   *string `json:"text"`
	Rating float64 `json:"rating"`
}

// PatchedReviewResponse is returned after an edit.
type PatchedReviewResponse struct {
	Text     *string   `json:"text"`
	Rating   float64   `json:"rating"`
	EditedAt time.Time `json:"editedAt"`
}

// RecentReviewResponse is a review card on the home feed.
type RecentReviewResponse struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurantId"`
	Text         *string   `json:"text"`
	Rating       float64   `json:"rating"`
	AuthorName   string    `json:"authorName"`
	AuthorImage  *string   `json:"authorImage"`
	DateAdded    time.Time `json:"dateAdded"`
}

// HomeFeedResponse is the landing page payload.
type HomeFeedResponse struct {
	Reviews     []RecentReviewResponse      `json:"reviews"`
	Restaurants []RestaurantPreviewResponse `json:"restaurants"`
}

// NewHomeFeedResponse renders the feed.
func NewHomeFeedResponse(feed *domain.HomeFeed) HomeFeedResponse {
	reviews := make([]RecentReviewResponse, 0, len(feed.Reviews))
	for _, r := range feed.Reviews {
		reviews = append(reviews, RecentReviewResponse{
			ID:           r.ID,
			RestaurantID: r.RestaurantID,
			Text:         r.Text,
			Rating:       r.Rating,
			AuthorName:   r.AuthorName,
			AuthorImage:  r.AuthorImage,
			DateAdded:    r.DateAdded,
		})
	}
	return HomeFeedResponse{Reviews: reviews, Restaurants: NewRestaurantPreviews(feed.Restaurants)}
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
