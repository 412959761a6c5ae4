package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/starbite-api/internal/domain"
)

// CreateRestaurantRequest is the multipart form for a new restaurant.
type CreateRestaurantRequest struct {
	Name        string   `form:"name" validate:"required,min=2,max=100"`
	Description string   `form:"description" validate:"max=255"`
	Address     string   `form:"address" validate:"required,min=2,max=255"`
	Latitude    *float64 `form:"lat" validate:"required,gte=-90,lte=90"`
	Longitude   *float64 `form:"lng" validate:"required,gte=-180,lte=180"`
	Categories  []string `form:"categories" validate:"max=10,dive,min=1,max=50"`
}

// ToDomain converts the form into the insert model.
func (r CreateRestaurantRequest) ToDomain() domain.NewRestaurant {
	out := domain.NewRestaurant{
		Name:       strings.TrimSpace(r.Name),
		Address:    strings.TrimSpace(r.Address),
		Categories: r.Categories,
	}
	if r.Latitude != nil {
		out.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		out.Longitude = *r.Longitude
	}
	if d := strings.TrimSpace(r.Description); d != "" {
		out.Description = &d
	}
	if out.Categories == nil {
		out.Categories = []string{}
	}
	return out
}

// IDResponse is returned after a create.
type IDResponse struct {
	ID string `json:"id"`
}

// RestaurantPreviewResponse is a restaurant card.
type RestaurantPreviewResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Rating     float64  `json:"rating"`
	Address    string   `json:"address"`
	Categories []string `json:"categories"`
	Images     []string `json:"images"`
}

// AuthorResponse is the reviewer shown next to a review.
type AuthorResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Image *string `json:"image"`
}

// ReviewResponse is a review on the restaurant page.
type ReviewResponse struct {
	ID         string         `json:"id"`
	Text       *string        `json:"text"`
	Rating     float64        `json:"rating"`
	Author     AuthorResponse `json:"author"`
	Likes      int            `json:"likes"`
	Dislikes   int            `json:"dislikes"`
	Images     []string       `json:"images"`
	DateAdded  time.Time      `json:"dateAdded"`
	DateEdited *time.Time     `json:"dateEdited"`
}

// RestaurantResponse is the full restaurant page.
type RestaurantResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Lat         float64          `json:"lat"`
	Lng         float64          `json:"lng"`
	Rating      float64          `json:"rating"`
	AddedBy     string           `json:"addedBy"`
	Address     string           `json:"address"`
	Images      []string         `json:"images"`
	Categories  []string         `json:"categories"`
	Reviews     []ReviewResponse `json:"reviews"`
	DateAdded   time.Time        `json:"dateAdded"`
	DateEdited  *time.Time       `json:"dateEdited"`
}

// NewRestaurantPreviews renders search or feed cards.
func NewRestaurantPreviews(previews []domain.RestaurantPreview) []RestaurantPreviewResponse {
	out := make([]RestaurantPreviewResponse, 0, len(previews))
	for _, p := range previews {
		out = append(out, RestaurantPreviewResponse{
			ID:         p.ID,
			Name:       p.Name,
			Rating:     p.Rating,
			Address:    p.Address,
			Categories: nonNil(p.Categories),
			Images:     nonNil(p.Images),
		})
	}
	return out
}

// NewRestaurantResponse renders the restaurant page.
func NewRestaurantResponse(r *domain.Restaurant) RestaurantResponse {
	reviews := make([]ReviewResponse, 0, len(r.Reviews))
	for _, rv := range r.Reviews {
		reviews = append(reviews, ReviewResponse{
			ID:     rv.ID,
			Text:   rv.Text,
			Rating: rv.Rating,
			Author: AuthorResponse{
				ID:    rv.Author.ID,
				Name:  rv.Author.Name,
				Email: rv.Author.Email,
				Image: rv.Author.Image,
			},
			Likes:      rv.Likes,
			Dislikes:   rv.Dislikes,
			Images:     nonNil(rv.Images),
			DateAdded:  rv.DateAdded,
			DateEdited: rv.EditedAt,
		})
	}
	return RestaurantResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Lat:         r.Latitude,
		Lng:         r.Longitude,
		Rating:      r.Rating,
		AddedBy:     r.AddedBy,
		Address:     r.Address,
		Images:      nonNil(r.Images),
		Categories:  nonNil(r.Categories),
		Reviews:     reviews,
		DateAdded:   r.DateAdded,
		DateEdited:  r.EditedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
