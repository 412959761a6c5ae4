package domain

import "time"

// Restaurant is the full restaurant record with its aggregated reviews.
type Restaurant struct {
	ID          string
	Name        string
	Description *string
	Address     string
	Latitude    float64
	Longitude   float64
	Categories  []string
	AddedBy     string
	Rating      float64
	Images      []string
	Reviews     []Review
	DateAdded   time.Time
	EditedAt    *time.Time
}

// NewRestaurant holds the fields needed to insert a restaurant.
type NewRestaurant struct {
	Name        string
	Description *string
	Address     string
	Latitude    float64
	Longitude   float64
	Categories  []string
	AddedBy     string
	Images      []string
}

// RestaurantPreview is the card shown in search results and the home feed.
type RestaurantPreview struct {
	ID         string
	Name       string
	Rating     float64
	Address    string
	Categories []string
	Images     []string
	DateAdded  time.Time
}

// GeoQuery describes a radius search around a point.
type GeoQuery struct {
	Latitude  float64
	Longitude float64
	// RadiusMeters is the search distance on the spheroid.
	RadiusMeters float64
}
