package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRestaurantCreated EventType = "restaurant_created"
	EventReviewCreated     EventType = "review_created"
	EventReviewUpdated     EventType = "review_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	ActorID   string    `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// RestaurantCreatedPayload payload.
type RestaurantCreatedPayload struct {
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
}

// ReviewPayload is shared by review_created and review_updated.
type ReviewPayload struct {
	ReviewID     string  `json:"review_id"`
	RestaurantID string  `json:"restaurant_id,omitempty"`
	Rating       float64 `json:"rating"`
}
