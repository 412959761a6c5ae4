package domain

import "time"

// Review is a rating left by a user on a restaurant.
type Review struct {
	ID           string
	RestaurantID string
	Text         *string
	Rating       float64
	Likes        int
	Dislikes     int
	Author       Author
	Images       []string
	DateAdded    time.Time
	EditedAt     *time.Time
}

// NewReview holds the fields needed to insert a review.
type NewReview struct {
	RestaurantID string
	AuthorID     string
	Text         *string
	Rating       float64
	Images       []string
}

// ReviewPatch updates the text and rating of a review owned by AuthorID.
type ReviewPatch struct {
	ID       string
	AuthorID string
	Text     *string
	Rating   float64
}

// EditableReview is what the owner sees when opening a review for editing.
type EditableReview struct {
	Text   *string
	Rating float64
}

// PatchedReview is returned after a successful update.
type PatchedReview struct {
	Text     *string
	Rating   float64
	EditedAt time.Time
}

// RecentReview is a review card on the home feed.
type RecentReview struct {
	ID           string
	RestaurantID string
	Text         *string
	Rating       float64
	AuthorName   string
	AuthorImage  *string
	DateAdded    time.Time
}

// HistoryReview is a review listed on its author's profile.
type HistoryReview struct {
	ID           string
	RestaurantID string
	Text         *string
	Rating       float64
	Likes        int
	Dislikes     int
	DateAdded    time.Time
	EditedAt     *time.Time
}
