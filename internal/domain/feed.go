package domain

// HomeFeed aggregates the most recent activity.
type HomeFeed struct {
	Reviews     []RecentReview
	Restaurants []RestaurantPreview
}

// Profile is a user together with their review history.
type Profile struct {
	User    User
	Reviews []HistoryReview
}
