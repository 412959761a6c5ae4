package domain

import "time"

// User is a registered reviewer.
type User struct {
	ID           string
	Name         string
	Email        string
	Image        *string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Author is the public projection of a user shown next to reviews.
type Author struct {
	ID    string
	Name  string
	Email string
	Image *string
}
