package dto

import (
	"time"

	"github.com/spec-kit/starbite-api/internal/auth"
	"github.com/spec-kit/starbite-api/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Image    *string `json:"image" validate:"omitempty,url"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Image *string `json:"image"`
}

// TokenResponse is a single issued credential.
type TokenResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	ExpiresAt int64  `json:"expiresAt"`
}

// LoginResponse carries both credentials issued at login.
type LoginResponse struct {
	AccessToken  TokenResponse `json:"accessToken"`
	RefreshToken TokenResponse `json:"refreshToken"`
}

// HistoryReviewResponse is a review on the author's profile.
type HistoryReviewResponse struct {
	ID           string     `json:"id"`
	RestaurantID string     `json:"restaurantId"`
	Text         *string    `json:"text"`
	Rating       float64    `json:"rating"`
	Likes        int        `json:"likes"`
	Dislikes     int        `json:"dislikes"`
	DateAdded    time.Time  `json:"dateAdded"`
	DateEdited   *time.Time `json:"dateEdited"`
}

// ProfileResponse is the caller's account and review history.
type ProfileResponse struct {
	User    UserResponse            `json:"user"`
	Reviews []HistoryReviewResponse `json:"reviews"`
}

// NewUserResponse hides the password hash.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image}
}

// NewTokenResponse renders a credential with its epoch-second expiry.
func NewTokenResponse(cred auth.Credential) TokenResponse {
	return TokenResponse{
		Token:     cred.Token,
		Type:      string(cred.Kind) + "_token",
		ExpiresAt: cred.ExpiresAt.Unix(),
	}
}

// NewLoginResponse renders an issued pair.
func NewLoginResponse(pair auth.TokenPair) LoginResponse {
	return LoginResponse{
		AccessToken:  NewTokenResponse(pair.Access),
		RefreshToken: NewTokenResponse(pair.Refresh),
	}
}

// NewProfileResponse renders a profile.
func NewProfileResponse(p *domain.Profile) ProfileResponse {
	reviews := make([]HistoryReviewResponse, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		reviews = append(reviews, HistoryReviewResponse{
			ID:           r.ID,
			RestaurantID: r.RestaurantID,
			Text:         r.Text,
			Rating:       r.Rating,
			Likes:        r.Likes,
			Dislikes:     r.Dislikes,
			DateAdded:    r.DateAdded,
			DateEdited:   r.EditedAt,
		})
	}
	return ProfileResponse{User: NewUserResponse(&p.User), Reviews: reviews}
}
