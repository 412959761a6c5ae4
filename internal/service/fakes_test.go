package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/starbite-api/internal/domain"
	"github.com/spec-kit/starbite-api/internal/repository"
	"github.com/spec-kit/starbite-api/internal/storage"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.nextID++
	user.ID = "user-" + strconv.Itoa(r.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.byID[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeRestaurantRepo struct {
	mu          sync.Mutex
	created     []domain.NewRestaurant
	restaurants map[string]*domain.Restaurant
	lastQuery   domain.GeoQuery
	searchCalls int
	recent      []domain.RestaurantPreview
	recentCalls int
}

func newFakeRestaurantRepo() *fakeRestaurantRepo {
	return &fakeRestaurantRepo{restaurants: map[string]*domain.Restaurant{}}
}

func (r *fakeRestaurantRepo) Create(_ context.Context, restaurant *domain.NewRestaurant) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, *restaurant)
	id := "restaurant-" + strconv.Itoa(len(r.created))
	r.restaurants[id] = &domain.Restaurant{ID: id, Name: restaurant.Name, Images: restaurant.Images}
	return id, nil
}

func (r *fakeRestaurantRepo) GetByID(_ context.Context, id string) (*domain.Restaurant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rest, ok := r.restaurants[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return rest, nil
}

func (r *fakeRestaurantRepo) SearchNearby(_ context.Context, query domain.GeoQuery) ([]domain.RestaurantPreview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = query
	r.searchCalls++
	return []domain.RestaurantPreview{}, nil
}

func (r *fakeRestaurantRepo) ListRecent(_ context.Context, limit int) ([]domain.RestaurantPreview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recentCalls++
	if len(r.recent) > limit {
		return r.recent[:limit], nil
	}
	return r.recent, nil
}

type fakeReviewRepo struct {
	mu          sync.Mutex
	reviews     map[string]*domain.NewReview
	edited      map[string]time.Time
	knownRests  map[string]bool
	recent      []domain.RecentReview
	recentCalls int
	nextID      int

	deletedUsers map[string]bool
}

func newFakeReviewRepo(restaurantIDs ...string) *fakeReviewRepo {
	known := map[string]bool{}
	for _, id := range restaurantIDs {
		known[id] = true
	}
	return &fakeReviewRepo{reviews: map[string]*domain.NewReview{}, edited: map[string]time.Time{}, knownRests: known}
}

func (r *fakeReviewRepo) Create(_ context.Context, review *domain.NewReview) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deletedUsers[review.AuthorID] {
		return "", repository.ErrMissingAuthor
	}
	if !r.knownRests[review.RestaurantID] {
		return "", repository.ErrMissingReference
	}
	r.nextID++
	id := "review-" + strconv.Itoa(r.nextID)
	stored := *review
	r.reviews[id] = &stored
	return id, nil
}

func (r *fakeReviewRepo) GetEditable(_ context.Context, id, authorID string) (*domain.EditableReview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok || rv.AuthorID != authorID {
		return nil, pgx.ErrNoRows
	}
	return &domain.EditableReview{Text: rv.Text, Rating: rv.Rating}, nil
}

func (r *fakeReviewRepo) Update(_ context.Context, patch domain.ReviewPatch, editedAt time.Time) (*domain.PatchedReview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[patch.ID]
	if !ok || rv.AuthorID != patch.AuthorID {
		return nil, pgx.ErrNoRows
	}
	rv.Text = patch.Text
	rv.Rating = patch.Rating
	r.edited[patch.ID] = editedAt
	return &domain.PatchedReview{Text: rv.Text, Rating: rv.Rating, EditedAt: editedAt}, nil
}

func (r *fakeReviewRepo) ListRecent(_ context.Context, limit int) ([]domain.RecentReview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recentCalls++
	if len(r.recent) > limit {
		return r.recent[:limit], nil
	}
	return r.recent, nil
}

func (r *fakeReviewRepo) ListByAuthor(_ context.Context, authorID string) ([]domain.HistoryReview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.HistoryReview, 0)
	for id, rv := range r.reviews {
		if rv.AuthorID == authorID {
			out = append(out, domain.HistoryReview{ID: id, RestaurantID: rv.RestaurantID, Text: rv.Text, Rating: rv.Rating})
		}
	}
	return out, nil
}

type fakeUploader struct {
	calls int
	err   error
}

func (u *fakeUploader) Upload(_ context.Context, images []storage.Image) ([]string, error) {
	u.calls++
	if u.err != nil {
		return nil, u.err
	}
	urls := make([]string, len(images))
	for i, img := range images {
		urls[i] = "https://cdn.example.com/" + img.Name
	}
	return urls, nil
}
