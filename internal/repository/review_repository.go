package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/starbite-api/internal/domain"
)

// ReviewRepository encapsulates review persistence. Ownership is enforced in
// SQL: reads and writes for editing match on both id and author.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.NewReview) (string, error)
	GetEditable(ctx context.Context, id, authorID string) (*domain.EditableReview, error)
	Update(ctx context.Context, patch domain.ReviewPatch, editedAt time.Time) (*domain.PatchedReview, error)
	ListRecent(ctx context.Context, limit int) ([]domain.RecentReview, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.HistoryReview, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository instantiates repository.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.NewReview) (string, error) {
	const insertReview = `
        INSERT INTO reviews (rating, text, restaurant_id, added_by)
        VALUES ($1, $2, $3, $4)
        RETURNING id`
	const insertImage = `INSERT INTO images_reviews (review_id, url) VALUES ($1, $2)`

	var id string
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertReview,
			review.Rating,
			review.Text,
			review.RestaurantID,
			review.AuthorID,
		).Scan(&id); err != nil {
			return err
		}
		for _, url := range review.Images {
			if _, err := tx.Exec(ctx, insertImage, id, url); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", translate(err)
	}
	return id, nil
}

func (r *reviewRepository) GetEditable(ctx context.Context, id, authorID string) (*domain.EditableReview, error) {
	const query = `
        SELECT text, rating::float8
        FROM reviews
        WHERE id = $1 AND added_by = $2`

	var review domain.EditableReview
	if err := r.pool.QueryRow(ctx, query, id, authorID).Scan(&review.Text, &review.Rating); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Update(ctx context.Context, patch domain.ReviewPatch, editedAt time.Time) (*domain.PatchedReview, error) {
	const query = `
        UPDATE reviews
        SET text = $1, rating = $2, edited_at = $3
        WHERE id = $4 AND added_by = $5
        RETURNING text, rating::float8, edited_at`

	var patched domain.PatchedReview
	if err := r.pool.QueryRow(ctx, query,
		patch.Text,
		patch.Rating,
		editedAt,
		patch.ID,
		patch.AuthorID,
	).Scan(&patched.Text, &patched.Rating, &patched.EditedAt); err != nil {
		return nil, err
	}
	return &patched, nil
}

func (r *reviewRepository) ListRecent(ctx context.Context, limit int) ([]domain.RecentReview, error) {
	const query = `
        SELECT rv.id, rv.restaurant_id, rv.text, rv.rating::float8, u.name, u.image, rv.date_added
        FROM reviews rv
        JOIN users u ON rv.added_by = u.id
        ORDER BY rv.date_added DESC
        LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.RecentReview, 0, limit)
	for rows.Next() {
		var review domain.RecentReview
		if err := rows.Scan(
			&review.ID,
			&review.RestaurantID,
			&review.Text,
			&review.Rating,
			&review.AuthorName,
			&review.AuthorImage,
			&review.DateAdded,
		); err != nil {
			return nil, err
		}
		result = append(result, review)
	}
	return result, rows.Err()
}

func (r *reviewRepository) ListByAuthor(ctx context.Context, authorID string) ([]domain.HistoryReview, error) {
	const query = `
        SELECT id, restaurant_id, text, rating::float8, likes, dislikes, date_added, edited_at
        FROM reviews
        WHERE added_by = $1
        ORDER BY date_added DESC`

	rows, err := r.pool.Query(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.HistoryReview, 0)
	for rows.Next() {
		var review domain.HistoryReview
		if err := rows.Scan(
			&review.ID,
			&review.RestaurantID,
			&review.Text,
			&review.Rating,
			&review.Likes,
			&review.Dislikes,
			&review.DateAdded,
			&review.EditedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, review)
	}
	return result, rows.Err()
}
