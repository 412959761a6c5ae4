package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/starbite-api/internal/domain"
)

// RestaurantRepository encapsulates restaurant persistence and geo search.
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *domain.NewRestaurant) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Restaurant, error)
	SearchNearby(ctx context.Context, query domain.GeoQuery) ([]domain.RestaurantPreview, error)
	ListRecent(ctx context.Context, limit int) ([]domain.RestaurantPreview, error)
}

type restaurantRepository struct {
	pool *pgxpool.Pool
}

// NewRestaurantRepository instantiates repository.
func NewRestaurantRepository(pool *pgxpool.Pool) RestaurantRepository {
	return &restaurantRepository{pool: pool}
}

// previewColumns selects the card fields; rating and images come from
// correlated subqueries so a restaurant without images or reviews still matches.
const previewColumns = `
        r.id, r.name,
        COALESCE((SELECT ROUND(AVG(rv.rating), 2) FROM reviews rv WHERE rv.restaurant_id = r.id), 0)::float8 AS rating,
        r.address, r.categories,
        COALESCE((SELECT array_agg(i.url ORDER BY i.id) FROM images_restaurants i WHERE i.restaurant_id = r.id), '{}'::text[]) AS images,
        r.date_added`

func (r *restaurantRepository) Create(ctx context.Context, restaurant *domain.NewRestaurant) (string, error) {
	const insertRestaurant = `
        INSERT INTO restaurants (name, description, address, latitude, longitude, categories, added_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`
	const insertImage = `INSERT INTO images_restaurants (restaurant_id, url) VALUES ($1, $2)`

	categories := restaurant.Categories
	if categories == nil {
		categories = []string{}
	}

	var id string
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertRestaurant,
			restaurant.Name,
			restaurant.Description,
			restaurant.Address,
			restaurant.Latitude,
			restaurant.Longitude,
			categories,
			restaurant.AddedBy,
		).Scan(&id); err != nil {
			return err
		}
		for _, url := range restaurant.Images {
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

func (r *restaurantRepository) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	const query = `
        SELECT r.id, r.name, r.description, r.address, r.latitude, r.longitude, r.categories, r.added_by,
               COALESCE((SELECT ROUND(AVG(rv.rating), 2) FROM reviews rv WHERE rv.restaurant_id = r.id), 0)::float8,
               COALESCE((SELECT array_agg(i.url ORDER BY i.id) FROM images_restaurants i WHERE i.restaurant_id = r.id), '{}'::text[]),
               r.date_added, r.edited_at
        FROM restaurants r
        WHERE r.id = $1`

	var restaurant domain.Restaurant
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&restaurant.ID,
		&restaurant.Name,
		&restaurant.Description,
		&restaurant.Address,
		&restaurant.Latitude,
		&restaurant.Longitude,
		&restaurant.Categories,
		&restaurant.AddedBy,
		&restaurant.Rating,
		&restaurant.Images,
		&restaurant.DateAdded,
		&restaurant.EditedAt,
	); err != nil {
		return nil, err
	}

	reviews, err := r.listReviews(ctx, id)
	if err != nil {
		return nil, err
	}
	restaurant.Reviews = reviews
	return &restaurant, nil
}

func (r *restaurantRepository) listReviews(ctx context.Context, restaurantID string) ([]domain.Review, error) {
	const query = `
        SELECT rv.id, rv.restaurant_id, rv.text, rv.rating::float8, rv.likes, rv.dislikes,
               rv.date_added, rv.edited_at,
               u.id, u.name, u.email, u.image,
               COALESCE((SELECT array_agg(i.url ORDER BY i.id) FROM images_reviews i WHERE i.review_id = rv.id), '{}'::text[])
        FROM reviews rv
        JOIN users u ON u.id = rv.added_by
        WHERE rv.restaurant_id = $1
        ORDER BY rv.date_added DESC`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID,
			&review.RestaurantID,
			&review.Text,
			&review.Rating,
			&review.Likes,
			&review.Dislikes,
			&review.DateAdded,
			&review.EditedAt,
			&review.Author.ID,
			&review.Author.Name,
			&review.Author.Email,
			&review.Author.Image,
			&review.Images,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *restaurantRepository) SearchNearby(ctx context.Context, query domain.GeoQuery) ([]domain.RestaurantPreview, error) {
	const sql = `
        SELECT` + previewColumns + `
        FROM restaurants r
        WHERE ST_DWithin(r.location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
        ORDER BY ST_Distance(r.location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography)`

	rows, err := r.pool.Query(ctx, sql, query.Longitude, query.Latitude, query.RadiusMeters)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPreviews(rows)
}

func (r *restaurantRepository) ListRecent(ctx context.Context, limit int) ([]domain.RestaurantPreview, error) {
	const sql = `
        SELECT` + previewColumns + `
        FROM restaurants r
        ORDER BY r.date_added DESC
        LIMIT $1`

	rows, err := r.pool.Query(ctx, sql, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPreviews(rows)
}

func scanPreviews(rows pgx.Rows) ([]domain.RestaurantPreview, error) {
	result := make([]domain.RestaurantPreview, 0)
	for rows.Next() {
		var preview domain.RestaurantPreview
		if err := rows.Scan(
			&preview.ID,
			&preview.Name,
			&preview.Rating,
			&preview.Address,
			&preview.Categories,
			&preview.Images,
			&preview.DateAdded,
		); err != nil {
			return nil, err
		}
		result = append(result, preview)
	}
	return result, rows.Err()
}
