package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/matthew8541/YelpCamp/internal/model"
)

// ReviewRepository persists review records in PostgreSQL.
type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Insert saves a new review. The id is assigned by the caller; created_at
// comes back from the database.
func (r *ReviewRepository) Insert(ctx context.Context, review *model.Review) error {
	err := r.db.QueryRowxContext(ctx, `
        INSERT INTO reviews (id, campground_id, author_id, body, rating)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at
    `, review.ID, review.CampgroundID, review.AuthorID, review.Body, review.Rating,
	).Scan(&review.CreatedAt)
	if err != nil {
		return fmt.Errorf("ReviewRepository.Insert: %w", err)
	}
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	var rev model.Review
	if err := r.db.GetContext(ctx, &rev, `SELECT * FROM reviews WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("ReviewRepository.FindByID: %w", err)
	}
	return &rev, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ReviewRepository.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ReviewRepository.Delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("ReviewRepository.Delete: %w", sql.ErrNoRows)
	}
	return nil
}

// DeleteByIDs removes every review whose id appears in ids. Used by the
// campground delete cascade.
func (r *ReviewRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("ReviewRepository.DeleteByIDs: %w", err)
	}
	return nil
}
