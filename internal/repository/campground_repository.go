package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/matthew8541/YelpCamp/internal/model"
)

// CampgroundRepository persists campground records in PostgreSQL. The
// campground row carries the ordered review_ids array; review rows live in
// the reviews table and are managed by ReviewRepository.
type CampgroundRepository struct {
	db *sqlx.DB
}

func NewCampgroundRepository(db *sqlx.DB) *CampgroundRepository {
	return &CampgroundRepository{db: db}
}

func (r *CampgroundRepository) Create(ctx context.Context, cg *model.Campground) error {
	_, err := r.db.NamedExecContext(ctx, `
        INSERT INTO campgrounds
            (id, author_id, title, image, price, description, location, photo_file_id, review_ids, created_at, updated_at)
        VALUES
            (:id, :author_id, :title, :image, :price, :description, :location, :photo_file_id, :review_ids, :created_at, :updated_at)
    `, cg)
	if err != nil {
		return fmt.Errorf("CampgroundRepository.Create: %w", err)
	}
	return nil
}

func (r *CampgroundRepository) FindAll(ctx context.Context) ([]model.Campground, error) {
	var list []model.Campground
	err := r.db.SelectContext(ctx, &list, `
		SELECT * FROM campgrounds
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("CampgroundRepository.FindAll: %w", err)
	}
	return list, nil
}

func (r *CampgroundRepository) FindByID(ctx context.Context, id string) (*model.Campground, error) {
	var cg model.Campground
	if err := r.db.GetContext(ctx, &cg, `SELECT * FROM campgrounds WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("CampgroundRepository.FindByID: %w", err)
	}
	return &cg, nil
}

// FindDetail loads a campground with its author's username and its reviews
// joined with their authors, ordered by position in the review_ids list.
func (r *CampgroundRepository) FindDetail(ctx context.Context, id string) (*model.CampgroundDetail, error) {
	var detail model.CampgroundDetail
	err := r.db.GetContext(ctx, &detail, `
		SELECT c.*, u.username AS author
		FROM campgrounds c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("CampgroundRepository.FindDetail: %w", err)
	}

	err = r.db.SelectContext(ctx, &detail.Reviews, `
		SELECT r.*, u.username AS author
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.campground_id = $1
		ORDER BY array_position((SELECT review_ids FROM campgrounds WHERE id = $1), r.id)
	`, id)
	if err != nil {
		return nil, fmt.Errorf("CampgroundRepository.FindDetail: %w", err)
	}
	return &detail, nil
}

func (r *CampgroundRepository) Update(ctx context.Context, cg *model.Campground) error {
	_, err := r.db.NamedExecContext(ctx, `
        UPDATE campgrounds SET
            title       = :title,
            image       = :image,
            price       = :price,
            description = :description,
            location    = :location,
            updated_at  = :updated_at
        WHERE id = :id
    `, cg)
	if err != nil {
		return fmt.Errorf("CampgroundRepository.Update: %w", err)
	}
	return nil
}

// Delete removes the campground row and returns the review ids it was
// referencing so the caller can run the cascade.
func (r *CampgroundRepository) Delete(ctx context.Context, id string) ([]string, error) {
	var reviewIDs pq.StringArray
	err := r.db.QueryRowxContext(ctx,
		`DELETE FROM campgrounds WHERE id = $1 RETURNING review_ids`, id,
	).Scan(&reviewIDs)
	if err != nil {
		return nil, fmt.Errorf("CampgroundRepository.Delete: %w", err)
	}
	return []string(reviewIDs), nil
}

// AttachReview appends a review reference to the campground's list.
func (r *CampgroundRepository) AttachReview(ctx context.Context, campgroundID, reviewID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE campgrounds
		SET review_ids = array_append(review_ids, $1), updated_at = now()
		WHERE id = $2
	`, reviewID, campgroundID)
	if err != nil {
		return fmt.Errorf("CampgroundRepository.AttachReview: %w", err)
	}
	return noneAffected("CampgroundRepository.AttachReview", res)
}

// DetachReview removes a review reference from the campground's list.
func (r *CampgroundRepository) DetachReview(ctx context.Context, campgroundID, reviewID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE campgrounds
		SET review_ids = array_remove(review_ids, $1), updated_at = now()
		WHERE id = $2
	`, reviewID, campgroundID)
	if err != nil {
		return fmt.Errorf("CampgroundRepository.DetachReview: %w", err)
	}
	return noneAffected("CampgroundRepository.DetachReview", res)
}

func (r *CampgroundRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM campgrounds WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("CampgroundRepository.Exists: %w", err)
	}
	return exists, nil
}

func (r *CampgroundRepository) UpdatePhotoFileID(ctx context.Context, id, fileID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE campgrounds SET photo_file_id = $1 WHERE id = $2`, fileID, id)
	if err != nil {
		return fmt.Errorf("CampgroundRepository.UpdatePhotoFileID: %w", err)
	}
	return nil
}

func noneAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, sql.ErrNoRows)
	}
	return nil
}
