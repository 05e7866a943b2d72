package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/matthew8541/YelpCamp/internal/model"
)

// ErrCampgroundNotFound is returned when the target campground does not
// resolve to a live record.
var ErrCampgroundNotFound = errors.New("campground not found")

// ReviewRepository is the review persistence surface ReviewService needs.
type ReviewRepository interface {
	Insert(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id string) error
}

// CampgroundRefRepository is the campground side of the review attach and
// detach sequences.
type CampgroundRefRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	AttachReview(ctx context.Context, campgroundID, reviewID string) error
	DetachReview(ctx context.Context, campgroundID, reviewID string) error
}

// ReviewService creates and deletes reviews, keeping the review row and the
// parent campground's reference list in step. The two writes in each
// operation are separate statements, not one transaction; a crash in
// between leaves an orphan row or a dangling reference.
type ReviewService struct {
	reviews     ReviewRepository
	campgrounds CampgroundRefRepository
}

func NewReviewService(reviews ReviewRepository, campgrounds CampgroundRefRepository) *ReviewService {
	return &ReviewService{reviews: reviews, campgrounds: campgrounds}
}

// Create inserts a review and then appends its reference to the parent
// campground's review list.
func (s *ReviewService) Create(ctx context.Context, campgroundID, authorID, body string, rating int) (*model.Review, error) {
	exists, err := s.campgrounds.Exists(ctx, campgroundID)
	if err != nil {
		return nil, fmt.Errorf("ReviewService.Create: %w", err)
	}
	if !exists {
		return nil, ErrCampgroundNotFound
	}

	rev := &model.Review{
		ID:           uuid.NewString(),
		CampgroundID: campgroundID,
		AuthorID:     authorID,
		Body:         body,
		Rating:       rating,
	}
	if err := s.reviews.Insert(ctx, rev); err != nil {
		return nil, fmt.Errorf("ReviewService.Create: %w", err)
	}
	if err := s.campgrounds.AttachReview(ctx, campgroundID, rev.ID); err != nil {
		return nil, fmt.Errorf("ReviewService.Create: attach: %w", err)
	}
	return rev, nil
}

// Delete removes the review's reference from the parent campground and then
// deletes the review row.
func (s *ReviewService) Delete(ctx context.Context, campgroundID, reviewID string) error {
	if err := s.campgrounds.DetachReview(ctx, campgroundID, reviewID); err != nil {
		return fmt.Errorf("ReviewService.Delete: detach: %w", err)
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("ReviewService.Delete: %w", err)
	}
	return nil
}
