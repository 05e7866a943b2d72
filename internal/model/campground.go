package model

import (
	"time"

	"github.com/lib/pq"
)

// Campground is the primary listed resource. The author is set once at
// creation and never reassigned. ReviewIDs is the ordered list of review
// references owned by this campground; the review rows themselves live in
// the reviews table.
type Campground struct {
	ID          string         `db:"id" json:"id"`
	AuthorID    string         `db:"author_id" json:"authorId"`
	Title       string         `db:"title" json:"title"`
	Image       string         `db:"image" json:"image"`
	Price       float64        `db:"price" json:"price"`
	Description string         `db:"description" json:"description"`
	Location    string         `db:"location" json:"location"`
	PhotoFileID string         `db:"photo_file_id" json:"-"`
	ReviewIDs   pq.StringArray `db:"review_ids" json:"reviewIds"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// CampgroundDetail is a campground with its author and reviews eager-loaded
// for the detail view.
type CampgroundDetail struct {
	Campground
	Author  string         `db:"author" json:"author"`
	Reviews []ReviewDetail `db:"-" json:"reviews"`
}

// ReviewDetail is a review joined with its author's username.
type ReviewDetail struct {
	Review
	Author string `db:"author" json:"author"`
}
